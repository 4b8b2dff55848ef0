// Package scheduler implements the Execution Scheduler (component C6): the
// concurrency core that runs selected agents with bounded parallelism,
// per-agent rate limiting, circuit breaking, retries, and fallback
// activation, per spec.md §4.5.
package scheduler

import (
	"context"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/jason660519/jobseeker-sub001/internal/agent"
	"github.com/jason660519/jobseeker-sub001/internal/circuitbreaker"
	"github.com/jason660519/jobseeker-sub001/internal/config"
	"github.com/jason660519/jobseeker-sub001/internal/logging"
	"github.com/jason660519/jobseeker-sub001/internal/metrics"
	"github.com/jason660519/jobseeker-sub001/internal/ratelimit"
	"github.com/jason660519/jobseeker-sub001/internal/registry"
	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

// Emission is one agent's contribution, streamed to the Merger as soon as
// it is available rather than batched until the run ends (spec.md §4.5
// step 6).
type Emission struct {
	AgentID models.AgentID
	Records []models.JobRecord
}

// Scheduler owns the shared rate limiters and circuit breakers across runs;
// one Scheduler typically backs the whole Engine.
type Scheduler struct {
	agents   *agent.Registry
	registry *registry.Registry
	limiter  *ratelimit.Limiter
	breakers *circuitbreaker.Manager
	cfg      *config.EngineConfig
}

// New builds a Scheduler.
func New(agents *agent.Registry, reg *registry.Registry, limiter *ratelimit.Limiter, breakers *circuitbreaker.Manager, cfg *config.EngineConfig) *Scheduler {
	return &Scheduler{agents: agents, registry: reg, limiter: limiter, breakers: breakers, cfg: cfg}
}

// Handle is returned by Run: callers range over Emissions to stream
// records to the Merger, then call Wait for the final per-agent reports.
type Handle struct {
	Emissions <-chan Emission
	done      chan struct{}
	reports   []models.PerAgentReport
	exceeded  bool
}

// Wait blocks until the run's worker pool has drained. It must only be
// called after the Emissions channel has been fully drained (it is closed
// when the pool finishes), or callers risk a deadlock.
func (h *Handle) Wait() ([]models.PerAgentReport, bool) {
	<-h.done
	return h.reports, h.exceeded
}

// Run executes decision.Selected under runDeadline and streams records as
// they arrive. primary+secondary run first; fallback agents are only
// activated if the merged record count (tracked via mergedCount, called
// with the running total after each emission) stays below minResults once
// all primary+secondary agents have reached a terminal state.
func (s *Scheduler) Run(ctx context.Context, runID string, in models.ScrapeInput, decision models.RoutingDecision, minResults int, mergedCount func() int) *Handle {
	emissions := make(chan Emission, 16)
	h := &Handle{Emissions: emissions, done: make(chan struct{})}

	runCtx, cancel := context.WithDeadline(ctx, in.Deadline)

	go func() {
		defer cancel()
		defer close(h.done)
		defer close(emissions)

		var primary, secondary, fallback []models.AgentID
		for _, sel := range decision.Selected {
			switch sel.Role {
			case models.RolePrimary:
				primary = append(primary, sel.AgentID)
			case models.RoleSecondary:
				secondary = append(secondary, sel.AgentID)
			case models.RoleFallback:
				fallback = append(fallback, sel.AgentID)
			}
		}

		tier := append(append([]models.AgentID{}, primary...), secondary...)
		reports := s.runTier(runCtx, runID, in, tier, emissions)
		h.reports = append(h.reports, reports...)

		if len(fallback) > 0 && mergedCount() < minResults {
			logging.FromContext(ctx).Info().Int("merged_count", mergedCount()).Int("min_results", minResults).Msg("activating fallback agents")
			maxFallback := s.cfg.KFallback
			if maxFallback > 0 && maxFallback < len(fallback) {
				fallback = fallback[:maxFallback]
			}
			fbReports := s.runTier(runCtx, runID, in, fallback, emissions)
			h.reports = append(h.reports, fbReports...)
		}

		h.exceeded = runCtx.Err() != nil
	}()

	return h
}

// runTier runs one concurrency tier (primary+secondary together, or
// fallback separately) through the bounded worker pool, returning once
// every agent in the tier has reached a terminal state.
func (s *Scheduler) runTier(ctx context.Context, runID string, in models.ScrapeInput, ids []models.AgentID, emissions chan<- Emission) []models.PerAgentReport {
	if len(ids) == 0 {
		return nil
	}

	n := len(ids)
	if max := s.cfg.MaxConcurrentAgents; max > 0 && n > max {
		n = max
	}
	sem := semaphore.NewWeighted(int64(n))

	reportsCh := make(chan models.PerAgentReport, len(ids))

	for _, id := range ids {
		id := id
		if err := sem.Acquire(ctx, 1); err != nil {
			reportsCh <- s.abandoned(id)
			continue
		}
		go func() {
			defer sem.Release(1)
			reportsCh <- s.runOne(ctx, runID, in, id, emissions)
		}()
	}

	// Drain: acquiring all n slots again guarantees every goroutine above
	// has released, i.e. completed.
	_ = sem.Acquire(context.Background(), int64(n))

	close(reportsCh)
	reports := make([]models.PerAgentReport, 0, len(ids))
	for r := range reportsCh {
		reports = append(reports, r)
	}
	return reports
}

func (s *Scheduler) abandoned(id models.AgentID) models.PerAgentReport {
	exec := models.AgentExecution{AgentID: id, State: models.StateQueued}
	exec.Transition(models.StateFailed)
	return models.PerAgentReport{AgentExecution: exec}
}

var tracer = otel.Tracer("jobseeker/scheduler")

// runOne executes the full per-agent lifecycle of spec.md §4.5 steps 1-5.
func (s *Scheduler) runOne(ctx context.Context, runID string, in models.ScrapeInput, id models.AgentID, emissions chan<- Emission) models.PerAgentReport {
	ctx, span := tracer.Start(ctx, "Scheduler.runOne", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("agent.id", string(id)),
	))
	defer span.End()

	log := logging.FromContext(ctx).With().Str("agent_id", string(id)).Logger()
	exec := models.AgentExecution{AgentID: id, State: models.StateQueued, FirstStartedAt: time.Now().UTC()}

	descriptor, ok := s.registry.Get(id)
	a, aok := s.agents.Get(id)
	if !ok || !aok {
		exec.Transition(models.StateRunning)
		exec.Transition(models.StateFailed)
		return models.PerAgentReport{AgentExecution: exec}
	}

	exec.Transition(models.StateRunning)

	remaining := time.Until(in.Deadline)
	tokenBudget := time.Duration(float64(remaining) * s.cfg.TokenWaitBudgetRatio)
	if !s.limiter.Wait(ctx, string(id), descriptor.RateLimit.RequestsPerMinute, descriptor.RateLimit.Burst, tokenBudget) {
		exec.Transition(models.StateRateLimited)
		metrics.RateLimiterRejectionsTotal.WithLabelValues(string(id)).Inc()
		log.Warn().Msg("rate limit token not acquired within budget")
		return models.PerAgentReport{AgentExecution: exec}
	}

	cb := s.breakers.ForAgent(id, s.cfg)

	var lastOutput models.ScrapeOutput
	for attempt := 1; attempt <= s.cfg.RetryMaxAttempts; attempt++ {
		exec.Attempts = attempt

		if time.Now().After(in.Deadline) {
			exec.Transition(models.StateTimedOut)
			return s.finish(exec, lastOutput, emissions, id)
		}

		callDeadline := perCallDeadline(in.Deadline, descriptor.AvgLatencyMS)
		callCtx, callCancel := context.WithDeadline(ctx, callDeadline)
		callIn := in
		callIn.Deadline = callDeadline

		start := time.Now()
		var output models.ScrapeOutput
		cbErr := cb.Execute(callCtx, func(cctx context.Context) error {
			callIn.CancellationToken = cctx.Done()
			output = a.Scrape(cctx, callIn)
			// Only network-equivalent failures trip the breaker; a
			// site_structure_error is non-retriable but not the upstream's
			// fault, so it must not count toward tripping (spec.md §4.5/§7).
			if output.TerminatedReason == models.TerminatedNetworkError {
				return errClassifiedFailure
			}
			return nil
		})
		callCancel()
		metrics.SchedulerExecutionDurationSeconds.WithLabelValues(string(id)).Observe(time.Since(start).Seconds())
		lastOutput = output

		if cbErr == circuitbreaker.ErrCircuitOpen || cbErr == circuitbreaker.ErrTooManyRequests {
			exec.Transition(models.StateCircuitOpen)
			log.Warn().Msg("circuit breaker open, skipping call")
			return s.finish(exec, lastOutput, emissions, id)
		}

		if !output.TerminatedReason.Retriable() {
			break
		}
		if attempt == s.cfg.RetryMaxAttempts {
			break
		}

		log.Warn().Str("reason", string(output.TerminatedReason)).Int("attempt", attempt).Msg("retriable failure, backing off")
		if !sleepBackoff(ctx, s.cfg.RetryBaseBackoff, attempt) {
			exec.Transition(models.StateTimedOut)
			return s.finish(exec, lastOutput, emissions, id)
		}
	}

	finalState := terminalStateFor(lastOutput.TerminatedReason)
	exec.Transition(finalState)
	return s.finish(exec, lastOutput, emissions, id)
}

func (s *Scheduler) finish(exec models.AgentExecution, output models.ScrapeOutput, emissions chan<- Emission, id models.AgentID) models.PerAgentReport {
	exec.RawRecordCount = len(output.Records)
	exec.JobsReturned = len(output.Records)
	exec.ErrorKind = output.TerminatedReason

	metrics.AgentExecutionsTotal.WithLabelValues(string(id), string(exec.State)).Inc()

	if len(output.Records) > 0 {
		emissions <- Emission{AgentID: id, Records: output.Records}
	}
	return models.PerAgentReport{AgentExecution: exec, RecordCount: len(output.Records)}
}

// perCallDeadline implements spec.md §4.5 step 4: min(global_deadline -
// elapsed, expected_latency * 2.5).
func perCallDeadline(globalDeadline time.Time, avgLatencyMS int) time.Time {
	byLatency := time.Now().Add(time.Duration(avgLatencyMS) * time.Millisecond * 5 / 2)
	if byLatency.Before(globalDeadline) {
		return byLatency
	}
	return globalDeadline
}

// terminalStateFor maps a non-retried or retry-exhausted TerminatedReason to
// the AgentExecution's final ExecutionState.
func terminalStateFor(reason models.TerminatedReason) models.ExecutionState {
	switch reason {
	case models.TerminatedComplete, models.TerminatedTruncatedResults:
		return models.StateSucceeded
	case models.TerminatedTimedOut:
		return models.StateTimedOut
	default:
		return models.StateFailed
	}
}

// sleepBackoff waits base*2^(attempt-1) +/-20% jitter, honoring ctx
// cancellation; returns false if ctx was cancelled first.
func sleepBackoff(ctx context.Context, base time.Duration, attempt int) bool {
	backoff := base << (attempt - 1)
	jitter := time.Duration(float64(backoff) * (rand.Float64()*0.4 - 0.2))
	wait := backoff + jitter

	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

type classifiedFailure struct{}

func (classifiedFailure) Error() string { return "scheduler: classified circuit-breaker failure" }

var errClassifiedFailure error = classifiedFailure{}
