// Package jobseeker is the public entry point for the multi-platform
// job-search aggregation engine. Engine.Run wires the Intent Classifier
// (C4), Routing Engine (C5), Execution Scheduler (C6), Result Merger (C7),
// and Observability Sink (C8) into the single operation spec.md §6
// describes: classify, route, execute, merge, report.
package jobseeker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jason660519/jobseeker-sub001/internal/agent"
	"github.com/jason660519/jobseeker-sub001/internal/agent/agents"
	"github.com/jason660519/jobseeker-sub001/internal/circuitbreaker"
	"github.com/jason660519/jobseeker-sub001/internal/config"
	apperrors "github.com/jason660519/jobseeker-sub001/internal/errors"
	"github.com/jason660519/jobseeker-sub001/internal/intent"
	"github.com/jason660519/jobseeker-sub001/internal/logging"
	"github.com/jason660519/jobseeker-sub001/internal/merger"
	"github.com/jason660519/jobseeker-sub001/internal/ratelimit"
	"github.com/jason660519/jobseeker-sub001/internal/registry"
	"github.com/jason660519/jobseeker-sub001/internal/report"
	"github.com/jason660519/jobseeker-sub001/internal/routing"
	"github.com/jason660519/jobseeker-sub001/internal/scheduler"
	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

// RunOptions configures one Run invocation (spec.md §6). The zero value
// runs with the Engine's configured defaults: no deadline override, no
// concurrency override, routing decides which agents run, no oracle, and
// a trimmed (non-verbose) routing reasoning trail.
type RunOptions struct {
	// RunDeadline overrides the Engine's configured run deadline when > 0.
	RunDeadline time.Duration
	// MaxConcurrentAgents overrides the Engine's configured worker-pool
	// size when > 0.
	MaxConcurrentAgents int
	// ForceAgents bypasses the Routing Engine's scoring (steps 1-6) and
	// selects exactly these agents, still subject to the hard
	// region-exclusion filter (step 7).
	ForceAgents []models.AgentID
	// IntentOracle, when non-nil, supplements the rule-based classifier
	// per internal/intent's merge policy.
	IntentOracle intent.Oracle
	// VerboseReasoning includes the full per-agent routing score
	// breakdown in the returned RunReport. When false, the trail is
	// dropped to keep the common-case report small.
	VerboseReasoning bool
}

var tracer = otel.Tracer("jobseeker/engine")

// Engine owns the run-independent infrastructure: the static Agent
// Registry, the runtime agent implementations, shared rate limiters, and
// shared circuit breakers. One Engine is meant to back a whole process;
// Run is safe to call concurrently.
type Engine struct {
	cfg        *config.EngineConfig
	registry   *registry.Registry
	agents     *agent.Registry
	classifier *intent.Classifier
	router     *routing.Engine
	limiter    *ratelimit.Limiter
	breakers   *circuitbreaker.Manager
	scheduler  *scheduler.Scheduler
	merger     *merger.Merger
}

// New builds an Engine wired to the default nine job-board agents. A nil
// cfg loads configuration from the environment (internal/config.Load).
func New(cfg *config.EngineConfig) (*Engine, error) {
	if cfg == nil {
		cfg = config.Load()
	}
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ValidationError, "invalid engine configuration")
	}

	reg, err := registry.New(cfg)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.InternalError, "failed to load agent registry")
	}

	runtimeAgents := agent.NewRegistry(agents.NewDefaultRegistry()...)
	limiter := ratelimit.NewLimiter(func(rpm, burst int) ratelimit.Bucket {
		return ratelimit.NewMemoryBucket(rpm, burst)
	})
	breakers := circuitbreaker.NewManager()

	return &Engine{
		cfg:        cfg,
		registry:   reg,
		agents:     runtimeAgents,
		classifier: intent.New(),
		router:     routing.New(reg, cfg),
		limiter:    limiter,
		breakers:   breakers,
		scheduler:  scheduler.New(runtimeAgents, reg, limiter, breakers, cfg),
		merger:     merger.New(reg, cfg),
	}, nil
}

// Run executes one job search end to end. It always returns a populated
// RunReport, on every terminal path — query rejection, empty routing
// selection, or full completion — per spec.md §7: the returned error is
// reserved for programmer errors (a nil ctx, an unusable Engine
// configuration), never for domain-level run outcomes.
func (e *Engine) Run(ctx context.Context, query models.Query, opts RunOptions) (models.RunResult, models.RunReport, error) {
	if ctx == nil {
		return models.RunResult{}, models.RunReport{}, apperrors.NewValidationError("ctx must not be nil")
	}

	runID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "Engine.Run", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("query.text", query.Text()),
		attribute.Int("query.results_wanted", query.ResultsWanted()),
	))
	defer span.End()

	ctx = logging.WithRunID(ctx, runID)
	runLog := logging.NewRunLogger(runID)
	startedAt := time.Now()
	rb := report.New(runID, query, startedAt)

	deadline := opts.RunDeadline
	if deadline <= 0 {
		deadline = e.cfg.RunDeadline
	}
	runDeadline := startedAt.Add(deadline)

	intentResult := intent.AnalyzeWithOracle(ctx, e.classifier, query, opts.IntentOracle)
	runLog.LogRunStart(string(intentResult.Region), string(intentResult.Industry))
	span.SetAttributes(
		attribute.String("intent.region", string(intentResult.Region)),
		attribute.String("intent.industry", string(intentResult.Industry)),
		attribute.String("intent.is_job_related", string(intentResult.IsJobRelated)),
	)

	if intentResult.IsJobRelated == models.TriFalse {
		runReport := rb.QueryRejected(intentResult)
		runLog.LogRunComplete(time.Since(startedAt), 0, false)
		return models.RunResult{}, runReport, nil
	}

	decision := e.router.Route(intentResult, opts.ForceAgents)
	decision = trimReasoning(decision, opts.VerboseReasoning)
	if len(decision.Selected) == 0 {
		runReport := rb.NoAgentsSelected(intentResult, decision)
		runLog.LogRunComplete(time.Since(startedAt), 0, false)
		return models.RunResult{}, runReport, nil
	}

	resultsWanted := query.ResultsWanted()
	minResults := e.cfg.MinResultsFor(resultsWanted)
	acc := e.merger.NewAccumulator(resultsWanted)

	remote, remoteSet := query.IsRemote()
	in := models.ScrapeInput{
		SearchTerm:    query.Text(),
		Location:      query.Location(),
		ResultsWanted: resultsWanted,
		MaxAgeHours:   query.MaxAgeHours(),
		JobType:       query.JobType(),
		Country:       query.CountryHint(),
		Language:      query.LanguageHint(),
		Deadline:      runDeadline,
	}
	if remoteSet {
		in.IsRemote = &remote
	}

	sched := e.scheduler
	if opts.MaxConcurrentAgents > 0 {
		overridden := *e.cfg
		overridden.MaxConcurrentAgents = opts.MaxConcurrentAgents
		sched = scheduler.New(e.agents, e.registry, e.limiter, e.breakers, &overridden)
	}

	handle := sched.Run(ctx, runID, in, decision, minResults, acc.MergedCount)
	for emission := range handle.Emissions {
		acc.Ingest(emission.AgentID, emission.Records)
	}
	perAgent, deadlineExceeded := handle.Wait()

	for _, pa := range perAgent {
		if pa.State == models.StateFailed || pa.State == models.StateTimedOut {
			runLog.LogAgentError(string(pa.AgentID), string(pa.ErrorKind), map[string]interface{}{"attempts": pa.Attempts})
		}
	}

	result := acc.Finalize(resultsWanted, false)
	runReport := rb.Completed(intentResult, decision, perAgent, acc.MergedCount(), acc.DedupCollapsedCount(), deadlineExceeded)
	runLog.LogRunComplete(time.Since(startedAt), acc.MergedCount(), deadlineExceeded)
	span.SetAttributes(
		attribute.Int("result.merged_count", acc.MergedCount()),
		attribute.Bool("result.deadline_exceeded", deadlineExceeded),
	)

	return result, runReport, nil
}

// trimReasoning drops the per-agent routing score breakdown unless the
// caller asked for it, keeping the common-case RunReport small.
func trimReasoning(decision models.RoutingDecision, verbose bool) models.RoutingDecision {
	if !verbose {
		decision.Reasoning = nil
	}
	return decision
}
