// Package report implements the Observability Sink (component C8): it
// assembles the pure-data RunReport on every terminal path of a Run
// (query rejection, empty routing selection, or full completion), per
// spec.md §4.7 and §7. Rendering the report as text/markdown/JSON is left
// to the caller.
package report

import (
	"strings"
	"time"

	"github.com/jason660519/jobseeker-sub001/internal/logging"
	"github.com/jason660519/jobseeker-sub001/internal/metrics"
	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

// exampleJobQueries are surfaced in a QueryRejected report so the rejection
// is actionable rather than a dead end (spec.md §7).
var exampleJobQueries = []string{
	`senior backend engineer in Berlin`,
	`remote nurse jobs, full-time`,
	`construction site manager, Dubai`,
}

// Builder accumulates the run-scoped state (run id, original query, start
// time) needed to stamp a RunReport regardless of which terminal path the
// Run takes.
type Builder struct {
	runID     string
	query     models.Query
	startedAt time.Time
}

// New starts a report Builder for one Run.
func New(runID string, query models.Query, startedAt time.Time) *Builder {
	return &Builder{runID: runID, query: query, startedAt: startedAt}
}

func (b *Builder) elapsedMS() int64 {
	return time.Since(b.startedAt).Milliseconds()
}

// QueryRejected builds the report for spec.md §7's QueryRejected path: the
// intent classifier decided the query is not job-related. Terminal; no
// agents run.
func (b *Builder) QueryRejected(intent models.IntentResult) models.RunReport {
	metrics.RunsTotal.WithLabelValues("query_rejected").Inc()
	metrics.RunDurationSeconds.Observe(time.Since(b.startedAt).Seconds())

	return models.RunReport{
		Query:            b.query,
		IntentResult:     intent,
		TotalDurationMS:  b.elapsedMS(),
		RejectionMessage: rejectionMessage("this query doesn't look like a job search"),
	}
}

// NoAgentsSelected builds the report for spec.md §7's NoAgentsSelected
// path: routing produced an empty selection despite a job-related query
// (e.g. extreme region exclusions). Yields zero records with the routing
// reasoning trail intact for diagnosis.
func (b *Builder) NoAgentsSelected(intent models.IntentResult, decision models.RoutingDecision) models.RunReport {
	metrics.RunsTotal.WithLabelValues("no_agents_selected").Inc()
	metrics.RunDurationSeconds.Observe(time.Since(b.startedAt).Seconds())
	logging.NewAuditLogger().LogRoutingDecision(b.runID, len(decision.Selected), len(decision.Rejected), decision.PredictedConfidence)

	return models.RunReport{
		Query:            b.query,
		IntentResult:     intent,
		RoutingDecision:  decision,
		TotalDurationMS:  b.elapsedMS(),
		RejectionMessage: rejectionMessage("no agent could serve this query's detected region/industry combination"),
	}
}

// Completed builds the report for a Run that reached the scheduler and
// merger, whether or not any records were returned. Per-agent terminal
// states and reasons always travel with the report — spec.md §7 requires
// that a zero-record outcome never collapse into a single generic error.
func (b *Builder) Completed(intent models.IntentResult, decision models.RoutingDecision, perAgent []models.PerAgentReport, mergedCount, dedupCollapsedCount int, deadlineExceeded bool) models.RunReport {
	metrics.RunsTotal.WithLabelValues("completed").Inc()
	metrics.RunDurationSeconds.Observe(time.Since(b.startedAt).Seconds())
	logging.NewAuditLogger().LogRoutingDecision(b.runID, len(decision.Selected), len(decision.Rejected), decision.PredictedConfidence)

	return models.RunReport{
		Query:               b.query,
		IntentResult:        intent,
		RoutingDecision:     decision,
		PerAgent:            perAgent,
		MergedCount:         mergedCount,
		DedupCollapsedCount: dedupCollapsedCount,
		TotalDurationMS:     b.elapsedMS(),
		DeadlineExceeded:    deadlineExceeded,
	}
}

func rejectionMessage(reason string) string {
	var b strings.Builder
	b.WriteString(reason)
	b.WriteString(". Try a query like: ")
	for i, ex := range exampleJobQueries {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(`"` + ex + `"`)
	}
	b.WriteString(".")
	return b.String()
}
