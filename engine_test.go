package jobseeker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(nil)
	require.NoError(t, err)
	return e
}

func TestRunRejectsNonJobQuery(t *testing.T) {
	e := newTestEngine(t)
	q := models.NewQuery("what's the weather like in Berlin today")

	result, runReport, err := e.Run(context.Background(), q, RunOptions{})

	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.NotEmpty(t, runReport.RejectionMessage)
	assert.Equal(t, models.TriFalse, runReport.IntentResult.IsJobRelated)
}

func TestRunNoAgentsSelectedWhenForcedAgentsAllExcluded(t *testing.T) {
	e := newTestEngine(t)
	q := models.NewQuery("senior backend engineer", models.WithResultsWanted(5))

	result, runReport, err := e.Run(context.Background(), q, RunOptions{
		ForceAgents: []models.AgentID{models.AgentGlassdoor},
		// Glassdoor is excluded from the global region by the registry's
		// region-exclusion defect fix (spec.md §9); forcing it alone with
		// a global-region query yields an empty selection.
	})

	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Equal(t, "no_agents_selected", runReport.RoutingDecision.RejectReason)
	assert.NotEmpty(t, runReport.RejectionMessage)
}

func TestRunCompletesAndMergesAcrossForcedAgents(t *testing.T) {
	e := newTestEngine(t)
	q := models.NewQuery("backend engineer", models.WithLocation("Berlin, Germany"), models.WithResultsWanted(10))

	result, runReport, err := e.Run(context.Background(), q, RunOptions{
		RunDeadline: 5 * time.Second,
		// Catalog agents synthesize deterministic data with no network
		// calls, unlike the headless-browser BDJobsAgent.
		ForceAgents: []models.AgentID{models.AgentLinkedIn, models.AgentIndeed},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Records)
	assert.Equal(t, result.MergedCount, runReport.MergedCount)
	require.Len(t, runReport.PerAgent, 2)
	assert.False(t, runReport.DeadlineExceeded)
	for _, rec := range result.Records {
		assert.NotEmpty(t, rec.SourceAgent)
		assert.NotZero(t, rec.QualityScore)
	}
}

func TestRunRespectsResultsWantedSoftCap(t *testing.T) {
	e := newTestEngine(t)
	q := models.NewQuery("engineer", models.WithResultsWanted(1))

	result, _, err := e.Run(context.Background(), q, RunOptions{
		RunDeadline: 5 * time.Second,
		ForceAgents: []models.AgentID{models.AgentLinkedIn},
	})

	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.Records), 1)
	if result.MergedCount > 1 {
		assert.True(t, result.TruncatedToResultsWanted)
	}
}

func TestRunDeadlineExceededStillReturnsPartialReport(t *testing.T) {
	e := newTestEngine(t)
	q := models.NewQuery("engineer")

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	result, runReport, err := e.Run(ctx, q, RunOptions{
		RunDeadline: time.Nanosecond,
		ForceAgents: []models.AgentID{models.AgentLinkedIn, models.AgentIndeed},
	})

	require.NoError(t, err)
	assert.True(t, runReport.DeadlineExceeded)
	assert.NotNil(t, result)
}

func TestRunVerboseReasoningControlsRoutingTrail(t *testing.T) {
	e := newTestEngine(t)
	q := models.NewQuery("nurse jobs", models.WithResultsWanted(5))

	_, terse, err := e.Run(context.Background(), q, RunOptions{RunDeadline: 5 * time.Second})
	require.NoError(t, err)
	assert.Nil(t, terse.RoutingDecision.Reasoning)

	_, verbose, err := e.Run(context.Background(), q, RunOptions{RunDeadline: 5 * time.Second, VerboseReasoning: true})
	require.NoError(t, err)
	assert.NotEmpty(t, verbose.RoutingDecision.Reasoning)
}

func TestRunRejectsNilContext(t *testing.T) {
	e := newTestEngine(t)
	_, _, err := e.Run(nil, models.NewQuery("engineer"), RunOptions{}) //lint:ignore SA1012 verifying guard
	require.Error(t, err)
}
