package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

func TestQueryRejectedIncludesExampleQueries(t *testing.T) {
	q := models.NewQuery("what's the weather today")
	b := New("run-1", q, time.Now().Add(-10*time.Millisecond))

	r := b.QueryRejected(models.IntentResult{IsJobRelated: models.TriFalse})

	assert.NotEmpty(t, r.RejectionMessage)
	assert.Contains(t, r.RejectionMessage, "backend engineer")
	assert.Zero(t, r.MergedCount)
	assert.GreaterOrEqual(t, r.TotalDurationMS, int64(0))
}

func TestNoAgentsSelectedCarriesRoutingReasoning(t *testing.T) {
	q := models.NewQuery("engineer jobs")
	b := New("run-2", q, time.Now())

	decision := models.RoutingDecision{RejectReason: "no_agents_selected"}
	r := b.NoAgentsSelected(models.IntentResult{IsJobRelated: models.TriTrue}, decision)

	assert.NotEmpty(t, r.RejectionMessage)
	assert.Equal(t, decision, r.RoutingDecision)
}

func TestCompletedNeverCollapsesPerAgentDiagnostics(t *testing.T) {
	q := models.NewQuery("nurse jobs in Dhaka")
	b := New("run-3", q, time.Now())

	perAgent := []models.PerAgentReport{
		{AgentExecution: models.AgentExecution{AgentID: models.AgentBDJobs, State: models.StateFailed, ErrorKind: models.TerminatedNetworkError}},
		{AgentExecution: models.AgentExecution{AgentID: models.AgentNaukri, State: models.StateSucceeded}, RecordCount: 3},
	}

	r := b.Completed(models.IntentResult{IsJobRelated: models.TriTrue}, models.RoutingDecision{}, perAgent, 3, 0, false)

	require.Len(t, r.PerAgent, 2)
	assert.Equal(t, models.StateFailed, r.PerAgent[0].State)
	assert.Equal(t, models.TerminatedNetworkError, r.PerAgent[0].ErrorKind)
	assert.Equal(t, 3, r.MergedCount)
	assert.False(t, r.DeadlineExceeded)
}

func TestCompletedReportsDeadlineExceeded(t *testing.T) {
	q := models.NewQuery("engineer")
	b := New("run-4", q, time.Now())

	r := b.Completed(models.IntentResult{}, models.RoutingDecision{}, nil, 0, 0, true)
	assert.True(t, r.DeadlineExceeded)
}
