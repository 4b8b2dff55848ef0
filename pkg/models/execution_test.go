package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTransitionMonotonic(t *testing.T) {
	assert.True(t, ValidTransition("", StateQueued))
	assert.True(t, ValidTransition(StateQueued, StateRunning))
	assert.True(t, ValidTransition(StateRunning, StateSucceeded))
	assert.True(t, ValidTransition(StateQueued, StateTimedOut))

	assert.False(t, ValidTransition(StateRunning, StateQueued), "backwards transition must be rejected")
	assert.False(t, ValidTransition(StateSucceeded, StateRunning), "terminal state must not resume")
	assert.False(t, ValidTransition(StateFailed, StateSucceeded), "terminal state is sticky")
}

func TestAgentExecutionTransition(t *testing.T) {
	e := &AgentExecution{State: StateQueued}
	assert.True(t, e.Transition(StateRunning))
	assert.True(t, e.Transition(StateTimedOut))
	assert.True(t, e.State.IsTerminal())
	assert.True(t, e.EndedAt.Unix() > 0)

	// Further transitions are rejected once terminal.
	assert.False(t, e.Transition(StateRunning))
	assert.Equal(t, StateTimedOut, e.State)
}

func TestTerminatedReasonRetriable(t *testing.T) {
	assert.True(t, TerminatedNetworkError.Retriable())
	assert.True(t, TerminatedTimedOut.Retriable())
	assert.False(t, TerminatedSiteStructureError.Retriable())
	assert.False(t, TerminatedRegionUnsupported.Retriable())
}
