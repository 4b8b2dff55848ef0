package models

import "time"

// ExecutionState is an AgentExecution's lifecycle state. Transitions are
// strictly monotonic (spec.md §5): queued -> running -> exactly one
// terminal state, never backwards.
type ExecutionState string

const (
	StateQueued      ExecutionState = "queued"
	StateRunning     ExecutionState = "running"
	StateSucceeded   ExecutionState = "succeeded"
	StateFailed      ExecutionState = "failed"
	StateTimedOut    ExecutionState = "timed_out"
	StateRateLimited ExecutionState = "rate_limited"
	StateCircuitOpen ExecutionState = "circuit_open"
)

// IsTerminal reports whether s precludes further transitions.
func (s ExecutionState) IsTerminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateTimedOut, StateRateLimited, StateCircuitOpen:
		return true
	default:
		return false
	}
}

// terminalRank orders states so monotonicity can be checked cheaply:
// queued(0) -> running(1) -> any terminal state(2).
func terminalRank(s ExecutionState) int {
	switch s {
	case StateQueued:
		return 0
	case StateRunning:
		return 1
	default:
		return 2
	}
}

// ValidTransition reports whether moving from `from` to `to` is monotonic.
func ValidTransition(from, to ExecutionState) bool {
	if from == "" {
		return to == StateQueued
	}
	if from.IsTerminal() {
		return false
	}
	return terminalRank(to) >= terminalRank(from) && to != from
}

// TerminatedReason is the agent-contract-level disposition an agent's
// Scrape call reports (spec.md §4.2).
type TerminatedReason string

const (
	TerminatedComplete           TerminatedReason = "complete"
	TerminatedTruncatedResults   TerminatedReason = "truncated_results_cap"
	TerminatedRateLimitedUpstream TerminatedReason = "rate_limited_upstream"
	TerminatedTimedOut           TerminatedReason = "timed_out"
	TerminatedSiteStructureError TerminatedReason = "site_structure_error"
	TerminatedNetworkError       TerminatedReason = "network_error"
	TerminatedRegionUnsupported  TerminatedReason = "region_unsupported"
)

// Retriable reports whether the scheduler should retry on this reason
// (spec.md §4.5 step 5: only network_error and timed_out are retriable).
func (r TerminatedReason) Retriable() bool {
	return r == TerminatedNetworkError || r == TerminatedTimedOut
}

// AgentExecution is the runtime record of one selected agent's run within
// one Run invocation (spec.md §3).
type AgentExecution struct {
	AgentID         AgentID          `json:"agent_id"`
	State           ExecutionState   `json:"state"`
	Attempts        int              `json:"attempts"`
	FirstStartedAt  time.Time        `json:"first_started_at"`
	EndedAt         time.Time        `json:"ended_at,omitempty"`
	ErrorKind       TerminatedReason `json:"error_kind,omitempty"`
	JobsReturned    int              `json:"jobs_returned"`
	RawRecordCount  int              `json:"raw_record_count"`
}

// Transition moves the execution to `to`, returning false (without
// mutating) if the transition would violate monotonicity.
func (e *AgentExecution) Transition(to ExecutionState) bool {
	if !ValidTransition(e.State, to) {
		return false
	}
	e.State = to
	if to.IsTerminal() {
		e.EndedAt = time.Now().UTC()
	}
	return true
}
