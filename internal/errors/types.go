package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors reified by the core,
// per spec.md §7. None of these are panics at the core boundary.
type ErrorType string

const (
	// ValidationError indicates a programmer error: invalid RunOptions,
	// a nil Query, or malformed configuration. Per §7 this is the only
	// class that surfaces as Run's `error` return.
	ValidationError ErrorType = "validation"

	// InternalError is an unexpected, non-domain failure.
	InternalError ErrorType = "internal"

	// QueryRejected: the intent classifier decided is_job_related=false.
	// Terminal; no agents run.
	QueryRejected ErrorType = "query_rejected"

	// NoAgentsSelected: routing produced an empty selection despite a
	// job-related query (e.g. extreme region exclusions).
	NoAgentsSelected ErrorType = "no_agents_selected"

	// AgentTransient: a per-agent network_error/timed_out outcome,
	// retried up to max_attempts; exhaustion is locally recoverable.
	AgentTransient ErrorType = "agent_transient"

	// AgentStructural: a per-agent site_structure_error. Non-retriable;
	// the agent is marked failed for this run. The circuit breaker is
	// NOT tripped by this class.
	AgentStructural ErrorType = "agent_structural"

	// AgentUnsupportedRegion: the agent reported region_unsupported for
	// the specific country requested.
	AgentUnsupportedRegion ErrorType = "agent_unsupported_region"

	// RateLimited: the token budget was exhausted without acquisition.
	// The agent is marked non-successful but not failed.
	RateLimited ErrorType = "rate_limited"

	// CircuitOpen: the agent was skipped because its breaker is open.
	CircuitOpen ErrorType = "circuit_open"

	// DeadlineExceeded: the global run deadline expired. Not an error in
	// the conventional sense — reported via RunReport.DeadlineExceeded;
	// this type exists so per-agent diagnostics can still classify it.
	DeadlineExceeded ErrorType = "deadline_exceeded"
)

// AppError represents a structured, reified application error.
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    string    `json:"code,omitempty"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target's Type and Code.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// New creates a new AppError.
func New(errorType ErrorType, message string) *AppError {
	return &AppError{Type: errorType, Message: message}
}

// Newf creates a new AppError with a formatted message.
func Newf(errorType ErrorType, format string, args ...interface{}) *AppError {
	return &AppError{Type: errorType, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, errorType ErrorType, message string) *AppError {
	return &AppError{Type: errorType, Message: message, Cause: err}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, errorType ErrorType, format string, args ...interface{}) *AppError {
	return &AppError{Type: errorType, Message: fmt.Sprintf(format, args...), Cause: err}
}

// WithCode adds an error code to the error.
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds additional details to the error.
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewValidationError signals a programmer error at the Run boundary.
func NewValidationError(message string) *AppError {
	return New(ValidationError, message)
}

// NewInternalError signals an unexpected internal failure.
func NewInternalError(message string) *AppError {
	return New(InternalError, message)
}

// NewQueryRejected signals the intent classifier rejected the query as not
// job-related. message should contain example searches per spec.md §7.
func NewQueryRejected(message string) *AppError {
	return New(QueryRejected, message)
}

// NewNoAgentsSelected signals routing produced an empty selection.
func NewNoAgentsSelected(reason string) *AppError {
	return Newf(NoAgentsSelected, "no agents selected: %s", reason)
}

// NewAgentTransient wraps a retriable per-agent failure.
func NewAgentTransient(agentID string, err error) *AppError {
	return Wrapf(err, AgentTransient, "agent %s: transient failure", agentID)
}

// NewAgentStructural wraps a non-retriable per-agent parsing failure.
func NewAgentStructural(agentID string, err error) *AppError {
	return Wrapf(err, AgentStructural, "agent %s: structural failure", agentID)
}

// NewAgentUnsupportedRegion signals an agent cannot serve the requested
// country, distinct from routing-level region exclusion (spec.md §4.2).
func NewAgentUnsupportedRegion(agentID, country string) *AppError {
	return Newf(AgentUnsupportedRegion, "agent %s does not support region %s", agentID, country)
}

// NewRateLimited signals a token-bucket acquisition failure.
func NewRateLimited(agentID string) *AppError {
	return Newf(RateLimited, "agent %s: rate limit token budget exhausted", agentID)
}

// NewCircuitOpenError signals an agent was skipped due to an open breaker.
func NewCircuitOpenError(agentID string) *AppError {
	return Newf(CircuitOpen, "agent %s: circuit breaker open", agentID)
}

// NewDeadlineExceededError signals the global run deadline expired.
func NewDeadlineExceededError() *AppError {
	return New(DeadlineExceeded, "run deadline exceeded")
}

// IsType checks if an error is of a specific type.
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetType returns the error type, or InternalError if not an AppError.
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return InternalError
}
