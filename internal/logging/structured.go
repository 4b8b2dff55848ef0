package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// StructuredLogger provides structured logging with consistent fields.
type StructuredLogger struct {
	logger   *slog.Logger
	zerolog  zerolog.Logger
	metadata map[string]interface{}
}

// NewStructuredLogger creates a new structured logger.
func NewStructuredLogger(service string) *StructuredLogger {
	opts := &slog.HandlerOptions{
		Level: getLogLevel(),
	}

	var handler slog.Handler
	if isProductionMode() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	zerologger := Init()

	return &StructuredLogger{
		logger:  logger,
		zerolog: zerologger,
		metadata: map[string]interface{}{
			"service":     service,
			"version":     os.Getenv("APP_VERSION"),
			"environment": getEnvironment(),
		},
	}
}

// WithContext adds context-specific fields: run_id, set by the engine via
// logging.WithRunID at the start of every Run.
func (sl *StructuredLogger) WithContext(ctx context.Context) *StructuredLogger {
	newLogger := &StructuredLogger{
		logger:   sl.logger,
		zerolog:  sl.zerolog,
		metadata: make(map[string]interface{}),
	}
	for k, v := range sl.metadata {
		newLogger.metadata[k] = v
	}
	if v := ctx.Value(runIDKey{}); v != nil {
		newLogger.metadata["run_id"] = v
	}
	return newLogger
}

// WithFields adds arbitrary fields to the logger.
func (sl *StructuredLogger) WithFields(fields map[string]interface{}) *StructuredLogger {
	newLogger := &StructuredLogger{
		logger:   sl.logger,
		zerolog:  sl.zerolog,
		metadata: make(map[string]interface{}),
	}
	for k, v := range sl.metadata {
		newLogger.metadata[k] = v
	}
	for k, v := range fields {
		newLogger.metadata[k] = v
	}
	return newLogger
}

func (sl *StructuredLogger) Info(msg string, args ...interface{})  { sl.log(slog.LevelInfo, msg, args...) }
func (sl *StructuredLogger) Warn(msg string, args ...interface{})  { sl.log(slog.LevelWarn, msg, args...) }
func (sl *StructuredLogger) Error(msg string, args ...interface{}) { sl.log(slog.LevelError, msg, args...) }
func (sl *StructuredLogger) Debug(msg string, args ...interface{}) {
	sl.log(slog.LevelDebug, msg, args...)
}

func (sl *StructuredLogger) log(level slog.Level, msg string, args ...interface{}) {
	attrs := make([]slog.Attr, 0, len(sl.metadata)+len(args)/2)
	for k, v := range sl.metadata {
		attrs = append(attrs, slog.Any(k, v))
	}
	for i := 0; i < len(args)-1; i += 2 {
		if key, ok := args[i].(string); ok {
			attrs = append(attrs, slog.Any(key, args[i+1]))
		}
	}
	sl.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// RunLogger provides per-run structured logging for the engine's Run
// lifecycle, keyed by run_id instead of a persisted job id.
type RunLogger struct {
	*StructuredLogger
	runID string
}

// NewRunLogger creates a logger scoped to one Run invocation.
func NewRunLogger(runID string) *RunLogger {
	sl := NewStructuredLogger("jobseeker-engine")
	return &RunLogger{
		StructuredLogger: sl.WithFields(map[string]interface{}{"run_id": runID}),
		runID:            runID,
	}
}

// LogRunStart logs the start of a Run, once intent classification has
// produced a region/industry guess.
func (rl *RunLogger) LogRunStart(region, industry string) {
	rl.Info("run started",
		"region", region,
		"industry", industry,
		"timestamp", time.Now().UTC())
}

// LogRunComplete logs the terminal outcome of a Run.
func (rl *RunLogger) LogRunComplete(duration time.Duration, mergedCount int, deadlineExceeded bool) {
	rl.Info("run completed",
		"duration_ms", duration.Milliseconds(),
		"merged_count", mergedCount,
		"deadline_exceeded", deadlineExceeded,
		"timestamp", time.Now().UTC())
}

// LogAgentError logs a per-agent failure with its terminated reason.
func (rl *RunLogger) LogAgentError(agentID string, terminatedReason string, context map[string]interface{}) {
	fields := map[string]interface{}{
		"agent":             agentID,
		"terminated_reason": terminatedReason,
		"timestamp":         time.Now().UTC(),
	}
	for k, v := range context {
		fields[k] = v
	}
	rl.Error("agent execution failed", "agent", agentID, "terminated_reason", terminatedReason, "context", fields)
}

// AuditLogger provides audit trail logging for routing and scheduling
// decisions — the structured reasoning trail the Observability Sink (C8)
// requires to be reconstructable after the fact.
type AuditLogger struct {
	*StructuredLogger
}

// NewAuditLogger creates an audit logger.
func NewAuditLogger() *AuditLogger {
	return &AuditLogger{StructuredLogger: NewStructuredLogger("audit")}
}

// LogRoutingDecision logs the outcome of the Routing Engine for one run.
func (al *AuditLogger) LogRoutingDecision(runID string, selectedCount, rejectedCount int, predictedConfidence float64) {
	al.Info("routing decision",
		"run_id", runID,
		"selected_count", selectedCount,
		"rejected_count", rejectedCount,
		"predicted_confidence", predictedConfidence,
		"timestamp", time.Now().UTC(),
		"event_type", "routing_decision")
}

// LogCircuitBreakerTransition logs a circuit breaker state change.
func (al *AuditLogger) LogCircuitBreakerTransition(agentID, fromState, toState string) {
	al.Warn("circuit breaker transition",
		"agent", agentID,
		"from_state", fromState,
		"to_state", toState,
		"timestamp", time.Now().UTC(),
		"event_type", "circuit_breaker_transition")
}

func getLogLevel() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isProductionMode() bool {
	return os.Getenv("ENVIRONMENT") == "production" || os.Getenv("LOG_FORMAT") == "json"
}

func getEnvironment() string {
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return env
	}
	return "development"
}
