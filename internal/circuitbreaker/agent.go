package circuitbreaker

import (
	"github.com/jason660519/jobseeker-sub001/internal/config"
	"github.com/jason660519/jobseeker-sub001/internal/logging"
	"github.com/jason660519/jobseeker-sub001/internal/metrics"
	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

// ForAgent returns the circuit breaker for id, creating it on first use
// from cfg's FailureThreshold/CircuitBreakerCoolDown (spec.md §4.5), and
// wired to publish every transition to the circuit_breaker_state gauge and
// the audit log.
func (m *Manager) ForAgent(id models.AgentID, cfg *config.EngineConfig) *CircuitBreaker {
	name := string(id)
	if cb, ok := m.Get(name); ok {
		return cb
	}

	c := DefaultConfig(name)
	c.MaxFailures = cfg.FailureThreshold
	c.Timeout = cfg.CircuitBreakerCoolDown
	c.OnStateChange = func(from, to State) {
		metrics.CircuitBreakerState.WithLabelValues(name).Set(metrics.CircuitStateValue(to.String()))
		logging.NewAuditLogger().LogCircuitBreakerTransition(name, from.String(), to.String())
	}
	return m.GetOrCreate(name, c)
}
