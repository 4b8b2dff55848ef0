package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterOnIsolatedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterOn(reg))

	AgentExecutionsTotal.WithLabelValues("linkedin", "succeeded").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestCircuitStateValue(t *testing.T) {
	assert.Equal(t, 0.0, CircuitStateValue("closed"))
	assert.Equal(t, 1.0, CircuitStateValue("half_open"))
	assert.Equal(t, 2.0, CircuitStateValue("open"))
	assert.Equal(t, -1.0, CircuitStateValue("bogus"))
}
