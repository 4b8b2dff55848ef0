package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	c := Load()
	assert.Equal(t, 2, c.KPrimary)
	assert.Equal(t, 2, c.KSecondary)
	assert.Equal(t, 2, c.KFallback)
	assert.InDelta(t, 0.5, c.WeightRegion, 1e-9)
	assert.InDelta(t, 0.3, c.WeightIndustry, 1e-9)
	assert.InDelta(t, 0.2, c.WeightReliability, 1e-9)
	assert.InDelta(t, 0.15, c.MinSelectionScore, 1e-9)
	assert.Equal(t, 30*time.Second, c.CircuitBreakerCoolDown)
	assert.Equal(t, 3, c.FailureThreshold)
	assert.Equal(t, 3, c.RetryMaxAttempts)
	assert.Equal(t, time.Second, c.RetryBaseBackoff)
	assert.Equal(t, DedupIDAndFingerprint, c.DedupPolicy)
	assert.Equal(t, 120*time.Second, c.RunDeadline)
	assert.Equal(t, 4, c.MaxConcurrentAgents)
	assert.Equal(t, 30, c.DefaultRateLimitRPM)
	assert.Equal(t, 5, c.DefaultRateLimitBurst)
	assert.NoError(t, c.Validate())
}

func TestValidateRejectsBadWeights(t *testing.T) {
	c := Load()
	c.WeightRegion = 0.9
	assert.Error(t, c.Validate())
}

func TestValidateRejectsBadDedupPolicy(t *testing.T) {
	c := Load()
	c.DedupPolicy = "bogus"
	assert.Error(t, c.Validate())
}

func TestMinResultsFor(t *testing.T) {
	c := Load()
	assert.Equal(t, 10, c.MinResultsFor(100))
	assert.Equal(t, 5, c.MinResultsFor(10))

	c.MinResultsForSuccess = 3
	assert.Equal(t, 3, c.MinResultsFor(100))
}
