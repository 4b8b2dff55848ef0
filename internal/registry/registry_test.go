package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason660519/jobseeker-sub001/internal/config"
	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

func TestNewRejectsNothingInDefaultTable(t *testing.T) {
	r, err := New(config.Load())
	require.NoError(t, err)
	assert.Len(t, r.GetAllAgents(), 9)
}

func TestNewResolvesDefaultRateLimitFromConfig(t *testing.T) {
	cfg := config.Load()
	cfg.DefaultRateLimitRPM = 42
	cfg.DefaultRateLimitBurst = 7

	r, err := New(cfg)
	require.NoError(t, err)

	d, ok := r.Get(models.AgentIndeed)
	require.True(t, ok)
	assert.Equal(t, 42, d.RateLimit.RequestsPerMinute)
	assert.Equal(t, 7, d.RateLimit.Burst)

	// LinkedIn specifies its own tighter limit and must not be overridden.
	linkedin, ok := r.Get(models.AgentLinkedIn)
	require.True(t, ok)
	assert.Equal(t, 20, linkedin.RateLimit.RequestsPerMinute)
}

func TestGetAllAgentsStableOrder(t *testing.T) {
	r := MustNew()
	first := r.GetAllAgents()
	second := r.GetAllAgents()
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestGet(t *testing.T) {
	r := MustNew()
	d, ok := r.Get(models.AgentLinkedIn)
	require.True(t, ok)
	assert.Equal(t, models.AgentLinkedIn, d.ID)

	_, ok = r.Get(models.AgentID("not_a_real_agent"))
	assert.False(t, ok)
}

func TestGlassdoorExcludedFromGlobal(t *testing.T) {
	r := MustNew()
	assert.False(t, r.SupportsRegion(models.AgentGlassdoor, models.RegionGlobal),
		"Glassdoor must never be selected for a Global-region query")
	assert.True(t, r.SupportsRegion(models.AgentGlassdoor, models.RegionEurope))
}

func TestUnrestrictedAgentSupportsAllRegions(t *testing.T) {
	r := MustNew()
	for _, region := range models.AllRegions() {
		assert.True(t, r.SupportsRegion(models.AgentLinkedIn, region))
	}
}

func TestRegionSpecificAgentExcludedElsewhere(t *testing.T) {
	r := MustNew()
	assert.True(t, r.SupportsRegion(models.AgentSeek, models.RegionOceania))
	assert.False(t, r.SupportsRegion(models.AgentSeek, models.RegionEurope))
}

func TestSupportsIndustryUnlistedIsZero(t *testing.T) {
	r := MustNew()
	assert.Zero(t, r.SupportsIndustry(models.AgentBayt, models.IndustryHealthcare))
	assert.Greater(t, r.SupportsIndustry(models.AgentLinkedIn, models.IndustryTechnology), 0.0)
}

func TestSupportsRegionUnknownAgentIsFalse(t *testing.T) {
	r := MustNew()
	assert.False(t, r.SupportsRegion(models.AgentID("bogus"), models.RegionGlobal))
}
