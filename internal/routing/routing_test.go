package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason660519/jobseeker-sub001/internal/config"
	"github.com/jason660519/jobseeker-sub001/internal/registry"
	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.Load()
	require.NoError(t, cfg.Validate())
	reg, err := registry.New(cfg)
	require.NoError(t, err)
	return New(reg, cfg)
}

func TestRouteRejectsNonJobQuery(t *testing.T) {
	e := newTestEngine(t)
	decision := e.Route(models.IntentResult{IsJobRelated: models.TriFalse}, nil)
	assert.Empty(t, decision.Selected)
	assert.Equal(t, "query_rejected", decision.RejectReason)
}

func TestRouteSelectsPrimaryAndSecondary(t *testing.T) {
	e := newTestEngine(t)
	intent := models.IntentResult{
		IsJobRelated:      models.TriTrue,
		Region:            models.RegionEurope,
		Industry:          models.IndustryTechnology,
		OverallConfidence: 0.9,
	}
	decision := e.Route(intent, nil)
	require.NotEmpty(t, decision.Selected)

	var primaries, secondaries int
	for _, s := range decision.Selected {
		switch s.Role {
		case models.RolePrimary:
			primaries++
		case models.RoleSecondary:
			secondaries++
		}
	}
	assert.LessOrEqual(t, primaries, 2)
	assert.LessOrEqual(t, secondaries, 2)
}

func TestRouteExcludesGlassdoorFromGlobalRegion(t *testing.T) {
	e := newTestEngine(t)
	intent := models.IntentResult{
		IsJobRelated:      models.TriTrue,
		Region:            models.RegionGlobal,
		Industry:          models.IndustryTechnology,
		OverallConfidence: 0.8,
	}
	decision := e.Route(intent, nil)
	for _, s := range decision.Selected {
		assert.NotEqual(t, models.AgentGlassdoor, s.AgentID, "glassdoor must never be selected for the global region")
	}
}

func TestRouteDeterministic(t *testing.T) {
	e := newTestEngine(t)
	intent := models.IntentResult{
		IsJobRelated:      models.TriTrue,
		Region:            models.RegionSouthAsia,
		Industry:          models.IndustryFinance,
		OverallConfidence: 0.7,
	}
	d1 := e.Route(intent, nil)
	d2 := e.Route(intent, nil)
	assert.Equal(t, d1, d2)
}

func TestRouteDiversityRuleAddsGlobalAgent(t *testing.T) {
	e := newTestEngine(t)
	// Bayt/MiddleEast has exactly one dedicated specialist; the diversity
	// rule must still surface a globally-capable agent.
	intent := models.IntentResult{
		IsJobRelated:      models.TriTrue,
		Region:            models.RegionMiddleEast,
		Industry:          models.IndustryConstruction,
		OverallConfidence: 0.8,
	}
	decision := e.Route(intent, nil)

	hasGlobal := false
	reg, _ := registry.New(config.Load())
	for _, s := range decision.Selected {
		d, ok := reg.Get(s.AgentID)
		if ok && len(d.PrimaryRegions) == 0 {
			hasGlobal = true
		}
	}
	assert.True(t, hasGlobal, "expected a globally-capable agent to satisfy the diversity rule")
}

func TestRouteForcedAgentsBypassesScoring(t *testing.T) {
	e := newTestEngine(t)
	decision := e.Route(models.IntentResult{IsJobRelated: models.TriTrue}, []models.AgentID{models.AgentLinkedIn, models.AgentIndeed})
	require.Len(t, decision.Selected, 2)
	for _, s := range decision.Selected {
		assert.Equal(t, models.RolePrimary, s.Role)
	}
}

func TestRouteForcedAgentsStillExcludedByRegion(t *testing.T) {
	e := newTestEngine(t)
	decision := e.Route(
		models.IntentResult{IsJobRelated: models.TriTrue, Region: models.RegionGlobal},
		[]models.AgentID{models.AgentGlassdoor},
	)
	assert.Empty(t, decision.Selected)
	assert.Equal(t, "no_agents_selected", decision.RejectReason)
}

func TestRouteReasoningTrailStable(t *testing.T) {
	e := newTestEngine(t)
	intent := models.IntentResult{
		IsJobRelated:      models.TriTrue,
		Region:            models.RegionNorthAmerica,
		Industry:          models.IndustryRetail,
		OverallConfidence: 0.6,
	}
	d1 := e.Route(intent, nil)
	d2 := e.Route(intent, nil)
	assert.Equal(t, d1.Reasoning, d2.Reasoning)
	assert.NotEmpty(t, d1.Reasoning)
}

func TestRouteUnknownRegionTreatsGlobalCapableAsPartial(t *testing.T) {
	e := newTestEngine(t)
	intent := models.IntentResult{
		IsJobRelated:      models.TriTrue,
		Region:            models.RegionUnknown,
		Industry:          models.IndustryTechnology,
		OverallConfidence: 0.8,
	}
	decision := e.Route(intent, nil)
	require.NotEmpty(t, decision.Selected)
}
