// Package registry provides the single read-only source of truth for agent
// metadata, per the C2 component: regions, industry affinities, reliability,
// rate limits, and capabilities. It is static, load-once, and never mutated
// at runtime, breaking the cyclic agent<->registry reference that a dynamic
// dispatch table would otherwise create.
package registry

import (
	"fmt"

	"github.com/jason660519/jobseeker-sub001/internal/config"
	apperrors "github.com/jason660519/jobseeker-sub001/internal/errors"
	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

// Registry is a read-only catalog of AgentDescriptors, keyed by AgentID.
type Registry struct {
	agents map[models.AgentID]models.AgentDescriptor
	order  []models.AgentID
}

// New builds the registry from the static descriptor table, rejecting
// unknown agent ids at init — the Registry is the single authoritative
// source for which agents exist. Descriptors carrying the catalog's
// unset-rate-limit sentinel (defaultGlobalRateLimit) take their rate limit
// from cfg instead, so the engine-wide default (spec.md §9) is configurable
// in one place rather than baked into the static table.
func New(cfg *config.EngineConfig) (*Registry, error) {
	r := &Registry{
		agents: make(map[models.AgentID]models.AgentDescriptor, len(defaultDescriptors)),
	}
	known := make(map[models.AgentID]struct{})
	for _, id := range models.AllAgentIDs() {
		known[id] = struct{}{}
	}
	configuredDefault := models.RateLimit{RequestsPerMinute: cfg.DefaultRateLimitRPM, Burst: cfg.DefaultRateLimitBurst}
	for _, d := range defaultDescriptors {
		if _, ok := known[d.ID]; !ok {
			return nil, apperrors.NewInternalError(fmt.Sprintf("registry: unknown agent id %q not present in AllAgentIDs", d.ID))
		}
		if d.RateLimit == defaultGlobalRateLimit {
			d.RateLimit = configuredDefault
		}
		r.agents[d.ID] = d
		r.order = append(r.order, d.ID)
	}
	return r, nil
}

// MustNew is New against the environment's default configuration; panics on
// error. Intended for package-level initialization where the static table
// is known-good at compile time.
func MustNew() *Registry {
	r, err := New(config.Load())
	if err != nil {
		panic(err)
	}
	return r
}

// GetAllAgents returns every registered descriptor in stable order.
func (r *Registry) GetAllAgents() []models.AgentDescriptor {
	out := make([]models.AgentDescriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.agents[id])
	}
	return out
}

// Get returns the descriptor for a single agent.
func (r *Registry) Get(id models.AgentID) (models.AgentDescriptor, bool) {
	d, ok := r.agents[id]
	return d, ok
}

// SupportsRegion reports whether the agent may serve the given region: it
// must not be in excluded_regions, and either has no primary_regions
// restriction or explicitly lists the region as primary.
//
// This is the hard exclusion boundary described in spec §4.1/§9: an agent
// marked excluded_regions={Global} for a geo-specific site must never be
// selected when the detected region is Global.
func (r *Registry) SupportsRegion(id models.AgentID, region models.Region) bool {
	d, ok := r.agents[id]
	if !ok {
		return false
	}
	if _, excluded := d.ExcludedRegions[region]; excluded {
		return false
	}
	if len(d.PrimaryRegions) == 0 {
		return true
	}
	_, primary := d.PrimaryRegions[region]
	return primary
}

// SupportsIndustry returns the agent's affinity weight for the given
// industry, or 0 if unlisted.
func (r *Registry) SupportsIndustry(id models.AgentID, industry models.Industry) float64 {
	d, ok := r.agents[id]
	if !ok {
		return 0
	}
	return d.IndustryAffinity[industry]
}
