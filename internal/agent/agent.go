// Package agent defines the uniform contract every job-board scraper
// implements (component C3). Each concrete agent hides its own parsing
// strategy — HTTP+HTML, JSON API, or browser automation — behind a single
// operation; cross-cutting failures are never raised, only reified as a
// TerminatedReason.
package agent

import (
	"context"

	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

// Agent is the uniform scraping contract. Implementations must honor
// ScrapeInput.Deadline and check ScrapeInput.CancellationToken between
// pages; they must never panic or return a Go error for upstream failures,
// only encode them in ScrapeOutput.TerminatedReason.
type Agent interface {
	ID() models.AgentID
	Scrape(ctx context.Context, in models.ScrapeInput) models.ScrapeOutput
}

// Registry is a lookup from AgentID to its concrete Agent implementation.
// Distinct from internal/registry.Registry, which holds static metadata
// (AgentDescriptor); this one holds the runnable implementations the
// scheduler actually invokes.
type Registry struct {
	agents map[models.AgentID]Agent
}

// NewRegistry builds a runtime agent registry from the given implementations.
func NewRegistry(agents ...Agent) *Registry {
	r := &Registry{agents: make(map[models.AgentID]Agent, len(agents))}
	for _, a := range agents {
		r.agents[a.ID()] = a
	}
	return r
}

// Get returns the concrete agent for id, or false if unregistered.
func (r *Registry) Get(id models.AgentID) (Agent, bool) {
	a, ok := r.agents[id]
	return a, ok
}
