package agents

import (
	"github.com/jason660519/jobseeker-sub001/internal/agent"
	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

// DefaultProfiles returns the Profile used for each of the eight
// catalog-style agents. BDJobs is excluded — it runs via BDJobsAgent's
// browser-automation strategy instead (see rod_agent.go).
func DefaultProfiles() []Profile {
	return []Profile{
		{ID: models.AgentLinkedIn, MaxResultsPerCall: 50, SupportsSalary: true, SupportsDescription: true, DefaultCity: "San Francisco", DefaultCountry: "US"},
		{ID: models.AgentIndeed, MaxResultsPerCall: 100, SupportsSalary: true, SupportsDescription: true, DefaultCity: "New York", DefaultCountry: "US"},
		{ID: models.AgentGlassdoor, MaxResultsPerCall: 40, SupportsSalary: true, SupportsDescription: true, DefaultCity: "Berlin", DefaultCountry: "DE",
			RegionUnsupported: map[string]bool{"BD": true}},
		{ID: models.AgentGoogleJobs, MaxResultsPerCall: 60, SupportsSalary: false, SupportsDescription: true, DefaultCity: "London", DefaultCountry: "GB"},
		{ID: models.AgentZipRecruiter, MaxResultsPerCall: 50, SupportsSalary: true, SupportsDescription: true, DefaultCity: "Chicago", DefaultCountry: "US"},
		{ID: models.AgentSeek, MaxResultsPerCall: 50, SupportsSalary: true, SupportsDescription: true, DefaultCity: "Sydney", DefaultCountry: "AU"},
		{ID: models.AgentNaukri, MaxResultsPerCall: 60, SupportsSalary: true, SupportsDescription: true, DefaultCity: "Bengaluru", DefaultCountry: "IN"},
		{ID: models.AgentBayt, MaxResultsPerCall: 40, SupportsSalary: false, SupportsDescription: true, DefaultCity: "Dubai", DefaultCountry: "AE"},
	}
}

// NewDefaultRegistry constructs the runtime Agent implementations for every
// agent the static Registry knows about.
func NewDefaultRegistry() []agent.Agent {
	agentsOut := make([]agent.Agent, 0, 9)
	for _, p := range DefaultProfiles() {
		agentsOut = append(agentsOut, NewCatalogAgent(p))
	}
	agentsOut = append(agentsOut, NewBDJobsAgent())
	return agentsOut
}
