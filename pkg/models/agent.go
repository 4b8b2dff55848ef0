package models

// AgentID is the closed variant set of scraping agents the engine knows
// about. Unlike the source system's string-keyed dynamic dispatch, new
// agents require a new constant plus a Registry entry (spec.md §9).
type AgentID string

const (
	AgentLinkedIn     AgentID = "linkedin"
	AgentIndeed       AgentID = "indeed"
	AgentGlassdoor    AgentID = "glassdoor"
	AgentGoogleJobs   AgentID = "google_jobs"
	AgentZipRecruiter AgentID = "zip_recruiter"
	AgentSeek         AgentID = "seek"          // Australia/NZ
	AgentNaukri       AgentID = "naukri"        // India
	AgentBayt         AgentID = "bayt"          // MENA
	AgentBDJobs       AgentID = "bdjobs"        // Bangladesh
)

// AllAgentIDs lists every agent the Registry may be initialized with, in a
// fixed order. registry.New uses it as the set of known ids; routing breaks
// ties by comparing ids, not by this order.
func AllAgentIDs() []AgentID {
	return []AgentID{
		AgentBDJobs,
		AgentBayt,
		AgentGlassdoor,
		AgentGoogleJobs,
		AgentIndeed,
		AgentLinkedIn,
		AgentNaukri,
		AgentSeek,
		AgentZipRecruiter,
	}
}

// Capability is an optional feature an agent may support.
type Capability string

const (
	CapabilitySalary        Capability = "salary"
	CapabilityRemoteFilter  Capability = "remote_filter"
	CapabilityDateFilter    Capability = "date_filter"
	CapabilityDescription   Capability = "description"
	CapabilityCompanyRating Capability = "company_rating"
)

// RateLimit parameterizes the per-agent token bucket (spec.md §4.5).
type RateLimit struct {
	RequestsPerMinute int
	Burst             int
}

// AgentDescriptor is the static, load-once metadata for one agent
// (spec.md §4.1/§3). It is never mutated at runtime.
type AgentDescriptor struct {
	ID                  AgentID
	PrimaryRegions      map[Region]struct{}
	ExcludedRegions      map[Region]struct{}
	IndustryAffinity    map[Industry]float64
	ReliabilityScore    float64
	AvgLatencyMS        int
	RateLimit           RateLimit
	Capabilities        map[Capability]struct{}
	MaxResultsPerCall   int
	SupportsJobTypeFilter bool
}

// SupportsCapability reports whether the descriptor advertises cap.
func (d AgentDescriptor) SupportsCapability(cap Capability) bool {
	_, ok := d.Capabilities[cap]
	return ok
}

// AgentRole describes why an agent was selected by the Routing Engine.
type AgentRole string

const (
	RolePrimary   AgentRole = "primary"
	RoleSecondary AgentRole = "secondary"
	RoleFallback  AgentRole = "fallback"
)

// SelectedAgent is one entry in a RoutingDecision's ordered selection list.
type SelectedAgent struct {
	AgentID AgentID   `json:"agent_id"`
	Role    AgentRole `json:"role"`
	Weight  float64   `json:"weight"`
}

// RejectedAgent is a diagnostic-only entry explaining why a candidate was
// not selected.
type RejectedAgent struct {
	AgentID AgentID `json:"agent_id"`
	Reason  string  `json:"reason"`
}

// ScoreBreakdown is the per-candidate structured audit trail entry the
// Routing Engine emits (spec.md §4.4 step 9). It is part of the stable,
// deterministic reasoning trail.
type ScoreBreakdown struct {
	AgentID          AgentID `json:"agent_id"`
	RegionScore      float64 `json:"region_score"`
	IndustryScore    float64 `json:"industry_score"`
	ReliabilityScore float64 `json:"reliability_score"`
	CompositeScore   float64 `json:"composite_score"`
	Outcome          string  `json:"outcome"` // "scored" for scored candidates, else "region_excluded", "not_selected" or "unknown_agent"
}

// RoutingDecision is the Routing Engine's (C5) output.
type RoutingDecision struct {
	Selected            []SelectedAgent  `json:"selected"`
	Rejected            []RejectedAgent  `json:"rejected"`
	PredictedConfidence float64          `json:"predicted_confidence"`
	Reasoning           []ScoreBreakdown `json:"reasoning"`
	// RejectReason is set only when Selected is empty (§7): "query_rejected"
	// or "no_agents_selected".
	RejectReason string `json:"reject_reason,omitempty"`
}
