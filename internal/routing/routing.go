// Package routing implements the Routing Engine (component C5): it turns an
// IntentResult plus the static Agent Registry into an ordered
// RoutingDecision, following the nine-step algorithm of spec.md §4.4.
package routing

import (
	"sort"

	"github.com/jason660519/jobseeker-sub001/internal/config"
	"github.com/jason660519/jobseeker-sub001/internal/registry"
	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

// Engine computes RoutingDecisions against a fixed Registry and config.
type Engine struct {
	registry *registry.Registry
	cfg      *config.EngineConfig
}

// New builds a routing Engine.
func New(reg *registry.Registry, cfg *config.EngineConfig) *Engine {
	return &Engine{registry: reg, cfg: cfg}
}

// candidate is the routing engine's working representation of one agent
// under consideration, carrying the component scores step 9's reasoning
// trail reports.
type candidate struct {
	descriptor     models.AgentDescriptor
	regionScore    float64
	industryScore  float64
	compositeScore float64
	globalCapable  bool
}

// Route runs the full nine-step selection algorithm. forceAgents, when
// non-empty, bypasses steps 1-6 entirely and selects exactly those agents
// (still subject to the step 7 hard region-exclusion filter).
func (e *Engine) Route(intent models.IntentResult, forceAgents []models.AgentID) models.RoutingDecision {
	// Step 1: gate.
	if intent.IsJobRelated == models.TriFalse {
		return models.RoutingDecision{RejectReason: "query_rejected"}
	}

	region := intent.Region
	if region == "" {
		region = models.RegionUnknown
	}

	if len(forceAgents) > 0 {
		return e.routeForced(forceAgents, region)
	}

	// Step 2: candidate set — exclude only agents whose excluded_regions
	// names the detected region (or Global, when region is unknown).
	exclusionRegion := region
	if region == models.RegionUnknown {
		exclusionRegion = models.RegionGlobal
	}

	all := e.registry.GetAllAgents()
	candidates := make([]candidate, 0, len(all))
	var rejected []models.RejectedAgent

	for _, d := range all {
		if _, excluded := d.ExcludedRegions[exclusionRegion]; excluded {
			rejected = append(rejected, models.RejectedAgent{AgentID: d.ID, Reason: "region_excluded"})
			continue
		}
		candidates = append(candidates, e.score(d, region, intent))
	}

	if len(candidates) == 0 {
		return models.RoutingDecision{
			Rejected:     rejected,
			RejectReason: "no_agents_selected",
			Reasoning:    reasoningFrom(nil, rejected),
		}
	}

	sortCandidates(candidates)

	selected, leftoverRejected := e.selectRoles(candidates, region)
	rejected = append(rejected, leftoverRejected...)

	// Step 7: hard region-exclusion re-verification (the Glassdoor/WORLDWIDE
	// bug fix) — defense in depth even though step 2 already filtered.
	selected, rejected = e.reverifyExclusions(selected, rejected, exclusionRegion)

	// Step 8: diversity rule.
	selected, rejected = e.applyDiversityRule(selected, candidates, rejected, region)

	if len(selected) == 0 {
		return models.RoutingDecision{
			Rejected:     rejected,
			RejectReason: "no_agents_selected",
			Reasoning:    reasoningFrom(candidates, rejected),
		}
	}

	return models.RoutingDecision{
		Selected:            selected,
		Rejected:            rejected,
		PredictedConfidence: predictedConfidence(selected, candidates),
		Reasoning:           reasoningFrom(candidates, rejected),
	}
}

// routeForced bypasses scoring entirely but still enforces the hard region
// exclusion (step 7 applies unconditionally, per spec.md §4.4).
func (e *Engine) routeForced(forced []models.AgentID, region models.Region) models.RoutingDecision {
	exclusionRegion := region
	if region == models.RegionUnknown {
		exclusionRegion = models.RegionGlobal
	}

	var selected []models.SelectedAgent
	var rejected []models.RejectedAgent
	for _, id := range forced {
		d, ok := e.registry.Get(id)
		if !ok {
			rejected = append(rejected, models.RejectedAgent{AgentID: id, Reason: "unknown_agent"})
			continue
		}
		if _, excluded := d.ExcludedRegions[exclusionRegion]; excluded {
			rejected = append(rejected, models.RejectedAgent{AgentID: id, Reason: "region_excluded"})
			continue
		}
		selected = append(selected, models.SelectedAgent{AgentID: id, Role: models.RolePrimary, Weight: 1.0})
	}

	if len(selected) == 0 {
		return models.RoutingDecision{Rejected: rejected, RejectReason: "no_agents_selected"}
	}
	return models.RoutingDecision{Selected: selected, Rejected: rejected, PredictedConfidence: 1.0}
}

// score computes steps 3-5 for one candidate.
func (e *Engine) score(d models.AgentDescriptor, region models.Region, intent models.IntentResult) candidate {
	globalCapable := len(d.PrimaryRegions) == 0

	var regionScore float64
	switch {
	case region == models.RegionUnknown && globalCapable:
		regionScore = 0.6
	case !globalCapable && isPrimaryRegion(d, region):
		regionScore = 1.0
	case globalCapable:
		regionScore = 0.4
	default:
		regionScore = 0.0
	}

	industryScore := d.IndustryAffinity[intent.Industry]
	if industryScore == 0 {
		industryScore = 0.2
	}

	composite := (e.cfg.WeightRegion*regionScore + e.cfg.WeightIndustry*industryScore + e.cfg.WeightReliability*d.ReliabilityScore) * intent.OverallConfidence

	return candidate{
		descriptor:     d,
		regionScore:    regionScore,
		industryScore:  industryScore,
		compositeScore: composite,
		globalCapable:  globalCapable,
	}
}

func isPrimaryRegion(d models.AgentDescriptor, region models.Region) bool {
	_, ok := d.PrimaryRegions[region]
	return ok
}

// sortCandidates orders by composite desc, then reliability desc, then
// lexical agent-id order — the deterministic tie-break spec.md §4.4 mandates.
func sortCandidates(cs []candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].compositeScore != cs[j].compositeScore {
			return cs[i].compositeScore > cs[j].compositeScore
		}
		if cs[i].descriptor.ReliabilityScore != cs[j].descriptor.ReliabilityScore {
			return cs[i].descriptor.ReliabilityScore > cs[j].descriptor.ReliabilityScore
		}
		return cs[i].descriptor.ID < cs[j].descriptor.ID
	})
}

// selectRoles implements step 6: top K_primary become primary, next
// K_secondary become secondary, and any candidate scoring below
// min_selection_score is demoted to fallback regardless of its rank. Extra
// fallback slots (up to K_fallback) are filled from the remaining
// candidates in order.
func (e *Engine) selectRoles(cs []candidate, region models.Region) ([]models.SelectedAgent, []models.RejectedAgent) {
	var selected []models.SelectedAgent
	var rejected []models.RejectedAgent

	primaryCount, secondaryCount, fallbackCount := 0, 0, 0
	for i, c := range cs {
		rank := i
		switch {
		case rank < e.cfg.KPrimary:
			role := models.RolePrimary
			if c.compositeScore < e.cfg.MinSelectionScore {
				role = models.RoleFallback
				fallbackCount++
			} else {
				primaryCount++
			}
			selected = append(selected, models.SelectedAgent{AgentID: c.descriptor.ID, Role: role, Weight: c.compositeScore})
		case rank < e.cfg.KPrimary+e.cfg.KSecondary:
			role := models.RoleSecondary
			if c.compositeScore < e.cfg.MinSelectionScore {
				role = models.RoleFallback
				fallbackCount++
			} else {
				secondaryCount++
			}
			selected = append(selected, models.SelectedAgent{AgentID: c.descriptor.ID, Role: role, Weight: c.compositeScore})
		case fallbackCount < e.cfg.KFallback:
			selected = append(selected, models.SelectedAgent{AgentID: c.descriptor.ID, Role: models.RoleFallback, Weight: c.compositeScore})
			fallbackCount++
		default:
			rejected = append(rejected, models.RejectedAgent{AgentID: c.descriptor.ID, Reason: "not_selected"})
		}
	}
	return selected, rejected
}

// reverifyExclusions drops any selected agent that violates excluded_regions
// — the §9 Glassdoor/WORLDWIDE defect fix, enforced as a hard boundary
// independent of how the candidate made it into `selected`.
func (e *Engine) reverifyExclusions(selected []models.SelectedAgent, rejected []models.RejectedAgent, exclusionRegion models.Region) ([]models.SelectedAgent, []models.RejectedAgent) {
	kept := selected[:0:0]
	for _, s := range selected {
		d, ok := e.registry.Get(s.AgentID)
		if ok {
			if _, excluded := d.ExcludedRegions[exclusionRegion]; excluded {
				rejected = append(rejected, models.RejectedAgent{AgentID: s.AgentID, Reason: "region_excluded"})
				continue
			}
		}
		kept = append(kept, s)
	}
	return kept, rejected
}

// applyDiversityRule implements step 8: ensure at least one globally-capable
// agent is selected, unless the region already has >=2 dedicated
// specialists selected.
func (e *Engine) applyDiversityRule(selected []models.SelectedAgent, candidates []candidate, rejected []models.RejectedAgent, region models.Region) ([]models.SelectedAgent, []models.RejectedAgent) {
	specialistCount := 0
	hasGlobal := false
	selectedIDs := make(map[models.AgentID]struct{}, len(selected))
	for _, s := range selected {
		selectedIDs[s.AgentID] = struct{}{}
		for _, c := range candidates {
			if c.descriptor.ID != s.AgentID {
				continue
			}
			if c.globalCapable {
				hasGlobal = true
			} else {
				specialistCount++
			}
		}
	}

	if hasGlobal || specialistCount >= 2 {
		return selected, rejected
	}

	// Promote the highest-scoring unselected globally-capable candidate.
	for _, c := range candidates {
		if !c.globalCapable {
			continue
		}
		if _, already := selectedIDs[c.descriptor.ID]; already {
			continue
		}
		selected = append(selected, models.SelectedAgent{AgentID: c.descriptor.ID, Role: models.RoleFallback, Weight: c.compositeScore})
		return selected, rejected
	}

	return selected, rejected
}

func predictedConfidence(selected []models.SelectedAgent, candidates []candidate) float64 {
	var sum float64
	var n int
	for _, s := range selected {
		if s.Role == models.RoleFallback {
			continue
		}
		for _, c := range candidates {
			if c.descriptor.ID == s.AgentID {
				sum += c.compositeScore
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// reasoningFrom builds the stable, deterministic structured audit trail
// (step 9): one ScoreBreakdown per known candidate, in the same order
// sortCandidates produced, plus entries for agents excluded before scoring.
func reasoningFrom(candidates []candidate, rejected []models.RejectedAgent) []models.ScoreBreakdown {
	trail := make([]models.ScoreBreakdown, 0, len(candidates)+len(rejected))
	for _, c := range candidates {
		trail = append(trail, models.ScoreBreakdown{
			AgentID:          c.descriptor.ID,
			RegionScore:      c.regionScore,
			IndustryScore:    c.industryScore,
			ReliabilityScore: c.descriptor.ReliabilityScore,
			CompositeScore:   c.compositeScore,
			Outcome:          "scored",
		})
	}
	seen := make(map[models.AgentID]struct{}, len(candidates))
	for _, c := range candidates {
		seen[c.descriptor.ID] = struct{}{}
	}
	for _, r := range rejected {
		if _, ok := seen[r.AgentID]; ok {
			continue
		}
		trail = append(trail, models.ScoreBreakdown{AgentID: r.AgentID, Outcome: r.Reason})
	}
	sort.SliceStable(trail, func(i, j int) bool { return trail[i].AgentID < trail[j].AgentID })
	return trail
}
