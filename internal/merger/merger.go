// Package merger implements the Result Merger (component C7): it receives
// per-agent records streamed from the Execution Scheduler, normalizes them,
// deduplicates across and within agents, scores quality, and produces the
// canonical merged set (spec.md §4.6).
package merger

import (
	"sort"

	"github.com/jason660519/jobseeker-sub001/internal/config"
	"github.com/jason660519/jobseeker-sub001/internal/metrics"
	"github.com/jason660519/jobseeker-sub001/internal/registry"
	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

// Merger holds the registry lookup (for reliability_score) and config
// (dedup policy) shared across runs. It is stateless between runs; callers
// get a fresh Accumulator per Run via NewAccumulator.
type Merger struct {
	registry *registry.Registry
	cfg      *config.EngineConfig
}

// New builds a Merger.
func New(reg *registry.Registry, cfg *config.EngineConfig) *Merger {
	return &Merger{registry: reg, cfg: cfg}
}

// NewAccumulator starts a fresh merge session for one Run. ceiling enforces
// spec.md §5's Merger-queue overflow protection: once the number of
// distinct records reaches 10*resultsWanted, further previously-unseen
// records are dropped rather than accepted (already-seen dedup_keys/ids
// still merge normally, since that shrinks rather than grows the set).
func (m *Merger) NewAccumulator(resultsWanted int) *Accumulator {
	ceiling := 10 * resultsWanted
	if ceiling <= 0 {
		ceiling = 100
	}
	return &Accumulator{
		merger:     m,
		byID:       make(map[string]*models.JobRecord),
		byDedupKey: make(map[string]string),
		ceiling:    ceiling,
	}
}

// Accumulator is the mutable merge state for a single run. It is not safe
// for concurrent use: records are handed to it sequentially by the one
// goroutine draining the Scheduler's Emissions channel.
type Accumulator struct {
	merger *Merger

	byID       map[string]*models.JobRecord
	byDedupKey map[string]string // dedup_key -> winning record id

	ceiling         int
	overflowDropped int
	collapsed       int
}

// Ingest normalizes and merges one agent's batch of records into the
// accumulator, per the two-stage dedup policy of spec.md §4.6.
func (a *Accumulator) Ingest(agentID models.AgentID, raw []models.JobRecord) {
	for _, rec := range raw {
		a.ingestOne(agentID, rec)
	}
}

func (a *Accumulator) ingestOne(agentID models.AgentID, rec models.JobRecord) {
	rec = a.normalize(agentID, rec)

	// Stage 1, exact: identical id collapses, later arrival discarded.
	if _, exists := a.byID[rec.ID]; exists {
		a.collapse()
		return
	}

	if a.merger.cfg.DedupPolicy == config.DedupStrictIDOnly {
		a.store(rec)
		return
	}

	// Stage 2, near: identical dedup_key merges across (or within) agents.
	winnerID, known := a.byDedupKey[rec.DedupKey]
	if !known {
		a.store(rec)
		return
	}

	winner := *a.byID[winnerID]
	a.collapse()

	var merged models.JobRecord
	if winner.SourceAgent == rec.SourceAgent {
		merged = resolveSameAgentNearDup(winner, rec)
	} else {
		merged = a.resolveCrossAgentNearDup(winner, rec)
	}
	merged.QualityScore = a.merger.qualityScore(merged)

	delete(a.byID, winnerID)
	a.byID[merged.ID] = &merged
	a.byDedupKey[rec.DedupKey] = merged.ID
}

// store admits a genuinely new record, subject to the overflow ceiling.
func (a *Accumulator) store(rec models.JobRecord) {
	if len(a.byID) >= a.ceiling {
		a.overflowDropped++
		return
	}
	stored := rec
	a.byID[rec.ID] = &stored
	if a.merger.cfg.DedupPolicy != config.DedupStrictIDOnly {
		a.byDedupKey[rec.DedupKey] = rec.ID
	}
}

func (a *Accumulator) collapse() {
	a.collapsed++
	metrics.MergerDedupCollapsedTotal.Inc()
}

// resolveSameAgentNearDup keeps the richer record from the same agent (more
// populated optional fields), breaking ties by earlier scraped_at.
func resolveSameAgentNearDup(winner, candidate models.JobRecord) models.JobRecord {
	if richerFieldSet(candidate, winner) ||
		(equalFieldSet(candidate, winner) && candidate.ScrapedAt.Before(winner.ScrapedAt)) {
		candidate.Aliases = winner.Aliases
		return candidate
	}
	return winner
}

// resolveCrossAgentNearDup merges two agents' views of the same posting:
// the higher-reliability agent's record wins as the base, missing fields
// are back-filled from the loser, and the loser's id becomes an alias.
func (a *Accumulator) resolveCrossAgentNearDup(winner, candidate models.JobRecord) models.JobRecord {
	winnerReliability := a.merger.reliability(models.AgentID(winner.SourceAgent))
	candidateReliability := a.merger.reliability(models.AgentID(candidate.SourceAgent))

	base, other := winner, candidate
	if candidateReliability > winnerReliability {
		base, other = candidate, winner
	}

	merged := backfill(base, other)
	merged.Aliases = append(append([]string{}, winner.Aliases...), other.ID)
	return merged
}

// backfill returns base with every zero-value optional field replaced by
// other's value, per spec.md §4.6's near-duplicate merge rule.
func backfill(base, other models.JobRecord) models.JobRecord {
	if base.DirectApplyURL == "" {
		base.DirectApplyURL = other.DirectApplyURL
	}
	if base.CompanyURL == "" {
		base.CompanyURL = other.CompanyURL
	}
	if base.CompanyLogo == "" {
		base.CompanyLogo = other.CompanyLogo
	}
	if base.CompanySize == "" {
		base.CompanySize = other.CompanySize
	}
	if base.CompanyIndustry == "" {
		base.CompanyIndustry = other.CompanyIndustry
	}
	if base.Location.City == "" {
		base.Location.City = other.Location.City
	}
	if base.Location.State == "" {
		base.Location.State = other.Location.State
	}
	if base.Location.Country == "" {
		base.Location.Country = other.Location.Country
	}
	if base.PostedAt == nil {
		base.PostedAt = other.PostedAt
	}
	if base.Description == "" {
		base.Description = other.Description
	}
	if base.Compensation == nil {
		base.Compensation = other.Compensation
	}
	if len(base.Skills) == 0 {
		base.Skills = other.Skills
	}
	if len(base.Benefits) == 0 {
		base.Benefits = other.Benefits
	}
	return base
}

// richerFieldSet reports whether a has strictly more populated optional
// fields than b.
func richerFieldSet(a, b models.JobRecord) bool {
	return countPopulated(a) > countPopulated(b)
}

func equalFieldSet(a, b models.JobRecord) bool {
	return countPopulated(a) == countPopulated(b)
}

func countPopulated(r models.JobRecord) int {
	checks := []bool{
		r.CompanyURL != "", r.CompanyLogo != "", r.CompanySize != "", r.CompanyIndustry != "",
		r.Location.City != "", r.Location.State != "", r.Location.Country != "",
		r.PostedAt != nil, r.Description != "", r.Compensation != nil,
		len(r.Skills) > 0, len(r.Benefits) > 0, r.DirectApplyURL != "",
	}
	n := 0
	for _, ok := range checks {
		if ok {
			n++
		}
	}
	return n
}

// normalize applies spec.md §4.6's normalization rules to one freshly
// scraped record and stamps its dedup_key and quality_score.
func (a *Accumulator) normalize(agentID models.AgentID, rec models.JobRecord) models.JobRecord {
	rec.SourceAgent = string(agentID)
	rec.Location = normalizeLocation(rec.Location)
	rec.Compensation = normalizeCompensation(rec.Compensation)
	rec.Skills = normalizeSkills(rec.Skills)
	rec.DedupKey = dedupKey(rec)
	rec.QualityScore = a.merger.qualityScore(rec)
	return rec
}

// qualityScore implements spec.md §4.6's formula, reusing JobRecord's own
// completeness/salary/description helpers for three of the four terms.
func (m *Merger) qualityScore(r models.JobRecord) float64 {
	score := 0.4*r.FieldCompleteness() + 0.3*m.reliability(models.AgentID(r.SourceAgent))
	if r.HasSalary() {
		score += 0.2
	}
	if r.HasRichDescription() {
		score += 0.1
	}
	return score
}

func (m *Merger) reliability(id models.AgentID) float64 {
	d, ok := m.registry.Get(id)
	if !ok {
		return 0
	}
	return d.ReliabilityScore
}

// MergedCount returns the number of distinct records currently held.
func (a *Accumulator) MergedCount() int {
	return len(a.byID)
}

// DedupCollapsedCount returns the total number of records folded into an
// existing record across both dedup stages, for the Observability Sink.
func (a *Accumulator) DedupCollapsedCount() int {
	return a.collapsed
}

// OverflowDropped returns the number of records discarded purely due to the
// 10*results_wanted ceiling of spec.md §5, never having participated in
// dedup.
func (a *Accumulator) OverflowDropped() int {
	return a.overflowDropped
}

// Finalize sorts the merged set by quality_score desc (ties broken by id
// for determinism) and applies the results_wanted soft cap of spec.md §4.6:
// excess records already contributed to cross-agent merging but are only
// returned if includeExcess is set.
func (a *Accumulator) Finalize(resultsWanted int, includeExcess bool) models.RunResult {
	records := make([]models.JobRecord, 0, len(a.byID))
	for _, r := range a.byID {
		records = append(records, *r)
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].QualityScore != records[j].QualityScore {
			return records[i].QualityScore > records[j].QualityScore
		}
		return records[i].ID < records[j].ID
	})

	truncated := false
	if resultsWanted > 0 && len(records) > resultsWanted && !includeExcess {
		records = records[:resultsWanted]
		truncated = true
	}

	return models.RunResult{
		Records:                  records,
		MergedCount:              a.MergedCount(),
		TruncatedToResultsWanted: truncated,
	}
}
