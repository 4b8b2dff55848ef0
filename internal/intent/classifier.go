// Package intent implements the Intent Classifier (component C4): a
// deterministic, rule-based query analyzer with an optional LLM-oracle
// collaborator whose output is merged under the fixed semantics spec.md
// §4.3 pins.
package intent

import (
	"strings"

	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

const (
	// classificationThreshold is the minimum score a region/industry
	// category must clear to be selected over "unknown" (§4.3).
	classificationThreshold = 0.25

	// jobRelatedThreshold is the rule-based score floor for the oracle
	// override described in §4.3 step 2.
	jobRelatedThreshold = 0.3
)

// Classifier runs the mandatory rule-based analysis over a Query.
type Classifier struct{}

// New builds a rule-based Classifier.
func New() *Classifier {
	return &Classifier{}
}

// Analyze implements the rule-based half of the Intent Classifier contract.
func (c *Classifier) Analyze(q models.Query) models.IntentResult {
	text := strings.ToLower(q.Text())
	if q.Location() != "" {
		text = text + " " + strings.ToLower(q.Location())
	}

	region, regionScore := classifyRegion(text, q.CountryHint(), q.LanguageHint())
	industry, industryScore := classifyIndustry(text)
	seniority := classifySeniority(text)
	titles := extractMatches(text, jobTitleLexicon)
	skills := extractMatches(text, skillLexicon)

	relevance := jobRelevanceScore(text, titles, skills, q.Location())

	isRemote := detectRemote(text, q)

	isJobRelated := models.TriFalse
	if relevance >= jobRelatedThreshold {
		isJobRelated = models.TriTrue
	} else if relevance > 0 {
		isJobRelated = models.TriUnknown
	}

	overall := (regionScore + industryScore + relevance) / 3

	return models.IntentResult{
		Region:             region,
		RegionConfidence:   regionScore,
		Industry:           industry,
		IndustryConfidence: industryScore,
		ExtractedLocation:  q.Location(),
		ExtractedJobTitles: titles,
		ExtractedSkills:    skills,
		Seniority:          seniority,
		IsRemote:           isRemote,
		IsJobRelated:       isJobRelated,
		OverallConfidence:  overall,
		JobRelevanceScore:  relevance,
	}
}

// classifyRegion scores every region by keyword presence, tie-broken by the
// order region-keyword-in-query > country hint > language hint (§4.3).
func classifyRegion(text, countryHint, languageHint string) (models.Region, float64) {
	best := models.RegionUnknown
	bestScore := 0.0
	for _, region := range models.AllRegions() {
		score := keywordScore(text, regionKeywords[region])
		if score > bestScore {
			bestScore = score
			best = region
		}
	}
	if bestScore >= classificationThreshold {
		return best, bestScore
	}

	if countryHint != "" {
		if region, ok := regionForCountryHint(countryHint); ok {
			return region, classificationThreshold
		}
	}
	if languageHint != "" {
		if region, ok := regionForLanguageHint(languageHint); ok {
			return region, classificationThreshold
		}
	}
	return models.RegionUnknown, bestScore
}

func regionForCountryHint(hint string) (models.Region, bool) {
	hint = strings.ToLower(hint)
	for region, keywords := range regionKeywords {
		for _, kw := range keywords {
			if strings.Contains(hint, kw) {
				return region, true
			}
		}
	}
	return models.RegionUnknown, false
}

func regionForLanguageHint(hint string) (models.Region, bool) {
	switch strings.ToLower(hint) {
	case "es":
		return models.RegionLatinAmerica, true
	case "fr":
		return models.RegionEurope, true
	case "de":
		return models.RegionEurope, true
	case "ar":
		return models.RegionMiddleEast, true
	case "hi":
		return models.RegionSouthAsia, true
	case "pt":
		return models.RegionLatinAmerica, true
	default:
		return models.RegionUnknown, false
	}
}

func classifyIndustry(text string) (models.Industry, float64) {
	best := models.IndustryUnknown
	bestScore := 0.0
	for _, industry := range models.AllIndustries() {
		score := keywordScore(text, industryKeywords[industry])
		if score > bestScore {
			bestScore = score
			best = industry
		}
	}
	if bestScore < classificationThreshold {
		return models.IndustryUnknown, bestScore
	}
	return best, bestScore
}

func classifySeniority(text string) models.Seniority {
	for _, entry := range seniorityKeywords {
		for _, kw := range entry.Keywords {
			if strings.Contains(text, kw) {
				return entry.Seniority
			}
		}
	}
	return models.SeniorityUnknown
}

// keywordScore is the fraction of keywords present in text, capped at 1.0.
func keywordScore(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			hits++
		}
	}
	score := float64(hits) / float64(len(keywords))
	if score > 1.0 {
		return 1.0
	}
	return score
}

func extractMatches(text string, lexicon []string) []string {
	var matches []string
	for _, term := range lexicon {
		if strings.Contains(text, term) {
			matches = append(matches, term)
		}
	}
	return matches
}

// jobRelevanceScore implements §4.3's weighted formula: title match 0.4,
// skill matches up to 0.3, job verbs 0.2, location 0.1, capped at 1.0.
func jobRelevanceScore(text string, titles, skills []string, location string) float64 {
	score := 0.0
	if len(titles) > 0 {
		score += 0.4
	}
	if len(skills) > 0 {
		skillWeight := 0.3 * float64(len(skills)) / float64(len(skillLexicon))
		if skillWeight > 0.3 {
			skillWeight = 0.3
		}
		score += skillWeight
	}
	for _, verb := range jobVerbLexicon {
		if strings.Contains(text, verb) {
			score += 0.2
			break
		}
	}
	if location != "" {
		score += 0.1
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}

func detectRemote(text string, q models.Query) *bool {
	if remote, set := q.IsRemote(); set {
		return &remote
	}
	for _, kw := range AllRemoteKeywords() {
		if strings.Contains(text, kw) {
			v := true
			return &v
		}
	}
	return nil
}
