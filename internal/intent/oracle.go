package intent

import (
	"context"
	"time"

	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

// Oracle is the optional LLM collaborator contract (spec.md §6): a 2s
// suggested timeout is the caller's responsibility to enforce via ctx.
type Oracle interface {
	Analyze(ctx context.Context, text string, hint string) (models.IntentResult, error)
}

// OracleTimeout is the suggested per-call budget for an Oracle collaborator.
const OracleTimeout = 2 * time.Second

// AnalyzeWithOracle runs the mandatory rule-based classification, then
// optionally merges in an Oracle's output under the fixed semantics of
// spec.md §4.3 step 2: union of extracted entities, max of confidences, and
// the override where an oracle false is overturned when the rule-based
// score clears jobRelatedThreshold with at least one extracted title/skill.
//
// On oracle error or timeout, the core silently falls back to the pure
// rule-based result — an oracle failure is never fatal to a Run.
func AnalyzeWithOracle(ctx context.Context, c *Classifier, q models.Query, oracle Oracle) models.IntentResult {
	ruleBased := c.Analyze(q)
	if oracle == nil {
		return ruleBased
	}

	octx, cancel := context.WithTimeout(ctx, OracleTimeout)
	defer cancel()

	oracleResult, err := oracle.Analyze(octx, q.Text(), q.LanguageHint())
	if err != nil {
		return ruleBased
	}

	return merge(ruleBased, oracleResult)
}

// merge combines a rule-based result with an oracle result per §4.3 step 2.
func merge(rule, oracle models.IntentResult) models.IntentResult {
	merged := rule

	merged.ExtractedJobTitles = unionStrings(rule.ExtractedJobTitles, oracle.ExtractedJobTitles)
	merged.ExtractedSkills = unionStrings(rule.ExtractedSkills, oracle.ExtractedSkills)

	if oracle.RegionConfidence > rule.RegionConfidence {
		merged.Region = oracle.Region
		merged.RegionConfidence = oracle.RegionConfidence
	}
	if oracle.IndustryConfidence > rule.IndustryConfidence {
		merged.Industry = oracle.Industry
		merged.IndustryConfidence = oracle.IndustryConfidence
	}
	if oracle.OverallConfidence > rule.OverallConfidence {
		merged.OverallConfidence = oracle.OverallConfidence
	}
	if oracle.ExtractedLocation != "" {
		merged.ExtractedLocation = oracle.ExtractedLocation
	}
	if oracle.Seniority != "" && oracle.Seniority != models.SeniorityUnknown {
		merged.Seniority = oracle.Seniority
	}
	if oracle.IsRemote != nil {
		merged.IsRemote = oracle.IsRemote
	}

	merged.IsJobRelated = oracle.IsJobRelated

	// Required mitigation for oracle over-rejection (§4.3 step 2, §9).
	if oracle.IsJobRelated == models.TriFalse &&
		rule.JobRelevanceScore >= jobRelatedThreshold &&
		(len(rule.ExtractedJobTitles) > 0 || len(rule.ExtractedSkills) > 0) {
		merged.IsJobRelated = models.TriTrue
	}

	return merged
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, v := range append(append([]string{}, a...), b...) {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
