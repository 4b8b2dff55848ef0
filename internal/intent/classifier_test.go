package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

func TestAnalyzeJobRelatedQuery(t *testing.T) {
	c := New()
	q := models.NewQuery("senior golang developer hiring remote", models.WithLocation("Berlin, Germany"))
	result := c.Analyze(q)

	assert.Equal(t, models.TriTrue, result.IsJobRelated)
	assert.Equal(t, models.RegionEurope, result.Region)
	assert.Equal(t, models.SenioritySenior, result.Seniority)
	assert.NotNil(t, result.IsRemote)
	assert.True(t, *result.IsRemote)
	assert.Contains(t, result.ExtractedJobTitles, "developer")
	assert.Contains(t, result.ExtractedSkills, "go")
}

func TestAnalyzeNonJobQuery(t *testing.T) {
	c := New()
	q := models.NewQuery("weather forecast tomorrow")
	result := c.Analyze(q)

	assert.NotEqual(t, models.TriTrue, result.IsJobRelated)
}

func TestAnalyzeDeterministic(t *testing.T) {
	c := New()
	q := models.NewQuery("nurse hiring in Sydney Australia", models.WithLocation("Sydney"))
	r1 := c.Analyze(q)
	r2 := c.Analyze(q)
	assert.Equal(t, r1, r2)
}

func TestRegionCountryHintFallback(t *testing.T) {
	c := New()
	q := models.NewQuery("software engineer", models.WithCountryHint("india"))
	result := c.Analyze(q)
	assert.Equal(t, models.RegionSouthAsia, result.Region)
}

type stubOracle struct {
	result models.IntentResult
	err    error
}

func (s stubOracle) Analyze(ctx context.Context, text, hint string) (models.IntentResult, error) {
	return s.result, s.err
}

func TestAnalyzeWithOracleMergesUnion(t *testing.T) {
	c := New()
	q := models.NewQuery("engineer hiring in Berlin", models.WithLocation("Berlin"))

	oracle := stubOracle{result: models.IntentResult{
		IsJobRelated:       models.TriTrue,
		ExtractedSkills:    []string{"rust"},
		ExtractedJobTitles: []string{"site reliability engineer"},
		RegionConfidence:   0.9,
		Region:             models.RegionEurope,
	}}

	merged := AnalyzeWithOracle(context.Background(), c, q, oracle)
	assert.Contains(t, merged.ExtractedSkills, "rust")
	assert.Contains(t, merged.ExtractedJobTitles, "site reliability engineer")
}

func TestAnalyzeWithOracleOverridesOverRejection(t *testing.T) {
	c := New()
	q := models.NewQuery("senior golang developer hiring remote apply now")

	oracle := stubOracle{result: models.IntentResult{IsJobRelated: models.TriFalse}}
	merged := AnalyzeWithOracle(context.Background(), c, q, oracle)

	require.Greater(t, c.Analyze(q).JobRelevanceScore, jobRelatedThreshold-0.01)
	assert.Equal(t, models.TriTrue, merged.IsJobRelated, "rule-based confidence must override oracle over-rejection")
}

func TestAnalyzeWithOracleFallsBackOnError(t *testing.T) {
	c := New()
	q := models.NewQuery("developer hiring")
	oracle := stubOracle{err: errors.New("timeout")}

	merged := AnalyzeWithOracle(context.Background(), c, q, oracle)
	expected := c.Analyze(q)
	assert.Equal(t, expected, merged)
}

func TestAnalyzeWithOracleNilFallsBackToRule(t *testing.T) {
	c := New()
	q := models.NewQuery("developer")
	merged := AnalyzeWithOracle(context.Background(), c, q, nil)
	assert.Equal(t, c.Analyze(q), merged)
}
