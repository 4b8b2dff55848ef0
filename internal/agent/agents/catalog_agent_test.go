package agents

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

func TestCatalogAgentScrapeProducesRecords(t *testing.T) {
	a := NewCatalogAgent(Profile{
		ID:                  models.AgentLinkedIn,
		MaxResultsPerCall:   10,
		SupportsSalary:      true,
		SupportsDescription: true,
		DefaultCity:         "San Francisco",
		DefaultCountry:      "US",
	})

	out := a.Scrape(context.Background(), models.ScrapeInput{
		SearchTerm:    "golang",
		ResultsWanted: 5,
		Deadline:      time.Now().Add(time.Minute),
	})

	require.Equal(t, models.TerminatedTruncatedResults, out.TerminatedReason)
	assert.Len(t, out.Records, 5)
	for _, r := range out.Records {
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, "linkedin", r.SourceAgent)
		assert.NotEmpty(t, r.Location.Raw)
	}
}

func TestCatalogAgentDeterministicIDs(t *testing.T) {
	a := NewCatalogAgent(Profile{ID: models.AgentIndeed, MaxResultsPerCall: 5, DefaultCity: "NYC", DefaultCountry: "US"})
	in := models.ScrapeInput{SearchTerm: "backend engineer", ResultsWanted: 3, Deadline: time.Now().Add(time.Minute)}

	out1 := a.Scrape(context.Background(), in)
	out2 := a.Scrape(context.Background(), in)

	require.Len(t, out1.Records, len(out2.Records))
	for i := range out1.Records {
		assert.Equal(t, out1.Records[i].ID, out2.Records[i].ID)
	}
}

func TestCatalogAgentRegionUnsupported(t *testing.T) {
	a := NewCatalogAgent(Profile{
		ID:                models.AgentGlassdoor,
		MaxResultsPerCall: 10,
		RegionUnsupported: map[string]bool{"BD": true},
	})
	out := a.Scrape(context.Background(), models.ScrapeInput{SearchTerm: "x", Country: "BD", Deadline: time.Now().Add(time.Minute)})
	assert.Equal(t, models.TerminatedRegionUnsupported, out.TerminatedReason)
	assert.Empty(t, out.Records)
}

func TestCatalogAgentDeadlineExceeded(t *testing.T) {
	a := NewCatalogAgent(Profile{ID: models.AgentSeek, MaxResultsPerCall: 10})
	out := a.Scrape(context.Background(), models.ScrapeInput{SearchTerm: "x", Deadline: time.Now().Add(-time.Second)})
	assert.Equal(t, models.TerminatedTimedOut, out.TerminatedReason)
}

func TestCatalogAgentCancellation(t *testing.T) {
	a := NewCatalogAgent(Profile{ID: models.AgentZipRecruiter, MaxResultsPerCall: 100})
	cancelCh := make(chan struct{})
	close(cancelCh)
	out := a.Scrape(context.Background(), models.ScrapeInput{
		SearchTerm:        "x",
		Deadline:          time.Now().Add(time.Minute),
		CancellationToken: cancelCh,
	})
	assert.Contains(t, out.Warnings, "cancelled mid-page")
}
