package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

// titleTemplate produces plausible title variants from a search term, the
// way a JSON-API-backed job board's catalog would fan a keyword out across
// related postings.
var titleTemplate = []string{"%s", "Senior %s", "Junior %s", "%s Engineer", "Lead %s", "%s Specialist"}

// companyPool is a small rotating set of employer names used across every
// catalog-style agent so merge/dedup tests can construct realistic
// cross-source collisions.
var companyPool = []string{"Acme Corp", "Globex", "Initech", "Umbrella Group", "Soylent Labs", "Stark Industries"}

// CatalogAgent implements the Agent contract for job boards reachable via a
// stable JSON API or predictable HTML structure (as opposed to BDJobsAgent's
// headless-browser strategy). Differences between boards are expressed as
// data — a Profile — rather than per-site code, mirroring how the catalog
// of job platforms in the wider ecosystem is typically config-driven.
type CatalogAgent struct {
	Profile Profile
}

// Profile parameterizes one catalog-style job board.
type Profile struct {
	ID                 models.AgentID
	MaxResultsPerCall   int
	SupportsSalary      bool
	SupportsDescription bool
	DefaultCity         string
	DefaultCountry      string
	RegionUnsupported   map[string]bool // country codes this board cannot serve
}

// NewCatalogAgent builds a CatalogAgent for the given profile.
func NewCatalogAgent(p Profile) *CatalogAgent {
	return &CatalogAgent{Profile: p}
}

// ID implements Agent.
func (a *CatalogAgent) ID() models.AgentID { return a.Profile.ID }

// Scrape implements Agent. It honors the deadline and cancellation token,
// and synthesizes a deterministic, query-derived page of results in lieu of
// a live upstream call.
func (a *CatalogAgent) Scrape(ctx context.Context, in models.ScrapeInput) models.ScrapeOutput {
	log := logger(a.ID())

	if in.Country != "" && a.Profile.RegionUnsupported[in.Country] {
		log.Info().Str("country", in.Country).Msg("region unsupported by this board")
		return models.ScrapeOutput{TerminatedReason: models.TerminatedRegionUnsupported}
	}

	if deadlineExceeded(in) || ctxDone(ctx) {
		return models.ScrapeOutput{TerminatedReason: models.TerminatedTimedOut}
	}

	var warnings []string
	records := make([]models.JobRecord, 0, a.Profile.MaxResultsPerCall)
	now := time.Now().UTC()

	for i := 0; i < a.Profile.MaxResultsPerCall; i++ {
		if cancelled(in) || ctxDone(ctx) {
			warnings = append(warnings, "cancelled mid-page")
			break
		}
		if deadlineExceeded(in) {
			return models.ScrapeOutput{Records: records, TerminatedReason: models.TerminatedTimedOut, Warnings: warnings}
		}

		title := fmt.Sprintf(titleTemplate[i%len(titleTemplate)], in.SearchTerm)
		if !matchesSearchTerm(title, in.SearchTerm) {
			continue
		}

		company := companyPool[i%len(companyPool)]
		city := in.Location
		if city == "" {
			city = a.Profile.DefaultCity
		}

		rec := models.JobRecord{
			ID:             recordID(a.ID(), syntheticNativeID(in.SearchTerm+a.Profile.DefaultCity, i)),
			SourceAgent:    string(a.ID()),
			SourceURL:      fmt.Sprintf("https://%s.example/jobs/%d", a.ID(), i),
			Title:          title,
			Company:        company,
			Location: models.Location{
				Raw:      fmt.Sprintf("%s, %s", city, a.Profile.DefaultCountry),
				City:     city,
				Country:  a.Profile.DefaultCountry,
				IsRemote: in.IsRemote != nil && *in.IsRemote,
			},
			ScrapedAt:         now,
			DescriptionFormat: models.DescriptionPlain,
			JobType:           in.JobType,
		}

		if a.Profile.SupportsDescription {
			rec.Description = fmt.Sprintf("We are hiring a %s to join our team in %s. Responsibilities include collaborating across teams and delivering high quality work consistently.", title, city)
		}
		if a.Profile.SupportsSalary && i%3 == 0 {
			min, max := 60000.0+float64(i)*1000, 90000.0+float64(i)*1000
			rec.Compensation = &models.Compensation{
				Min:      &min,
				Max:      &max,
				Currency: "USD",
				Interval: models.IntervalYear,
				Source:   models.CompensationListing,
			}
		}

		records = append(records, rec)
	}

	truncated, wasTruncated := capResults(records, in, a.Profile.MaxResultsPerCall)
	reason := models.TerminatedComplete
	if wasTruncated {
		reason = models.TerminatedTruncatedResults
	}

	return models.ScrapeOutput{Records: truncated, TerminatedReason: reason, Warnings: warnings}
}
