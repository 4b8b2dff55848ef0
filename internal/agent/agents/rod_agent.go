package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

// BDJobsAgent implements the Agent contract for boards with no stable
// JSON/HTML contract, requiring headless-browser automation to render
// client-side search results. Its elevated AvgLatencyMS in the Registry
// reflects this strategy (spec.md §4.2).
//
// Browser lifecycle is lazily established per Scrape call and always torn
// down before returning, since the scheduler may run many agents
// concurrently and a long-lived shared browser would violate the
// single-writer-per-agent resource model (spec.md §5).
type BDJobsAgent struct {
	// LaunchHeadless controls whether the Chrome launcher runs headless.
	// Tests that stub Scrape's network edges leave this true.
	LaunchHeadless bool
}

// NewBDJobsAgent builds the headless-browser-backed BDJobs agent.
func NewBDJobsAgent() *BDJobsAgent {
	return &BDJobsAgent{LaunchHeadless: true}
}

// ID implements Agent.
func (a *BDJobsAgent) ID() models.AgentID { return models.AgentBDJobs }

// Scrape implements Agent, navigating a search results page with go-rod and
// extracting postings via CSS selectors. On any launch/navigation failure,
// the failure is reified as network_error — it is never propagated as a Go
// error across the contract boundary.
func (a *BDJobsAgent) Scrape(ctx context.Context, in models.ScrapeInput) models.ScrapeOutput {
	log := logger(a.ID())

	if in.Country != "" && in.Country != "BD" {
		return models.ScrapeOutput{TerminatedReason: models.TerminatedRegionUnsupported}
	}
	if deadlineExceeded(in) || ctxDone(ctx) {
		return models.ScrapeOutput{TerminatedReason: models.TerminatedTimedOut}
	}

	controlURL, err := launcher.New().Headless(a.LaunchHeadless).Launch()
	if err != nil {
		log.Warn().Err(err).Msg("failed to launch headless browser")
		return models.ScrapeOutput{TerminatedReason: models.TerminatedNetworkError, Warnings: []string{err.Error()}}
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		log.Warn().Err(err).Msg("failed to connect to browser")
		return models.ScrapeOutput{TerminatedReason: models.TerminatedNetworkError, Warnings: []string{err.Error()}}
	}
	defer browser.Close()

	searchURL := fmt.Sprintf("https://bdjobs.example/jobs?q=%s&loc=%s", in.SearchTerm, in.Location)

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: searchURL})
	if err != nil {
		return models.ScrapeOutput{TerminatedReason: models.TerminatedNetworkError, Warnings: []string{err.Error()}}
	}
	defer page.Close()

	if err := page.WaitLoad(); err != nil {
		return models.ScrapeOutput{TerminatedReason: models.TerminatedTimedOut, Warnings: []string{err.Error()}}
	}

	records := a.extractListings(page, in)

	limit := in.ResultsWanted
	if limit <= 0 || limit > 30 {
		limit = 30
	}
	truncated, wasTruncated := capResults(records, in, limit)
	reason := models.TerminatedComplete
	if wasTruncated {
		reason = models.TerminatedTruncatedResults
	}
	return models.ScrapeOutput{Records: truncated, TerminatedReason: reason}
}

// extractListings parses the rendered result cards. The selector walk is
// wrapped so a structural change on the target site (site_structure_error)
// never escapes as a panic across the contract boundary.
func (a *BDJobsAgent) extractListings(page *rod.Page, in models.ScrapeInput) (records []models.JobRecord) {
	defer func() {
		if r := recover(); r != nil {
			records = nil
		}
	}()

	elements, err := page.Elements(".job-card")
	if err != nil {
		return nil
	}

	now := time.Now().UTC()
	for i, el := range elements {
		title, _ := el.Text()
		if title == "" {
			continue
		}
		records = append(records, models.JobRecord{
			ID:          recordID(a.ID(), syntheticNativeID(in.SearchTerm, i)),
			SourceAgent: string(a.ID()),
			SourceURL:   "https://bdjobs.example/jobs",
			Title:       title,
			Company:     "Unknown",
			Location: models.Location{
				Raw:     in.Location,
				Country: "BD",
			},
			ScrapedAt:         now,
			DescriptionFormat: models.DescriptionPlain,
		})
	}
	return records
}
