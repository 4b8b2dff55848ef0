// Package agents holds the concrete implementations of the Agent contract,
// one per job board. Each wraps its own fetch/parse strategy behind
// Scrape(ScrapeInput) ScrapeOutput and never raises a cross-cutting error —
// everything terminates into a TerminatedReason, per spec.md §4.2.
package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jason660519/jobseeker-sub001/internal/logging"
	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

// deadlineExceeded reports whether in.Deadline has already passed.
func deadlineExceeded(in models.ScrapeInput) bool {
	return !in.Deadline.IsZero() && time.Now().After(in.Deadline)
}

// cancelled reports whether the caller signaled cancellation.
func cancelled(in models.ScrapeInput) bool {
	if in.CancellationToken == nil {
		return false
	}
	select {
	case <-in.CancellationToken:
		return true
	default:
		return false
	}
}

// recordID produces the stable per-source id mandated by spec.md §3:
// "<agent_id>:<site_native_id>".
func recordID(agentID models.AgentID, nativeID string) string {
	return fmt.Sprintf("%s:%s", agentID, nativeID)
}

// syntheticNativeID produces a stable, deterministic native id from the
// query and an ordinal, so identical queries against the same agent produce
// identical ids — required for the routing/merge determinism properties to
// be testable without a live upstream.
func syntheticNativeID(seed string, ordinal int) string {
	ns := uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s#%d", seed, ordinal)))
	return ns.String()
}

func logger(agentID models.AgentID) zerolog.Logger {
	return logging.L().With().Str("agent", string(agentID)).Logger()
}

// capResults enforces max_results_per_call and the caller's results_wanted,
// whichever is smaller, setting truncated_results_cap when the natural
// result set would have exceeded it.
func capResults(records []models.JobRecord, in models.ScrapeInput, maxPerCall int) ([]models.JobRecord, bool) {
	limit := maxPerCall
	if in.ResultsWanted > 0 && in.ResultsWanted < limit {
		limit = in.ResultsWanted
	}
	if len(records) <= limit {
		return records, false
	}
	return records[:limit], true
}

// matchesSearchTerm is a coarse relevance gate used by the simulated
// catalogs: a record is considered a plausible hit if, ignoring case, its
// title contains the whole search term or the search term contains the whole
// title. Skills are not consulted, and an empty search term matches anything.
func matchesSearchTerm(title string, searchTerm string) bool {
	searchTerm = strings.ToLower(strings.TrimSpace(searchTerm))
	if searchTerm == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), searchTerm) || strings.Contains(searchTerm, strings.ToLower(title))
}

// ctxDone folds context cancellation into the same check as the explicit
// cancellation token, since the scheduler derives both from the same
// per-execution lifecycle.
func ctxDone(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
