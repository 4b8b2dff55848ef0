package merger

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jason660519/jobseeker-sub001/internal/intent"
	"github.com/jason660519/jobseeker-sub001/pkg/models"
)

// countryAliases maps a lowercase country name or ISO code, as it might
// appear in a raw location string, to its canonical display form. Grounded
// in the same region lexicon internal/intent uses for detection, since both
// packages are reasoning about the same set of markets (spec.md §4.3/§4.6).
var countryAliases = map[string]string{
	"us": "United States", "usa": "United States", "united states": "United States",
	"uk": "United Kingdom", "gb": "United Kingdom", "united kingdom": "United Kingdom",
	"de": "Germany", "germany": "Germany",
	"fr": "France", "france": "France",
	"au": "Australia", "australia": "Australia",
	"nz": "New Zealand", "new zealand": "New Zealand",
	"in": "India", "india": "India",
	"bd": "Bangladesh", "bangladesh": "Bangladesh",
	"pk": "Pakistan", "pakistan": "Pakistan",
	"ae": "United Arab Emirates", "uae": "United Arab Emirates",
	"sa": "Saudi Arabia", "saudi arabia": "Saudi Arabia",
	"qa": "Qatar", "qatar": "Qatar",
	"sg": "Singapore", "singapore": "Singapore",
	"vn": "Vietnam", "vietnam": "Vietnam",
	"th": "Thailand", "thailand": "Thailand",
	"ph": "Philippines", "philippines": "Philippines",
	"cn": "China", "china": "China",
	"jp": "Japan", "japan": "Japan",
	"kr": "South Korea", "korea": "South Korea", "south korea": "South Korea",
	"ng": "Nigeria", "nigeria": "Nigeria",
	"ke": "Kenya", "kenya": "Kenya",
	"za": "South Africa", "south africa": "South Africa",
	"br": "Brazil", "brazil": "Brazil",
	"mx": "Mexico", "mexico": "Mexico",
	"ar": "Argentina", "argentina": "Argentina",
	"ca": "Canada", "canada": "Canada",
}

// normalizeLocation fills city/state/country/is_remote from Raw wherever the
// agent left them unset, per spec.md §4.6: "comma-split, known-country
// suffix matching, remote-keyword detection". Fields the agent already
// populated are left untouched — normalization is a fallback, not an
// override, mirroring the division of labor described for
// description_format ("agent's responsibility; Merger fills structure").
func normalizeLocation(loc models.Location) models.Location {
	if !loc.IsRemote {
		loc.IsRemote = containsRemoteKeyword(loc.Raw)
	}

	if loc.Raw == "" || (loc.City != "" && loc.Country != "") {
		return loc
	}

	parts := strings.Split(loc.Raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	parts = nonEmptyParts(parts)

	switch len(parts) {
	case 0:
		// nothing to extract
	case 1:
		if canon, ok := countryAliases[strings.ToLower(parts[0])]; ok {
			if loc.Country == "" {
				loc.Country = canon
			}
		} else if loc.City == "" {
			loc.City = parts[0]
		}
	case 2:
		if canon, ok := countryAliases[strings.ToLower(parts[1])]; ok {
			if loc.Country == "" {
				loc.Country = canon
			}
			if loc.City == "" {
				loc.City = parts[0]
			}
		} else {
			if loc.City == "" {
				loc.City = parts[0]
			}
			if loc.State == "" {
				loc.State = parts[1]
			}
		}
	default:
		last := parts[len(parts)-1]
		if canon, ok := countryAliases[strings.ToLower(last)]; ok && loc.Country == "" {
			loc.Country = canon
		} else if loc.Country == "" {
			loc.Country = last
		}
		if loc.City == "" {
			loc.City = parts[0]
		}
		if loc.State == "" && len(parts) >= 3 {
			loc.State = parts[1]
		}
	}
	return loc
}

func nonEmptyParts(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsRemoteKeyword(raw string) bool {
	lower := strings.ToLower(raw)
	for _, kw := range intent.AllRemoteKeywords() {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var relativeAgoPattern = regexp.MustCompile(`^(\d+)\s*(hour|hr|day|week|month)s?\s+ago$`)

// ParseRelativePostedAt resolves a relative posting-age string (as scraped
// verbatim from a listing card) against scrapedAt, per spec.md §4.6. Agents
// that only observe relative text are expected to call this before handing
// a JobRecord to the Merger, since the canonical schema's posted_at field is
// an absolute timestamp, not a raw string.
func ParseRelativePostedAt(raw string, scrapedAt time.Time) *time.Time {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return nil
	}

	switch s {
	case "just posted", "just now", "today":
		return &scrapedAt
	case "yesterday":
		t := scrapedAt.AddDate(0, 0, -1)
		return &t
	}

	if m := relativeAgoPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		var t time.Time
		switch m[2] {
		case "hour", "hr":
			t = scrapedAt.Add(-time.Duration(n) * time.Hour)
		case "day":
			t = scrapedAt.AddDate(0, 0, -n)
		case "week":
			t = scrapedAt.AddDate(0, 0, -7*n)
		case "month":
			t = scrapedAt.AddDate(0, -n, 0)
		}
		return &t
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// normalizeCompensation canonicalizes currency casing and swaps an inverted
// min/max range, per spec.md §4.6.
func normalizeCompensation(c *models.Compensation) *models.Compensation {
	if c == nil {
		return nil
	}
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		c.Min, c.Max = c.Max, c.Min
	}
	return c
}

// normalizeSkills lowercases and de-duplicates a record's skills list,
// preserving first-seen order.
func normalizeSkills(skills []string) []string {
	if len(skills) == 0 {
		return skills
	}
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		lower := strings.ToLower(strings.TrimSpace(s))
		if lower == "" {
			continue
		}
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, lower)
	}
	return out
}

// foldASCII strips diacritics via Unicode NFD decomposition followed by
// combining-mark removal, so "São Paulo" and "Sao Paulo" fold to the same
// dedup fingerprint (golang.org/x/text/unicode/norm, already pulled in
// transitively by the OpenTelemetry/gRPC stack).
var foldASCII = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeText(s string) string {
	folded, _, err := transform.String(foldASCII, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	lastSpace := false
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func normalizedPrefix(s string, n int) string {
	normalized := normalizeText(s)
	if len(normalized) <= n {
		return normalized
	}
	return normalized[:n]
}

// dedupKey computes spec.md §3's "normalized fingerprint":
// normalize(title) ⊕ normalize(company) ⊕ normalize(city) ⊕
// normalized_first_120_chars(description).
func dedupKey(r models.JobRecord) string {
	return strings.Join([]string{
		normalizeText(r.Title),
		normalizeText(r.Company),
		normalizeText(r.Location.City),
		normalizedPrefix(r.Description, 120),
	}, "|")
}
