package models

import "time"

// DescriptionFormat identifies how JobRecord.Description is encoded.
type DescriptionFormat string

const (
	DescriptionPlain    DescriptionFormat = "plain"
	DescriptionMarkdown DescriptionFormat = "markdown"
	DescriptionHTML     DescriptionFormat = "html"
)

// CompensationInterval is the pay period a compensation range is quoted over.
type CompensationInterval string

const (
	IntervalHour  CompensationInterval = "hour"
	IntervalDay   CompensationInterval = "day"
	IntervalWeek  CompensationInterval = "week"
	IntervalMonth CompensationInterval = "month"
	IntervalYear  CompensationInterval = "year"
)

// CompensationSource distinguishes a salary taken verbatim from a listing
// from an estimated one. The Merger does not produce estimates itself.
type CompensationSource string

const (
	CompensationListing  CompensationSource = "listing"
	CompensationEstimate CompensationSource = "estimate"
)

// Compensation is a normalized pay range. Min/Max/Currency travel together:
// Currency is required whenever either bound is present.
type Compensation struct {
	Min      *float64             `json:"min,omitempty"`
	Max      *float64             `json:"max,omitempty"`
	Currency string               `json:"currency,omitempty"`
	Interval CompensationInterval `json:"interval,omitempty"`
	Source   CompensationSource   `json:"source,omitempty"`
}

// Valid reports whether the compensation satisfies the canonical invariant
// of spec.md §3: min <= max when both present, currency required if either is.
func (c *Compensation) Valid() bool {
	if c == nil {
		return true
	}
	if (c.Min != nil || c.Max != nil) && c.Currency == "" {
		return false
	}
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		return false
	}
	return true
}

// Location is the normalized breakdown of a listing's raw location string.
type Location struct {
	Raw      string `json:"raw"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Country  string `json:"country,omitempty"`
	IsRemote bool   `json:"is_remote"`
}

// ListingKind distinguishes organic results from sponsored placements.
type ListingKind string

const (
	ListingOrganic   ListingKind = "organic"
	ListingSponsored ListingKind = "sponsored"
)

// JobRecord is the 34-field canonical schema every agent's partial output is
// normalized into by the Result Merger (C7). Every field not present is an
// explicit absence (nil/zero value with omitempty), never an empty string
// standing in for "unknown".
type JobRecord struct {
	// Identity
	ID              string   `json:"id"`
	SourceAgent     string   `json:"source_agent"`
	SourceURL       string   `json:"source_url"`
	DirectApplyURL  string   `json:"direct_apply_url,omitempty"`

	// Core listing fields
	Title            string `json:"title"`
	Company          string `json:"company"`
	CompanyURL       string `json:"company_url,omitempty"`
	CompanyLogo      string `json:"company_logo,omitempty"`
	CompanySize      string `json:"company_size,omitempty"`
	CompanyIndustry  string `json:"company_industry,omitempty"`

	Location Location `json:"location"`

	PostedAt  *time.Time `json:"posted_at,omitempty"`
	ScrapedAt time.Time  `json:"scraped_at"`

	Description       string            `json:"description,omitempty"`
	DescriptionFormat DescriptionFormat `json:"description_format,omitempty"`

	JobType   JobType   `json:"job_type,omitempty"`
	Seniority Seniority `json:"seniority,omitempty"`

	Compensation *Compensation `json:"compensation,omitempty"`

	Skills   []string `json:"skills,omitempty"`
	Benefits []string `json:"benefits,omitempty"`

	ListingKind ListingKind `json:"listing_kind,omitempty"`

	// Merger-assigned fields
	DedupKey     string   `json:"dedup_key"`
	QualityScore float64  `json:"quality_score"`
	Aliases      []string `json:"aliases,omitempty"`

	// Diagnostics carried from the agent that produced (or contributed to) this record.
	SourceWarnings []string `json:"source_warnings,omitempty"`
	Attempts       int      `json:"attempts,omitempty"`
}

// FieldCompleteness returns the fraction of optional/best-effort fields that
// are populated, in [0,1]. Used by the Merger's quality scoring (§4.6).
func (r *JobRecord) FieldCompleteness() float64 {
	checks := []bool{
		r.CompanyURL != "",
		r.CompanyLogo != "",
		r.CompanySize != "",
		r.CompanyIndustry != "",
		r.Location.City != "",
		r.Location.Country != "",
		r.PostedAt != nil,
		r.Description != "",
		r.JobType != "",
		r.Seniority != "" && r.Seniority != SeniorityUnknown,
		r.Compensation != nil,
		len(r.Skills) > 0,
		len(r.Benefits) > 0,
		r.DirectApplyURL != "",
	}
	present := 0
	for _, ok := range checks {
		if ok {
			present++
		}
	}
	return float64(present) / float64(len(checks))
}

// HasSalary reports whether compensation has at least one bound populated.
func (r *JobRecord) HasSalary() bool {
	return r.Compensation != nil && (r.Compensation.Min != nil || r.Compensation.Max != nil)
}

// HasRichDescription reports whether the description clears the 200-char
// floor the quality score rewards (§4.6).
func (r *JobRecord) HasRichDescription() bool {
	return len(r.Description) >= 200
}
