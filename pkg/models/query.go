package models

import "time"

// JobType enumerates the employment arrangement requested by a Query.
type JobType string

const (
	JobTypeFullTime   JobType = "fulltime"
	JobTypePartTime   JobType = "parttime"
	JobTypeContract   JobType = "contract"
	JobTypeTemporary  JobType = "temporary"
	JobTypeInternship JobType = "internship"
)

// Query is the free-form, caller-supplied search request. It is immutable
// after construction by NewQuery; callers needing a variant build a new one.
type Query struct {
	text           string
	location       string
	resultsWanted  int
	maxAgeHours    int
	jobType        JobType
	isRemote       *bool
	countryHint    string
	languageHint   string
}

const (
	defaultResultsWanted = 20
	maxResultsWanted     = 500
)

// QueryOption configures an optional field on NewQuery.
type QueryOption func(*Query)

// WithLocation sets the free-text location hint.
func WithLocation(location string) QueryOption {
	return func(q *Query) { q.location = location }
}

// WithResultsWanted overrides the default result count. Values above 500 are
// clamped to 500; zero or negative values keep the default of 20.
func WithResultsWanted(n int) QueryOption {
	return func(q *Query) {
		if n <= 0 {
			n = defaultResultsWanted
		}
		if n > maxResultsWanted {
			n = maxResultsWanted
		}
		q.resultsWanted = n
	}
}

// WithMaxAgeHours restricts results to listings posted within the window.
func WithMaxAgeHours(hours int) QueryOption {
	return func(q *Query) { q.maxAgeHours = hours }
}

// WithJobType restricts results to a single employment arrangement.
func WithJobType(jt JobType) QueryOption {
	return func(q *Query) { q.jobType = jt }
}

// WithRemote sets an explicit remote-only/remote-excluded preference.
func WithRemote(remote bool) QueryOption {
	return func(q *Query) { q.isRemote = &remote }
}

// WithCountryHint supplies a structured country hint (ISO-3166 alpha-2 or name).
func WithCountryHint(country string) QueryOption {
	return func(q *Query) { q.countryHint = country }
}

// WithLanguageHint supplies a structured language hint (BCP-47 tag).
func WithLanguageHint(lang string) QueryOption {
	return func(q *Query) { q.languageHint = lang }
}

// NewQuery constructs an immutable Query from free text and options.
func NewQuery(text string, opts ...QueryOption) Query {
	q := Query{
		text:          text,
		resultsWanted: defaultResultsWanted,
	}
	for _, opt := range opts {
		opt(&q)
	}
	return q
}

func (q Query) Text() string          { return q.text }
func (q Query) Location() string      { return q.location }
func (q Query) ResultsWanted() int    { return q.resultsWanted }
func (q Query) MaxAgeHours() int      { return q.maxAgeHours }
func (q Query) JobType() JobType      { return q.jobType }
func (q Query) CountryHint() string   { return q.countryHint }
func (q Query) LanguageHint() string  { return q.languageHint }

// IsRemote returns the caller's explicit remote preference and whether one
// was set at all (nil/false, false when unset).
func (q Query) IsRemote() (bool, bool) {
	if q.isRemote == nil {
		return false, false
	}
	return *q.isRemote, true
}

// Seniority is the extracted or inferred seniority band of a query/record.
type Seniority string

const (
	SeniorityIntern  Seniority = "intern"
	SeniorityJunior  Seniority = "junior"
	SeniorityMid     Seniority = "mid"
	SenioritySenior  Seniority = "senior"
	SeniorityLead    Seniority = "lead"
	SeniorityUnknown Seniority = "unknown"
)

// Tri is a three-valued boolean: true, false, or unknown.
type Tri string

const (
	TriTrue    Tri = "true"
	TriFalse   Tri = "false"
	TriUnknown Tri = "unknown"
)

// IntentResult is the Intent Classifier's (C4) output: a best-effort
// structured read of a free-form Query, with per-field confidence.
type IntentResult struct {
	Region             Region    `json:"region"`
	RegionConfidence   float64   `json:"region_confidence"`
	Industry           Industry  `json:"industry"`
	IndustryConfidence float64   `json:"industry_confidence"`
	ExtractedLocation  string    `json:"extracted_location,omitempty"`
	ExtractedJobTitles []string  `json:"extracted_job_titles,omitempty"`
	ExtractedSkills    []string  `json:"extracted_skills,omitempty"`
	Seniority          Seniority `json:"seniority"`
	IsRemote           *bool     `json:"is_remote,omitempty"`
	IsJobRelated       Tri       `json:"is_job_related"`
	OverallConfidence  float64   `json:"overall_confidence"`

	// JobRelevanceScore is the raw rule-based relevance score in [0,1]
	// that fed the IsJobRelated decision (§4.3). Exposed for diagnostics.
	JobRelevanceScore float64 `json:"job_relevance_score"`

	// ScrapedAtHint is not set by the classifier and stays zero; it is
	// excluded from JSON, and JobRecord.scraped_at is assigned
	// independently of it.
	ScrapedAtHint time.Time `json:"-"`
}
