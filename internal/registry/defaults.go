package registry

import "github.com/jason660519/jobseeker-sub001/pkg/models"

func regionSet(regions ...models.Region) map[models.Region]struct{} {
	s := make(map[models.Region]struct{}, len(regions))
	for _, r := range regions {
		s[r] = struct{}{}
	}
	return s
}

func capSet(caps ...models.Capability) map[models.Capability]struct{} {
	s := make(map[models.Capability]struct{}, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

// defaultGlobalRateLimit is the sensible-default rate limit of spec §9's
// open question on per-agent limits: 30 requests/min, burst of 5.
var defaultGlobalRateLimit = models.RateLimit{RequestsPerMinute: 30, Burst: 5}

// defaultDescriptors is the static, load-once agent catalog. Exactly nine
// agents, matching the Registry-is-authoritative resolution of the 9-vs-11
// discrepancy: unknown ids are never accepted, and this list is the entire
// truth about what agents exist.
var defaultDescriptors = []models.AgentDescriptor{
	{
		ID:               models.AgentLinkedIn,
		PrimaryRegions:   regionSet(), // unrestricted: serves every region
		ExcludedRegions:  regionSet(),
		IndustryAffinity: map[models.Industry]float64{models.IndustryTechnology: 0.9, models.IndustryFinance: 0.7, models.IndustryHealthcare: 0.5},
		ReliabilityScore: 0.92,
		AvgLatencyMS:     900,
		RateLimit:        models.RateLimit{RequestsPerMinute: 20, Burst: 4},
		Capabilities:     capSet(models.CapabilitySalary, models.CapabilityRemoteFilter, models.CapabilityDateFilter, models.CapabilityDescription, models.CapabilityCompanyRating),
		MaxResultsPerCall:     50,
		SupportsJobTypeFilter: true,
	},
	{
		ID:               models.AgentIndeed,
		PrimaryRegions:   regionSet(),
		ExcludedRegions:  regionSet(),
		IndustryAffinity: map[models.Industry]float64{models.IndustryTechnology: 0.7, models.IndustryConstruction: 0.6, models.IndustryRetail: 0.6, models.IndustryManufacturing: 0.6},
		ReliabilityScore: 0.88,
		AvgLatencyMS:     700,
		RateLimit:        defaultGlobalRateLimit,
		Capabilities:     capSet(models.CapabilitySalary, models.CapabilityRemoteFilter, models.CapabilityDateFilter, models.CapabilityDescription),
		MaxResultsPerCall:     100,
		SupportsJobTypeFilter: true,
	},
	{
		ID: models.AgentGlassdoor,
		// Glassdoor has no worldwide catalog: the §9 bug fix requires this
		// hard exclusion so a Global-region query never selects it.
		PrimaryRegions:   regionSet(models.RegionNorthAmerica, models.RegionEurope),
		ExcludedRegions:  regionSet(models.RegionGlobal),
		IndustryAffinity: map[models.Industry]float64{models.IndustryTechnology: 0.8, models.IndustryFinance: 0.8},
		ReliabilityScore: 0.8,
		AvgLatencyMS:     1100,
		RateLimit:        defaultGlobalRateLimit,
		Capabilities:     capSet(models.CapabilitySalary, models.CapabilityDescription, models.CapabilityCompanyRating),
		MaxResultsPerCall:     40,
		SupportsJobTypeFilter: false,
	},
	{
		ID:               models.AgentGoogleJobs,
		PrimaryRegions:   regionSet(),
		ExcludedRegions:  regionSet(),
		IndustryAffinity: map[models.Industry]float64{models.IndustryTechnology: 0.85, models.IndustryOther: 0.5},
		ReliabilityScore: 0.85,
		AvgLatencyMS:     600,
		RateLimit:        defaultGlobalRateLimit,
		Capabilities:     capSet(models.CapabilityRemoteFilter, models.CapabilityDateFilter, models.CapabilityDescription),
		MaxResultsPerCall:     60,
		SupportsJobTypeFilter: true,
	},
	{
		ID:               models.AgentZipRecruiter,
		PrimaryRegions:   regionSet(models.RegionNorthAmerica),
		ExcludedRegions:  regionSet(),
		IndustryAffinity: map[models.Industry]float64{models.IndustryRetail: 0.7, models.IndustryManufacturing: 0.6, models.IndustryConstruction: 0.6},
		ReliabilityScore: 0.75,
		AvgLatencyMS:     750,
		RateLimit:        defaultGlobalRateLimit,
		Capabilities:     capSet(models.CapabilitySalary, models.CapabilityDateFilter, models.CapabilityDescription),
		MaxResultsPerCall:     50,
		SupportsJobTypeFilter: true,
	},
	{
		ID:               models.AgentSeek,
		PrimaryRegions:   regionSet(models.RegionOceania),
		ExcludedRegions:  regionSet(models.RegionGlobal),
		IndustryAffinity: map[models.Industry]float64{models.IndustryTechnology: 0.7, models.IndustryConstruction: 0.6, models.IndustryHealthcare: 0.6},
		ReliabilityScore: 0.83,
		AvgLatencyMS:     650,
		RateLimit:        defaultGlobalRateLimit,
		Capabilities:     capSet(models.CapabilitySalary, models.CapabilityRemoteFilter, models.CapabilityDescription),
		MaxResultsPerCall:     50,
		SupportsJobTypeFilter: true,
	},
	{
		ID:               models.AgentNaukri,
		PrimaryRegions:   regionSet(models.RegionSouthAsia),
		ExcludedRegions:  regionSet(models.RegionGlobal),
		IndustryAffinity: map[models.Industry]float64{models.IndustryTechnology: 0.85, models.IndustryFinance: 0.6},
		ReliabilityScore: 0.78,
		AvgLatencyMS:     800,
		RateLimit:        defaultGlobalRateLimit,
		Capabilities:     capSet(models.CapabilitySalary, models.CapabilityDescription),
		MaxResultsPerCall:     60,
		SupportsJobTypeFilter: true,
	},
	{
		ID:               models.AgentBayt,
		PrimaryRegions:   regionSet(models.RegionMiddleEast),
		ExcludedRegions:  regionSet(models.RegionGlobal),
		IndustryAffinity: map[models.Industry]float64{models.IndustryConstruction: 0.7, models.IndustryGovernment: 0.6, models.IndustryFinance: 0.5},
		ReliabilityScore: 0.7,
		AvgLatencyMS:     950,
		RateLimit:        defaultGlobalRateLimit,
		Capabilities:     capSet(models.CapabilityDescription),
		MaxResultsPerCall:     40,
		SupportsJobTypeFilter: false,
	},
	{
		ID: models.AgentBDJobs,
		// Served via headless browser automation — no stable JSON/HTML
		// contract — hence the elevated avg_latency_ms budget per §4.2.
		PrimaryRegions:   regionSet(models.RegionSouthAsia),
		ExcludedRegions:  regionSet(models.RegionGlobal),
		IndustryAffinity: map[models.Industry]float64{models.IndustryOther: 0.5, models.IndustryGovernment: 0.5},
		ReliabilityScore: 0.6,
		AvgLatencyMS:     2200,
		RateLimit:        models.RateLimit{RequestsPerMinute: 15, Burst: 3},
		Capabilities:     capSet(models.CapabilityDescription),
		MaxResultsPerCall:     30,
		SupportsJobTypeFilter: false,
	},
}
