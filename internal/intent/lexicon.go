package intent

import "github.com/jason660519/jobseeker-sub001/pkg/models"

// regionKeywords maps each region to a small set of location/phrase
// keywords used by the rule-based classifier (spec.md §4.3).
var regionKeywords = map[models.Region][]string{
	models.RegionNorthAmerica: {"usa", "united states", "canada", "new york", "san francisco", "toronto", "remote us"},
	models.RegionEurope:       {"europe", "uk", "united kingdom", "germany", "france", "berlin", "london", "paris"},
	models.RegionOceania:      {"australia", "new zealand", "sydney", "melbourne", "auckland"},
	models.RegionEastAsia:     {"china", "japan", "korea", "tokyo", "beijing", "seoul"},
	models.RegionSoutheastAsia: {"singapore", "vietnam", "thailand", "philippines", "jakarta", "manila"},
	models.RegionSouthAsia:    {"india", "bangladesh", "pakistan", "bengaluru", "dhaka", "mumbai"},
	models.RegionMiddleEast:   {"uae", "dubai", "saudi arabia", "qatar", "riyadh"},
	models.RegionAfrica:       {"nigeria", "kenya", "south africa", "lagos", "nairobi", "johannesburg"},
	models.RegionLatinAmerica: {"brazil", "mexico", "argentina", "sao paulo", "bogota", "buenos aires"},
	models.RegionGlobal:       {"worldwide", "global", "anywhere", "remote global"},
}

// industryKeywords maps each industry to keyword/title fragments.
var industryKeywords = map[models.Industry][]string{
	models.IndustryTechnology:   {"software", "developer", "engineer", "devops", "backend", "frontend", "sre", "data scientist"},
	models.IndustryFinance:      {"finance", "accountant", "analyst", "banking", "investment", "actuary"},
	models.IndustryHealthcare:   {"nurse", "physician", "healthcare", "clinical", "pharmacist", "medical"},
	models.IndustryConstruction: {"construction", "site manager", "electrician", "plumber", "civil engineer"},
	models.IndustryEducation:    {"teacher", "professor", "lecturer", "education", "tutor"},
	models.IndustryRetail:       {"retail", "store manager", "cashier", "merchandiser"},
	models.IndustryManufacturing: {"manufacturing", "machinist", "production line", "assembly"},
	models.IndustryGovernment:   {"government", "civil service", "public sector", "ministry"},
}

// seniorityKeywords is a ranked list (most senior first) consulted in order;
// the first match wins (spec.md §4.3).
var seniorityKeywords = []struct {
	Seniority models.Seniority
	Keywords  []string
}{
	{models.SeniorityLead, []string{"lead", "principal", "staff", "head of"}},
	{models.SenioritySenior, []string{"senior", "sr.", "sr "}},
	{models.SeniorityMid, []string{"mid-level", "mid level"}},
	{models.SeniorityJunior, []string{"junior", "jr.", "entry-level", "entry level", "associate"}},
	{models.SeniorityIntern, []string{"intern", "internship", "trainee"}},
}

// jobTitleLexicon and skillLexicon feed the job-relevance score (§4.3):
// title match contributes 0.4, skill matches up to 0.3.
var jobTitleLexicon = []string{
	"engineer", "developer", "manager", "analyst", "designer", "scientist",
	"consultant", "specialist", "technician", "coordinator", "director",
	"accountant", "nurse", "teacher", "architect", "administrator",
}

var skillLexicon = []string{
	"golang", "go", "python", "java", "javascript", "typescript", "react",
	"kubernetes", "docker", "aws", "sql", "excel", "figma", "salesforce",
	"autocad", "nursing", "accounting", "teaching",
}

// jobVerbLexicon contributes 0.2 to the job-relevance score: verbs that
// frame a query as a search for employment rather than e.g. news.
var jobVerbLexicon = []string{"hiring", "apply", "join", "recruiting", "vacancy", "opening", "career"}

// remoteKeywordsByLanguage is the supplemented multi-language remote lexicon
// (country-aware remote-keyword lexicon, SPEC_FULL.md Supplemented
// Features): the original scraper recognized remote synonyms beyond
// English.
var remoteKeywordsByLanguage = map[string][]string{
	"en": {"remote", "wfh", "work from home", "anywhere"},
	"es": {"remoto", "teletrabajo", "trabajo remoto"},
	"fr": {"télétravail", "à distance", "travail à distance"},
	"de": {"fernarbeit", "homeoffice", "remote-arbeit"},
	"pt": {"remoto", "trabalho remoto", "home office"},
}

// AllRemoteKeywords flattens remoteKeywordsByLanguage for simple substring
// scanning when the query's language is unknown.
func AllRemoteKeywords() []string {
	var out []string
	for _, kws := range remoteKeywordsByLanguage {
		out = append(out, kws...)
	}
	return out
}
