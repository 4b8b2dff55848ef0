package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestCompensationValid(t *testing.T) {
	assert.True(t, (&Compensation{}).Valid(), "absent compensation is trivially valid")

	assert.True(t, (&Compensation{Min: f(10), Max: f(20), Currency: "USD"}).Valid())
	assert.False(t, (&Compensation{Min: f(10), Currency: ""}).Valid(), "currency required once a bound is present")
	assert.False(t, (&Compensation{Min: f(30), Max: f(20), Currency: "USD"}).Valid(), "min must not exceed max")
}

func TestFieldCompletenessBounds(t *testing.T) {
	empty := &JobRecord{}
	assert.Equal(t, 0.0, empty.FieldCompleteness())

	full := &JobRecord{
		CompanyURL:      "https://acme.example",
		CompanyLogo:     "https://acme.example/logo.png",
		CompanySize:     "51-200",
		CompanyIndustry: "technology",
		Location:        Location{City: "Berlin", Country: "Germany"},
		Description:     "a description",
		JobType:         JobTypeFullTime,
		Seniority:       SenioritySenior,
		Compensation:    &Compensation{Min: f(1), Max: f(2), Currency: "EUR"},
		Skills:          []string{"go"},
		Benefits:        []string{"healthcare"},
		DirectApplyURL:  "https://acme.example/apply",
	}
	full.PostedAt = nil // still 13/14 checks true, keep one false to confirm it's a ratio not all-or-nothing
	assert.InDelta(t, 13.0/14.0, full.FieldCompleteness(), 1e-9)
}

func TestHasSalaryAndRichDescription(t *testing.T) {
	r := &JobRecord{}
	assert.False(t, r.HasSalary())
	assert.False(t, r.HasRichDescription())

	r.Compensation = &Compensation{Min: f(1)}
	assert.True(t, r.HasSalary())

	long := ""
	for i := 0; i < 200; i++ {
		long += "x"
	}
	r.Description = long
	assert.True(t, r.HasRichDescription())
}
