package models

import (
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProject() *ProjectRegistration {
	given := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return &ProjectRegistration{
		Firstname:          "Grace",
		Lastname:           "Hopper",
		Email:              "grace@example.com",
		MobileNumber:       "+91 9876543210",
		Degree:             "MCA",
		Semester:           "3rd semester",
		ProjectName:        "Compiler",
		ProjectDescription: "A compiler for business oriented languages.",
		DateGiven:          given,
		Deadline:           given.Add(48 * time.Hour),
		Status:             lifecycle.Initiated,
	}
}

func TestProjectValidate(t *testing.T) {
	require.NoError(t, validProject().Validate())

	tests := []struct {
		name    string
		mutate  func(p *ProjectRegistration)
		message string
	}{
		{"deadline before date given", func(p *ProjectRegistration) { p.Deadline = p.DateGiven.Add(-time.Hour) }, "Deadline must be after the date given"},
		{"deadline equal to date given", func(p *ProjectRegistration) { p.Deadline = p.DateGiven }, "Deadline must be after the date given"},
		{"short college", func(p *ProjectRegistration) { p.CollegeName = "IT" }, "collegeName must be at least 3 characters long"},
		{"long queries", func(p *ProjectRegistration) { p.Queries = strings.Repeat("q", 501) }, "queries cannot exceed 500 characters"},
		{"bad degree", func(p *ProjectRegistration) { p.Degree = "MBA" }, "Please select a valid degree option"},
		{"bad mobile", func(p *ProjectRegistration) { p.MobileNumber = "12345" }, "Please enter a valid mobile number"},
		{"percentage mismatch", func(p *ProjectRegistration) { p.CompletionPercentage = 25 }, "Completion percentage does not match the project status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProject()
			tt.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, tt.message, apperr.MessageOf(err))
		})
	}
}

func TestInternshipValidate(t *testing.T) {
	i := &InternshipRegistration{
		Firstname:          "Alan",
		Lastname:           "Turing",
		Email:              "alan@example.com",
		MobileNumber:       "9876543210",
		InternshipField:    "Software Development",
		Availability:       "6",
		Skills:             "Go, SQL, cryptanalysis",
		ProjectDescription: "Automatic computing engine prototypes.",
	}
	require.NoError(t, i.Validate())

	i.Availability = "12"
	assert.Equal(t, "Please select a valid availability", apperr.MessageOf(i.Validate()))
}

func TestUserValidate(t *testing.T) {
	u := &User{Name: "Ada", Email: "ada@example.com", Role: RoleUser}
	require.NoError(t, u.Validate())

	u.Role = "root"
	assert.Equal(t, "role must be one of: user admin", apperr.MessageOf(u.Validate()))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(Semesters, "8th semester"))
	assert.False(t, Contains(Degrees, "be"))
}
