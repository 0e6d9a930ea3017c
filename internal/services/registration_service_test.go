package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/dto"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProjectRequest() *dto.ProjectRegistrationRequest {
	return &dto.ProjectRegistrationRequest{
		Firstname:          " Ada ",
		Lastname:           "Lovelace",
		Email:              "ada@example.com",
		MobileNumber:       "9876543210",
		CollegeName:        "University of London",
		Degree:             "B.tech",
		Semester:           "7th semester",
		ProjectName:        "Difference Engine",
		ProjectDescription: "Tabulating polynomial functions mechanically.",
		DateGiven:          "2026-01-01",
		Deadline:           "2026-02-01T10:00:00Z",
	}
}

func TestRegisterProject(t *testing.T) {
	store := memory.New()
	svc := NewRegistrationService(store, store)
	owner := uuid.New()

	p, err := svc.RegisterProject(context.Background(), owner, validProjectRequest())
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Firstname)
	assert.Equal(t, lifecycle.Initiated, p.Status)
	assert.Equal(t, 0, p.CompletionPercentage)
	require.Len(t, p.StatusHistory, 1)
	assert.Equal(t, lifecycle.Initiated, p.StatusHistory[0].Status)
	require.NotNil(t, p.OwnerID)
	assert.Equal(t, owner, *p.OwnerID)
}

func TestRegisterProjectValidationOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *dto.ProjectRegistrationRequest)
		want   error
	}{
		{"firstname", func(r *dto.ProjectRegistrationRequest) { r.Firstname = " A " }, ErrFirstnameShort},
		{"firstname before lastname", func(r *dto.ProjectRegistrationRequest) { r.Firstname = ""; r.Lastname = "" }, ErrFirstnameShort},
		{"lastname", func(r *dto.ProjectRegistrationRequest) { r.Lastname = "L" }, ErrLastnameShort},
		{"email", func(r *dto.ProjectRegistrationRequest) { r.Email = "ada@example" }, ErrRegistrationEmail},
		{"mobile", func(r *dto.ProjectRegistrationRequest) { r.MobileNumber = "+919876543210" }, ErrMobileNumber},
		{"degree", func(r *dto.ProjectRegistrationRequest) { r.Degree = "MBA" }, ErrDegree},
		{"semester", func(r *dto.ProjectRegistrationRequest) { r.Semester = "9th semester" }, ErrSemester},
		{"project name", func(r *dto.ProjectRegistrationRequest) { r.ProjectName = "Eng" }, ErrProjectNameShort},
		{"description", func(r *dto.ProjectRegistrationRequest) { r.ProjectDescription = "too short" }, ErrProjectDescShort},
		{"bad date", func(r *dto.ProjectRegistrationRequest) { r.DateGiven = "01/02/2026" }, ErrProjectDates},
		{"deadline equal", func(r *dto.ProjectRegistrationRequest) { r.Deadline = r.DateGiven }, ErrDeadlineOrder},
		{"deadline before", func(r *dto.ProjectRegistrationRequest) { r.Deadline = "2025-12-31" }, ErrDeadlineOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			svc := NewRegistrationService(store, store)
			req := validProjectRequest()
			tt.mutate(req)

			_, err := svc.RegisterProject(context.Background(), uuid.New(), req)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 400, apperr.KindOf(err).Status())

			stored, err := svc.ListProjects(context.Background())
			require.NoError(t, err)
			assert.Empty(t, stored)
		})
	}
}

func TestRegisterProjectModelLimits(t *testing.T) {
	store := memory.New()
	svc := NewRegistrationService(store, store)
	req := validProjectRequest()
	req.CollegeName = "UL"

	_, err := svc.RegisterProject(context.Background(), uuid.New(), req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRegisterInternship(t *testing.T) {
	store := memory.New()
	svc := NewRegistrationService(store, store)
	ctx := context.Background()
	req := &dto.InternshipRegistrationRequest{
		Firstname:          "Alan",
		Lastname:           "Turing",
		Email:              "alan@example.com",
		MobileNumber:       "9876543210",
		InternshipField:    "Software Development",
		Availability:       "3",
		Skills:             "Go, Postgres, Redis",
		ProjectDescription: "Building a bombe simulator for fun.",
	}

	_, err := svc.RegisterInternship(ctx, req)
	require.NoError(t, err)

	_, err = svc.RegisterInternship(ctx, req)
	assert.ErrorIs(t, err, ErrInternshipEmailExists)

	bad := *req
	bad.Email = "other@example.com"
	bad.Availability = "12"
	_, err = svc.RegisterInternship(ctx, &bad)
	assert.ErrorIs(t, err, ErrAvailability)

	bad.Availability = "9"
	bad.Skills = "Go"
	_, err = svc.RegisterInternship(ctx, &bad)
	assert.ErrorIs(t, err, ErrSkillsShort)

	list, err := svc.ListInternships(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
