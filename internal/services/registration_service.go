package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/dto"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/models"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrFirstnameShort        = apperr.Validation("Firstname must be at least 2 characters long")
	ErrLastnameShort         = apperr.Validation("Lastname must be at least 2 characters long")
	ErrRegistrationEmail     = apperr.Validation("Please provide a valid email")
	ErrMobileNumber          = apperr.Validation("Mobile number must be a valid 10-digit number")
	ErrDegree                = apperr.Validation("Please select a valid degree")
	ErrSemester              = apperr.Validation("Please select a valid semester")
	ErrProjectNameShort      = apperr.Validation("Project name must be at least 5 characters long")
	ErrProjectDescShort      = apperr.Validation("Project description must be at least 20 characters long")
	ErrProjectDates          = apperr.Validation("Please provide valid dates for project")
	ErrDeadlineOrder         = apperr.Validation("Deadline must be after the date given")
	ErrInternshipField       = apperr.Validation("Please select a valid Internship Field")
	ErrAvailability          = apperr.Validation("Please select a valid availability")
	ErrSkillsShort           = apperr.Validation("Skills description must be at least 10 characters long")
	ErrInternshipEmailExists = apperr.Conflict("Internship registration with this email already exists")
)

// dateLayouts are tried in order when parsing dateGiven and deadline.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

type RegistrationService struct {
	projects    ProjectStore
	internships InternshipStore
	now         func() time.Time
}

func NewRegistrationService(projects ProjectStore, internships InternshipStore) *RegistrationService {
	return &RegistrationService{projects: projects, internships: internships, now: time.Now}
}

// RegisterProject validates the form in a fixed order, stopping at the first
// failure, and stores the project as Initiated with one history entry.
func (s *RegistrationService) RegisterProject(ctx context.Context, owner uuid.UUID, req *dto.ProjectRegistrationRequest) (*models.ProjectRegistration, error) {
	f := trimProjectForm(req)

	if err := checkPerson(f.Firstname, f.Lastname, f.Email, f.MobileNumber); err != nil {
		return nil, err
	}
	if !models.Contains(models.Degrees, f.Degree) {
		return nil, ErrDegree
	}
	if !models.Contains(models.Semesters, f.Semester) {
		return nil, ErrSemester
	}
	if runeLen(f.ProjectName) < 5 {
		return nil, ErrProjectNameShort
	}
	if runeLen(f.ProjectDescription) < 20 {
		return nil, ErrProjectDescShort
	}
	given, okGiven := parseDate(f.DateGiven)
	deadline, okDeadline := parseDate(f.Deadline)
	if !okGiven || !okDeadline {
		return nil, ErrProjectDates
	}
	if !given.Before(deadline) {
		return nil, ErrDeadlineOrder
	}

	project := &models.ProjectRegistration{
		ID:                   uuid.New(),
		OwnerID:              &owner,
		Firstname:            f.Firstname,
		Lastname:             f.Lastname,
		Email:                f.Email,
		MobileNumber:         f.MobileNumber,
		CollegeName:          f.CollegeName,
		Degree:               f.Degree,
		Semester:             f.Semester,
		ProjectName:          f.ProjectName,
		ProjectDescription:   f.ProjectDescription,
		DateGiven:            given,
		Deadline:             deadline,
		Queries:              f.Queries,
		Status:               lifecycle.Initiated,
		CompletionPercentage: lifecycle.Initiated.Percentage(),
		StatusHistory:        []models.StatusHistoryEntry{models.NewStatusHistoryEntry(lifecycle.Initiated, s.now())},
	}
	if err := s.projects.CreateProject(ctx, project); err != nil {
		return nil, storeError("failed to register project", err)
	}
	slog.InfoContext(ctx, "project registered", "project_id", project.ID.String(), "user_id", owner.String())
	return project, nil
}

func (s *RegistrationService) RegisterInternship(ctx context.Context, req *dto.InternshipRegistrationRequest) (*models.InternshipRegistration, error) {
	in := models.InternshipRegistration{
		Firstname:          strings.TrimSpace(req.Firstname),
		Lastname:           strings.TrimSpace(req.Lastname),
		Email:              normalizeEmail(req.Email),
		MobileNumber:       strings.TrimSpace(req.MobileNumber),
		InternshipField:    strings.TrimSpace(req.InternshipField),
		Availability:       strings.TrimSpace(req.Availability),
		Skills:             strings.TrimSpace(req.Skills),
		ProjectDescription: strings.TrimSpace(req.ProjectDescription),
	}

	if err := checkPerson(in.Firstname, in.Lastname, in.Email, in.MobileNumber); err != nil {
		return nil, err
	}
	switch {
	case !models.Contains(models.InternshipFields, in.InternshipField):
		return nil, ErrInternshipField
	case !models.Contains(models.Availabilities, in.Availability):
		return nil, ErrAvailability
	case runeLen(in.Skills) < 10:
		return nil, ErrSkillsShort
	case runeLen(in.ProjectDescription) < 20:
		return nil, ErrProjectDescShort
	}

	in.ID = uuid.New()
	if err := s.internships.CreateInternship(ctx, &in); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrInternshipEmailExists
		}
		return nil, storeError("failed to register internship", err)
	}
	slog.InfoContext(ctx, "internship registered", "internship_id", in.ID.String())
	return &in, nil
}

func (s *RegistrationService) ListProjects(ctx context.Context) ([]models.ProjectRegistration, error) {
	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		return nil, storeError("failed to fetch registrations", err)
	}
	return projects, nil
}

func (s *RegistrationService) ListInternships(ctx context.Context) ([]models.InternshipRegistration, error) {
	internships, err := s.internships.ListInternships(ctx)
	if err != nil {
		return nil, storeError("failed to fetch internships", err)
	}
	return internships, nil
}

func checkPerson(firstname, lastname, email, mobile string) error {
	switch {
	case runeLen(firstname) < 2:
		return ErrFirstnameShort
	case runeLen(lastname) < 2:
		return ErrLastnameShort
	case !validEmail(email):
		return ErrRegistrationEmail
	case !mobilePattern.MatchString(mobile):
		return ErrMobileNumber
	}
	return nil
}

func trimProjectForm(req *dto.ProjectRegistrationRequest) dto.ProjectRegistrationRequest {
	return dto.ProjectRegistrationRequest{
		Firstname:          strings.TrimSpace(req.Firstname),
		Lastname:           strings.TrimSpace(req.Lastname),
		Email:              normalizeEmail(req.Email),
		MobileNumber:       strings.TrimSpace(req.MobileNumber),
		CollegeName:        strings.TrimSpace(req.CollegeName),
		Degree:             strings.TrimSpace(req.Degree),
		Semester:           strings.TrimSpace(req.Semester),
		ProjectName:        strings.TrimSpace(req.ProjectName),
		ProjectDescription: strings.TrimSpace(req.ProjectDescription),
		DateGiven:          strings.TrimSpace(req.DateGiven),
		Deadline:           strings.TrimSpace(req.Deadline),
		Queries:            strings.TrimSpace(req.Queries),
	}
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
