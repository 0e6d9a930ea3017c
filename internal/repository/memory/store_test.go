package memory

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/models"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProject(owner uuid.UUID) *models.ProjectRegistration {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	return &models.ProjectRegistration{
		OwnerID:              &owner,
		Firstname:            "Ada",
		Lastname:             "Lovelace",
		Email:                "ada@example.com",
		MobileNumber:         "9876543210",
		Degree:               "BE",
		Semester:             "5th semester",
		ProjectName:          "Analytical Engine",
		ProjectDescription:   "A general purpose mechanical computer design.",
		DateGiven:            now,
		Deadline:             now.AddDate(0, 1, 0),
		Status:               lifecycle.Initiated,
		CompletionPercentage: 0,
		StatusHistory:        []models.StatusHistoryEntry{models.NewStatusHistoryEntry(lifecycle.Initiated, now)},
	}
}

func TestUserEmailIsUnique(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.CreateUser(ctx, &models.User{Name: "Ada", Email: "ada@example.com"}))
	err := s.CreateUser(ctx, &models.User{Name: "Other", Email: "ADA@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestFindUserReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := &models.User{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	got.Name = "changed"

	again, err := s.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.Name)
}

func TestSwapRefreshToken(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := &models.User{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, s.CreateUser(ctx, u))

	first := "digest-1"
	require.NoError(t, s.SetRefreshToken(ctx, u.ID, &first))
	require.NoError(t, s.SwapRefreshToken(ctx, u.ID, "digest-1", "digest-2"))
	assert.ErrorIs(t, s.SwapRefreshToken(ctx, u.ID, "digest-1", "digest-3"), repository.ErrStale)

	require.NoError(t, s.SetRefreshToken(ctx, u.ID, nil))
	got, err := s.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.HasSession())
}

func TestCreateProjectRejectsBadDates(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := newProject(uuid.New())
	p.Deadline = p.DateGiven

	require.Error(t, s.CreateProject(ctx, p))
	list, err := s.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAdvanceStatusCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := newProject(uuid.New())
	require.NoError(t, s.CreateProject(ctx, p))

	next := models.NewStatusHistoryEntry(lifecycle.InProgress, time.Now())
	got, err := s.AdvanceStatus(ctx, p.ID, lifecycle.Initiated, next)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.InProgress, got.Status)
	assert.Len(t, got.StatusHistory, 2)

	_, err = s.AdvanceStatus(ctx, p.ID, lifecycle.Initiated, next)
	assert.ErrorIs(t, err, repository.ErrStale)

	_, err = s.AdvanceStatus(ctx, uuid.New(), lifecycle.Initiated, next)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindUserWithProjects(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := &models.User{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, s.CreateUser(ctx, u))
	require.NoError(t, s.CreateProject(ctx, newProject(u.ID)))
	require.NoError(t, s.CreateProject(ctx, newProject(uuid.New())))

	got, err := s.FindUserWithProjects(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got.Projects, 1)
	assert.Equal(t, "Analytical Engine", got.Projects[0].ProjectName)
}

func TestDeleteAdmin(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := &models.Admin{Email: "root@example.com", Password: "hash"}
	require.NoError(t, s.CreateAdmin(ctx, a))
	assert.ErrorIs(t, s.CreateAdmin(ctx, &models.Admin{Email: "root@example.com", Password: "x"}), repository.ErrDuplicate)

	require.NoError(t, s.DeleteAdmin(ctx, a.ID))
	assert.ErrorIs(t, s.DeleteAdmin(ctx, a.ID), repository.ErrNotFound)
}
