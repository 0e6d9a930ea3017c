package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/models"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrProjectNotFound   = apperr.NotFound("Project not found")
	ErrProjectDelivered  = apperr.Conflict("Project is already delivered")
	ErrConcurrentAdvance = apperr.Conflict("project status changed concurrently")
)

// LifecycleService moves projects through the status pipeline. There is no
// way to set an arbitrary status or to go back.
type LifecycleService struct {
	projects ProjectStore
	now      func() time.Time
}

func NewLifecycleService(projects ProjectStore) *LifecycleService {
	return &LifecycleService{projects: projects, now: time.Now}
}

// Advance moves the project one step forward and appends a history entry.
// If another advance wins the race for the same step, this one fails with
// ErrConcurrentAdvance and writes nothing.
func (s *LifecycleService) Advance(ctx context.Context, id uuid.UUID) (*models.ProjectRegistration, error) {
	project, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := project.Status.Next()
	switch {
	case errors.Is(err, lifecycle.ErrTerminal):
		metrics.ProjectTransitions.WithLabelValues(project.Status.String(), "terminal").Inc()
		return nil, ErrProjectDelivered
	case err != nil:
		return nil, apperr.Internal("project has an unknown status", err)
	}

	entry := models.NewStatusHistoryEntry(next, s.now())
	updated, err := s.projects.AdvanceStatus(ctx, id, project.Status, entry)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrProjectNotFound
	case errors.Is(err, repository.ErrStale):
		metrics.ProjectTransitions.WithLabelValues(next.String(), "conflict").Inc()
		return nil, ErrConcurrentAdvance
	case err != nil:
		return nil, storeError("failed to update project status", err)
	}

	metrics.ProjectTransitions.WithLabelValues(next.String(), "ok").Inc()
	slog.InfoContext(ctx, "project status advanced",
		"project_id", id.String(),
		"from", project.Status.String(),
		"to", next.String(),
	)
	return updated, nil
}

// Status returns the project with its current status and percentage.
func (s *LifecycleService) Status(ctx context.Context, id uuid.UUID) (*models.ProjectRegistration, error) {
	return s.find(ctx, id)
}

func (s *LifecycleService) History(ctx context.Context, id uuid.UUID) ([]models.StatusHistoryEntry, error) {
	project, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return project.StatusHistory, nil
}

func (s *LifecycleService) ListStatuses(ctx context.Context) ([]models.ProjectRegistration, error) {
	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		return nil, storeError("failed to fetch project statuses", err)
	}
	return projects, nil
}

func (s *LifecycleService) find(ctx context.Context, id uuid.UUID) (*models.ProjectRegistration, error) {
	project, err := s.projects.FindProject(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, storeError("failed to load project", err)
	}
	return project, nil
}
