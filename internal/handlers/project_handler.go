package handlers

import (
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/dto"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/models"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProjectHandler struct {
	lifecycleService *services.LifecycleService
}

func NewProjectHandler(lifecycleService *services.LifecycleService) *ProjectHandler {
	return &ProjectHandler{lifecycleService: lifecycleService}
}

func (h *ProjectHandler) Status(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}

	project, err := h.lifecycleService.Status(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"project": toStatusResponse(project),
	})
}

// Advance moves the project to the next status. The request has no body:
// the target is always the single next step.
func (h *ProjectHandler) Advance(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}

	project, err := h.lifecycleService.Advance(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Project status updated to " + project.Status.String(),
		"project": toStatusResponse(project),
	})
}

func (h *ProjectHandler) History(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}

	entries, err := h.lifecycleService.History(c.UserContext(), id)
	if err != nil {
		return err
	}

	history := make([]dto.StatusHistoryItem, 0, len(entries))
	for _, e := range entries {
		history = append(history, dto.StatusHistoryItem{
			Status:     e.Status.String(),
			Percentage: e.Percentage,
			Timestamp:  e.Timestamp,
		})
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"statusHistory": history,
	})
}

func (h *ProjectHandler) Overview(c *fiber.Ctx) error {
	projects, err := h.lifecycleService.ListStatuses(c.UserContext())
	if err != nil {
		return err
	}

	out := make([]dto.ProjectStatusOverview, 0, len(projects))
	for _, p := range projects {
		out = append(out, dto.ProjectStatusOverview{
			ID:                   p.ID,
			Firstname:            p.Firstname,
			Lastname:             p.Lastname,
			Email:                p.Email,
			ProjectName:          p.ProjectName,
			Status:               p.Status.String(),
			CompletionPercentage: p.CompletionPercentage,
		})
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"projects": out,
	})
}

func projectID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return uuid.Nil, services.ErrProjectNotFound
	}
	return id, nil
}

func toStatusResponse(p *models.ProjectRegistration) dto.ProjectStatusResponse {
	return dto.ProjectStatusResponse{
		ID:                   p.ID,
		ProjectName:          p.ProjectName,
		Status:               p.Status.String(),
		CompletionPercentage: p.CompletionPercentage,
	}
}
