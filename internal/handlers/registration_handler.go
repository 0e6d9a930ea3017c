package handlers

import (
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/dto"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/services"
	"github.com/gofiber/fiber/v2"
)

type RegistrationHandler struct {
	registrationService *services.RegistrationService
}

func NewRegistrationHandler(registrationService *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

func (h *RegistrationHandler) RegisterProject(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req dto.ProjectRegistrationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	project, err := h.registrationService.RegisterProject(c.UserContext(), identity.ID, &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Project Registered Successfully",
		"project": project,
	})
}

func (h *RegistrationHandler) ListProjects(c *fiber.Ctx) error {
	projects, err := h.registrationService.ListProjects(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"projects": projects,
	})
}

func (h *RegistrationHandler) RegisterInternship(c *fiber.Ctx) error {
	var req dto.InternshipRegistrationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	internship, err := h.registrationService.RegisterInternship(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Internship Registered Successfully",
		"internship": internship,
	})
}

func (h *RegistrationHandler) ListInternships(c *fiber.Ctx) error {
	internships, err := h.registrationService.ListInternships(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"internships": internships,
	})
}
