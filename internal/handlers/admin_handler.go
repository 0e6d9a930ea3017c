package handlers

import (
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/dto"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) Create(c *fiber.Ctx) error {
	var req dto.AdminCredentialsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	admin, err := h.adminService.Create(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Credentials created successfully!",
		"admin":   services.ToAdminResponse(admin),
	})
}

// Login checks the password and mails a one-time code. The returned
// otpToken must be presented to Verify together with that code.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminCredentialsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	otpToken, err := h.adminService.Login(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "OTP sent to your email. Please check your inbox.",
		"otpToken": otpToken,
	})
}

func (h *AdminHandler) Verify(c *fiber.Ctx) error {
	var req dto.AdminVerifyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.adminService.Verify(c.UserContext(), &req); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Admin login successful",
	})
}

func (h *AdminHandler) List(c *fiber.Ctx) error {
	admins, err := h.adminService.List(c.UserContext())
	if err != nil {
		return err
	}

	out := make([]dto.AdminResponse, 0, len(admins))
	for i := range admins {
		out = append(out, services.ToAdminResponse(&admins[i]))
	}
	return c.JSON(fiber.Map{
		"success": true,
		"admins":  out,
	})
}

func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("adminId"))
	if err != nil {
		return services.ErrAdminNotFound
	}

	if err := h.adminService.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Admin deleted successfully.",
	})
}
