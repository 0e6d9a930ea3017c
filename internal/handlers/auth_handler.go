package handlers

import (
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/dto"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	token, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.RegisterResponse{
		Success:         true,
		Message:         "Please check your email: " + req.Email + " to activate your account",
		ActivationToken: token,
	})
}

func (h *AuthHandler) Activate(c *fiber.Ctx) error {
	var req dto.ActivateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Activate(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User Registered Successfully",
		"user":    services.ToUserResponse(user),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return err
	}

	resp.Success = true
	resp.Message = "User LoggedIn Successfully"
	return c.JSON(resp)
}

func (h *AuthHandler) GoogleSignIn(c *fiber.Ctx) error {
	var req dto.GoogleSignInRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.GoogleSignIn(c.UserContext(), req.IDToken)
	if err != nil {
		return err
	}

	resp.Success = true
	resp.Message = "User LoggedIn Successfully"
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	pair, err := h.authService.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"message":      "Token Refreshed Successfully",
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.UserContext(), identity.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged Out Successfully",
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	profile, err := h.authService.Me(c.UserContext(), identity.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User details fetched successfully!",
		"user":    profile,
	})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(c.UserContext(), identity.ID, &req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User details updated successfully!",
		"user":    services.ToUserResponse(user),
	})
}

func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers(c.UserContext())
	if err != nil {
		return err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, services.ToUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Users fetched successfully!",
		"users":   out,
	})
}

func (h *AuthHandler) UpdateRole(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return services.ErrUserNotFound
	}

	var req dto.UpdateRoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.authService.UpdateRole(c.UserContext(), id, req.Role)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User role updated to " + user.Role + " successfully!",
	})
}
