package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", apperr.Validation("Please provide a valid email"), 400, "Please provide a valid email"},
		{"conflict", apperr.Conflict("Email Already Exists"), 400, "Email Already Exists"},
		{"not found", apperr.NotFound("Project not found"), 404, "Project not found"},
		{"unauthorized", apperr.Unauthorized("Please login again"), 401, "Please login again"},
		{"forbidden", apperr.Forbidden("Access denied"), 403, "Access denied"},
		{"internal keeps its message", apperr.Internal("Failed to send OTP. Please try again.", errors.New("dial tcp")), 500, "Failed to send OTP. Please try again."},
		{"unclassified", errors.New("pq: connection reset"), 500, internalMessage},
		{"fiber error", fiber.NewError(fiber.StatusTooManyRequests, "slow down"), 429, "slow down"},
		{"wrapped apperr", errors.Join(errors.New("ctx"), apperr.NotFound("User not found!")), 404, "User not found!"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
			app.Get("/", func(c *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.False(t, body.Success)
			assert.Equal(t, tc.wantMsg, body.Message)
		})
	}
}

func TestNotFoundRoute(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(NotFound)

	resp, err := app.Test(httptest.NewRequest("GET", "/missing?x=1", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Route /missing?x=1 not found", body.Message)
}
