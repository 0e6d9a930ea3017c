package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/projecthub/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/dto"
	"github.com/ahmetcoskunkizilkaya/projecthub/internal/session"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

const internalMessage = "Internal Server Error"

// ErrorHandler is the single place where errors become HTTP responses.
// Handlers and middleware just return the error.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, message := classify(err)

	if status >= fiber.StatusInternalServerError {
		attrs := []any{
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"error", err.Error(),
		}
		if uid, ok := c.Locals("user_id").(string); ok {
			attrs = append(attrs, "user_id", uid)
		}
		slog.ErrorContext(c.UserContext(), "request failed", attrs...)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Success: false,
		Message: message,
	})
}

func classify(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			return fe.Code, internalMessage
		}
		return fe.Code, fe.Message
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.Kind.Status(), ae.Message
	}
	return fiber.StatusInternalServerError, internalMessage
}

// NotFound terminates the route table.
func NotFound(c *fiber.Ctx) error {
	return apperr.NotFound("Route " + c.OriginalURL() + " not found")
}

var (
	errInvalidBody = apperr.Validation("Invalid request body")
	errNoSession   = apperr.Unauthorized("Please login to access this resource")
)

func currentIdentity(c *fiber.Ctx) (session.Identity, error) {
	identity, err := session.Current(c)
	if err != nil {
		return session.Identity{}, errNoSession
	}
	return identity, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return nil
}
