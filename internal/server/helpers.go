package server

import (
	"errors"
	"log/slog"
	"strconv"

	"devconnector/internal/middleware"
	"devconnector/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter as a positive id. Malformed ids cannot
// match any row, so they are reported as notFound rather than as bad input.
func parseID(c *fiber.Ctx, param, notFound string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError(notFound))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseBody decodes the request body into dst. An empty body leaves dst zeroed
// so that field validation reports what is missing.
func parseBody(c *fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// respondError writes err with its mapped status. Internal causes are logged here
// and never sent to the client.
func respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()))
	}
	return models.RespondWithError(c, status, err)
}

// callerID is the account id set by AuthRequired.
func callerID(c *fiber.Ctx) uint {
	id, _ := middleware.UserID(c)
	return id
}
