package middleware

import (
	"strings"

	"devconnector/internal/models"
	"devconnector/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// LegacyTokenHeader is the header older clients send the bare token in.
const LegacyTokenHeader = "x-auth-token"

// TokenVerifier resolves a bearer token to an account id.
type TokenVerifier interface {
	Verify(token string) (uint, error)
}

// ExtractToken reads the token from "Authorization: Bearer <t>", falling back
// to the x-auth-token header.
func ExtractToken(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(c.Get(LegacyTokenHeader))
}

// AuthRequired rejects requests without a valid token and stores the caller's
// account id in locals and in the user context.
func AuthRequired(v TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := ExtractToken(c)
		if token == "" {
			observability.AuthFailures.WithLabelValues(models.CodeUnauthenticated).Inc()
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthenticatedError())
		}

		userID, err := v.Verify(token)
		if err != nil {
			observability.AuthFailures.WithLabelValues(models.CodeInvalidToken).Inc()
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewInvalidTokenError(err))
		}

		c.Locals(LocalUserID, userID)
		c.SetUserContext(WithUserID(c.UserContext(), userID))
		return c.Next()
	}
}

// UserID returns the authenticated account id set by AuthRequired.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalUserID).(uint)
	return id, ok && id != 0
}
