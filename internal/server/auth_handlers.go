package server

import (
	"devconnector/internal/models"
	"devconnector/internal/observability"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
)

func countAuthFailure(err error) {
	for _, code := range []string{models.CodeValidation, models.CodeInvalidCredentials, models.CodeDuplicateAccount} {
		if models.IsCode(err, code) {
			observability.AuthFailures.WithLabelValues(code).Inc()
			return
		}
	}
}

// Register handles POST /api/users
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	token, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		countAuthFailure(err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

// Login handles POST /api/auth
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	token, err := s.authService.Login(c.UserContext(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		countAuthFailure(err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

// CurrentUser handles GET /api/auth
func (s *Server) CurrentUser(c *fiber.Ctx) error {
	user, err := s.authService.CurrentUser(c.UserContext(), callerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
