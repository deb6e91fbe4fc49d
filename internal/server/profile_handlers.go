package server

import (
	"errors"

	"devconnector/internal/github"
	"devconnector/internal/models"
	"devconnector/internal/service"
	"devconnector/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const msgNoGithubProfile = "No Github profile found"

// GetMyProfile handles GET /api/profile/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.Me(c.UserContext(), callerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// UpsertProfile handles POST /api/profile
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	var in service.ProfileInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	profile, err := s.profileService.Upsert(c.UserContext(), callerID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// ListProfiles handles GET /api/profile
func (s *Server) ListProfiles(c *fiber.Ctx) error {
	profiles, err := s.profileService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	return c.JSON(profiles)
}

// GetProfileByUser handles GET /api/profile/user/:user_id
func (s *Server) GetProfileByUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id", "Profile not found")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.ByUserID(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// DeleteAccount handles DELETE /api/profile
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	if err := s.profileService.DeleteAccount(c.UserContext(), callerID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "User deleted"})
}

// AddExperience handles PUT /api/profile/experience
func (s *Server) AddExperience(c *fiber.Ctx) error {
	var in service.ExperienceInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	profile, err := s.profileService.AddExperience(c.UserContext(), callerID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// RemoveExperience handles DELETE /api/profile/experience/:exp_id
func (s *Server) RemoveExperience(c *fiber.Ctx) error {
	expID, err := parseID(c, "exp_id", "Experience not found")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.RemoveExperience(c.UserContext(), callerID(c), expID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// AddEducation handles PUT /api/profile/education
func (s *Server) AddEducation(c *fiber.Ctx) error {
	var in service.EducationInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	profile, err := s.profileService.AddEducation(c.UserContext(), callerID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// RemoveEducation handles DELETE /api/profile/education/:edu_id
func (s *Server) RemoveEducation(c *fiber.Ctx) error {
	eduID, err := parseID(c, "edu_id", "Education not found")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.RemoveEducation(c.UserContext(), callerID(c), eduID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// GithubRepos handles GET /api/profile/github/:username
func (s *Server) GithubRepos(c *fiber.Ctx) error {
	username := c.Params("username")
	if validation.ValidateGithubUsername(username) != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError(msgNoGithubProfile))
	}

	repos, err := s.github.Repos(c.UserContext(), username)
	if err != nil {
		if errors.Is(err, github.ErrNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError(msgNoGithubProfile))
		}
		return respondError(c, models.NewInternalError(err))
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(repos)
}
