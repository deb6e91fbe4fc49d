package server

import (
	"devconnector/internal/models"

	"github.com/gofiber/fiber/v2"
)

const msgPostNotFound = "Post not found"

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), callerID(c), req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", msgPostNotFound)
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", msgPostNotFound)
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), callerID(c), postID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Post removed"})
}

// LikePost handles PUT /api/posts/like/:id
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", msgPostNotFound)
	if err != nil {
		return nil
	}

	likes, err := s.postService.Like(c.UserContext(), callerID(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(likes)
}

// UnlikePost handles PUT /api/posts/unlike/:id
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", msgPostNotFound)
	if err != nil {
		return nil
	}

	likes, err := s.postService.Unlike(c.UserContext(), callerID(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(likes)
}
