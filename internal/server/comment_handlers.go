package server

import (
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/comment/:id
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", msgPostNotFound)
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comments, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID: callerID(c),
		PostID: postID,
		Text:   req.Text,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// DeleteComment handles DELETE /api/posts/comment/:id/:comment_id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", msgPostNotFound)
	if err != nil {
		return nil
	}
	commentID, err := parseID(c, "comment_id", "Comment does not exist")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    callerID(c),
		PostID:    postID,
		CommentID: commentID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}
