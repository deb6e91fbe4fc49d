package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"devconnector/internal/models"
	"devconnector/internal/notifications"
	"devconnector/internal/repository"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	events      FeedPublisher
}

type CreateCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

type DeleteCommentInput struct {
	UserID    uint
	PostID    uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	events FeedPublisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		events:      events,
	}
}

// CreateComment appends a comment and returns the post's comments, newest first.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) ([]models.Comment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewFieldError("text", "Text is required")
	}
	if utf8.RuneCountInString(text) > maxCommentLen {
		return nil, models.NewFieldError("text", "Comment too long (max 10000 characters)")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}
	author, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID: in.PostID,
		UserID: in.UserID,
		Text:   text,
		Name:   author.Name,
		Avatar: author.Avatar,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	publish(ctx, s.events, notifications.FeedEvent{
		Type:      notifications.CommentAdded,
		PostID:    in.PostID,
		UserID:    in.UserID,
		CommentID: comment.ID,
	})
	return s.commentRepo.ListByPost(ctx, in.PostID)
}

// DeleteComment removes one comment by id. The comment must belong to the
// post and to the caller.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) ([]models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByPostAndID(ctx, in.PostID, in.CommentID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(in.UserID, comment.UserID); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Delete(ctx, in.PostID, in.CommentID); err != nil {
		return nil, err
	}

	publish(ctx, s.events, notifications.FeedEvent{
		Type:      notifications.CommentRemoved,
		PostID:    in.PostID,
		UserID:    in.UserID,
		CommentID: in.CommentID,
	})
	return s.commentRepo.ListByPost(ctx, in.PostID)
}
