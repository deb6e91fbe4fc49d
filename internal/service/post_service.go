package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"devconnector/internal/models"
	"devconnector/internal/notifications"
	"devconnector/internal/repository"
)

const maxPostLen = 10000

// PostService handles posts, likes and comments on the feed.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	events   FeedPublisher
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, events FeedPublisher) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo, events: events}
}

// CreatePost stores text under the caller's current name and avatar.
func (s *PostService) CreatePost(ctx context.Context, userID uint, text string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewFieldError("text", "Text is required")
	}
	if utf8.RuneCountInString(text) > maxPostLen {
		return nil, models.NewFieldError("text", "Text is too long (max 10000 characters)")
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID: userID,
		Text:   text,
		Name:   author.Name,
		Avatar: author.Avatar,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	publish(ctx, s.events, notifications.FeedEvent{Type: notifications.PostCreated, PostID: post.ID, UserID: userID})
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.postRepo.List(ctx)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// DeletePost removes a post with its likes and comments. Only the author may.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := Authorize(userID, post.UserID); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	publish(ctx, s.events, notifications.FeedEvent{Type: notifications.PostDeleted, PostID: postID, UserID: userID})
	return nil
}

// Like records the caller's like and returns the post's likes, newest first.
func (s *PostService) Like(ctx context.Context, userID, postID uint) ([]models.Like, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	if err := s.postRepo.Like(ctx, postID, userID); err != nil {
		return nil, err
	}

	publish(ctx, s.events, notifications.FeedEvent{Type: notifications.PostLiked, PostID: postID, UserID: userID})
	return s.postRepo.ListLikes(ctx, postID)
}

func (s *PostService) Unlike(ctx context.Context, userID, postID uint) ([]models.Like, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	if err := s.postRepo.Unlike(ctx, postID, userID); err != nil {
		return nil, err
	}

	publish(ctx, s.events, notifications.FeedEvent{Type: notifications.PostUnliked, PostID: postID, UserID: userID})
	return s.postRepo.ListLikes(ctx, postID)
}
