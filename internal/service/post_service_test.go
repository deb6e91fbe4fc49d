package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"devconnector/internal/models"
	"devconnector/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Authorize(3, 3))
	err := Authorize(3, 4)
	assert.True(t, models.IsCode(err, models.CodeForbidden))
	assert.Equal(t, "User not authorized", err.Error())
}

func TestPostService_CreatePost(t *testing.T) {
	t.Parallel()
	events := &recordingPublisher{}
	svc := NewPostService(noopPostRepo(), noopUserRepo(), events)
	ctx := context.Background()

	t.Run("empty text", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, 1, "   ")
		assertValidationError(t, err)
	})

	t.Run("too long", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, 1, strings.Repeat("x", maxPostLen+1))
		assertValidationError(t, err)
	})

	t.Run("snapshots author", func(t *testing.T) {
		post, err := svc.CreatePost(ctx, 2, " hello ")
		require.NoError(t, err)
		assert.Equal(t, "hello", post.Text)
		assert.Equal(t, "Ada", post.Name)
		assert.Equal(t, "//avatar", post.Avatar)
		assert.Equal(t, []notifications.EventType{notifications.PostCreated}, events.types())
	})

	t.Run("limit counts characters not bytes", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, 2, strings.Repeat("é", 6000))
		require.NoError(t, err)

		_, err = svc.CreatePost(ctx, 2, strings.Repeat("é", maxPostLen+1))
		assertValidationError(t, err)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()
	deleted := false
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 10}, nil
	}
	repo.deleteFn = func(context.Context, uint) error {
		deleted = true
		return nil
	}
	events := &recordingPublisher{}
	svc := NewPostService(repo, noopUserRepo(), events)

	err := svc.DeletePost(context.Background(), 11, 1)
	assert.True(t, models.IsCode(err, models.CodeForbidden))
	assert.False(t, deleted)
	assert.Empty(t, events.types())

	require.NoError(t, svc.DeletePost(context.Background(), 10, 1))
	assert.True(t, deleted)
	assert.Equal(t, []notifications.EventType{notifications.PostDeleted}, events.types())
}

func TestPostService_LikeMissingPost(t *testing.T) {
	t.Parallel()
	repo := noopPostRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post not found")
	}
	repo.likeFn = func(context.Context, uint, uint) error {
		t.Fatal("like must not run for a missing post")
		return nil
	}
	svc := NewPostService(repo, noopUserRepo(), nil)

	_, err := svc.Like(context.Background(), 1, 99)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestPostService_LikeAndUnlike(t *testing.T) {
	t.Parallel()
	liked := map[uint]bool{}
	repo := noopPostRepo()
	repo.likeFn = func(_ context.Context, _, userID uint) error {
		if liked[userID] {
			return models.NewAlreadyLikedError()
		}
		liked[userID] = true
		return nil
	}
	repo.unlikeFn = func(_ context.Context, _, userID uint) error {
		if !liked[userID] {
			return models.NewNotLikedError()
		}
		delete(liked, userID)
		return nil
	}
	repo.listLikesFn = func(context.Context, uint) ([]models.Like, error) {
		out := []models.Like{}
		for id := range liked {
			out = append(out, models.Like{UserID: id})
		}
		return out, nil
	}
	events := &recordingPublisher{}
	svc := NewPostService(repo, noopUserRepo(), events)
	ctx := context.Background()

	likes, err := svc.Like(ctx, 7, 1)
	require.NoError(t, err)
	assert.Len(t, likes, 1)

	_, err = svc.Like(ctx, 7, 1)
	assert.True(t, models.IsCode(err, models.CodeAlreadyLiked))

	likes, err = svc.Unlike(ctx, 7, 1)
	require.NoError(t, err)
	assert.Empty(t, likes)

	_, err = svc.Unlike(ctx, 7, 1)
	assert.True(t, models.IsCode(err, models.CodeNotLiked))

	assert.Equal(t, []notifications.EventType{notifications.PostLiked, notifications.PostUnliked}, events.types())
}

func TestPostService_PublishFailureDoesNotFailRequest(t *testing.T) {
	t.Parallel()
	events := &recordingPublisher{err: errors.New("redis down")}
	svc := NewPostService(noopPostRepo(), noopUserRepo(), events)

	_, err := svc.CreatePost(context.Background(), 1, "hello")
	assert.NoError(t, err)
	assert.Len(t, events.types(), 1)
}
