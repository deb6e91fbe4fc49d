package service

import (
	"context"
	"sync"
	"testing"

	"devconnector/internal/models"
	"devconnector/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation), "expected validation error, got %v", err)
}

func validationParams(t *testing.T, err error) []string {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	params := make([]string, 0, len(appErr.Fields))
	for _, f := range appErr.Fields {
		params = append(params, f.Param)
	}
	return params
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn     func(context.Context, *models.User) error
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	deleteFn     func(context.Context, uint) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, u *models.User) error { u.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Name: "Ada", Avatar: "//avatar"}, nil
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	getByUserIDFn      func(context.Context, uint) (*models.Profile, error)
	listFn             func(context.Context) ([]models.Profile, error)
	createFn           func(context.Context, *models.Profile) error
	updateFn           func(context.Context, uint, map[string]any) (*models.Profile, error)
	addExperienceFn    func(context.Context, uint, *models.Experience) (*models.Profile, error)
	removeExperienceFn func(context.Context, uint, uint) (*models.Profile, error)
	addEducationFn     func(context.Context, uint, *models.Education) (*models.Profile, error)
	removeEducationFn  func(context.Context, uint, uint) (*models.Profile, error)
}

func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) List(ctx context.Context) ([]models.Profile, error) {
	return s.listFn(ctx)
}
func (s *profileRepoStub) Create(ctx context.Context, p *models.Profile) error {
	return s.createFn(ctx, p)
}
func (s *profileRepoStub) Update(ctx context.Context, userID uint, cols map[string]any) (*models.Profile, error) {
	return s.updateFn(ctx, userID, cols)
}
func (s *profileRepoStub) AddExperience(ctx context.Context, userID uint, e *models.Experience) (*models.Profile, error) {
	return s.addExperienceFn(ctx, userID, e)
}
func (s *profileRepoStub) RemoveExperience(ctx context.Context, userID, id uint) (*models.Profile, error) {
	return s.removeExperienceFn(ctx, userID, id)
}
func (s *profileRepoStub) AddEducation(ctx context.Context, userID uint, e *models.Education) (*models.Profile, error) {
	return s.addEducationFn(ctx, userID, e)
}
func (s *profileRepoStub) RemoveEducation(ctx context.Context, userID, id uint) (*models.Profile, error) {
	return s.removeEducationFn(ctx, userID, id)
}

func noopProfileRepo() *profileRepoStub {
	found := func(_ context.Context, userID uint) (*models.Profile, error) {
		return &models.Profile{UserID: userID}, nil
	}
	return &profileRepoStub{
		getByUserIDFn: found,
		listFn:        func(context.Context) ([]models.Profile, error) { return nil, nil },
		createFn:      func(context.Context, *models.Profile) error { return nil },
		updateFn: func(_ context.Context, userID uint, _ map[string]any) (*models.Profile, error) {
			return &models.Profile{UserID: userID}, nil
		},
		addExperienceFn: func(_ context.Context, userID uint, _ *models.Experience) (*models.Profile, error) {
			return &models.Profile{UserID: userID}, nil
		},
		removeExperienceFn: func(_ context.Context, userID, _ uint) (*models.Profile, error) {
			return &models.Profile{UserID: userID}, nil
		},
		addEducationFn: func(_ context.Context, userID uint, _ *models.Education) (*models.Profile, error) {
			return &models.Profile{UserID: userID}, nil
		},
		removeEducationFn: func(_ context.Context, userID, _ uint) (*models.Profile, error) {
			return &models.Profile{UserID: userID}, nil
		},
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn    func(context.Context, *models.Post) error
	getByIDFn   func(context.Context, uint) (*models.Post, error)
	listFn      func(context.Context) ([]models.Post, error)
	deleteFn    func(context.Context, uint) error
	likeFn      func(context.Context, uint, uint) error
	unlikeFn    func(context.Context, uint, uint) error
	listLikesFn func(context.Context, uint) ([]models.Like, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context) ([]models.Post, error) {
	return s.listFn(ctx)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) Like(ctx context.Context, postID, userID uint) error {
	return s.likeFn(ctx, postID, userID)
}
func (s *postRepoStub) Unlike(ctx context.Context, postID, userID uint) error {
	return s.unlikeFn(ctx, postID, userID)
}
func (s *postRepoStub) ListLikes(ctx context.Context, postID uint) ([]models.Like, error) {
	return s.listLikesFn(ctx, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error { p.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1}, nil
		},
		listFn:      func(context.Context) ([]models.Post, error) { return nil, nil },
		deleteFn:    func(context.Context, uint) error { return nil },
		likeFn:      func(context.Context, uint, uint) error { return nil },
		unlikeFn:    func(context.Context, uint, uint) error { return nil },
		listLikesFn: func(context.Context, uint) ([]models.Like, error) { return []models.Like{}, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn         func(context.Context, *models.Comment) error
	getByPostAndIDFn func(context.Context, uint, uint) (*models.Comment, error)
	deleteFn         func(context.Context, uint, uint) error
	listByPostFn     func(context.Context, uint) ([]models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByPostAndID(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	return s.getByPostAndIDFn(ctx, postID, commentID)
}
func (s *commentRepoStub) Delete(ctx context.Context, postID, commentID uint) error {
	return s.deleteFn(ctx, postID, commentID)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error { c.ID = 1; return nil },
		getByPostAndIDFn: func(_ context.Context, postID, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: postID, UserID: 1}, nil
		},
		deleteFn:     func(context.Context, uint, uint) error { return nil },
		listByPostFn: func(context.Context, uint) ([]models.Comment, error) { return []models.Comment{}, nil },
	}
}

// recordingPublisher captures published feed events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []notifications.FeedEvent
	err    error
}

func (p *recordingPublisher) PublishFeedEvent(_ context.Context, ev notifications.FeedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []notifications.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notifications.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}
