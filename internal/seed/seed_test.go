package seed

import (
	"testing"
	"time"

	"devconnector/internal/models"
	"devconnector/internal/service"
	"devconnector/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestFactory_DryRunAssignsIDs(t *testing.T) {
	f, err := NewFactory(nil, Options{DryRun: true, FastHash: true, MaxDays: 30})
	require.NoError(t, err)

	user, err := f.CreateUser(func(u *models.User) { u.Email = "dry@example.com" })
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, service.Gravatar("dry@example.com"), user.Avatar)

	post := f.BuildPost(user)
	assert.Equal(t, user.Name, post.Name)
	assert.NotEmpty(t, post.Text)
	assert.Less(t, time.Since(post.CreatedAt), 31*24*time.Hour)

	require.NoError(t, f.CreatePostsBatch([]*models.Post{post}))
	assert.NotZero(t, post.ID)
}

func TestFactory_ProfileSkillsAreDistinct(t *testing.T) {
	f, err := NewFactory(nil, Options{DryRun: true, FastHash: true})
	require.NoError(t, err)
	user, err := f.CreateUser()
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		profile, err := f.CreateProfile(user)
		require.NoError(t, err)
		require.NotEmpty(t, profile.Status)
		seen := map[string]bool{}
		for _, s := range profile.Skills {
			assert.False(t, seen[s], "duplicate skill %s", s)
			seen[s] = true
		}
		assert.GreaterOrEqual(t, len(profile.Skills), 2)
	}
}

func TestFactory_PeriodIsOrdered(t *testing.T) {
	f, err := NewFactory(nil, Options{DryRun: true, FastHash: true})
	require.NoError(t, err)
	profile := &models.Profile{ID: 1}
	for i := 0; i < 50; i++ {
		exp, err := f.CreateExperience(profile)
		require.NoError(t, err)
		if exp.Current {
			assert.Nil(t, exp.To)
			continue
		}
		require.NotNil(t, exp.To)
		assert.True(t, exp.To.After(exp.From))
	}
}

func TestSeeder_Run(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	s, err := NewSeeder(db, Options{
		NumUsers:       6,
		NumPosts:       10,
		MaxExperiences: 2,
		MaxComments:    3,
		LikeRatio:      0.5,
		FastHash:       true,
	})
	require.NoError(t, err)

	res, err := s.Run()
	require.NoError(t, err)
	assert.Equal(t, 6, res.Users)
	assert.Equal(t, 10, res.Posts)

	count := func(model any) int {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return int(n)
	}
	assert.Equal(t, res.Users, count(&models.User{}))
	assert.Equal(t, res.Profiles, count(&models.Profile{}))
	assert.Equal(t, res.Experiences, count(&models.Experience{}))
	assert.Equal(t, res.Educations, count(&models.Education{}))
	assert.Equal(t, res.Posts, count(&models.Post{}))
	assert.Equal(t, res.Likes, count(&models.Like{}))
	assert.Equal(t, res.Comments, count(&models.Comment{}))

	var user models.User
	require.NoError(t, db.First(&user).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(DefaultPassword)))

	require.NoError(t, s.ClearAll())
	assert.Zero(t, count(&models.User{}))
	assert.Zero(t, count(&models.Post{}))
}
