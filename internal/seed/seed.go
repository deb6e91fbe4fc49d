package seed

import (
	"fmt"
	"log"

	"devconnector/internal/models"

	"gorm.io/gorm"
)

// Result counts what a run created.
type Result struct {
	Users, Profiles, Experiences, Educations int
	Posts, Likes, Comments                   int
}

// Seeder populates a database with a connected community.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) (*Seeder, error) {
	factory, err := NewFactory(db, opts)
	if err != nil {
		return nil, err
	}
	return &Seeder{db: db, factory: factory, opts: opts}, nil
}

// ClearAll removes every row from the domain tables, children first.
func (s *Seeder) ClearAll() error {
	if s.opts.DryRun {
		return nil
	}
	log.Println("Clearing existing data...")
	if s.db.Dialector.Name() == "postgres" {
		return s.db.Exec(`TRUNCATE TABLE likes, comments, posts, experiences, educations, profiles, users RESTART IDENTITY CASCADE`).Error
	}
	tx := s.db.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{
		&models.Like{}, &models.Comment{}, &models.Post{},
		&models.Experience{}, &models.Education{}, &models.Profile{}, &models.User{},
	} {
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Run creates NumUsers accounts, most with a profile, then NumPosts posts with
// likes and comments drawn from the same accounts.
func (s *Seeder) Run() (*Result, error) {
	log.Printf("Seeding %d users and %d posts...", s.opts.NumUsers, s.opts.NumPosts)
	res := &Result{}
	f := s.factory

	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return res, fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
		res.Users++

		// Some accounts never fill in a profile.
		if f.rng.Intn(5) == 0 {
			continue
		}
		profile, err := f.CreateProfile(user)
		if err != nil {
			return res, fmt.Errorf("create profile: %w", err)
		}
		res.Profiles++
		for j, n := 0, f.rng.Intn(s.opts.MaxExperiences+1); j < n; j++ {
			if _, err := f.CreateExperience(profile); err != nil {
				return res, fmt.Errorf("create experience: %w", err)
			}
			res.Experiences++
		}
		if _, err := f.CreateEducation(profile); err != nil {
			return res, fmt.Errorf("create education: %w", err)
		}
		res.Educations++
	}
	log.Printf("%d users created (%d with profiles)", res.Users, res.Profiles)

	if len(users) == 0 || s.opts.NumPosts <= 0 {
		return res, nil
	}

	posts := make([]*models.Post, 0, s.opts.NumPosts)
	for i := 0; i < s.opts.NumPosts; i++ {
		posts = append(posts, f.BuildPost(users[f.rng.Intn(len(users))]))
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return res, fmt.Errorf("create posts: %w", err)
	}
	res.Posts = len(posts)

	for _, post := range posts {
		for _, user := range users {
			if f.rng.Float64() >= s.opts.LikeRatio {
				continue
			}
			if err := f.CreateLike(user, post); err != nil {
				return res, fmt.Errorf("create like: %w", err)
			}
			res.Likes++
		}
		for j, n := 0, f.rng.Intn(s.opts.MaxComments+1); j < n; j++ {
			if _, err := f.CreateComment(users[f.rng.Intn(len(users))], post); err != nil {
				return res, fmt.Errorf("create comment: %w", err)
			}
			res.Comments++
		}
	}
	log.Printf("%d posts, %d likes and %d comments created", res.Posts, res.Likes, res.Comments)
	return res, nil
}
