// Package seed provides helpers to create demo data for development databases
// and fixtures for tests.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"devconnector/internal/models"
	"devconnector/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

var (
	statuses = []string{
		"Developer", "Junior Developer", "Senior Developer", "Manager",
		"Student or Learning", "Instructor or Teacher", "Intern", "Other",
	}
	skillPool = []string{
		"Go", "JavaScript", "TypeScript", "React", "Node.js", "PostgreSQL", "Redis",
		"Docker", "Kubernetes", "Python", "Rust", "HTML", "CSS", "GraphQL", "AWS",
	}
	degrees = []string{"BSc", "MSc", "PhD", "Bootcamp Certificate", "Associate"}
	fields  = []string{"Computer Science", "Software Engineering", "Mathematics", "Physics", "Design"}
)

// Options tune the factory and the seeder.
type Options struct {
	NumUsers       int
	NumPosts       int
	MaxExperiences int
	MaxComments    int
	// LikeRatio is the chance that a given account likes a given post.
	LikeRatio float64
	// MaxDays bounds how far back post timestamps are spread.
	MaxDays int
	// FastHash uses the minimum bcrypt cost. Accounts can still log in.
	FastHash bool
	// DryRun assigns synthetic ids instead of writing.
	DryRun bool
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db     *gorm.DB
	opts   Options
	rng    *rand.Rand
	hash   string
	nextID uint
}

// NewFactory creates a Factory bound to db. The password hash is computed once.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	cost := service.PasswordCost
	if opts.FastHash {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // seeding only
		hash:   string(hash),
		nextID: 1000,
	}, nil
}

func (f *Factory) synthetic() uint {
	f.nextID++
	return f.nextID
}

// CreateUser persists an account with a gravatar derived from its email.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Name:     gofakeit.Name(),
		Email:    strings.ToLower(fmt.Sprintf("%s.%d@%s", gofakeit.Username(), gofakeit.Number(100, 99999), gofakeit.DomainName())),
		Password: f.hash,
	}
	for _, override := range overrides {
		override(user)
	}
	user.Avatar = service.Gravatar(user.Email)

	if f.opts.DryRun {
		user.ID = f.synthetic()
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateProfile persists a profile for user with a random set of skills.
func (f *Factory) CreateProfile(user *models.User, overrides ...func(*models.Profile)) (*models.Profile, error) {
	handle := strings.ToLower(strings.ReplaceAll(user.Name, " ", ""))
	profile := &models.Profile{
		UserID:         user.ID,
		Company:        gofakeit.Company(),
		Website:        gofakeit.URL(),
		Location:       fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr()),
		Status:         statuses[f.rng.Intn(len(statuses))],
		Skills:         f.pickSkills(),
		Bio:            gofakeit.Paragraph(1, 3, 8, " "),
		GithubUsername: handle,
		Social: models.Social{
			Twitter:  "https://twitter.com/" + handle,
			Linkedin: "https://linkedin.com/in/" + handle,
		},
	}
	for _, override := range overrides {
		override(profile)
	}

	if f.opts.DryRun {
		profile.ID = f.synthetic()
		return profile, nil
	}
	if err := f.db.Omit("User", "Experience", "Education").Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (f *Factory) pickSkills() []string {
	n := 2 + f.rng.Intn(4)
	picked := make([]string, 0, n)
	for _, i := range f.rng.Perm(len(skillPool))[:n] {
		picked = append(picked, skillPool[i])
	}
	return picked
}

// period returns a start date within the last decade and, unless current, an end after it.
func (f *Factory) period() (time.Time, *time.Time, bool) {
	from := time.Now().UTC().AddDate(-1-f.rng.Intn(10), -f.rng.Intn(12), 0).Truncate(24 * time.Hour)
	if f.rng.Intn(3) == 0 {
		return from, nil, true
	}
	to := from.AddDate(0, 3+f.rng.Intn(30), 0)
	return from, &to, false
}

// CreateExperience appends one job to profile.
func (f *Factory) CreateExperience(profile *models.Profile) (*models.Experience, error) {
	from, to, current := f.period()
	exp := &models.Experience{
		ProfileID:   profile.ID,
		Title:       gofakeit.JobTitle(),
		Company:     gofakeit.Company(),
		Location:    gofakeit.City(),
		From:        from,
		To:          to,
		Current:     current,
		Description: gofakeit.Sentence(12),
	}
	if f.opts.DryRun {
		exp.ID = f.synthetic()
		return exp, nil
	}
	if err := f.db.Create(exp).Error; err != nil {
		return nil, err
	}
	return exp, nil
}

// CreateEducation appends one school to profile.
func (f *Factory) CreateEducation(profile *models.Profile) (*models.Education, error) {
	from, to, current := f.period()
	edu := &models.Education{
		ProfileID:    profile.ID,
		School:       gofakeit.Company() + " University",
		Degree:       degrees[f.rng.Intn(len(degrees))],
		FieldOfStudy: fields[f.rng.Intn(len(fields))],
		From:         from,
		To:           to,
		Current:      current,
		Description:  gofakeit.Sentence(8),
	}
	if f.opts.DryRun {
		edu.ID = f.synthetic()
		return edu, nil
	}
	if err := f.db.Create(edu).Error; err != nil {
		return nil, err
	}
	return edu, nil
}

// BuildPost constructs an unsaved post by author with a created_at spread over MaxDays.
func (f *Factory) BuildPost(author *models.User) *models.Post {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return &models.Post{
		UserID:    author.ID,
		Text:      gofakeit.Paragraph(1, 2+f.rng.Intn(4), 10, " "),
		Name:      author.Name,
		Avatar:    author.Avatar,
		CreatedAt: time.Now().Add(-back),
	}
}

// CreatePostsBatch persists posts in chunks.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if f.opts.DryRun {
		for _, p := range posts {
			p.ID = f.synthetic()
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.Omit("Likes", "Comments").CreateInBatches(posts, 100).Error
}

// CreateComment persists a comment by author on post.
func (f *Factory) CreateComment(author *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:    post.ID,
		UserID:    author.ID,
		Text:      gofakeit.Sentence(6 + f.rng.Intn(10)),
		Name:      author.Name,
		Avatar:    author.Avatar,
		CreatedAt: post.CreatedAt.Add(time.Duration(1+f.rng.Intn(600)) * time.Minute),
	}
	if now := time.Now(); comment.CreatedAt.After(now) {
		comment.CreatedAt = now
	}
	if f.opts.DryRun {
		comment.ID = f.synthetic()
		return comment, nil
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike records user liking post. A repeated like is ignored.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	if f.opts.DryRun {
		return nil
	}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Like{PostID: post.ID, UserID: user.ID}).Error
}
