package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"devconnector/internal/cache"
	"devconnector/internal/models"
	"devconnector/internal/repository"
	"devconnector/internal/validation"

	"gorm.io/datatypes"
)

// ProfileService owns profiles and their experience and education entries.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
}

// ProfileInput is the body of a profile upsert. Empty fields are left untouched.
type ProfileInput struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status"`
	GithubUsername string `json:"githubusername"`
	Skills         string `json:"skills"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

// ExperienceInput is the body of an experience append. Dates are strings so
// both calendar dates and timestamps are accepted.
type ExperienceInput struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationInput is the body of an education append.
type EducationInput struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// NewProfileService returns a ProfileService backed by the given repositories.
func NewProfileService(profileRepo repository.ProfileRepository, userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, userRepo: userRepo}
}

// columns returns the profile columns present in the input.
func (in ProfileInput) columns() map[string]any {
	cols := map[string]any{}
	set := func(col, v string) {
		if v = strings.TrimSpace(v); v != "" {
			cols[col] = v
		}
	}
	set("company", in.Company)
	set("website", in.Website)
	set("location", in.Location)
	set("bio", in.Bio)
	set("status", in.Status)
	set("github_username", in.GithubUsername)
	set("social_youtube", in.Youtube)
	set("social_twitter", in.Twitter)
	set("social_facebook", in.Facebook)
	set("social_linkedin", in.Linkedin)
	set("social_instagram", in.Instagram)
	if skills := validation.SplitList(in.Skills); len(skills) > 0 {
		cols["skills"] = datatypes.JSONSlice[string](skills)
	}
	return cols
}

func (in ProfileInput) profile(userID uint) *models.Profile {
	trim := strings.TrimSpace
	return &models.Profile{
		UserID:         userID,
		Company:        trim(in.Company),
		Website:        trim(in.Website),
		Location:       trim(in.Location),
		Bio:            trim(in.Bio),
		Status:         trim(in.Status),
		GithubUsername: trim(in.GithubUsername),
		Skills:         validation.SplitList(in.Skills),
		Social: models.Social{
			Youtube:   trim(in.Youtube),
			Twitter:   trim(in.Twitter),
			Facebook:  trim(in.Facebook),
			Linkedin:  trim(in.Linkedin),
			Instagram: trim(in.Instagram),
		},
	}
}

func (in ProfileInput) validateCreate() error {
	var fields []models.FieldError
	if strings.TrimSpace(in.Status) == "" {
		fields = append(fields, models.FieldError{Msg: "Status is required", Param: "status"})
	}
	if len(validation.SplitList(in.Skills)) == 0 {
		fields = append(fields, models.FieldError{Msg: "Skills is required", Param: "skills"})
	}
	if len(fields) > 0 {
		return models.NewFieldErrors(fields)
	}
	return nil
}

// Upsert creates the caller's profile or merges the present fields into it.
// Experience and education are never touched.
func (s *ProfileService) Upsert(ctx context.Context, userID uint, in ProfileInput) (*models.Profile, error) {
	defer cache.InvalidateProfile(ctx, userID)

	_, err := s.profileRepo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		return s.profileRepo.Update(ctx, userID, in.columns())
	case !models.IsCode(err, models.CodeNotFound):
		return nil, err
	}

	if err := in.validateCreate(); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Create(ctx, in.profile(userID)); err != nil {
		if errors.Is(err, repository.ErrProfileExists) {
			return s.profileRepo.Update(ctx, userID, in.columns())
		}
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

// Me returns the caller's own profile; a missing one is NO_PROFILE, not NOT_FOUND.
func (s *ProfileService) Me(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if models.IsCode(err, models.CodeNotFound) {
		return nil, models.NewNoProfileError()
	}
	return profile, err
}

func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	return s.profileRepo.List(ctx)
}

// ByUserID serves public profile reads through the Redis cache. Misses load
// from the primary so a lagging replica never seeds the cache.
func (s *ProfileService) ByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := cache.Aside(ctx, cache.ProfileKey(userID), &profile, cache.ProfileTTL, func() error {
		p, err := s.profileRepo.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		profile = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// DeleteAccount removes the profile, its entries and the account itself.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uint) error {
	defer cache.InvalidateProfile(ctx, userID)
	return s.userRepo.Delete(ctx, userID)
}

func (s *ProfileService) AddExperience(ctx context.Context, userID uint, in ExperienceInput) (*models.Profile, error) {
	var fields []models.FieldError
	required := func(param, msg, v string) {
		if strings.TrimSpace(v) == "" {
			fields = append(fields, models.FieldError{Msg: msg, Param: param})
		}
	}
	required("title", "Title is required", in.Title)
	required("company", "Company is required", in.Company)
	from, to, dateErrs := parsePeriod(in.From, in.To)
	fields = append(fields, dateErrs...)
	if len(fields) > 0 {
		return nil, models.NewFieldErrors(fields)
	}

	exp := &models.Experience{
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: strings.TrimSpace(in.Description),
	}
	defer cache.InvalidateProfile(ctx, userID)
	return s.profileRepo.AddExperience(ctx, userID, exp)
}

func (s *ProfileService) RemoveExperience(ctx context.Context, userID, expID uint) (*models.Profile, error) {
	defer cache.InvalidateProfile(ctx, userID)
	return s.profileRepo.RemoveExperience(ctx, userID, expID)
}

func (s *ProfileService) AddEducation(ctx context.Context, userID uint, in EducationInput) (*models.Profile, error) {
	var fields []models.FieldError
	required := func(param, msg, v string) {
		if strings.TrimSpace(v) == "" {
			fields = append(fields, models.FieldError{Msg: msg, Param: param})
		}
	}
	required("school", "School is required", in.School)
	required("degree", "Degree is required", in.Degree)
	required("fieldofstudy", "Field of study is required", in.FieldOfStudy)
	from, to, dateErrs := parsePeriod(in.From, in.To)
	fields = append(fields, dateErrs...)
	if len(fields) > 0 {
		return nil, models.NewFieldErrors(fields)
	}

	edu := &models.Education{
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  strings.TrimSpace(in.Description),
	}
	defer cache.InvalidateProfile(ctx, userID)
	return s.profileRepo.AddEducation(ctx, userID, edu)
}

func (s *ProfileService) RemoveEducation(ctx context.Context, userID, eduID uint) (*models.Profile, error) {
	defer cache.InvalidateProfile(ctx, userID)
	return s.profileRepo.RemoveEducation(ctx, userID, eduID)
}

// parsePeriod validates a from/to pair. to is optional but may not precede from.
func parsePeriod(fromRaw, toRaw string) (time.Time, *time.Time, []models.FieldError) {
	var fields []models.FieldError
	if strings.TrimSpace(fromRaw) == "" {
		return time.Time{}, nil, []models.FieldError{{Msg: "From date is required", Param: "from"}}
	}
	from, err := validation.ParseDate(fromRaw)
	if err != nil {
		fields = append(fields, models.FieldError{Msg: "From date must be a valid date", Param: "from"})
	}

	var to *time.Time
	if strings.TrimSpace(toRaw) != "" {
		parsed, err := validation.ParseDate(toRaw)
		switch {
		case err != nil:
			fields = append(fields, models.FieldError{Msg: "To date must be a valid date", Param: "to"})
		case len(fields) == 0 && parsed.Before(from):
			fields = append(fields, models.FieldError{Msg: "To date must not be before from date", Param: "to"})
		default:
			to = &parsed
		}
	}
	return from, to, fields
}
