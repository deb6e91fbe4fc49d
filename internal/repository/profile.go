package repository

import (
	"context"
	"errors"

	"devconnector/internal/models"

	"gorm.io/gorm"
)

// ErrProfileExists is returned by Create when the account already owns a profile.
var ErrProfileExists = errors.New("profile already exists")

// ProfileRepository defines persistence operations for profiles and their
// experience and education entries.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	// Update applies column changes to the caller's profile. Experience and
	// education are never touched.
	Update(ctx context.Context, userID uint, columns map[string]any) (*models.Profile, error)
	AddExperience(ctx context.Context, userID uint, exp *models.Experience) (*models.Profile, error)
	RemoveExperience(ctx context.Context, userID, expID uint) (*models.Profile, error)
	AddEducation(ctx context.Context, userID uint, edu *models.Education) (*models.Profile, error)
	RemoveEducation(ctx context.Context, userID, eduID uint) (*models.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func withProfileRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "avatar")
		}).
		Preload("Experience", func(db *gorm.DB) *gorm.DB {
			return db.Order("id DESC")
		}).
		Preload("Education", func(db *gorm.DB) *gorm.DB {
			return db.Order("id DESC")
		})
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := withProfileRelations(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	err := withProfileRelations(readDB(r.db).WithContext(ctx)).
		Order("id ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Omit("User", "Experience", "Education").Create(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrProfileExists
		}
		if isForeignKeyError(err) {
			return models.NewNotFoundError("User not found")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, userID uint, columns map[string]any) (*models.Profile, error) {
	if len(columns) > 0 {
		res := r.db.WithContext(ctx).
			Model(&models.Profile{}).
			Where("user_id = ?", userID).
			Updates(columns)
		if res.Error != nil {
			return nil, models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, models.NewNotFoundError("Profile not found")
		}
	}
	return r.GetByUserID(ctx, userID)
}

func (r *profileRepository) profileID(ctx context.Context, userID uint) (uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	if len(ids) == 0 {
		return 0, models.NewNotFoundError("Profile not found")
	}
	return ids[0], nil
}

func (r *profileRepository) AddExperience(ctx context.Context, userID uint, exp *models.Experience) (*models.Profile, error) {
	profileID, err := r.profileID(ctx, userID)
	if err != nil {
		return nil, err
	}
	exp.ProfileID = profileID
	if err := r.insertEntry(ctx, exp); err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, userID)
}

func (r *profileRepository) AddEducation(ctx context.Context, userID uint, edu *models.Education) (*models.Profile, error) {
	profileID, err := r.profileID(ctx, userID)
	if err != nil {
		return nil, err
	}
	edu.ProfileID = profileID
	if err := r.insertEntry(ctx, edu); err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, userID)
}

func (r *profileRepository) insertEntry(ctx context.Context, entry any) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewNotFoundError("Profile not found")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) RemoveExperience(ctx context.Context, userID, expID uint) (*models.Profile, error) {
	if err := r.removeEntry(ctx, &models.Experience{}, userID, expID, "Experience not found"); err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, userID)
}

func (r *profileRepository) RemoveEducation(ctx context.Context, userID, eduID uint) (*models.Profile, error) {
	if err := r.removeEntry(ctx, &models.Education{}, userID, eduID, "Education not found"); err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, userID)
}

// removeEntry deletes one nested entry by id, scoped to the caller's profile.
func (r *profileRepository) removeEntry(ctx context.Context, model any, userID, entryID uint, notFound string) error {
	profileID, err := r.profileID(ctx, userID)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", entryID, profileID).
		Delete(model)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(notFound)
	}
	return nil
}
