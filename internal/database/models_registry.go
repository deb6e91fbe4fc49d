package database

import "devconnector/internal/models"

// PersistentModels returns the schema-managed models. Users come first so the
// tables they reference exist before dependent ones.
func PersistentModels() []any {
	return []any{
		&models.User{},
		&models.Profile{},
		&models.Experience{},
		&models.Education{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
	}
}
