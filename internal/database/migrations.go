package database

import (
	"gorm.io/gorm"

	"backend/internal/models"
)

// Migrate brings the schema up to date for the four persisted domain
// models: Danløn OAuth2 tokens, in-flight pending sessions, pay-code
// mappings, and employee-name mappings.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.OAuthToken{},
		&models.PendingSession{},
		&models.PayCodeMapping{},
		&models.EmployeeMapping{},
	)
}
