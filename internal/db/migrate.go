package db

import (
	"fmt"

	"github.com/sgvr/sgvr/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the database schema for all models. The
// documents.access_token backfill is intentionally not part of this schema
// migration; it runs as a separate, observable provisioning pass.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errMigrate := conn.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.RoleAssignment{},
		&models.Document{},
	); errMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errMigrate)
	}
	return nil
}
