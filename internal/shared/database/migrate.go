package database

import (
	"fmt"

	"tourdesk/internal/bookings"
	"tourdesk/internal/categories"
	"tourdesk/internal/tours"
	"tourdesk/internal/users"

	"gorm.io/gorm"
)

// Migrate creates the schema. Parents are migrated before the tables that
// reference them.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to enable uuid-ossp: %w", err)
	}

	err := db.AutoMigrate(
		&users.User{},
		&categories.Category{},
		&tours.Tour{},
		&tours.PricingOption{},
		&bookings.Booking{},
		&bookings.Payment{},
	)
	if err != nil {
		return err
	}

	return MigrateConstraints(db)
}
