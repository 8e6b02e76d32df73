package database

import (
	"fmt"

	"gorm.io/gorm"
)

type foreignKey struct {
	name     string
	table    string
	column   string
	refTable string
	onDelete string
}

var foreignKeys = []foreignKey{
	{"fk_tours_category", "tours", "category_id", "categories", "SET NULL"},
	{"fk_pricing_options_tour", "pricing_options", "tour_id", "tours", "CASCADE"},
	// Tours with bookings cannot be deleted
	{"fk_bookings_tour", "bookings", "tour_id", "tours", "RESTRICT"},
	{"fk_bookings_pricing_option", "bookings", "pricing_option_id", "pricing_options", "SET NULL"},
	{"fk_payments_booking", "payments", "booking_id", "bookings", "RESTRICT"},
}

// MigrateConstraints adds foreign keys and query indexes AutoMigrate does
// not create. Every statement is safe to run more than once.
func MigrateConstraints(db *gorm.DB) error {
	for _, fk := range foreignKeys {
		if err := db.Exec(addForeignKeySQL(fk)).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", fk.name, err)
		}
	}

	indexes := []string{
		// Admin list and calendar filter by status and date
		`CREATE INDEX IF NOT EXISTS idx_bookings_status_tour_date ON bookings (status, tour_date)`,
		// Completion sweep
		`CREATE INDEX IF NOT EXISTS idx_bookings_confirmed_tour_date ON bookings (tour_date) WHERE status = 'confirmed'`,
		`CREATE INDEX IF NOT EXISTS idx_tours_active_created ON tours (is_active, created_at DESC)`,
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func addForeignKeySQL(fk foreignKey) string {
	return fmt.Sprintf(`
		DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
				ALTER TABLE %s ADD CONSTRAINT %s
				FOREIGN KEY (%s) REFERENCES %s (id) ON DELETE %s;
			END IF;
		END $$;`,
		fk.name, fk.table, fk.name, fk.column, fk.refTable, fk.onDelete)
}
