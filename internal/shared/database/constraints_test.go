package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddForeignKeySQL(t *testing.T) {
	sql := addForeignKeySQL(foreignKey{"fk_bookings_tour", "bookings", "tour_id", "tours", "RESTRICT"})

	assert.Contains(t, sql, "conname = 'fk_bookings_tour'")
	assert.Contains(t, sql, "ALTER TABLE bookings ADD CONSTRAINT fk_bookings_tour")
	assert.Contains(t, sql, "FOREIGN KEY (tour_id) REFERENCES tours (id) ON DELETE RESTRICT")
}

func TestForeignKeysAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, fk := range foreignKeys {
		assert.False(t, seen[fk.name], "duplicate constraint %s", fk.name)
		seen[fk.name] = true
		assert.True(t, strings.HasPrefix(fk.name, "fk_"))
	}
}
