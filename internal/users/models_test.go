package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole("USER"))
	assert.True(t, IsValidRole("ADMIN"))
	assert.False(t, IsValidRole("admin"))
	assert.False(t, IsValidRole(""))
}

func TestUserHelpers(t *testing.T) {
	u := User{FirstName: "Ana", LastName: "Silva", Role: RoleAdmin}
	assert.Equal(t, "Ana Silva", u.FullName())
	assert.True(t, u.IsAdmin())
	assert.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM "))
}
