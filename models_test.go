package auth_test

import (
	"testing"

	auth "github.com/edustack/go-lms-auth"
	"github.com/stretchr/testify/assert"
)

func TestUserStatusHelpers(t *testing.T) {
	t.Run("EnsureStatus defaults empty to active", func(t *testing.T) {
		user := &auth.User{}
		user.EnsureStatus()
		assert.Equal(t, auth.UserStatusActive, user.Status)
	})

	t.Run("EnsureStatus preserves explicit status", func(t *testing.T) {
		user := &auth.User{Status: auth.UserStatusInactive}
		user.EnsureStatus()
		assert.Equal(t, auth.UserStatusInactive, user.Status)
	})

	t.Run("IsActive", func(t *testing.T) {
		assert.True(t, (&auth.User{Status: auth.UserStatusActive}).IsActive())
		assert.True(t, (&auth.User{}).IsActive())
		assert.False(t, (&auth.User{Status: auth.UserStatusInactive}).IsActive())
	})
}

func TestDisplayName(t *testing.T) {
	name := "Ada Lovelace"
	assert.Equal(t, name, (&auth.User{Name: &name}).DisplayName())
	assert.Equal(t, "", (&auth.User{}).DisplayName())
}
