package auth_test

import (
	"testing"

	auth "github.com/edustack/go-lms-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes non-empty input", func(t *testing.T) {
		hash, err := auth.HashPassword("secret-password")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "secret-password", hash)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		hash, err := auth.HashPassword("")
		assert.Error(t, err)
		assert.Empty(t, hash)
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := auth.HashPassword("secret-password")
	require.NoError(t, err)

	t.Run("accepts matching password", func(t *testing.T) {
		assert.NoError(t, auth.ComparePasswordAndHash("secret-password", hash))
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		err := auth.ComparePasswordAndHash("other-password", hash)
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	})

	t.Run("rejects garbage hash", func(t *testing.T) {
		assert.Error(t, auth.ComparePasswordAndHash("secret-password", "not-a-hash"))
	})
}
