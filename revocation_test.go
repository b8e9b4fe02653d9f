package auth_test

import (
	"context"
	"testing"
	"time"

	auth "github.com/edustack/go-lms-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevocationSet(t *testing.T) {
	ctx := context.Background()

	t.Run("revoked id is reported until expiry", func(t *testing.T) {
		base := time.Now()
		clock := base
		set := auth.NewMemoryRevocationSet().WithClock(func() time.Time { return clock })

		require.NoError(t, set.Revoke(ctx, "jti-1", base.Add(time.Hour)))

		revoked, err := set.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)

		clock = base.Add(2 * time.Hour)

		revoked, err = set.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("unknown id is not revoked", func(t *testing.T) {
		set := auth.NewMemoryRevocationSet()
		revoked, err := set.IsRevoked(ctx, "never-seen")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("already expired ids are ignored", func(t *testing.T) {
		base := time.Now()
		set := auth.NewMemoryRevocationSet().WithClock(func() time.Time { return base })

		require.NoError(t, set.Revoke(ctx, "jti-old", base.Add(-time.Minute)))
		assert.Equal(t, 0, set.Len())
	})

	t.Run("empty id is rejected", func(t *testing.T) {
		set := auth.NewMemoryRevocationSet()
		assert.Error(t, set.Revoke(ctx, "", time.Now().Add(time.Hour)))
	})

	t.Run("expired entries are swept on revoke", func(t *testing.T) {
		base := time.Now()
		clock := base
		set := auth.NewMemoryRevocationSet().WithClock(func() time.Time { return clock })

		require.NoError(t, set.Revoke(ctx, "jti-1", base.Add(time.Minute)))
		require.NoError(t, set.Revoke(ctx, "jti-2", base.Add(time.Hour)))
		assert.Equal(t, 2, set.Len())

		clock = base.Add(30 * time.Minute)
		require.NoError(t, set.Revoke(ctx, "jti-3", base.Add(2*time.Hour)))

		assert.Equal(t, 2, set.Len())
	})
}
