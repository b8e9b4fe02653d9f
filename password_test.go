package auth_test

import (
	"testing"

	auth "github.com/edustack/go-lms-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"valid password", `Passw0rd!`, true},
		{"valid with other symbol", `Str0ng<pass>`, true},
		{"too short", `P4ss!wd`, false},
		{"missing digit", `Password!`, false},
		{"missing uppercase", `passw0rd!`, false},
		{"missing lowercase", `PASSW0RD!`, false},
		{"missing symbol", `Passw0rrd`, false},
		{"empty", ``, false},
		{"symbol not in set", `Passw0rd-`, false},
		{"length counts runes not bytes", `Aa1!éé`, false},
		{"multibyte runes count toward length", `Aa1!éééé`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.ValidatePassword(tt.password))
		})
	}
}

func TestNewCredential(t *testing.T) {
	t.Run("derives a verifiable hash", func(t *testing.T) {
		cred, err := auth.NewCredential(`Passw0rd!`)
		require.NoError(t, err)
		require.NotNil(t, cred)

		assert.NotEmpty(t, cred.Hash)
		assert.NotContains(t, cred.Hash, `Passw0rd!`)

		assert.NoError(t, auth.VerifyCredential(`Passw0rd!`, cred.Hash))
	})

	t.Run("weak password is rejected before hashing", func(t *testing.T) {
		cred, err := auth.NewCredential("short")
		assert.Nil(t, cred)
		assert.True(t, auth.HasTextCode(err, "WEAK_PASSWORD"))
	})

	t.Run("hashes are salted", func(t *testing.T) {
		first, err := auth.NewCredential(`Passw0rd!`)
		require.NoError(t, err)
		second, err := auth.NewCredential(`Passw0rd!`)
		require.NoError(t, err)

		assert.NotEqual(t, first.Hash, second.Hash)
	})
}

func TestVerifyCredential(t *testing.T) {
	cred, err := auth.NewCredential(`Passw0rd!`)
	require.NoError(t, err)

	t.Run("match", func(t *testing.T) {
		assert.NoError(t, auth.VerifyCredential(`Passw0rd!`, cred.Hash))
	})

	t.Run("mismatch", func(t *testing.T) {
		assert.Error(t, auth.VerifyCredential(`Wr0ngPass!`, cred.Hash))
	})
}
