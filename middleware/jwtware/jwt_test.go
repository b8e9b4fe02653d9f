package jwtware_test

import (
	"testing"

	"github.com/edustack/go-lms-auth/middleware/jwtware"
	"github.com/stretchr/testify/assert"
)

type staticValidator struct{}

func (staticValidator) Decode(string) (jwtware.AuthClaims, error) {
	return nil, jwtware.ErrJWTMissingOrMalformed
}

func TestGetDefaultConfig(t *testing.T) {
	t.Run("panics without a token validator", func(t *testing.T) {
		assert.Panics(t, func() {
			jwtware.GetDefaultConfig(jwtware.Config{
				SigningKey: jwtware.SigningKey{Key: []byte("secret"), JWTAlg: "HS256"},
			})
		})
	})

	t.Run("panics without any key source", func(t *testing.T) {
		assert.Panics(t, func() {
			jwtware.GetDefaultConfig(jwtware.Config{
				TokenValidator: staticValidator{},
			})
		})
	})

	t.Run("fills defaults", func(t *testing.T) {
		cfg := jwtware.GetDefaultConfig(jwtware.Config{
			TokenValidator: staticValidator{},
			SigningKey:     jwtware.SigningKey{Key: []byte("secret"), JWTAlg: "HS256"},
		})

		assert.Equal(t, "user", cfg.ContextKey)
		assert.Equal(t, "Bearer", cfg.AuthScheme)
		assert.Equal(t, "header:Authorization", cfg.TokenLookup)
		assert.NotNil(t, cfg.KeyFunc)
		assert.NotNil(t, cfg.SuccessHandler)
		assert.NotNil(t, cfg.ErrorHandler)
	})
}

func TestGetExtractors(t *testing.T) {
	assert.Len(t, jwtware.GetExtractors("header:Authorization"), 1)
	assert.Len(t, jwtware.GetExtractors("header:Authorization,cookie:jwt"), 2)
	assert.Len(t, jwtware.GetExtractors("header:Authorization, query:token, param:token, cookie:jwt"), 4)
	assert.Empty(t, jwtware.GetExtractors("body:token"))
}
