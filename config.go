package auth

import "time"

const (
	// DefaultAccessTokenTTL is the default lifetime of an access token.
	DefaultAccessTokenTTL = 30 * time.Minute
	// DefaultRefreshTokenTTL is the default lifetime of a refresh token.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
	// DefaultSigningMethod is the JWA identifier used when none is configured.
	DefaultSigningMethod = "HS256"
	// DefaultContextKey is where middleware stores validated claims.
	DefaultContextKey = "user"
	// DefaultAuthScheme is the bearer scheme prefix for the Authorization header.
	DefaultAuthScheme = "Bearer"
)

// SimpleConfig is a plain struct implementation of Config meant to be built
// by the process composition root. It replaces any notion of module-level
// settings singletons: every component receives its configuration explicitly.
type SimpleConfig struct {
	SigningKey      string
	SigningMethod   string
	ContextKey      string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	TokenLookup     string
	AuthScheme      string
	Issuer          string
	Audience        []string
}

var _ Config = (*SimpleConfig)(nil)

func (c *SimpleConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *SimpleConfig) GetSigningMethod() string {
	if c.SigningMethod == "" {
		return DefaultSigningMethod
	}
	return c.SigningMethod
}

func (c *SimpleConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return DefaultContextKey
	}
	return c.ContextKey
}

func (c *SimpleConfig) GetAccessTokenTTL() time.Duration {
	if c.AccessTokenTTL <= 0 {
		return DefaultAccessTokenTTL
	}
	return c.AccessTokenTTL
}

func (c *SimpleConfig) GetRefreshTokenTTL() time.Duration {
	if c.RefreshTokenTTL <= 0 {
		return DefaultRefreshTokenTTL
	}
	return c.RefreshTokenTTL
}

func (c *SimpleConfig) GetTokenLookup() string {
	if c.TokenLookup == "" {
		return "header:Authorization"
	}
	return c.TokenLookup
}

func (c *SimpleConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return DefaultAuthScheme
	}
	return c.AuthScheme
}

func (c *SimpleConfig) GetIssuer() string {
	return c.Issuer
}

func (c *SimpleConfig) GetAudience() []string {
	return c.Audience
}
