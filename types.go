package auth

import (
	"context"
	"fmt"
	"time"

	repository "github.com/goliatone/go-repository-bun"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// TokenPair is the access/refresh pair minted at login, registration, and
// refresh. Both tokens always rotate together.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// TokenService mints and verifies the signed token pairs
type TokenService interface {
	IssuePair(id, email string, role UserRole) (*TokenPair, error)
	Decode(tokenString string) (AuthClaims, error)
	RefreshPair(refreshToken, id, email string, role UserRole) (*TokenPair, error)
}

// AccountStore is the persistence contract the Authenticator consumes. Email
// uniqueness is enforced by the store (unique index), never by a
// check-then-insert in this package.
type AccountStore interface {
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)
	TrackSuccessfulLogin(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}

// ResourceStore resolves the course hierarchy for ownership decisions.
type ResourceStore interface {
	GetCourse(ctx context.Context, id string) (*Course, error)
	GetModule(ctx context.Context, id string) (*Module, error)
	GetLesson(ctx context.Context, id string) (*Lesson, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
