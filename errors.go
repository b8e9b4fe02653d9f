package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	textCodeWeakPassword       = "WEAK_PASSWORD"
	textCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	textCodeInvalidCredentials = "INVALID_CREDENTIALS"
	textCodeAccountInactive    = "ACCOUNT_INACTIVE"
	textCodeUnauthenticated    = "UNAUTHENTICATED"
	textCodeUnauthorized       = "UNAUTHORIZED"
	textCodeNotFound           = "NOT_FOUND"
	textCodeTokenExpired       = "TOKEN_EXPIRED"
	textCodeTokenMalformed     = "TOKEN_MALFORMED"
	textCodeTokenRevoked       = "TOKEN_REVOKED"
)

// ErrWeakPassword is returned when a plaintext password fails the strength
// policy. The message never carries password material.
var ErrWeakPassword = errors.New("password does not meet security requirements", errors.CategoryValidation).
	WithTextCode(textCodeWeakPassword).
	WithCode(errors.CodeBadRequest)

// ErrDuplicateEmail is returned when registering an email that already exists.
// Mapped to 409 Conflict; this is the documented contract.
var ErrDuplicateEmail = errors.New("email already registered", errors.CategoryConflict).
	WithTextCode(textCodeDuplicateEmail).
	WithCode(errors.CodeConflict)

// ErrInvalidCredentials covers both unknown identifier and password mismatch
// so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrAccountInactive is returned when authenticating against a deactivated
// account, regardless of credential correctness.
var ErrAccountInactive = errors.New("account is inactive", errors.CategoryAuth).
	WithTextCode(textCodeAccountInactive).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthenticated is the single error surfaced for any token decode
// failure: bad signature, malformed payload, expiry, or wrong token type.
var ErrUnauthenticated = errors.New("could not validate credentials", errors.CategoryAuth).
	WithTextCode(textCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthorized is returned when an authenticated actor is not permitted to
// act on the target resource.
var ErrUnauthorized = errors.New("not authorized to perform this action", errors.CategoryAuth).
	WithTextCode(textCodeUnauthorized).
	WithCode(errors.CodeForbidden)

// ErrNotFound is returned when a referenced account or resource is absent.
// Resolvers raise it before any ownership decision so absence stays
// distinguishable from denial.
var ErrNotFound = errors.New("resource not found", errors.CategoryNotFound).
	WithTextCode(textCodeNotFound).
	WithCode(errors.CodeNotFound)

// ErrTokenExpired is the internal diagnostic for expired tokens.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(textCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is the internal diagnostic for undecodable tokens.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(textCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenRevoked is the internal diagnostic for tokens whose jti is present
// in the configured revocation set.
var ErrTokenRevoked = errors.New("token has been revoked", errors.CategoryAuth).
	WithTextCode(textCodeTokenRevoked).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString is returned when an empty value is given where content is
// required, e.g. hashing an empty password.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the low-level bcrypt mismatch signal.
// Service layers translate it to ErrInvalidCredentials before it leaves the
// package.
var ErrMismatchedHashAndPassword = errors.New("password does not match hash", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// sentinelWithMetadata attaches request-scoped metadata to a copy of a shared
// sentinel. WithMetadata writes into its receiver's metadata map, so the
// package-level errors must never be decorated directly.
func sentinelWithMetadata(sentinel *errors.Error, metadata map[string]any) error {
	clone := sentinel.Clone()
	if clone == nil {
		return sentinel
	}
	return clone.WithMetadata(metadata)
}

// isConflict reports whether err belongs to the conflict category, which is
// how stores surface unique-constraint violations.
func isConflict(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryConflict
}

// IsAuthError reports whether err belongs to the auth category, meaning it
// surfaces as 401/403 at the boundary.
func IsAuthError(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryAuth
}

// HasTextCode reports whether err carries the given text code anywhere in its
// chain.
func HasTextCode(err error, textCode string) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == textCode
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// asUnauthenticated collapses any decode diagnostic into ErrUnauthenticated,
// keeping the cause chained for internal logging.
func asUnauthenticated(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, ErrUnauthenticated.Category, ErrUnauthenticated.Message).
		WithTextCode(ErrUnauthenticated.TextCode).
		WithCode(errors.CodeUnauthorized)
}
