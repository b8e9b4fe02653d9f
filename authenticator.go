package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// RegisterInput carries the attributes needed to create an account. Role
// defaults to student when empty; Name is optional and stays nil when the
// caller has none.
type RegisterInput struct {
	Email    string
	Password string
	Role     UserRole
	Name     *string
}

// Authenticator orchestrates registration, login, token refresh, and
// current-account resolution. It is stateless between calls; the account
// store is the only shared mutable resource and provides its own atomicity.
type Authenticator interface {
	Register(ctx context.Context, input RegisterInput) (*User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	CurrentAccount(ctx context.Context, accessToken string) (*User, error)
	Invalidate(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, id string, newPassword string) error
}

type Auther struct {
	accounts     AccountStore
	tokens       TokenService
	revocations  RevocationSet
	logger       Logger
	activitySink ActivitySink
	now          func() time.Time
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator backed by the given store and
// token service. Revocation defaults to a no-op set: expiry alone ends token
// validity unless WithRevocationSet installs a real one.
func NewAuthenticator(accounts AccountStore, tokens TokenService) *Auther {
	return &Auther{
		accounts:     accounts,
		tokens:       tokens,
		revocations:  noopRevocationSet{},
		logger:       defLogger{},
		activitySink: noopActivitySink{},
		now:          time.Now,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithRevocationSet installs a RevocationSet consulted on refresh and
// current-account resolution, making Invalidate effective.
func (s *Auther) WithRevocationSet(set RevocationSet) *Auther {
	s.revocations = normalizeRevocationSet(set)
	return s
}

// Register creates a new active account and issues its first token pair.
// Email uniqueness is arbitrated by the store's unique constraint; a
// violation surfaces as ErrDuplicateEmail with the first account untouched.
func (s *Auther) Register(ctx context.Context, input RegisterInput) (*User, *TokenPair, error) {
	role, ok := ParseRole(input.Role)
	if !ok {
		return nil, nil, errors.New("unknown role", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest).
			WithMetadata(map[string]any{"role": input.Role})
	}

	credential, err := NewCredential(input.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: credential.Hash,
		Role:         role,
		Status:       UserStatusActive,
	}

	created, err := s.accounts.Register(ctx, user)
	if err != nil {
		if isConflict(err) {
			return nil, nil, ErrDuplicateEmail
		}
		return nil, nil, errors.Wrap(err, errors.CategoryInternal, "failed to persist account")
	}

	pair, err := s.tokens.IssuePair(created.ID.String(), created.Email, created.Role)
	if err != nil {
		return nil, nil, err
	}

	s.emitAuthEvent(ctx, ActivityEventUserRegistered, ActorRef{ID: created.ID.String(), Type: "user"}, created.ID.String(), map[string]any{
		"role": created.Role,
	})

	return created, pair, nil
}

// Login verifies credentials and issues a fresh token pair. Unknown email
// and wrong password produce the same error so callers cannot enumerate
// accounts. Inactive accounts fail regardless of credential correctness.
func (s *Auther) Login(ctx context.Context, email, password string) (*User, *TokenPair, error) {
	user, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			s.emitLoginFailure(ctx, email, ErrInvalidCredentials)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, errors.Wrap(err, errors.CategoryInternal, "failed to load account during login")
	}

	user.EnsureStatus()
	if err := statusAuthError(user.Status); err != nil {
		s.emitLoginFailure(ctx, email, err)
		return nil, nil, err
	}

	if err := VerifyCredential(password, user.PasswordHash); err != nil {
		s.emitLoginFailure(ctx, email, ErrInvalidCredentials)
		return nil, nil, ErrInvalidCredentials
	}

	if err := s.accounts.TrackSuccessfulLogin(ctx, user); err != nil {
		s.logger.Error("failed to record login", "error", err)
	}

	pair, err := s.tokens.IssuePair(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, nil, err
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, ActorRef{ID: user.ID.String(), Type: "user"}, user.ID.String(), nil)

	return user, pair, nil
}

// Refresh validates the presented refresh token, re-resolves the subject
// account, and rotates the pair. A missing account maps to invalid
// credentials; an inactive account is reported as such.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Decode(refreshToken)
	if err != nil {
		return nil, err
	}

	if !claims.IsRefresh() {
		return nil, asUnauthenticated(ErrTokenMalformed)
	}

	if err := s.ensureNotRevoked(ctx, claims); err != nil {
		return nil, err
	}

	user, err := s.accounts.GetByID(ctx, claims.Subject())
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load account during refresh")
	}

	user.EnsureStatus()
	if err := statusAuthError(user.Status); err != nil {
		return nil, err
	}

	pair, err := s.tokens.RefreshPair(refreshToken, user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	s.emitAuthEvent(ctx, ActivityEventTokenRefreshed, ActorRef{ID: user.ID.String(), Type: "user"}, user.ID.String(), nil)

	return pair, nil
}

// CurrentAccount resolves the account behind an access token. This is the
// gate every protected operation passes through: decode failures, refresh
// tokens, revoked ids, and missing accounts all collapse to a single
// unauthenticated error. Active status is re-checked so deactivation cuts
// off holders of still-valid tokens immediately.
func (s *Auther) CurrentAccount(ctx context.Context, accessToken string) (*User, error) {
	claims, err := s.tokens.Decode(accessToken)
	if err != nil {
		return nil, err
	}

	if !claims.IsAccess() {
		s.logger.Warn("CurrentAccount presented a non-access token", "type", claims.Type())
		return nil, asUnauthenticated(ErrTokenMalformed)
	}

	if err := s.ensureNotRevoked(ctx, claims); err != nil {
		return nil, err
	}

	user, err := s.accounts.GetByID(ctx, claims.Subject())
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, asUnauthenticated(ErrNotFound)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load account for token subject")
	}

	user.EnsureStatus()
	if err := statusAuthError(user.Status); err != nil {
		return nil, err
	}

	return user, nil
}

// Invalidate records the refresh token's jti in the revocation set with a
// TTL equal to its remaining lifetime. With the default no-op set this keeps
// the stateless behavior where logout does not end token validity.
func (s *Auther) Invalidate(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.Decode(refreshToken)
	if err != nil {
		return err
	}

	if !claims.IsRefresh() {
		return asUnauthenticated(ErrTokenMalformed)
	}

	if err := s.revocations.Revoke(ctx, claims.TokenID(), claims.Expires()); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to record token revocation")
	}

	s.emitAuthEvent(ctx, ActivityEventTokenInvalidated, ActorRef{ID: claims.Subject(), Type: "user"}, claims.Subject(), map[string]any{
		"jti": claims.TokenID(),
	})

	return nil
}

// ChangePassword applies the full strength policy to the replacement
// password and stores its hash. Existing sessions are unaffected.
func (s *Auther) ChangePassword(ctx context.Context, id string, newPassword string) error {
	credential, err := NewCredential(newPassword)
	if err != nil {
		return err
	}

	if err := s.accounts.UpdatePassword(ctx, id, credential.Hash); err != nil {
		if errors.IsNotFound(err) {
			return ErrNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to update password")
	}

	s.emitAuthEvent(ctx, ActivityEventPasswordChanged, ActorRef{ID: id, Type: "user"}, id, nil)

	return nil
}

func (s *Auther) ensureNotRevoked(ctx context.Context, claims AuthClaims) error {
	revoked, err := s.revocations.IsRevoked(ctx, claims.TokenID())
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to consult revocation set")
	}
	if revoked {
		return asUnauthenticated(ErrTokenRevoked)
	}
	return nil
}

func (s *Auther) emitLoginFailure(ctx context.Context, email string, cause error) {
	s.emitAuthEvent(ctx, ActivityEventLoginFailure, ActorRef{Type: "unknown"}, "", map[string]any{
		"identifier": email,
		"error":      cause.Error(),
	})
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, actor ActorRef, userID string, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType: eventType,
		Actor:     actor,
		UserID:    userID,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error: %v", err)
	}
}
