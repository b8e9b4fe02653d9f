package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenServiceImpl implements the TokenService interface. Issuance and
// validation are pure and safe for concurrent use: the only state is the
// signing key and the configured windows.
type TokenServiceImpl struct {
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
	now        func() time.Time
}

// NewTokenService creates a new TokenService instance
func NewTokenService(cfg Config, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey: []byte(cfg.GetSigningKey()),
		accessTTL:  cfg.GetAccessTokenTTL(),
		refreshTTL: cfg.GetRefreshTokenTTL(),
		issuer:     cfg.GetIssuer(),
		audience:   cfg.GetAudience(),
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source, useful for expiry tests.
func (ts *TokenServiceImpl) WithClock(clock func() time.Time) *TokenServiceImpl {
	if clock != nil {
		ts.now = clock
	}
	return ts
}

// IssuePair mints a fresh access/refresh pair for the subject. The access
// token carries email and role claims; the refresh token carries only the
// subject and the type discriminator to limit blast radius if it leaks.
func (ts *TokenServiceImpl) IssuePair(id, email string, role UserRole) (*TokenPair, error) {
	now := ts.now()

	access := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   id,
			Audience:  ts.claimAudience(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.accessTTL)),
		},
		UserEmail: email,
		UserRole:  role,
		TokenType: TokenTypeAccess,
	}
	ensureTokenID(&access.RegisteredClaims)

	refresh := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   id,
			Audience:  ts.claimAudience(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.refreshTTL)),
		},
		TokenType: TokenTypeRefresh,
	}
	ensureTokenID(&refresh.RegisteredClaims)

	accessToken, err := ts.SignClaims(access)
	if err != nil {
		return nil, err
	}

	refreshToken, err := ts.SignClaims(refresh)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Decode parses and validates a token string. Signature and expiry are
// verified atomically; any failure surfaces as a single unauthenticated
// error with the cause chained for internal logging only.
func (ts *TokenServiceImpl) Decode(tokenString string) (AuthClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService decode encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, asUnauthenticated(ErrTokenExpired)
		}
		return nil, asUnauthenticated(errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).WithTextCode(ErrTokenMalformed.TextCode))
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService decode could not map claims")
		return nil, asUnauthenticated(ErrTokenMalformed)
	}

	if claims.TokenType != TokenTypeAccess && claims.TokenType != TokenTypeRefresh {
		return nil, asUnauthenticated(ErrTokenMalformed)
	}

	return claims, nil
}

// RefreshPair verifies the presented refresh token and mints a new pair for
// the expected subject. Both tokens rotate; the old refresh token is not
// cryptographically invalidated here, revocation is the Authenticator's
// concern.
func (ts *TokenServiceImpl) RefreshPair(refreshToken, id, email string, role UserRole) (*TokenPair, error) {
	claims, err := ts.Decode(refreshToken)
	if err != nil {
		return nil, err
	}

	if !claims.IsRefresh() {
		ts.logger.Warn("RefreshPair presented a non-refresh token", "type", claims.Type())
		return nil, asUnauthenticated(ErrTokenMalformed)
	}

	if claims.Subject() != id {
		ts.logger.Warn("RefreshPair subject mismatch", "subject", claims.Subject())
		return nil, asUnauthenticated(ErrTokenMalformed)
	}

	return ts.IssuePair(id, email, role)
}

func (ts *TokenServiceImpl) claimAudience() jwt.ClaimStrings {
	if len(ts.audience) == 0 {
		return nil
	}
	aud := make(jwt.ClaimStrings, len(ts.audience))
	copy(aud, ts.audience)
	return aud
}
