package auth

import (
	"context"
	"net/http"

	"github.com/edustack/go-lms-auth/middleware/jwtware"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// tokenDecoder adapts TokenService to the middleware validator contract.
type tokenDecoder struct {
	tokens TokenService
}

func (d tokenDecoder) Decode(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := d.tokens.Decode(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// RouteAuthenticator wires the token service into HTTP middleware and owns
// the error rendering for the auth surface. Responses are JSON throughout.
type RouteAuthenticator struct {
	auth         Authenticator
	tokens       TokenService
	cfg          Config
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

func NewHTTPAuthenticator(auther Authenticator, tokens TokenService, cfg Config) (*RouteAuthenticator, error) {
	a := &RouteAuthenticator{
		auth:   auther,
		tokens: tokens,
		cfg:    cfg,
		Logger: defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler

	return a, nil
}

// ProtectedRoute returns middleware that admits only requests bearing a
// valid access token. Validated claims land in the router locals under the
// configured context key and in the request context for downstream handlers.
func (a *RouteAuthenticator) ProtectedRoute(errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	if errorHandler == nil {
		errorHandler = a.MakeAuthErrorHandler(false)
	}

	return jwtware.New(jwtware.Config{
		ErrorHandler:   errorHandler,
		TokenValidator: tokenDecoder{tokens: a.tokens},
		SigningKey: jwtware.SigningKey{
			Key:    []byte(a.cfg.GetSigningKey()),
			JWTAlg: a.cfg.GetSigningMethod(),
		},
		AuthScheme:  a.cfg.GetAuthScheme(),
		ContextKey:  a.cfg.GetContextKey(),
		TokenLookup: a.cfg.GetTokenLookup(),
		RoleRanker:  RoleIsAtLeast,
		ContextEnricher: func(c context.Context, claims jwtware.AuthClaims) context.Context {
			if ac, ok := claims.(AuthClaims); ok {
				return WithClaimsContext(c, ac)
			}
			return c
		},
	})
}

// MakeAuthErrorHandler builds the error handler the middleware invokes on
// token failures. Optional routes proceed unauthenticated instead of
// rejecting the request.
func (a *RouteAuthenticator) MakeAuthErrorHandler(optional bool) func(router.Context, error) error {
	return func(ctx router.Context, err error) error {
		var richErr *errors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if IsMalformedError(err) {
			richErr = ErrTokenMalformed
		} else {
			richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
				WithCode(errors.CodeUnauthorized)
		}

		if optional {
			a.Logger.Info("optional auth failed, proceeding: %s", richErr.Message)
			return ctx.Next()
		}

		return a.ErrorHandler(ctx, richErr)
	}
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"auth error handler: %s category=%s details=%s",
		richErr.Message,
		richErr.Category,
		print.MaybePrettyJSON(richErr.Metadata),
	)

	return RenderError(c, richErr)
}

// RenderError writes the JSON error envelope for any error, mapping rich
// errors to their HTTP status and text code. Unclassified errors become 500s
// with a generic message so internals never leak.
func RenderError(ctx router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = http.StatusInternalServerError
	}

	body := map[string]any{
		"message": richErr.Message,
	}
	if richErr.TextCode != "" {
		body["text_code"] = richErr.TextCode
	}

	return ctx.JSON(status, map[string]any{"error": body})
}
