package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dmarchuk/auth-service/internal/service"
	"github.com/dmarchuk/auth-service/pkg/tokens"
)

// Echo context keys set by the guards.
const (
	ClaimsKey   = "claims"
	RawTokenKey = "raw_token"
)

// TokenGuard is the per-route replacement for decorator-style auth:
// constructed once, injected into the router, no global state.
type TokenGuard struct {
	Tokens *service.TokenService

	// CookieTransport selects where tokens travel: HTTP-only cookies
	// or an Authorization bearer header. Exactly one is active.
	CookieTransport bool
}

func missingTokenError() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, echo.Map{
		"message": "Request does not contain an access token",
		"error":   "authorization_required",
	})
}

// TokenError maps token verification failures to the wire taxonomy:
// 401 with a machine-readable error code.
func TokenError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, tokens.ErrExpired):
		return echo.NewHTTPError(http.StatusUnauthorized, echo.Map{
			"message": "Token has expired",
			"error":   "token_expired",
		})
	case errors.Is(err, tokens.ErrRevoked):
		return echo.NewHTTPError(http.StatusUnauthorized, echo.Map{
			"message": "Token has been revoked",
			"error":   "token_revoked",
		})
	case errors.Is(err, tokens.ErrInvalid):
		return echo.NewHTTPError(http.StatusUnauthorized, echo.Map{
			"message": "Signature verification failed",
			"error":   "invalid_token",
		})
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, echo.Map{
			"message": "token verification failed",
		})
	}
}

func (g *TokenGuard) extract(c echo.Context, cookieName string) (string, bool) {
	if g.CookieTransport {
		cookie, err := c.Cookie(cookieName)
		if err != nil || cookie.Value == "" {
			return "", false
		}
		return cookie.Value, true
	}

	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", false
	}
	return strings.TrimPrefix(auth, prefix), true
}

func (g *TokenGuard) require(cookieName, expectedType string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := g.extract(c, cookieName)
			if !ok {
				return missingTokenError()
			}

			claims, err := g.Tokens.Verify(c.Request().Context(), raw, expectedType)
			if err != nil {
				return TokenError(err)
			}

			c.Set(ClaimsKey, claims)
			c.Set(RawTokenKey, raw)
			return next(c)
		}
	}
}

func (g *TokenGuard) RequireAccess() echo.MiddlewareFunc {
	return g.require("accessToken", tokens.TypeAccess)
}

func (g *TokenGuard) RequireRefresh() echo.MiddlewareFunc {
	return g.require("refreshToken", tokens.TypeRefresh)
}

// RequireAnyToken accepts either token variant; logout revokes whatever
// the caller still holds, even when only the refresh cookie is left.
func (g *TokenGuard) RequireAnyToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := g.extract(c, "accessToken")
			if !ok && g.CookieTransport {
				raw, ok = g.extract(c, "refreshToken")
			}
			if !ok {
				return missingTokenError()
			}

			claims, err := g.Tokens.VerifyAny(c.Request().Context(), raw)
			if err != nil {
				return TokenError(err)
			}

			c.Set(ClaimsKey, claims)
			c.Set(RawTokenKey, raw)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stashed by a guard, nil if no guard ran.
func ClaimsFrom(c echo.Context) *tokens.Claims {
	claims, _ := c.Get(ClaimsKey).(*tokens.Claims)
	return claims
}
