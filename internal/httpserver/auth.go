package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmarchuk/auth-service/internal/middleware"
	"github.com/dmarchuk/auth-service/internal/repo"
	"github.com/dmarchuk/auth-service/internal/service"
	"github.com/dmarchuk/auth-service/pkg/logging"
	"github.com/dmarchuk/auth-service/pkg/tokens"
)

type AuthHTTP struct {
	Svc    *service.AuthService
	Tokens *service.TokenService

	CookieTransport bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	if err := h.Svc.Register(ctx, req.Username, req.Email, req.Password); err != nil {
		if errors.Is(err, repo.ErrUserExists) {
			return echo.NewHTTPError(http.StatusForbidden, echo.Map{"message": "User already exists!"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, echo.Map{"message": "could not create user"})
	}

	l.Info("register_successful", "username", req.Username)
	return c.JSON(http.StatusCreated, echo.Map{"message": "User created successfully!"})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, echo.Map{"message": "Invalid username or password!"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, echo.Map{"message": "login failed"})
	}

	l.Info("login_successful")

	if h.CookieTransport {
		c.SetCookie(CreateCookie(AccessCookie, res.AccessToken, "/", res.AccessExp))
		c.SetCookie(CreateCookie(RefreshCookie, res.RefreshToken, "/", res.RefreshExp))
		return c.JSON(http.StatusOK, echo.Map{"message": "Login successful!"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Login successful!",
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
	})
}

// Refresh behavior follows the transport mode. Cookie mode rotates the
// refresh token: the presented one is blocklisted and a full new pair
// is set. Body mode reissues the access token only, no blocklist write.
func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")
	claims := middleware.ClaimsFrom(c)

	if h.CookieTransport {
		raw, _ := c.Get(middleware.RawTokenKey).(string)
		access, refresh, err := h.Tokens.Rotate(ctx, raw)
		if err != nil {
			l.Warn("refresh_failed", "error", err)
			return middleware.TokenError(err)
		}

		c.SetCookie(CreateCookie(AccessCookie, access, "/", time.Now().Add(h.Tokens.AccessTTL)))
		c.SetCookie(CreateCookie(RefreshCookie, refresh, "/", time.Now().Add(h.Tokens.RefreshTTL)))
		l.Info("refresh_successful", "rotated", true)
		return c.JSON(http.StatusOK, echo.Map{"message": "Token refreshed successfully!"})
	}

	access, err := h.Tokens.Issue(claims.Subject, tokens.TypeAccess, claims.IsStaff)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, echo.Map{"message": "could not issue token"})
	}

	l.Info("refresh_successful", "rotated", false)
	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Token refreshed successfully!",
		"access_token": access,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")
	claims := middleware.ClaimsFrom(c)

	if err := h.Tokens.Revoke(ctx, claims.ID); err != nil {
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, echo.Map{"message": "could not revoke token"})
	}

	if h.CookieTransport {
		c.SetCookie(DeleteCookie(AccessCookie, "/"))
		c.SetCookie(DeleteCookie(RefreshCookie, "/"))
	}

	l.Info("logout_successful", "token_type", claims.TokenType)
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("%s token revoked successfully!", claims.TokenType),
	})
}

func (h *AuthHTTP) Whoami(c echo.Context) error {
	ctx := c.Request().Context()
	claims := middleware.ClaimsFrom(c)

	user, err := h.Svc.Whoami(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, echo.Map{"message": "unknown identity"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, echo.Map{"message": "lookup failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"username": user.Username,
		"email":    user.Email,
	})
}
