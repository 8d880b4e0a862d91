package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmarchuk/auth-service/internal/middleware"
)

type Deps struct {
	Auth  *AuthHTTP
	Users *UserHTTP
	Guard *middleware.TokenGuard

	StaffGating bool
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.GET("/whoami", d.Auth.Whoami, d.Guard.RequireAccess())
	auth.GET("/refresh", d.Auth.Refresh, d.Guard.RequireRefresh())
	auth.GET("/logout", d.Auth.Logout, d.Guard.RequireAnyToken())

	users := e.Group("/users")
	users.GET("/all", d.Users.GetAll, d.Guard.RequireAccess(), middleware.StaffOnly(d.StaffGating))
}
