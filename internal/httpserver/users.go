package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dmarchuk/auth-service/internal/service"
	"github.com/dmarchuk/auth-service/pkg/logging"
)

type UserHTTP struct {
	Svc *service.UserService
}

func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetAll lists users in insertion order: ?page (default 1) and
// ?per_page (default 2), both clamped. Password hashes never serialize;
// see the json tags on models.User.
func (h *UserHTTP) GetAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_all")

	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 2)

	users, err := h.Svc.List(ctx, page, perPage)
	if err != nil {
		l.Error("list_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, echo.Map{"message": "could not list users"})
	}

	return c.JSON(http.StatusOK, echo.Map{"users": users})
}
