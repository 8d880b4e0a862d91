package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// StaffOnly gates a route on the is_staff claim. The claim is read from
// the token, never re-derived from the store. A disabled gate passes
// everyone through.
func StaffOnly(enabled bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !enabled {
				return next(c)
			}

			claims := ClaimsFrom(c)
			if claims == nil || !claims.IsStaff {
				return echo.NewHTTPError(http.StatusForbidden, echo.Map{
					"message": "You are not authorized to view this page!",
				})
			}
			return next(c)
		}
	}
}
