package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/fieldcrew/engineer-roster/internal/core/domain"
)

// SelfOnly lets a request through only when the :id path parameter is the
// authenticated user's own id.
func SelfOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return domain.ErrUnauthenticated
			}
			if c.Param("id") != user.ID {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
