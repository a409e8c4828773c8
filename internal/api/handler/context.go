package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/fieldcrew/engineer-roster/internal/api/middleware"
	"github.com/fieldcrew/engineer-roster/internal/core/domain"
)

// ctxUser returns the user injected by the Auth middleware. Its absence means
// the route was registered without the guard, so the request is rejected.
func ctxUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}
