package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/fieldcrew/engineer-roster/internal/core/domain"
)

// Echo context keys written by the guard and the data middleware.
const (
	userKey         = "roster.user"
	tokenKey        = "roster.token"
	tokenIDKey      = "roster.token_id"
	engineerKey     = "roster.engineer"
	engineerListKey = "roster.engineers"
	deletedKey      = "roster.deleted"
)

// CurrentUser returns the user resolved by Auth, or nil on unguarded routes.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(userKey).(*domain.User)
	return u
}

// CurrentToken returns the raw bearer token of the request.
func CurrentToken(c echo.Context) string {
	s, _ := c.Get(tokenKey).(string)
	return s
}

// CurrentTokenID returns the identifier (jti) of the request's token.
func CurrentTokenID(c echo.Context) string {
	s, _ := c.Get(tokenIDKey).(string)
	return s
}

// EngineerResult returns the record loaded, created or updated by EngineerData.
func EngineerResult(c echo.Context) *domain.Engineer {
	e, _ := c.Get(engineerKey).(*domain.Engineer)
	return e
}

func EngineerListResult(c echo.Context) []*domain.Engineer {
	list, _ := c.Get(engineerListKey).([]*domain.Engineer)
	if list == nil {
		return []*domain.Engineer{}
	}
	return list
}

// DeletedResult returns the id of the engineer removed by EngineerData.Delete.
func DeletedResult(c echo.Context) (string, bool) {
	id, ok := c.Get(deletedKey).(string)
	return id, ok
}
