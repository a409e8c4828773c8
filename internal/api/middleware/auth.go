package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fieldcrew/engineer-roster/internal/core/domain"
)

// Authenticator resolves a raw token to its user and token id.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, string, error)
}

// Auth verifies the request credential and injects the user, the token and
// its id into the context. The token is read from the Authorization bearer
// header, falling back to the "token" query parameter used by UI links.
func Auth(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)

			user, tokenID, err := authn.Authenticate(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					return c.String(http.StatusUnauthorized, "Not authorized")
				}
				return err
			}

			c.Set(userKey, user)
			c.Set(tokenKey, token)
			c.Set(tokenIDKey, tokenID)

			return next(c)
		}
	}
}

func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		if tok := strings.TrimSpace(parts[1]); tok != "" {
			return tok
		}
	}
	return strings.TrimSpace(c.QueryParam("token"))
}
