package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldcrew/engineer-roster/internal/api/middleware"
	"github.com/fieldcrew/engineer-roster/internal/api/view"
	"github.com/fieldcrew/engineer-roster/internal/core/domain"
	"github.com/fieldcrew/engineer-roster/internal/core/ports"
)

// SessionViews serves the browser login and logout.
type SessionViews struct {
	authService ports.AuthService
}

func NewSessionViews(authService ports.AuthService) *SessionViews {
	return &SessionViews{authService: authService}
}

func (v *SessionViews) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, view.Login, view.Page{})
}

// Login issues a token and hands it to the UI through the redirect URL.
func (v *SessionViews) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	token, _, err := v.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrValidation) {
			return c.Render(http.StatusUnauthorized, view.Login, view.Page{
				Email: req.Email,
				Error: "Invalid email or password",
			})
		}
		return err
	}

	return c.Redirect(http.StatusSeeOther, view.URL("/engineers", "", token))
}

func (v *SessionViews) Logout(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := v.authService.Logout(c.Request().Context(), user.ID, middleware.CurrentTokenID(c)); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}
