package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fieldcrew/engineer-roster/internal/api/middleware"
	"github.com/fieldcrew/engineer-roster/internal/api/view"
	"github.com/fieldcrew/engineer-roster/internal/core/domain"
)

// EngineerViews renders the results left by middleware.EngineerData as HTML
// pages, or redirects after a mutation.
type EngineerViews struct{}

func NewEngineerViews() *EngineerViews {
	return &EngineerViews{}
}

func (v *EngineerViews) Index(c echo.Context) error {
	return c.Render(http.StatusOK, view.EngineersIndex, view.Page{
		Token:     middleware.CurrentToken(c),
		User:      middleware.CurrentUser(c),
		Engineers: middleware.EngineerListResult(c),
	})
}

func (v *EngineerViews) Show(c echo.Context) error {
	return v.renderEngineer(c, view.EngineersShow)
}

func (v *EngineerViews) Edit(c echo.Context) error {
	return v.renderEngineer(c, view.EngineersEdit)
}

// New renders a blank form. Its nonce makes a double submit create one record.
func (v *EngineerViews) New(c echo.Context) error {
	return c.Render(http.StatusOK, view.EngineersNew, view.Page{
		Token: middleware.CurrentToken(c),
		User:  middleware.CurrentUser(c),
		Nonce: uuid.NewString(),
	})
}

// RedirectHome follows a create or a delete.
func (v *EngineerViews) RedirectHome(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, view.URL("/engineers", "", middleware.CurrentToken(c)))
}

// RedirectShow follows an update.
func (v *EngineerViews) RedirectShow(c echo.Context) error {
	e := middleware.EngineerResult(c)
	if e == nil {
		return domain.ErrEngineerNotFound
	}
	return c.Redirect(http.StatusSeeOther, view.URL("/engineers/"+e.ID, "", middleware.CurrentToken(c)))
}

func (v *EngineerViews) renderEngineer(c echo.Context, page string) error {
	e := middleware.EngineerResult(c)
	if e == nil {
		return domain.ErrEngineerNotFound
	}
	return c.Render(http.StatusOK, page, view.Page{
		Token:    middleware.CurrentToken(c),
		User:     middleware.CurrentUser(c),
		Engineer: e,
	})
}
