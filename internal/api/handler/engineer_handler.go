package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldcrew/engineer-roster/internal/api/middleware"
	"github.com/fieldcrew/engineer-roster/internal/core/domain"
)

// EngineerHandler renders the results left by middleware.EngineerData as JSON.
type EngineerHandler struct{}

func NewEngineerHandler() *EngineerHandler {
	return &EngineerHandler{}
}

// Index handles GET /api/engineers.
//
// @Summary      List engineers
// @Tags         engineers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Engineer
// @Failure      401  {string}  string  "Not authorized"
// @Router       /api/engineers [get]
func (h *EngineerHandler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.EngineerListResult(c))
}

// Show handles GET and PUT /api/engineers/:id.
//
// @Summary      Get an engineer
// @Tags         engineers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Engineer ID"
// @Success      200  {object}  domain.Engineer
// @Failure      400  {object}  messageResponse
// @Failure      401  {string}  string  "Not authorized"
// @Router       /api/engineers/{id} [get]
func (h *EngineerHandler) Show(c echo.Context) error {
	e := middleware.EngineerResult(c)
	if e == nil {
		return domain.ErrEngineerNotFound
	}
	return c.JSON(http.StatusOK, e)
}

// Update documents PUT /api/engineers/:id; the response is rendered by Show.
//
// @Summary      Update an engineer
// @Description  Fields that are sent replace the stored ones. A missing "available" is stored as false.
// @Tags         engineers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Engineer ID"
// @Param        body  body      engineerRequest  true  "Engineer fields"
// @Success      200   {object}  domain.Engineer
// @Failure      400   {object}  messageResponse
// @Router       /api/engineers/{id} [put]
func (h *EngineerHandler) Update(c echo.Context) error {
	return h.Show(c)
}

// Create handles POST /api/engineers.
//
// @Summary      Create an engineer
// @Tags         engineers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string           false  "Replays of the same key return the first result"
// @Param        body             body      engineerRequest  true   "Engineer fields"
// @Success      201              {object}  domain.Engineer
// @Failure      400              {object}  messageResponse
// @Failure      401              {string}  string  "Not authorized"
// @Router       /api/engineers [post]
func (h *EngineerHandler) Create(c echo.Context) error {
	e := middleware.EngineerResult(c)
	if e == nil {
		return domain.ErrEngineerNotFound
	}
	return c.JSON(http.StatusCreated, e)
}

// Destroy handles DELETE /api/engineers/:id.
//
// @Summary      Delete an engineer
// @Tags         engineers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Engineer ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  messageResponse
// @Router       /api/engineers/{id} [delete]
func (h *EngineerHandler) Destroy(c echo.Context) error {
	if _, ok := middleware.DeletedResult(c); !ok {
		return domain.ErrEngineerNotFound
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Engineer successfully deleted"})
}
