package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fieldcrew/engineer-roster/internal/core/ports"
)

// ActivityHandler exposes the audit trail of an engineer.
type ActivityHandler struct {
	service ports.ActivityService
}

func NewActivityHandler(service ports.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// History handles GET /api/engineers/:id/activity.
//
// @Summary      Engineer activity
// @Description  Newest first. The trail of a deleted engineer stays readable.
// @Tags         engineers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Engineer ID"
// @Success      200  {array}   domain.Activity
// @Failure      400  {object}  messageResponse
// @Router       /api/engineers/{id}/activity [get]
func (h *ActivityHandler) History(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	list, err := h.service.History(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}
