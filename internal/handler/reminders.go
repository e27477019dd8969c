package handler

import (
	"net/http"

	"pharmapos/internal/apierror"
	"pharmapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RemindersHandler struct{ svc *service.ReminderService }

func NewRemindersHandler(svc *service.ReminderService) *RemindersHandler {
	return &RemindersHandler{svc: svc}
}

// List godoc
// @Summary      List active refill reminders
// @Tags         reminders
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.ReminderResponse
// @Router       /v1/reminders [get]
func (h *RemindersHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not list reminders"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Dismiss godoc
// @Summary      Dismiss a reminder
// @Description  Terminal: a dismissed reminder never reappears in the daily sweep.
// @Tags         reminders
// @Security     BearerAuth
// @Param        id path string true "Reminder UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/reminders/{id}/dismiss [post]
func (h *RemindersHandler) Dismiss(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	if err := h.svc.Dismiss(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
