package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mettly-app/mettly-api/internal/httperr"
	ucReminder "github.com/mettly-app/mettly-api/internal/usecase/reminder"
)

type ReminderHandler struct {
	dispatch *ucReminder.Dispatch
}

func NewReminderHandler(dispatch *ucReminder.Dispatch) *ReminderHandler {
	return &ReminderHandler{dispatch: dispatch}
}

// Send runs one reminder dispatch cycle. The external scheduler hits this
// every five minutes; a failed cycle is simply retried at the next tick.
func (h *ReminderHandler) Send(c *gin.Context) {
	res, err := h.dispatch.Execute(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_send_reminders", "Reminder dispatch failed.")
		return
	}

	c.JSON(http.StatusOK, res)
}
