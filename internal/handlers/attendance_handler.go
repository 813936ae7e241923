package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mettly-app/mettly-api/internal/httperr"
	ucAttendance "github.com/mettly-app/mettly-api/internal/usecase/attendance"
)

type AttendanceHandler struct {
	record *ucAttendance.RecordReply
}

func NewAttendanceHandler(record *ucAttendance.RecordReply) *AttendanceHandler {
	return &AttendanceHandler{record: record}
}

type AttendanceRequest struct {
	TelegramID    int64  `json:"telegramId" binding:"required"`
	AppointmentID uint   `json:"appointmentId" binding:"required"`
	Response      string `json:"response" binding:"required,oneof=yes no"`
}

// Record handles the bot's forwarded yes/no reply to a reminder.
func (h *AttendanceHandler) Record(c *gin.Context) {
	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "telegramId, appointmentId and response are required.")
		return
	}

	att, err := h.record.Execute(c.Request.Context(), ucAttendance.RecordReplyInput{
		TelegramID:    req.TelegramID,
		AppointmentID: req.AppointmentID,
		Response:      req.Response,
	})
	if err != nil {
		if code, ok := httperr.BusinessCode(err); ok {
			httperr.NotFound(c, code, "Not found.")
			return
		}
		httperr.Internal(c, "failed_to_record_attendance", "Could not record attendance.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "attendance_recorded",
		"attendance": att,
	})
}
