package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mettly-app/mettly-api/internal/httperr"
	"github.com/mettly-app/mettly-api/internal/httpresp"
	"github.com/mettly-app/mettly-api/internal/middleware"
	ucAppointment "github.com/mettly-app/mettly-api/internal/usecase/appointment"
)

type AppointmentHandler struct {
	create    *ucAppointment.CreateAppointment
	cancel    *ucAppointment.CancelAppointment
	confirm   *ucAppointment.ConfirmAppointment
	complete  *ucAppointment.CompleteAppointment
	reconcile *ucAppointment.ReconcileStatuses
	list      *ucAppointment.ListAppointments
	get       *ucAppointment.GetAppointment
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	cancel *ucAppointment.CancelAppointment,
	confirm *ucAppointment.ConfirmAppointment,
	complete *ucAppointment.CompleteAppointment,
	reconcile *ucAppointment.ReconcileStatuses,
	list *ucAppointment.ListAppointments,
	get *ucAppointment.GetAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:    create,
		cancel:    cancel,
		confirm:   confirm,
		complete:  complete,
		reconcile: reconcile,
		list:      list,
		get:       get,
	}
}

// --------- Requests ---------

type CreateAppointmentRequest struct {
	ClientID uint   `json:"client_id" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Duration int    `json:"duration"`
	Notes    string `json:"notes"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// --------- Handlers ---------

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		UserID:   userID,
		ClientID: req.ClientID,
		Date:     req.Date,
		Time:     req.Time,
		Duration: req.Duration,
		Notes:    req.Notes,
	})
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), userID, uint(id))
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	from, err := time.Parse("2006-01-02", c.DefaultQuery("from", time.Now().Format("2006-01-02")))
	if err != nil {
		httperr.BadRequest(c, "invalid_from", "Invalid 'from' date.")
		return
	}

	to := from.Add(24 * time.Hour)
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_to", "Invalid 'to' date.")
			return
		}
		to = parsed.Add(24 * time.Hour)
	}

	aps, err := h.list.Execute(c.Request.Context(), userID, from, to)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list appointments.")
		return
	}

	httpresp.List(c, aps)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req CancelAppointmentRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.cancel.Execute(c.Request.Context(), userID, uint(id), req.Reason)
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), userID, uint(id))
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), userID, uint(id))
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// UpdateStatus runs the bulk reconciliation for the calling trainer.
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	res, err := h.reconcile.Execute(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "failed_to_update_statuses", "Could not reconcile appointment statuses.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"updated":   res.Updated,
		"timestamp": res.Timestamp,
	})
}

// --------- Error mapping ---------

func writeAppointmentError(c *gin.Context, err error) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}

	switch code {
	case "appointment_not_found", "client_not_found":
		httperr.NotFound(c, code, "Not found.")
	default:
		httperr.BadRequest(c, code, "Request rejected.")
	}
}
