package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mettly-app/mettly-api/internal/httperr"
	"github.com/mettly-app/mettly-api/internal/httpresp"
	"github.com/mettly-app/mettly-api/internal/middleware"
	"github.com/mettly-app/mettly-api/internal/models"
	"github.com/mettly-app/mettly-api/internal/payments"
)

type PaymentHandler struct {
	db    *gorm.DB
	links *payments.LinkProvider
}

func NewPaymentHandler(db *gorm.DB, links *payments.LinkProvider) *PaymentHandler {
	return &PaymentHandler{db: db, links: links}
}

// --------- Requests ---------

type CreatePaymentRequest struct {
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Method string `json:"method"`
	Date   string `json:"date"`
}

// --------- Handlers ---------

func (h *PaymentHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	ap, ok := h.ownedAppointment(c, userID)
	if !ok {
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Invalid payment date.")
			return
		}
		date = parsed
	}

	method := req.Method
	if method == "" {
		method = "cash"
	}

	payment := models.Payment{
		AppointmentID: ap.ID,
		Amount:        req.Amount,
		Date:          date,
		Method:        method,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Appointment{}).
			Where("id = ?", ap.ID).
			Update("is_paid", true).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_create_payment", "Could not record payment.")
		return
	}

	httpresp.Created(c, payment)
}

func (h *PaymentHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	q := h.db.
		Joins("JOIN appointments ON appointments.id = payments.appointment_id").
		Where("appointments.user_id = ?", userID)

	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			httperr.BadRequest(c, "invalid_from", "Invalid 'from' date.")
			return
		}
		q = q.Where("payments.date >= ?", parsed)
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			httperr.BadRequest(c, "invalid_to", "Invalid 'to' date.")
			return
		}
		q = q.Where("payments.date < ?", parsed.Add(24*time.Hour))
	}

	var list []models.Payment
	if err := q.Order("payments.date DESC").Find(&list).Error; err != nil {
		httperr.Internal(c, "failed_to_list_payments", "Could not list payments.")
		return
	}

	httpresp.List(c, list)
}

type revenueRow struct {
	ClientID   uint   `json:"client_id"`
	ClientName string `json:"client_name"`
	Total      int64  `json:"total"`
}

// Summary aggregates revenue overall and per client.
func (h *PaymentHandler) Summary(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var total int64
	if err := h.db.Model(&models.Payment{}).
		Joins("JOIN appointments ON appointments.id = payments.appointment_id").
		Where("appointments.user_id = ?", userID).
		Select("COALESCE(SUM(payments.amount), 0)").
		Scan(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_summarize", "Could not compute revenue.")
		return
	}

	var perClient []revenueRow
	if err := h.db.Model(&models.Payment{}).
		Joins("JOIN appointments ON appointments.id = payments.appointment_id").
		Joins("JOIN clients ON clients.id = appointments.client_id").
		Where("appointments.user_id = ?", userID).
		Select("clients.id AS client_id, clients.name AS client_name, SUM(payments.amount) AS total").
		Group("clients.id, clients.name").
		Order("total DESC").
		Scan(&perClient).Error; err != nil {
		httperr.Internal(c, "failed_to_summarize", "Could not compute revenue.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":      total,
		"per_client": perClient,
	})
}

type CreateLinkRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// CreateLink returns a Mercado Pago checkout link for the appointment.
func (h *PaymentHandler) CreateLink(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	if h.links == nil {
		httperr.Unavailable(c, "payments_not_configured", "Online payments are not configured.")
		return
	}

	ap, ok := h.ownedAppointment(c, userID)
	if !ok {
		return
	}

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	title := fmt.Sprintf("Session on %s", ap.Date.Format("Jan 2, 2006 15:04"))
	link, err := h.links.CreateLink(c.Request.Context(), ap.ID, title, req.Amount)
	if err != nil {
		httperr.Internal(c, "failed_to_create_link", "Could not create checkout link.")
		return
	}

	httpresp.Created(c, link)
}

func (h *PaymentHandler) ownedAppointment(c *gin.Context, userID uint) (*models.Appointment, bool) {
	var ap models.Appointment
	if err := h.db.
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		First(&ap).Error; err != nil {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return nil, false
	}
	return &ap, true
}
