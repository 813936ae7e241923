package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mettly-app/mettly-api/internal/colors"
	"github.com/mettly-app/mettly-api/internal/httperr"
	"github.com/mettly-app/mettly-api/internal/httpresp"
	"github.com/mettly-app/mettly-api/internal/middleware"
	"github.com/mettly-app/mettly-api/internal/models"
)

type ClientHandler struct {
	db     *gorm.DB
	colors *colors.Cache
}

func NewClientHandler(db *gorm.DB, colorCache *colors.Cache) *ClientHandler {
	return &ClientHandler{db: db, colors: colorCache}
}

// --------- Requests ---------

type CreateClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`

	TelegramReminders *bool `json:"telegram_reminders"`
	EmailReminders    *bool `json:"email_reminders"`
}

type UpdateClientRequest struct {
	Name              *string `json:"name"`
	Email             *string `json:"email"`
	Phone             *string `json:"phone"`
	TelegramReminders *bool   `json:"telegram_reminders"`
	EmailReminders    *bool   `json:"email_reminders"`
}

// --------- Handlers ---------

func (h *ClientHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("user_id = ?", userID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var clients []models.Client
	if err := q.
		Order("created_at DESC").
		Find(&clients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_clients", "Could not list clients.")
		return
	}

	for i := range clients {
		h.colors.Seed(clients[i].ID, clients[i].Color)
		clients[i].Color = h.colors.For(clients[i].ID)
	}

	httpresp.List(c, clients)
}

func (h *ClientHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	client := models.Client{
		UserID:            userID,
		Name:              req.Name,
		Email:             strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:             req.Phone,
		TelegramReminders: true,
		EmailReminders:    true,
	}
	if req.TelegramReminders != nil {
		client.TelegramReminders = *req.TelegramReminders
	}
	if req.EmailReminders != nil {
		client.EmailReminders = *req.EmailReminders
	}

	if err := h.db.Create(&client).Error; err != nil {
		httperr.BadRequest(c, "failed_to_create_client", "Could not create client; the email may already exist.")
		return
	}

	// assign and persist the display color once
	client.Color = h.colors.For(client.ID)
	h.db.Model(&models.Client{}).Where("id = ?", client.ID).Update("color", client.Color)

	httpresp.Created(c, client)
}

func (h *ClientHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var client models.Client
	if err := h.db.
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		First(&client).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "Client not found.")
		return
	}

	h.colors.Seed(client.ID, client.Color)
	client.Color = h.colors.For(client.ID)

	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var client models.Client
	if err := h.db.
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		First(&client).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "Client not found.")
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Email != nil {
		client.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.TelegramReminders != nil {
		client.TelegramReminders = *req.TelegramReminders
	}
	if req.EmailReminders != nil {
		client.EmailReminders = *req.EmailReminders
	}

	if err := h.db.Save(&client).Error; err != nil {
		httperr.Internal(c, "failed_to_update_client", "Could not save client.")
		return
	}

	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	res := h.db.
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		Delete(&models.Client{})

	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_client", "Could not delete client.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "client_not_found", "Client not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "client_deleted"})
}

// TelegramLink issues a one-time token the client sends to the bot to bind
// their chat. Re-issuing replaces any previous unused token.
func (h *ClientHandler) TelegramLink(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var client models.Client
	if err := h.db.
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		First(&client).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "Client not found.")
		return
	}

	token := uuid.NewString()
	if err := h.db.Model(&models.Client{}).
		Where("id = ?", client.ID).
		Update("telegram_link_token", token).Error; err != nil {
		httperr.Internal(c, "failed_to_issue_token", "Could not issue link token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"link_token": token})
}
