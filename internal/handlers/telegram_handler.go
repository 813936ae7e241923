package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mettly-app/mettly-api/internal/httperr"
	"github.com/mettly-app/mettly-api/internal/models"
	"github.com/mettly-app/mettly-api/internal/telegram"
)

type TelegramHandler struct {
	db     *gorm.DB
	sender telegram.Sender
}

func NewTelegramHandler(db *gorm.DB, sender telegram.Sender) *TelegramHandler {
	return &TelegramHandler{db: db, sender: sender}
}

type SendMessageRequest struct {
	TelegramID int64               `json:"telegramId" binding:"required"`
	Message    string              `json:"message" binding:"required"`
	Keyboard   [][]telegram.Button `json:"keyboard"`
}

// SendMessage proxies an arbitrary message through the bot.
func (h *TelegramHandler) SendMessage(c *gin.Context) {
	if h.sender == nil {
		httperr.Unavailable(c, "telegram_not_configured", "Telegram is not configured.")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "telegramId and message are required.")
		return
	}

	if err := h.sender.SendMessage(req.TelegramID, req.Message, req.Keyboard); err != nil {
		httperr.Internal(c, "failed_to_send_message", "Could not deliver the message.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "sent"})
}

type LinkRequest struct {
	Token      string `json:"token" binding:"required"`
	TelegramID int64  `json:"telegramId" binding:"required"`
}

// Link binds a Telegram chat to the client holding the one-time token.
// The bot calls this from its /start handler.
func (h *TelegramHandler) Link(c *gin.Context) {
	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "token and telegramId are required.")
		return
	}

	var client models.Client
	if err := h.db.
		Where("telegram_link_token = ?", req.Token).
		First(&client).Error; err != nil {
		httperr.NotFound(c, "token_not_found", "Unknown or already used link token.")
		return
	}

	updates := map[string]any{
		"telegram_id":         req.TelegramID,
		"telegram_link_token": "",
	}
	if err := h.db.Model(&models.Client{}).
		Where("id = ?", client.ID).
		Updates(updates).Error; err != nil {
		httperr.Internal(c, "failed_to_link", "Could not bind the chat.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "linked",
		"client_id": client.ID,
	})
}
