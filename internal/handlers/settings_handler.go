package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mettly-app/mettly-api/internal/httperr"
	"github.com/mettly-app/mettly-api/internal/middleware"
	"github.com/mettly-app/mettly-api/internal/models"
)

type SettingsHandler struct {
	db *gorm.DB
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

func (h *SettingsHandler) GetNotifications(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var settings models.NotificationSettings
	if err := h.db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// accounts created before the settings row existed get defaults
			settings = models.NotificationSettings{
				UserID:       userID,
				EmailEnabled: true,
				ReminderTime: 60,
			}
			c.JSON(http.StatusOK, settings)
			return
		}
		httperr.Internal(c, "failed_to_load_settings", "Could not load settings.")
		return
	}

	c.JSON(http.StatusOK, settings)
}

type UpdateNotificationsRequest struct {
	EmailEnabled   *bool `json:"email_enabled"`
	BrowserEnabled *bool `json:"browser_enabled"`
	ReminderTime   *int  `json:"reminder_time"`
}

func (h *SettingsHandler) UpdateNotifications(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpdateNotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	var settings models.NotificationSettings
	err := h.db.Where("user_id = ?", userID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		settings = models.NotificationSettings{
			UserID:       userID,
			EmailEnabled: true,
			ReminderTime: 60,
		}
	} else if err != nil {
		httperr.Internal(c, "failed_to_load_settings", "Could not load settings.")
		return
	}

	if req.EmailEnabled != nil {
		settings.EmailEnabled = *req.EmailEnabled
	}
	if req.BrowserEnabled != nil {
		settings.BrowserEnabled = *req.BrowserEnabled
	}
	if req.ReminderTime != nil && *req.ReminderTime > 0 {
		settings.ReminderTime = *req.ReminderTime
	}

	if err := h.db.Save(&settings).Error; err != nil {
		httperr.Internal(c, "failed_to_save_settings", "Could not save settings.")
		return
	}

	c.JSON(http.StatusOK, settings)
}
