package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mettly-app/mettly-api/internal/httperr"
	"github.com/mettly-app/mettly-api/internal/middleware"
	"github.com/mettly-app/mettly-api/internal/models"
	"github.com/mettly-app/mettly-api/internal/storage"
	"github.com/mettly-app/mettly-api/internal/timezone"
)

const maxAvatarUpload = 5 << 20 // 5 MiB

type MeHandler struct {
	db      *gorm.DB
	avatars *storage.AvatarStore
}

func NewMeHandler(db *gorm.DB, avatars *storage.AvatarStore) *MeHandler {
	return &MeHandler{db: db, avatars: avatars}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "Account not found.")
		return
	}

	c.JSON(http.StatusOK, user)
}

type UpdateMeRequest struct {
	Name         *string   `json:"name"`
	Timezone     *string   `json:"timezone"`
	WorkStart    *string   `json:"work_start"`
	WorkEnd      *string   `json:"work_end"`
	SlotDuration *int      `json:"slot_duration"`
	Holidays     *[]string `json:"holidays"`
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "Account not found.")
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
			return
		}
		user.Timezone = *req.Timezone
	}
	if req.WorkStart != nil {
		user.WorkStart = *req.WorkStart
	}
	if req.WorkEnd != nil {
		user.WorkEnd = *req.WorkEnd
	}
	if req.SlotDuration != nil && *req.SlotDuration > 0 {
		user.SlotDuration = *req.SlotDuration
	}
	if req.Holidays != nil {
		encoded, err := json.Marshal(*req.Holidays)
		if err != nil {
			httperr.BadRequest(c, "invalid_holidays", "Invalid holiday list.")
			return
		}
		user.Holidays = string(encoded)
	}

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Could not save account.")
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteMe removes the account and everything it owns in one transaction.
func (h *MeHandler) DeleteMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("appointment_id IN (?)",
				tx.Model(&models.Appointment{}).Select("id").Where("user_id = ?", userID),
			).
			Delete(&models.Payment{}).Error; err != nil {
			return err
		}

		if err := tx.
			Where("appointment_id IN (?)",
				tx.Model(&models.Appointment{}).Select("id").Where("user_id = ?", userID),
			).
			Delete(&models.Attendance{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Client{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.NotificationSettings{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, userID).Error
	})

	if err != nil {
		httperr.Internal(c, "failed_to_delete_account", "Could not delete account.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account_deleted"})
}

func (h *MeHandler) UploadAvatar(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	if h.avatars == nil {
		httperr.Unavailable(c, "storage_not_configured", "Avatar storage is not configured.")
		return
	}

	file, _, err := c.Request.FormFile("avatar")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Send the image as the 'avatar' form field.")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxAvatarUpload+1))
	if err != nil {
		httperr.Internal(c, "failed_to_read_file", "Could not read upload.")
		return
	}
	if len(raw) > maxAvatarUpload {
		httperr.BadRequest(c, "file_too_large", "Avatar must be at most 5 MiB.")
		return
	}

	url, err := h.avatars.Put(c.Request.Context(), userID, raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Could not process the image.")
		return
	}

	if err := h.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("avatar_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_save_avatar", "Could not save avatar.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
