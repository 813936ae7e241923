package models

import "time"

type NotificationSettings struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	EmailEnabled   bool `gorm:"default:true" json:"email_enabled"`
	BrowserEnabled bool `gorm:"default:false" json:"browser_enabled"`

	// Minutes before an appointment starts that reminders go out.
	ReminderTime int `gorm:"default:60" json:"reminder_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
