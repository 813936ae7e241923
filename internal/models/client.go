package models

import "time"

// Client is a service recipient owned by exactly one trainer. Clients have no
// login of their own; they interact through the Telegram bot or not at all.
type Client struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`
	Email string `gorm:"size:100;uniqueIndex" json:"email"`

	// Telegram chat bound via a link token; zero means unlinked.
	TelegramID int64 `gorm:"index" json:"telegram_id"`

	// One-time token a client sends to the bot to bind their chat.
	TelegramLinkToken string `gorm:"size:64;index" json:"-"`

	TelegramReminders bool `gorm:"default:true" json:"telegram_reminders"`
	EmailReminders    bool `gorm:"default:true" json:"email_reminders"`

	// Display color, assigned once per client and memoized in-process.
	Color string `gorm:"size:7" json:"color"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
