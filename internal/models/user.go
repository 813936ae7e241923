package models

import "time"

const (
	RoleTrainer = "trainer"
	RoleClient  = "client"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;default:'trainer'" json:"role"`

	// Referral code handed out at registration; unique when present.
	RefCode *string `gorm:"size:64;uniqueIndex" json:"ref_code"`

	Timezone string `gorm:"size:64;default:'UTC'" json:"timezone"`

	// Working window in "HH:MM" local time; appointments must fit inside it.
	WorkStart    string `gorm:"size:5;default:'08:00'" json:"work_start"`
	WorkEnd      string `gorm:"size:5;default:'20:00'" json:"work_end"`
	SlotDuration int    `gorm:"default:60" json:"slot_duration"`

	// JSON-encoded list of "2006-01-02" dates the trainer is off.
	Holidays string `gorm:"type:text;default:'[]'" json:"holidays"`

	AvatarURL string `json:"avatar_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
