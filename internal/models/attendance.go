package models

import "time"

const (
	AttendanceConfirmed = "confirmed"
	AttendanceDeclined  = "declined"
)

// Attendance records a client's confirm/decline reply to a reminder.
// At most one row per appointment; replies overwrite (upsert).
type Attendance struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint        `gorm:"uniqueIndex;not null" json:"appointment_id"`
	Appointment   Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Status string `gorm:"size:20;not null" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
