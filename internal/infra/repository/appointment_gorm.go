package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/mettly-app/mettly-api/internal/domain/appointment"
	"github.com/mettly-app/mettly-api/internal/httperr"
	"github.com/mettly-app/mettly-api/internal/models"
)

var activeStatuses = []string{
	string(domain.StatusScheduled),
	string(domain.StatusConfirmed),
}

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// User
// --------------------------------------------------

func (r *AppointmentGormRepository) GetUserByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetClientForUser(
	ctx context.Context,
	clientID uint,
	userID uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", clientID, userID).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *AppointmentGormRepository) FindClientByTelegramID(
	ctx context.Context,
	telegramID int64,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("telegram_id = ?", telegramID).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	end := ap.End()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var conflicts []models.Appointment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"user_id = ? AND status IN ? AND date < ? AND (date + duration * interval '1 minute') > ?",
				ap.UserID, activeStatuses, end, ap.Date,
			).
			Find(&conflicts).Error; err != nil {
			return err
		}

		if len(conflicts) > 0 {
			return httperr.ErrBusiness("time_conflict")
		}

		return tx.Create(ap).Error
	})
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentForUser(
	ctx context.Context,
	appointmentID uint,
	userID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", appointmentID, userID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentForClient(
	ctx context.Context,
	appointmentID uint,
	clientID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND client_id = ?", appointmentID, clientID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	userID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Client").
		Where(
			"user_id = ? AND date >= ? AND date < ?",
			userID, start, end,
		).
		Order("date ASC").
		Find(&aps).Error

	if err != nil {
		return nil, err
	}

	return aps, nil
}

// --------------------------------------------------
// Reconciliation
// --------------------------------------------------

// CompletePastAppointments keeps the historical two-clause eligibility rule:
// a row qualifies when it started more than 30 minutes ago, or when it
// started at all and its duration has elapsed relative to the call-time now.
// The second clause only widens eligibility for sessions shorter than 30
// minutes; anything started more than 30 minutes ago completes regardless
// of remaining duration.
func (r *AppointmentGormRepository) CompletePastAppointments(
	ctx context.Context,
	userID uint,
	now time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("user_id = ?", userID).
		Where("status NOT IN ?", []string{
			string(domain.StatusCancelled),
			string(domain.StatusCompleted),
		}).
		Where(
			"date < ? OR (date < ? AND duration <= EXTRACT(EPOCH FROM (?::timestamptz - date)) / 60)",
			now.Add(-30*time.Minute), now, now,
		).
		Updates(map[string]any{
			"status":       string(domain.StatusCompleted),
			"completed_at": now,
		})

	if res.Error != nil {
		return 0, res.Error
	}

	return res.RowsAffected, nil
}

// --------------------------------------------------
// Reminders
// --------------------------------------------------

func (r *AppointmentGormRepository) ListDueReminders(
	ctx context.Context,
	now time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Client").
		Joins("LEFT JOIN notification_settings ns ON ns.user_id = appointments.user_id").
		Where("appointments.status IN ?", activeStatuses).
		Where("appointments.date > ?", now).
		Where(
			"appointments.date <= ? + (COALESCE(ns.reminder_time, 60) * interval '1 minute')",
			now,
		).
		Order("appointments.date ASC").
		Find(&aps).Error

	if err != nil {
		return nil, err
	}

	return aps, nil
}

// --------------------------------------------------
// Attendance
// --------------------------------------------------

func (r *AppointmentGormRepository) RecordAttendance(
	ctx context.Context,
	ap *models.Appointment,
	status string,
	cancel bool,
	now time.Time,
	reason string,
) (*models.Attendance, error) {

	att := models.Attendance{
		AppointmentID: ap.ID,
		Status:        status,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "appointment_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
			}).
			Create(&att).Error; err != nil {
			return err
		}

		if !cancel {
			return nil
		}

		// a declined reply on an already-terminal appointment only
		// records the attendance; the status stays put
		if err := domain.Cancel(ap, now, reason); err != nil {
			if httperr.IsBusiness(err, "invalid_state") {
				return nil
			}
			return err
		}

		return tx.Save(ap).Error
	})

	if err != nil {
		return nil, err
	}

	// OnConflict updates do not refresh the in-memory row; reload so the
	// caller gets the surviving record with its real id and status.
	var saved models.Attendance
	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", ap.ID).
		First(&saved).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &att, nil
		}
		return nil, err
	}

	return &saved, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
