package appointment

import (
	"context"
	"time"

	"github.com/mettly-app/mettly-api/internal/models"
)

type Repository interface {
	// -------- User --------
	GetUserByID(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	// -------- Client --------
	GetClientForUser(
		ctx context.Context,
		clientID uint,
		userID uint,
	) (*models.Client, error)

	FindClientByTelegramID(
		ctx context.Context,
		telegramID int64,
	) (*models.Client, error)

	// -------- Appointment (create / conflict) --------

	// CreateAppointment checks for overlapping active appointments of the
	// same trainer and inserts inside one transaction, locking conflicting
	// rows FOR UPDATE. Returns a time_conflict business error on overlap.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointmentForUser(
		ctx context.Context,
		appointmentID uint,
		userID uint,
	) (*models.Appointment, error)

	GetAppointmentForClient(
		ctx context.Context,
		appointmentID uint,
		clientID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Listing --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		userID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Reconciliation --------

	// CompletePastAppointments flips every past, non-cancelled,
	// non-completed appointment of the user to completed in one bulk
	// update and reports the number of rows affected.
	CompletePastAppointments(
		ctx context.Context,
		userID uint,
		now time.Time,
	) (int64, error)

	// -------- Reminders --------

	// ListDueReminders returns upcoming scheduled/confirmed appointments
	// entering their owner's reminder window, with Client preloaded.
	ListDueReminders(
		ctx context.Context,
		now time.Time,
	) ([]models.Appointment, error)

	// -------- Attendance --------

	// RecordAttendance upserts the attendance row for the appointment and,
	// when cancel is set, also cancels the appointment. Both writes happen
	// in a single transaction.
	RecordAttendance(
		ctx context.Context,
		ap *models.Appointment,
		status string,
		cancel bool,
		now time.Time,
		reason string,
	) (*models.Attendance, error)
}
