package attendance

import (
	"context"

	"github.com/mettly-app/mettly-api/internal/audit"
	domain "github.com/mettly-app/mettly-api/internal/domain/appointment"
	"github.com/mettly-app/mettly-api/internal/httperr"
	"github.com/mettly-app/mettly-api/internal/metrics"
	"github.com/mettly-app/mettly-api/internal/models"
	"github.com/mettly-app/mettly-api/internal/timezone"
)

const cancelledByClientReason = "Cancelled by client via Telegram"

type RecordReplyInput struct {
	TelegramID    int64
	AppointmentID uint
	Response      string // "yes" | "no"
}

// RecordReply maps a client's yes/no reminder reply to an attendance row.
// A "no" additionally cancels the appointment; both writes share one
// transaction. Replies are idempotent per appointment: the latest one wins.
type RecordReply struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRecordReply(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *RecordReply {
	return &RecordReply{
		repo:  repo,
		audit: audit,
	}
}

func (uc *RecordReply) Execute(
	ctx context.Context,
	in RecordReplyInput,
) (*models.Attendance, error) {

	client, err := uc.repo.FindClientByTelegramID(ctx, in.TelegramID)
	if err != nil {
		return nil, httperr.ErrBusiness("client_not_found")
	}

	ap, err := uc.repo.GetAppointmentForClient(ctx, in.AppointmentID, client.ID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	status := models.AttendanceDeclined
	cancel := true
	if in.Response == "yes" {
		status = models.AttendanceConfirmed
		cancel = false
	}

	now := timezone.Now()

	att, err := uc.repo.RecordAttendance(ctx, ap, status, cancel, now, cancelledByClientReason)
	if err != nil {
		return nil, err
	}

	metrics.RecordAttendanceReply(in.Response)

	uc.audit.Dispatch(audit.Event{
		UserID:   ap.UserID,
		Action:   "attendance_" + status,
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return att, nil
}
