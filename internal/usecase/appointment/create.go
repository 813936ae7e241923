package appointment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mettly-app/mettly-api/internal/audit"
	domain "github.com/mettly-app/mettly-api/internal/domain/appointment"
	"github.com/mettly-app/mettly-api/internal/httperr"
	"github.com/mettly-app/mettly-api/internal/metrics"
	"github.com/mettly-app/mettly-api/internal/models"
	"github.com/mettly-app/mettly-api/internal/timezone"
)

type CreateAppointmentInput struct {
	UserID   uint
	ClientID uint

	Date     string // "2006-01-02" in the trainer's timezone
	Time     string // "15:04"
	Duration int    // minutes; 0 falls back to the trainer's slot duration
	Notes    string
}

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	user, err := uc.repo.GetUserByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	client, err := uc.repo.GetClientForUser(ctx, in.ClientID, in.UserID)
	if err != nil {
		return nil, httperr.ErrBusiness("client_not_found")
	}

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(user.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	now := timezone.NowIn(user.Timezone)
	if start.Before(now) {
		return nil, httperr.ErrBusiness("date_in_past")
	}

	duration := in.Duration
	if duration <= 0 {
		duration = user.SlotDuration
	}
	if duration <= 0 {
		duration = 60
	}

	end := start.Add(time.Duration(duration) * time.Minute)

	if isHoliday(user, start) {
		return nil, httperr.ErrBusiness("holiday")
	}

	if !withinWorkingHours(user, start, end) {
		return nil, httperr.ErrBusiness("outside_working_hours")
	}

	ap := &models.Appointment{
		UserID:   in.UserID,
		ClientID: client.ID,
		Date:     start,
		Duration: duration,
		Status:   string(domain.InitialStatus()),
		Notes:    in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	metrics.RecordAppointment("created")

	uc.audit.Dispatch(audit.Event{
		UserID:   in.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

func withinWorkingHours(user *models.User, start, end time.Time) bool {
	if user.WorkStart == "" || user.WorkEnd == "" {
		return true
	}

	loc := start.Location()

	parseHM := func(hm string) time.Time {
		t, err := time.Parse("15:04", hm)
		if err != nil {
			return time.Time{}
		}
		return time.Date(
			start.Year(), start.Month(), start.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		)
	}

	workStart := parseHM(user.WorkStart)
	workEnd := parseHM(user.WorkEnd)
	if workStart.IsZero() || workEnd.IsZero() {
		return true
	}

	return !start.Before(workStart) && !end.After(workEnd)
}

func isHoliday(user *models.User, start time.Time) bool {
	if user.Holidays == "" {
		return false
	}

	var days []string
	if err := json.Unmarshal([]byte(user.Holidays), &days); err != nil {
		return false
	}

	day := start.Format("2006-01-02")
	for _, h := range days {
		if h == day {
			return true
		}
	}
	return false
}
