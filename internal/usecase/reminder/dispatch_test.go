package reminder

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/mettly-app/mettly-api/internal/domain/appointment"
	"github.com/mettly-app/mettly-api/internal/email"
	"github.com/mettly-app/mettly-api/internal/models"
	"github.com/mettly-app/mettly-api/internal/telegram"
)

type fakeRepo struct {
	domain.Repository

	due []models.Appointment
	err error
}

func (f *fakeRepo) ListDueReminders(ctx context.Context, now time.Time) ([]models.Appointment, error) {
	return f.due, f.err
}

type fakeSender struct {
	sent []uint
	err  error
}

func (f *fakeSender) SendReminder(telegramID int64, when time.Time, appointmentID uint) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, appointmentID)
	return nil
}

func (f *fakeSender) SendMessage(telegramID int64, message string, keyboard [][]telegram.Button) error {
	return nil
}

// SETNX values and queued payloads embed wall-clock times; match the
// command name and key only.
func matchCmdAndKey(expected, actual []interface{}) error {
	for i := 0; i < 2 && i < len(expected) && i < len(actual); i++ {
		if fmt.Sprint(expected[i]) != fmt.Sprint(actual[i]) {
			return fmt.Errorf("arg %d: want %v, got %v", i, expected[i], actual[i])
		}
	}
	return nil
}

func dueAppointment(id uint, client models.Client) models.Appointment {
	return models.Appointment{
		ID:       id,
		UserID:   1,
		ClientID: client.ID,
		Client:   client,
		Date:     time.Now().Add(30 * time.Minute),
		Duration: 60,
		Status:   "scheduled",
	}
}

func TestSkipsClientsWithNoChannel(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	repo := &fakeRepo{due: []models.Appointment{
		dueAppointment(10, models.Client{ID: 2, TelegramID: 0, Email: ""}),
	}}
	sender := &fakeSender{}

	uc := NewDispatch(repo, sender, nil, rdb, time.Hour)

	res, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Skipped)
	assert.Zero(t, res.Sent)
	assert.Empty(t, sender.sent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTelegramPreferredWhenClientHasBoth(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	client := models.Client{
		ID: 2, TelegramID: 555, TelegramReminders: true,
		Email: "a@b.com", EmailReminders: true,
	}
	repo := &fakeRepo{due: []models.Appointment{dueAppointment(10, client)}}
	sender := &fakeSender{}

	mock.CustomMatch(matchCmdAndKey).
		ExpectSetNX("reminder:10", 0, time.Hour).SetVal(true)

	uc := NewDispatch(repo, sender, nil, rdb, time.Hour)

	res, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, []uint{10}, sender.sent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDedupMarkerSkipsSecondRun(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	client := models.Client{ID: 2, TelegramID: 555, TelegramReminders: true}
	repo := &fakeRepo{due: []models.Appointment{dueAppointment(10, client)}}
	sender := &fakeSender{}

	mock.CustomMatch(matchCmdAndKey).
		ExpectSetNX("reminder:10", 0, time.Hour).SetVal(false)

	uc := NewDispatch(repo, sender, nil, rdb, time.Hour)

	res, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Skipped)
	assert.Empty(t, sender.sent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFailedSendReleasesDedupMarker(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	client := models.Client{ID: 2, TelegramID: 555, TelegramReminders: true}
	repo := &fakeRepo{due: []models.Appointment{dueAppointment(10, client)}}
	sender := &fakeSender{err: errors.New("chat not found")}

	mock.CustomMatch(matchCmdAndKey).
		ExpectSetNX("reminder:10", 0, time.Hour).SetVal(true)
	mock.ExpectDel("reminder:10").SetVal(1)

	uc := NewDispatch(repo, sender, nil, rdb, time.Hour)

	res, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Failed)
	assert.Zero(t, res.Sent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNilSenderFallsBackToEmail(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	client := models.Client{
		ID: 2, Name: "Ana",
		TelegramID: 555, TelegramReminders: true,
		Email: "ana@example.com", EmailReminders: true,
	}
	repo := &fakeRepo{due: []models.Appointment{dueAppointment(10, client)}}
	mailer := email.New(rdb, "noreply@mettly.app", "Mettly", "smtp", "587", "", "")

	mock.CustomMatch(matchCmdAndKey).
		ExpectSetNX("reminder:10", 0, time.Hour).SetVal(true)
	mock.CustomMatch(matchCmdAndKey).
		ExpectLPush("emails", "").SetVal(1)

	// telegram delivery disabled at startup
	uc := NewDispatch(repo, nil, mailer, rdb, time.Hour)

	var res *Result
	var err error
	require.NotPanics(t, func() {
		res, err = uc.Execute(context.Background())
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Sent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNilGatewaysSkipWithoutPanic(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	repo := &fakeRepo{due: []models.Appointment{
		dueAppointment(10, models.Client{ID: 2, TelegramID: 555, TelegramReminders: true}),
		dueAppointment(11, models.Client{ID: 3, Email: "b@c.com", EmailReminders: true}),
	}}

	uc := NewDispatch(repo, nil, nil, rdb, time.Hour)

	var res *Result
	var err error
	require.NotPanics(t, func() {
		res, err = uc.Execute(context.Background())
	})
	require.NoError(t, err)

	// no channels available, the whole batch is skipped, no dedup markers set
	assert.Equal(t, 2, res.Skipped)
	assert.Zero(t, res.Sent)
	assert.Zero(t, res.Failed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailFallbackQueuesJob(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	client := models.Client{
		ID: 2, Name: "Ana",
		Email: "ana@example.com", EmailReminders: true,
	}
	repo := &fakeRepo{due: []models.Appointment{dueAppointment(10, client)}}
	sender := &fakeSender{}
	mailer := email.New(rdb, "noreply@mettly.app", "Mettly", "smtp", "587", "", "")

	mock.CustomMatch(matchCmdAndKey).
		ExpectSetNX("reminder:10", 0, time.Hour).SetVal(true)
	mock.CustomMatch(matchCmdAndKey).
		ExpectLPush("emails", "").SetVal(1)

	uc := NewDispatch(repo, sender, mailer, rdb, time.Hour)

	res, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Sent)
	assert.Empty(t, sender.sent)
	require.NoError(t, mock.ExpectationsWereMet())
}
