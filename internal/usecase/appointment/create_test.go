package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mettly-app/mettly-api/internal/audit"
	domain "github.com/mettly-app/mettly-api/internal/domain/appointment"
	"github.com/mettly-app/mettly-api/internal/httperr"
	"github.com/mettly-app/mettly-api/internal/models"
)

type fakeRepo struct {
	domain.Repository

	user   *models.User
	client *models.Client

	created *models.Appointment
	err     error
}

func (f *fakeRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return f.user, nil
}

func (f *fakeRepo) GetClientForUser(ctx context.Context, clientID, userID uint) (*models.Client, error) {
	if f.client == nil {
		return nil, httperr.ErrBusiness("not_found")
	}
	return f.client, nil
}

func (f *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	if f.err != nil {
		return f.err
	}
	ap.ID = 10
	f.created = ap
	return nil
}

func testUser() *models.User {
	return &models.User{
		ID:           1,
		Timezone:     "UTC",
		WorkStart:    "08:00",
		WorkEnd:      "18:00",
		SlotDuration: 45,
	}
}

func futureDate() (string, string) {
	d := time.Now().UTC().AddDate(0, 0, 7)
	// noon keeps the slot inside working hours regardless of run time
	return d.Format("2006-01-02"), "12:00"
}

func TestCreateUsesTrainerSlotDurationAsDefault(t *testing.T) {
	repo := &fakeRepo{user: testUser(), client: &models.Client{ID: 2, UserID: 1}}
	uc := NewCreateAppointment(repo, audit.NewDispatcher(audit.New(nil)))

	date, at := futureDate()
	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		UserID: 1, ClientID: 2, Date: date, Time: at,
	})
	require.NoError(t, err)

	assert.Equal(t, 45, ap.Duration)
	assert.Equal(t, string(domain.StatusScheduled), ap.Status)
	require.NotNil(t, repo.created)
}

func TestCreateRejectsPastDate(t *testing.T) {
	repo := &fakeRepo{user: testUser(), client: &models.Client{ID: 2, UserID: 1}}
	uc := NewCreateAppointment(repo, audit.NewDispatcher(audit.New(nil)))

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		UserID: 1, ClientID: 2, Date: "2020-01-01", Time: "12:00",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "date_in_past"))
}

func TestCreateRejectsBadTimestamp(t *testing.T) {
	repo := &fakeRepo{user: testUser(), client: &models.Client{ID: 2, UserID: 1}}
	uc := NewCreateAppointment(repo, audit.NewDispatcher(audit.New(nil)))

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		UserID: 1, ClientID: 2, Date: "not-a-date", Time: "12:00",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))
}

func TestCreateRejectsHoliday(t *testing.T) {
	user := testUser()
	date, at := futureDate()
	user.Holidays = `["` + date + `"]`

	repo := &fakeRepo{user: user, client: &models.Client{ID: 2, UserID: 1}}
	uc := NewCreateAppointment(repo, audit.NewDispatcher(audit.New(nil)))

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		UserID: 1, ClientID: 2, Date: date, Time: at,
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "holiday"))
}

func TestCreateRejectsOutsideWorkingHours(t *testing.T) {
	repo := &fakeRepo{user: testUser(), client: &models.Client{ID: 2, UserID: 1}}
	uc := NewCreateAppointment(repo, audit.NewDispatcher(audit.New(nil)))

	date, _ := futureDate()

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		UserID: 1, ClientID: 2, Date: date, Time: "06:00",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "outside_working_hours"))

	// a slot that starts inside but spills past the end of day is rejected too
	_, err = uc.Execute(context.Background(), CreateAppointmentInput{
		UserID: 1, ClientID: 2, Date: date, Time: "17:30",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "outside_working_hours"))
}

func TestCreateRejectsUnknownClient(t *testing.T) {
	repo := &fakeRepo{user: testUser()}
	uc := NewCreateAppointment(repo, audit.NewDispatcher(audit.New(nil)))

	date, at := futureDate()
	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		UserID: 1, ClientID: 99, Date: date, Time: at,
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "client_not_found"))
}

func TestCreatePropagatesTimeConflict(t *testing.T) {
	repo := &fakeRepo{
		user:   testUser(),
		client: &models.Client{ID: 2, UserID: 1},
		err:    httperr.ErrBusiness("time_conflict"),
	}
	uc := NewCreateAppointment(repo, audit.NewDispatcher(audit.New(nil)))

	date, at := futureDate()
	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		UserID: 1, ClientID: 2, Date: date, Time: at,
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "time_conflict"))
}
