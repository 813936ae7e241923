package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mettly-app/mettly-api/internal/audit"
	domain "github.com/mettly-app/mettly-api/internal/domain/appointment"
	"github.com/mettly-app/mettly-api/internal/httperr"
	"github.com/mettly-app/mettly-api/internal/models"
	ucAttendance "github.com/mettly-app/mettly-api/internal/usecase/attendance"
)

type attendanceRepo struct {
	domain.Repository

	client      *models.Client
	appointment *models.Appointment
}

func (f *attendanceRepo) FindClientByTelegramID(ctx context.Context, telegramID int64) (*models.Client, error) {
	if f.client == nil || f.client.TelegramID != telegramID {
		return nil, httperr.ErrBusiness("not_found")
	}
	return f.client, nil
}

func (f *attendanceRepo) GetAppointmentForClient(ctx context.Context, appointmentID, clientID uint) (*models.Appointment, error) {
	if f.appointment == nil || f.appointment.ID != appointmentID {
		return nil, httperr.ErrBusiness("not_found")
	}
	return f.appointment, nil
}

func (f *attendanceRepo) RecordAttendance(
	ctx context.Context,
	ap *models.Appointment,
	status string,
	cancel bool,
	now time.Time,
	reason string,
) (*models.Attendance, error) {
	return &models.Attendance{AppointmentID: ap.ID, Status: status}, nil
}

func attendanceRouter(repo domain.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	uc := ucAttendance.NewRecordReply(repo, audit.NewDispatcher(audit.New(nil)))
	h := NewAttendanceHandler(uc)

	r := gin.New()
	r.POST("/api/attendance", h.Record)
	return r
}

func postAttendance(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/attendance", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAttendanceRecordsYesReply(t *testing.T) {
	r := attendanceRouter(&attendanceRepo{
		client:      &models.Client{ID: 2, UserID: 1, TelegramID: 555},
		appointment: &models.Appointment{ID: 10, UserID: 1, ClientID: 2, Status: "scheduled"},
	})

	w := postAttendance(r, `{"telegramId":555,"appointmentId":10,"response":"yes"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "attendance_recorded")
	assert.Contains(t, w.Body.String(), `"status":"confirmed"`)
}

func TestAttendanceRejectsUnknownResponseValue(t *testing.T) {
	r := attendanceRouter(&attendanceRepo{})

	w := postAttendance(r, `{"telegramId":555,"appointmentId":10,"response":"maybe"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_request")
}

func TestAttendanceRejectsMissingFields(t *testing.T) {
	r := attendanceRouter(&attendanceRepo{})

	w := postAttendance(r, `{"response":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttendanceUnknownClientIs404(t *testing.T) {
	r := attendanceRouter(&attendanceRepo{})

	w := postAttendance(r, `{"telegramId":999,"appointmentId":10,"response":"no"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "client_not_found")
}
