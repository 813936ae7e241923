package appointment

import (
	"context"
	"time"

	domain "github.com/mettly-app/mettly-api/internal/domain/appointment"
	"github.com/mettly-app/mettly-api/internal/models"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	userID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {
	return uc.repo.ListAppointmentsForPeriod(ctx, userID, start, end)
}
