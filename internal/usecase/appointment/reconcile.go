package appointment

import (
	"context"
	"time"

	"github.com/mettly-app/mettly-api/internal/audit"
	domain "github.com/mettly-app/mettly-api/internal/domain/appointment"
	"github.com/mettly-app/mettly-api/internal/metrics"
	"github.com/mettly-app/mettly-api/internal/timezone"
)

type ReconcileResult struct {
	Updated   int64     `json:"updated"`
	Timestamp time.Time `json:"timestamp"`
}

// ReconcileStatuses marks past scheduled/confirmed appointments of one
// trainer as completed in a single bulk update. Re-running with no newly
// eligible rows affects zero rows.
type ReconcileStatuses struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewReconcileStatuses(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ReconcileStatuses {
	return &ReconcileStatuses{
		repo:  repo,
		audit: audit,
	}
}

func (uc *ReconcileStatuses) Execute(
	ctx context.Context,
	userID uint,
) (*ReconcileResult, error) {

	now := timezone.Now()

	updated, err := uc.repo.CompletePastAppointments(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	metrics.RecordReconciled(updated)

	if updated > 0 {
		uc.audit.Dispatch(audit.Event{
			UserID: userID,
			Action: "appointments_reconciled",
			Entity: "appointment",
			Metadata: map[string]any{
				"updated": updated,
			},
		})
	}

	return &ReconcileResult{
		Updated:   updated,
		Timestamp: now,
	}, nil
}
