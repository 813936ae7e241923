package reminder

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/mettly-app/mettly-api/internal/domain/appointment"
	"github.com/mettly-app/mettly-api/internal/email"
	"github.com/mettly-app/mettly-api/internal/metrics"
	"github.com/mettly-app/mettly-api/internal/telegram"
	"github.com/mettly-app/mettly-api/internal/timezone"
)

type Result struct {
	Sent      int       `json:"sent"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	Timestamp time.Time `json:"timestamp"`
}

// Dispatch scans for appointments entering their reminder window and fans
// out one reminder per appointment over Telegram, falling back to email.
// A Redis SETNX marker per appointment keeps overlapping trigger runs from
// double-sending; the cron cadence itself is owned by an external scheduler.
type Dispatch struct {
	repo     domain.Repository
	sender   telegram.Sender
	mailer   *email.Service
	redis    *redis.Client
	dedupTTL time.Duration
}

func NewDispatch(
	repo domain.Repository,
	sender telegram.Sender,
	mailer *email.Service,
	rdb *redis.Client,
	dedupTTL time.Duration,
) *Dispatch {
	return &Dispatch{
		repo:     repo,
		sender:   sender,
		mailer:   mailer,
		redis:    rdb,
		dedupTTL: dedupTTL,
	}
}

func dedupKey(appointmentID uint) string {
	return fmt.Sprintf("reminder:%d", appointmentID)
}

func (uc *Dispatch) Execute(ctx context.Context) (*Result, error) {
	now := timezone.Now()

	due, err := uc.repo.ListDueReminders(ctx, now)
	if err != nil {
		return nil, err
	}

	res := &Result{Timestamp: now}

	for _, ap := range due {
		client := ap.Client

		// either gateway may be disabled at startup; a nil one is no channel
		wantsTelegram := uc.sender != nil && client.TelegramID != 0 && client.TelegramReminders
		wantsEmail := uc.mailer != nil && client.Email != "" && client.EmailReminders
		if !wantsTelegram && !wantsEmail {
			res.Skipped++
			continue
		}

		acquired, err := uc.redis.SetNX(ctx, dedupKey(ap.ID), now.Unix(), uc.dedupTTL).Result()
		if err != nil {
			log.Printf("reminder dedup check failed for appointment %d: %v", ap.ID, err)
			res.Failed++
			continue
		}
		if !acquired {
			res.Skipped++
			continue
		}

		if wantsTelegram {
			if err := uc.sender.SendReminder(client.TelegramID, ap.Date, ap.ID); err != nil {
				log.Printf("telegram reminder failed for appointment %d: %v", ap.ID, err)
				metrics.RecordReminder("telegram", "failed")
				// release the marker so the next tick can try again
				uc.redis.Del(ctx, dedupKey(ap.ID))
				res.Failed++
				continue
			}
			metrics.RecordReminder("telegram", "sent")
			res.Sent++
			continue
		}

		if err := uc.mailer.SendReminder(ctx, client.Email, client.Name, ap.Date); err != nil {
			log.Printf("email reminder failed for appointment %d: %v", ap.ID, err)
			metrics.RecordReminder("email", "failed")
			uc.redis.Del(ctx, dedupKey(ap.ID))
			res.Failed++
			continue
		}
		metrics.RecordReminder("email", "queued")
		res.Sent++
	}

	return res, nil
}
