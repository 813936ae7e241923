package email

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queued payloads carry timestamps, so exact-arg matching is skipped
func matchAnyArgs(expected, actual []interface{}) error {
	return nil
}

func TestSendQueuesJob(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	svc := New(rdb, "noreply@mettly.app", "Mettly", "smtp", "587", "", "")

	mock.CustomMatch(matchAnyArgs).
		ExpectLPush(queueKey, "").SetVal(1)

	err := svc.Send(context.Background(), "ana@example.com", "Ana", "Hi", "Body")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSendReminderTemplate(t *testing.T) {
	job := Job{}
	rdb, mock := redismock.NewClientMock()
	svc := New(rdb, "noreply@mettly.app", "Mettly", "smtp", "587", "", "")

	mock.CustomMatch(func(expected, actual []interface{}) error {
		// capture the queued payload for inspection
		if len(actual) >= 3 {
			switch raw := actual[2].(type) {
			case string:
				json.Unmarshal([]byte(raw), &job)
			case []byte:
				json.Unmarshal(raw, &job)
			}
		}
		return nil
	}).ExpectLPush(queueKey, "").SetVal(1)

	when := time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)
	err := svc.SendReminder(context.Background(), "ana@example.com", "Ana", when)
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", job.To)
	assert.Equal(t, "Session reminder", job.Subject)
	assert.Contains(t, job.Body, "Ana")
	assert.Contains(t, job.Body, "Mar 4, 2024")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLength(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	svc := New(rdb, "noreply@mettly.app", "Mettly", "smtp", "587", "", "")

	mock.ExpectLLen(queueKey).SetVal(7)

	assert.Equal(t, int64(7), svc.QueueLength(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
