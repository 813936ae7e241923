package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mettly_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mettly_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	AppointmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mettly_appointments_total",
			Help: "Appointment lifecycle events",
		},
		[]string{"event"},
	)

	ReconciledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mettly_appointments_reconciled_total",
			Help: "Appointments bulk-completed by the status reconciler",
		},
	)

	RemindersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mettly_reminders_total",
			Help: "Reminder dispatch outcomes",
		},
		[]string{"channel", "status"},
	)

	AttendanceRepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mettly_attendance_replies_total",
			Help: "Attendance webhook replies",
		},
		[]string{"response"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mettly_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mettly_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordAppointment(event string) {
	AppointmentsTotal.WithLabelValues(event).Inc()
}

func RecordReconciled(n int64) {
	ReconciledTotal.Add(float64(n))
}

func RecordReminder(channel, status string) {
	RemindersTotal.WithLabelValues(channel, status).Inc()
}

func RecordAttendanceReply(response string) {
	AttendanceRepliesTotal.WithLabelValues(response).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

// Middleware records a counter and latency histogram per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		status := strconv.Itoa(c.Writer.Status())
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}
