package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mettly-app/mettly-api/internal/audit"
	"github.com/mettly-app/mettly-api/internal/colors"
	"github.com/mettly-app/mettly-api/internal/config"
	"github.com/mettly-app/mettly-api/internal/email"
	"github.com/mettly-app/mettly-api/internal/handlers"
	infraRepo "github.com/mettly-app/mettly-api/internal/infra/repository"
	"github.com/mettly-app/mettly-api/internal/metrics"
	"github.com/mettly-app/mettly-api/internal/middleware"
	"github.com/mettly-app/mettly-api/internal/payments"
	"github.com/mettly-app/mettly-api/internal/storage"
	"github.com/mettly-app/mettly-api/internal/telegram"
	ucAppointment "github.com/mettly-app/mettly-api/internal/usecase/appointment"
	ucAttendance "github.com/mettly-app/mettly-api/internal/usecase/attendance"
	ucReminder "github.com/mettly-app/mettly-api/internal/usecase/reminder"
)

type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Sender   telegram.Sender
	Mailer   *email.Service
	Avatars  *storage.AvatarStore
	PayLinks *payments.LinkProvider
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps) {

	r.Use(middleware.CORSMiddleware())
	r.Use(metrics.Middleware())

	// ------------------------------
	// Infra singletons
	// ------------------------------
	appointmentRepo := infraRepo.NewAppointmentGormRepository(deps.DB)

	auditLogger := audit.New(deps.DB)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	colorCache := colors.NewCache()

	// ------------------------------
	// Use cases
	// ------------------------------
	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, auditDispatcher)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentRepo, auditDispatcher)
	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(appointmentRepo, auditDispatcher)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(appointmentRepo, auditDispatcher)
	reconcileUC := ucAppointment.NewReconcileStatuses(appointmentRepo, auditDispatcher)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)
	getAppointmentUC := ucAppointment.NewGetAppointment(appointmentRepo)

	dispatchUC := ucReminder.NewDispatch(
		appointmentRepo,
		deps.Sender,
		deps.Mailer,
		deps.Redis,
		cfg.ReminderDedupTTL,
	)

	recordReplyUC := ucAttendance.NewRecordReply(appointmentRepo, auditDispatcher)

	// ------------------------------
	// Handlers
	// ------------------------------
	authHandler := handlers.NewAuthHandler(deps.DB, cfg)
	meHandler := handlers.NewMeHandler(deps.DB, deps.Avatars)
	clientHandler := handlers.NewClientHandler(deps.DB, colorCache)
	settingsHandler := handlers.NewSettingsHandler(deps.DB)
	paymentHandler := handlers.NewPaymentHandler(deps.DB, deps.PayLinks)
	auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		cancelAppointmentUC,
		confirmAppointmentUC,
		completeAppointmentUC,
		reconcileUC,
		listAppointmentsUC,
		getAppointmentUC,
	)

	attendanceHandler := handlers.NewAttendanceHandler(recordReplyUC)
	reminderHandler := handlers.NewReminderHandler(dispatchUC)
	telegramHandler := handlers.NewTelegramHandler(deps.DB, deps.Sender)

	// ------------------------------
	// Observability
	// ------------------------------
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ------------------------------
	// API
	// ------------------------------
	api := r.Group("/api")
	{
		// ------------------------------
		// Auth (rate limited)
		// ------------------------------
		auth := api.Group("/auth")
		auth.Use(middleware.RateLimitMiddleware(5, 10))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// ------------------------------
		// Service-to-service (shared secret)
		// ------------------------------
		service := api.Group("/")
		service.Use(middleware.SharedSecretMiddleware(cfg))
		{
			service.POST("/reminders/send", reminderHandler.Send)
			service.POST("/attendance", attendanceHandler.Record)
			service.POST("/telegram/link", telegramHandler.Link)
		}

		api.POST("/telegram/send-message", telegramHandler.SendMessage)

		// ------------------------------
		// Session-authenticated
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)
			secured.DELETE("/me", meHandler.DeleteMe)
			secured.POST("/me/avatar", meHandler.UploadAvatar)

			secured.GET("/clients", clientHandler.List)
			secured.POST("/clients", clientHandler.Create)
			secured.GET("/clients/:id", clientHandler.Get)
			secured.PATCH("/clients/:id", clientHandler.Update)
			secured.DELETE("/clients/:id", clientHandler.Delete)
			secured.POST("/clients/:id/telegram-link", clientHandler.TelegramLink)

			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.POST("/appointments/update-status", appointmentHandler.UpdateStatus)

			secured.POST("/appointments/:id/payments", paymentHandler.Create)
			secured.POST("/appointments/:id/payments/link", paymentHandler.CreateLink)
			secured.GET("/payments", paymentHandler.List)
			secured.GET("/payments/summary", paymentHandler.Summary)

			secured.GET("/settings/notifications", settingsHandler.GetNotifications)
			secured.PUT("/settings/notifications", settingsHandler.UpdateNotifications)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
