package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/mettly-app/mettly-api/internal/config"
	dbpkg "github.com/mettly-app/mettly-api/internal/db"
	"github.com/mettly-app/mettly-api/internal/email"
	"github.com/mettly-app/mettly-api/internal/payments"
	"github.com/mettly-app/mettly-api/internal/routes"
	"github.com/mettly-app/mettly-api/internal/storage"
	"github.com/mettly-app/mettly-api/internal/telegram"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	var sender telegram.Sender
	if cfg.TelegramBotToken != "" {
		gw, err := telegram.NewGateway(cfg.TelegramBotToken)
		if err != nil {
			log.Fatalf("failed to init telegram gateway: %v", err)
		}
		sender = gw
	} else {
		log.Println("TELEGRAM_BOT_TOKEN not set, telegram delivery disabled")
	}

	mailer := email.New(
		rdb,
		cfg.EmailFrom,
		cfg.EmailFromName,
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPass,
	)
	go mailer.Start(context.Background())

	var avatars *storage.AvatarStore
	if cfg.S3AccessKey != "" {
		avatars = storage.NewAvatarStore(
			cfg.S3Endpoint,
			cfg.S3Region,
			cfg.S3Bucket,
			cfg.S3AccessKey,
			cfg.S3SecretKey,
		)
	}

	payLinks, err := payments.NewLinkProvider(cfg.MPAccessToken)
	if err != nil {
		log.Fatalf("failed to init payments: %v", err)
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, cfg, routes.Deps{
		DB:       db,
		Redis:    rdb,
		Sender:   sender,
		Mailer:   mailer,
		Avatars:  avatars,
		PayLinks: payLinks,
	})

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
