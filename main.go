package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	api "fulfillmentpro-push/cmd/api"
	"fulfillmentpro-push/internal/notification"
	pushdomain "fulfillmentpro-push/internal/push/domain"
	pushRepo "fulfillmentpro-push/internal/push/repository"
	pushScheduler "fulfillmentpro-push/internal/push/scheduler"
	pushUsecase "fulfillmentpro-push/internal/push/usecase"
	"fulfillmentpro-push/pkg/config"
	"fulfillmentpro-push/pkg/database"
	"fulfillmentpro-push/pkg/fcm"
	"fulfillmentpro-push/pkg/logger"
	"fulfillmentpro-push/pkg/mailer"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logr, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logr)
	stop()

	if err != nil {
		logr.Error("server exited", zap.Error(err))
	} else {
		logr.Info("server stopped")
	}
	_ = logr.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run wires the backend and blocks until ctx is cancelled or the server fails.
func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	// Initialize database
	db, err := database.NewConnection(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&pushdomain.PushToken{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	tokenRepo := pushRepo.NewPushTokenRepository(db)

	// FCM and mail are optional; the usecase skips a nil leg
	var sender pushUsecase.Sender
	if cfg.FirebaseCredentials != "" {
		fcmClient, err := fcm.NewClient(ctx, cfg.FirebaseCredentials, logr)
		if err != nil {
			logr.Warn("failed to initialize FCM client, push notifications disabled", zap.Error(err))
		} else {
			sender = fcmClient
		}
	} else {
		logr.Info("no Firebase credentials configured, FCM disabled")
	}

	var mail pushUsecase.Mailer
	if cfg.MailConfigured() {
		mail = mailer.New(cfg.SMTPServer, cfg.SMTPPort, cfg.EmailSender, cfg.EmailPassword, cfg.EmailReceiver)
	}

	pushUc := pushUsecase.NewPushUsecase(tokenRepo, sender, mail, logr)

	pruner := pushScheduler.NewTokenPruner(pushUc, 0, 0, logr)
	pruner.Start()
	defer pruner.Stop()

	// Pub/Sub consumer is only started when a project is configured
	if cfg.GoogleProjectID != "" {
		topicName := cfg.GooglePubSubTopic
		if parts := strings.Split(topicName, "/"); len(parts) > 1 {
			topicName = parts[len(parts)-1]
		}

		notifService, err := notification.NewService(ctx, cfg.GoogleProjectID, topicName, cfg.GoogleCredentials, pushUc, logr)
		if err != nil {
			logr.Error("failed to initialize notification service", zap.Error(err))
		} else {
			subCtx, cancelSub := context.WithCancel(ctx)
			received := make(chan struct{})
			go func() {
				defer close(received)
				if err := notifService.Start(subCtx); err != nil {
					logr.Error("notification service stopped", zap.Error(err))
				}
			}()
			defer func() {
				cancelSub()
				<-received
				notifService.Close()
			}()
		}
	} else {
		logr.Warn("GOOGLE_PROJECT_ID not configured, notification service disabled")
	}

	handler := api.NewHandler(pushUc, cfg, logr)

	logr.Info("server starting", zap.String("port", cfg.Port))
	return handler.Run(ctx, ":"+cfg.Port)
}
