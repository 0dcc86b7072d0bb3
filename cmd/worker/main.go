package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/petminded/petcare-api/internal/email"
	"github.com/petminded/petcare-api/internal/model"
	"github.com/petminded/petcare-api/internal/repository/postgres"
	"github.com/petminded/petcare-api/pkg/logger"
	"github.com/petminded/petcare-api/pkg/messaging"
	"github.com/petminded/petcare-api/pkg/messaging/redis"
	"github.com/petminded/petcare-api/pkg/metrics"
	"github.com/petminded/petcare-api/pkg/worker"

	internalConfig "github.com/petminded/petcare-api/internal/config"
)

// Config is read from the environment so the worker can run without the API
// server's config file.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	PollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	BatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom     string `envconfig:"SMTP_FROM"`
	NotifyTo     string `envconfig:"NOTIFY_TO"`

	HealthPort int `envconfig:"HEALTH_PORT" default:"8081"`
}

func main() {
	var cfg Config
	if err := envconfig.Process("petcare", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(internalConfig.DatabaseConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{URL: cfg.RedisURL}, appLogger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	store := postgres.NewStore(db)
	outboxRepo := postgres.NewOutboxRepository(store)

	processor := worker.NewOutboxProcessor(outboxRepo, store, broker, worker.OutboxProcessorConfig{
		PollInterval: cfg.PollInterval,
		BatchSize:    cfg.BatchSize,
	}, appLogger, metrics.NewMetrics("petcare_worker"))

	setupHealthCheck(cfg.HealthPort, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		appLogger.Info("shutting down worker")
		cancel()
	}()

	if cfg.SMTPHost != "" && cfg.NotifyTo != "" {
		mailer := email.NewSMTPService(email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		go notifyBookingUpdates(ctx, broker, mailer, cfg.NotifyTo, appLogger)
	}

	processor.Start(ctx)
}

// notifyBookingUpdates forwards published booking events to the notification
// inbox. Delivery is best-effort; a failed send is logged and skipped.
func notifyBookingUpdates(ctx context.Context, broker messaging.Broker, mailer email.Service, to string, l *logger.Logger) {
	msgs, err := broker.Subscribe(ctx, worker.Channel)
	if err != nil {
		l.Error(err, "failed to subscribe to booking events")
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var outboxEvent model.OutboxEvent
			if err := json.Unmarshal(msg, &outboxEvent); err != nil {
				l.Error(err, "failed to decode outbox event")
				continue
			}
			var event model.BookingEvent
			if err := json.Unmarshal(outboxEvent.Payload, &event); err != nil {
				l.Error(err, "failed to decode booking event payload")
				continue
			}
			if err := mailer.SendBookingUpdate(ctx, to, &event); err != nil {
				l.Error(err, "failed to send booking notification")
			}
		}
	}
}

func setupHealthCheck(port int, l *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			l.Error(err, "health check server failed")
			os.Exit(1)
		}
	}()
}
