package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/petminded/petcare-api/internal/config"
	billingHandler "github.com/petminded/petcare-api/internal/handler/billing"
	bookingHandler "github.com/petminded/petcare-api/internal/handler/booking"
	healthHandler "github.com/petminded/petcare-api/internal/handler/health"
	"github.com/petminded/petcare-api/internal/middleware"
	"github.com/petminded/petcare-api/internal/repository/postgres"
	"github.com/petminded/petcare-api/internal/router"
	billingService "github.com/petminded/petcare-api/internal/service/billing"
	bookingService "github.com/petminded/petcare-api/internal/service/booking"
	catalogService "github.com/petminded/petcare-api/internal/service/catalog"
	paymentService "github.com/petminded/petcare-api/internal/service/payment"
	petService "github.com/petminded/petcare-api/internal/service/pet"
	"github.com/petminded/petcare-api/pkg/auth"
	"github.com/petminded/petcare-api/pkg/logger"
	"github.com/petminded/petcare-api/pkg/messaging/redis"
	"github.com/petminded/petcare-api/pkg/metrics"
	"github.com/petminded/petcare-api/pkg/validator"
	"github.com/petminded/petcare-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	store := postgres.NewStore(db)

	bookingRepo := postgres.NewBookingRepository(store)
	billingRepo := postgres.NewBillingRepository(store)
	paymentRepo := postgres.NewPaymentRepository(store)
	petRepo := postgres.NewPetRepository(store)
	catalogRepo := postgres.NewOfferedServiceRepository(store)
	outboxRepo := postgres.NewOutboxRepository(store)

	m := metrics.NewMetrics("petcare")

	petSvc := petService.NewService(petRepo)
	catalogSvc := catalogService.NewService(catalogRepo)
	billingSvc := billingService.NewService(billingRepo)
	paymentSvc := paymentService.NewService(paymentRepo)
	bookingSvc := bookingService.NewService(
		bookingRepo,
		outboxRepo,
		store,
		petSvc,
		catalogSvc,
		billingSvc,
		paymentSvc,
		m,
	)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authMiddleware := middleware.NewAuthMiddleware(tokens)

	v := validator.New()
	bookingH := bookingHandler.NewHandler(bookingSvc, v)
	billingH := billingHandler.NewHandler(billingSvc)
	healthH := healthHandler.NewHandler(db)

	r := router.NewRouter(authMiddleware, healthH, bookingH, billingH, router.Config{
		RateLimit:     rate.Limit(cfg.RateLimit.RPS),
		RateBurst:     cfg.RateLimit.Burst,
		CORSConfig:    middleware.DefaultCORSConfig(),
		MetricsPrefix: "petcare_http",
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	appLogger := logger.NewLogger(nil)

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, appLogger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, store, broker, worker.OutboxProcessorConfig{
		PollInterval: cfg.Outbox.PollInterval,
		BatchSize:    cfg.Outbox.BatchSize,
	}, appLogger, m)

	processorCtx, stopProcessor := context.WithCancel(context.Background())
	defer stopProcessor()
	go outboxProcessor.Start(processorCtx)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	stopProcessor()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
