package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/crm-service/internal/api/http"
	"github.com/spec-kit/crm-service/internal/api/http/handlers"
	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/observability"
	"github.com/spec-kit/crm-service/internal/persistence"
	"github.com/spec-kit/crm-service/internal/ratelimit"
	"github.com/spec-kit/crm-service/internal/repository"
	"github.com/spec-kit/crm-service/internal/service"
	"github.com/spec-kit/crm-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	employeeRepo, enquiryRepo := newRepositories(pg)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	var kafka *events.KafkaPublisher
	if cfg.Kafka.Enabled() {
		kafka, err = events.NewKafkaPublisher(cfg.Kafka, logger)
		if err != nil {
			logger.Fatal("failed to start kafka producer", zap.Error(err))
		}
		defer kafka.Close() //nolint:errcheck
	}
	worker.StartNotificationWorker(dispatcher, notificationService, kafka)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		EmployeeRepo: employeeRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	enquiryService := service.NewEnquiryService(service.EnquiryDependencies{
		EnquiryRepo: enquiryRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())
	submitLimiter := ratelimit.NewLimiter(redis.Client, "enquiry_submit",
		cfg.Enquiry.SubmitRateLimit, cfg.Enquiry.SubmitRateWindow(), logger)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:           logger,
		Metrics:          metrics,
		RequestTimeout:   cfg.App.RequestTimeout(),
		CORSAllowOrigins: cfg.App.CORSAllowOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(handlers.HealthDependencies{
			ServiceName: cfg.App.Name,
			Version:     cfg.App.Version,
			Environment: cfg.App.Env,
			Postgres:    pg,
			Redis:       redis,
			Metrics:     metrics,
		}),
		Auth:           handlers.NewAuthHandler(authService),
		Enquiries:      handlers.NewEnquiriesHandler(enquiryService),
		AuthMiddleware: authMiddleware,
		SubmitLimiter:  submitLimiter,
		ListAllRoles:   auth.RolesFromStrings(cfg.Enquiry.ListAllRoles),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// newRepositories picks Postgres when a pool is configured and the in-memory stores otherwise.
func newRepositories(pg *persistence.Postgres) (repository.EmployeeRepository, repository.EnquiryRepository) {
	if pg.Enabled() {
		pool := pg.PoolHandle()
		return repository.NewEmployeeRepository(pool), repository.NewEnquiryRepository(pool)
	}
	employees := repository.NewMemoryEmployeeRepository()
	return employees, repository.NewMemoryEnquiryRepository(employees)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
