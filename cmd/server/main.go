package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/hairable-backend/config"
	"github.com/ikkim/hairable-backend/internal/app/controller"
	"github.com/ikkim/hairable-backend/internal/app/repository"
	"github.com/ikkim/hairable-backend/internal/app/service"
	"github.com/ikkim/hairable-backend/internal/db"
	"github.com/ikkim/hairable-backend/internal/middleware"
	"github.com/ikkim/hairable-backend/internal/queue"
	"github.com/ikkim/hairable-backend/internal/router"
	"github.com/ikkim/hairable-backend/internal/scheduler"
	"github.com/ikkim/hairable-backend/internal/storage"
	"github.com/ikkim/hairable-backend/pkg/logger"
	"github.com/ikkim/hairable-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting HAIRABLE Backend Server", map[string]interface{}{
		"environment":       cfg.Server.Environment,
		"port":              cfg.Server.Port,
		"log_level":         logLevel,
		"business_timezone": cfg.Policy.BusinessTimezone,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Booking lock: redis when configured so every instance shares it
	var locker service.Locker = service.NewMemoryLocker()
	if cfg.Redis.Enabled() {
		redisLocker, err := redis.DialLocker(context.Background(), cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to initialize redis", err)
		}
		defer redisLocker.Close()
		locker = redisLocker
	} else {
		logger.Warn("Redis not configured, using in-process booking locks", nil)
	}

	var publisher service.EventPublisher = service.NewNoopPublisher()
	if cfg.RabbitMQ.Enabled() {
		amqpPublisher := queue.NewAMQPPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}

	var archiver service.ReportArchiver
	if cfg.S3.Enabled() {
		archiver = storage.NewS3Storage(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL)
	}

	database := db.GetDB()

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	storeRepo := repository.NewStoreRepository(database)
	serviceRepo := repository.NewServiceRepository(database)
	inventoryRepo := repository.NewInventoryRepository(database)
	customerRepo := repository.NewCustomerRepository(database)
	reservationRepo := repository.NewReservationRepository(database)
	calendarRepo := repository.NewCalendarRepository(database)
	salesRepo := repository.NewSalesRepository(database)

	// Initialize services
	authz := service.NewStoreAuthorizer(database)
	ledgerService := service.NewLedgerService(database, reservationRepo, salesRepo, authz, cfg.Policy)
	reservationService := service.NewReservationService(
		database,
		reservationRepo,
		customerRepo,
		calendarRepo,
		ledgerService,
		authz,
		locker,
		publisher,
		cfg.Policy,
	)
	storeService := service.NewStoreService(storeRepo, userRepo, calendarRepo, authz)
	catalogService := service.NewCatalogService(serviceRepo, storeRepo, inventoryRepo, authz)
	calendarService := service.NewCalendarService(database, calendarRepo, storeRepo, authz, locker)
	customerService := service.NewCustomerService(customerRepo, authz)
	reportService := service.NewReportService(salesRepo, authz, archiver)

	// Initialize controllers
	storeController := controller.NewStoreController(storeService)
	catalogController := controller.NewCatalogController(catalogService)
	reservationController := controller.NewReservationController(reservationService, ledgerService, cfg.Policy.Location())
	calendarController := controller.NewCalendarController(calendarService)
	salesController := controller.NewSalesController(reportService)
	customerController := controller.NewCustomerController(customerService)
	adminController := controller.NewAdminController(ledgerService)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	r := router.NewRouter(
		storeController,
		catalogController,
		reservationController,
		calendarController,
		salesController,
		customerController,
		adminController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	var reconciler *scheduler.LedgerReconcileScheduler
	if cfg.Policy.ReconcileEnabled {
		reconciler = scheduler.NewLedgerReconcileScheduler(ledgerService, cfg.Policy.ReconcileSchedule, cfg.Policy.Location())
		if err := reconciler.Start(); err != nil {
			logger.Fatal("Failed to start ledger reconcile scheduler", err)
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	if reconciler != nil {
		reconciler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
