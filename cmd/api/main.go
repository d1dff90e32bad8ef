package main

// @title Shuttle Booking API
// @version 1.0.0
// @description Бронирование мест в служебных автобусах по сменам и направлениям.
// @description
// @description Основные возможности:
// @description - Бронирование на одну или несколько дат с проверкой вместимости
// @description - Посадка по коду брони (ручной ввод или сканер)
// @description - Списки пассажиров, сводки за день, выгрузка CSV и PDF
// @description - Объявления для пассажиров

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/shuttle-booking/docs"
	"github.com/shuttle-booking/internal/config"
	httpDelivery "github.com/shuttle-booking/internal/delivery/http"
	"github.com/shuttle-booking/internal/delivery/http/handler"
	"github.com/shuttle-booking/internal/pkg/jwt"
	"github.com/shuttle-booking/internal/pkg/logger"
	"github.com/shuttle-booking/internal/pkg/metrics"
	"github.com/shuttle-booking/internal/repository/cache"
	"github.com/shuttle-booking/internal/repository/catalog"
	"github.com/shuttle-booking/internal/repository/postgres"
	redisRepo "github.com/shuttle-booking/internal/repository/redis"
	"github.com/shuttle-booking/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Shuttle Booking API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("time_zone", cfg.Booking.TimeZone),
	)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid booking time zone", zap.Error(err))
	}

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	log.Info("PostgreSQL connected")

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	log.Info("Redis connected")

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			log.Fatal("Failed to apply schema", zap.Error(err))
		}
		log.Info("Schema applied")
	}

	log.Info("All connections healthy")

	// 6. Initialize Repositories
	catalogRepo, err := catalog.Load(cfg.Catalog.File, log)
	if err != nil {
		log.Fatal("Failed to load route catalog", zap.Error(err))
	}

	bookingRepo := postgres.NewBookingRepository(db, log)
	userRepo := postgres.NewUserRepository(db, log)
	detailsRepo := postgres.NewRouteDetailsRepository(db, log)
	newsRepo := postgres.NewNewsRepository(db, log)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	log.Info("Repositories initialized",
		zap.Int("routes", len(catalogRepo.Routes())),
		zap.Int("stations", len(catalogRepo.Stations())),
	)

	// 7. Initialize Use Cases
	m := metrics.New()
	tokens := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)

	catalogUC := usecase.NewCatalogUseCase(catalogRepo, detailsRepo, m, log)

	bookingUC := usecase.NewBookingUseCase(
		bookingRepo,
		catalogRepo,
		cacheRepo,
		streamRepo,
		m,
		usecase.BookingOptions{
			Location:        loc,
			DuplicateWindow: cfg.Booking.DuplicateWindow,
			MaxBatchDates:   cfg.Booking.MaxBatchDates,
			IDRetries:       cfg.Booking.IDRetries,
			SeatCountTTL:    cfg.Cache.SeatCountTTL,
		},
		log,
	)

	checkInUC := usecase.NewCheckInUseCase(bookingRepo, cacheRepo, streamRepo, m, loc, log)
	reportUC := usecase.NewReportUseCase(bookingRepo, catalogRepo, cacheRepo, loc, cfg.Cache.ReportTTL, log)

	authUC := usecase.NewAuthUseCase(
		userRepo,
		cacheRepo,
		tokens,
		usecase.ReservedCodes{
			Admin:  cfg.Auth.AdminCode,
			Driver: cfg.Auth.DriverCode,
		},
		log,
	)

	newsUC := usecase.NewNewsUseCase(newsRepo, cacheRepo, cfg.Cache.NewsTTL, log)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP Handlers
	handlers := httpDelivery.Handlers{
		Auth:    handler.NewAuthHandler(authUC, log),
		Route:   handler.NewRouteHandler(catalogUC, bookingUC, log),
		Booking: handler.NewBookingHandler(bookingUC, checkInUC, log),
		CheckIn: handler.NewCheckInHandler(checkInUC, log),
		Report:  handler.NewReportHandler(reportUC, log),
		News:    handler.NewNewsHandler(newsUC, log),
		Health: handler.NewHealthHandler(map[string]handler.HealthChecker{
			"postgres": db,
			"redis":    redisClient,
		}, log),
	}

	log.Info("HTTP handlers initialized")

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, authUC, m, handlers, log)

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := db.Close(); err != nil {
		log.Error("Failed to close PostgreSQL", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
