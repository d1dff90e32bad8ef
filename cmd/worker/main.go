package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shuttle-booking/internal/config"
	"github.com/shuttle-booking/internal/pkg/logger"
	"github.com/shuttle-booking/internal/repository/cache"
	"github.com/shuttle-booking/internal/repository/postgres"
	redisRepo "github.com/shuttle-booking/internal/repository/redis"
	"github.com/shuttle-booking/internal/usecase"
	"github.com/shuttle-booking/internal/worker"
	"github.com/shuttle-booking/internal/worker/booking"
	"github.com/shuttle-booking/internal/worker/checkin"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Shuttle Booking Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("batch_size", cfg.Worker.BatchSize),
		zap.Bool("scan_feed", cfg.Worker.ScanFeedEnabled),
		zap.Duration("scan_debounce", cfg.Worker.ScanDebounce))

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid booking time zone", zap.Error(err))
	}

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis: кеш и отдельный клиент для блокирующего чтения стримов
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	streamsClient, err := cache.NewRedisStreams(&cfg.Redis, cfg.Worker.StreamReadTimeout, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis Streams", zap.Error(err))
	}
	defer func() {
		if err := streamsClient.Close(); err != nil {
			log.Error("Failed to close Redis Streams connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories
	bookingRepo := postgres.NewBookingRepository(db, log)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(streamsClient, log)

	// 6. Initialize workers
	workerManager := worker.NewWorkerManager(worker.DefaultShutdownTimeout, log)

	workerManager.Register(booking.NewEventsWorker(
		streamRepo,
		cacheRepo,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.BatchSize,
		cfg.Worker.StreamReadTimeout,
		nil,
		log,
	))

	if cfg.Worker.ScanFeedEnabled {
		// результаты посадки публикуются в общий стрим, поэтому события брони уходят через обычный клиент
		checkInUC := usecase.NewCheckInUseCase(
			bookingRepo,
			cacheRepo,
			redisRepo.NewStreamRepository(redisClient.Client(), log),
			nil,
			loc,
			log,
		)
		workerManager.Register(checkin.NewScanWorker(
			streamRepo,
			checkInUC,
			cfg.Worker.ConsumerGroup,
			cfg.Worker.ScanDebounce,
			nil,
			log,
		))
	}

	// 7. Start workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
