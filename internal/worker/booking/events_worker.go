package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/domain/repository"
	"github.com/shuttle-booking/internal/pkg/metrics"
	"github.com/shuttle-booking/internal/worker"
	"go.uber.org/zap"
)

const (
	defaultBatchSize = 20
	errorBackoff     = time.Second
)

// EventsWorker сбрасывает кеш мест и отчётов по событиям из stream:booking:events
type EventsWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	cache      repository.CacheRepository
	batchSize  int64
	block      time.Duration
}

func NewEventsWorker(
	streamRepo repository.StreamRepository,
	cache repository.CacheRepository,
	consumerGroup string,
	batchSize int,
	block time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *EventsWorker {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &EventsWorker{
		BaseWorker: worker.NewBaseWorker("booking-events", consumerGroup, m, logger),
		streamRepo: streamRepo,
		cache:      cache,
		batchSize:  int64(batchSize),
		block:      block,
	}
}

// Start запускает воркер
func (w *EventsWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting booking events worker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamBookingEvents, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := w.processBatch(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("Failed to process batch", zap.Error(err))
			select {
			case <-time.After(errorBackoff):
			case <-w.StopChan():
			case <-ctx.Done():
			}
		}
	}
}

// processBatch читает до batchSize событий (ждёт не дольше block) и подтверждает их одной командой.
// Возвращает количество прочитанных сообщений
func (w *EventsWorker) processBatch(ctx context.Context) (int, error) {
	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamBookingEvents,
		w.ConsumerGroup(),
		w.ConsumerName(),
		w.batchSize,
		w.block,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(messages))
	// один сброс на маршрут и день, даже если событий по ним несколько
	done := make(map[string]struct{}, len(messages))

	for _, msg := range messages {
		ids = append(ids, msg.ID)

		var event domain.BookingEvent
		if err := json.Unmarshal([]byte(msg.Data), &event); err != nil || event.RouteID == "" || event.Day == "" {
			w.Logger().Warn("Skipping malformed booking event",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			w.Observe("skipped")
			continue
		}

		key := event.RouteID + "|" + event.Day
		if _, ok := done[key]; ok {
			w.Observe("ok")
			continue
		}

		// при ошибке Redis сообщение всё равно подтверждается: устаревшие записи живут не дольше TTL
		if err := w.cache.InvalidateDay(ctx, event.RouteID, event.Day); err != nil {
			w.Logger().Warn("Failed to invalidate cache",
				zap.String("route_id", event.RouteID),
				zap.String("day", event.Day),
				zap.Error(err))
			w.Observe("failed")
			continue
		}
		done[key] = struct{}{}
		w.Observe("ok")
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamBookingEvents, w.ConsumerGroup(), ids...); err != nil {
		w.Logger().Error("Failed to ack messages", zap.Error(err))
	}

	w.Logger().Debug("Booking events processed", zap.Int("count", len(messages)))
	return len(messages), nil
}
