package checkin

import (
	"context"
	"time"

	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/domain/repository"
	"github.com/shuttle-booking/internal/pkg/metrics"
	"github.com/shuttle-booking/internal/scanner"
	"github.com/shuttle-booking/internal/worker"
	"go.uber.org/zap"
)

const restartBackoff = 2 * time.Second

// CheckInService - посадка по коду в рамках маршрута на сегодня
type CheckInService interface {
	TodayScope(routeID string) domain.CheckInScope
	CheckIn(ctx context.Context, code string, scope domain.CheckInScope) (*domain.CheckInResult, error)
}

// ScanWorker применяет коды, которые киоски публикуют в stream:checkin:scans.
// Коды идут через сессию сканирования, поэтому повтор кадра в окне debounce отбрасывается.
// Результат каждой посадки уходит в stream:checkin:results
type ScanWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	checkIn    CheckInService
	debounce   time.Duration
}

func NewScanWorker(
	streamRepo repository.StreamRepository,
	checkIn CheckInService,
	consumerGroup string,
	debounce time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ScanWorker {
	if debounce <= 0 {
		debounce = scanner.DefaultDebounce
	}
	return &ScanWorker{
		BaseWorker: worker.NewBaseWorker("checkin-scans", consumerGroup, m, logger),
		streamRepo: streamRepo,
		checkIn:    checkIn,
		debounce:   debounce,
	}
}

// Start держит сессию сканирования открытой; после ошибки сессия перезапускается с чистым состоянием
func (w *ScanWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting check-in scan worker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Duration("debounce", w.debounce))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-w.StopChan():
			cancel()
		case <-runCtx.Done():
		}
	}()

	for {
		err := w.runSession(runCtx)

		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			logger.Error("Scan session ended with error, restarting", zap.Error(err))
		}
		select {
		case <-time.After(restartBackoff):
		case <-runCtx.Done():
		}
	}
}

func (w *ScanWorker) runSession(ctx context.Context) error {
	source := scanner.NewStreamSource(
		w.streamRepo,
		domain.StreamCheckInScans,
		w.ConsumerGroup(),
		w.ConsumerName(),
		w.Logger(),
	)

	session := scanner.NewSession(source, w.Logger(),
		scanner.WithDebounce(w.debounce),
		scanner.WithSuppressed(func(code scanner.Code) {
			w.Logger().Debug("Repeated scan suppressed", zap.String("code", code.Value))
			w.Observe("skipped")
			w.publish(ctx, code, domain.CheckInResult{
				Outcome: domain.OutcomeSuppressed,
				Code:    code.Value,
				Message: "Repeated scan ignored",
			})
			w.ack(ctx, source, code)
		}),
	)

	return session.Run(ctx, func(code scanner.Code) {
		w.handle(ctx, source, code)
	})
}

func (w *ScanWorker) handle(ctx context.Context, source *scanner.StreamSource, code scanner.Code) {
	defer w.ack(ctx, source, code)

	result, err := w.checkIn.CheckIn(ctx, code.Value, w.checkIn.TodayScope(code.RouteID))
	if err != nil {
		w.Logger().Error("Check-in failed",
			zap.String("code", code.Value),
			zap.String("route_id", code.RouteID),
			zap.Error(err))
		w.Observe("failed")
		// киоск должен показать ошибку и попросить повторить скан
		w.publish(ctx, code, domain.CheckInResult{
			Outcome: domain.OutcomeFailed,
			Code:    code.Value,
			Message: "Check-in unavailable, please scan again",
		})
		return
	}

	w.publish(ctx, code, *result)

	w.Logger().Info("Kiosk scan processed",
		zap.String("code", code.Value),
		zap.String("route_id", code.RouteID),
		zap.String("outcome", string(result.Outcome)))
	w.Observe("ok")
}

// publish отправляет ответ киоску в stream:checkin:results
func (w *ScanWorker) publish(ctx context.Context, code scanner.Code, result domain.CheckInResult) {
	event := domain.ScanResultEvent{
		DeviceID: code.DeviceID,
		Result:   result,
	}
	if err := w.streamRepo.PublishToStream(ctx, domain.StreamCheckInResults, event); err != nil {
		w.Logger().Warn("Failed to publish scan result",
			zap.String("code", code.Value),
			zap.String("outcome", string(result.Outcome)),
			zap.Error(err))
	}
}

func (w *ScanWorker) ack(ctx context.Context, source *scanner.StreamSource, code scanner.Code) {
	if code.Ref == "" {
		return
	}
	if err := source.Ack(ctx, code.Ref); err != nil {
		w.Logger().Warn("Failed to ack scan", zap.String("message_id", code.Ref), zap.Error(err))
	}
}
