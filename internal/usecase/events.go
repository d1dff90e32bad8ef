package usecase

import (
	"context"
	"time"

	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/domain/repository"
	"github.com/shuttle-booking/internal/pkg/utils"
	"go.uber.org/zap"
)

// eventPublisher публикует события брони в Redis Stream.
// Ошибка публикации не отменяет уже сохранённую запись
type eventPublisher struct {
	streams repository.StreamRepository
	loc     *time.Location
	logger  *zap.Logger
}

func (p eventPublisher) publish(ctx context.Context, typ domain.BookingEventType, b *domain.Booking) {
	if p.streams == nil || b == nil {
		return
	}

	event := domain.BookingEvent{
		Type:       typ,
		BookingID:  b.ID,
		UserID:     b.UserID,
		RouteID:    b.RouteID,
		Day:        utils.FormatDay(b.Timestamp, p.loc),
		Status:     b.Status,
		OccurredAt: time.Now().UTC(),
	}

	if err := p.streams.PublishToStream(ctx, domain.StreamBookingEvents, event); err != nil {
		p.logger.Warn("Failed to publish booking event",
			zap.String("type", string(typ)),
			zap.String("booking_id", b.ID),
			zap.Error(err))
	}
}
