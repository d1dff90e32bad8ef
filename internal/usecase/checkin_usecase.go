package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/domain/repository"
	"github.com/shuttle-booking/internal/pkg/errors"
	"github.com/shuttle-booking/internal/pkg/metrics"
	"github.com/shuttle-booking/internal/pkg/utils"
	"go.uber.org/zap"
)

// CheckInUseCase - жизненный цикл брони: отмена, посадка по QR, неявка
type CheckInUseCase struct {
	bookings repository.BookingRepository
	cache    repository.CacheRepository
	events   eventPublisher
	metrics  *metrics.Metrics
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

func NewCheckInUseCase(
	bookings repository.BookingRepository,
	cache repository.CacheRepository,
	streams repository.StreamRepository,
	m *metrics.Metrics,
	loc *time.Location,
	logger *zap.Logger,
) *CheckInUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &CheckInUseCase{
		bookings: bookings,
		cache:    cache,
		events:   eventPublisher{streams: streams, loc: loc, logger: logger},
		metrics:  m,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}
}

// Scope строит область поиска для сканирования. Водитель сканирует один маршрут
// за день (по умолчанию сегодня), администратор без маршрута - все брони
func (uc *CheckInUseCase) Scope(s *domain.Session, routeID, date string) (domain.CheckInScope, error) {
	if s == nil {
		return domain.CheckInScope{}, errors.ErrUnauthorized
	}
	if s.Role == domain.RoleAdmin && routeID == "" && date == "" {
		return domain.CheckInScope{All: true}, nil
	}
	if routeID == "" {
		return domain.CheckInScope{}, errors.ErrValidation.WithDetails(map[string]interface{}{"route_id": "required"})
	}

	day := uc.now()
	if date != "" {
		d, err := utils.ParseDate(date, uc.loc)
		if err != nil {
			return domain.CheckInScope{}, errors.ErrValidation.WithDetails(map[string]interface{}{"date": date})
		}
		day = d
	}
	return domain.CheckInScope{RouteID: routeID, Day: day}, nil
}

// TodayScope - область водителя для маршрута на текущий день
func (uc *CheckInUseCase) TodayScope(routeID string) domain.CheckInScope {
	return domain.CheckInScope{RouteID: routeID, Day: uc.now()}
}

// CheckIn обрабатывает отсканированный код. "Не найден" и "уже закрыта" - информационные
// результаты, а не ошибки. Повторный скан не перезаписывает время посадки
func (uc *CheckInUseCase) CheckIn(ctx context.Context, code string, scope domain.CheckInScope) (*domain.CheckInResult, error) {
	code = utils.NormalizeBookingID(code)
	if !utils.IsBookingID(code) {
		return uc.notFound(code), nil
	}

	// 1. Поиск брони
	b, err := uc.bookings.GetByID(ctx, code)
	if err != nil {
		if errors.Is(err, errors.ErrBookingNotFound) {
			return uc.notFound(code), nil
		}
		uc.metrics.CheckIn("error")
		uc.logger.Error("Failed to load booking for check-in", zap.String("code", code), zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}

	// 2. Бронь другого маршрута или дня для водителя не существует
	if !scope.Contains(*b, uc.loc) {
		return uc.notFound(code), nil
	}

	// 3. Уже закрыта
	if b.Status.IsTerminal() {
		return uc.alreadyTerminal(code, b), nil
	}

	// 4. Условный UPDATE: только из активного статуса
	now := uc.now().UTC()
	updated, err := uc.bookings.UpdateStatus(ctx, b.ID, domain.SourcesFor(domain.StatusCompleted), domain.StatusCompleted, &now)
	if err != nil {
		uc.metrics.CheckIn("error")
		uc.logger.Error("Failed to check in", zap.String("code", code), zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}
	if updated == nil {
		// статус изменился между чтением и UPDATE
		current, err := uc.bookings.GetByID(ctx, b.ID)
		if err != nil {
			return nil, errors.ErrPersistence.Wrap(err)
		}
		return uc.alreadyTerminal(code, current), nil
	}

	uc.metrics.CheckIn(string(domain.OutcomeCheckedIn))
	uc.afterChange(ctx, updated)

	uc.logger.Info("Passenger checked in",
		zap.String("booking_id", updated.ID),
		zap.String("route_id", updated.RouteID))

	return &domain.CheckInResult{
		Outcome: domain.OutcomeCheckedIn,
		Code:    code,
		Booking: updated,
		Status:  updated.Status,
		Message: fmt.Sprintf("%s checked in", updated.UserName),
	}, nil
}

// Cancel - отмена брони её владельцем; закрытая бронь -> ErrAlreadyTerminal
func (uc *CheckInUseCase) Cancel(ctx context.Context, s *domain.Session, id string) (*domain.Booking, error) {
	if s == nil {
		return nil, errors.ErrUnauthorized
	}

	b, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != s.UserID {
		return nil, errors.ErrForbidden.WithMessage("Only the owner can cancel a booking")
	}
	if b.Status.IsTerminal() {
		return nil, transitionError(b, domain.StatusCancelled)
	}

	return uc.transition(ctx, b, domain.StatusCancelled)
}

// MarkNoShow - неявка, только из WAITING
func (uc *CheckInUseCase) MarkNoShow(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status.IsTerminal() {
		return nil, transitionError(b, domain.StatusNoShow)
	}
	return uc.transition(ctx, b, domain.StatusNoShow)
}

// UpdateBookingStatus применяет машину состояний. Повтор текущего статуса - no-op,
// время посадки ставится только при первом переходе в COMPLETED
func (uc *CheckInUseCase) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	status = domain.BookingStatus(strings.ToUpper(string(status)))
	if !status.Valid() {
		return nil, errors.ErrValidation.WithDetails(map[string]interface{}{"status": string(status)})
	}

	b, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.transition(ctx, b, status)
}

func (uc *CheckInUseCase) load(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := uc.bookings.GetByID(ctx, utils.NormalizeBookingID(id))
	if err != nil {
		if errors.Is(err, errors.ErrBookingNotFound) {
			return nil, err
		}
		uc.logger.Error("Failed to load booking", zap.String("id", id), zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}
	return b, nil
}

func (uc *CheckInUseCase) transition(ctx context.Context, b *domain.Booking, to domain.BookingStatus) (*domain.Booking, error) {
	if b.Status == to {
		return b, nil
	}
	if !b.Status.CanTransitionTo(to) {
		return nil, transitionError(b, to)
	}

	var checkInAt *time.Time
	if to == domain.StatusCompleted {
		now := uc.now().UTC()
		checkInAt = &now
	}

	updated, err := uc.bookings.UpdateStatus(ctx, b.ID, domain.SourcesFor(to), to, checkInAt)
	if err != nil {
		uc.logger.Error("Failed to update booking status",
			zap.String("id", b.ID),
			zap.String("to", string(to)),
			zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}

	if updated == nil {
		// параллельное изменение: перечитываем и отвечаем по факту
		current, err := uc.load(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		if current.Status == to {
			return current, nil
		}
		return nil, transitionError(current, to)
	}

	uc.afterChange(ctx, updated)

	uc.logger.Info("Booking status changed",
		zap.String("id", updated.ID),
		zap.String("from", string(b.Status)),
		zap.String("to", string(to)))
	return updated, nil
}

func (uc *CheckInUseCase) afterChange(ctx context.Context, b *domain.Booking) {
	if uc.cache != nil {
		day := utils.FormatDay(b.Timestamp, uc.loc)
		if err := uc.cache.InvalidateDay(ctx, b.RouteID, day); err != nil {
			uc.logger.Warn("Failed to invalidate seat cache", zap.String("route_id", b.RouteID), zap.Error(err))
		}
	}
	uc.events.publish(ctx, domain.EventStatusChanged, b)
}

func (uc *CheckInUseCase) notFound(code string) *domain.CheckInResult {
	uc.metrics.CheckIn(string(domain.OutcomeNotFound))
	return &domain.CheckInResult{
		Outcome: domain.OutcomeNotFound,
		Code:    code,
		Message: errors.ErrPassengerNotFound.Message,
	}
}

func (uc *CheckInUseCase) alreadyTerminal(code string, b *domain.Booking) *domain.CheckInResult {
	uc.metrics.CheckIn(string(domain.OutcomeAlreadyTerminal))
	return &domain.CheckInResult{
		Outcome: domain.OutcomeAlreadyTerminal,
		Code:    code,
		Booking: b,
		Status:  b.Status,
		Message: fmt.Sprintf("Booking already %s", b.Status),
	}
}

func transitionError(b *domain.Booking, to domain.BookingStatus) error {
	details := map[string]interface{}{
		"status": string(b.Status),
		"target": string(to),
	}
	if b.Status.IsTerminal() {
		return errors.ErrAlreadyTerminal.WithDetails(details)
	}
	return errors.ErrInvalidTransition.WithDetails(details)
}
