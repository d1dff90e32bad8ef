package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shuttle-booking/internal/domain"
)

// BookingRepository - хранилище броней
type BookingRepository interface {
	// Create сохраняет бронь. Проверка дубликата и вместимости маршрута на день
	// выполняется в той же транзакции, что и вставка
	Create(ctx context.Context, booking *domain.Booking, limits domain.ReservationLimits) error

	// GetByID возвращает бронь или errors.ErrBookingNotFound
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// List возвращает все брони, новые поездки первыми
	List(ctx context.Context) ([]domain.Booking, error)

	// ListByUser возвращает брони сотрудника
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)

	// ListByRange возвращает брони с временем поездки в [from, to)
	ListByRange(ctx context.Context, from, to time.Time) ([]domain.Booking, error)

	// ListByRouteRange возвращает брони маршрута с временем поездки в [from, to)
	ListByRouteRange(ctx context.Context, routeID string, from, to time.Time) ([]domain.Booking, error)

	// UpdateStatus меняет статус, только если текущий статус входит в from.
	// Возвращает nil без ошибки, если условие не выполнено
	UpdateStatus(ctx context.Context, id string, from []domain.BookingStatus, to domain.BookingStatus, checkInAt *time.Time) (*domain.Booking, error)

	// CountActiveByRoute - активные (WAITING/BOOKED) брони маршрута за все даты
	CountActiveByRoute(ctx context.Context, routeID string) (int, error)

	// CountActiveByRouteInRange - активные брони маршрута в [from, to)
	CountActiveByRouteInRange(ctx context.Context, routeID string, from, to time.Time) (int, error)

	// CountActiveInRange - активные брони по всем маршрутам в [from, to)
	CountActiveInRange(ctx context.Context, from, to time.Time) (map[string]int, error)

	// FindNextActiveByUser - ближайшая активная бронь сотрудника начиная с after
	FindNextActiveByUser(ctx context.Context, userID uuid.UUID, after time.Time) (*domain.Booking, error)
}
