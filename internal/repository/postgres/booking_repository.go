package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/domain/repository"
	apperrors "github.com/shuttle-booking/internal/pkg/errors"
	"go.uber.org/zap"
)

const (
	bookingColumns = `id, user_id, user_name, route_id, route_name, station_id, station_name,
		travel_at, status, check_in_at, shift, direction, created_at`

	activeStatuses = `('WAITING', 'BOOKED')`

	bookingsPkey = "bookings_pkey"
)

type bookingRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewBookingRepository создает новый экземпляр booking repository
func NewBookingRepository(db *DB, logger *zap.Logger) repository.BookingRepository {
	return &bookingRepository{
		db:     db,
		logger: logger,
	}
}

// Create сохраняет бронь в транзакции под advisory-блокировками пользователя
// и пары (маршрут, день): дубликат и переполнение проверяются атомарно со вставкой
func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking, limits domain.ReservationLimits) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Порядок блокировок всегда один: пользователь, затем маршрут-день
	userLock := "booking:user:" + b.UserID.String()
	routeLock := fmt.Sprintf("booking:route:%s:%s", b.RouteID, limits.DayStart.Format("2006-01-02"))
	for _, key := range []string{userLock, routeLock} {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
			return fmt.Errorf("acquire lock %s: %w", key, err)
		}
	}

	if limits.DuplicateWindow > 0 {
		var dups int
		err := tx.GetContext(ctx, &dups, `
			SELECT COUNT(*) FROM bookings
			WHERE user_id = $1 AND status <> 'CANCELLED'
			  AND travel_at > $2 AND travel_at < $3`,
			b.UserID, b.Timestamp.Add(-limits.DuplicateWindow), b.Timestamp.Add(limits.DuplicateWindow))
		if err != nil {
			return fmt.Errorf("check duplicate: %w", err)
		}
		if dups > 0 {
			return apperrors.ErrDuplicateBooking
		}
	}

	if limits.MaxSeats > 0 {
		var active int
		err := tx.GetContext(ctx, &active, `
			SELECT COUNT(*) FROM bookings
			WHERE route_id = $1 AND status IN `+activeStatuses+`
			  AND travel_at >= $2 AND travel_at < $3`,
			b.RouteID, limits.DayStart, limits.DayEnd)
		if err != nil {
			return fmt.Errorf("count seats: %w", err)
		}
		if active >= limits.MaxSeats {
			return apperrors.ErrRouteFull
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		b.ID, b.UserID, b.UserName, b.RouteID, b.RouteName, b.StationID, b.StationName,
		b.Timestamp, b.Status, b.CheckInTime, b.Shift, b.Direction, b.CreatedAt,
	)
	if err != nil {
		if uniqueViolationOn(err, bookingsPkey) {
			return apperrors.ErrBookingIDTaken
		}
		return fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit booking: %w", err)
	}

	r.logger.Debug("Booking stored",
		zap.String("id", b.ID),
		zap.String("route_id", b.RouteID),
		zap.Time("travel_at", b.Timestamp))
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	return &b, nil
}

func (r *bookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	return r.selectBookings(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY travel_at DESC, id`)
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return r.selectBookings(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE user_id = $1
		ORDER BY travel_at DESC, id`, userID)
}

func (r *bookingRepository) ListByRange(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	return r.selectBookings(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE travel_at >= $1 AND travel_at < $2
		ORDER BY travel_at, route_id, station_id, id`, from, to)
}

func (r *bookingRepository) ListByRouteRange(ctx context.Context, routeID string, from, to time.Time) ([]domain.Booking, error) {
	return r.selectBookings(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE route_id = $1 AND travel_at >= $2 AND travel_at < $3
		ORDER BY station_id, user_name, id`, routeID, from, to)
}

// UpdateStatus - условный UPDATE: повторный вызов не меняет строку и не перезаписывает время посадки
func (r *bookingRepository) UpdateStatus(
	ctx context.Context,
	id string,
	from []domain.BookingStatus,
	to domain.BookingStatus,
	checkInAt *time.Time,
) (*domain.Booking, error) {
	if len(from) == 0 {
		return nil, fmt.Errorf("update booking %s: no source statuses", id)
	}

	args := []interface{}{to, checkInAt, id}
	for _, s := range from {
		args = append(args, s)
	}

	query := `
		UPDATE bookings
		SET status = $1, check_in_at = COALESCE(check_in_at, $2)
		WHERE id = $3 AND status IN (` + placeholders(4, len(from)) + `)
		RETURNING ` + bookingColumns

	var b domain.Booking
	err := r.db.GetContext(ctx, &b, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update booking %s status: %w", id, err)
	}

	r.logger.Debug("Booking status updated",
		zap.String("id", id),
		zap.String("status", string(to)))
	return &b, nil
}

func (r *bookingRepository) CountActiveByRoute(ctx context.Context, routeID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM bookings
		WHERE route_id = $1 AND status IN `+activeStatuses, routeID)
	if err != nil {
		return 0, fmt.Errorf("count route %s seats: %w", routeID, err)
	}
	return n, nil
}

func (r *bookingRepository) CountActiveByRouteInRange(ctx context.Context, routeID string, from, to time.Time) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM bookings
		WHERE route_id = $1 AND status IN `+activeStatuses+`
		  AND travel_at >= $2 AND travel_at < $3`, routeID, from, to)
	if err != nil {
		return 0, fmt.Errorf("count route %s seats in range: %w", routeID, err)
	}
	return n, nil
}

func (r *bookingRepository) CountActiveInRange(ctx context.Context, from, to time.Time) (map[string]int, error) {
	var rows []struct {
		RouteID string `db:"route_id"`
		Count   int    `db:"count"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT route_id, COUNT(*) AS count FROM bookings
		WHERE status IN `+activeStatuses+` AND travel_at >= $1 AND travel_at < $2
		GROUP BY route_id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("count seats in range: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.RouteID] = row.Count
	}
	return counts, nil
}

func (r *bookingRepository) FindNextActiveByUser(ctx context.Context, userID uuid.UUID, after time.Time) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.GetContext(ctx, &b, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE user_id = $1 AND status IN `+activeStatuses+` AND travel_at >= $2
		ORDER BY travel_at
		LIMIT 1`, userID, after)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active booking: %w", err)
	}
	return &b, nil
}

func (r *bookingRepository) selectBookings(ctx context.Context, query string, args ...interface{}) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		r.logger.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}
