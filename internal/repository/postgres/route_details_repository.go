package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/domain/repository"
	"go.uber.org/zap"
)

type routeDetailsRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewRouteDetailsRepository создает новый экземпляр route details repository
func NewRouteDetailsRepository(db *DB, logger *zap.Logger) repository.RouteDetailsRepository {
	return &routeDetailsRepository{
		db:     db,
		logger: logger,
	}
}

func (r *routeDetailsRepository) List(ctx context.Context) ([]domain.RouteDetails, error) {
	details := make([]domain.RouteDetails, 0)
	err := r.db.SelectContext(ctx, &details, `
		SELECT route_id, license_plate, driver_phone, updated_at
		FROM route_details
		ORDER BY route_id`)
	if err != nil {
		return nil, fmt.Errorf("list route details: %w", err)
	}
	return details, nil
}

// Upsert сохраняет все переданные маршруты одной транзакцией
func (r *routeDetailsRepository) Upsert(ctx context.Context, details []domain.RouteDetails) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin route details tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	for _, d := range details {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO route_details (route_id, license_plate, driver_phone, updated_at)
			VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4)
			ON CONFLICT (route_id) DO UPDATE SET
				license_plate = EXCLUDED.license_plate,
				driver_phone = EXCLUDED.driver_phone,
				updated_at = EXCLUDED.updated_at`,
			d.RouteID, deref(d.LicensePlate), deref(d.DriverPhone), now)
		if err != nil {
			return fmt.Errorf("upsert route %s details: %w", d.RouteID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit route details: %w", err)
	}

	r.logger.Info("Route details saved", zap.Int("routes", len(details)))
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
