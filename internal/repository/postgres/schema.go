package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// schema применяется при старте; все выражения идемпотентны
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		employee_code TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL,
		department    TEXT NOT NULL DEFAULT '',
		phone         TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL CHECK (role IN ('rider', 'admin', 'driver')),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id           CHAR(9) PRIMARY KEY,
		user_id      UUID NOT NULL REFERENCES users (id),
		user_name    TEXT NOT NULL,
		route_id     TEXT NOT NULL,
		route_name   TEXT NOT NULL,
		station_id   TEXT NOT NULL,
		station_name TEXT NOT NULL,
		travel_at    TIMESTAMPTZ NOT NULL,
		status       TEXT NOT NULL CHECK (status IN ('WAITING', 'BOOKED', 'COMPLETED', 'CANCELLED', 'NOSHOW')),
		check_in_at  TIMESTAMPTZ,
		shift        TEXT NOT NULL DEFAULT '',
		direction    TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user_travel ON bookings (user_id, travel_at)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_route_travel ON bookings (route_id, travel_at)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_travel ON bookings (travel_at)`,
	`CREATE TABLE IF NOT EXISTS route_details (
		route_id      TEXT PRIMARY KEY,
		license_plate TEXT,
		driver_phone  TEXT,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS news (
		id         SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		body       TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate создаёт таблицы и индексы, если их нет
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	db.logger.Info("Database schema is up to date", zap.Int("statements", len(schema)))
	return nil
}
