package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/domain/repository"
	"go.uber.org/zap"
)

type newsRepository struct {
	db     *DB
	logger *zap.Logger
}

func NewNewsRepository(db *DB, logger *zap.Logger) repository.NewsRepository {
	return &newsRepository{
		db:     db,
		logger: logger,
	}
}

func (r *newsRepository) Get(ctx context.Context) (*domain.News, error) {
	var n domain.News
	err := r.db.GetContext(ctx, &n, `SELECT body, updated_at FROM news WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get news: %w", err)
	}
	return &n, nil
}

func (r *newsRepository) Save(ctx context.Context, text string) (*domain.News, error) {
	var n domain.News
	err := r.db.GetContext(ctx, &n, `
		INSERT INTO news (id, body, updated_at) VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
		RETURNING body, updated_at`, text, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("save news: %w", err)
	}
	return &n, nil
}
