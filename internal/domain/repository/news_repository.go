package repository

import (
	"context"

	"github.com/shuttle-booking/internal/domain"
)

type NewsRepository interface {
	// Get возвращает nil, nil если новость ещё не сохранялась
	Get(ctx context.Context) (*domain.News, error)
	Save(ctx context.Context, text string) (*domain.News, error)
}
