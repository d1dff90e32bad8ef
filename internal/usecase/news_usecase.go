package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/domain/repository"
	"github.com/shuttle-booking/internal/pkg/errors"
	"go.uber.org/zap"
)

// NewsUseCase - объявление для пассажиров. Основное хранилище PostgreSQL,
// копия в Redis используется, когда БД недоступна
type NewsUseCase struct {
	newsRepo repository.NewsRepository
	cache    repository.CacheRepository
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewNewsUseCase(
	newsRepo repository.NewsRepository,
	cache repository.CacheRepository,
	ttl time.Duration,
	logger *zap.Logger,
) *NewsUseCase {
	return &NewsUseCase{
		newsRepo: newsRepo,
		cache:    cache,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Get возвращает текущее объявление; пустое, если его нет нигде
func (uc *NewsUseCase) Get(ctx context.Context) (*domain.News, error) {
	news, err := uc.newsRepo.Get(ctx)
	if err == nil {
		if news == nil {
			return &domain.News{}, nil
		}
		return news, nil
	}

	uc.logger.Warn("News storage unavailable, reading local copy", zap.Error(err))
	cached, cerr := uc.cache.GetNews(ctx)
	if cerr != nil {
		uc.logger.Warn("Failed to read news copy", zap.Error(cerr))
	}
	if cached == nil {
		return &domain.News{}, nil
	}
	return cached, nil
}

// Save сохраняет объявление. При ошибке БД текст сохраняется только в Redis
func (uc *NewsUseCase) Save(ctx context.Context, text string) (*domain.News, error) {
	text = strings.TrimSpace(text)

	news, err := uc.newsRepo.Save(ctx, text)
	if err != nil {
		uc.logger.Warn("News storage unavailable, keeping local copy", zap.Error(err))
		news = &domain.News{Text: text, UpdatedAt: uc.now().UTC()}
		if cerr := uc.cache.SetNews(ctx, news, uc.ttl); cerr != nil {
			uc.logger.Error("Failed to store news copy", zap.Error(cerr))
			return nil, errors.ErrPersistence.Wrap(err)
		}
		return news, nil
	}

	// копия для чтения при недоступной БД
	if cerr := uc.cache.SetNews(ctx, news, uc.ttl); cerr != nil {
		uc.logger.Warn("Failed to refresh news copy", zap.Error(cerr))
	}

	uc.logger.Info("News saved", zap.Int("length", len(news.Text)))
	return news, nil
}
