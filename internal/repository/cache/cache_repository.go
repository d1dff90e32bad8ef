package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	keySeatCount    = "seats:%s:%s"
	keyAvailability = "availability:%s"
	keyDailyReport  = "report:daily:%s"
	keyRevokedToken = "auth:revoked:%s"
	keyNews         = "news:current"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := r.client.Del(ctx, keys...).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.Strings("keys", keys), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.Strings("keys", keys))
	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}

	return val > 0, nil
}

func (r *cacheRepository) GetSeatCount(ctx context.Context, routeID, day string) (int, bool, error) {
	data, err := r.Get(ctx, fmt.Sprintf(keySeatCount, routeID, day))
	if err != nil || data == nil {
		return 0, false, err
	}

	n, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, false, fmt.Errorf("decode seat count: %w", err)
	}
	return n, true, nil
}

func (r *cacheRepository) SetSeatCount(ctx context.Context, routeID, day string, count int, ttl time.Duration) error {
	return r.Set(ctx, fmt.Sprintf(keySeatCount, routeID, day), []byte(strconv.Itoa(count)), ttl)
}

func (r *cacheRepository) GetAvailability(ctx context.Context, day string) ([]domain.RouteAvailability, error) {
	var items []domain.RouteAvailability
	ok, err := r.getJSON(ctx, fmt.Sprintf(keyAvailability, day), &items)
	if err != nil || !ok {
		return nil, err
	}
	return items, nil
}

func (r *cacheRepository) SetAvailability(ctx context.Context, day string, items []domain.RouteAvailability, ttl time.Duration) error {
	return r.setJSON(ctx, fmt.Sprintf(keyAvailability, day), items, ttl)
}

// GetDailyReport получает отчёт за день из кеша
func (r *cacheRepository) GetDailyReport(ctx context.Context, day string) (*domain.DailyReport, error) {
	var report domain.DailyReport
	ok, err := r.getJSON(ctx, fmt.Sprintf(keyDailyReport, day), &report)
	if err != nil || !ok {
		return nil, err
	}
	return &report, nil
}

// SetDailyReport сохраняет отчёт за день в кеше
func (r *cacheRepository) SetDailyReport(ctx context.Context, day string, report *domain.DailyReport, ttl time.Duration) error {
	return r.setJSON(ctx, fmt.Sprintf(keyDailyReport, day), report, ttl)
}

// InvalidateDay удаляет всё, что зависит от броней маршрута на день
func (r *cacheRepository) InvalidateDay(ctx context.Context, routeID, day string) error {
	return r.Delete(ctx,
		fmt.Sprintf(keySeatCount, routeID, day),
		fmt.Sprintf(keySeatCount, routeID, repository.AllDays),
		fmt.Sprintf(keyAvailability, day),
		fmt.Sprintf(keyDailyReport, day),
	)
}

func (r *cacheRepository) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// токен уже истёк, запоминать нечего
		return nil
	}
	return r.Set(ctx, fmt.Sprintf(keyRevokedToken, tokenID), []byte("1"), ttl)
}

func (r *cacheRepository) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return r.Exists(ctx, fmt.Sprintf(keyRevokedToken, tokenID))
}

func (r *cacheRepository) GetNews(ctx context.Context) (*domain.News, error) {
	var news domain.News
	ok, err := r.getJSON(ctx, keyNews, &news)
	if err != nil || !ok {
		return nil, err
	}
	return &news, nil
}

func (r *cacheRepository) SetNews(ctx context.Context, news *domain.News, ttl time.Duration) error {
	return r.setJSON(ctx, keyNews, news, ttl)
}

func (r *cacheRepository) getJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := r.Get(ctx, key)
	if err != nil || data == nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		r.logger.Error("Failed to unmarshal cached value", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (r *cacheRepository) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Error("Failed to marshal cache value", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return r.Set(ctx, key, data, ttl)
}
