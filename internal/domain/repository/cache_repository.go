package repository

import (
	"context"
	"time"

	"github.com/shuttle-booking/internal/domain"
)

// AllDays - ключ счётчика мест маршрута за все даты
const AllDays = "all"

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значения из кеша
	Delete(ctx context.Context, keys ...string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)

	// GetSeatCount - счётчик активных броней маршрута на день (или AllDays); ok=false при промахе
	GetSeatCount(ctx context.Context, routeID, day string) (count int, ok bool, err error)
	SetSeatCount(ctx context.Context, routeID, day string, count int, ttl time.Duration) error

	GetAvailability(ctx context.Context, day string) ([]domain.RouteAvailability, error)
	SetAvailability(ctx context.Context, day string, items []domain.RouteAvailability, ttl time.Duration) error

	GetDailyReport(ctx context.Context, day string) (*domain.DailyReport, error)
	SetDailyReport(ctx context.Context, day string, report *domain.DailyReport, ttl time.Duration) error

	// InvalidateDay сбрасывает счётчики, доступность и отчёт, затронутые изменением брони
	InvalidateDay(ctx context.Context, routeID, day string) error

	// RevokeToken помещает id токена в deny-list до истечения его срока
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)

	// GetNews/SetNews - резервная копия новости на случай недоступности БД
	GetNews(ctx context.Context) (*domain.News, error)
	SetNews(ctx context.Context, news *domain.News, ttl time.Duration) error
}
