package repository

import (
	"context"

	"github.com/shuttle-booking/internal/domain"
)

// RouteDetailsRepository - сохранённые данные транспорта по маршрутам
type RouteDetailsRepository interface {
	List(ctx context.Context) ([]domain.RouteDetails, error)

	// Upsert сохраняет номер и телефон водителя; пустая строка очищает поле
	Upsert(ctx context.Context, details []domain.RouteDetails) error
}
