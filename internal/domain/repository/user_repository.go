package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shuttle-booking/internal/domain"
)

// UserRepository - справочник сотрудников
type UserRepository interface {
	// Create сохраняет пользователя; занятый табельный номер -> errors.ErrConflict
	Create(ctx context.Context, user *domain.User) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmployeeCode возвращает пользователя или errors.ErrUserNotFound
	GetByEmployeeCode(ctx context.Context, code string) (*domain.User, error)

	UpdateProfile(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) (*domain.User, error)
}
