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
	userColumns = `id, employee_code, name, department, phone, role, created_at, updated_at`

	usersEmployeeCodeKey = "users_employee_code_key"
)

type userRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUserRepository создает новый экземпляр user repository
func NewUserRepository(db *DB, logger *zap.Logger) repository.UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.EmployeeCode, u.Name, u.Department, u.Phone, u.Role, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if uniqueViolationOn(err, usersEmployeeCodeKey) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	r.logger.Info("User registered",
		zap.String("id", u.ID.String()),
		zap.String("employee_code", u.EmployeeCode))
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByEmployeeCode(ctx context.Context, code string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE employee_code = $1`, code)
}

// UpdateProfile обновляет только переданные поля; роль и табельный номер не меняются
func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) (*domain.User, error) {
	return r.getOne(ctx, `
		UPDATE users SET
			name = COALESCE($2, name),
			department = COALESCE($3, department),
			phone = COALESCE($4, phone),
			updated_at = $5
		WHERE id = $1
		RETURNING `+userColumns,
		id, update.Name, update.Department, update.Phone, time.Now().UTC())
}

func (r *userRepository) getOne(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
