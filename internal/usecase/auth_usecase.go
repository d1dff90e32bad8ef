package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/domain/repository"
	"github.com/shuttle-booking/internal/pkg/errors"
	"github.com/shuttle-booking/internal/pkg/jwt"
	"github.com/shuttle-booking/internal/usecase/dto"
	"go.uber.org/zap"
)

// ReservedCodes - коды входа служебных учётных записей без записи в справочнике
type ReservedCodes struct {
	Admin  string
	Driver string
}

// AuthUseCase - регистрация, вход по табельному номеру, сессии
type AuthUseCase struct {
	users    repository.UserRepository
	cache    repository.CacheRepository
	tokens   *jwt.Manager
	reserved ReservedCodes
	now      func() time.Time
	logger   *zap.Logger
}

func NewAuthUseCase(
	users repository.UserRepository,
	cache repository.CacheRepository,
	tokens *jwt.Manager,
	reserved ReservedCodes,
	logger *zap.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		users:    users,
		cache:    cache,
		tokens:   tokens,
		reserved: reserved,
		now:      time.Now,
		logger:   logger,
	}
}

// Register создаёт пассажира; занятый табельный номер -> ErrConflict
func (uc *AuthUseCase) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	code := strings.TrimSpace(req.EmployeeCode)
	name := strings.TrimSpace(req.Name)

	details := make(map[string]interface{})
	if code == "" {
		details["employee_code"] = "required"
	}
	if name == "" {
		details["name"] = "required"
	}
	if len(details) > 0 {
		return nil, errors.ErrValidation.WithDetails(details)
	}
	if uc.isReserved(code) {
		return nil, errors.ErrConflict
	}

	now := uc.now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		EmployeeCode: code,
		Name:         name,
		Department:   strings.TrimSpace(req.Department),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         domain.RoleRider,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, errors.ErrConflict) {
			return nil, err
		}
		uc.logger.Error("Failed to register user", zap.String("employee_code", code), zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}

	uc.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login выдаёт токен. Служебные коды admin/driver не ищутся в справочнике
func (uc *AuthUseCase) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	code := strings.TrimSpace(req.EmployeeCode)
	if code == "" {
		return nil, errors.ErrValidation.WithDetails(map[string]interface{}{"employee_code": "required"})
	}

	user, ok := uc.reservedUser(code)
	if !ok {
		found, err := uc.users.GetByEmployeeCode(ctx, code)
		if err != nil {
			if errors.Is(err, errors.ErrUserNotFound) {
				return nil, err
			}
			uc.logger.Error("Failed to look up user", zap.Error(err))
			return nil, errors.ErrPersistence.Wrap(err)
		}
		user = *found
	}

	token, claims, err := uc.tokens.Generate(user.ID.String(), user.EmployeeCode, user.Name, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to sign session token", zap.Error(err))
		return nil, errors.ErrInternalServer.Wrap(err)
	}

	uc.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	}, nil
}

// Authenticate проверяет токен и deny-list. Если Redis недоступен, токен принимается
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := uc.tokens.Validate(token)
	if err != nil {
		return nil, errors.ErrUnauthorized.Wrap(err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, errors.ErrUnauthorized.Wrap(err)
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return nil, errors.ErrUnauthorized
	}

	revoked, err := uc.cache.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		uc.logger.Warn("Token deny-list unavailable", zap.Error(err))
	}
	if revoked {
		return nil, errors.ErrUnauthorized.WithMessage("Session has ended")
	}

	return &domain.Session{
		UserID:       userID,
		EmployeeCode: claims.EmployeeCode,
		Name:         claims.Name,
		Role:         role,
		TokenID:      claims.ID,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}

// Logout заносит id токена в deny-list до истечения срока
func (uc *AuthUseCase) Logout(ctx context.Context, s *domain.Session) error {
	if s == nil {
		return errors.ErrUnauthorized
	}

	ttl := s.ExpiresAt.Sub(uc.now())
	if err := uc.cache.RevokeToken(ctx, s.TokenID, ttl); err != nil {
		uc.logger.Error("Failed to revoke token", zap.Error(err))
		return errors.ErrCacheError.Wrap(err)
	}

	uc.logger.Info("User logged out", zap.String("user_id", s.UserID.String()))
	return nil
}

// UpdateProfile - пассажир меняет только свой профиль
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, s *domain.Session, req dto.UpdateProfileRequest) (*domain.User, error) {
	if s == nil {
		return nil, errors.ErrUnauthorized
	}
	if s.Role != domain.RoleRider {
		return nil, errors.ErrForbidden
	}

	update := req.ToDomain()
	if update.Empty() {
		return nil, errors.ErrValidation.WithMessage("Nothing to update")
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, errors.ErrValidation.WithDetails(map[string]interface{}{"name": "required"})
	}

	user, err := uc.users.UpdateProfile(ctx, s.UserID, update)
	if err != nil {
		if errors.Is(err, errors.ErrUserNotFound) {
			return nil, err
		}
		uc.logger.Error("Failed to update profile", zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}
	return user, nil
}

func (uc *AuthUseCase) isReserved(code string) bool {
	_, ok := uc.reservedUser(code)
	return ok
}

// reservedUser - фиксированная служебная учётная запись; id стабилен между перезапусками
func (uc *AuthUseCase) reservedUser(code string) (domain.User, bool) {
	var role domain.Role
	var name string
	switch {
	case uc.reserved.Admin != "" && code == uc.reserved.Admin:
		role, name = domain.RoleAdmin, "Administrator"
	case uc.reserved.Driver != "" && code == uc.reserved.Driver:
		role, name = domain.RoleDriver, "Driver"
	default:
		return domain.User{}, false
	}

	return domain.User{
		ID:           uuid.NewSHA1(uuid.NameSpaceOID, []byte("shuttle-booking:"+string(role))),
		EmployeeCode: code,
		Name:         name,
		Role:         role,
	}, true
}
