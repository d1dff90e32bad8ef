package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shuttle-booking/internal/delivery/http/middleware"
	"github.com/shuttle-booking/internal/pkg/utils"
	"github.com/shuttle-booking/internal/usecase/dto"
	"go.uber.org/zap"
)

// AuthHandler - вход, выход, регистрация и профиль
type AuthHandler struct {
	authUC AuthService
	logger *zap.Logger
}

func NewAuthHandler(authUC AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authUC: authUC,
		logger: logger,
	}
}

// Login godoc
// @Summary Вход по табельному номеру
// @Description Зарезервированные коды администратора и водителя входят без поиска в справочнике
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Табельный номер"
// @Success 200 {object} utils.SuccessResponse{data=dto.LoginResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.authUC.Login(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, nil)
}

// Logout godoc
// @Summary Выход
// @Description Токен попадает в deny-list до истечения срока
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authUC.Logout(c.Context(), middleware.SessionFrom(c)); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Register godoc
// @Summary Регистрация сотрудника
// @Description Новый пользователь всегда получает роль rider
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные сотрудника"
// @Success 201 {object} utils.SuccessResponse{data=domain.User}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	user, err := h.authUC.Register(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendCreated(c, user, nil)
}

// UpdateProfile godoc
// @Summary Изменение своего профиля
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Изменяемые поля"
// @Success 200 {object} utils.SuccessResponse{data=domain.User}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/users/me [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	user, err := h.authUC.UpdateProfile(c.Context(), middleware.SessionFrom(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, user, nil)
}
