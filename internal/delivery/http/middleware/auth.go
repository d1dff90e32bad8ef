package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/pkg/errors"
	"github.com/shuttle-booking/internal/pkg/utils"
)

const sessionKey = "session"

// Authenticator - проверка bearer токена и построение сессии
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// Session - строит сессию из заголовка Authorization один раз на запрос.
// Запрос без токена проходит дальше анонимно, неверный токен - 401
func Session(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}

		token, ok := bearerToken(header)
		if !ok {
			return utils.SendError(c, errors.ErrUnauthorized.WithMessage("Invalid authorization format"))
		}

		s, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return utils.SendError(c, err)
		}

		c.Locals(sessionKey, s)
		return c.Next()
	}
}

// RequireSession - маршрут только для вошедших пользователей
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if SessionFrom(c) == nil {
			return utils.SendError(c, errors.ErrUnauthorized)
		}
		return c.Next()
	}
}

// Require - проверка права роли по таблице возможностей
func Require(capability domain.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := SessionFrom(c)
		if s == nil {
			return utils.SendError(c, errors.ErrUnauthorized)
		}
		if !s.Can(capability) {
			return utils.SendError(c, errors.ErrForbidden.WithDetails(map[string]interface{}{
				"role":       s.Role,
				"capability": capability,
			}))
		}
		return c.Next()
	}
}

// SessionFrom - сессия текущего запроса или nil
func SessionFrom(c *fiber.Ctx) *domain.Session {
	s, _ := c.Locals(sessionKey).(*domain.Session)
	return s
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
