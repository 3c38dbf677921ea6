package middleware

import (
	"context"
	"strings"

	"geraetewart/pkg/contextkeys"
	apperrors "geraetewart/pkg/errors"
	"geraetewart/pkg/service"
	"geraetewart/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

// Auth проверяет Bearer-токен. Для websocket и подписки календаря токен можно передать в ?token=.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, err := extractToken(c)
		if err != nil {
			m.logger.Warn("AuthMiddleware: нет токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			m.logger.Warn("AuthMiddleware: Ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		ctx := context.WithValue(c.Request().Context(), contextkeys.UserIDKey, claims.Subject)
		ctx = context.WithValue(ctx, contextkeys.UserEmailKey, claims.Email)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

func extractToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		if token := c.QueryParam("token"); token != "" {
			return token, nil
		}
		return "", apperrors.ErrEmptyAuthHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperrors.ErrInvalidAuthHeader
	}
	return parts[1], nil
}
