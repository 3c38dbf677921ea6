package utils

import (
	"context"

	"geraetewart/pkg/contextkeys"
	apperrors "geraetewart/pkg/errors"
)

// GetUserIDFromCtx возвращает subject токена, положенный AuthMiddleware.
func GetUserIDFromCtx(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(string)
	if !ok || userID == "" {
		return "", apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}
