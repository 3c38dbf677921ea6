package controllers

import (
	"net/http"

	"geraetewart/internal/entities"
	"geraetewart/internal/services"
	"geraetewart/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type SettingsController struct {
	settingsService services.SettingsServiceInterface
	logger          *zap.Logger
}

func NewSettingsController(settingsService services.SettingsServiceInterface, logger *zap.Logger) *SettingsController {
	return &SettingsController{settingsService: settingsService, logger: logger}
}

func (c *SettingsController) GetSettings(ctx echo.Context) error {
	res, err := c.settingsService.Get(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Einstellungen geladen", http.StatusOK)
}

// UpdateSettings заменяет документ целиком.
func (c *SettingsController) UpdateSettings(ctx echo.Context) error {
	var s entities.Settings
	if err := bindAndValidate(ctx, &s); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.settingsService.Update(ctx.Request().Context(), s)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Einstellungen gespeichert", http.StatusOK)
}
