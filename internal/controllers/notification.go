package controllers

import (
	"net/http"

	"geraetewart/internal/dto"
	"geraetewart/internal/services"
	"geraetewart/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type NotificationController struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationController(notificationService services.NotificationServiceInterface, logger *zap.Logger) *NotificationController {
	return &NotificationController{notificationService: notificationService, logger: logger}
}

func (c *NotificationController) SendTest(ctx echo.Context) error {
	var d dto.TestNotificationDTO
	if err := bindAndValidate(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.notificationService.SendTest(ctx.Request().Context(), d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Testbenachrichtigung gesendet", http.StatusOK)
}

func (c *NotificationController) SendDueDigest(ctx echo.Context) error {
	res, err := c.notificationService.SendDueDigest(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Fälligkeitsübersicht versendet", http.StatusOK)
}
