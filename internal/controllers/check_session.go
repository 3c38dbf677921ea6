package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"geraetewart/internal/dto"
	"geraetewart/internal/services"
	apperrors "geraetewart/pkg/errors"
	"geraetewart/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Сканеры иногда отправляют один штрихкод дважды подряд.
const scanDedupWindow = 1500 * time.Millisecond

type CheckSessionController struct {
	checkService services.CheckSessionServiceInterface
	dedup        *RequestDeduplicator
	logger       *zap.Logger
}

func NewCheckSessionController(checkService services.CheckSessionServiceInterface, dedup *RequestDeduplicator, logger *zap.Logger) *CheckSessionController {
	return &CheckSessionController{checkService: checkService, dedup: dedup, logger: logger}
}

func sessionID(ctx echo.Context) (string, error) {
	id := strings.TrimSpace(ctx.Param("id"))
	if id == "" {
		return "", apperrors.NewHttpError(http.StatusBadRequest, "Ungültige Sitzungs-ID", apperrors.ErrBadRequest, nil)
	}
	return id, nil
}

func (c *CheckSessionController) Create(ctx echo.Context) error {
	var d dto.CreateCheckSessionDTO
	if err := bindAndValidate(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.checkService.Create(ctx.Request().Context(), d.TemplateID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Prüfung angelegt", http.StatusCreated)
}

func (c *CheckSessionController) Get(ctx echo.Context) error {
	return c.run(ctx, "Prüfung geladen", c.checkService.Get)
}

func (c *CheckSessionController) Start(ctx echo.Context) error {
	return c.run(ctx, "Prüfung gestartet", c.checkService.Start)
}

func (c *CheckSessionController) Advance(ctx echo.Context) error {
	return c.run(ctx, "Nächste Position", c.checkService.Advance)
}

func (c *CheckSessionController) Back(ctx echo.Context) error {
	return c.run(ctx, "Vorherige Position", c.checkService.Back)
}

func (c *CheckSessionController) Cancel(ctx echo.Context) error {
	return c.run(ctx, "Prüfung abgebrochen", c.checkService.Cancel)
}

// run - общий обработчик для операций без тела запроса.
func (c *CheckSessionController) run(ctx echo.Context, message string, op func(context.Context, string) (*dto.CheckSessionDTO, error)) error {
	id, err := sessionID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := op(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, message, http.StatusOK)
}

func (c *CheckSessionController) Scan(ctx echo.Context) error {
	id, err := sessionID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.ScanDTO
	if err := bindAndValidate(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	key := id + "_" + d.Barcode
	if !c.dedup.TryAcquire(key, scanDedupWindow) {
		c.logger.Debug("Повторный скан отброшен", zap.String("session_id", id), zap.String("barcode", d.Barcode))
		return c.run(ctx, "Gerät bereits erfasst", c.checkService.Get)
	}
	res, err := c.checkService.Scan(ctx.Request().Context(), id, d)
	if err != nil {
		// неудачный скан не должен гасить повтор
		c.dedup.Release(key)
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Gerät erfasst", http.StatusOK)
}

func (c *CheckSessionController) Mark(ctx echo.Context) error {
	id, err := sessionID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.MarkItemDTO
	if err := bindAndValidate(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.checkService.Mark(ctx.Request().Context(), id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Position aktualisiert", http.StatusOK)
}

// Complete отвечает 409 с количеством непроверенных позиций, пока нет подтверждения.
func (c *CheckSessionController) Complete(ctx echo.Context) error {
	id, err := sessionID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.CompleteCheckSessionDTO
	if err := bindAndValidate(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.checkService.Complete(ctx.Request().Context(), id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Prüfung abgeschlossen", http.StatusOK)
}
