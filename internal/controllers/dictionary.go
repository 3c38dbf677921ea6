package controllers

import (
	"net/http"

	"geraetewart/internal/dto"
	"geraetewart/internal/services"
	"geraetewart/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DictionaryController обслуживает категории и места хранения, label - для сообщений.
type DictionaryController struct {
	service services.DictionaryServiceInterface
	label   string
	logger  *zap.Logger
}

func NewDictionaryController(service services.DictionaryServiceInterface, label string, logger *zap.Logger) *DictionaryController {
	return &DictionaryController{service: service, label: label, logger: logger}
}

func (c *DictionaryController) GetAll(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	res, total, err := c.service.GetAll(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, c.label+": Liste geladen", http.StatusOK, total)
}

func (c *DictionaryController) Find(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.service.Find(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, c.label+" gefunden", http.StatusOK)
}

func (c *DictionaryController) Create(ctx echo.Context) error {
	var d dto.DictionaryDTO
	if err := bindAndValidate(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.service.Create(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, c.label+" angelegt", http.StatusCreated)
}

func (c *DictionaryController) Update(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.DictionaryDTO
	if err := bindAndValidate(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.service.Update(ctx.Request().Context(), id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, c.label+" gespeichert", http.StatusOK)
}

func (c *DictionaryController) Delete(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.service.Delete(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, c.label+" gelöscht", http.StatusOK)
}
