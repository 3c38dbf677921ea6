package controllers

import (
	"net/http"

	"geraetewart/internal/dto"
	"geraetewart/internal/services"
	"geraetewart/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const calendarContentType = "text/calendar; charset=utf-8"

type MaintenanceController struct {
	maintenanceService services.MaintenanceServiceInterface
	logger             *zap.Logger
}

func NewMaintenanceController(maintenanceService services.MaintenanceServiceInterface, logger *zap.Logger) *MaintenanceController {
	return &MaintenanceController{maintenanceService: maintenanceService, logger: logger}
}

func (c *MaintenanceController) GetRecords(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	page, err := c.maintenanceService.ListRecords(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	message := page.Message
	if message == "" {
		message = "Wartungen geladen"
	}
	return utils.SuccessResponse(ctx, page.Records, message, http.StatusOK, page.Total)
}

func (c *MaintenanceController) FindRecord(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.maintenanceService.FindRecord(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Wartung gefunden", http.StatusOK)
}

func (c *MaintenanceController) CreateRecord(ctx echo.Context) error {
	var d dto.CreateRecordDTO
	if err := bindAndValidate(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.maintenanceService.CreateRecord(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Wartung angelegt", http.StatusCreated)
}

func (c *MaintenanceController) UpdateRecord(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.UpdateRecordDTO
	if err := bindAndValidate(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.maintenanceService.UpdateRecord(ctx.Request().Context(), id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Wartung gespeichert", http.StatusOK)
}

func (c *MaintenanceController) DeleteRecord(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.maintenanceService.DeleteRecord(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Wartung gelöscht", http.StatusOK)
}

func (c *MaintenanceController) ChangeStatus(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.RecordStatusDTO
	if err := bindAndValidate(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.maintenanceService.ChangeStatus(ctx.Request().Context(), id, d.Status)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Status geändert", http.StatusOK)
}

// PlanProjection отвечает 201 для новой записи и 200, если запись на этот день уже была.
func (c *MaintenanceController) PlanProjection(ctx echo.Context) error {
	var d dto.PlanProjectionDTO
	if err := bindAndValidate(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, created, err := c.maintenanceService.PlanProjection(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if !created {
		return utils.SuccessResponse(ctx, res, "Wartung war bereits geplant", http.StatusOK)
	}
	return utils.SuccessResponse(ctx, res, "Wartung geplant", http.StatusCreated)
}

func (c *MaintenanceController) Complete(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.CompleteRecordDTO
	if err := bindAndValidate(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.maintenanceService.Complete(ctx.Request().Context(), id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Wartung abgeschlossen", http.StatusOK)
}

func (c *MaintenanceController) ResetToPlanned(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.maintenanceService.ResetToPlanned(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Wartung auf 'geplant' zurückgesetzt", http.StatusOK)
}

func (c *MaintenanceController) UploadDocumentation(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	fileHeader, err := formFile(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.maintenanceService.UploadDocumentation(ctx.Request().Context(), id, fileHeader)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Dokumentation hochgeladen", http.StatusOK)
}

// Calendar отдаёт iCal-ленту по тем же фильтрам, что и список записей.
func (c *MaintenanceController) Calendar(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	cal, err := c.maintenanceService.Calendar(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return sendFile(ctx, "wartungskalender.ics", calendarContentType, []byte(cal), true)
}

func (c *MaintenanceController) CalendarSubscription(ctx echo.Context) error {
	url := c.maintenanceService.SubscriptionURL(ctx.Request().URL.RawQuery)
	return utils.SuccessResponse(ctx, map[string]string{"url": url}, "Abonnement-Link erstellt", http.StatusOK)
}
