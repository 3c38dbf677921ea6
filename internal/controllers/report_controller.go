package controllers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"geraetewart/internal/planning"
	"geraetewart/internal/services"
	"geraetewart/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// ExportEquipment: ?format=xlsx|pdf|html плюс обычные фильтры списка.
func (c *ReportController) ExportEquipment(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	format := strings.ToLower(ctx.QueryParam("format"))
	c.logger.Debug("Экспорт инвентаря", zap.Any("filter", filter), zap.String("format", format))

	report, err := c.reportService.EquipmentReport(ctx.Request().Context(), filter, format)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respond(ctx, report)
}

func (c *ReportController) ExportRecords(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	format := strings.ToLower(ctx.QueryParam("format"))
	c.logger.Debug("Экспорт журнала", zap.Any("filter", filter), zap.String("format", format))

	report, err := c.reportService.RecordsReport(ctx.Request().Context(), filter, format)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respond(ctx, report)
}

func (c *ReportController) ExportProjections(ctx echo.Context) error {
	filter := planning.ProjectionFilterFromQuery(utils.ParseFilterFromQuery(ctx.Request().URL.Query()))
	report, err := c.reportService.ProjectionsReport(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respond(ctx, report)
}

func (c *ReportController) ImportEquipment(ctx echo.Context) error {
	fileHeader, err := formFile(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.reportService.ImportEquipment(ctx.Request().Context(), fileHeader)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Import abgeschlossen", http.StatusOK)
}

// respond: HTML показываем в браузере, остальное отдаём как вложение.
func (c *ReportController) respond(ctx echo.Context, report *services.Report) error {
	inline := strings.HasPrefix(report.ContentType, echo.MIMETextHTML)
	return sendFile(ctx, report.FileName, report.ContentType, report.Body, inline)
}
