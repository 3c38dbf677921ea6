package controllers

import (
	"net/http"

	"geraetewart/internal/planning"
	"geraetewart/internal/services"
	"geraetewart/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PlanningController - прогноз сроков и дашборд.
type PlanningController struct {
	planningService services.PlanningServiceInterface
	logger          *zap.Logger
}

func NewPlanningController(planningService services.PlanningServiceInterface, logger *zap.Logger) *PlanningController {
	return &PlanningController{planningService: planningService, logger: logger}
}

// GetPlanning: ?bucket=overdue,due_soon&person=1&category=2&template=3&search=...
func (c *PlanningController) GetPlanning(ctx echo.Context) error {
	filter := planning.ProjectionFilterFromQuery(utils.ParseFilterFromQuery(ctx.Request().URL.Query()))
	res, err := c.planningService.Overview(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Wartungsplanung berechnet", http.StatusOK)
}

func (c *PlanningController) GetDashboard(ctx echo.Context) error {
	res, err := c.planningService.Dashboard(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Dashboard geladen", http.StatusOK)
}
