package controllers

import (
	"net/http"

	"geraetewart/internal/dto"
	"geraetewart/internal/services"
	"geraetewart/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type MissionController struct {
	missionService services.MissionServiceInterface
	logger         *zap.Logger
}

func NewMissionController(missionService services.MissionServiceInterface, logger *zap.Logger) *MissionController {
	return &MissionController{missionService: missionService, logger: logger}
}

func (c *MissionController) GetMissions(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	res, total, err := c.missionService.GetMissions(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Einsätze geladen", http.StatusOK, total)
}

func (c *MissionController) FindMission(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.missionService.FindMission(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Einsatz gefunden", http.StatusOK)
}

func (c *MissionController) CreateMission(ctx echo.Context) error {
	var d dto.MissionDTO
	if err := bindAndValidate(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.missionService.CreateMission(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Einsatz angelegt", http.StatusCreated)
}

func (c *MissionController) UpdateMission(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.MissionDTO
	if err := bindAndValidate(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.missionService.UpdateMission(ctx.Request().Context(), id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Einsatz gespeichert", http.StatusOK)
}

func (c *MissionController) DeleteMission(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.missionService.DeleteMission(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Einsatz gelöscht", http.StatusOK)
}

func (c *MissionController) AddEquipment(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var d dto.MissionEquipmentDTO
	if err := bindAndValidate(ctx, &d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.missionService.AddEquipment(ctx.Request().Context(), id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Gerät zum Einsatz erfasst", http.StatusCreated)
}

func (c *MissionController) RemoveEquipment(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entryID, err := utils.ParseIDParam(ctx, "entryId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.missionService.RemoveEquipment(ctx.Request().Context(), id, entryID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Eintrag entfernt", http.StatusOK)
}
