package routes

import (
	"github.com/labstack/echo/v4"

	"geraetewart/internal/controllers"
)

func runReportRouter(g *echo.Group, ctrl *controllers.ReportController) {
	g.GET("/reports/equipment", ctrl.ExportEquipment)
	g.GET("/reports/maintenance", ctrl.ExportRecords)
	g.GET("/reports/planning", ctrl.ExportProjections)
}

func runSystemRouter(g *echo.Group, settings *controllers.SettingsController, notifications *controllers.NotificationController) {
	g.GET("/settings", settings.GetSettings)
	g.PUT("/settings", settings.UpdateSettings)
	g.POST("/notifications/test", notifications.SendTest)
	g.POST("/notifications/due-digest", notifications.SendDueDigest)
}
