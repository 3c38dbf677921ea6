package routes

import (
	"github.com/labstack/echo/v4"

	"geraetewart/internal/controllers"
)

func runMaintenanceRouter(g *echo.Group, ctrl *controllers.MaintenanceController, planning *controllers.PlanningController) {
	g.GET("/dashboard", planning.GetDashboard)
	g.GET("/planning", planning.GetPlanning)

	// Календарные программы не шлют заголовки, ссылка подписки несёт ?token=.
	g.GET("/maintenance/calendar.ics", ctrl.Calendar)
	g.GET("/maintenance/calendar/subscription", ctrl.CalendarSubscription)
	g.GET("/maintenance", ctrl.GetRecords)
	g.POST("/maintenance", ctrl.CreateRecord)
	g.POST("/maintenance/plan", ctrl.PlanProjection)
	g.GET("/maintenance/:id", ctrl.FindRecord)
	g.PUT("/maintenance/:id", ctrl.UpdateRecord)
	g.DELETE("/maintenance/:id", ctrl.DeleteRecord)
	g.PATCH("/maintenance/:id/status", ctrl.ChangeStatus)
	g.POST("/maintenance/:id/complete", ctrl.Complete)
	g.POST("/maintenance/:id/reset", ctrl.ResetToPlanned)
	g.POST("/maintenance/:id/documentation", ctrl.UploadDocumentation)
}

func runCheckSessionRouter(g *echo.Group, ctrl *controllers.CheckSessionController) {
	g.POST("/checks", ctrl.Create)
	g.GET("/checks/:id", ctrl.Get)
	g.POST("/checks/:id/start", ctrl.Start)
	g.POST("/checks/:id/scan", ctrl.Scan)
	g.POST("/checks/:id/mark", ctrl.Mark)
	g.POST("/checks/:id/next", ctrl.Advance)
	g.POST("/checks/:id/back", ctrl.Back)
	g.POST("/checks/:id/complete", ctrl.Complete)
	g.DELETE("/checks/:id", ctrl.Cancel)
}
