package routes

import (
	"github.com/labstack/echo/v4"

	"geraetewart/internal/controllers"
)

func runPersonRouter(g *echo.Group, ctrl *controllers.PersonController) {
	g.GET("/persons", ctrl.GetPersons)
	g.GET("/persons/:id", ctrl.FindPerson)
	g.POST("/persons", ctrl.CreatePerson)
	g.PUT("/persons/:id", ctrl.UpdatePerson)
	g.DELETE("/persons/:id", ctrl.DeletePerson)
}

func runDictionaryRouter(g *echo.Group, ctrl *controllers.DictionaryController) {
	g.GET("", ctrl.GetAll)
	g.GET("/:id", ctrl.Find)
	g.POST("", ctrl.Create)
	g.PUT("/:id", ctrl.Update)
	g.DELETE("/:id", ctrl.Delete)
}

func runEquipmentRouter(g *echo.Group, ctrl *controllers.EquipmentController, reports *controllers.ReportController) {
	g.GET("/equipment", ctrl.GetEquipment)
	g.GET("/equipment/barcode/:barcode", ctrl.FindByBarcode)
	g.POST("/equipment/import", reports.ImportEquipment)
	g.GET("/equipment/:id", ctrl.FindEquipment)
	g.POST("/equipment", ctrl.CreateEquipment)
	g.PUT("/equipment/:id", ctrl.UpdateEquipment)
	g.PATCH("/equipment/:id/status", ctrl.ChangeStatus)
	g.DELETE("/equipment/:id", ctrl.DeleteEquipment)
	g.GET("/equipment/:id/comments", ctrl.GetComments)
	g.POST("/equipment/:id/comments", ctrl.AddComment)
	g.GET("/equipment/:id/missions", ctrl.GetMissionHistory)
}

func runTemplateRouter(g *echo.Group, ctrl *controllers.TemplateController) {
	g.GET("/templates", ctrl.GetTemplates)
	g.GET("/templates/:id", ctrl.FindTemplate)
	g.POST("/templates", ctrl.CreateTemplate)
	g.PUT("/templates/:id", ctrl.UpdateTemplate)
	g.DELETE("/templates/:id", ctrl.DeleteTemplate)
	g.POST("/templates/:id/checklist", ctrl.UploadChecklist)
	g.GET("/templates/:id/items", ctrl.GetItems)
	g.POST("/templates/:id/items", ctrl.AddItem)
	g.DELETE("/templates/:id/items/:equipmentId", ctrl.RemoveItem)
}

func runMissionRouter(g *echo.Group, ctrl *controllers.MissionController) {
	g.GET("/missions", ctrl.GetMissions)
	g.GET("/missions/:id", ctrl.FindMission)
	g.POST("/missions", ctrl.CreateMission)
	g.PUT("/missions/:id", ctrl.UpdateMission)
	g.DELETE("/missions/:id", ctrl.DeleteMission)
	g.POST("/missions/:id/equipment", ctrl.AddEquipment)
	g.DELETE("/missions/:id/equipment/:entryId", ctrl.RemoveEquipment)
}
