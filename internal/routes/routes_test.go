package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"geraetewart/internal/controllers"
	"geraetewart/pkg/middleware"
	"geraetewart/pkg/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestControllers() *controllerSet {
	log := zap.NewNop()
	return &controllerSet{
		persons:       controllers.NewPersonController(nil, log),
		categories:    controllers.NewDictionaryController(nil, "Kategorie", log),
		locations:     controllers.NewDictionaryController(nil, "Standort", log),
		equipment:     controllers.NewEquipmentController(nil, nil, log),
		templates:     controllers.NewTemplateController(nil, log),
		missions:      controllers.NewMissionController(nil, log),
		maintenance:   controllers.NewMaintenanceController(nil, log),
		planning:      controllers.NewPlanningController(nil, log),
		checkSessions: controllers.NewCheckSessionController(nil, controllers.NewRequestDeduplicator(), log),
		reports:       controllers.NewReportController(nil, log),
		notifications: controllers.NewNotificationController(nil, log),
		settings:      controllers.NewSettingsController(nil, log),
		websocket:     controllers.NewWebSocketController(nil, service.NewJWTService("secret", ""), log),
	}
}

func TestRegisterRoutes(t *testing.T) {
	e := echo.New()
	pass := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	registerRoutes(e.Group("/api"), newTestControllers(), pass)

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /api/ws",
		"GET /api/persons",
		"GET /api/categories",
		"DELETE /api/locations/:id",
		"GET /api/equipment/barcode/:barcode",
		"POST /api/equipment/import",
		"PATCH /api/equipment/:id/status",
		"DELETE /api/templates/:id/items/:equipmentId",
		"DELETE /api/missions/:id/equipment/:entryId",
		"GET /api/dashboard",
		"GET /api/planning",
		"GET /api/maintenance/calendar.ics",
		"GET /api/maintenance/calendar/subscription",
		"POST /api/maintenance/plan",
		"POST /api/maintenance/:id/complete",
		"POST /api/maintenance/:id/documentation",
		"POST /api/checks",
		"POST /api/checks/:id/complete",
		"GET /api/reports/equipment",
		"GET /api/reports/maintenance",
		"GET /api/reports/planning",
		"PUT /api/settings",
		"POST /api/notifications/due-digest",
	} {
		assert.True(t, registered[want], "route %s is missing", want)
	}
}

func TestRegisterRoutes_RequiresToken(t *testing.T) {
	e := echo.New()
	authMW := middleware.NewAuthMiddleware(service.NewJWTService("secret", ""), zap.NewNop())
	registerRoutes(e.Group("/api"), newTestControllers(), authMW.Auth)

	for _, target := range []string{"/api/settings", "/api/maintenance/calendar.ics", "/api/equipment"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/ws", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
