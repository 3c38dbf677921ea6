package routes

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"geraetewart/internal/controllers"
	"geraetewart/internal/listeners"
	"geraetewart/internal/repositories"
	"geraetewart/internal/services"
	"geraetewart/pkg/config"
	"geraetewart/pkg/constants"
	"geraetewart/pkg/eventbus"
	"geraetewart/pkg/filestorage"
	"geraetewart/pkg/middleware"
	"geraetewart/pkg/notifier"
	"geraetewart/pkg/service"
	appwebsocket "geraetewart/pkg/websocket"
)

type Loggers struct {
	Main         *zap.Logger
	Auth         *zap.Logger
	Maintenance  *zap.Logger
	CheckSession *zap.Logger
	Notification *zap.Logger
	WebSocket    *zap.Logger
}

// Deps - внешние подключения, которые живут дольше роутера.
type Deps struct {
	DB       *pgxpool.Pool
	Redis    *redis.Client
	JWT      service.JWTService
	Hub      *appwebsocket.Hub
	Bus      *eventbus.Bus
	Notifier notifier.Notifier
}

type controllerSet struct {
	persons       *controllers.PersonController
	categories    *controllers.DictionaryController
	locations     *controllers.DictionaryController
	equipment     *controllers.EquipmentController
	templates     *controllers.TemplateController
	missions      *controllers.MissionController
	maintenance   *controllers.MaintenanceController
	planning      *controllers.PlanningController
	checkSessions *controllers.CheckSessionController
	reports       *controllers.ReportController
	notifications *controllers.NotificationController
	settings      *controllers.SettingsController
	websocket     *controllers.WebSocketController
}

// InitRouter собирает репозитории, сервисы и слушатели событий и вешает маршруты на /api.
// Фоновые задачи живут, пока жив ctx. Возвращённая функция снимает подписку на настройки.
func InitRouter(ctx context.Context, e *echo.Echo, deps Deps, loggers *Loggers, cfg *config.Config) func() {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(deps.JWT, loggers.Auth)
	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Storage.UploadDir)
	if err != nil {
		loggers.Main.Fatal("не удалось создать файловое хранилище", zap.Error(err))
	}
	e.Static("/uploads", cfg.Storage.UploadDir)
	txManager := repositories.NewTxManager(deps.DB)
	scanDedup := controllers.NewRequestDeduplicator()
	go scanDedup.Cleanup(ctx, time.Minute)

	// --- 1. РЕПОЗИТОРИИ ---
	cacheRepo := repositories.NewRedisCacheRepository(deps.Redis)
	personRepo := repositories.NewPersonRepository(deps.DB, loggers.Main)
	categoryRepo := repositories.NewCategoryRepository(deps.DB, loggers.Main)
	locationRepo := repositories.NewLocationRepository(deps.DB, loggers.Main)
	equipmentRepo := repositories.NewEquipmentRepository(deps.DB, loggers.Main)
	commentRepo := repositories.NewCommentRepository(deps.DB, loggers.Main)
	templateRepo := repositories.NewTemplateRepository(deps.DB, loggers.Main)
	recordRepo := repositories.NewMaintenanceRecordRepository(deps.DB, loggers.Maintenance)
	missionRepo := repositories.NewMissionRepository(deps.DB, loggers.Main)
	dashboardRepo := repositories.NewDashboardRepository(deps.DB, loggers.Main)
	settingsRepo := repositories.NewSettingsRepository(deps.DB, loggers.Main)
	sessionRepo := repositories.NewCheckSessionRepository(cacheRepo)

	// --- 2. СЕРВИСЫ ---
	settingsService := services.NewSettingsService(settingsRepo, cacheRepo, loggers.Main)
	personService := services.NewPersonService(personRepo, deps.Bus, loggers.Main)
	categoryService := services.NewDictionaryService(categoryRepo, constants.QueryCategories, deps.Bus, loggers.Main)
	locationService := services.NewDictionaryService(locationRepo, constants.QueryLocations, deps.Bus, loggers.Main)
	equipmentService := services.NewEquipmentService(equipmentRepo, commentRepo, recordRepo, missionRepo, deps.Bus, loggers.Main)
	templateService := services.NewTemplateService(templateRepo, equipmentRepo, fileStorage, deps.Bus, loggers.Main)
	missionService := services.NewMissionService(missionRepo, equipmentRepo, deps.Bus, loggers.Main)
	maintenanceService := services.NewMaintenanceService(
		txManager, recordRepo, equipmentRepo, templateRepo, fileStorage, settingsService, deps.Bus,
		services.CalendarConfig{
			Domain:        cfg.Calendar.Domain,
			Name:          cfg.Calendar.Name,
			PublicBaseURL: cfg.Server.PublicBaseURL,
		},
		loggers.Maintenance,
	)
	planningService := services.NewPlanningService(equipmentRepo, templateRepo, recordRepo, dashboardRepo, settingsService, loggers.Maintenance)
	checkService := services.NewCheckSessionService(txManager, sessionRepo, templateRepo, equipmentRepo, deps.Bus, loggers.CheckSession)
	reportService := services.NewReportService(
		txManager, equipmentRepo, categoryRepo, locationRepo,
		maintenanceService, planningService, deps.Bus, loggers.Main,
	)
	notificationService := services.NewNotificationService(deps.Notifier, settingsService, planningService, loggers.Notification)

	// --- 3. СЛУШАТЕЛИ ---
	listeners.NewNotificationListener(notificationService, loggers.Notification).Register(deps.Bus)
	wsListener := listeners.NewWebSocketListener(deps.Hub, loggers.WebSocket)
	wsListener.Register(deps.Bus)
	unwatch := wsListener.WatchSettings(settingsService)

	// --- 4. КОНТРОЛЛЕРЫ ---
	ctrls := &controllerSet{
		persons:       controllers.NewPersonController(personService, loggers.Main),
		categories:    controllers.NewDictionaryController(categoryService, "Kategorie", loggers.Main),
		locations:     controllers.NewDictionaryController(locationService, "Standort", loggers.Main),
		equipment:     controllers.NewEquipmentController(equipmentService, missionService, loggers.Main),
		templates:     controllers.NewTemplateController(templateService, loggers.Main),
		missions:      controllers.NewMissionController(missionService, loggers.Main),
		maintenance:   controllers.NewMaintenanceController(maintenanceService, loggers.Maintenance),
		planning:      controllers.NewPlanningController(planningService, loggers.Maintenance),
		checkSessions: controllers.NewCheckSessionController(checkService, scanDedup, loggers.CheckSession),
		reports:       controllers.NewReportController(reportService, loggers.Main),
		notifications: controllers.NewNotificationController(notificationService, loggers.Notification),
		settings:      controllers.NewSettingsController(settingsService, loggers.Main),
		websocket:     controllers.NewWebSocketController(deps.Hub, deps.JWT, loggers.WebSocket),
	}

	// --- 5. РОУТЕРЫ ---
	registerRoutes(api, ctrls, authMW.Auth)

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
	return unwatch
}

func registerRoutes(api *echo.Group, ctrls *controllerSet, auth echo.MiddlewareFunc) {
	// WebSocket проверяет токен сам.
	api.GET("/ws", ctrls.websocket.ServeWs)

	secureGroup := api.Group("", auth)

	runPersonRouter(secureGroup, ctrls.persons)
	runDictionaryRouter(secureGroup.Group("/categories"), ctrls.categories)
	runDictionaryRouter(secureGroup.Group("/locations"), ctrls.locations)
	runEquipmentRouter(secureGroup, ctrls.equipment, ctrls.reports)
	runTemplateRouter(secureGroup, ctrls.templates)
	runMissionRouter(secureGroup, ctrls.missions)
	runMaintenanceRouter(secureGroup, ctrls.maintenance, ctrls.planning)
	runCheckSessionRouter(secureGroup, ctrls.checkSessions)
	runReportRouter(secureGroup, ctrls.reports)
	runSystemRouter(secureGroup, ctrls.settings, ctrls.notifications)
}
