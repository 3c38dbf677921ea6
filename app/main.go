package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geraetewart/internal/routes"
	"geraetewart/pkg/config"
	"geraetewart/pkg/database/postgresql"
	apperrors "geraetewart/pkg/errors"
	"geraetewart/pkg/eventbus"
	applogger "geraetewart/pkg/logger"
	appmiddleware "geraetewart/pkg/middleware"
	"geraetewart/pkg/notifier"
	"geraetewart/pkg/service"
	"geraetewart/pkg/utils"
	"geraetewart/pkg/validation"
	appwebsocket "geraetewart/pkg/websocket"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

func main() {
	// 1. Echo, логгер, конфиг
	e := echo.New()
	e.HideBanner = true
	logger := applogger.NewLogger()
	defer logger.Sync()

	cfg := config.New()

	// 2. Middleware
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("Паника при обработке запроса",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Interner Serverfehler", err, nil)
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))
	e.Use(appmiddleware.InjectLogger(logger))
	e.Use(appmiddleware.RequestLogger(logger.Named("http")))

	e.Validator = validation.New()

	// 3. Postgres + миграции
	ctx := context.Background()
	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		logger.Fatal("не удалось подключиться к Postgres", zap.Error(err))
	}
	defer dbConn.Close()
	if err := postgresql.Migrate(dbConn); err != nil {
		logger.Fatal("не удалось применить миграции", zap.Error(err))
	}

	// 4. Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}
	defer redisClient.Close()

	// 5. Канал уведомлений: NATS, если задан, иначе только лог
	var messenger notifier.Notifier = notifier.NewLogNotifier(logger.Named("notifier"))
	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name("geraetewart"))
		if err != nil {
			logger.Fatal("не удалось подключиться к NATS", zap.Error(err), zap.String("url", cfg.NATS.URL))
		}
		defer nc.Drain()
		messenger = notifier.NewNATSNotifier(nc, cfg.NATS.Subject)
	} else {
		logger.Warn("NATS_URL не задан, уведомления пишутся только в лог")
	}

	if cfg.JWT.SecretKey == "" {
		logger.Fatal("JWT_SECRET_KEY не задан")
	}
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.Issuer)

	hub := appwebsocket.NewHub(logger.Named("websocket"))
	go hub.Run()

	bus := eventbus.New(logger.Named("events"))

	// 6. Роуты
	loggers := &routes.Loggers{
		Main:         logger,
		Auth:         logger.Named("auth"),
		Maintenance:  logger.Named("maintenance"),
		CheckSession: logger.Named("check"),
		Notification: logger.Named("notification"),
		WebSocket:    logger.Named("websocket"),
	}
	appCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	unwatch := routes.InitRouter(appCtx, e, routes.Deps{
		DB:       dbConn,
		Redis:    redisClient,
		JWT:      jwtSvc,
		Hub:      hub,
		Bus:      bus,
		Notifier: messenger,
	}, loggers, cfg)
	defer unwatch()

	// 7. Запуск и корректная остановка
	go func() {
		logger.Info("Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", zap.Error(err))
	}
	bus.Wait()
	logger.Info("Сервер остановлен")
}
