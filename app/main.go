package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"glpi-dashboard/internal/routes"
	"glpi-dashboard/pkg/config"
	"glpi-dashboard/pkg/database/postgresql"
	apperrors "glpi-dashboard/pkg/errors"
	appmiddleware "glpi-dashboard/pkg/middleware"
	applogger "glpi-dashboard/pkg/logger"
	"glpi-dashboard/pkg/service"
	"glpi-dashboard/pkg/utils"
	appwebsocket "glpi-dashboard/pkg/websocket"
)

func main() {
	// 1. Базовые экземпляры Echo и логгера
	e := echo.New()
	logger := applogger.NewLogger()

	// 2. Конфиг (сам подхватывает .env)
	cfg := config.New()

	// 3. Middleware: паники логируем со стеком и отдаём единый конверт ошибки
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc: func(origin string) (bool, error) {
			allowedOrigins := []string{
				"http://localhost:5173",
			}
			for _, o := range allowedOrigins {
				if origin == o {
					return true, nil
				}
			}
			return false, nil
		},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Disposition"},
	}))

	e.Use(appmiddleware.InjectLogger(logger))

	// 4. Валидатор DTO
	e.Validator = utils.NewValidator(validator.New())

	// 5. Подключения к базам
	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)

	hub := appwebsocket.NewHub()
	go hub.Run()

	// 6. Роуты и сервисы
	svcs := routes.InitRouter(e, dbConn, redisClient, jwtSvc, hub, &routes.Loggers{
		Main:      logger,
		Auth:      logger.Named("auth"),
		Dashboard: logger.Named("dashboard"),
	}, cfg)

	// 7. Фоновые циклы: первая загрузка данных до старта таймеров,
	// чтобы дашборд не отдавал пустую сводку на первых запросах.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := svcs.Dashboard.Refresh(ctx); err != nil {
		logger.Warn("первая загрузка сводки не удалась, продолжаем без неё", zap.Error(err))
	}

	go svcs.Dashboard.StartRefreshLoop(ctx)
	go svcs.Overdue.Start(ctx)
	go svcs.Alerts.Start(ctx)

	// 8. Сервер с graceful shutdown
	go func() {
		logger.Info("🚀 Сервер запущен на :" + cfg.Server.Port)
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", zap.Error(err))
	}
	logger.Info("Сервер остановлен")
}
