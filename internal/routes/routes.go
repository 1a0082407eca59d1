package routes

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"glpi-dashboard/internal/controllers"
	"glpi-dashboard/internal/repositories"
	"glpi-dashboard/internal/services"
	"glpi-dashboard/pkg/config"
	"glpi-dashboard/pkg/middleware"
	"glpi-dashboard/pkg/service"
	appwebsocket "glpi-dashboard/pkg/websocket"
)

type Loggers struct {
	Main      *zap.Logger
	Auth      *zap.Logger
	Dashboard *zap.Logger
}

// Services — фоновые компоненты, которые main запускает после сборки роутера.
type Services struct {
	Dashboard *services.DashboardService
	Overdue   *services.OverdueMonitor
	Alerts    *services.AlertEngine
}

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, hub *appwebsocket.Hub, loggers *Loggers, cfg *config.Config) *Services {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)

	// --- 1. РЕПОЗИТОРИИ ---
	ticketRepo := repositories.NewTicketRepository(dbConn, loggers.Dashboard)
	goalsRepo := repositories.NewRedisGoalsRepository(redisClient)
	userRepo := repositories.NewUserRepository(dbConn, loggers.Auth)

	// --- 2. СЕРВИСЫ ---
	dashboardService := services.NewDashboardService(ticketRepo, cfg.Dashboard, loggers.Dashboard)
	overdueMonitor := services.NewOverdueMonitor(ticketRepo, cfg.Dashboard.OverduePollInterval, loggers.Dashboard)
	alertEngine := services.NewAlertEngine(dashboardService, overdueMonitor, hub, cfg.Dashboard, loggers.Dashboard)
	goalsService := services.NewGoalsService(goalsRepo, loggers.Dashboard)
	rankingService := services.NewRankingService(ticketRepo, loggers.Dashboard)
	authService := services.NewAuthService(userRepo, jwtSvc, loggers.Auth)

	// --- 3. КОНТРОЛЛЕРЫ ---
	dashboardCtrl := controllers.NewDashboardController(dashboardService, overdueMonitor, alertEngine, goalsService, loggers.Dashboard)
	reportCtrl := controllers.NewReportController(dashboardService, goalsService, loggers.Dashboard)
	rankingCtrl := controllers.NewRankingController(rankingService, loggers.Dashboard)
	authCtrl := controllers.NewAuthController(authService, loggers.Auth)
	wsCtrl := controllers.NewWebSocketController(hub, jwtSvc, loggers.Main)

	// --- 4. МАРШРУТЫ ---
	api.POST("/auth/login", authCtrl.Login)
	api.GET("/ws", wsCtrl.ServeWs)
	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"screens": hub.ClientCount(),
		})
	})

	dashboard := api.Group("/dashboard", authMW.Auth)
	dashboard.GET("/stats", dashboardCtrl.GetDashboardStats)
	// Фильтр периода общий для всех экранов, менять его может только админ
	dashboard.PUT("/filter", dashboardCtrl.SetDateRange, authMW.RequireAdmin)
	dashboard.GET("/overdue", dashboardCtrl.GetOverdue)
	dashboard.GET("/alert", dashboardCtrl.GetCurrentAlert)
	dashboard.GET("/goals", dashboardCtrl.GetGoals)
	dashboard.PUT("/goals", dashboardCtrl.UpdateGoals)
	dashboard.GET("/export", reportCtrl.ExportSnapshotXLSX)
	dashboard.GET("/ranking", rankingCtrl.GetRanking)

	loggers.Main.Info("InitRouter: Маршруты созданы")

	return &Services{
		Dashboard: dashboardService,
		Overdue:   overdueMonitor,
		Alerts:    alertEngine,
	}
}
