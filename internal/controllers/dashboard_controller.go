package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"glpi-dashboard/internal/dto"
	"glpi-dashboard/internal/services"
	"glpi-dashboard/pkg/utils"
)

type DashboardController struct {
	dashboardService *services.DashboardService
	overdueMonitor   *services.OverdueMonitor
	alertEngine      *services.AlertEngine
	goalsService     *services.GoalsService
	logger           *zap.Logger
}

func NewDashboardController(
	ds *services.DashboardService,
	om *services.OverdueMonitor,
	ae *services.AlertEngine,
	gs *services.GoalsService,
	logger *zap.Logger,
) *DashboardController {
	return &DashboardController{
		dashboardService: ds,
		overdueMonitor:   om,
		alertEngine:      ae,
		goalsService:     gs,
		logger:           logger,
	}
}

// GetDashboardStats отдаёт последнюю сводку, живой счётчик просроченных,
// цели пользователя и остаток отсчёта до перезагрузки — всё одним ответом.
func (ctrl *DashboardController) GetDashboardStats(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	goals := ctrl.goalsService.GetGoals(ctx, userID)
	dateFrom, dateTo, compareFrom, compareTo := ctrl.dashboardService.DateRange()

	stats := &dto.DashboardStatsDTO{
		Snapshot:    ctrl.dashboardService.Snapshot(goals),
		Overdue:     ctrl.overdueMonitor.State(),
		Goals:       goals,
		RefreshIn:   ctrl.dashboardService.FormatTimeLeft(),
		DateFrom:    dateFrom,
		DateTo:      dateTo,
		CompareFrom: compareFrom,
		CompareTo:   compareTo,
	}
	return utils.SuccessResponse(c, stats, "Статистика дашборда получена", http.StatusOK)
}

// SetDateRange применяет новый фильтр периода. Невалидные даты — 400,
// данные на экране при этом не меняются.
func (ctrl *DashboardController) SetDateRange(c echo.Context) error {
	var payload dto.DateRangeDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.dashboardService.SetDateRange(c.Request().Context(), payload.DateFrom, payload.DateTo); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Фильтр периода применён", http.StatusOK)
}

// GetOverdue — живой счётчик просроченных заявок (не зависит от фильтра).
func (ctrl *DashboardController) GetOverdue(c echo.Context) error {
	return utils.SuccessResponse(c, ctrl.overdueMonitor.State(), "Просроченные заявки получены", http.StatusOK)
}

// GetCurrentAlert — видимое в данный момент уведомление, если оно есть.
func (ctrl *DashboardController) GetCurrentAlert(c echo.Context) error {
	return utils.SuccessResponse(c, ctrl.alertEngine.VisibleAlert(), "Текущий алерт получен", http.StatusOK)
}

func (ctrl *DashboardController) GetGoals(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, ctrl.goalsService.GetGoals(ctx, userID), "Цели получены", http.StatusOK)
}

func (ctrl *DashboardController) UpdateGoals(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateGoalsDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	goals, err := ctrl.goalsService.UpdateGoals(ctx, userID, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, goals, "Цели обновлены", http.StatusOK)
}
