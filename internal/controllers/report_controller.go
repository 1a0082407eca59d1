package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"glpi-dashboard/internal/services"
	"glpi-dashboard/pkg/types"
	"glpi-dashboard/pkg/utils"
)

// ReportController выгружает текущую сводку дашборда в Excel.
type ReportController struct {
	dashboardService *services.DashboardService
	goalsService     *services.GoalsService
	logger           *zap.Logger
}

func NewReportController(ds *services.DashboardService, gs *services.GoalsService, logger *zap.Logger) *ReportController {
	return &ReportController{dashboardService: ds, goalsService: gs, logger: logger}
}

func (ctrl *ReportController) ExportSnapshotXLSX(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	snapshot := ctrl.dashboardService.Snapshot(ctrl.goalsService.GetGoals(ctx, userID))
	if snapshot == nil {
		return utils.ErrorResponse(c, fmt.Errorf("сводка ещё не загружена"), ctrl.logger)
	}

	return ctrl.respondWithXLSX(c, snapshot)
}

func (ctrl *ReportController) respondWithXLSX(ctx echo.Context, snapshot *types.DashboardSnapshot) error {
	f := excelize.NewFile()
	sheet := "Сводка"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	row := 1
	writeHeader := func(title string) {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(sheet, cell, title)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
		row++
	}
	writeRow := func(values ...interface{}) {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetSheetRow(sheet, cell, &values)
		row++
	}

	kpis := snapshot.KPIs
	writeHeader("Ключевые показатели")
	writeRow("Всего заявок", kpis.TotalTickets)
	writeRow("Рост к прошлому месяцу", kpis.Growth.Formatted)
	writeRow("SLA, %", kpis.SLACompliance.Formatted)
	writeRow("FCR, %", kpis.FCRRate.Formatted)
	writeRow("Среднее время решения, ч", kpis.AvgResolution.Formatted)
	row++

	writeHeader("Статусы")
	for _, item := range snapshot.StatusBreakdown {
		writeRow(item.GroupName, item.Count)
	}
	row++

	writeHeader("Время решения по приоритетам")
	for _, item := range snapshot.TimeByPriority {
		writeRow(item.GroupName, item.AvgHours)
	}
	row++

	writeHeader("Топ категорий")
	for _, item := range snapshot.TopCategories {
		writeRow(item.GroupName, item.Count)
	}
	row++

	writeHeader("Топ подразделений")
	for _, item := range snapshot.TopDepartments {
		writeRow(item.GroupName, item.Count)
	}
	row++

	writeHeader("По локациям")
	for _, item := range snapshot.ByLocation {
		writeRow(item.GroupName, item.Count)
	}

	// Авто-ширина колонок для читаемости
	f.SetColWidth(sheet, "A", "A", 45)
	f.SetColWidth(sheet, "B", "B", 15)

	fileName := fmt.Sprintf("dashboard_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
