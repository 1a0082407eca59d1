package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"glpi-dashboard/internal/dto"
	"glpi-dashboard/internal/services"
	"glpi-dashboard/pkg/utils"
)

type RankingController struct {
	rankingService *services.RankingService
	logger         *zap.Logger
}

func NewRankingController(rs *services.RankingService, logger *zap.Logger) *RankingController {
	return &RankingController{rankingService: rs, logger: logger}
}

func (ctrl *RankingController) GetRanking(c echo.Context) error {
	var query dto.RankingQueryDTO
	if err := c.Bind(&query); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&query); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ranking, err := ctrl.rankingService.GetRanking(c.Request().Context(), query.DateFrom, query.DateTo)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, ranking, "Рейтинг техников получен", http.StatusOK)
}
