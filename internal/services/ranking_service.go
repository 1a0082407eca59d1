package services

import (
	"context"

	"go.uber.org/zap"

	"glpi-dashboard/internal/entities"
	"glpi-dashboard/internal/repositories"
)

// RankingService — тонкая обёртка над серверной функцией ранжирования.
// Сам расчёт рейтинга для нас непрозрачен и живёт в БД.
type RankingService struct {
	repo   repositories.TicketRepositoryInterface
	logger *zap.Logger
}

func NewRankingService(repo repositories.TicketRepositoryInterface, logger *zap.Logger) *RankingService {
	return &RankingService{repo: repo, logger: logger}
}

func (s *RankingService) GetRanking(ctx context.Context, dateFrom, dateTo string) ([]entities.TechnicianRank, error) {
	current, _, err := ResolvePeriods(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}
	return s.repo.GetTechnicianRanking(ctx, current)
}
