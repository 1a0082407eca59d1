package services

import (
	"context"

	"go.uber.org/zap"

	"glpi-dashboard/internal/dto"
	"glpi-dashboard/internal/repositories"
	"glpi-dashboard/pkg/types"
)

// GoalsService — персональные целевые показатели (SLA %, FCR %, часы).
// Читаются при открытии дашборда, пишутся сквозным образом при каждой правке.
type GoalsService struct {
	repo   repositories.GoalsRepositoryInterface
	logger *zap.Logger
}

func NewGoalsService(repo repositories.GoalsRepositoryInterface, logger *zap.Logger) *GoalsService {
	return &GoalsService{repo: repo, logger: logger}
}

// GetGoals никогда не роняет дашборд: при недоступном хранилище
// возвращаются цели по умолчанию.
func (s *GoalsService) GetGoals(ctx context.Context, userID uint64) types.Goals {
	goals, err := s.repo.GetGoals(ctx, userID)
	if err != nil {
		s.logger.Warn("не удалось прочитать цели, используются значения по умолчанию",
			zap.Uint64("user_id", userID),
			zap.Error(err),
		)
		return types.DefaultGoals()
	}
	return goals
}

func (s *GoalsService) UpdateGoals(ctx context.Context, userID uint64, payload dto.UpdateGoalsDTO) (types.Goals, error) {
	goals := types.Goals{SLA: payload.SLA, FCR: payload.FCR, Time: payload.Time}
	if err := s.repo.SaveGoals(ctx, userID, goals); err != nil {
		s.logger.Error("не удалось сохранить цели", zap.Uint64("user_id", userID), zap.Error(err))
		return types.Goals{}, err
	}
	return goals, nil
}
