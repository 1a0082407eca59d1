package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"glpi-dashboard/pkg/types"
)

// GoalsRepositoryInterface — персональные целевые показатели пользователя.
// Хранятся без TTL: цели живут, пока пользователь их не перезапишет.
type GoalsRepositoryInterface interface {
	GetGoals(ctx context.Context, userID uint64) (types.Goals, error)
	SaveGoals(ctx context.Context, userID uint64, goals types.Goals) error
}

type RedisGoalsRepository struct {
	client *redis.Client
}

func NewRedisGoalsRepository(client *redis.Client) GoalsRepositoryInterface {
	return &RedisGoalsRepository{client: client}
}

func goalsKey(userID uint64) string {
	return fmt.Sprintf("dashboard:goals:%d", userID)
}

// GetGoals возвращает сохранённые цели. Если записи нет (новый пользователь)
// или она повреждена — цели по умолчанию, это не ошибка.
func (r *RedisGoalsRepository) GetGoals(ctx context.Context, userID uint64) (types.Goals, error) {
	raw, err := r.client.Get(ctx, goalsKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return types.DefaultGoals(), nil
	}
	if err != nil {
		return types.DefaultGoals(), err
	}

	var goals types.Goals
	if err := json.Unmarshal([]byte(raw), &goals); err != nil {
		return types.DefaultGoals(), nil
	}
	return goals, nil
}

func (r *RedisGoalsRepository) SaveGoals(ctx context.Context, userID uint64, goals types.Goals) error {
	raw, err := json.Marshal(goals)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, goalsKey(userID), raw, 0).Err()
}
