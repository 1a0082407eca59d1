package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"glpi-dashboard/internal/repositories"
	"glpi-dashboard/pkg/types"
	"glpi-dashboard/pkg/utils"
)

// OverdueMonitor следит за заявками с истёкшим SLA. Работает по своему
// таймеру и не зависит от выбранного на дашборде периода: просрочка —
// это всегда «сейчас», а не исторический срез.
type OverdueMonitor struct {
	repo     repositories.TicketRepositoryInterface
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu    sync.RWMutex
	state types.OverdueState
}

func NewOverdueMonitor(repo repositories.TicketRepositoryInterface, interval time.Duration, logger *zap.Logger) *OverdueMonitor {
	return &OverdueMonitor{
		repo:     repo,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// RefreshOnce — один опрос. Ошибка опроса не трогает прежнее состояние
// и не порождает алертов: следующий тик попробует снова.
func (m *OverdueMonitor) RefreshOnce(ctx context.Context) {
	now := m.now()
	deadlines, err := m.repo.GetOverdueDeadlines(ctx, now)
	if err != nil {
		m.logger.Warn("опрос просроченных заявок не удался, состояние не обновлено", zap.Error(err))
		return
	}

	state := types.OverdueState{
		Count:     int64(len(deadlines)),
		CheckedAt: now,
	}
	if len(deadlines) > 0 {
		// Первый дедлайн — самый старый, выборка отсортирована по возрастанию
		state.OldestText = fmt.Sprintf("Самая старая заявка просрочена на %s", utils.FormatDistance(deadlines[0], now))
	}

	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}

// Start опрашивает сразу и далее каждые interval до отмены контекста.
func (m *OverdueMonitor) Start(ctx context.Context) {
	go func() {
		m.RefreshOnce(ctx)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.RefreshOnce(ctx)
			}
		}
	}()
}

func (m *OverdueMonitor) State() types.OverdueState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Count — текущее число просроченных, для движка алертов.
func (m *OverdueMonitor) Count() int64 {
	return m.State().Count
}
