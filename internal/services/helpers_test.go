package services

import (
	"context"
	"sync"
	"time"

	"github.com/aarondl/null/v8"

	"glpi-dashboard/internal/entities"
	"glpi-dashboard/pkg/config"
	"glpi-dashboard/pkg/types"
)

// fakeTicketRepo — подменный репозиторий для юнит-тестов сервисов.
// Выборку по периоду определяет rangeFn, чтобы тест мог вернуть разные
// заявки для текущего и сравнительного периодов.
type fakeTicketRepo struct {
	rangeFn     func(period types.Period) ([]entities.Ticket, error)
	deadlines   []time.Time
	deadlineErr error
	ranking     []entities.TechnicianRank
}

func (f *fakeTicketRepo) GetTicketsByCreationRange(_ context.Context, period types.Period) ([]entities.Ticket, error) {
	if f.rangeFn == nil {
		return nil, nil
	}
	return f.rangeFn(period)
}

func (f *fakeTicketRepo) GetOverdueDeadlines(_ context.Context, _ time.Time) ([]time.Time, error) {
	return f.deadlines, f.deadlineErr
}

func (f *fakeTicketRepo) GetTechnicianRanking(_ context.Context, _ types.Period) ([]entities.TechnicianRank, error) {
	return f.ranking, nil
}

// fakeNotifier запоминает разосланные алерты.
type fakeNotifier struct {
	mu       sync.Mutex
	sent     []types.DashboardAlert
	sendErr  error
	messages []string
}

func (f *fakeNotifier) Broadcast(payload interface{}, messageType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if alert, ok := payload.(types.DashboardAlert); ok {
		f.sent = append(f.sent, alert)
	}
	f.messages = append(f.messages, messageType)
	return f.sendErr
}

func (f *fakeNotifier) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakeTicketSource / fakeOverdueSource — источники данных движка алертов.
type fakeTicketSource struct {
	tickets []entities.Ticket
}

func (f *fakeTicketSource) CurrentTickets() []entities.Ticket { return f.tickets }

type fakeOverdueSource struct {
	count int64
}

func (f *fakeOverdueSource) Count() int64 { return f.count }

// testDashboardConfig — интервалы как в продакшене, но в тестах тикеры
// не запускаются: правила проверяются вызовом Evaluate с нужным "сейчас".
func testDashboardConfig() config.DashboardConfig {
	return config.DashboardConfig{
		RefreshInterval:     300 * time.Second,
		OverduePollInterval: 5 * time.Minute,
		AlertCheckInterval:  time.Minute,
		OverdueThreshold:    5,
		OverdueCooldown:     30 * time.Minute,
		NearBreachWindow:    2 * time.Hour,
		NearBreachCooldown:  20 * time.Minute,
		AlertVisibleFor:     4 * time.Second,
	}
}

// solvedTicket — решённая заявка с заданной длительностью решения.
func solvedTicket(id uint64, resolveSeconds int64, fcr bool) entities.Ticket {
	created := time.Date(2026, 2, 10, 9, 0, 0, 0, time.Local)
	return entities.Ticket{
		ID:            id,
		Name:          "Заявка",
		DateCreation:  created,
		DateSolved:    null.TimeFrom(created.Add(time.Duration(resolveSeconds) * time.Second)),
		StatusID:      entities.StatusSolvedID,
		StatusLabel:   entities.StatusSolvedLabel,
		PriorityID:    3,
		PriorityLabel: "Medium",
		TimeToResolve: resolveSeconds,
		FCRFlag:       fcr,
	}
}

// openTicket — открытая заявка с дедлайном SLA.
func openTicket(id uint64, slaLimit time.Time) entities.Ticket {
	return entities.Ticket{
		ID:            id,
		Name:          "Заявка",
		DateCreation:  time.Date(2026, 2, 10, 9, 0, 0, 0, time.Local),
		StatusID:      2,
		StatusLabel:   "Processing (assigned)",
		PriorityID:    4,
		PriorityLabel: "High",
		SLATimeLimit:  null.TimeFrom(slaLimit),
	}
}
