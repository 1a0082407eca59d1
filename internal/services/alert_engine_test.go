package services

import (
	"errors"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"glpi-dashboard/internal/entities"
)

func newTestAlertEngine(tickets *fakeTicketSource, overdue *fakeOverdueSource, notifier *fakeNotifier) *AlertEngine {
	return NewAlertEngine(tickets, overdue, notifier, testDashboardConfig(), zap.NewNop())
}

func TestAlertEngine_ExcessiveOverdue(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.Local)

	t.Run("Срабатывает строго выше порога", func(t *testing.T) {
		notifier := &fakeNotifier{}
		overdue := &fakeOverdueSource{count: 5} // ровно порог — ещё тихо
		engine := newTestAlertEngine(&fakeTicketSource{}, overdue, notifier)

		engine.Evaluate(now)
		assert.Equal(t, 0, notifier.sentCount())

		overdue.count = 6
		engine.Evaluate(now.Add(time.Minute))
		require.Equal(t, 1, notifier.sentCount())
		assert.Equal(t, RuleExcessiveOverdue, notifier.sent[0].Rule)
		assert.Equal(t, "error", notifier.sent[0].Severity)
		assert.True(t, notifier.sent[0].Sound)
	})

	t.Run("Кулдаун: повтор только через 30 минут", func(t *testing.T) {
		notifier := &fakeNotifier{}
		engine := newTestAlertEngine(&fakeTicketSource{}, &fakeOverdueSource{count: 10}, notifier)

		engine.Evaluate(now)
		engine.Evaluate(now.Add(29 * time.Minute))
		assert.Equal(t, 1, notifier.sentCount(), "внутри кулдауна повторов быть не должно")

		engine.Evaluate(now.Add(30 * time.Minute))
		assert.Equal(t, 2, notifier.sentCount())
	})

	t.Run("Ошибка доставки не откатывает кулдаун", func(t *testing.T) {
		notifier := &fakeNotifier{sendErr: errors.New("сеть недоступна")}
		engine := newTestAlertEngine(&fakeTicketSource{}, &fakeOverdueSource{count: 10}, notifier)

		engine.Evaluate(now)
		engine.Evaluate(now.Add(time.Minute))
		assert.Equal(t, 1, notifier.sentCount())
	})
}

func TestAlertEngine_NearBreach(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.Local)

	t.Run("Заявка с дедлайном внутри окна вызывает предупреждение", func(t *testing.T) {
		tickets := &fakeTicketSource{tickets: []entities.Ticket{
			openTicket(1, now.Add(90*time.Minute)),  // внутри окна
			openTicket(2, now.Add(3*time.Hour)),     // за окном
			openTicket(3, now.Add(-10*time.Minute)), // уже просрочена — не "скоро"
		}}
		notifier := &fakeNotifier{}
		engine := newTestAlertEngine(tickets, &fakeOverdueSource{}, notifier)

		engine.Evaluate(now)

		require.Equal(t, 1, notifier.sentCount())
		assert.Equal(t, RuleNearBreach, notifier.sent[0].Rule)
		assert.Equal(t, "warning", notifier.sent[0].Severity)
		assert.Contains(t, notifier.sent[0].Message, "У 1 заявок")
	})

	t.Run("Граница окна включительна", func(t *testing.T) {
		tickets := &fakeTicketSource{tickets: []entities.Ticket{
			openTicket(1, now.Add(2 * time.Hour)),
		}}
		notifier := &fakeNotifier{}
		engine := newTestAlertEngine(tickets, &fakeOverdueSource{}, notifier)

		engine.Evaluate(now)
		assert.Equal(t, 1, notifier.sentCount())
	})

	t.Run("Решённая по дате заявка не считается, даже если статус отстал", func(t *testing.T) {
		stale := openTicket(1, now.Add(time.Hour))
		stale.DateSolved = null.TimeFrom(now.Add(-time.Hour)) // решена, статус ещё «в работе»

		tickets := &fakeTicketSource{tickets: []entities.Ticket{stale}}
		notifier := &fakeNotifier{}
		engine := newTestAlertEngine(tickets, &fakeOverdueSource{}, notifier)

		engine.Evaluate(now)
		assert.Equal(t, 0, notifier.sentCount())
	})

	t.Run("Кулдаун: повтор только через 20 минут", func(t *testing.T) {
		tickets := &fakeTicketSource{tickets: []entities.Ticket{
			openTicket(1, now.Add(4 * time.Hour)),
		}}
		notifier := &fakeNotifier{}
		engine := newTestAlertEngine(tickets, &fakeOverdueSource{}, notifier)

		engine.Evaluate(now)
		engine.Evaluate(now.Add(10 * time.Minute))
		assert.Equal(t, 1, notifier.sentCount())

		// Через 20 минут дедлайн всё ещё в окне (now+4ч < now+20м+2ч? нет).
		// Подвинем дедлайн так, чтобы он оставался в окне второй проверки.
		tickets.tickets = []entities.Ticket{openTicket(1, now.Add(21*time.Minute + time.Hour))}
		engine.Evaluate(now.Add(20 * time.Minute))
		assert.Equal(t, 2, notifier.sentCount())
	})
}

func TestAlertEngine_RulePriority(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.Local)

	// Обе ситуации сразу: массовая просрочка вытесняет предупреждение о SLA
	tickets := &fakeTicketSource{tickets: []entities.Ticket{
		openTicket(1, now.Add(time.Hour)),
	}}
	notifier := &fakeNotifier{}
	engine := newTestAlertEngine(tickets, &fakeOverdueSource{count: 100}, notifier)

	engine.Evaluate(now)

	require.Equal(t, 1, notifier.sentCount())
	assert.Equal(t, RuleExcessiveOverdue, notifier.sent[0].Rule)

	// Следующий тик: правило A в кулдауне, очередь доходит до правила B
	engine.Evaluate(now.Add(time.Minute))
	require.Equal(t, 2, notifier.sentCount())
	assert.Equal(t, RuleNearBreach, notifier.sent[1].Rule)
}

func TestAlertEngine_VisibleAlert(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.Local)

	t.Run("Алерт виден после срабатывания и скрывается сам", func(t *testing.T) {
		notifier := &fakeNotifier{}
		engine := newTestAlertEngine(&fakeTicketSource{}, &fakeOverdueSource{count: 10}, notifier)
		engine.cfg.AlertVisibleFor = 30 * time.Millisecond

		engine.Evaluate(now)

		visible := engine.VisibleAlert()
		require.NotNil(t, visible)
		assert.Equal(t, RuleExcessiveOverdue, visible.Rule)

		assert.Eventually(t, func() bool {
			return engine.VisibleAlert() == nil
		}, time.Second, 5*time.Millisecond, "алерт должен скрыться по таймеру")
	})

	t.Run("Новый алерт вытесняет видимый", func(t *testing.T) {
		tickets := &fakeTicketSource{tickets: []entities.Ticket{
			openTicket(1, now.Add(time.Hour)),
		}}
		notifier := &fakeNotifier{}
		engine := newTestAlertEngine(tickets, &fakeOverdueSource{count: 10}, notifier)

		engine.Evaluate(now)
		first := engine.VisibleAlert()
		require.NotNil(t, first)

		engine.Evaluate(now.Add(time.Minute)) // правило B, A в кулдауне
		second := engine.VisibleAlert()
		require.NotNil(t, second)
		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, RuleNearBreach, second.Rule)
	})
}
