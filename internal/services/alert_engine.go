package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"glpi-dashboard/internal/entities"
	"glpi-dashboard/pkg/config"
	"glpi-dashboard/pkg/types"
)

// Идентификаторы правил — ключи в карте кулдаунов.
const (
	RuleExcessiveOverdue = "excessive_overdue"
	RuleNearBreach       = "near_breach"
)

// AlertNotifier доставляет алерт на экраны. Реализуется websocket-хабом.
type AlertNotifier interface {
	Broadcast(payload interface{}, messageType string) error
}

// TicketSource отдаёт заявки текущего периода (DashboardService).
type TicketSource interface {
	CurrentTickets() []entities.Ticket
}

// OverdueSource отдаёт живой счётчик просроченных (OverdueMonitor).
type OverdueSource interface {
	Count() int64
}

// AlertEngine раз в тик проверяет два правила. У каждого правила свой
// кулдаун; правило A (массовая просрочка) имеет приоритет — если оно
// сработало, правило B в этом тике не проверяется вовсе.
type AlertEngine struct {
	tickets  TicketSource
	overdue  OverdueSource
	notifier AlertNotifier
	cfg      config.DashboardConfig
	logger   *zap.Logger
	now      func() time.Time

	mu        sync.Mutex
	lastFired map[string]time.Time
	visible   *types.DashboardAlert
	dismiss   *time.Timer
}

func NewAlertEngine(tickets TicketSource, overdue OverdueSource, notifier AlertNotifier, cfg config.DashboardConfig, logger *zap.Logger) *AlertEngine {
	return &AlertEngine{
		tickets:   tickets,
		overdue:   overdue,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		lastFired: make(map[string]time.Time),
	}
}

// Evaluate — одна проверка правил. Вызывается тиком Start либо тестом
// с нужным "сейчас"; вызовы не перекрываются, чтение и обновление
// кулдауна происходят внутри одного вызова.
func (e *AlertEngine) Evaluate(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Правило A: слишком много просроченных
	if overdueCount := e.overdue.Count(); overdueCount > int64(e.cfg.OverdueThreshold) {
		if e.cooldownElapsed(RuleExcessiveOverdue, now, e.cfg.OverdueCooldown) {
			e.fire(now, types.DashboardAlert{
				Rule:     RuleExcessiveOverdue,
				Title:    "КРИТИЧЕСКАЯ СИТУАЦИЯ",
				Message:  fmt.Sprintf("Слишком много просроченных заявок (%d). Требуется немедленное вмешательство!", overdueCount),
				Severity: "error",
			})
			return // правило A вытесняет правило B в этом тике
		}
	}

	// Правило B: у открытых заявок SLA истекает в окне (now, now+window]
	nearBreach := e.nearBreachCount(now)
	if nearBreach > 0 && e.cooldownElapsed(RuleNearBreach, now, e.cfg.NearBreachCooldown) {
		hours := int(e.cfg.NearBreachWindow.Hours())
		e.fire(now, types.DashboardAlert{
			Rule:     RuleNearBreach,
			Title:    "ВНИМАНИЕ: SLA НА ИСХОДЕ",
			Message:  fmt.Sprintf("У %d заявок SLA истекает в ближайшие %dч. Проверьте очередь!", nearBreach, hours),
			Severity: "warning",
		})
	}
}

func (e *AlertEngine) nearBreachCount(now time.Time) int {
	deadline := now.Add(e.cfg.NearBreachWindow)
	count := 0
	for _, t := range e.tickets.CurrentTickets() {
		// Дата решения важнее статуса: решённая заявка с неактуальным
		// статусом алерт вызывать не должна
		if !t.IsOpenUnsolved() || !t.SLATimeLimit.Valid {
			continue
		}
		limit := t.SLATimeLimit.Time
		if limit.After(now) && !limit.After(deadline) {
			count++
		}
	}
	return count
}

func (e *AlertEngine) cooldownElapsed(rule string, now time.Time, cooldown time.Duration) bool {
	last, ok := e.lastFired[rule]
	return !ok || now.Sub(last) >= cooldown
}

// fire публикует алерт и фиксирует срабатывание. Кулдаун обновляется
// в любом случае: ни раннее закрытие окна пользователем, ни ошибка
// доставки его не откатывают.
func (e *AlertEngine) fire(now time.Time, alert types.DashboardAlert) {
	alert.ID = uuid.NewString()
	alert.Sound = true
	alert.FiredAt = now

	e.lastFired[alert.Rule] = now

	// Новый алерт вытесняет видимый: окно на экране одно
	if e.dismiss != nil {
		e.dismiss.Stop()
	}
	e.visible = &alert
	e.dismiss = time.AfterFunc(e.cfg.AlertVisibleFor, func() {
		e.mu.Lock()
		if e.visible != nil && e.visible.ID == alert.ID {
			e.visible = nil
		}
		e.mu.Unlock()
	})

	e.logger.Warn("сработал алерт дашборда",
		zap.String("rule", alert.Rule),
		zap.String("message", alert.Message),
	)

	if err := e.notifier.Broadcast(alert, "dashboard_alert"); err != nil {
		// Недоставленный алерт не отменяет срабатывания
		e.logger.Error("не удалось разослать алерт", zap.Error(err))
	}
}

// VisibleAlert — текущее видимое уведомление (nil после авто-скрытия).
func (e *AlertEngine) VisibleAlert() *types.DashboardAlert {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible
}

// Start проверяет правила каждые AlertCheckInterval до отмены контекста.
func (e *AlertEngine) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(e.cfg.AlertCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.Evaluate(e.now())
			}
		}
	}()
}
