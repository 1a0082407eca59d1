package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"glpi-dashboard/internal/entities"
	"glpi-dashboard/internal/repositories"
	"glpi-dashboard/pkg/config"
	apperrors "glpi-dashboard/pkg/errors"
	"glpi-dashboard/pkg/types"
)

// DashboardService держит живое состояние дашборда: активный фильтр дат,
// последнюю успешную сводку и обратный отсчёт до следующей перезагрузки.
type DashboardService struct {
	repo   repositories.TicketRepositoryInterface
	cfg    config.DashboardConfig
	logger *zap.Logger

	mu             sync.RWMutex
	dateFrom       string
	dateTo         string
	currentPeriod  types.Period
	comparePeriod  types.Period
	currentTickets []entities.Ticket
	snapshot       *types.DashboardSnapshot

	countdownMu sync.Mutex
	countdown   int
}

func NewDashboardService(repo repositories.TicketRepositoryInterface, cfg config.DashboardConfig, logger *zap.Logger) *DashboardService {
	now := time.Now()
	s := &DashboardService{
		repo:      repo,
		cfg:       cfg,
		logger:    logger,
		dateFrom:  now.AddDate(0, 0, -30).Format(dateLayout),
		dateTo:    now.Format(dateLayout),
		countdown: int(cfg.RefreshInterval / time.Second),
	}
	s.currentPeriod, s.comparePeriod, _ = ResolvePeriods(s.dateFrom, s.dateTo)
	return s
}

// SetDateRange валидирует и применяет новый фильтр. Невалидные даты не
// трогают ни фильтр, ни сводку. Валидный фильтр перезапускает отсчёт и
// сразу инициирует перезагрузку; её неудача оставляет прежнюю сводку.
func (s *DashboardService) SetDateRange(ctx context.Context, dateFrom, dateTo string) error {
	current, comparison, err := ResolvePeriods(dateFrom, dateTo)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.dateFrom, s.dateTo = dateFrom, dateTo
	s.currentPeriod, s.comparePeriod = current, comparison
	s.mu.Unlock()

	s.resetCountdown()

	if err := s.Refresh(ctx); err != nil {
		s.logger.Error("перезагрузка после смены фильтра не удалась, показываем прежние данные", zap.Error(err))
	}
	return nil
}

// Refresh выполняет обе выборки (текущий и сравнительный периоды)
// параллельно и применяет их атомарно: при ошибке любой из выборок
// прежняя сводка остаётся на экране целиком.
func (s *DashboardService) Refresh(ctx context.Context) error {
	s.mu.RLock()
	current, comparison := s.currentPeriod, s.comparePeriod
	s.mu.RUnlock()

	var (
		wg          sync.WaitGroup
		currTickets []entities.Ticket
		prevTickets []entities.Ticket
		errs        []error
		errMu       sync.Mutex
	)

	addTask := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				errMu.Lock()
				errs = append(errs, err)
				errMu.Unlock()
			}
		}()
	}

	addTask(func() (err error) { currTickets, err = s.repo.GetTicketsByCreationRange(ctx, current); return })
	addTask(func() (err error) { prevTickets, err = s.repo.GetTicketsByCreationRange(ctx, comparison); return })

	wg.Wait()

	if len(errs) > 0 {
		s.logger.Error("выборка заявок не удалась", zap.Error(errs[0]))
		return apperrors.NewInternalError("Ошибка загрузки данных дашборда")
	}

	snapshot := BuildSnapshot(currTickets, prevTickets, types.DefaultGoals(), time.Now())

	s.mu.Lock()
	s.currentTickets = currTickets
	s.snapshot = snapshot
	s.mu.Unlock()

	s.logger.Debug("сводка дашборда обновлена",
		zap.Int("current", len(currTickets)),
		zap.Int("comparison", len(prevTickets)),
	)
	return nil
}

// Snapshot возвращает последнюю успешную сводку с целями конкретного
// пользователя. До первой удачной выборки сводки нет — это nil.
func (s *DashboardService) Snapshot(goals types.Goals) *types.DashboardSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil
	}

	snap := *s.snapshot
	snap.KPIs.FCRRate.Goal = goals.FCR
	snap.KPIs.SLACompliance.Goal = goals.SLA
	snap.KPIs.AvgResolution.Goal = goals.Time
	return &snap
}

// CurrentTickets отдаёт заявки текущего периода для движка алертов.
func (s *DashboardService) CurrentTickets() []entities.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentTickets
}

// DateRange возвращает активный фильтр и рассчитанный сравнительный период.
func (s *DashboardService) DateRange() (dateFrom, dateTo, compareFrom, compareTo string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dateFrom, s.dateTo,
		s.comparePeriod.From.Format(dateLayout),
		s.comparePeriod.To.Format(dateLayout)
}

// StartRefreshLoop запускает секундный отсчёт. На нуле — перезагрузка
// в отдельной горутине: медленная сеть не должна останавливать тик.
func (s *DashboardService) StartRefreshLoop(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s.tickCountdown() {
					go func() {
						if err := s.Refresh(ctx); err != nil {
							s.logger.Warn("плановая перезагрузка не удалась", zap.Error(err))
						}
					}()
				}
			}
		}
	}()
}

// tickCountdown уменьшает счётчик; true — пора перезагружаться.
func (s *DashboardService) tickCountdown() bool {
	s.countdownMu.Lock()
	defer s.countdownMu.Unlock()
	s.countdown--
	if s.countdown <= 0 {
		s.countdown = int(s.cfg.RefreshInterval / time.Second)
		return true
	}
	return false
}

func (s *DashboardService) resetCountdown() {
	s.countdownMu.Lock()
	s.countdown = int(s.cfg.RefreshInterval / time.Second)
	s.countdownMu.Unlock()
}

// FormatTimeLeft — остаток отсчёта в виде "M:SS" для шапки дашборда.
func (s *DashboardService) FormatTimeLeft() string {
	s.countdownMu.Lock()
	left := s.countdown
	s.countdownMu.Unlock()
	return fmt.Sprintf("%d:%02d", left/60, left%60)
}
