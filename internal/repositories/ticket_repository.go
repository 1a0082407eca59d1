package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"glpi-dashboard/internal/entities"
	"glpi-dashboard/pkg/types"
)

// Колонки представления dashboard_tickets в порядке сканирования.
var ticketColumns = []string{
	"id", "name", "date_creation", "date_solved", "date_closed",
	"status_id", "status_label", "priority_id", "priority_label",
	"category_name", "location_name", "department_name",
	"time_to_resolve", "is_sla_violated", "count_cless_one_hour",
	"sla_time_limit",
}

type TicketRepositoryInterface interface {
	// GetTicketsByCreationRange возвращает заявки, созданные внутри периода
	// (границы включительно, серверное время).
	GetTicketsByCreationRange(ctx context.Context, period types.Period) ([]entities.Ticket, error)
	// GetOverdueDeadlines возвращает дедлайны открытых заявок, у которых
	// SLA уже истёк, по возрастанию (самая старая просрочка первая).
	GetOverdueDeadlines(ctx context.Context, now time.Time) ([]time.Time, error)
	// GetTechnicianRanking вызывает серверную функцию ранжирования.
	GetTechnicianRanking(ctx context.Context, period types.Period) ([]entities.TechnicianRank, error)
}

type TicketRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTicketRepository(storage *pgxpool.Pool, logger *zap.Logger) TicketRepositoryInterface {
	return &TicketRepository{storage: storage, logger: logger}
}

func (r *TicketRepository) GetTicketsByCreationRange(ctx context.Context, period types.Period) ([]entities.Ticket, error) {
	query, args, err := sq.Select(ticketColumns...).
		From("dashboard_tickets").
		Where(sq.GtOrEq{"date_creation": period.From}).
		Where(sq.LtOrEq{"date_creation": period.To}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("не удалось получить заявки за период", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var tickets []entities.Ticket
	for rows.Next() {
		var t entities.Ticket
		err := rows.Scan(
			&t.ID, &t.Name, &t.DateCreation, &t.DateSolved, &t.DateClosed,
			&t.StatusID, &t.StatusLabel, &t.PriorityID, &t.PriorityLabel,
			&t.CategoryName, &t.LocationName, &t.DeptName,
			&t.TimeToResolve, &t.IsSLAViolated, &t.FCRFlag,
			&t.SLATimeLimit,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *TicketRepository) GetOverdueDeadlines(ctx context.Context, now time.Time) ([]time.Time, error) {
	query, args, err := sq.Select("sla_time_limit").
		From("dashboard_tickets").
		Where(sq.NotEq{"status_id": []int{entities.StatusSolvedID, entities.StatusClosedID}}).
		Where(sq.NotEq{"sla_time_limit": nil}).
		Where(sq.Lt{"sla_time_limit": now}).
		OrderBy("sla_time_limit ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("не удалось получить просроченные заявки", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var deadlines []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		deadlines = append(deadlines, d)
	}
	return deadlines, rows.Err()
}

func (r *TicketRepository) GetTechnicianRanking(ctx context.Context, period types.Period) ([]entities.TechnicianRank, error) {
	// Расчёт (включая байесовскую оценку) живёт в самой функции БД.
	rows, err := r.storage.Query(ctx,
		`SELECT technician_id, technician_name, solved_count, avg_hours, score
		   FROM get_technician_ranking($1, $2)`,
		period.From, period.To,
	)
	if err != nil {
		r.logger.Error("не удалось вызвать get_technician_ranking", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var ranking []entities.TechnicianRank
	for rows.Next() {
		var item entities.TechnicianRank
		if err := rows.Scan(&item.TechnicianID, &item.TechnicianName, &item.SolvedCount, &item.AvgHours, &item.Score); err != nil {
			return nil, err
		}
		ranking = append(ranking, item)
	}
	return ranking, rows.Err()
}
