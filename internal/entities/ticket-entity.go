// Файл: internal/entities/ticket-entity.go
package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Статусы GLPI, которые считаются «закрытыми» для всех расчётов дашборда.
const (
	StatusSolvedID = 5
	StatusClosedID = 6

	StatusSolvedLabel = "Solved"
	StatusClosedLabel = "Closed"
)

// Ticket — строка представления dashboard_tickets.
// Данные приходят из GLPI только на чтение, мы их не мутируем.
type Ticket struct {
	ID            uint64      `json:"id" db:"id"`
	Name          string      `json:"name" db:"name"`
	DateCreation  time.Time   `json:"date_creation" db:"date_creation"`
	DateSolved    null.Time   `json:"date_solved" db:"date_solved"`
	DateClosed    null.Time   `json:"date_closed" db:"date_closed"`
	StatusID      int         `json:"status_id" db:"status_id"`
	StatusLabel   string      `json:"status_label" db:"status_label"`
	PriorityID    int         `json:"priority_id" db:"priority_id"`
	PriorityLabel string      `json:"priority_label" db:"priority_label"`
	CategoryName  null.String `json:"category_name" db:"category_name"`
	LocationName  null.String `json:"location_name" db:"location_name"`
	DeptName      null.String `json:"department_name" db:"department_name"`

	// TimeToResolve — фактическое время решения в секундах, 0 у нерешённых.
	TimeToResolve int64 `json:"time_to_resolve" db:"time_to_resolve"`

	IsSLAViolated bool `json:"is_sla_violated" db:"is_sla_violated"`
	// FCRFlag true, если заявка решена не более чем с одним фоллоу-апом.
	FCRFlag bool `json:"count_cless_one_hour" db:"count_cless_one_hour"`

	SLATimeLimit null.Time `json:"sla_time_limit" db:"sla_time_limit"`
}

// IsClosed: заявка в финальном статусе (Solved или Closed).
func (t Ticket) IsClosed() bool {
	return t.StatusID == StatusSolvedID || t.StatusID == StatusClosedID
}

// IsOpenUnsolved сообщает, считается ли заявка открытой для правила
// «скоро истекает SLA»: нет даты решения и статус не финальный.
// Дата решения проверяется отдельно от статуса: статус в выгрузке
// может отставать от факта решения.
func (t Ticket) IsOpenUnsolved() bool {
	return !t.DateSolved.Valid && !t.IsClosed()
}
