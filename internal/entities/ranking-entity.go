// Файл: internal/entities/ranking-entity.go
package entities

// TechnicianRank — строка из функции get_technician_ranking.
// Рейтинг (байесовская оценка) считается на стороне БД,
// мы его только отдаём как есть.
type TechnicianRank struct {
	TechnicianID   uint64  `json:"technician_id" db:"technician_id"`
	TechnicianName string  `json:"technician_name" db:"technician_name"`
	SolvedCount    int64   `json:"solved_count" db:"solved_count"`
	AvgHours       float64 `json:"avg_hours" db:"avg_hours"`
	Score          float64 `json:"score" db:"score"`
}
