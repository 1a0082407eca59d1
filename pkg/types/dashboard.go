package types

import "time"

// KPI Metric: сырое значение + готовая строка для UI (один знак после запятой).
type DashboardKPIMetric struct {
	Current   float64 `json:"current"`
	Formatted string  `json:"formatted"`
	Goal      float64 `json:"goal,omitempty"`
}

// KPI Groups
type DashboardKPIs struct {
	TotalTickets  int64              `json:"total_tickets"`
	PreviousTotal int64              `json:"previous_total"`
	Growth        DashboardKPIMetric `json:"growth"`
	FCRRate       DashboardKPIMetric `json:"fcr_rate"`
	SLACompliance DashboardKPIMetric `json:"sla_compliance"`
	AvgResolution DashboardKPIMetric `json:"avg_resolution"` // часы, среднее по приоритетам
}

// DashboardCountByGroup — строка сводной таблицы.
// GroupName уже содержит процент ("Hardware (12.5%)"), SharePct — сырое число.
type DashboardCountByGroup struct {
	GroupName string  `json:"group_name"`
	Count     int64   `json:"count"`
	SharePct  float64 `json:"share_pct"`
}

type DashboardTimeByPriority struct {
	GroupName string  `json:"group_name"`
	AvgHours  float64 `json:"avg_hours"`
	SharePct  float64 `json:"share_pct"`
}

type DashboardChartData struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// DashboardSnapshot — результат одного цикла агрегации.
// Живёт до следующей выборки, никуда не сохраняется.
type DashboardSnapshot struct {
	KPIs            DashboardKPIs             `json:"kpis"`
	StatusBreakdown []DashboardCountByGroup   `json:"status_breakdown"`
	TimeByPriority  []DashboardTimeByPriority `json:"time_by_priority"`
	TopCategories   []DashboardCountByGroup   `json:"top_categories"`
	TopDepartments  []DashboardCountByGroup   `json:"top_departments"`
	ByLocation      []DashboardCountByGroup   `json:"by_location"`
	DailyTrend      []DashboardChartData      `json:"daily_trend"`
	GeneratedAt     time.Time                 `json:"generated_at"`
}

// Goals — целевые показатели, настраиваются каждым пользователем отдельно.
type Goals struct {
	SLA  float64 `json:"sla"`
	FCR  float64 `json:"fcr"`
	Time float64 `json:"time"`
}

// DefaultGoals возвращает цели по умолчанию для нового пользователя.
func DefaultGoals() Goals {
	return Goals{SLA: 90, FCR: 80, Time: 4}
}

// OverdueState — живой счётчик просроченных заявок.
// Обновляется своим таймером, фильтр дат на него не влияет.
type OverdueState struct {
	Count      int64     `json:"count"`
	OldestText string    `json:"oldest_text,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}

// DashboardAlert — видимое уведомление, уходит на все экраны.
type DashboardAlert struct {
	ID       string    `json:"id"`
	Rule     string    `json:"rule"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Severity string    `json:"severity"` // warning | error
	Sound    bool      `json:"sound"`
	FiredAt  time.Time `json:"fired_at"`
}
