package dto

import "glpi-dashboard/pkg/types"

// DashboardStatsDTO — всё, что нужно одному экрану дашборда за один запрос.
type DashboardStatsDTO struct {
	Snapshot    *types.DashboardSnapshot `json:"snapshot"`
	Overdue     types.OverdueState       `json:"overdue"`
	Goals       types.Goals              `json:"goals"`
	RefreshIn   string                   `json:"refresh_in"` // "M:SS"
	DateFrom    string                   `json:"date_from"`
	DateTo      string                   `json:"date_to"`
	CompareFrom string                   `json:"compare_from"`
	CompareTo   string                   `json:"compare_to"`
}

// DateRangeDTO — фильтр периода, задаваемый пользователем.
type DateRangeDTO struct {
	DateFrom string `json:"date_from" validate:"required"`
	DateTo   string `json:"date_to" validate:"required"`
}

// UpdateGoalsDTO — редактирование целевых показателей.
type UpdateGoalsDTO struct {
	SLA  float64 `json:"sla" validate:"min=0,max=100"`
	FCR  float64 `json:"fcr" validate:"min=0,max=100"`
	Time float64 `json:"time" validate:"min=0"`
}

type RankingQueryDTO struct {
	DateFrom string `query:"date_from" validate:"required"`
	DateTo   string `query:"date_to" validate:"required"`
}
