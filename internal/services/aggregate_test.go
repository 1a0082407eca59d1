package services

import (
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glpi-dashboard/internal/entities"
	"glpi-dashboard/pkg/types"
)

var testNow = time.Date(2026, 2, 20, 12, 0, 0, 0, time.Local)

func TestBuildSnapshot_Growth(t *testing.T) {
	t.Run("Пустая база сравнения даёт 0%, а не бесконечность", func(t *testing.T) {
		snap := BuildSnapshot([]entities.Ticket{solvedTicket(1, 3600, false)}, nil, types.DefaultGoals(), testNow)

		assert.Equal(t, 0.0, snap.KPIs.Growth.Current)
		assert.Equal(t, "0.0%", snap.KPIs.Growth.Formatted)
	})

	t.Run("Рост со знаком плюс", func(t *testing.T) {
		curr := []entities.Ticket{solvedTicket(1, 3600, false), solvedTicket(2, 3600, false), solvedTicket(3, 3600, false), solvedTicket(4, 3600, false), solvedTicket(5, 3600, false)}
		prev := []entities.Ticket{solvedTicket(6, 3600, false), solvedTicket(7, 3600, false), solvedTicket(8, 3600, false), solvedTicket(9, 3600, false)}

		snap := BuildSnapshot(curr, prev, types.DefaultGoals(), testNow)

		assert.Equal(t, int64(5), snap.KPIs.TotalTickets)
		assert.Equal(t, int64(4), snap.KPIs.PreviousTotal)
		assert.Equal(t, 25.0, snap.KPIs.Growth.Current)
		assert.Equal(t, "+25.0%", snap.KPIs.Growth.Formatted)
	})

	t.Run("Падение без плюса", func(t *testing.T) {
		curr := []entities.Ticket{solvedTicket(1, 3600, false)}
		prev := []entities.Ticket{solvedTicket(2, 3600, false), solvedTicket(3, 3600, false)}

		snap := BuildSnapshot(curr, prev, types.DefaultGoals(), testNow)

		assert.Equal(t, -50.0, snap.KPIs.Growth.Current)
		assert.Equal(t, "-50.0%", snap.KPIs.Growth.Formatted)
	})
}

func TestBuildSnapshot_FCR(t *testing.T) {
	t.Run("Считаются только решённые и закрытые", func(t *testing.T) {
		open := openTicket(4, testNow.Add(time.Hour))
		open.FCRFlag = true // открытая заявка в FCR не участвует, даже с флагом

		curr := []entities.Ticket{
			solvedTicket(1, 3600, true),
			solvedTicket(2, 3600, true),
			solvedTicket(3, 3600, false),
			open,
		}

		snap := BuildSnapshot(curr, nil, types.DefaultGoals(), testNow)

		assert.Equal(t, 66.7, snap.KPIs.FCRRate.Current)
		assert.Equal(t, "66.7", snap.KPIs.FCRRate.Formatted)
	})

	t.Run("Без решённых заявок FCR равен нулю", func(t *testing.T) {
		snap := BuildSnapshot([]entities.Ticket{openTicket(1, testNow.Add(time.Hour))}, nil, types.DefaultGoals(), testNow)
		assert.Equal(t, 0.0, snap.KPIs.FCRRate.Current)
	})
}

func TestBuildSnapshot_SLACompliance(t *testing.T) {
	curr := make([]entities.Ticket, 0, 10)
	for i := 0; i < 10; i++ {
		tk := solvedTicket(uint64(i+1), 3600, false)
		tk.IsSLAViolated = i < 3
		curr = append(curr, tk)
	}

	snap := BuildSnapshot(curr, nil, types.DefaultGoals(), testNow)

	assert.Equal(t, 70.0, snap.KPIs.SLACompliance.Current)
	assert.Equal(t, "70.0", snap.KPIs.SLACompliance.Formatted)
}

func TestBuildSnapshot_TimeByPriority(t *testing.T) {
	// Medium: две решённые (1ч и 2ч) и одна с нулевой длительностью.
	// Среднее — только по положительным, доля объёма — по всем трём.
	a := solvedTicket(1, 3600, false)
	b := solvedTicket(2, 7200, false)
	c := openTicket(3, testNow.Add(48*time.Hour))
	c.PriorityLabel = "Medium"
	d := solvedTicket(4, 10800, false)
	d.PriorityLabel = "High"

	snap := BuildSnapshot([]entities.Ticket{a, b, c, d}, nil, types.DefaultGoals(), testNow)

	require.Len(t, snap.TimeByPriority, 2)

	medium := snap.TimeByPriority[0]
	assert.Equal(t, "Medium (75.0%)", medium.GroupName)
	assert.Equal(t, 1.5, medium.AvgHours)
	assert.Equal(t, 75.0, medium.SharePct)

	high := snap.TimeByPriority[1]
	assert.Equal(t, "High (25.0%)", high.GroupName)
	assert.Equal(t, 3.0, high.AvgHours)

	// Сводный KPI — простое среднее по приоритетам: (1.5 + 3.0) / 2
	assert.Equal(t, 2.3, snap.KPIs.AvgResolution.Current)
}

func TestBuildSnapshot_Groups(t *testing.T) {
	t.Run("Пустая категория и подразделение получают заглушки", func(t *testing.T) {
		tk := solvedTicket(1, 3600, false)
		tk.CategoryName = null.String{}
		tk.DeptName = null.StringFrom("")

		snap := BuildSnapshot([]entities.Ticket{tk}, nil, types.DefaultGoals(), testNow)

		require.Len(t, snap.TopCategories, 1)
		assert.Equal(t, "Без категории", snap.TopCategories[0].GroupName)
		require.Len(t, snap.TopDepartments, 1)
		assert.Equal(t, "Неизвестно (100.0%)", snap.TopDepartments[0].GroupName)
	})

	t.Run("Топ категорий обрезается до десяти, равные — в порядке появления", func(t *testing.T) {
		curr := make([]entities.Ticket, 0, 12)
		names := []string{"К01", "К02", "К03", "К04", "К05", "К06", "К07", "К08", "К09", "К10", "К11", "К12"}
		for i, name := range names {
			tk := solvedTicket(uint64(i+1), 3600, false)
			tk.CategoryName = null.StringFrom(name)
			curr = append(curr, tk)
		}

		snap := BuildSnapshot(curr, nil, types.DefaultGoals(), testNow)

		require.Len(t, snap.TopCategories, 10)
		for i := range snap.TopCategories {
			// Все счётчики равны, порядок должен совпасть с порядком появления
			assert.Equal(t, names[i], snap.TopCategories[i].GroupName)
			assert.Equal(t, int64(1), snap.TopCategories[i].Count)
		}
	})

	t.Run("Статусы отсортированы по убыванию и подписаны долей", func(t *testing.T) {
		curr := []entities.Ticket{
			openTicket(1, testNow.Add(time.Hour)),
			solvedTicket(2, 3600, false),
			solvedTicket(3, 3600, false),
			solvedTicket(4, 3600, false),
		}

		snap := BuildSnapshot(curr, nil, types.DefaultGoals(), testNow)

		require.Len(t, snap.StatusBreakdown, 2)
		assert.Equal(t, "Solved (75.0%)", snap.StatusBreakdown[0].GroupName)
		assert.Equal(t, int64(3), snap.StatusBreakdown[0].Count)
		assert.Equal(t, "Processing (assigned) (25.0%)", snap.StatusBreakdown[1].GroupName)
	})

	t.Run("Сумма долей по статусам близка к 100", func(t *testing.T) {
		curr := []entities.Ticket{
			openTicket(1, testNow.Add(time.Hour)),
			solvedTicket(2, 3600, false),
			solvedTicket(3, 3600, false),
		}

		snap := BuildSnapshot(curr, nil, types.DefaultGoals(), testNow)

		var sum float64
		for _, g := range snap.StatusBreakdown {
			sum += g.SharePct
		}
		assert.InDelta(t, 100.0, sum, 0.2)
	})
}

func TestBuildSnapshot_DailyTrend(t *testing.T) {
	days := []string{"2026-02-12", "2026-02-03", "2026-02-12", "2026-02-07"}
	curr := make([]entities.Ticket, 0, len(days))
	for i, day := range days {
		tk := solvedTicket(uint64(i+1), 3600, false)
		tk.DateCreation, _ = time.ParseInLocation(dateLayout, day, time.Local)
		curr = append(curr, tk)
	}

	snap := BuildSnapshot(curr, nil, types.DefaultGoals(), testNow)

	require.Len(t, snap.DailyTrend, 3)
	assert.Equal(t, "2026-02-03", snap.DailyTrend[0].Label)
	assert.Equal(t, "2026-02-07", snap.DailyTrend[1].Label)
	assert.Equal(t, "2026-02-12", snap.DailyTrend[2].Label)
	assert.Equal(t, int64(2), snap.DailyTrend[2].Value)
}

func TestBuildSnapshot_Empty(t *testing.T) {
	snap := BuildSnapshot(nil, nil, types.DefaultGoals(), testNow)

	assert.Equal(t, int64(0), snap.KPIs.TotalTickets)
	assert.Equal(t, 0.0, snap.KPIs.Growth.Current)
	assert.Equal(t, 0.0, snap.KPIs.SLACompliance.Current)
	assert.Equal(t, 0.0, snap.KPIs.AvgResolution.Current)
	assert.Empty(t, snap.StatusBreakdown)
	assert.Empty(t, snap.DailyTrend)
}
