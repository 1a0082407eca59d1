package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"glpi-dashboard/internal/entities"
	"glpi-dashboard/pkg/types"
)

// Подписи для заявок без категории/подразделения/локации.
const (
	labelNoCategory = "Без категории"
	labelUnknown    = "Неизвестно"
)

// groupCounter считает заявки по имени группы, запоминая порядок
// первого появления. Обычная map здесь не годится: при равных счётчиках
// порядок обхода map в Go случайный, а сортировка ниже стабильная.
type groupCounter struct {
	order  []string
	counts map[string]int64
}

func newGroupCounter() *groupCounter {
	return &groupCounter{counts: make(map[string]int64)}
}

func (g *groupCounter) add(name string) {
	if _, seen := g.counts[name]; !seen {
		g.order = append(g.order, name)
	}
	g.counts[name]++
}

// sortedDesc возвращает группы по убыванию счётчика; равные счётчики
// остаются в порядке первого появления.
func (g *groupCounter) sortedDesc() []types.DashboardCountByGroup {
	result := make([]types.DashboardCountByGroup, 0, len(g.order))
	for _, name := range g.order {
		result = append(result, types.DashboardCountByGroup{GroupName: name, Count: g.counts[name]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func withShare(name string, pct float64) string {
	return fmt.Sprintf("%s (%.1f%%)", name, pct)
}

// BuildSnapshot — чистая агрегация: (текущие заявки, заявки сравнительного
// периода, цели) → сводка дашборда. Никаких обращений к БД и часам,
// кроме отметки GeneratedAt.
func BuildSnapshot(curr, prev []entities.Ticket, goals types.Goals, now time.Time) *types.DashboardSnapshot {
	total := int64(len(curr))
	prevTotal := int64(len(prev))

	// Рост к прошлому месяцу. Пустая база сравнения — это 0%,
	// а не «бесконечный рост».
	var growth float64
	if prevTotal > 0 {
		growth = float64(total-prevTotal) / float64(prevTotal) * 100
	}
	growthFormatted := fmt.Sprintf("%.1f%%", growth)
	if growth > 0 {
		growthFormatted = "+" + growthFormatted
	}

	// 1. Разбивка по статусам
	statusGroups := newGroupCounter()
	for _, t := range curr {
		statusGroups.add(t.StatusLabel)
	}
	statusBreakdown := statusGroups.sortedDesc()
	for i := range statusBreakdown {
		pct := 0.0
		if total > 0 {
			pct = round1(float64(statusBreakdown[i].Count) / float64(total) * 100)
		}
		statusBreakdown[i].SharePct = pct
		statusBreakdown[i].GroupName = withShare(statusBreakdown[i].GroupName, pct)
	}

	// 2. FCR: из решённых/закрытых — сколько с не более чем одним фоллоу-апом
	var closedCount, fcrCount int64
	for _, t := range curr {
		if t.StatusLabel != entities.StatusSolvedLabel && t.StatusLabel != entities.StatusClosedLabel {
			continue
		}
		closedCount++
		if t.FCRFlag {
			fcrCount++
		}
	}
	var fcrRate float64
	if closedCount > 0 {
		fcrRate = round1(float64(fcrCount) / float64(closedCount) * 100)
	}

	// 3. SLA
	var violated int64
	for _, t := range curr {
		if t.IsSLAViolated {
			violated++
		}
	}
	var slaCompliance float64
	if total > 0 {
		slaCompliance = round1(float64(total-violated) / float64(total) * 100)
	}

	// 4. Среднее время решения по приоритетам.
	// В среднее входят только заявки с положительной длительностью,
	// а в долю объёма — все заявки приоритета. Это намеренная асимметрия:
	// нерешённая заявка не тянет среднее вниз, но объём работы отражает.
	type priorityBucket struct {
		posSum   int64
		posCount int64
		count    int64
	}
	priorityOrder := []string{}
	priorities := map[string]*priorityBucket{}
	for _, t := range curr {
		b, ok := priorities[t.PriorityLabel]
		if !ok {
			b = &priorityBucket{}
			priorities[t.PriorityLabel] = b
			priorityOrder = append(priorityOrder, t.PriorityLabel)
		}
		if t.TimeToResolve > 0 {
			b.posSum += t.TimeToResolve
			b.posCount++
		}
		b.count++
	}
	timeByPriority := make([]types.DashboardTimeByPriority, 0, len(priorityOrder))
	for _, p := range priorityOrder {
		b := priorities[p]
		var avgHours float64
		if b.posCount > 0 {
			avgHours = round1(float64(b.posSum) / float64(b.posCount) / 3600)
		}
		var share float64
		if total > 0 {
			share = round1(float64(b.count) / float64(total) * 100)
		}
		timeByPriority = append(timeByPriority, types.DashboardTimeByPriority{
			GroupName: withShare(p, share),
			AvgHours:  avgHours,
			SharePct:  share,
		})
	}

	// Сводный KPI времени — простое среднее по приоритетам
	var hoursSum float64
	for _, row := range timeByPriority {
		hoursSum += row.AvgHours
	}
	bucketCount := len(timeByPriority)
	if bucketCount == 0 {
		bucketCount = 1
	}
	avgResolution := round1(hoursSum / float64(bucketCount))

	// 5. Топ категорий (без процента в имени, как в легаси-витрине)
	categoryGroups := newGroupCounter()
	for _, t := range curr {
		categoryGroups.add(orLabel(t.CategoryName.Ptr(), labelNoCategory))
	}
	topCategories := truncateGroups(categoryGroups.sortedDesc(), 10)
	for i := range topCategories {
		if total > 0 {
			topCategories[i].SharePct = round1(float64(topCategories[i].Count) / float64(total) * 100)
		}
	}

	// 6. Топ подразделений
	deptGroups := newGroupCounter()
	for _, t := range curr {
		deptGroups.add(orLabel(t.DeptName.Ptr(), labelUnknown))
	}
	topDepartments := truncateGroups(deptGroups.sortedDesc(), 10)
	applyShares(topDepartments, total)

	// 7. Локации — без ограничения, их и так немного
	locationGroups := newGroupCounter()
	for _, t := range curr {
		locationGroups.add(orLabel(t.LocationName.Ptr(), labelUnknown))
	}
	byLocation := locationGroups.sortedDesc()
	applyShares(byLocation, total)

	// 8. Динамика по дням: ISO-даты сортируются лексикографически,
	// что совпадает с хронологией
	dailyGroups := newGroupCounter()
	for _, t := range curr {
		dailyGroups.add(t.DateCreation.Format(dateLayout))
	}
	days := make([]string, len(dailyGroups.order))
	copy(days, dailyGroups.order)
	sort.Strings(days)
	dailyTrend := make([]types.DashboardChartData, 0, len(days))
	for _, day := range days {
		dailyTrend = append(dailyTrend, types.DashboardChartData{Label: day, Value: dailyGroups.counts[day]})
	}

	return &types.DashboardSnapshot{
		KPIs: types.DashboardKPIs{
			TotalTickets:  total,
			PreviousTotal: prevTotal,
			Growth:        types.DashboardKPIMetric{Current: growth, Formatted: growthFormatted},
			FCRRate:       types.DashboardKPIMetric{Current: fcrRate, Formatted: fmt.Sprintf("%.1f", fcrRate), Goal: goals.FCR},
			SLACompliance: types.DashboardKPIMetric{Current: slaCompliance, Formatted: fmt.Sprintf("%.1f", slaCompliance), Goal: goals.SLA},
			AvgResolution: types.DashboardKPIMetric{Current: avgResolution, Formatted: fmt.Sprintf("%.1f", avgResolution), Goal: goals.Time},
		},
		StatusBreakdown: statusBreakdown,
		TimeByPriority:  timeByPriority,
		TopCategories:   topCategories,
		TopDepartments:  topDepartments,
		ByLocation:      byLocation,
		DailyTrend:      dailyTrend,
		GeneratedAt:     now,
	}
}

func orLabel(name *string, fallback string) string {
	if name == nil || *name == "" {
		return fallback
	}
	return *name
}

func truncateGroups(groups []types.DashboardCountByGroup, limit int) []types.DashboardCountByGroup {
	if len(groups) > limit {
		return groups[:limit]
	}
	return groups
}

func applyShares(groups []types.DashboardCountByGroup, total int64) {
	for i := range groups {
		var pct float64
		if total > 0 {
			pct = round1(float64(groups[i].Count) / float64(total) * 100)
		}
		groups[i].SharePct = pct
		groups[i].GroupName = withShare(groups[i].GroupName, pct)
	}
}
