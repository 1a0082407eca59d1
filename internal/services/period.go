package services

import (
	"time"

	apperrors "glpi-dashboard/pkg/errors"
	"glpi-dashboard/pkg/types"
)

const dateLayout = "2006-01-02"

// ResolvePeriods превращает введённый пользователем диапазон дат в два
// интервала: текущий и сравнительный. Сравнительный — всегда ПОЛНЫЙ
// календарный месяц, предшествующий месяцу начала диапазона, от dateTo
// он не зависит.
//
// Пример: dateFrom=2026-02-05 → сравнение = 01.01.2026..31.01.2026,
// каким бы ни был dateTo.
//
// Порядок дат не проверяется: пустой диапазон даст пустую выборку,
// это не ошибка.
func ResolvePeriods(dateFrom, dateTo string) (current, comparison types.Period, err error) {
	start, err := time.ParseInLocation(dateLayout, dateFrom, time.Local)
	if err != nil {
		return current, comparison, apperrors.ErrInvalidPeriod
	}
	end, err := time.ParseInLocation(dateLayout, dateTo, time.Local)
	if err != nil {
		return current, comparison, apperrors.ErrInvalidPeriod
	}

	current = types.Period{From: startOfDay(start), To: endOfDay(end)}

	// time.Date нормализует нулевой месяц сам, январь обрабатывать отдельно не нужно
	prevMonthFirst := time.Date(start.Year(), start.Month()-1, 1, 0, 0, 0, 0, time.Local)
	prevMonthLast := prevMonthFirst.AddDate(0, 1, -1)

	comparison = types.Period{From: prevMonthFirst, To: endOfDay(prevMonthLast)}
	return current, comparison, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
