package types

import "time"

// Period — закрытый интервал [From 00:00:00, To 23:59:59] в серверном времени.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains сообщает, попадает ли момент t в интервал (границы включительно).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && !t.After(p.To)
}
