package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatSecondsToHumanReadable(t *testing.T) {
	cases := []struct {
		seconds  uint64
		expected string
	}{
		{0, "0с"},
		{45, "45с"},
		{60, "1м"},
		{3600, "1ч"},
		{3665, "1ч 1м 5с"},
		{90000, "1д 1ч"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, FormatSecondsToHumanReadable(tc.seconds))
	}
}

func TestFormatDistance(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.Local)

	t.Run("Секунды отбрасываются начиная с минуты", func(t *testing.T) {
		assert.Equal(t, "2ч 5м", FormatDistance(now.Add(-2*time.Hour-5*time.Minute-33*time.Second), now))
	})

	t.Run("Меньше минуты — с секундами", func(t *testing.T) {
		assert.Equal(t, "40с", FormatDistance(now.Add(-40*time.Second), now))
	})

	t.Run("Порядок аргументов не важен", func(t *testing.T) {
		assert.Equal(t, "1д", FormatDistance(now.Add(24*time.Hour), now))
	})
}
