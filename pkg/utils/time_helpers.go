package utils

import (
	"fmt"
	"time"
)

const (
	DateFormat       = "2006-01-02"
	GermanDateFormat = "02.01.2006"
	TimeFormat       = "2006-01-02 15:04:05"
)

// ParseDate принимает "2006-01-02" или RFC3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateFormat, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("некорректная дата %q: %w", s, err)
	}
	return t, nil
}

// ParseDatePtr - пустая строка даёт nil.
func ParseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func FormatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateFormat)
	return &s
}

func FormatGermanDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(GermanDateFormat)
}

// TruncateDay отбрасывает время, оставляя календарный день в той же зоне.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatMinutes преобразует минуты в строку вида "1h 30min".
func FormatMinutes(total int) string {
	if total <= 0 {
		return "0min"
	}
	h, m := total/60, total%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dmin", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dmin", h, m)
	}
}
