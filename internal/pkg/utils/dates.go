package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate разбирает дату YYYY-MM-DD в заданном часовом поясе
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// DayBounds возвращает [начало дня, начало следующего дня) для момента t в поясе loc
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// SameDay сравнивает календарные дни (год, месяц, день) в поясе loc
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// FormatDay - ключ дня для кеша и событий
func FormatDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}
