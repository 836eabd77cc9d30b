package model

import (
	"fmt"
	"time"
)

// ISODateLayout формат выбранной даты (YYYY-MM-DD)
const ISODateLayout = "2006-01-02"

// ParseISODate разбирает дату в формате YYYY-MM-DD
func ParseISODate(s string) (time.Time, error) {
	t, err := time.Parse(ISODateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatISODate форматирует дату в YYYY-MM-DD
func FormatISODate(t time.Time) string {
	return t.Format(ISODateLayout)
}

// IsISODate проверяет формат даты
func IsISODate(s string) bool {
	_, err := time.Parse(ISODateLayout, s)
	return err == nil
}

// Today текущая дата клиента в UTC
func Today(now time.Time) string {
	return FormatISODate(now.UTC())
}
