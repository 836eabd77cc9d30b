package formatting

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/meeting_bot/internal/model"
)

var weekdayShort = []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

var monthNames = map[time.Month]string{
	time.January:   "Январь",
	time.February:  "Февраль",
	time.March:     "Март",
	time.April:     "Апрель",
	time.May:       "Май",
	time.June:      "Июнь",
	time.July:      "Июль",
	time.August:    "Август",
	time.September: "Сентябрь",
	time.October:   "Октябрь",
	time.November:  "Ноябрь",
	time.December:  "Декабрь",
}

var monthGenitive = map[time.Month]string{
	time.January:   "января",
	time.February:  "февраля",
	time.March:     "марта",
	time.April:     "апреля",
	time.May:       "мая",
	time.June:      "июня",
	time.July:      "июля",
	time.August:    "августа",
	time.September: "сентября",
	time.October:   "октября",
	time.November:  "ноября",
	time.December:  "декабря",
}

// GetWeekdayShort возвращает короткое название дня недели
func GetWeekdayShort(weekday time.Weekday) string {
	if weekday >= 0 && int(weekday) < len(weekdayShort) {
		return weekdayShort[weekday]
	}
	return "?"
}

// GetMonthName возвращает название месяца на русском
func GetMonthName(month time.Month) string {
	return monthNames[month]
}

// FormatDate форматирует дату YYYY-MM-DD как "Пт, 16 октября 2026"
// Нераспознанная строка возвращается как есть
func FormatDate(iso string) string {
	t, err := model.ParseISODate(iso)
	if err != nil {
		return iso
	}
	return fmt.Sprintf("%s, %d %s %d", GetWeekdayShort(t.Weekday()), t.Day(), monthGenitive[t.Month()], t.Year())
}

// FormatShortDate форматирует дату YYYY-MM-DD как "16.10"
func FormatShortDate(iso string) string {
	t, err := model.ParseISODate(iso)
	if err != nil {
		return iso
	}
	return t.Format("02.01")
}

// FormatMonth форматирует месяц как "Октябрь 2026"
func FormatMonth(t time.Time) string {
	return fmt.Sprintf("%s %d", GetMonthName(t.Month()), t.Year())
}
