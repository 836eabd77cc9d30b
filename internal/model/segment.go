package model

import (
	"fmt"
	"time"
)

// Названия сегментов дня
const (
	SegmentMorning   = "morning"
	SegmentAfternoon = "afternoon"
	SegmentEvening   = "evening"
)

// SlotStep длительность одного слота
const SlotStep = 15 * time.Minute

// Segment часть дня с фиксированным упорядоченным списком меток
type Segment struct {
	Name   string
	Title  string
	Labels []string
}

// NewSegment строит сегмент из меток вида "18:00 - 18:15" в интервале [start, end)
// start и end задаются как смещение от полуночи
func NewSegment(name, title string, start, end, step time.Duration) Segment {
	var labels []string
	for t := start; t+step <= end; t += step {
		labels = append(labels, fmt.Sprintf("%s - %s", clock(t), clock(t+step)))
	}
	return Segment{Name: name, Title: title, Labels: labels}
}

func clock(d time.Duration) string {
	minutes := int(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Slots возвращает метки сегмента как слоты без доступности
func (s Segment) Slots() []TimeSlot {
	slots := make([]TimeSlot, len(s.Labels))
	for i, label := range s.Labels {
		slots[i] = TimeSlot{Label: label}
	}
	return slots
}

var (
	Morning   = NewSegment(SegmentMorning, "Утро", 8*time.Hour, 12*time.Hour, SlotStep)
	Afternoon = NewSegment(SegmentAfternoon, "День", 13*time.Hour, 17*time.Hour, SlotStep)
	Evening   = NewSegment(SegmentEvening, "Вечер", 18*time.Hour, 22*time.Hour, SlotStep)
)

// Segments все сегменты в порядке следования в течение дня
func Segments() []Segment {
	return []Segment{Morning, Afternoon, Evening}
}

// SegmentByName ищет сегмент по имени
func SegmentByName(name string) (Segment, bool) {
	for _, s := range Segments() {
		if s.Name == name {
			return s, true
		}
	}
	return Segment{}, false
}
