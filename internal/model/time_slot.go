package model

// TimeSlot один период внутри сегмента дня, привязанный к выбранной дате
type TimeSlot struct {
	Label     string `json:"timeSlot"`
	Available bool   `json:"available"`
}

// CloneSlots возвращает копию списка слотов
func CloneSlots(slots []TimeSlot) []TimeSlot {
	if slots == nil {
		return nil
	}
	out := make([]TimeSlot, len(slots))
	copy(out, slots)
	return out
}

// IndexOfSlot возвращает позицию слота с меткой label или -1
func IndexOfSlot(slots []TimeSlot, label string) int {
	for i, s := range slots {
		if s.Label == label {
			return i
		}
	}
	return -1
}
