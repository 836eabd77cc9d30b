package model

// Meeting встреча студента с преподавателем в конкретный слот
type Meeting struct {
	ID           string `json:"_id"`
	Date         string `json:"date"`
	TimeSlot     string `json:"timeSlot"`
	Reason       string `json:"reason"`
	StudentID    string `json:"studentId,omitempty"`
	Canceled     bool   `json:"canceled,omitempty"`
	CancelReason string `json:"cancelReason,omitempty"`
}

// ActiveMeetings отбрасывает отменённые встречи, сохраняя порядок
func ActiveMeetings(meetings []Meeting) []Meeting {
	out := make([]Meeting, 0, len(meetings))
	for _, m := range meetings {
		if !m.Canceled {
			out = append(out, m)
		}
	}
	return out
}
