package common

// ========================
// Callback Data Patterns
// ========================

const (
	CbPanel = "panel"
	CbNoop  = "noop"

	CbCalendar = "cal:"  // cal:2026-10
	CbPickDate = "pick:" // pick:2026-10-16

	// Professor
	CbNight         = "night:" // night:2026-10-16
	CbSegment       = "seg:"   // seg:evening
	CbToggleSlot    = "nt:"    // nt:evening:3 (индекс метки в сегменте)
	CbMeetings      = "mt"
	CbMeetingsPage  = "mp:" // mp:1
	CbCancelMeeting = "mc:" // mc:<meeting id>
	CbCancelAbort   = "mca"
	CbCancelConfirm = "mcc"

	// Student
	CbDay        = "day:" // day:2026-10-16
	CbSelectSlot = "ds:"  // ds:2
	CbBook       = "book"
)

// MeetingsPerPage встреч на одной странице списка
const MeetingsPerPage = 5
