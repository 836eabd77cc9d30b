package slotsync

import "errors"

// Ошибки валидации - показываются в экране, в сеть не уходят
var (
	ErrReasonRequired    = errors.New("reason is required")
	ErrNoSlotSelected    = errors.New("no slot selected")
	ErrSlotUnavailable   = errors.New("slot is not available")
	ErrNoMeetingSelected = errors.New("no meeting selected for cancellation")
)

// Ошибки состояния экрана
var (
	ErrUnknownSlot    = errors.New("unknown slot")
	ErrUnknownMeeting = errors.New("unknown meeting")
	ErrNotLoaded      = errors.New("view is not loaded")
	ErrInFlight       = errors.New("mutation already in progress")
	ErrStale          = errors.New("response superseded by a newer request")
)

// IsValidation проверяет, что ошибка относится к локальной валидации формы
func IsValidation(err error) bool {
	return errors.Is(err, ErrReasonRequired) ||
		errors.Is(err, ErrNoSlotSelected) ||
		errors.Is(err, ErrSlotUnavailable) ||
		errors.Is(err, ErrNoMeetingSelected)
}
