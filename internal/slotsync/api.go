package slotsync

import (
	"context"

	"github.com/Freeeeeet/meeting_bot/internal/api"
	"github.com/Freeeeeet/meeting_bot/internal/model"
)

// ScheduleAPI операции расписания, нужные экранам
type ScheduleAPI interface {
	AvailableSlots(ctx context.Context, date string) ([]api.AvailableSlot, error)
	SetAvailability(ctx context.Context, req api.SetAvailabilityRequest) error
}

// MeetingAPI операции со встречами, нужные экранам
type MeetingAPI interface {
	CreateMeeting(ctx context.Context, req api.CreateMeetingRequest) (*model.Meeting, error)
	FutureMeetingsForProfessor(ctx context.Context) ([]model.Meeting, error)
	CancelMeeting(ctx context.Context, id, reason string) error
}
