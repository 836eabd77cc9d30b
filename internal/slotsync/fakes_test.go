package slotsync

import (
	"context"
	"errors"
	"sync"

	"github.com/Freeeeeet/meeting_bot/internal/api"
	"github.com/Freeeeeet/meeting_bot/internal/model"
)

var errServer = errors.New("status 500")

func boolPtr(v bool) *bool { return &v }

type fakeScheduleAPI struct {
	mu         sync.Mutex
	available  map[string][]api.AvailableSlot
	loadErr    error
	setErr     error
	setCalls   []api.SetAvailabilityRequest
	loadCalls  []string
	beforeLoad func(date string)
	beforeSet  func(req api.SetAvailabilityRequest)
}

func newFakeScheduleAPI() *fakeScheduleAPI {
	return &fakeScheduleAPI{available: make(map[string][]api.AvailableSlot)}
}

func (f *fakeScheduleAPI) AvailableSlots(ctx context.Context, date string) ([]api.AvailableSlot, error) {
	if f.beforeLoad != nil {
		f.beforeLoad(date)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadCalls = append(f.loadCalls, date)
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]api.AvailableSlot(nil), f.available[date]...), nil
}

func (f *fakeScheduleAPI) SetAvailability(ctx context.Context, req api.SetAvailabilityRequest) error {
	if f.beforeSet != nil {
		f.beforeSet(req)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls = append(f.setCalls, req)
	return f.setErr
}

func (f *fakeScheduleAPI) sets() []api.SetAvailabilityRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.SetAvailabilityRequest(nil), f.setCalls...)
}

type fakeMeetingAPI struct {
	mu          sync.Mutex
	meetings    []model.Meeting
	listErr     error
	createErr   error
	cancelErr   error
	created     []api.CreateMeetingRequest
	canceled    map[string]string
	beforeWrite func()
}

func newFakeMeetingAPI(meetings ...model.Meeting) *fakeMeetingAPI {
	return &fakeMeetingAPI{meetings: meetings, canceled: make(map[string]string)}
}

func (f *fakeMeetingAPI) CreateMeeting(ctx context.Context, req api.CreateMeetingRequest) (*model.Meeting, error) {
	if f.beforeWrite != nil {
		f.beforeWrite()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &model.Meeting{
		ID:        "m-new",
		Date:      req.Date,
		TimeSlot:  req.TimeSlot,
		Reason:    req.Reason,
		StudentID: req.UserID,
	}, nil
}

func (f *fakeMeetingAPI) FutureMeetingsForProfessor(ctx context.Context) ([]model.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Meeting(nil), f.meetings...), nil
}

func (f *fakeMeetingAPI) CancelMeeting(ctx context.Context, id, reason string) error {
	if f.beforeWrite != nil {
		f.beforeWrite()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.canceled[id] = reason
	return nil
}

func (f *fakeMeetingAPI) createCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *fakeMeetingAPI) cancelCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.canceled)
}
