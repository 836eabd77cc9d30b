package slotsync

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/meeting_bot/internal/model"
	"go.uber.org/zap"
)

// MeetingsState список будущих встреч и режим подтверждения отмены
type MeetingsState struct {
	Loaded       bool
	Meetings     []model.Meeting
	Canceling    string
	CancelReason string
}

// MeetingsView экран преподавателя: будущие встречи и их отмена
type MeetingsView struct {
	api     MeetingAPI
	state   State[MeetingsState]
	gen     Generation
	pending InFlight
	logger  *zap.Logger
}

// NewMeetingsView создаёт экран встреч
func NewMeetingsView(meetingAPI MeetingAPI, logger *zap.Logger) *MeetingsView {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MeetingsView{api: meetingAPI, logger: logger}
}

// Snapshot копия состояния экрана
func (v *MeetingsView) Snapshot() MeetingsState {
	st := v.state.Get()
	st.Meetings = append([]model.Meeting(nil), st.Meetings...)
	return st
}

// Pending проверяет, отправляется ли отмена встречи
func (v *MeetingsView) Pending(id string) bool {
	return v.pending.Busy(id)
}

// Load загружает будущие встречи, отбрасывая уже отменённые
func (v *MeetingsView) Load(ctx context.Context) ([]model.Meeting, error) {
	token := v.gen.Next()

	meetings, err := v.api.FutureMeetingsForProfessor(ctx)
	if !v.gen.IsCurrent(token) {
		return v.Snapshot().Meetings, ErrStale
	}
	if err != nil {
		v.logger.Error("Failed to load meetings", zap.Error(err))
		return v.Snapshot().Meetings, fmt.Errorf("load meetings: %w", err)
	}

	active := model.ActiveMeetings(meetings)
	v.state.Update(func(st MeetingsState) MeetingsState {
		next := MeetingsState{Loaded: true, Meetings: active}
		for _, m := range active {
			if m.ID == st.Canceling {
				next.Canceling = st.Canceling
				next.CancelReason = st.CancelReason
				break
			}
		}
		return next
	})

	v.logger.Info("Meetings loaded", zap.Int("count", len(active)))
	return append([]model.Meeting(nil), active...), nil
}

// BeginCancel переводит встречу в режим подтверждения отмены; одновременно только одна
func (v *MeetingsView) BeginCancel(id string) error {
	var err error
	v.state.Update(func(st MeetingsState) MeetingsState {
		if !containsMeeting(st.Meetings, id) {
			err = ErrUnknownMeeting
			return st
		}
		if st.Canceling != id {
			st.CancelReason = ""
		}
		st.Canceling = id
		return st
	})
	return err
}

// AbortCancel выходит из режима подтверждения
func (v *MeetingsView) AbortCancel() {
	v.state.Update(func(st MeetingsState) MeetingsState {
		st.Canceling = ""
		st.CancelReason = ""
		return st
	})
}

// SetCancelReason запоминает причину отмены
func (v *MeetingsView) SetCancelReason(text string) {
	v.state.Update(func(st MeetingsState) MeetingsState {
		st.CancelReason = text
		return st
	})
}

// Cancel отменяет встречу, находящуюся в режиме подтверждения.
// Только подтверждённая сервером отмена убирает встречу из списка.
func (v *MeetingsView) Cancel(ctx context.Context) (string, error) {
	st := v.state.Get()
	if st.Canceling == "" {
		return "", ErrNoMeetingSelected
	}
	if strings.TrimSpace(st.CancelReason) == "" {
		return st.Canceling, ErrReasonRequired
	}
	id := st.Canceling

	err := Mutate(ctx, &v.state, &v.pending, id,
		func(ctx context.Context, snapshot MeetingsState) error {
			return v.api.CancelMeeting(ctx, id, snapshot.CancelReason)
		},
		func(cur MeetingsState) MeetingsState {
			meetings := make([]model.Meeting, 0, len(cur.Meetings))
			for _, m := range cur.Meetings {
				if m.ID != id {
					meetings = append(meetings, m)
				}
			}
			cur.Meetings = meetings
			if cur.Canceling == id {
				cur.Canceling = ""
				cur.CancelReason = ""
			}
			return cur
		},
	)
	if err != nil {
		v.logger.Error("Failed to cancel meeting",
			zap.String("meeting_id", id),
			zap.Error(err))
		return id, err
	}

	v.logger.Info("Meeting canceled", zap.String("meeting_id", id))
	return id, nil
}

func containsMeeting(meetings []model.Meeting, id string) bool {
	for _, m := range meetings {
		if m.ID == id {
			return true
		}
	}
	return false
}
