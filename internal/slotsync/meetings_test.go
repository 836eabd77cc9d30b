package slotsync

import (
	"context"
	"testing"

	"github.com/Freeeeeet/meeting_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMeetings(t *testing.T) (*MeetingsView, *fakeMeetingAPI) {
	t.Helper()
	fake := newFakeMeetingAPI(
		model.Meeting{ID: "m1", Date: dateA, TimeSlot: "18:00 - 18:15", Reason: "Курсовая"},
		model.Meeting{ID: "m2", Date: dateA, TimeSlot: "18:15 - 18:30", Reason: "Диплом", Canceled: true},
		model.Meeting{ID: "m3", Date: dateB, TimeSlot: "19:00 - 19:15", Reason: "Экзамен"},
	)
	return NewMeetingsView(fake, zap.NewNop()), fake
}

func ids(meetings []model.Meeting) []string {
	out := make([]string, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, m.ID)
	}
	return out
}

func TestMeetingsLoadFiltersCanceled(t *testing.T) {
	v, _ := newMeetings(t)

	meetings, err := v.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m3"}, ids(meetings))
	assert.True(t, v.Snapshot().Loaded)
}

func TestMeetingsCancelRequiresReason(t *testing.T) {
	v, fake := newMeetings(t)
	_, err := v.Load(context.Background())
	require.NoError(t, err)

	_, err = v.Cancel(context.Background())
	assert.ErrorIs(t, err, ErrNoMeetingSelected)

	require.NoError(t, v.BeginCancel("m1"))
	v.SetCancelReason(" ")
	id, err := v.Cancel(context.Background())
	assert.Equal(t, "m1", id)
	assert.ErrorIs(t, err, ErrReasonRequired)
	assert.Zero(t, fake.cancelCalls())
}

func TestMeetingsBeginCancelReplacesPrevious(t *testing.T) {
	v, _ := newMeetings(t)
	_, err := v.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, v.BeginCancel("m1"))
	v.SetCancelReason("Болезнь")
	require.NoError(t, v.BeginCancel("m3"))

	st := v.Snapshot()
	assert.Equal(t, "m3", st.Canceling)
	assert.Empty(t, st.CancelReason)

	assert.ErrorIs(t, v.BeginCancel("m2"), ErrUnknownMeeting)

	v.AbortCancel()
	assert.Empty(t, v.Snapshot().Canceling)
}

func TestMeetingsCancelSuccessRemovesExactlyOne(t *testing.T) {
	v, fake := newMeetings(t)
	_, err := v.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, v.BeginCancel("m1"))
	v.SetCancelReason("Болезнь")
	id, err := v.Cancel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "m1", id)

	assert.Equal(t, "Болезнь", fake.canceled["m1"])
	st := v.Snapshot()
	assert.Equal(t, []string{"m3"}, ids(st.Meetings))
	assert.Empty(t, st.Canceling)
	assert.Empty(t, st.CancelReason)
}

func TestMeetingsCancelFailureKeepsConfirmMode(t *testing.T) {
	v, fake := newMeetings(t)
	_, err := v.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, v.BeginCancel("m3"))
	v.SetCancelReason("Болезнь")

	fake.cancelErr = errServer
	_, err = v.Cancel(context.Background())
	require.ErrorIs(t, err, errServer)

	st := v.Snapshot()
	assert.Equal(t, []string{"m1", "m3"}, ids(st.Meetings))
	assert.Equal(t, "m3", st.Canceling)
	assert.Equal(t, "Болезнь", st.CancelReason)
	assert.False(t, v.Pending("m3"))
}

func TestMeetingsCancelInFlightRejected(t *testing.T) {
	v, fake := newMeetings(t)
	_, err := v.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, v.BeginCancel("m1"))
	v.SetCancelReason("Болезнь")

	var inner error
	fake.beforeWrite = func() {
		fake.beforeWrite = nil
		assert.True(t, v.Pending("m1"))
		_, inner = v.Cancel(context.Background())
	}

	_, err = v.Cancel(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrInFlight)
}

func TestMeetingsLoadFailureKeepsList(t *testing.T) {
	v, fake := newMeetings(t)
	_, err := v.Load(context.Background())
	require.NoError(t, err)

	fake.listErr = errServer
	_, err = v.Load(context.Background())
	require.ErrorIs(t, err, errServer)
	assert.Equal(t, []string{"m1", "m3"}, ids(v.Snapshot().Meetings))
}
