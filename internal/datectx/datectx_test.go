package datectx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func TestDefaultsToToday(t *testing.T) {
	sd := New(fixedNow)
	assert.Equal(t, "2026-10-16", sd.Get())
}

func TestSetReplacesAndNotifies(t *testing.T) {
	sd := New(fixedNow)

	var calls [][2]string
	unsubscribe := sd.Subscribe(func(old, new string) {
		calls = append(calls, [2]string{old, new})
	})

	require.NoError(t, sd.Set("2026-10-20"))
	assert.Equal(t, "2026-10-20", sd.Get())

	// то же значение - без уведомления
	require.NoError(t, sd.Set("2026-10-20"))
	require.Len(t, calls, 1)
	assert.Equal(t, [2]string{"2026-10-16", "2026-10-20"}, calls[0])

	unsubscribe()
	require.NoError(t, sd.Set("2026-10-21"))
	assert.Len(t, calls, 1)
}

func TestSetRejectsInvalidDate(t *testing.T) {
	sd := New(fixedNow)
	assert.ErrorIs(t, sd.Set("20/10/2026"), ErrInvalidDate)
	assert.Equal(t, "2026-10-16", sd.Get())
}

func TestListenerCanReadStore(t *testing.T) {
	sd := New(fixedNow)
	var seen string
	sd.Subscribe(func(_, _ string) { seen = sd.Get() })

	require.NoError(t, sd.Set("2026-11-01"))
	assert.Equal(t, "2026-11-01", seen)
}

func TestFromPanicsWithoutStore(t *testing.T) {
	assert.Panics(t, func() { From(context.Background()) })

	sd := New(fixedNow)
	ctx := WithSelectedDate(context.Background(), sd)
	assert.Same(t, sd, From(ctx))
}

func TestRegistryIsPerUser(t *testing.T) {
	reg := NewRegistry(func() time.Time { return fixedNow })

	a := reg.For(1)
	require.NoError(t, a.Set("2026-12-01"))
	assert.Same(t, a, reg.For(1))
	assert.Equal(t, "2026-10-16", reg.For(2).Get())

	reg.Drop(1)
	assert.Equal(t, "2026-10-16", reg.For(1).Get())
}
