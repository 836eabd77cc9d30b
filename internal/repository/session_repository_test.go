package repository

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow отдаёт заранее заданные значения колонок
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

// fakeDB записывает последний запрос и его аргументы
type fakeDB struct {
	row fakeRow
	tag pgconn.CommandTag

	query string
	args  []any
}

func (d *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	d.query, d.args = sql, args
	return d.row
}

func (d *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.query, d.args = sql, args
	return d.tag, nil
}

func TestGetByTelegramIDMissingSession(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}

	s, err := NewSessionRepository(db).GetByTelegramID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.Equal(t, []any{int64(42)}, db.args)
}

func TestGetByTelegramIDScansSession(t *testing.T) {
	created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	db := &fakeDB{row: fakeRow{values: []any{
		int64(42), "u1", "Анна", "anna@example.com", true, "jwt",
		(*time.Time)(nil), "2026-10-16", created, created,
	}}}

	s, err := NewSessionRepository(db).GetByTelegramID(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "u1", s.UserID)
	assert.True(t, s.Professor)
	assert.Nil(t, s.ExpiresAt)
	assert.Equal(t, "2026-10-16", s.SelectedDate)
}

func TestSetSelectedDateWithoutSession(t *testing.T) {
	db := &fakeDB{tag: pgconn.NewCommandTag("UPDATE 0")}

	err := NewSessionRepository(db).SetSelectedDate(context.Background(), 42, "2026-10-16")
	assert.Error(t, err)
}

func TestDeleteExpiredUsesTTLCutoff(t *testing.T) {
	db := &fakeDB{tag: pgconn.NewCommandTag("DELETE 2")}
	now := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	removed, err := NewSessionRepository(db).DeleteExpired(context.Background(), now, 48*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)
	assert.Equal(t, []any{now, now.Add(-48 * time.Hour)}, db.args)
}
