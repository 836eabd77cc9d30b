package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Freeeeeet/meeting_bot/internal/api"
	"github.com/Freeeeeet/meeting_bot/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memorySessionStore struct {
	sessions   map[int64]*model.Session
	purgeNow   time.Time
	purgeTTL   time.Duration
	failDelete bool
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[int64]*model.Session)}
}

func (m *memorySessionStore) Upsert(_ context.Context, s *model.Session) error {
	cp := *s
	m.sessions[s.TelegramID] = &cp
	return nil
}

func (m *memorySessionStore) GetByTelegramID(_ context.Context, id int64) (*model.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memorySessionStore) SetSelectedDate(_ context.Context, id int64, date string) error {
	if s, ok := m.sessions[id]; ok {
		s.SelectedDate = date
	}
	return nil
}

func (m *memorySessionStore) Delete(_ context.Context, id int64) error {
	if m.failDelete {
		return errors.New("db down")
	}
	delete(m.sessions, id)
	return nil
}

func (m *memorySessionStore) DeleteExpired(_ context.Context, now time.Time, ttl time.Duration) (int64, error) {
	m.purgeNow, m.purgeTTL = now, ttl
	var removed int64
	for id, s := range m.sessions {
		if s.IsExpired(now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}

type stubAuth struct {
	resp *api.LoginResponse
	err  error
	req  api.LoginRequest
}

func (s *stubAuth) Login(_ context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	s.req = req
	return s.resp, s.err
}

var now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	raw, err := token.SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return raw
}

func newService(t *testing.T, auth *stubAuth) (*SessionService, *memorySessionStore) {
	t.Helper()
	store := newMemorySessionStore()
	svc := NewSessionService(store, auth, 720*time.Hour, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc, store
}

func TestLoginStoresSessionWithExpiry(t *testing.T) {
	exp := now.Add(2 * time.Hour).Truncate(time.Second)
	auth := &stubAuth{resp: &api.LoginResponse{
		Token: signedToken(t, exp),
		User:  model.User{ID: "u1", Name: "Ирина Петровна", Email: "irina@school.edu", Professor: true},
	}}
	svc, store := newService(t, auth)

	session, err := svc.Login(context.Background(), 42, " irina@school.edu ", "secret")
	require.NoError(t, err)

	assert.Equal(t, "irina@school.edu", auth.req.Email)
	assert.Equal(t, "u1", session.UserID)
	assert.True(t, session.Professor)
	require.NotNil(t, session.ExpiresAt)
	assert.True(t, exp.Equal(*session.ExpiresAt))
	assert.Contains(t, store.sessions, int64(42))
}

func TestLoginOpaqueTokenHasNoExpiry(t *testing.T) {
	auth := &stubAuth{resp: &api.LoginResponse{Token: "opaque", User: model.User{ID: "u2"}}}
	svc, _ := newService(t, auth)

	session, err := svc.Login(context.Background(), 7, "student@school.edu", "pw")
	require.NoError(t, err)
	assert.Nil(t, session.ExpiresAt)
	assert.Equal(t, "student@school.edu", session.Email)
}

func TestLoginRejectedCredentials(t *testing.T) {
	auth := &stubAuth{err: &api.Error{Method: http.MethodPost, Path: "/auth/login", StatusCode: http.StatusUnauthorized}}
	svc, store := newService(t, auth)

	_, err := svc.Login(context.Background(), 7, "student@school.edu", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, store.sessions)

	auth.err = errors.New("connection refused")
	_, err = svc.Login(context.Background(), 7, "student@school.edu", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestCurrentDropsExpiredSession(t *testing.T) {
	svc, store := newService(t, &stubAuth{})
	past := now.Add(-time.Minute)
	store.sessions[1] = &model.Session{TelegramID: 1, Token: "t", ExpiresAt: &past}
	store.sessions[2] = &model.Session{TelegramID: 2, Token: "t"}

	var dropped []int64
	svc.OnLogout(func(id int64) { dropped = append(dropped, id) })

	s, err := svc.Current(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.Equal(t, []int64{1}, dropped)

	s, err = svc.Current(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, s)

	s, err = svc.Current(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestLogoutRunsHooksOnlyOnSuccess(t *testing.T) {
	svc, store := newService(t, &stubAuth{})
	store.sessions[5] = &model.Session{TelegramID: 5}

	calls := 0
	svc.OnLogout(func(int64) { calls++ })

	store.failDelete = true
	require.Error(t, svc.Logout(context.Background(), 5))
	assert.Zero(t, calls)

	store.failDelete = false
	require.NoError(t, svc.Logout(context.Background(), 5))
	assert.Equal(t, 1, calls)
	assert.NotContains(t, store.sessions, int64(5))
}

func TestRememberDate(t *testing.T) {
	svc, store := newService(t, &stubAuth{})
	store.sessions[5] = &model.Session{TelegramID: 5}

	require.NoError(t, svc.RememberDate(context.Background(), 5, "2026-10-20"))
	assert.Equal(t, "2026-10-20", store.sessions[5].SelectedDate)
	assert.Error(t, svc.RememberDate(context.Background(), 5, "20.10.2026"))
}

func TestPurgeExpiredPassesClockAndTTL(t *testing.T) {
	svc, store := newService(t, &stubAuth{})
	past := now.Add(-time.Hour)
	store.sessions[1] = &model.Session{TelegramID: 1, ExpiresAt: &past}

	removed, err := svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
	assert.Equal(t, now, store.purgeNow)
	assert.Equal(t, 720*time.Hour, store.purgeTTL)
}
