package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/meeting_bot/internal/api"
	"github.com/Freeeeeet/meeting_bot/internal/controller/screens"
	"github.com/Freeeeeet/meeting_bot/internal/controller/state"
	"github.com/Freeeeeet/meeting_bot/internal/datectx"
	"github.com/Freeeeeet/meeting_bot/internal/model"
	"github.com/Freeeeeet/meeting_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// telegramCall один запрос к Bot API
type telegramCall struct {
	Method string
	Fields map[string]string
}

// fakeTelegram отвечает на запросы Bot API и записывает их
type fakeTelegram struct {
	mu    sync.Mutex
	calls []telegramCall
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	fields := make(map[string]string)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var raw map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&raw)
		for k, v := range raw {
			if s, ok := v.(string); ok {
				fields[k] = s
				continue
			}
			b, _ := json.Marshal(v)
			fields[k] = string(b)
		}
	} else if err := r.ParseMultipartForm(1 << 20); err == nil {
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, telegramCall{Method: method, Fields: fields})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "deleteMessage", "answerCallbackQuery", "setMyCommands":
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
	default:
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":77,"date":0,"chat":{"id":1,"type":"private"}}}`))
	}
}

func (f *fakeTelegram) Calls(method string) []telegramCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []telegramCall
	for _, c := range f.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

type fakeSessions struct {
	session  *model.Session
	loginErr error

	email    string
	password string
	dates    []string
	logouts  int
}

func (f *fakeSessions) Login(_ context.Context, telegramID int64, email, password string) (*model.Session, error) {
	f.email, f.password = email, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.session = &model.Session{TelegramID: telegramID, Name: "Анна", Email: email, Token: "jwt"}
	return f.session, nil
}

func (f *fakeSessions) Current(context.Context, int64) (*model.Session, error) {
	return f.session, nil
}

func (f *fakeSessions) RememberDate(_ context.Context, _ int64, date string) error {
	f.dates = append(f.dates, date)
	return nil
}

func (f *fakeSessions) Logout(context.Context, int64) error {
	f.logouts++
	f.session = nil
	return nil
}

type stubAPI struct {
	slots    []api.AvailableSlot
	meetings []model.Meeting
}

func (s *stubAPI) AvailableSlots(context.Context, string) ([]api.AvailableSlot, error) {
	return s.slots, nil
}

func (s *stubAPI) SetAvailability(context.Context, api.SetAvailabilityRequest) error { return nil }

func (s *stubAPI) CreateMeeting(context.Context, api.CreateMeetingRequest) (*model.Meeting, error) {
	return &model.Meeting{}, nil
}

func (s *stubAPI) FutureMeetingsForProfessor(context.Context) ([]model.Meeting, error) {
	return s.meetings, nil
}

func (s *stubAPI) CancelMeeting(context.Context, string, string) error { return nil }

type testEnv struct {
	h        *Handlers
	b        *bot.Bot
	tg       *fakeTelegram
	sessions *fakeSessions
	states   *state.Manager
	screens  *screens.Registry
	api      *stubAPI
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tg := &fakeTelegram{}
	srv := httptest.NewServer(tg)
	t.Cleanup(srv.Close)

	b, err := bot.New("test-token", bot.WithServerURL(srv.URL), bot.WithSkipGetMe())
	require.NoError(t, err)

	now := func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }
	stub := &stubAPI{}
	registry := screens.NewRegistry(datectx.NewRegistry(now), func(string) screens.API { return stub }, zap.NewNop())
	sessions := &fakeSessions{}
	states := state.NewManager()

	h := NewHandlers(sessions, registry, states, zap.NewNop())
	h.now = now

	return &testEnv{h: h, b: b, tg: tg, sessions: sessions, states: states, screens: registry, api: stub}
}

func textUpdate(text string) *models.Update {
	return &models.Update{Message: &models.Message{
		ID:   10,
		Text: text,
		From: &models.User{ID: 1},
		Chat: models.Chat{ID: 1},
	}}
}

func TestStartWithoutSessionShowsLoginHint(t *testing.T) {
	env := newTestEnv(t)

	env.h.HandleStart(context.Background(), env.b, textUpdate("/start"))

	sent := env.tg.Calls("sendMessage")
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Fields["text"], "/login email пароль")
}

func TestStartWithSessionShowsPanel(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.session = &model.Session{TelegramID: 1, Name: "Иван", Professor: true, Token: "jwt"}

	env.h.HandleStart(context.Background(), env.b, textUpdate("/start"))

	sent := env.tg.Calls("sendMessage")
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Fields["text"], "Иван")
	assert.Contains(t, sent[0].Fields["reply_markup"], "night:2026-10-16")
}

func TestLoginRequiresEmailAndPassword(t *testing.T) {
	env := newTestEnv(t)

	env.h.HandleLogin(context.Background(), env.b, textUpdate("/login only@example.com"))

	assert.Empty(t, env.sessions.email)
	assert.Empty(t, env.tg.Calls("deleteMessage"))
	require.Len(t, env.tg.Calls("sendMessage"), 1)
}

func TestLoginDeletesPasswordMessage(t *testing.T) {
	env := newTestEnv(t)

	env.h.HandleLogin(context.Background(), env.b, textUpdate("/login anna@example.com secret"))

	assert.Equal(t, "anna@example.com", env.sessions.email)
	assert.Equal(t, "secret", env.sessions.password)
	require.Len(t, env.tg.Calls("deleteMessage"), 1)

	sent := env.tg.Calls("sendMessage")
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Fields["text"], "Анна")
}

func TestLoginFailureShowsReason(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.loginErr = service.ErrInvalidCredentials

	env.h.HandleLogin(context.Background(), env.b, textUpdate("/login anna@example.com wrong"))

	sent := env.tg.Calls("sendMessage")
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Fields["text"], "Неверный email или пароль")
}

func TestDateCommandChangesAndRemembersDate(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.session = &model.Session{TelegramID: 1, Token: "jwt"}

	env.h.HandleDate(context.Background(), env.b, textUpdate("/date 2026-10-20"))

	assert.Equal(t, []string{"2026-10-20"}, env.sessions.dates)
	assert.Equal(t, "2026-10-20", env.screens.For(env.sessions.session).Date.Get())
}

func TestDateCommandRejectsBadDate(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.session = &model.Session{TelegramID: 1, Token: "jwt"}

	env.h.HandleDate(context.Background(), env.b, textUpdate("/date 20.10.2026"))

	assert.Empty(t, env.sessions.dates)
	assert.Equal(t, "2026-10-16", env.screens.For(env.sessions.session).Date.Get())
}

func TestNightRequiresProfessor(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.session = &model.Session{TelegramID: 1, Token: "jwt"}

	env.h.HandleNight(context.Background(), env.b, textUpdate("/night"))

	sent := env.tg.Calls("sendMessage")
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Fields["text"], "только преподавателям")
}

func TestReasonTextRedrawsDayScreen(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.session = &model.Session{TelegramID: 1, Token: "jwt"}
	env.api.slots = []api.AvailableSlot{{TimeSlot: "10:00 - 10:15"}}

	scr := env.screens.For(env.sessions.session)
	_, err := scr.Day.Load(context.Background(), "2026-10-16")
	require.NoError(t, err)
	require.NoError(t, scr.Day.Select("10:00 - 10:15"))

	env.states.SetState(1, state.StateReason)
	env.states.SetScreen(1, 42)

	env.h.HandleTextMessage(context.Background(), env.b, textUpdate("Консультация <курсовая>"))

	assert.Equal(t, "Консультация <курсовая>", scr.Day.Form().Reason)

	edits := env.tg.Calls("editMessageText")
	require.Len(t, edits, 1)
	assert.Equal(t, "42", edits[0].Fields["message_id"])
	assert.Contains(t, edits[0].Fields["text"], "Консультация &lt;курсовая&gt;")
	assert.Equal(t, state.StateReason, env.states.GetState(1))
}

func TestCancelReasonTextUpdatesMeetings(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.session = &model.Session{TelegramID: 1, Token: "jwt", Professor: true}
	env.api.meetings = []model.Meeting{{ID: "m1", Date: "2026-10-17", TimeSlot: "18:00 - 18:15"}}

	scr := env.screens.For(env.sessions.session)
	_, err := scr.Meetings.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, scr.Meetings.BeginCancel("m1"))

	env.states.SetState(1, state.StateCancelReason)

	env.h.HandleTextMessage(context.Background(), env.b, textUpdate("Болезнь"))

	assert.Equal(t, "Болезнь", scr.Meetings.Snapshot().CancelReason)
	// Без запомненного экрана отправляется новое сообщение
	require.Len(t, env.tg.Calls("sendMessage"), 1)
	id, ok := env.states.Screen(1)
	require.True(t, ok)
	assert.Equal(t, 77, id)
}

func TestTextWithoutStateIsIgnored(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.session = &model.Session{TelegramID: 1, Token: "jwt"}

	env.h.HandleTextMessage(context.Background(), env.b, textUpdate("привет"))

	assert.Empty(t, env.tg.Calls("sendMessage"))
	assert.Empty(t, env.tg.Calls("editMessageText"))
}

func TestCancelCommandAbortsMeetingCancellation(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.session = &model.Session{TelegramID: 1, Token: "jwt", Professor: true}
	env.api.meetings = []model.Meeting{{ID: "m1", Date: "2026-10-17", TimeSlot: "18:00 - 18:15"}}

	scr := env.screens.For(env.sessions.session)
	_, err := scr.Meetings.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, scr.Meetings.BeginCancel("m1"))
	env.states.SetState(1, state.StateCancelReason)

	env.h.HandleCancel(context.Background(), env.b, textUpdate("/cancel"))

	assert.Equal(t, state.StateNone, env.states.GetState(1))
	assert.Empty(t, scr.Meetings.Snapshot().Canceling)
}

func TestLogoutRemovesSession(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.session = &model.Session{TelegramID: 1, Token: "jwt"}

	env.h.HandleLogout(context.Background(), env.b, textUpdate("/logout"))

	assert.Equal(t, 1, env.sessions.logouts)
	require.Len(t, env.tg.Calls("sendMessage"), 1)
}
