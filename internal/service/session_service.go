package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/meeting_bot/internal/api"
	"github.com/Freeeeeet/meeting_bot/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrInvalidCredentials API отклонил email или пароль
var ErrInvalidCredentials = errors.New("invalid credentials")

// SessionStore хранилище сессий бота
type SessionStore interface {
	Upsert(ctx context.Context, s *model.Session) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Session, error)
	SetSelectedDate(ctx context.Context, telegramID int64, date string) error
	Delete(ctx context.Context, telegramID int64) error
	DeleteExpired(ctx context.Context, now time.Time, ttl time.Duration) (int64, error)
}

// Authenticator вход в удалённый API
type Authenticator interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
}

// LogoutHook вызывается после удаления сессии пользователя
type LogoutHook func(telegramID int64)

type SessionService struct {
	store  SessionStore
	auth   Authenticator
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu    sync.RWMutex
	hooks []LogoutHook
}

func NewSessionService(store SessionStore, auth Authenticator, ttl time.Duration, logger *zap.Logger) *SessionService {
	return &SessionService{
		store:  store,
		auth:   auth,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// OnLogout регистрирует очистку состояния, связанного с пользователем
func (s *SessionService) OnLogout(hook LogoutHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Login входит в API и сохраняет токен для Telegram пользователя
func (s *SessionService) Login(ctx context.Context, telegramID int64, email, password string) (*model.Session, error) {
	resp, err := s.auth.Login(ctx, api.LoginRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if err != nil {
		status := api.StatusCode(err)
		if status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusForbidden {
			return nil, fmt.Errorf("login %s: %w", email, ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	session := &model.Session{
		TelegramID: telegramID,
		UserID:     resp.User.ID,
		Name:       resp.User.Name,
		Email:      resp.User.Email,
		Professor:  resp.User.Professor,
		Token:      resp.Token,
		ExpiresAt:  tokenExpiry(resp.Token),
	}
	if session.Email == "" {
		session.Email = strings.TrimSpace(email)
	}

	if err := s.store.Upsert(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("User logged in",
		zap.Int64("telegram_id", telegramID),
		zap.String("user_id", session.UserID),
		zap.Bool("professor", session.Professor),
	)

	return session, nil
}

// Current возвращает действующую сессию или nil.
// Истёкшая сессия удаляется так же, как при выходе.
func (s *SessionService) Current(ctx context.Context, telegramID int64) (*model.Session, error) {
	session, err := s.store.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	if session.IsExpired(s.now()) {
		s.logger.Info("Session expired", zap.Int64("telegram_id", telegramID))
		if err := s.Logout(ctx, telegramID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return session, nil
}

// RememberDate сохраняет выбранную дату, чтобы восстановить её после перезапуска
func (s *SessionService) RememberDate(ctx context.Context, telegramID int64, date string) error {
	if !model.IsISODate(date) {
		return fmt.Errorf("remember date %q: invalid format", date)
	}
	if err := s.store.SetSelectedDate(ctx, telegramID, date); err != nil {
		return fmt.Errorf("remember date: %w", err)
	}
	return nil
}

// Logout удаляет сессию и всё состояние экранов пользователя
func (s *SessionService) Logout(ctx context.Context, telegramID int64) error {
	if err := s.store.Delete(ctx, telegramID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.mu.RLock()
	hooks := append([]LogoutHook(nil), s.hooks...)
	s.mu.RUnlock()

	for _, hook := range hooks {
		hook(telegramID)
	}

	s.logger.Info("User logged out", zap.Int64("telegram_id", telegramID))
	return nil
}

// PurgeExpired удаляет истёкшие и давно не использованные сессии
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	removed, err := s.store.DeleteExpired(ctx, s.now(), s.ttl)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return removed, nil
}

// tokenExpiry читает exp из JWT без проверки подписи: ключ есть только у API,
// а срок нужен боту лишь для своевременной очистки
func tokenExpiry(token string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}
