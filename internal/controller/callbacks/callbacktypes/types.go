package callbacktypes

import (
	"context"
	"time"

	"github.com/Freeeeeet/meeting_bot/internal/controller/screens"
	"github.com/Freeeeeet/meeting_bot/internal/controller/state"
	"github.com/Freeeeeet/meeting_bot/internal/model"
	"go.uber.org/zap"
)

// StateManager интерфейс для управления состоянием пользователей
type StateManager interface {
	ClearState(telegramID int64)
	GetState(telegramID int64) state.UserState
	SetState(telegramID int64, s state.UserState)
	SetScreen(telegramID int64, messageID int)
}

// SessionProvider сессии пользователей бота
type SessionProvider interface {
	Current(ctx context.Context, telegramID int64) (*model.Session, error)
	RememberDate(ctx context.Context, telegramID int64, date string) error
	Logout(ctx context.Context, telegramID int64) error
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	Sessions     SessionProvider
	Screens      *screens.Registry
	StateManager StateManager
	Logger       *zap.Logger
	Now          func() time.Time
}
