package handlers

import (
	"context"
	"time"

	"github.com/Freeeeeet/meeting_bot/internal/controller/screens"
	"github.com/Freeeeeet/meeting_bot/internal/controller/state"
	"github.com/Freeeeeet/meeting_bot/internal/model"
	"go.uber.org/zap"
)

// Sessions сессии пользователей, которыми пользуются команды
type Sessions interface {
	Login(ctx context.Context, telegramID int64, email, password string) (*model.Session, error)
	Current(ctx context.Context, telegramID int64) (*model.Session, error)
	RememberDate(ctx context.Context, telegramID int64, date string) error
	Logout(ctx context.Context, telegramID int64) error
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	sessions     Sessions
	screens      *screens.Registry
	stateManager *state.Manager
	logger       *zap.Logger
	now          func() time.Time
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	sessions Sessions,
	screenRegistry *screens.Registry,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		sessions:     sessions,
		screens:      screenRegistry,
		stateManager: stateManager,
		logger:       logger,
		now:          time.Now,
	}
}
