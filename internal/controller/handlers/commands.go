package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/Freeeeeet/meeting_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/meeting_bot/internal/controller/state"
	"github.com/Freeeeeet/meeting_bot/internal/model"
	"github.com/Freeeeeet/meeting_bot/internal/slotsync"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	h.stateManager.ClearState(telegramID)

	session, err := h.sessions.Current(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to get session", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}

	if session == nil {
		h.sendMessage(ctx, b, update.Message.Chat.ID, common.BuildLoginScreen())
		return
	}

	scr := h.screens.For(session)
	text, kb := common.BuildPanelScreen(session, scr.Date.Get())
	h.present(ctx, b, update.Message.Chat.ID, 0, text, kb)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, common.BuildHelpScreen())
}

// HandleLogin обрабатывает команду /login email пароль
func (h *Handlers) HandleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID

	args := strings.Fields(strings.TrimPrefix(update.Message.Text, "/login"))
	if len(args) != 2 {
		h.sendMessage(ctx, b, chatID, "ℹ️ Формат: <code>/login email пароль</code>")
		return
	}

	// Пароль не должен оставаться в истории чата
	if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: update.Message.ID,
	}); err != nil {
		h.logger.Warn("Failed to delete login message",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
	}

	h.stateManager.ClearState(telegramID)

	session, err := h.sessions.Login(ctx, telegramID, args[0], args[1])
	if err != nil {
		h.logger.Warn("Login failed", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	// Новый токен пересоздаёт экраны пользователя
	scr := h.screens.For(session)
	text, kb := common.BuildPanelScreen(session, scr.Date.Get())
	h.present(ctx, b, chatID, 0, text, kb)
}

// HandleLogout обрабатывает команду /logout
func (h *Handlers) HandleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	if err := h.sessions.Logout(ctx, telegramID); err != nil {
		h.logger.Error("Failed to logout", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "👋 Вы вышли.\n\n"+common.BuildLoginScreen())
}

// HandleDate обрабатывает команду /date [ГГГГ-ММ-ДД]
// Без аргумента показывает календарь месяца выбранной даты
func (h *Handlers) HandleDate(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, scr, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}

	chatID := update.Message.Chat.ID
	arg := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/date"))

	if arg == "" {
		selected := scr.Date.Get()
		month, err := model.ParseISODate(selected)
		if err != nil {
			h.sendError(ctx, b, chatID, common.ErrorMessage(err))
			return
		}
		text, kb := common.BuildCalendarScreen(month, selected, model.Today(h.now()))
		h.present(ctx, b, chatID, 0, text, kb)
		return
	}

	if err := scr.Date.Set(arg); err != nil {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}
	h.stateManager.ClearState(session.TelegramID)

	if err := h.sessions.RememberDate(ctx, session.TelegramID, arg); err != nil {
		h.logger.Warn("Failed to remember selected date",
			zap.Int64("telegram_id", session.TelegramID),
			zap.String("date", arg),
			zap.Error(err))
	}

	text, kb := common.BuildPanelScreen(session, scr.Date.Get())
	h.present(ctx, b, chatID, 0, text, kb)
}

// HandleNight обрабатывает команду /night
func (h *Handlers) HandleNight(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, scr, ok := h.requireProfessor(ctx, b, update)
	if !ok {
		return
	}
	h.stateManager.ClearState(session.TelegramID)

	view := scr.Night(model.Evening)
	if _, err := view.Load(ctx, scr.Date.Get()); err != nil {
		if !errors.Is(err, slotsync.ErrStale) {
			h.logger.Warn("Failed to load night slots",
				zap.Int64("telegram_id", session.TelegramID),
				zap.Error(err))
			h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		}
		return
	}

	text, kb := common.BuildNightScreen(view.Segment(), view.Date(), view.Slots(), view.Pending)
	h.present(ctx, b, update.Message.Chat.ID, 0, text, kb)
}

// HandleDay обрабатывает команду /day
func (h *Handlers) HandleDay(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, scr, ok := h.requireStudent(ctx, b, update)
	if !ok {
		return
	}
	h.stateManager.ClearState(session.TelegramID)

	if _, err := scr.Day.Load(ctx, scr.Date.Get()); err != nil {
		if !errors.Is(err, slotsync.ErrStale) {
			h.logger.Warn("Failed to load day slots",
				zap.Int64("telegram_id", session.TelegramID),
				zap.Error(err))
			h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		}
		return
	}

	text, kb := common.BuildDayScreen(scr.Day.Form(), scr.Day.Submitting())
	h.present(ctx, b, update.Message.Chat.ID, 0, text, kb)
}

// HandleMeetings обрабатывает команду /meetings
func (h *Handlers) HandleMeetings(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, scr, ok := h.requireProfessor(ctx, b, update)
	if !ok {
		return
	}
	h.stateManager.ClearState(session.TelegramID)

	scr.Meetings.AbortCancel()
	if _, err := scr.Meetings.Load(ctx); err != nil {
		h.logger.Warn("Failed to load meetings",
			zap.Int64("telegram_id", session.TelegramID),
			zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}

	text, kb := common.BuildMeetingsScreen(scr.Meetings.Snapshot(), 0, scr.Meetings.Pending)
	h.present(ctx, b, update.Message.Chat.ID, 0, text, kb)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего ввода текста
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	if currentState == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	if currentState == state.StateCancelReason {
		if session, err := h.sessions.Current(ctx, telegramID); err == nil && session != nil {
			h.screens.For(session).Meetings.AbortCancel()
		}
	}

	// Очищаем состояние
	h.stateManager.ClearState(telegramID)

	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.\n\nИспользуйте /start для возврата на панель.")
}
