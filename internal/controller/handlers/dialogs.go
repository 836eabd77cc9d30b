package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/meeting_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/meeting_bot/internal/controller/screens"
	"github.com/Freeeeeet/meeting_bot/internal/controller/state"
	"github.com/Freeeeeet/meeting_bot/internal/slotsync"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	// Если нет активного состояния, игнорируем
	if currentState == state.StateNone {
		h.logger.Debug("No active state, ignoring message",
			zap.Int64("telegram_id", telegramID))
		return
	}

	session, err := h.sessions.Current(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to get session", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}
	if session == nil {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(common.ErrNotLoggedIn))
		return
	}
	scr := h.screens.For(session)

	switch currentState {
	case state.StateReason:
		h.handleReasonText(ctx, b, update, scr)
	case state.StateCancelReason:
		h.handleCancelReasonText(ctx, b, update, scr)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
	}
}

// handleReasonText записывает причину встречи в форму записи
func (h *Handlers) handleReasonText(ctx context.Context, b *bot.Bot, update *models.Update, scr *screens.Screens) {
	view := scr.Day
	if view.Form().Selected == "" {
		h.stateManager.ClearState(scr.TelegramID)
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(slotsync.ErrNoSlotSelected))
		return
	}

	view.FocusReason()
	view.SetReason(update.Message.Text)

	text, kb := common.BuildDayScreen(view.Form(), view.Submitting())
	h.redrawScreen(ctx, b, update, text, kb)
}

// handleCancelReasonText записывает причину отмены выбранной встречи
func (h *Handlers) handleCancelReasonText(ctx context.Context, b *bot.Bot, update *models.Update, scr *screens.Screens) {
	view := scr.Meetings
	st := view.Snapshot()
	if st.Canceling == "" {
		h.stateManager.ClearState(scr.TelegramID)
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(slotsync.ErrNoMeetingSelected))
		return
	}

	view.SetCancelReason(update.Message.Text)
	st = view.Snapshot()

	text, kb := common.BuildMeetingsScreen(st, common.PageOfMeeting(st.Meetings, st.Canceling), view.Pending)
	h.redrawScreen(ctx, b, update, text, kb)
}

// redrawScreen перерисовывает экран, ожидающий ввода, и запоминает его сообщение
func (h *Handlers) redrawScreen(ctx context.Context, b *bot.Bot, update *models.Update, text string, kb *models.InlineKeyboardMarkup) {
	telegramID := update.Message.From.ID
	messageID, _ := h.stateManager.Screen(telegramID)

	id := h.present(ctx, b, update.Message.Chat.ID, messageID, text, kb)
	if id != 0 && id != messageID {
		h.stateManager.SetScreen(telegramID, id)
	}
}
