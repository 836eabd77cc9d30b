package handlers

import (
	"context"

	"github.com/Freeeeeet/meeting_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/meeting_bot/internal/controller/screens"
	"github.com/Freeeeeet/meeting_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireSession проверяет что пользователь вошёл.
// Возвращает сессию, экраны и true если OK.
func (h *Handlers) requireSession(ctx context.Context, b *bot.Bot, update *models.Update) (*model.Session, *screens.Screens, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, nil, false
	}

	telegramID := update.Message.From.ID
	session, err := h.sessions.Current(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to get session", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return nil, nil, false
	}

	if session == nil {
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(common.ErrNotLoggedIn))
		return nil, nil, false
	}

	return session, h.screens.For(session), true
}

// requireProfessor проверяет что пользователь - преподаватель
func (h *Handlers) requireProfessor(ctx context.Context, b *bot.Bot, update *models.Update) (*model.Session, *screens.Screens, bool) {
	session, scr, ok := h.requireSession(ctx, b, update)
	if !ok {
		return nil, nil, false
	}

	if !session.Professor {
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(common.ErrNotProfessor))
		return nil, nil, false
	}

	return session, scr, true
}

// requireStudent проверяет что пользователь - студент
func (h *Handlers) requireStudent(ctx context.Context, b *bot.Bot, update *models.Update) (*model.Session, *screens.Screens, bool) {
	session, scr, ok := h.requireSession(ctx, b, update)
	if !ok {
		return nil, nil, false
	}

	if session.Professor {
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(common.ErrNotStudent))
		return nil, nil, false
	}

	return session, scr, true
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет HTML сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// present показывает экран в сообщении messageID (0 - новым сообщением)
func (h *Handlers) present(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string, kb *models.InlineKeyboardMarkup) int {
	id, err := common.Present(ctx, b, chatID, messageID, text, kb)
	if err != nil {
		h.logger.Error("Failed to show screen",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err),
		)
		return messageID
	}
	return id
}
