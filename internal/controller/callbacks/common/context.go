package common

import (
	"context"

	"github.com/Freeeeeet/meeting_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/meeting_bot/internal/controller/screens"
	"github.com/Freeeeeet/meeting_bot/internal/controller/state"
	"github.com/Freeeeeet/meeting_bot/internal/datectx"
	"github.com/Freeeeeet/meeting_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandlerContext содержит общие данные для обработки callback
// Это избавляет от дублирования кода получения сессии, сообщения и т.д.
type HandlerContext struct {
	Ctx        context.Context
	Bot        *bot.Bot
	Callback   *models.CallbackQuery
	Handler    *callbacktypes.Handler
	Message    *models.Message
	Session    *model.Session
	Screens    *screens.Screens
	TelegramID int64
	ChatID     int64
}

// NewHandlerContext создаёт новый контекст обработчика
func NewHandlerContext(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
) *HandlerContext {
	msg := GetMessageFromCallback(callback)
	var chatID int64
	if msg != nil {
		chatID = msg.Chat.ID
	}

	return &HandlerContext{
		Ctx:        ctx,
		Bot:        b,
		Callback:   callback,
		Handler:    h,
		Message:    msg,
		TelegramID: callback.From.ID,
		ChatID:     chatID,
	}
}

// LoadSession загружает сессию и экраны пользователя в контекст
func (hc *HandlerContext) LoadSession() error {
	session, err := hc.Handler.Sessions.Current(hc.Ctx, hc.TelegramID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNotLoggedIn
	}
	hc.Session = session
	hc.Screens = hc.Handler.Screens.For(session)
	hc.Ctx = datectx.WithSelectedDate(hc.Ctx, hc.Screens.Date)
	return nil
}

// RequireProfessor проверяет что пользователь - преподаватель
func (hc *HandlerContext) RequireProfessor() error {
	if err := hc.LoadSession(); err != nil {
		return err
	}
	if !hc.Session.Professor {
		return ErrNotProfessor
	}
	return nil
}

// RequireStudent проверяет что пользователь - студент
func (hc *HandlerContext) RequireStudent() error {
	if err := hc.LoadSession(); err != nil {
		return err
	}
	if hc.Session.Professor {
		return ErrNotStudent
	}
	return nil
}

// Answer отвечает на callback query
func (hc *HandlerContext) Answer(text string) {
	AnswerCallback(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// AnswerAlert отвечает на callback query с alert
func (hc *HandlerContext) AnswerAlert(text string) {
	AnswerCallbackAlert(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// EditMessage перерисовывает сообщение с экраном
func (hc *HandlerContext) EditMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	if hc.Message == nil {
		return ErrNoMessage
	}
	_, err := Present(hc.Ctx, hc.Bot, hc.ChatID, hc.Message.ID, text, keyboard)
	return err
}

// SelectedDate текущая выбранная дата пользователя
func (hc *HandlerContext) SelectedDate() string {
	return datectx.From(hc.Ctx).Get()
}

// SetDate меняет выбранную дату и запоминает её в сессии.
// Сбой сохранения не отменяет смену даты.
func (hc *HandlerContext) SetDate(date string) error {
	if err := datectx.From(hc.Ctx).Set(date); err != nil {
		return err
	}
	if err := hc.Handler.Sessions.RememberDate(hc.Ctx, hc.TelegramID, date); err != nil {
		hc.Handler.Logger.Warn("Failed to remember selected date",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("date", date),
			zap.Error(err))
	}
	return nil
}

// ClearState очищает состояние пользователя
func (hc *HandlerContext) ClearState() {
	hc.Handler.StateManager.ClearState(hc.TelegramID)
}

// AwaitText переводит пользователя в ввод текста для экрана текущего сообщения
func (hc *HandlerContext) AwaitText(s state.UserState) {
	hc.Handler.StateManager.SetState(hc.TelegramID, s)
	if hc.Message != nil {
		hc.Handler.StateManager.SetScreen(hc.TelegramID, hc.Message.ID)
	}
}
