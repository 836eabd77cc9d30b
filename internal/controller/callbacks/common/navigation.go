package common

import (
	"context"
	"strings"
	"time"

	"github.com/Freeeeeet/meeting_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/meeting_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Common Navigation Handlers
// ========================

// HandlePanel возвращает пользователя на главную панель
func HandlePanel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	WithSession(ctx, b, callback, h, func(hc *HandlerContext) {
		// Уход с экрана прерывает ввод текста
		hc.ClearState()
		ShowPanel(hc)
	})
}

// ShowPanel перерисовывает текущее сообщение главной панелью
func ShowPanel(hc *HandlerContext) {
	text, kb := BuildPanelScreen(hc.Session, hc.SelectedDate())
	if err := hc.EditMessage(text, kb); err != nil {
		HandleError(hc, err, "show_panel")
		return
	}
	hc.Answer("")
}

// HandleCalendar показывает календарь месяца: cal:2026-10
func HandleCalendar(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	WithSession(ctx, b, callback, h, func(hc *HandlerContext) {
		raw := strings.TrimPrefix(callback.Data, CbCalendar)
		month, err := time.Parse("2006-01", raw)
		if err != nil {
			HandleError(hc, ErrInvalidFormat, "calendar")
			return
		}

		text, kb := BuildCalendarScreen(month, hc.SelectedDate(), model.Today(h.Now()))
		if err := hc.EditMessage(text, kb); err != nil {
			HandleError(hc, err, "calendar")
			return
		}
		hc.Answer("")
	})
}

// HandlePickDate меняет выбранную дату: pick:2026-10-16
func HandlePickDate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	WithSession(ctx, b, callback, h, func(hc *HandlerContext) {
		date := strings.TrimPrefix(callback.Data, CbPickDate)
		if err := hc.SetDate(date); err != nil {
			HandleError(hc, err, "pick_date")
			return
		}

		h.Logger.Info("Selected date changed",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("date", date))

		hc.ClearState()
		ShowPanel(hc)
	})
}
