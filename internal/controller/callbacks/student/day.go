package student

import (
	"context"
	"errors"
	"strings"

	"github.com/Freeeeeet/meeting_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/meeting_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/meeting_bot/internal/controller/state"
	"github.com/Freeeeeet/meeting_bot/internal/slotsync"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Booking Handlers
// ========================

// HandleOpenDay показывает слоты дня: day:2026-10-16
func HandleOpenDay(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithStudent(ctx, b, callback, h, func(hc *common.HandlerContext) {
		date := strings.TrimPrefix(callback.Data, common.CbDay)
		if err := hc.SetDate(date); err != nil {
			common.HandleError(hc, err, "open_day")
			return
		}
		hc.ClearState()

		_, err := hc.Screens.Day.Load(hc.Ctx, date)
		if errors.Is(err, slotsync.ErrStale) {
			hc.Answer("")
			return
		}
		if err != nil {
			common.HandleError(hc, err, "load_day")
			return
		}

		showDay(hc)
		hc.Answer("")
	})
}

// HandleSelectSlot выбирает или снимает выбор слота: ds:2
func HandleSelectSlot(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithStudent(ctx, b, callback, h, func(hc *common.HandlerContext) {
		idx, err := common.ParseIndexFromCallback(callback.Data, common.CbSelectSlot)
		if err != nil {
			common.HandleError(hc, err, "select_slot")
			return
		}

		view := hc.Screens.Day
		form := view.Form()
		if idx >= len(form.Slots) {
			common.HandleError(hc, slotsync.ErrUnknownSlot, "select_slot")
			return
		}

		if err := view.Select(form.Slots[idx].Label); err != nil {
			common.HandleError(hc, err, "select_slot")
			return
		}

		answer := ""
		if view.Form().Selected != "" {
			// Выбор слота сразу открывает ввод причины
			hc.AwaitText(state.StateReason)
			view.FocusReason()
			answer = "✏️ Напишите причину встречи"
		} else {
			hc.ClearState()
		}

		showDay(hc)
		hc.Answer(answer)
	})
}

// HandleBook отправляет запись на выбранный слот
func HandleBook(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithStudent(ctx, b, callback, h, func(hc *common.HandlerContext) {
		view := hc.Screens.Day

		form := view.Form()
		if form.Selected != "" && strings.TrimSpace(form.Reason) != "" {
			text, kb := common.BuildDayScreen(form, true)
			_ = hc.EditMessage(text, kb)
		}

		meeting, err := view.Book(hc.Ctx, hc.Session.UserID)
		if err != nil {
			showDay(hc)
			common.HandleError(hc, err, "book")
			return
		}

		hc.ClearState()
		h.Logger.Info("Student booked meeting",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("date", meeting.Date),
			zap.String("time_slot", meeting.TimeSlot))

		text, kb := common.BuildBookingSuccessScreen(meeting)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Warn("Failed to show booking result", zap.Error(err))
		}
		hc.Answer("✅ Готово")
	})
}

func showDay(hc *common.HandlerContext) {
	view := hc.Screens.Day
	text, kb := common.BuildDayScreen(view.Form(), view.Submitting())
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Warn("Failed to show day screen", zap.Error(err))
	}
}
