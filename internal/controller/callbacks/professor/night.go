package professor

import (
	"context"
	"errors"
	"strings"

	"github.com/Freeeeeet/meeting_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/meeting_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/meeting_bot/internal/model"
	"github.com/Freeeeeet/meeting_bot/internal/slotsync"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Slot Publishing Handlers
// ========================

// HandleOpenNight открывает вечерние слоты на дату: night:2026-10-16
func HandleOpenNight(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessor(ctx, b, callback, h, func(hc *common.HandlerContext) {
		date := strings.TrimPrefix(callback.Data, common.CbNight)
		if err := hc.SetDate(date); err != nil {
			common.HandleError(hc, err, "open_night")
			return
		}
		hc.ClearState()
		loadAndShowNight(hc, model.Evening, date)
	})
}

// HandleSegment переключает сегмент дня на выбранной дате: seg:morning
func HandleSegment(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessor(ctx, b, callback, h, func(hc *common.HandlerContext) {
		segment, ok := model.SegmentByName(strings.TrimPrefix(callback.Data, common.CbSegment))
		if !ok {
			common.HandleError(hc, common.ErrInvalidFormat, "switch_segment")
			return
		}
		loadAndShowNight(hc, segment, hc.SelectedDate())
	})
}

// HandleToggleSlot открывает или закрывает слот: nt:evening:3
func HandleToggleSlot(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessor(ctx, b, callback, h, func(hc *common.HandlerContext) {
		segment, label, err := parseToggle(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "toggle_slot")
			return
		}

		view := hc.Screens.Night(segment)

		// Пока запрос в полёте, кнопка слота неактивна
		inFlight := func(l string) bool { return l == label || view.Pending(l) }
		text, kb := common.BuildNightScreen(segment, view.Date(), view.Slots(), inFlight)
		_ = hc.EditMessage(text, kb)

		err = view.Toggle(hc.Ctx, label)

		text, kb = common.BuildNightScreen(segment, view.Date(), view.Slots(), view.Pending)
		if editErr := hc.EditMessage(text, kb); editErr != nil {
			h.Logger.Warn("Failed to redraw night screen", zap.Error(editErr))
		}

		if err != nil {
			common.HandleError(hc, err, "toggle_slot")
			return
		}
		hc.Answer("")
	})
}

func parseToggle(data string) (model.Segment, string, error) {
	parts := strings.Split(strings.TrimPrefix(data, common.CbToggleSlot), ":")
	if len(parts) != 2 {
		return model.Segment{}, "", common.ErrInvalidFormat
	}
	segment, ok := model.SegmentByName(parts[0])
	if !ok {
		return model.Segment{}, "", common.ErrInvalidFormat
	}
	idx, err := common.ParseIndexFromCallback(parts[1], "")
	if err != nil || idx >= len(segment.Labels) {
		return model.Segment{}, "", common.ErrInvalidFormat
	}
	return segment, segment.Labels[idx], nil
}

func loadAndShowNight(hc *common.HandlerContext, segment model.Segment, date string) {
	view := hc.Screens.Night(segment)

	_, err := view.Load(hc.Ctx, date)
	if errors.Is(err, slotsync.ErrStale) {
		// Экран нарисует более свежая загрузка
		hc.Answer("")
		return
	}
	if err != nil {
		common.HandleError(hc, err, "load_night")
		return
	}

	text, kb := common.BuildNightScreen(segment, view.Date(), view.Slots(), view.Pending)
	if err := hc.EditMessage(text, kb); err != nil {
		common.HandleError(hc, err, "show_night")
		return
	}
	hc.Answer("")
}
