package professor

import (
	"context"
	"strings"

	"github.com/Freeeeeet/meeting_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/meeting_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/meeting_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Booked Meetings Handlers
// ========================

// HandleMeetings загружает и показывает будущие встречи
func HandleMeetings(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessor(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()

		view := hc.Screens.Meetings
		view.AbortCancel()
		if _, err := view.Load(hc.Ctx); err != nil {
			common.HandleError(hc, err, "load_meetings")
			return
		}
		showMeetings(hc, 0)
		hc.Answer("")
	})
}

// HandleMeetingsPage листает список без перезагрузки: mp:1
func HandleMeetingsPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessor(ctx, b, callback, h, func(hc *common.HandlerContext) {
		page, err := common.ParseIndexFromCallback(callback.Data, common.CbMeetingsPage)
		if err != nil {
			common.HandleError(hc, err, "meetings_page")
			return
		}
		if !hc.Screens.Meetings.Snapshot().Loaded {
			if _, err := hc.Screens.Meetings.Load(hc.Ctx); err != nil {
				common.HandleError(hc, err, "load_meetings")
				return
			}
		}
		showMeetings(hc, page)
		hc.Answer("")
	})
}

// HandleBeginCancel переводит встречу в режим подтверждения отмены: mc:<id>
func HandleBeginCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessor(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id := strings.TrimPrefix(callback.Data, common.CbCancelMeeting)
		view := hc.Screens.Meetings

		if err := view.BeginCancel(id); err != nil {
			common.HandleError(hc, err, "begin_cancel")
			return
		}
		hc.AwaitText(state.StateCancelReason)

		h.Logger.Info("Meeting cancellation started",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("meeting_id", id))

		showMeetings(hc, common.PageOfMeeting(view.Snapshot().Meetings, id))
		hc.Answer("✏️ Напишите причину отмены")
	})
}

// HandleAbortCancel выходит из режима подтверждения
func HandleAbortCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessor(ctx, b, callback, h, func(hc *common.HandlerContext) {
		canceling := hc.Screens.Meetings.Snapshot().Canceling
		hc.Screens.Meetings.AbortCancel()
		hc.ClearState()

		showMeetings(hc, common.PageOfMeeting(hc.Screens.Meetings.Snapshot().Meetings, canceling))
		hc.Answer("")
	})
}

// HandleConfirmCancel отменяет встречу с введённой причиной
func HandleConfirmCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithProfessor(ctx, b, callback, h, func(hc *common.HandlerContext) {
		view := hc.Screens.Meetings
		st := view.Snapshot()
		page := common.PageOfMeeting(st.Meetings, st.Canceling)

		if st.Canceling != "" {
			inFlight := func(id string) bool { return id == st.Canceling || view.Pending(id) }
			text, kb := common.BuildMeetingsScreen(st, page, inFlight)
			_ = hc.EditMessage(text, kb)
		}

		id, err := view.Cancel(hc.Ctx)
		if err == nil {
			hc.ClearState()
		}
		showMeetings(hc, page)

		if err != nil {
			common.HandleError(hc, err, "cancel_meeting")
			return
		}

		h.Logger.Info("Meeting canceled by professor",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("meeting_id", id))
		hc.Answer("✅ Встреча отменена")
	})
}

func showMeetings(hc *common.HandlerContext, page int) {
	view := hc.Screens.Meetings
	text, kb := common.BuildMeetingsScreen(view.Snapshot(), page, view.Pending)
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Warn("Failed to show meetings", zap.Error(err))
	}
}
