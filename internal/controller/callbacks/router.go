package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/meeting_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/meeting_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/meeting_bot/internal/controller/callbacks/professor"
	"github.com/Freeeeeet/meeting_bot/internal/controller/callbacks/student"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Main Callback Router
// ========================

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	switch {
	// ===== Common Navigation =====
	case data == common.CbPanel:
		common.HandlePanel(ctx, b, callback, h)
	case data == common.CbNoop:
		// No operation - просто подтверждаем callback
		common.AnswerCallback(ctx, b, callback.ID, "")
	case strings.HasPrefix(data, common.CbCalendar):
		common.HandleCalendar(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbPickDate):
		common.HandlePickDate(ctx, b, callback, h)

	// ===== Professor: Slot Publishing =====
	case strings.HasPrefix(data, common.CbNight):
		professor.HandleOpenNight(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbSegment):
		professor.HandleSegment(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbToggleSlot):
		professor.HandleToggleSlot(ctx, b, callback, h)

	// ===== Professor: Booked Meetings =====
	case data == common.CbMeetings:
		professor.HandleMeetings(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbMeetingsPage):
		professor.HandleMeetingsPage(ctx, b, callback, h)
	case data == common.CbCancelAbort:
		professor.HandleAbortCancel(ctx, b, callback, h)
	case data == common.CbCancelConfirm:
		professor.HandleConfirmCancel(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbCancelMeeting):
		professor.HandleBeginCancel(ctx, b, callback, h)

	// ===== Student: Booking =====
	case strings.HasPrefix(data, common.CbDay):
		student.HandleOpenDay(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CbSelectSlot):
		student.HandleSelectSlot(ctx, b, callback, h)
	case data == common.CbBook:
		student.HandleBook(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback", zap.String("data", data))
		common.AnswerCallback(ctx, b, callback.ID, "❓ Неизвестное действие")
	}
}
