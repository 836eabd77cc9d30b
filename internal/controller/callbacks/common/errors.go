package common

import (
	"errors"
	"strings"

	"github.com/Freeeeeet/meeting_bot/internal/api"
	"github.com/Freeeeeet/meeting_bot/internal/datectx"
	"github.com/Freeeeeet/meeting_bot/internal/service"
	"github.com/Freeeeeet/meeting_bot/internal/slotsync"
)

// Общие ошибки для обработчиков
var (
	ErrNotLoggedIn   = errors.New("user is not logged in")
	ErrNotProfessor  = errors.New("user is not a professor")
	ErrNotStudent    = errors.New("user is not a student")
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotLoggedIn):
		return "🔒 Сначала войдите: /login email пароль"
	case errors.Is(err, ErrNotProfessor):
		return "❌ Эта функция доступна только преподавателям"
	case errors.Is(err, ErrNotStudent):
		return "❌ Эта функция доступна только студентам"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, datectx.ErrInvalidDate):
		return "❌ Дата должна быть в формате ГГГГ-ММ-ДД"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "❌ Неверный email или пароль"
	case errors.Is(err, slotsync.ErrReasonRequired):
		return "⚠️ Укажите причину"
	case errors.Is(err, slotsync.ErrNoSlotSelected):
		return "⚠️ Сначала выберите слот"
	case errors.Is(err, slotsync.ErrSlotUnavailable):
		return "🔴 Этот слот уже занят"
	case errors.Is(err, slotsync.ErrNoMeetingSelected):
		return "⚠️ Выберите встречу для отмены"
	case errors.Is(err, slotsync.ErrUnknownSlot):
		return "❌ Слот не найден, обновите экран"
	case errors.Is(err, slotsync.ErrUnknownMeeting):
		return "❌ Встреча не найдена, обновите список"
	case errors.Is(err, slotsync.ErrNotLoaded):
		return "❌ Экран устарел, откройте его заново"
	case errors.Is(err, slotsync.ErrInFlight):
		return "⏳ Запрос уже отправлен, подождите"
	case api.IsUnauthorized(err):
		return "🔒 Сервер отклонил токен. Войдите заново: /login"
	default:
		return "❌ Не удалось выполнить запрос. Попробуйте позже"
	}
}

// IsMessageNotModifiedError ошибка Telegram при редактировании сообщения тем же содержимым
func IsMessageNotModifiedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
