package keyboard

import (
	"github.com/go-telegram/bot/models"
)

// Callback data общих кнопок
const (
	PanelData = "panel"
	NoopData  = "noop"
)

// BackButton создаёт кнопку "Назад"
func BackButton(callbackData string) models.InlineKeyboardButton {
	return Button("⬅️ Назад", callbackData)
}

// BackToPanelButton создаёт кнопку возврата на главную панель
func BackToPanelButton() models.InlineKeyboardButton {
	return Button("🏠 На главную", PanelData)
}

// CancelButton создаёт кнопку "Отмена"
func CancelButton(callbackData string) models.InlineKeyboardButton {
	return Button("❌ Отмена", callbackData)
}

// ConfirmButton создаёт кнопку "Подтвердить"
func ConfirmButton(callbackData string) models.InlineKeyboardButton {
	return Button("✅ Подтвердить", callbackData)
}

// ConfirmCancelButtons создаёт ряд с кнопками Подтвердить/Отмена
func ConfirmCancelButtons(confirmCallback, cancelCallback string) []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{
		ConfirmButton(confirmCallback),
		CancelButton(cancelCallback),
	}
}

// NoopButton кнопка-надпись без действия
func NoopButton(text string) models.InlineKeyboardButton {
	return Button(text, NoopData)
}

// AddBackToPanelButton добавляет кнопку "На главную" к builder
func (b *Builder) AddBackToPanelButton() *Builder {
	return b.Row(BackToPanelButton())
}
