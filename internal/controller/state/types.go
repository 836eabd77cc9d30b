package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Студент вводит причину встречи
	StateReason UserState = "reason"
	// Преподаватель вводит причину отмены встречи
	StateCancelReason UserState = "cancel_reason"
)

// Dialog ввод текста, которого ждёт бот
type Dialog struct {
	State UserState
	// ScreenMessageID сообщение экрана, которое перерисовывается после ввода; 0 - нет
	ScreenMessageID int
}
