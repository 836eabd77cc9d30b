package model

import "time"

// Session сессия пользователя бота в удалённом API
type Session struct {
	TelegramID int64      `json:"telegram_id"`
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Professor  bool       `json:"professor"`
	Token      string     `json:"-"`
	ExpiresAt  *time.Time `json:"expires_at"` // nil - срок не известен
	// SelectedDate последняя выбранная дата, пусто - сегодня
	SelectedDate string    `json:"selected_date,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsExpired проверяет истёк ли токен сессии
func (s *Session) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// User пользователь удалённого API
type User struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Professor bool   `json:"professor"`
}
