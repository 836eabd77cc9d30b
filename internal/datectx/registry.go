package datectx

import (
	"sync"
	"time"
)

// Registry выбранные даты по telegramID
type Registry struct {
	mu    sync.Mutex
	dates map[int64]*SelectedDate
	now   func() time.Time
}

// NewRegistry создаёт пустой реестр
func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		dates: make(map[int64]*SelectedDate),
		now:   now,
	}
}

// For возвращает дату пользователя, создавая её при первом обращении
func (r *Registry) For(telegramID int64) *SelectedDate {
	r.mu.Lock()
	defer r.mu.Unlock()

	sd, ok := r.dates[telegramID]
	if !ok {
		sd = New(r.now())
		r.dates[telegramID] = sd
	}
	return sd
}

// Drop забывает дату пользователя (logout)
func (r *Registry) Drop(telegramID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.dates, telegramID)
}
