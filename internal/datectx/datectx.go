// Package datectx хранит выбранную пользователем дату и уведомляет подписчиков о её смене
package datectx

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Freeeeeet/meeting_bot/internal/model"
)

// ErrInvalidDate дата не в формате YYYY-MM-DD
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// Listener получает старое и новое значение даты
type Listener func(old, new string)

// SelectedDate текущая выбранная дата одного клиента
type SelectedDate struct {
	mu        sync.RWMutex
	value     string
	nextID    int
	listeners map[int]Listener
}

// New создаёт хранилище с датой по умолчанию - сегодня
func New(now time.Time) *SelectedDate {
	return &SelectedDate{
		value:     model.Today(now),
		listeners: make(map[int]Listener),
	}
}

// Get возвращает последнее записанное значение
func (s *SelectedDate) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set заменяет дату целиком и уведомляет подписчиков, если значение изменилось
func (s *SelectedDate) Set(date string) error {
	if !model.IsISODate(date) {
		return ErrInvalidDate
	}

	s.mu.Lock()
	old := s.value
	if old == date {
		s.mu.Unlock()
		return nil
	}
	s.value = date
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	// вызываем вне блокировки, подписчик может читать Get
	for _, l := range listeners {
		l(old, date)
	}
	return nil
}

// Subscribe регистрирует подписчика; возвращает функцию отписки
func (s *SelectedDate) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

type ctxKey struct{}

// WithSelectedDate прикрепляет хранилище к контексту
func WithSelectedDate(ctx context.Context, sd *SelectedDate) context.Context {
	return context.WithValue(ctx, ctxKey{}, sd)
}

// From достаёт хранилище из контекста.
// Паникует, если хранилище не было прикреплено: это ошибка связывания, а не runtime-условие.
func From(ctx context.Context) *SelectedDate {
	sd, ok := ctx.Value(ctxKey{}).(*SelectedDate)
	if !ok || sd == nil {
		panic("datectx: From called without WithSelectedDate")
	}
	return sd
}
