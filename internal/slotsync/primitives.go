package slotsync

import (
	"context"
	"sync"
	"sync/atomic"
)

// State локальное состояние экрана под мьютексом.
// Значения S считаются неизменяемыми: функции обновления возвращают новую копию.
type State[S any] struct {
	mu    sync.RWMutex
	value S
}

// Get возвращает текущее значение
func (s *State[S]) Get() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set заменяет значение целиком
func (s *State[S]) Set(v S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
}

// Update применяет fn к текущему значению атомарно
func (s *State[S]) Update(fn func(S) S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = fn(s.value)
}

// Generation монотонный счётчик запросов загрузки
type Generation struct {
	n atomic.Uint64
}

// Next выдаёт токен нового запроса, делая все предыдущие устаревшими
func (g *Generation) Next() uint64 {
	return g.n.Add(1)
}

// Current последний выданный токен
func (g *Generation) Current() uint64 {
	return g.n.Load()
}

// IsCurrent проверяет, что за время запроса не был выдан новый токен
func (g *Generation) IsCurrent(token uint64) bool {
	return g.n.Load() == token
}

// InFlight множество ключей с незавершёнными мутациями
type InFlight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// Acquire занимает ключ; false если мутация по ключу уже идёт
func (f *InFlight) Acquire(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keys == nil {
		f.keys = make(map[string]struct{})
	}
	if _, busy := f.keys[key]; busy {
		return false
	}
	f.keys[key] = struct{}{}
	return true
}

// Release освобождает ключ
func (f *InFlight) Release(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.keys, key)
}

// Busy проверяет, идёт ли мутация по ключу
func (f *InFlight) Busy(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, busy := f.keys[key]
	return busy
}

// Mutate снимает снимок состояния, выполняет удалённую мутацию и только после
// подтверждения применяет локальную дельту. Локальное состояние до ответа не трогается,
// поэтому при ошибке экран остаётся ровно в снимке.
func Mutate[S any](
	ctx context.Context,
	st *State[S],
	guard *InFlight,
	key string,
	remote func(ctx context.Context, snapshot S) error,
	apply func(current S) S,
) error {
	if !guard.Acquire(key) {
		return ErrInFlight
	}
	defer guard.Release(key)

	snapshot := st.Get()
	if err := remote(ctx, snapshot); err != nil {
		return err
	}

	if apply != nil {
		st.Update(apply)
	}
	return nil
}
