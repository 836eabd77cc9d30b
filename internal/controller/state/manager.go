package state

import (
	"sync"
)

// Manager хранит незавершённые диалоги пользователей
type Manager struct {
	mu      sync.RWMutex
	dialogs map[int64]Dialog // telegramID -> Dialog
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		dialogs: make(map[int64]Dialog),
	}
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.dialogs[telegramID].State
}

// SetState переводит пользователя в состояние, экран диалога сохраняется
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	d := sm.dialogs[telegramID]
	d.State = state
	sm.store(telegramID, d)
}

// Screen сообщение экрана, ожидающего ввода
func (sm *Manager) Screen(telegramID int64) (int, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	id := sm.dialogs[telegramID].ScreenMessageID
	return id, id != 0
}

// SetScreen запоминает сообщение экрана, ожидающего ввода
func (sm *Manager) SetScreen(telegramID int64, messageID int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	d := sm.dialogs[telegramID]
	d.ScreenMessageID = messageID
	sm.store(telegramID, d)
}

// Dialog копия диалога пользователя
func (sm *Manager) Dialog(telegramID int64) (Dialog, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	d, ok := sm.dialogs[telegramID]
	return d, ok
}

// ClearState очищает диалог пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.dialogs, telegramID)
}

// store сохраняет диалог; пустой диалог не хранится
func (sm *Manager) store(telegramID int64, d Dialog) {
	if d == (Dialog{}) {
		delete(sm.dialogs, telegramID)
		return
	}
	sm.dialogs[telegramID] = d
}
