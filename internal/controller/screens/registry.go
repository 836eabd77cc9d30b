// Package screens держит экраны каждого пользователя бота вместе с их локальным состоянием
package screens

import (
	"sync"

	"github.com/Freeeeeet/meeting_bot/internal/datectx"
	"github.com/Freeeeeet/meeting_bot/internal/model"
	"github.com/Freeeeeet/meeting_bot/internal/slotsync"
	"go.uber.org/zap"
)

// API операции удалённого API, доступные экранам пользователя
type API interface {
	slotsync.ScheduleAPI
	slotsync.MeetingAPI
}

// ClientFactory создаёт клиент API, подписанный токеном пользователя
type ClientFactory func(token string) API

// Screens экраны одного пользователя
type Screens struct {
	TelegramID int64
	Date       *datectx.SelectedDate
	Day        *slotsync.DayView
	Meetings   *slotsync.MeetingsView

	token       string
	night       map[string]*slotsync.NightView
	unsubscribe func()
}

// Night экран публикации слотов сегмента
func (s *Screens) Night(segment model.Segment) *slotsync.NightView {
	return s.night[segment.Name]
}

// invalidate отбрасывает загрузки, начатые для прежней даты
func (s *Screens) invalidate(old, new string) {
	for _, v := range s.night {
		v.Invalidate()
	}
	s.Day.Invalidate()
}

// Registry экраны всех пользователей
type Registry struct {
	mu      sync.Mutex
	users   map[int64]*Screens
	dates   *datectx.Registry
	factory ClientFactory
	logger  *zap.Logger
}

func NewRegistry(dates *datectx.Registry, factory ClientFactory, logger *zap.Logger) *Registry {
	return &Registry{
		users:   make(map[int64]*Screens),
		dates:   dates,
		factory: factory,
		logger:  logger,
	}
}

// For возвращает экраны пользователя сессии.
// Смена токена пересоздаёт экраны: локальное состояние принадлежит старой сессии.
func (r *Registry) For(session *model.Session) *Screens {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.users[session.TelegramID]; ok {
		if s.token == session.Token {
			return s
		}
		s.unsubscribe()
	}

	client := r.factory(session.Token)
	logger := r.logger.With(zap.Int64("telegram_id", session.TelegramID))

	s := &Screens{
		TelegramID: session.TelegramID,
		Date:       r.dates.For(session.TelegramID),
		Day:        slotsync.NewDayView(client, client, logger),
		Meetings:   slotsync.NewMeetingsView(client, logger),
		token:      session.Token,
		night:      make(map[string]*slotsync.NightView),
	}
	for _, seg := range model.Segments() {
		s.night[seg.Name] = slotsync.NewNightView(client, seg, logger)
	}
	if session.SelectedDate != "" {
		// Дата из прошлого запуска бота
		if err := s.Date.Set(session.SelectedDate); err != nil {
			logger.Warn("Stored selected date ignored",
				zap.String("date", session.SelectedDate),
				zap.Error(err))
		}
	}
	s.unsubscribe = s.Date.Subscribe(s.invalidate)

	r.users[session.TelegramID] = s
	return s
}

// Drop забывает экраны и выбранную дату пользователя
func (r *Registry) Drop(telegramID int64) {
	r.mu.Lock()
	s, ok := r.users[telegramID]
	delete(r.users, telegramID)
	r.mu.Unlock()

	if ok {
		s.unsubscribe()
	}
	r.dates.Drop(telegramID)
}
