package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SessionPurger удаляет истёкшие сессии
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sessions SessionPurger
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler создаёт новый планировщик
func NewScheduler(sessions SessionPurger, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		sessions: sessions,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("session_cleanup_interval", s.interval))

	s.wg.Add(1)
	go s.runSessionCleanupTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

// runSessionCleanupTask периодически удаляет истёкшие сессии
func (s *Scheduler) runSessionCleanupTask(ctx context.Context) {
	defer s.wg.Done()

	// Первый запуск сразу при старте
	s.purgeSessions(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.purgeSessions(ctx)
		case <-s.stopChan:
			s.logger.Info("Session cleanup task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Session cleanup task cancelled")
			return
		}
	}
}

func (s *Scheduler) purgeSessions(ctx context.Context) {
	removed, err := s.sessions.PurgeExpired(ctx)
	if err != nil {
		s.logger.Error("Failed to purge expired sessions", zap.Error(err))
		return
	}

	s.logger.Info("Expired sessions purged", zap.Int64("removed", removed))
}
