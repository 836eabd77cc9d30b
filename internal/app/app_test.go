package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type purgerFunc func(ctx context.Context) (int64, error)

func (f purgerFunc) PurgeExpired(ctx context.Context) (int64, error) { return f(ctx) }

func TestSchedulerPurgesOnStartAndTick(t *testing.T) {
	var calls atomic.Int32
	purger := purgerFunc(func(context.Context) (int64, error) {
		if calls.Add(1) == 2 {
			return 0, errors.New("db down")
		}
		return 1, nil
	})

	s := NewScheduler(purger, 10*time.Millisecond, zap.NewNop())
	s.Start(context.Background())

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()

	stopped := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(purgerFunc(func(context.Context) (int64, error) { return 0, nil }), time.Hour, zap.NewNop())
	s.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestMetricsServerExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "meeting_bot_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	srv := NewMetricsServer(":0", reg, zap.NewNop())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "meeting_bot_test_total 1")
}

func TestNewLoggerLevel(t *testing.T) {
	logger := NewLogger("development", "warn")
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	fallback := NewLogger("production", "nonsense")
	assert.True(t, fallback.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, fallback.Core().Enabled(zapcore.DebugLevel))
}
