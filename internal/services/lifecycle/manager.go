package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Hook releases one component's resources during shutdown.
type Hook func(ctx context.Context) error

type entry struct {
	name string
	stop Hook
}

// Manager runs registered hooks in reverse registration order once the
// process is told to stop, bounded by a single shared timeout.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	entries []entry
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{timeout: timeout, logger: logger}
}

// Register appends a named shutdown hook. Registration order is start
// order, so teardown runs the list back to front.
func (m *Manager) Register(name string, stop Hook) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	m.entries = append(m.entries, entry{name: name, stop: stop})
	m.mu.Unlock()
}

// Shutdown tears down every registered component. A failing hook is logged
// and does not stop the remaining ones; all errors are joined.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	entries := make([]entry, len(m.entries))
	copy(entries, m.entries)
	m.mu.Unlock()

	var failures error
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if err := e.stop(ctx); err != nil {
			m.logger.Error("shutdown hook failed", zap.String("component", e.name), zap.Error(err))
			failures = errors.Join(failures, err)
			continue
		}
		m.logger.Info("component stopped", zap.String("component", e.name))
	}
	return failures
}

// Listen watches for SIGTERM/SIGINT in the background and fires cancel on
// the first one received.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		sig := <-sigCh
		m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()
}
