package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/activityhub/backend/internal/infrastructure/journal"
	"github.com/activityhub/backend/usecase"
)

var _ usecase.Journal = (*journal.Store)(nil)

// AuditConfig controls how often the journal retention sweep runs and how
// long events are kept.
type AuditConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// AuditSweeper prunes aged-out events from the audit journal on a schedule.
type AuditSweeper struct {
	store  *journal.Store
	logger *zap.Logger
	cron   *cron.Cron
	cfg    AuditConfig
}

func NewAuditSweeper(store *journal.Store, logger *zap.Logger, cfg AuditConfig) *AuditSweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	as := &AuditSweeper{
		store:  store,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = as.cron.AddFunc(schedule, func() {
		if err := as.Sweep(); err != nil {
			as.logger.Error("journal sweep failed", zap.Error(err))
		}
	})

	return as
}

// Start launches the cron scheduler.
func (as *AuditSweeper) Start() {
	if as == nil || as.cron == nil {
		return
	}
	as.cron.Start()
	as.logger.Info("audit sweeper started",
		zap.Duration("interval", as.cfg.Interval),
		zap.Duration("retention", as.cfg.Retention))
}

// Stop gracefully stops the scheduler.
func (as *AuditSweeper) Stop(ctx context.Context) {
	if as == nil || as.cron == nil {
		return
	}
	stopCtx := as.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	as.logger.Info("audit sweeper stopped")
}

// Sweep removes events older than the retention window.
func (as *AuditSweeper) Sweep() error {
	if as == nil || as.store == nil {
		return nil
	}
	cutoff := time.Now().Add(-as.cfg.Retention)
	if err := as.store.Cleanup(cutoff); err != nil {
		return err
	}

	if size, err := as.store.Size(); err == nil {
		as.logger.Debug("journal sweep complete", zap.Int("remaining", size))
	}
	return nil
}

// Size returns the number of journaled events, zero on error.
func (as *AuditSweeper) Size() int {
	if as == nil || as.store == nil {
		return 0
	}
	size, err := as.store.Size()
	if err != nil {
		return 0
	}
	return size
}
