package audit

import (
	"context"
	"log/slog"
	"time"
)

// RetentionWorker periodically removes audit events past the retention window.
type RetentionWorker struct {
	store    *AuditStore
	cfg      *AuditConfig
	interval time.Duration
	logger   *slog.Logger
}

// NewRetentionWorker creates a new RetentionWorker. The worker runs daily.
func NewRetentionWorker(store *AuditStore, cfg *AuditConfig, logger *slog.Logger) *RetentionWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetentionWorker{
		store:    store,
		cfg:      cfg,
		interval: 24 * time.Hour,
		logger:   logger,
	}
}

// Run starts the retention worker. It blocks until the context is cancelled.
func (w *RetentionWorker) Run(ctx context.Context) {
	if w.store == nil || !w.cfg.Enabled || w.cfg.RetentionDays <= 0 {
		w.logger.Info("audit retention worker disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("audit retention worker started",
		"retentionDays", w.cfg.RetentionDays,
		"interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("audit retention worker stopped")
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

// cleanup performs a single retention pass.
func (w *RetentionWorker) cleanup() {
	deleted, err := w.store.PurgeOlderThan(w.cfg.RetentionDays)
	if err != nil {
		w.logger.Error("audit retention cleanup failed", "error", err)
	} else if deleted > 0 {
		w.logger.Info("audit retention cleanup completed", "deleted", deleted)
	}
}
