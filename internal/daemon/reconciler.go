package daemon

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Refresher resnapshots the window system.
type Refresher interface {
	Refresh() error
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *zap.Logger
}

// Reconciler periodically refreshes the tiling engine so windows opened,
// closed or moved between key presses are picked up and retiled.
type Reconciler struct {
	interval  time.Duration
	refresher Refresher
	logger    *zap.Logger
}

// NewReconciler creates a new reconciler. A non-positive interval yields a
// reconciler whose Run returns immediately.
func NewReconciler(cfg ReconcilerConfig, refresher Refresher) *Reconciler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		interval:  cfg.Interval,
		refresher: refresher,
		logger:    logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	if r.interval <= 0 {
		r.logger.Info("reconciler disabled")
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", zap.Duration("interval", r.interval))

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile() (err error) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("reconciler panic recovered", zap.Any("panic", p))
		}
	}()

	if err = r.refresher.Refresh(); err != nil {
		r.logger.Warn("reconciler: refresh failed", zap.Error(err))
	}
	return err
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() error {
	return r.reconcile()
}
