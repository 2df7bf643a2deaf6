package daemon

import (
	"context"
	"log/slog"
	"time"
)

// Fingerprinter summarizes the inputs of an inset report. Dock windows
// update their struts without notifying the root window, so a change in
// the summary is the only sign a fresh report is due.
type Fingerprinter interface {
	InsetFingerprint() (string, error)
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically checks for inset drift and requests a new
// report when it finds any.
type Reconciler struct {
	interval time.Duration
	source   Fingerprinter
	post     func(func())
	request  func()
	logger   *slog.Logger

	last string
	seen bool
}

// NewReconciler creates a reconciler. Checks run through post, on the
// event loop; request is called there when the fingerprint changes.
func NewReconciler(cfg ReconcilerConfig, source Fingerprinter, post func(func()), request func()) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	return &Reconciler{
		interval: interval,
		source:   source,
		post:     post,
		request:  request,
		logger:   cfg.Logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Debug("inset reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("inset reconciler stopped")
			return
		case <-ticker.C:
			r.post(r.reconcile)
		}
	}
}

// reconcile performs a single pass. Must run on the event loop.
func (r *Reconciler) reconcile() {
	// Recover from panics to prevent crashing the event loop
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("inset reconciler panic recovered", "error", err)
		}
	}()

	fp, err := r.source.InsetFingerprint()
	if err != nil {
		r.logger.Debug("inset reconciler: fingerprint failed", "error", err)
		return
	}

	if !r.seen {
		r.last, r.seen = fp, true
		return
	}
	if fp == r.last {
		return
	}

	r.logger.Debug("inset drift detected, requesting report")
	r.last = fp
	r.request()
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}
