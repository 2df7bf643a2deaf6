// Package daemon runs a caption window and serves its control socket.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/captionbar/internal/caption"
	"github.com/1broseidon/captionbar/internal/config"
	"github.com/1broseidon/captionbar/internal/insets"
	"github.com/1broseidon/captionbar/internal/ipc"
	"github.com/1broseidon/captionbar/internal/platform"
	"github.com/1broseidon/captionbar/internal/recordlog"
)

// BackendOpener connects to the window system.
type BackendOpener func(display string, logger *slog.Logger) (platform.Backend, error)

// Options configures a Runner.
type Options struct {
	// ConfigPath is the config file; a missing file yields the defaults.
	ConfigPath string
	// Overrides are command line values layered over the file on every
	// load, including reloads.
	Overrides  config.RawConfig
	SocketPath string
	// Watch reloads the config file when it changes on disk.
	Watch       bool
	OpenBackend BackendOpener
	// SetLogLevel is called with log_level after every successful load.
	SetLogLevel func(level string)
	Logger      *slog.Logger
	// LoopTimeout bounds how long IPC requests wait for the event loop.
	LoopTimeout time.Duration
	// ReprobeInterval is how often dock struts are checked for changes.
	ReprobeInterval time.Duration
}

// Runner owns one caption window for the lifetime of Run.
type Runner struct {
	opts   Options
	logger *slog.Logger

	backend platform.Backend
	win     platform.CaptionWindow
	binding *caption.Binding
	records *recordlog.Logger
	status  statusStore

	ctx    context.Context
	cancel context.CancelFunc

	// cfg is the last applied config. Only the event loop touches it.
	cfg *config.Config

	reloadMu sync.Mutex
}

var _ ipc.Controller = (*Runner)(nil)

// NewRunner validates opts and returns a Runner ready for Run.
func NewRunner(opts Options) (*Runner, error) {
	if opts.OpenBackend == nil {
		return nil, fmt.Errorf("daemon: no window system backend")
	}
	if opts.SocketPath == "" {
		return nil, fmt.Errorf("daemon: socket path is empty")
	}
	if opts.LoopTimeout <= 0 {
		opts.LoopTimeout = 5 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{opts: opts, logger: logger}, nil
}

// Run opens the window and processes events until ctx is cancelled or the
// window is closed.
func (r *Runner) Run(ctx context.Context) error {
	res, err := config.LoadFromPathWithOverrides(r.opts.ConfigPath, r.opts.Overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := res.Config
	r.applyLogLevel(cfg)

	backend, err := r.opts.OpenBackend(cfg.Display, r.logger)
	if err != nil {
		return err
	}
	r.backend = backend
	defer backend.Close()

	r.ctx, r.cancel = context.WithCancel(ctx)
	defer r.cancel()

	if err := r.open(cfg); err != nil {
		return err
	}
	defer r.shutdown()

	server, err := ipc.NewServer(r.opts.SocketPath, r, r.logger)
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	if r.opts.Watch && r.opts.ConfigPath != "" {
		go r.watch()
	}
	if fp, ok := r.win.(Fingerprinter); ok {
		rec := NewReconciler(ReconcilerConfig{Interval: r.opts.ReprobeInterval, Logger: r.logger},
			fp, backend.Post, r.win.RequestInsets)
		go rec.Run(r.ctx)
	}

	r.win.Show()
	r.logger.Info("caption window running", "title", cfg.Title, "socket", r.opts.SocketPath)

	backend.Run(r.ctx)
	r.logger.Info("caption window stopped")
	return nil
}

// open creates the window and binds the caption strip to it.
func (r *Runner) open(cfg *config.Config) error {
	captionColor, titleColor, background, err := cfg.Colors()
	if err != nil {
		return err
	}

	recCfg := cfg.GetRecordLogConfig()
	records, err := recordlog.NewLogger(recordlog.LogConfig{
		Enabled:   recCfg.Enabled,
		Level:     recordlog.ParseLogLevel(recCfg.Level),
		FilePath:  recCfg.File,
		MaxSizeMB: recCfg.MaxSizeMB,
		MaxFiles:  recCfg.MaxFiles,
	})
	if err != nil {
		// The record log is optional; run without it.
		r.logger.Warn("record log disabled", "error", err)
		records = nil
	}
	r.records = records

	win, err := r.backend.OpenWindow(platform.WindowOptions{
		Name:           cfg.Title,
		Width:          cfg.Window.Width,
		Height:         cfg.Window.Height,
		Background:     background,
		Fonts:          cfg.Font,
		TitlePaddingDP: cfg.TitlePaddingDP,
		ProbeHeightDP:  cfg.ObstacleProbeHeightDP,
		Opacity:        cfg.CaptionOpacity,
	})
	if err != nil {
		return fmt.Errorf("open window: %w", err)
	}
	r.win = win
	win.OnClose(r.cancel)

	binding, err := caption.Bind(win, caption.BindConfig{
		Title:                cfg.Title,
		CaptionColor:         captionColor,
		TitleColor:           titleColor,
		SkipTransparency:     !cfg.TransparentCaption,
		OnTransparencyStatus: r.onTransparency,
		Builder: &insets.Builder{
			FallbackDP: cfg.FallbackHeightDP,
			DPI:        win.DPI(),
			Logger:     r.logger,
		},
		Logger: r.logger,
	})
	if err != nil {
		win.Destroy()
		return err
	}
	r.binding = binding
	binding.AddDebugListener(r.status.record)
	binding.AddDebugListener(r.records.RecordLayout)

	r.cfg = cfg
	r.status.setTitle(cfg.Title)
	r.status.setDPI(win.DPI())
	r.status.setConfigPath(r.opts.ConfigPath)
	return nil
}

func (r *Runner) shutdown() {
	if r.win != nil {
		r.win.Destroy()
	}
	if err := r.records.Close(); err != nil {
		r.logger.Warn("failed to close record log", "error", err)
	}
}

func (r *Runner) onTransparency(message string) {
	status, ok := r.binding.TransparencyStatus()
	if ok {
		r.status.setTransparency(status)
	}
	r.records.Log(recordlog.KindTransparency, map[string]any{
		"outcome": status.Outcome.String(),
		"message": message,
	})
}

func (r *Runner) applyLogLevel(cfg *config.Config) {
	if r.opts.SetLogLevel != nil {
		r.opts.SetLogLevel(cfg.LogLevel)
	}
}

// onLoop runs fn on the event loop and waits for its result.
func (r *Runner) onLoop(fn func() error) error {
	if r.ctx == nil {
		return errors.New("caption window is not running")
	}
	done := make(chan error, 1)
	r.backend.Post(func() {
		defer func() {
			if p := recover(); p != nil {
				r.logger.Error("event loop task panicked", "panic", p)
				done <- fmt.Errorf("internal error: %v", p)
			}
		}()
		done <- fn()
	})

	timer := time.NewTimer(r.opts.LoopTimeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-r.ctx.Done():
		return errors.New("caption window is shutting down")
	case <-timer.C:
		return errors.New("timed out waiting for the event loop")
	}
}

// Status returns the last published binding state.
func (r *Runner) Status() ipc.StatusData {
	return r.status.snapshot()
}

// SetTitle changes the displayed title. The title persists across reloads
// until the config file's title changes.
func (r *Runner) SetTitle(title string) error {
	return r.onLoop(func() error {
		r.applyTitle(title, "ipc")
		return nil
	})
}

func (r *Runner) applyTitle(title, origin string) {
	previous := r.binding.Title()
	if previous == title {
		return
	}
	r.binding.SetTitle(title)
	r.status.setTitle(title)
	r.records.Log(recordlog.KindTitle, map[string]any{
		"title":    title,
		"previous": previous,
		"origin":   origin,
	})
	r.logger.Info("caption title changed", "title", title, "origin", origin)
}

// Displays lists the displays known to the window system.
func (r *Runner) Displays() ([]ipc.DisplayInfo, error) {
	result := make(chan []ipc.DisplayInfo, 1)
	err := r.onLoop(func() error {
		displays, err := r.backend.Displays()
		if err != nil {
			return err
		}
		out := make([]ipc.DisplayInfo, 0, len(displays))
		for _, d := range displays {
			out = append(out, ipc.DisplayInfo{
				ID:     d.ID,
				Name:   d.Name,
				X:      d.Bounds.Left,
				Y:      d.Bounds.Top,
				Width:  d.Bounds.Width(),
				Height: d.Bounds.Height(),
				DPI:    d.DPI,
			})
		}
		result <- out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return <-result, nil
}
