//go:build linux

package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/captionbar/internal/geometry"
	"github.com/1broseidon/captionbar/internal/x11"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn   *x11.Connection
	logger *slog.Logger
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, logger *slog.Logger) *LinuxBackend {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LinuxBackend{conn: conn, logger: logger}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh
// X11 connection. An empty display uses $DISPLAY.
func NewLinuxBackendFromDisplay(display string, logger *slog.Logger) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn, logger), nil
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}
	return displays, nil
}

// OpenWindow creates a caption window. It is not shown until Show.
func (b *LinuxBackend) OpenWindow(opts WindowOptions) (CaptionWindow, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	if !conn.HasWindowManager() {
		b.logger.Warn("no EWMH window manager detected, caption insets will be empty")
	}
	return newLinuxWindow(conn, opts, b.logger)
}

// Post runs fn on the event loop goroutine.
func (b *LinuxBackend) Post(fn func()) {
	b.conn.Post(fn)
}

// Run starts the X11 event loop (blocking) until ctx is done or Quit.
func (b *LinuxBackend) Run(ctx context.Context) {
	if b != nil && b.conn != nil {
		b.conn.EventLoop(ctx)
	}
}

// Quit stops the event loop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// Close closes the underlying X11 connection.
func (b *LinuxBackend) Close() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("linux backend is not connected")
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:   m.ID,
		Name: m.Name,
		Bounds: geometry.Rect{
			Left:   m.X,
			Top:    m.Y,
			Right:  m.X + m.Width,
			Bottom: m.Y + m.Height,
		},
		DPI: m.DPI(),
	}
}
