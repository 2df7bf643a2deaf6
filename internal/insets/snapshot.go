// Package insets turns raw platform inset reports into normalized
// geometry snapshots for the caption strip.
package insets

import (
	"errors"
	"io"
	"log/slog"
	"math"

	"github.com/1broseidon/captionbar/internal/geometry"
)

// DefaultFallbackDP is the strip height used when the platform reports no
// caption inset, no status inset and no obstacles.
const DefaultFallbackDP = 40

// ErrCapabilityAbsent is returned by an ObstacleSource when the platform
// cannot report reserved rectangles at all. It selects the degraded mode
// and is never treated as a failure.
var ErrCapabilityAbsent = errors.New("obstacle rectangles not supported by platform")

// ObstacleSource reports the reserved rectangles inside the caption strip,
// in strip-local pixels.
type ObstacleSource interface {
	ObstacleRects() ([]geometry.Rect, error)
}

// ObstacleFunc adapts a plain function to ObstacleSource.
type ObstacleFunc func() ([]geometry.Rect, error)

// ObstacleRects calls f.
func (f ObstacleFunc) ObstacleRects() ([]geometry.Rect, error) {
	return f()
}

// Raw is one inset report as delivered by the windowing layer. Either top
// inset may be 0 when the platform does not support it. Obstacles is nil
// on platforms that have no way to report reserved rectangles.
type Raw struct {
	CaptionTop int
	StatusTop  int
	Obstacles  ObstacleSource
}

// Snapshot is the normalized geometry derived from one Raw report.
type Snapshot struct {
	CaptionTop   int
	StatusTop    int
	Obstacles    []geometry.Rect
	BoundedWidth int
	// Degraded is set when obstacle rectangles could not be obtained.
	Degraded bool
}

// MaxObstacleBottom returns the lowest bottom edge among the obstacles.
func (s Snapshot) MaxObstacleBottom() int {
	bottom := 0
	for _, r := range s.Obstacles {
		bottom = max(bottom, r.Bottom)
	}
	return bottom
}

// Builder derives snapshots and strip heights from raw reports.
type Builder struct {
	// FallbackDP is the strip height, in dp, used when nothing else is
	// known. Zero means DefaultFallbackDP.
	FallbackDP int
	// DPI of the output showing the window. Zero means 96 (1dp == 1px).
	DPI float64
	// Logger receives probe diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Build normalizes raw into a Snapshot. A nil raw report, a nil obstacle
// source and any error from the source all yield an empty obstacle set.
func (b *Builder) Build(raw *Raw, boundedWidth int) Snapshot {
	if raw == nil {
		b.logger().Debug("inset report absent, using degraded geometry")
		return Snapshot{BoundedWidth: max(boundedWidth, 0), Degraded: true}
	}

	snap := Snapshot{
		CaptionTop:   max(raw.CaptionTop, 0),
		StatusTop:    max(raw.StatusTop, 0),
		BoundedWidth: max(boundedWidth, 0),
	}

	rects, ok := b.probe(raw.Obstacles)
	if !ok {
		snap.Degraded = true
		return snap
	}

	snap.Obstacles = make([]geometry.Rect, 0, len(rects))
	for _, r := range rects {
		snap.Obstacles = append(snap.Obstacles, r.Canon())
	}
	return snap
}

// probe asks src for its rectangles. ok is false when the capability is
// missing or failed.
func (b *Builder) probe(src ObstacleSource) (rects []geometry.Rect, ok bool) {
	if src == nil {
		b.logger().Debug("no obstacle source, using empty obstacle set")
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			b.logger().Warn("obstacle probe panicked, using empty obstacle set", "panic", r)
			rects, ok = nil, false
		}
	}()

	rects, err := src.ObstacleRects()
	switch {
	case errors.Is(err, ErrCapabilityAbsent):
		b.logger().Debug("obstacle capability absent, using empty obstacle set")
		return nil, false
	case err != nil:
		b.logger().Warn("obstacle probe failed, using empty obstacle set", "error", err)
		return nil, false
	}
	return rects, true
}

// StripHeight returns max(CaptionTop, StatusTop, lowest obstacle bottom),
// or FallbackHeight when all of them are zero.
func (b *Builder) StripHeight(s Snapshot) int {
	h := max(s.CaptionTop, s.StatusTop, s.MaxObstacleBottom())
	if h > 0 {
		return h
	}
	return b.FallbackHeight()
}

// FallbackHeight returns the fallback strip height in pixels.
func (b *Builder) FallbackHeight() int {
	dp := b.FallbackDP
	if dp <= 0 {
		dp = DefaultFallbackDP
	}
	return b.DPToPx(float64(dp))
}

// DPToPx converts density-independent units to pixels, truncating like
// the platforms that define the unit.
func (b *Builder) DPToPx(dp float64) int {
	return DPToPx(dp, b.DPI)
}

// DPToPx converts dp to pixels at the given dpi. A non-positive dpi is
// treated as the 96 dpi baseline.
func DPToPx(dp, dpi float64) int {
	if dpi <= 0 || math.IsNaN(dpi) || math.IsInf(dpi, 0) {
		dpi = 96
	}
	return int(dp * dpi / 96)
}

func (b *Builder) logger() *slog.Logger {
	if b == nil || b.Logger == nil {
		return discard
	}
	return b.Logger
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))
