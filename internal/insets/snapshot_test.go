package insets

import (
	"errors"
	"fmt"
	"testing"

	"github.com/1broseidon/captionbar/internal/geometry"
)

func TestBuild_NilReportIsDegraded(t *testing.T) {
	b := &Builder{}
	snap := b.Build(nil, 320)
	if !snap.Degraded {
		t.Fatal("expected degraded snapshot for nil report")
	}
	if len(snap.Obstacles) != 0 {
		t.Fatalf("expected no obstacles, got %v", snap.Obstacles)
	}
	if snap.BoundedWidth != 320 {
		t.Fatalf("BoundedWidth = %d, want 320", snap.BoundedWidth)
	}
	if h := b.StripHeight(snap); h != DefaultFallbackDP {
		t.Fatalf("StripHeight = %d, want %d", h, DefaultFallbackDP)
	}
}

func TestBuild_CapabilityAbsentFallsBackToTopInsets(t *testing.T) {
	b := &Builder{}
	raw := &Raw{
		CaptionTop: 28,
		StatusTop:  24,
		Obstacles: ObstacleFunc(func() ([]geometry.Rect, error) {
			return nil, fmt.Errorf("query bounding rects: %w", ErrCapabilityAbsent)
		}),
	}

	snap := b.Build(raw, 100)
	if !snap.Degraded || len(snap.Obstacles) != 0 {
		t.Fatalf("expected degraded empty snapshot, got %+v", snap)
	}
	if h := b.StripHeight(snap); h != 28 {
		t.Fatalf("StripHeight = %d, want 28", h)
	}
}

func TestBuild_ProbeFailuresDegrade(t *testing.T) {
	sources := map[string]ObstacleSource{
		"nil source": nil,
		"error": ObstacleFunc(func() ([]geometry.Rect, error) {
			return []geometry.Rect{{Right: 10, Bottom: 10}}, errors.New("bad reply")
		}),
		"panic": ObstacleFunc(func() ([]geometry.Rect, error) {
			panic("unexpected reply type")
		}),
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			b := &Builder{}
			snap := b.Build(&Raw{Obstacles: src}, 50)
			if !snap.Degraded {
				t.Fatal("expected degraded snapshot")
			}
			if len(snap.Obstacles) != 0 {
				t.Fatalf("expected no obstacles, got %v", snap.Obstacles)
			}
		})
	}
}

func TestBuild_NormalizesInvertedRects(t *testing.T) {
	b := &Builder{}
	raw := &Raw{
		Obstacles: ObstacleFunc(func() ([]geometry.Rect, error) {
			return []geometry.Rect{{Left: 90, Top: 32, Right: 60, Bottom: 0}}, nil
		}),
	}

	snap := b.Build(raw, 100)
	if snap.Degraded {
		t.Fatal("unexpected degraded snapshot")
	}
	want := geometry.Rect{Left: 60, Top: 0, Right: 90, Bottom: 32}
	if len(snap.Obstacles) != 1 || snap.Obstacles[0] != want {
		t.Fatalf("Obstacles = %v, want [%v]", snap.Obstacles, want)
	}
	if h := b.StripHeight(snap); h != 32 {
		t.Fatalf("StripHeight = %d, want 32", h)
	}
}

func TestStripHeight_TakesMaximum(t *testing.T) {
	b := &Builder{}
	tests := []struct {
		name string
		snap Snapshot
		want int
	}{
		{"caption inset", Snapshot{CaptionTop: 30, StatusTop: 10}, 30},
		{"status inset", Snapshot{CaptionTop: 0, StatusTop: 26}, 26},
		{"obstacle bottom", Snapshot{CaptionTop: 20, Obstacles: []geometry.Rect{{Bottom: 44}}}, 44},
		{"all zero", Snapshot{}, DefaultFallbackDP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.StripHeight(tt.snap); got != tt.want {
				t.Fatalf("StripHeight = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFallbackHeight_ScalesWithDPI(t *testing.T) {
	b := &Builder{FallbackDP: 40, DPI: 192}
	if got := b.FallbackHeight(); got != 80 {
		t.Fatalf("FallbackHeight = %d, want 80", got)
	}

	b = &Builder{FallbackDP: 40, DPI: 144}
	if got := b.FallbackHeight(); got != 60 {
		t.Fatalf("FallbackHeight = %d, want 60", got)
	}
}

func TestDPToPx_InvalidDPIUsesBaseline(t *testing.T) {
	for _, dpi := range []float64{0, -1} {
		if got := DPToPx(6, dpi); got != 6 {
			t.Fatalf("DPToPx(6, %v) = %d, want 6", dpi, got)
		}
	}
}
