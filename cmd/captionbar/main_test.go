package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/1broseidon/captionbar/internal/caption"
	"github.com/1broseidon/captionbar/internal/config"
	"github.com/1broseidon/captionbar/internal/geometry"
	"github.com/1broseidon/captionbar/internal/ipc"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"info":    log.InfoLevel,
		"warning": log.WarnLevel,
		"WARN":    log.WarnLevel,
		"error":   log.ErrorLevel,
		"":        log.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 1}, "file:/c.yaml:3:1"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceFlag, Name: "command line"}, "flag"},
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, &ipc.StatusData{
		Title:               "Notes",
		Bound:               true,
		StripHeight:         32,
		DrawableStart:       50,
		DrawableEnd:         300,
		Transparency:        "No compositing manager; cannot set transparent caption",
		TransparencyOutcome: "unsupported",
		LastRecord: &caption.DebugRecord{
			Seq:            4,
			DrawableStart:  50,
			DrawableEnd:    300,
			ContainerWidth: 400,
			Obstacles: []geometry.Rect{
				{Left: 0, Top: 0, Right: 50, Bottom: 32},
				{Left: 300, Top: 0, Right: 400, Bottom: 20},
			},
			Degraded: true,
		},
		UptimeSeconds: 65,
	})

	out := buf.String()
	for _, part := range []string{"Notes", "32px", "50..300 (250px)", "degraded", "#4", "No compositing manager", "1m5s",
		"400px", "(0,0,50,32) (300,0,400,20)"} {
		if !strings.Contains(out, part) {
			t.Errorf("expected %q in output:\n%s", part, out)
		}
	}
}

func TestPrintStatus_NoObstacles(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, &ipc.StatusData{
		Title:      "Notes",
		LastRecord: &caption.DebugRecord{DrawableEnd: 300, ContainerWidth: 300},
	})
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("expected empty obstacle list in output:\n%s", buf.String())
	}
}

func TestNewLoggerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slogger(newLogger(&buf, log.WarnLevel))
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Fatalf("unexpected output: %q", out)
	}
}
