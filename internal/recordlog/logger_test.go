package recordlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/captionbar/internal/caption"
	"github.com/1broseidon/captionbar/internal/geometry"
)

func newTestLogger(t *testing.T, level LogLevel, maxFiles int) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "layout.log")
	l, err := NewLogger(LogConfig{
		Enabled:   true,
		Level:     level,
		FilePath:  path,
		MaxSizeMB: 1,
		MaxFiles:  maxFiles,
	})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { l.Close() })
	return l, path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestLogger_DisabledWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.log")
	l, err := NewLogger(LogConfig{Enabled: false, FilePath: path})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.Log(KindTitle, map[string]any{"title": "x"})
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no log file, stat err=%v", err)
	}

	var nilLogger *Logger
	nilLogger.Log(KindTitle, nil)
	if err := nilLogger.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}

func TestLogger_FormatsSortedDetails(t *testing.T) {
	l, path := newTestLogger(t, LevelInfo, 3)

	l.Log(KindTitle, map[string]any{"title": "Notes", "previous": "old"})

	got := readFile(t, path)
	want := "2024-05-01 12:30:00 [TITLE] previous=\"old\" title=\"Notes\"\n"
	if got != want {
		t.Fatalf("entry = %q, want %q", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	l, path := newTestLogger(t, LevelWarn, 3)

	l.Log(KindLayout, map[string]any{"seq": 1})
	l.Log(KindLayoutDegraded, map[string]any{"seq": 2})

	got := readFile(t, path)
	if strings.Contains(got, "[LAYOUT]") {
		t.Fatalf("info entry written at warn level: %q", got)
	}
	if !strings.Contains(got, "[LAYOUT-DEGRADED] seq=2") {
		t.Fatalf("warn entry missing: %q", got)
	}
}

func TestLogger_RecordLayout(t *testing.T) {
	l, path := newTestLogger(t, LevelDebug, 3)

	l.RecordLayout(caption.DebugRecord{
		Seq:            7,
		CaptionTop:     32,
		StripHeight:    32,
		Obstacles:      []geometry.Rect{{Left: 0, Top: 0, Right: 50, Bottom: 32}},
		DrawableStart:  50,
		DrawableEnd:    300,
		ContainerWidth: 300,
	})

	got := readFile(t, path)
	for _, part := range []string{
		"[LAYOUT]",
		"caption_top=32",
		"drawable_end=300",
		"drawable_start=50",
		"obstacles=1",
		"seq=7",
	} {
		if !strings.Contains(got, part) {
			t.Fatalf("expected %q in %q", part, got)
		}
	}
}

func TestLogger_Rotates(t *testing.T) {
	l, path := newTestLogger(t, LevelInfo, 2)

	for i := 0; i < 4; i++ {
		// Force the size check to trip before every write.
		l.currentSize = 1024 * 1024
		l.Log(KindReload, map[string]any{"n": i})
	}

	if got := readFile(t, path); !strings.Contains(got, "n=3") {
		t.Fatalf("current file = %q", got)
	}
	if got := readFile(t, path+".1"); !strings.Contains(got, "n=2") {
		t.Fatalf(".1 = %q", got)
	}
	if got := readFile(t, path+".2"); !strings.Contains(got, "n=1") {
		t.Fatalf(".2 = %q", got)
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Fatalf("expected no .3 file, stat err=%v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
