// Package recordlog writes an append-only, size-rotated log of caption
// layout events.
package recordlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/captionbar/internal/caption"
)

// LogLevel defines the logging verbosity.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Kind is the type of event being logged.
type Kind string

const (
	KindLayout         Kind = "LAYOUT"
	KindLayoutDegraded Kind = "LAYOUT-DEGRADED"
	KindTitle          Kind = "TITLE"
	KindTransparency   Kind = "TRANSPARENCY"
	KindReload         Kind = "RELOAD"
	KindReloadFailed   Kind = "RELOAD-FAILED"
)

// kindLevel returns the log level for an event kind.
func kindLevel(kind Kind) LogLevel {
	switch kind {
	case KindLayout, KindTitle, KindTransparency, KindReload:
		return LevelInfo
	case KindLayoutDegraded, KindReloadFailed:
		return LevelWarn
	default:
		return LevelInfo
	}
}

// LogConfig holds configuration for the record logger.
type LogConfig struct {
	Enabled   bool
	Level     LogLevel
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// Logger writes event lines with file rotation. It is safe for concurrent
// use.
type Logger struct {
	mu          sync.Mutex
	file        *os.File
	config      LogConfig
	currentSize int64
	now         func() time.Time
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(cfg LogConfig) (*Logger, error) {
	if !cfg.Enabled {
		return &Logger{config: cfg, now: time.Now}, nil
	}

	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &Logger{
		file:        f,
		config:      cfg,
		currentSize: stat.Size(),
		now:         time.Now,
	}, nil
}

// Log records one event with its details sorted by key.
func (l *Logger) Log(kind Kind, details map[string]any) {
	if l == nil || !l.config.Enabled {
		return
	}
	if kindLevel(kind) < l.config.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}

	maxBytes := int64(l.config.MaxSizeMB) * 1024 * 1024
	if maxBytes > 0 && l.currentSize >= maxBytes {
		if err := l.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "record log rotation failed: %v\n", err)
		}
		if l.file == nil {
			return
		}
	}

	n, err := l.file.WriteString(formatEntry(l.now(), kind, details))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write record log entry: %v\n", err)
		return
	}
	l.currentSize += int64(n)
}

func formatEntry(at time.Time, kind Kind, details map[string]any) string {
	var sb strings.Builder
	sb.WriteString(at.Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(string(kind))
	sb.WriteString("]")

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch val := details[k].(type) {
		case string:
			fmt.Fprintf(&sb, " %s=%q", k, val)
		default:
			fmt.Fprintf(&sb, " %s=%v", k, val)
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// RecordLayout logs one layout record. It has the shape of a caption
// debug listener.
func (l *Logger) RecordLayout(rec caption.DebugRecord) {
	kind := KindLayout
	if rec.Degraded {
		kind = KindLayoutDegraded
	}
	l.Log(kind, map[string]any{
		"seq":             rec.Seq,
		"caption_top":     rec.CaptionTop,
		"status_top":      rec.StatusTop,
		"strip_height":    rec.StripHeight,
		"obstacles":       len(rec.Obstacles),
		"drawable_start":  rec.DrawableStart,
		"drawable_end":    rec.DrawableEnd,
		"drawable_width":  rec.DrawableWidth(),
		"container_width": rec.ContainerWidth,
	})
}

// Close closes the logger and releases resources.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// rotate shifts layout.log to layout.log.1, .1 to .2 and so on, keeping
// MaxFiles rotated files.
func (l *Logger) rotate() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	basePath := l.config.FilePath
	for i := l.config.MaxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", basePath, i)
		if i == l.config.MaxFiles {
			os.Remove(oldPath)
			continue
		}
		os.Rename(oldPath, fmt.Sprintf("%s.%d", basePath, i+1))
	}

	if l.config.MaxFiles > 0 {
		if err := os.Rename(basePath, basePath+".1"); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	} else {
		os.Remove(basePath)
	}

	f, err := os.OpenFile(basePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new log file: %w", err)
	}

	l.file = f
	l.currentSize = 0
	return nil
}

// ParseLogLevel converts a string to LogLevel.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
