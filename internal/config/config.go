package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTitle                 = "captionbar"
	DefaultTitleColor            = "#f5f7fa"
	DefaultBackgroundColor       = "#1f2933"
	DefaultFallbackHeightDP      = 40
	DefaultTitlePaddingDP        = 6
	DefaultObstacleProbeHeightDP = 40
	DefaultWindowWidth           = 800
	DefaultWindowHeight          = 500
	DefaultCaptionOpacity        = 0.85
	DefaultRecordLogMaxSizeMB    = 10
	DefaultRecordLogMaxFiles     = 3
)

// maxWindowSize is the largest size an X11 window can take.
const maxWindowSize = 65535

// WindowConfig sizes the top-level window.
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// RecordLogConfig controls the layout record log file.
type RecordLogConfig struct {
	Enabled   bool   `yaml:"enabled"`
	File      string `yaml:"file"`
	Level     string `yaml:"level"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

type Config struct {
	// Display is the X11 display to connect to. Empty uses $DISPLAY.
	Display string `yaml:"display"`
	Title   string `yaml:"title"`

	// CaptionColor fills the title box. Empty leaves the strip background.
	CaptionColor    string `yaml:"caption_color,omitempty"`
	TitleColor      string `yaml:"title_color"`
	BackgroundColor string `yaml:"background_color"`

	FallbackHeightDP      int      `yaml:"fallback_height_dp"`
	TitlePaddingDP        int      `yaml:"title_padding_dp"`
	ObstacleProbeHeightDP int      `yaml:"obstacle_probe_height_dp"`
	Font                  []string `yaml:"font"`

	Window WindowConfig `yaml:"window"`

	TransparentCaption bool    `yaml:"transparent_caption"`
	CaptionOpacity     float64 `yaml:"caption_opacity"`

	LogLevel  string          `yaml:"log_level"`
	RecordLog RecordLogConfig `yaml:"record_log"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Title:                 DefaultTitle,
		TitleColor:            DefaultTitleColor,
		BackgroundColor:       DefaultBackgroundColor,
		FallbackHeightDP:      DefaultFallbackHeightDP,
		TitlePaddingDP:        DefaultTitlePaddingDP,
		ObstacleProbeHeightDP: DefaultObstacleProbeHeightDP,
		Font:                  []string{"fixed", "9x15", "8x13", "6x13"},
		Window: WindowConfig{
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
		},
		TransparentCaption: true,
		CaptionOpacity:     DefaultCaptionOpacity,
		LogLevel:           "info",
		RecordLog: RecordLogConfig{
			Level:     "info",
			MaxSizeMB: DefaultRecordLogMaxSizeMB,
			MaxFiles:  DefaultRecordLogMaxFiles,
		},
	}
}

// GetRecordLogConfig returns the record log configuration with defaults applied.
func (c *Config) GetRecordLogConfig() RecordLogConfig {
	if c == nil {
		return RecordLogConfig{}
	}
	cfg := c.RecordLog
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			// Last resort fallback - use current directory
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/captionbar/layout.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = DefaultRecordLogMaxSizeMB
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = DefaultRecordLogMaxFiles
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// Colors returns the parsed ARGB colors. caption is nil when no caption
// color is configured.
func (c *Config) Colors() (caption *uint32, title, background uint32, err error) {
	if c.CaptionColor != "" {
		v, err := ParseColor(c.CaptionColor)
		if err != nil {
			return nil, 0, 0, &ValidationError{Path: "caption_color", Err: err}
		}
		caption = &v
	}
	title, err = ParseColor(c.TitleColor)
	if err != nil {
		return nil, 0, 0, &ValidationError{Path: "title_color", Err: err}
	}
	background, err = ParseColor(c.BackgroundColor)
	if err != nil {
		return nil, 0, 0, &ValidationError{Path: "background_color", Err: err}
	}
	return caption, title, background, nil
}

// SaveTo writes the configuration to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.CaptionColor != "" {
		if _, err := ParseColor(c.CaptionColor); err != nil {
			return &ValidationError{Path: "caption_color", Err: err}
		}
	}
	if _, err := ParseColor(c.TitleColor); err != nil {
		return &ValidationError{Path: "title_color", Err: err}
	}
	if _, err := ParseColor(c.BackgroundColor); err != nil {
		return &ValidationError{Path: "background_color", Err: err}
	}
	if c.FallbackHeightDP < 1 {
		return &ValidationError{Path: "fallback_height_dp", Err: fmt.Errorf("fallback_height_dp must be >= 1")}
	}
	if c.TitlePaddingDP < 0 {
		return &ValidationError{Path: "title_padding_dp", Err: fmt.Errorf("title_padding_dp must be >= 0")}
	}
	if c.ObstacleProbeHeightDP < 0 {
		return &ValidationError{Path: "obstacle_probe_height_dp", Err: fmt.Errorf("obstacle_probe_height_dp must be >= 0")}
	}
	if len(c.Font) == 0 {
		return &ValidationError{Path: "font", Err: fmt.Errorf("font must list at least one font name")}
	}
	for i, name := range c.Font {
		if name == "" {
			return &ValidationError{Path: fmt.Sprintf("font.%d", i), Err: fmt.Errorf("font name must not be empty")}
		}
	}
	if c.Window.Width < 1 || c.Window.Width > maxWindowSize {
		return &ValidationError{Path: "window.width", Err: fmt.Errorf("window.width must be between 1 and %d", maxWindowSize)}
	}
	if c.Window.Height < 1 || c.Window.Height > maxWindowSize {
		return &ValidationError{Path: "window.height", Err: fmt.Errorf("window.height must be between 1 and %d", maxWindowSize)}
	}
	if c.CaptionOpacity < 0 || c.CaptionOpacity > 1 {
		return &ValidationError{Path: "caption_opacity", Err: fmt.Errorf("caption_opacity must be between 0 and 1")}
	}
	if !validLevel(c.LogLevel) {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.RecordLog.Level != "" && !validLevel(c.RecordLog.Level) {
		return &ValidationError{Path: "record_log.level", Err: fmt.Errorf("level must be one of: debug, info, warning, error")}
	}
	if c.RecordLog.MaxSizeMB < 0 {
		return &ValidationError{Path: "record_log.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.RecordLog.MaxFiles < 0 {
		return &ValidationError{Path: "record_log.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	return nil
}

func validLevel(level string) bool {
	switch level {
	case "debug", "info", "warning", "error":
		return true
	}
	return false
}
