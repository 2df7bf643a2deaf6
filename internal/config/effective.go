package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig layers raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.Title != nil {
		cfg.Title = *raw.Title
	}
	if raw.CaptionColor != nil {
		cfg.CaptionColor = *raw.CaptionColor
	}
	if raw.TitleColor != nil {
		cfg.TitleColor = *raw.TitleColor
	}
	if raw.BackgroundColor != nil {
		cfg.BackgroundColor = *raw.BackgroundColor
	}
	if raw.FallbackHeightDP != nil {
		cfg.FallbackHeightDP = *raw.FallbackHeightDP
	}
	if raw.TitlePaddingDP != nil {
		cfg.TitlePaddingDP = *raw.TitlePaddingDP
	}
	if raw.ObstacleProbeHeightDP != nil {
		cfg.ObstacleProbeHeightDP = *raw.ObstacleProbeHeightDP
	}
	if raw.Font != nil {
		cfg.Font = append([]string(nil), raw.Font...)
	}
	if raw.Window != nil {
		if raw.Window.Width != nil {
			cfg.Window.Width = *raw.Window.Width
		}
		if raw.Window.Height != nil {
			cfg.Window.Height = *raw.Window.Height
		}
	}
	if raw.TransparentCaption != nil {
		cfg.TransparentCaption = *raw.TransparentCaption
	}
	if raw.CaptionOpacity != nil {
		cfg.CaptionOpacity = *raw.CaptionOpacity
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.RecordLog != nil {
		if raw.RecordLog.Enabled != nil {
			cfg.RecordLog.Enabled = *raw.RecordLog.Enabled
		}
		if raw.RecordLog.File != nil {
			cfg.RecordLog.File = *raw.RecordLog.File
		}
		if raw.RecordLog.Level != nil {
			cfg.RecordLog.Level = *raw.RecordLog.Level
		}
		if raw.RecordLog.MaxSizeMB != nil {
			cfg.RecordLog.MaxSizeMB = *raw.RecordLog.MaxSizeMB
		}
		if raw.RecordLog.MaxFiles != nil {
			cfg.RecordLog.MaxFiles = *raw.RecordLog.MaxFiles
		}
	}

	return cfg
}
