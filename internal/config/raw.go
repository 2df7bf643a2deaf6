package config

type RawWindowConfig struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawRecordLogConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	File      *string `yaml:"file"`
	Level     *string `yaml:"level"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

// RawConfig mirrors Config with every field optional, so files can be
// layered over the defaults.
type RawConfig struct {
	Display               *string             `yaml:"display"`
	Title                 *string             `yaml:"title"`
	CaptionColor          *string             `yaml:"caption_color"`
	TitleColor            *string             `yaml:"title_color"`
	BackgroundColor       *string             `yaml:"background_color"`
	FallbackHeightDP      *int                `yaml:"fallback_height_dp"`
	TitlePaddingDP        *int                `yaml:"title_padding_dp"`
	ObstacleProbeHeightDP *int                `yaml:"obstacle_probe_height_dp"`
	Font                  []string            `yaml:"font"`
	Window                *RawWindowConfig    `yaml:"window"`
	TransparentCaption    *bool               `yaml:"transparent_caption"`
	CaptionOpacity        *float64            `yaml:"caption_opacity"`
	LogLevel              *string             `yaml:"log_level"`
	RecordLog             *RawRecordLogConfig `yaml:"record_log"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.Title != nil {
		out.Title = overlay.Title
	}
	if overlay.CaptionColor != nil {
		out.CaptionColor = overlay.CaptionColor
	}
	if overlay.TitleColor != nil {
		out.TitleColor = overlay.TitleColor
	}
	if overlay.BackgroundColor != nil {
		out.BackgroundColor = overlay.BackgroundColor
	}
	if overlay.FallbackHeightDP != nil {
		out.FallbackHeightDP = overlay.FallbackHeightDP
	}
	if overlay.TitlePaddingDP != nil {
		out.TitlePaddingDP = overlay.TitlePaddingDP
	}
	if overlay.ObstacleProbeHeightDP != nil {
		out.ObstacleProbeHeightDP = overlay.ObstacleProbeHeightDP
	}
	if overlay.Font != nil {
		out.Font = overlay.Font
	}

	if overlay.Window != nil {
		if out.Window == nil {
			out.Window = &RawWindowConfig{}
		} else {
			w := *out.Window
			out.Window = &w
		}
		if overlay.Window.Width != nil {
			out.Window.Width = overlay.Window.Width
		}
		if overlay.Window.Height != nil {
			out.Window.Height = overlay.Window.Height
		}
	}

	if overlay.TransparentCaption != nil {
		out.TransparentCaption = overlay.TransparentCaption
	}
	if overlay.CaptionOpacity != nil {
		out.CaptionOpacity = overlay.CaptionOpacity
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}

	if overlay.RecordLog != nil {
		if out.RecordLog == nil {
			out.RecordLog = &RawRecordLogConfig{}
		} else {
			r := *out.RecordLog
			out.RecordLog = &r
		}
		if overlay.RecordLog.Enabled != nil {
			out.RecordLog.Enabled = overlay.RecordLog.Enabled
		}
		if overlay.RecordLog.File != nil {
			out.RecordLog.File = overlay.RecordLog.File
		}
		if overlay.RecordLog.Level != nil {
			out.RecordLog.Level = overlay.RecordLog.Level
		}
		if overlay.RecordLog.MaxSizeMB != nil {
			out.RecordLog.MaxSizeMB = overlay.RecordLog.MaxSizeMB
		}
		if overlay.RecordLog.MaxFiles != nil {
			out.RecordLog.MaxFiles = overlay.RecordLog.MaxFiles
		}
	}

	return out
}

// setPaths lists the top-level keys set in c.
func (c RawConfig) setPaths() []string {
	var paths []string
	add := func(set bool, path string) {
		if set {
			paths = append(paths, path)
		}
	}
	add(c.Display != nil, "display")
	add(c.Title != nil, "title")
	add(c.CaptionColor != nil, "caption_color")
	add(c.TitleColor != nil, "title_color")
	add(c.BackgroundColor != nil, "background_color")
	add(c.FallbackHeightDP != nil, "fallback_height_dp")
	add(c.TitlePaddingDP != nil, "title_padding_dp")
	add(c.ObstacleProbeHeightDP != nil, "obstacle_probe_height_dp")
	add(c.Font != nil, "font")
	add(c.Window != nil, "window")
	add(c.TransparentCaption != nil, "transparent_caption")
	add(c.CaptionOpacity != nil, "caption_opacity")
	add(c.LogLevel != nil, "log_level")
	add(c.RecordLog != nil, "record_log")
	return paths
}
