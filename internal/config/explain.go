package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	display
//	title
//	caption_color
//	window.width
//	font
//	font.<index>
//	record_log.max_files
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins, then the enclosing key.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	if parent, _, ok := strings.Cut(path, "."); ok {
		if src, ok := res.Sources[parent]; ok {
			return value, src, nil
		}
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	leaf := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return v, nil
	}

	switch parts[0] {
	case "display":
		return leaf(cfg.Display)
	case "title":
		return leaf(cfg.Title)
	case "caption_color":
		return leaf(cfg.CaptionColor)
	case "title_color":
		return leaf(cfg.TitleColor)
	case "background_color":
		return leaf(cfg.BackgroundColor)
	case "fallback_height_dp":
		return leaf(cfg.FallbackHeightDP)
	case "title_padding_dp":
		return leaf(cfg.TitlePaddingDP)
	case "obstacle_probe_height_dp":
		return leaf(cfg.ObstacleProbeHeightDP)
	case "transparent_caption":
		return leaf(cfg.TransparentCaption)
	case "caption_opacity":
		return leaf(cfg.CaptionOpacity)
	case "log_level":
		return leaf(cfg.LogLevel)
	case "font":
		if len(parts) == 1 {
			return cfg.Font, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		i, err := strconv.Atoi(parts[1])
		if err != nil || i < 0 || i >= len(cfg.Font) {
			return nil, fmt.Errorf("font index out of range: %s", parts[1])
		}
		return cfg.Font[i], nil
	case "window":
		if len(parts) == 1 {
			return cfg.Window, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "width":
			return cfg.Window.Width, nil
		case "height":
			return cfg.Window.Height, nil
		}
	case "record_log":
		rl := cfg.GetRecordLogConfig()
		if len(parts) == 1 {
			return rl, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "enabled":
			return rl.Enabled, nil
		case "file":
			return rl.File, nil
		case "level":
			return rl.Level, nil
		case "max_size_mb":
			return rl.MaxSizeMB, nil
		case "max_files":
			return rl.MaxFiles, nil
		}
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
