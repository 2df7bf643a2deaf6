package daemon

import (
	"slices"

	"github.com/1broseidon/captionbar/internal/config"
	"github.com/1broseidon/captionbar/internal/recordlog"
)

// Reload re-reads the config file and applies what can change live. A
// config that fails to load or validate leaves the window untouched.
func (r *Runner) Reload() error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	res, err := config.LoadFromPathWithOverrides(r.opts.ConfigPath, r.opts.Overrides)
	if err != nil {
		r.records.Log(recordlog.KindReloadFailed, map[string]any{"error": err.Error()})
		r.logger.Warn("config reload failed", "error", err)
		return err
	}
	next := res.Config

	return r.onLoop(func() error {
		return r.applyConfig(next)
	})
}

// applyConfig applies next over the current config. Must run on the loop.
func (r *Runner) applyConfig(next *config.Config) error {
	prev := r.cfg

	captionColor, titleColor, background, err := next.Colors()
	if err != nil {
		return err
	}

	if next.Title != prev.Title {
		r.applyTitle(next.Title, "config")
	}
	if next.CaptionColor != prev.CaptionColor || next.TitleColor != prev.TitleColor {
		r.binding.SetColors(captionColor, titleColor)
	}
	if next.BackgroundColor != prev.BackgroundColor {
		r.win.SetBackground(background)
	}
	if next.LogLevel != prev.LogLevel {
		r.applyLogLevel(next)
	}

	restart := restartRequired(prev, next)
	if len(restart) > 0 {
		r.logger.Warn("config changes need a restart to take effect", "keys", restart)
	}

	r.cfg = next
	r.records.Log(recordlog.KindReload, map[string]any{
		"title":           next.Title,
		"restart_pending": len(restart),
	})
	r.logger.Info("config reloaded")
	return nil
}

// restartRequired lists the keys whose change only takes effect on a new
// window.
func restartRequired(prev, next *config.Config) []string {
	var keys []string
	if prev.Display != next.Display {
		keys = append(keys, "display")
	}
	if !slices.Equal(prev.Font, next.Font) {
		keys = append(keys, "font")
	}
	if prev.Window != next.Window {
		keys = append(keys, "window")
	}
	if prev.FallbackHeightDP != next.FallbackHeightDP {
		keys = append(keys, "fallback_height_dp")
	}
	if prev.TitlePaddingDP != next.TitlePaddingDP {
		keys = append(keys, "title_padding_dp")
	}
	if prev.ObstacleProbeHeightDP != next.ObstacleProbeHeightDP {
		keys = append(keys, "obstacle_probe_height_dp")
	}
	if prev.TransparentCaption != next.TransparentCaption || prev.CaptionOpacity != next.CaptionOpacity {
		keys = append(keys, "transparent_caption")
	}
	if prev.RecordLog != next.RecordLog {
		keys = append(keys, "record_log")
	}
	return keys
}

// watch reloads on config file changes until the runner stops.
func (r *Runner) watch() {
	err := config.Watch(r.ctx, r.opts.ConfigPath, config.DefaultWatchDebounce,
		func() {
			r.logger.Debug("config file changed", "path", r.opts.ConfigPath)
			// Reload logs its own failures.
			_ = r.Reload()
		},
		func(err error) {
			r.logger.Warn("config watcher error", "error", err)
		},
	)
	if err != nil && r.ctx.Err() == nil {
		r.logger.Warn("config watcher stopped", "error", err)
	}
}
