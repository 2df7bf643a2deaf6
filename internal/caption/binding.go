// Package caption binds a caption strip and its title to a window and
// keeps the title inside the widest span left free by the platform's
// reserved rectangles.
//
// A Binding is driven entirely from the window's event loop: inset
// reports, layout completions and the root-ready signal all arrive on one
// goroutine and are processed synchronously. Its methods must be called
// from that goroutine too.
//
// Listeners must not trigger a layout pass synchronously; if one does,
// the nested recomputation is deferred until the current dispatch ends.
package caption

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/captionbar/internal/geometry"
	"github.com/1broseidon/captionbar/internal/insets"
	"github.com/1broseidon/captionbar/internal/transparency"
)

// DefaultTitleColor is used when BindConfig.TitleColor is zero.
const DefaultTitleColor uint32 = 0xFFFFFFFF

// BindConfig configures Bind.
type BindConfig struct {
	Title string
	// CaptionColor fills the title box when set.
	CaptionColor *uint32
	// TitleColor is the ARGB text color. Zero selects DefaultTitleColor.
	TitleColor uint32
	// OnTransparencyStatus receives the transparency status line once.
	OnTransparencyStatus func(string)
	// SkipTransparency disables the transparency request entirely.
	SkipTransparency bool
	// Builder converts inset reports. Nil uses the defaults.
	Builder *insets.Builder
	Logger  *slog.Logger
	// Now stamps debug records. Nil uses time.Now.
	Now func() time.Time
}

// Binding is the handle returned by Bind.
type Binding struct {
	b         *binder
	title     string
	requester *transparency.Requester
}

// Bind attaches a caption strip to win and starts tracking its insets.
func Bind(win Window, cfg BindConfig) (*Binding, error) {
	if win == nil {
		return nil, fmt.Errorf("bind caption: window is nil")
	}

	container, title, err := win.Strip()
	if err != nil {
		return nil, fmt.Errorf("create caption strip: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	builder := cfg.Builder
	if builder == nil {
		builder = &insets.Builder{Logger: logger}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	fg := cfg.TitleColor
	if fg == 0 {
		fg = DefaultTitleColor
	}

	title.SetColors(cfg.CaptionColor, fg)
	title.SetText(cfg.Title)

	binding := &Binding{
		b: &binder{
			container: container,
			title:     title,
			builder:   builder,
			logger:    logger,
			now:       now,
		},
		title:     cfg.Title,
		requester: &transparency.Requester{Logger: logger},
	}

	if !cfg.SkipTransparency {
		ctrl, _ := win.(transparency.Controller)
		binding.requester.Schedule(win.OnRootReady, ctrl, cfg.OnTransparencyStatus)
	}

	win.OnInsetsChanged(binding.b.onInsets)
	win.RequestInsets()

	logger.Debug("caption strip bound", "title", cfg.Title)
	return binding, nil
}

// AddDebugListener registers fn for every future DebugRecord. Listeners
// run in registration order.
func (bd *Binding) AddDebugListener(fn func(DebugRecord)) ListenerID {
	return bd.b.listeners.add(fn)
}

// RemoveDebugListener unregisters a listener. It reports whether id was
// registered.
func (bd *Binding) RemoveDebugListener(id ListenerID) bool {
	return bd.b.listeners.remove(id)
}

// SetTitle changes the displayed title without recomputing geometry.
func (bd *Binding) SetTitle(text string) {
	if text == bd.title {
		return
	}
	bd.title = text
	bd.b.title.SetText(text)
}

// SetColors repaints the title box. A zero foreground selects
// DefaultTitleColor. Geometry is left untouched.
func (bd *Binding) SetColors(background *uint32, foreground uint32) {
	if foreground == 0 {
		foreground = DefaultTitleColor
	}
	bd.b.title.SetColors(background, foreground)
}

// Title returns the displayed title.
func (bd *Binding) Title() string {
	return bd.title
}

// Bound reports whether a span has been applied at least once.
func (bd *Binding) Bound() bool {
	return bd.b.bound
}

// StripHeight returns the last applied strip height.
func (bd *Binding) StripHeight() int {
	return bd.b.height
}

// Interval returns the last applied drawable interval.
func (bd *Binding) Interval() geometry.Interval {
	return bd.b.interval
}

// LastRecord returns a copy of the most recent DebugRecord.
func (bd *Binding) LastRecord() (DebugRecord, bool) {
	if bd.b.last == nil {
		return DebugRecord{}, false
	}
	return bd.b.last.clone(), true
}

// TransparencyStatus returns the transparency outcome once it is known.
func (bd *Binding) TransparencyStatus() (transparency.Status, bool) {
	return bd.requester.Status()
}
