//go:build linux

package platform

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/captionbar/internal/caption"
	"github.com/1broseidon/captionbar/internal/geometry"
	"github.com/1broseidon/captionbar/internal/insets"
	"github.com/1broseidon/captionbar/internal/transparency"
	"github.com/1broseidon/captionbar/internal/x11"
)

// Root window properties whose change means docks may have moved.
var strutAtoms = []string{"_NET_CLIENT_LIST", "_NET_WORKAREA"}

// linuxWindow maps the caption.Window contract onto an X11 window tree.
//
// Inset reports are built from _NET_FRAME_EXTENTS and the dock struts.
// The root is ready on the first MapNotify of the top-level window. A
// layout pass completes with the ConfigureNotify of the strip window.
type linuxWindow struct {
	conn    *x11.Connection
	surface *x11.Surface
	logger  *slog.Logger
	opts    WindowOptions
	dpi     float64

	width  int
	height int

	strip *stripElement
	title *titleElement

	insetFns []func(*insets.Raw) *insets.Raw
	readyFns []func()
	ready    bool
	closeFns []func()
}

var _ CaptionWindow = (*linuxWindow)(nil)

func newLinuxWindow(conn *x11.Connection, opts WindowOptions, logger *slog.Logger) (*linuxWindow, error) {
	surface, err := conn.CreateSurface(x11.SurfaceOptions{
		Name:       opts.Name,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: opts.Background,
		Fonts:      opts.Fonts,
	})
	if err != nil {
		return nil, err
	}

	w := &linuxWindow{
		conn:    conn,
		surface: surface,
		logger:  logger,
		opts:    opts,
		width:   opts.Width,
		height:  opts.Height,
	}
	w.strip = newStripElement(w)
	w.title = &titleElement{w: w, fg: caption.DefaultTitleColor}
	w.dpi = w.lookupDPI()

	w.connectEvents()
	return w, nil
}

func (w *linuxWindow) lookupDPI() float64 {
	monitors, err := w.conn.GetMonitors()
	if err != nil {
		w.logger.Debug("monitor query failed, using baseline density", "error", err)
		return 0
	}
	rect, err := w.conn.WindowRect(w.surface.Top)
	if err != nil {
		rect = geometry.Rect{Right: w.width, Bottom: w.height}
	}
	return x11.DPIFor(monitors, rect)
}

func (w *linuxWindow) connectEvents() {
	xu := w.conn.XUtil

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		width, height := int(ev.Width), int(ev.Height)
		if width == w.width && height == w.height {
			return
		}
		w.width, w.height = width, height
		w.emit()
	}).Connect(xu, w.surface.Top)

	xevent.MapNotifyFun(func(_ *xgbutil.XUtil, _ xevent.MapNotifyEvent) {
		w.markReady()
	}).Connect(xu, w.surface.Top)

	xevent.PropertyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		if w.conn.IsAtom(ev.Atom, "_NET_FRAME_EXTENTS") {
			w.emit()
		}
	}).Connect(xu, w.surface.Top)

	xevent.PropertyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		for _, name := range strutAtoms {
			if w.conn.IsAtom(ev.Atom, name) {
				w.emit()
				return
			}
		}
	}).Connect(xu, w.conn.Root)

	xevent.ClientMessageFun(func(_ *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if !w.conn.IsAtom(ev.Type, "WM_PROTOCOLS") || len(ev.Data.Data32) == 0 {
			return
		}
		if w.conn.IsAtom(xproto.Atom(ev.Data.Data32[0]), "WM_DELETE_WINDOW") {
			for _, fn := range w.closeFns {
				fn()
			}
		}
	}).Connect(xu, w.surface.Top)

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		w.strip.layout.complete(int(ev.Width), int(ev.Height))
	}).Connect(xu, w.surface.Strip)

	xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
		if ev.Count == 0 {
			w.title.draw()
		}
	}).Connect(xu, w.surface.Title)
}

// report builds an inset report from the current window-manager state.
func (w *linuxWindow) report() *insets.Raw {
	_, _, top, _, _ := w.conn.GetFrameExtents(w.surface.Top)
	raw := &insets.Raw{CaptionTop: top}

	struts, err := w.conn.DockStruts()
	if err != nil {
		if errors.Is(err, x11.ErrNoClientList) {
			err = fmt.Errorf("%w: %v", insets.ErrCapabilityAbsent, err)
		}
		raw.Obstacles = failingSource(err)
		return raw
	}

	rect, err := w.conn.WindowRect(w.surface.Top)
	if err != nil {
		raw.Obstacles = failingSource(err)
		return raw
	}

	band := insets.DPToPx(float64(w.opts.ProbeHeightDP), w.dpi)
	status, obstacles := x11.ClassifyStruts(struts, rect, band)
	raw.StatusTop = status
	raw.Obstacles = insets.ObstacleFunc(func() ([]geometry.Rect, error) {
		return obstacles, nil
	})
	return raw
}

// InsetFingerprint summarizes the frame extents, window position and dock
// struts that feed report.
func (w *linuxWindow) InsetFingerprint() (string, error) {
	struts, err := w.conn.DockStruts()
	if err != nil {
		return "", err
	}
	rect, err := w.conn.WindowRect(w.surface.Top)
	if err != nil {
		return "", err
	}
	_, _, top, _, _ := w.conn.GetFrameExtents(w.surface.Top)
	return fmt.Sprintf("%d %v %v", top, rect, struts), nil
}

func failingSource(err error) insets.ObstacleSource {
	return insets.ObstacleFunc(func() ([]geometry.Rect, error) {
		return nil, err
	})
}

func (w *linuxWindow) emit() {
	raw := w.report()
	for _, fn := range w.insetFns {
		raw = fn(raw)
	}
}

func (w *linuxWindow) markReady() {
	if w.ready {
		return
	}
	w.ready = true
	fns := w.readyFns
	w.readyFns = nil
	for _, fn := range fns {
		fn()
	}
}

// Strip returns the strip container and its title element.
func (w *linuxWindow) Strip() (caption.Container, caption.TitleElement, error) {
	if w.surface.Strip == 0 {
		return nil, nil, fmt.Errorf("window destroyed")
	}
	return w.strip, w.title, nil
}

func (w *linuxWindow) OnInsetsChanged(fn func(raw *insets.Raw) *insets.Raw) {
	w.insetFns = append(w.insetFns, fn)
}

func (w *linuxWindow) OnRootReady(fn func()) {
	if w.ready {
		w.conn.Post(fn)
		return
	}
	w.readyFns = append(w.readyFns, fn)
}

func (w *linuxWindow) RequestInsets() {
	w.conn.Post(w.emit)
}

// RequestTransparentCaption sets the window opacity hint. It needs a
// running compositing manager.
func (w *linuxWindow) RequestTransparentCaption() error {
	active, err := w.conn.CompositorActive()
	if err != nil {
		return err
	}
	if !active {
		return transparency.ErrUnsupported
	}
	return w.conn.SetOpacity(w.surface.Top, w.opts.Opacity)
}

func (w *linuxWindow) DPI() float64 {
	return w.dpi
}

func (w *linuxWindow) OnClose(fn func()) {
	w.closeFns = append(w.closeFns, fn)
}

func (w *linuxWindow) SetBackground(argb uint32) {
	w.opts.Background = argb
	w.surface.SetBackground(w.surface.Top, argb)
	w.surface.SetBackground(w.surface.Strip, argb)
	w.title.draw()
}

func (w *linuxWindow) Show() {
	w.surface.Map()
}

func (w *linuxWindow) Destroy() {
	xu := w.conn.XUtil
	xevent.Detach(xu, w.surface.Top)
	xevent.Detach(xu, w.surface.Strip)
	xevent.Detach(xu, w.surface.Title)
	xevent.Detach(xu, w.conn.Root)
	w.surface.Destroy()
}

// stripElement is the strip child window. It always spans the full
// window width; its height follows SetHeight.
type stripElement struct {
	w *linuxWindow

	height int
	layout stripLayout
}

func newStripElement(w *linuxWindow) *stripElement {
	s := &stripElement{w: w}
	s.layout = stripLayout{
		post: w.conn.Post,
		configure: func(width, height int) {
			w.surface.Configure(w.surface.Strip, 0, 0, width, height)
		},
	}
	return s
}

func (s *stripElement) SetHeight(px int) {
	s.height = px
}

// SetHorizontal is a no-op: the strip fills the window horizontally.
func (s *stripElement) SetHorizontal(int, int) {}

func (s *stripElement) DoOnLayout(fn func(width int)) {
	s.layout.doOnLayout(fn)
}

func (s *stripElement) RequestLayout() {
	s.layout.request(max(s.w.width, 1), max(s.height, 1))
}

func (s *stripElement) Width() int {
	return s.layout.width
}

// titleElement is the title box inside the strip.
type titleElement struct {
	w *linuxWindow

	height int
	left   int
	width  int
	text   string
	bg     *uint32
	fg     uint32
}

func (t *titleElement) SetHeight(px int) {
	t.height = px
	t.apply()
}

func (t *titleElement) SetHorizontal(leftMargin, width int) {
	t.left, t.width = leftMargin, width
	t.apply()
}

func (t *titleElement) SetText(text string) {
	t.text = text
	t.draw()
}

func (t *titleElement) SetColors(background *uint32, foreground uint32) {
	t.bg, t.fg = background, foreground
	t.w.surface.SetBackground(t.w.surface.Title, t.background())
	t.draw()
}

func (t *titleElement) background() uint32 {
	if t.bg != nil {
		return *t.bg
	}
	return t.w.opts.Background
}

// apply writes the box geometry. X windows cannot be empty, so a box
// with no room inside its border is unmapped.
func (t *titleElement) apply() {
	s := t.w.surface
	inner := t.width - 2*x11.TitleBorder
	if inner < 1 || t.height < 1 {
		s.SetMapped(s.Title, false)
		return
	}
	s.Configure(s.Title, t.left, 0, inner, max(t.height-2*x11.TitleBorder, 1))
	s.SetMapped(s.Title, true)
}

func (t *titleElement) draw() {
	padding := insets.DPToPx(float64(t.w.opts.TitlePaddingDP), t.w.dpi)
	t.w.surface.DrawTitle(t.text, padding, t.height-2*x11.TitleBorder, t.fg, t.background())
}
