package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// DefaultFonts are tried in order when SurfaceOptions.Fonts is empty.
var DefaultFonts = []string{"fixed", "9x15", "8x13", "6x13"}

// TitleBorder is the outline width of the title box in pixels.
const TitleBorder = 1

// titleBorderPixel outlines the title box.
const titleBorderPixel = 0x999999

// SurfaceOptions configures CreateSurface.
type SurfaceOptions struct {
	Name       string
	Width      int
	Height     int
	Background uint32
	Fonts      []string
}

// Surface is a top-level application window holding a caption strip
// child, which in turn holds the title box.
type Surface struct {
	conn *Connection

	Top   xproto.Window
	Strip xproto.Window
	Title xproto.Window

	gc      xproto.Gcontext
	font    xproto.Font
	ascent  int
	descent int
}

// Pixel converts an ARGB color to a TrueColor pixel. Alpha is dropped.
func Pixel(argb uint32) uint32 {
	return argb & 0x00FFFFFF
}

// CreateSurface creates the window tree. Nothing is mapped until Map.
func (c *Connection) CreateSurface(opts SurfaceOptions) (*Surface, error) {
	if opts.Width < 1 || opts.Height < 1 {
		return nil, fmt.Errorf("invalid surface size %dx%d", opts.Width, opts.Height)
	}
	fonts := opts.Fonts
	if len(fonts) == 0 {
		fonts = DefaultFonts
	}

	s := &Surface{conn: c}
	var err error

	s.Top, err = c.createWindow(c.Root, opts.Width, opts.Height, 0,
		xproto.CwBackPixel|xproto.CwEventMask,
		// Value list order follows the bit positions of the mask.
		[]uint32{Pixel(opts.Background), xproto.EventMaskStructureNotify | xproto.EventMaskPropertyChange})
	if err != nil {
		return nil, fmt.Errorf("create top-level window: %w", err)
	}

	s.Strip, err = c.createWindow(s.Top, opts.Width, 1, 0,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{Pixel(opts.Background), xproto.EventMaskStructureNotify})
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("create strip window: %w", err)
	}

	s.Title, err = c.createWindow(s.Strip, 1, 1, TitleBorder,
		xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwEventMask,
		[]uint32{Pixel(opts.Background), titleBorderPixel, xproto.EventMaskExposure})
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("create title window: %w", err)
	}

	if err := s.openFont(fonts); err != nil {
		s.Destroy()
		return nil, err
	}

	if opts.Name != "" {
		_ = ewmh.WmNameSet(c.XUtil, s.Top, opts.Name)
		_ = icccm.WmNameSet(c.XUtil, s.Top, opts.Name)
	}
	_ = icccm.WmProtocolsSet(c.XUtil, s.Top, []string{"WM_DELETE_WINDOW"})

	// Dock and client list changes are published on the root window.
	if err := xwindow.New(c.XUtil, c.Root).Listen(xproto.EventMaskPropertyChange); err != nil {
		s.Destroy()
		return nil, fmt.Errorf("listen on root window: %w", err)
	}

	return s, nil
}

func (c *Connection) createWindow(parent xproto.Window, width, height, border int, mask uint32, values []uint32) (xproto.Window, error) {
	conn := c.XUtil.Conn()
	screen := c.XUtil.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		parent,
		0, 0,
		uint16(width), uint16(height),
		uint16(border),
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		mask,
		values,
	).Check()
	if err != nil {
		return 0, err
	}
	return wid, nil
}

func (s *Surface) openFont(names []string) error {
	conn := s.conn.XUtil.Conn()

	font, err := xproto.NewFontId(conn)
	if err != nil {
		return fmt.Errorf("allocate font id: %w", err)
	}

	opened := ""
	for _, name := range names {
		if err := xproto.OpenFontChecked(conn, font, uint16(len(name)), name).Check(); err == nil {
			opened = name
			break
		}
	}
	if opened == "" {
		return fmt.Errorf("no usable font among %v", names)
	}
	s.font = font

	if info, err := xproto.QueryFont(conn, xproto.Fontable(font)).Reply(); err == nil {
		s.ascent = int(info.FontAscent)
		s.descent = int(info.FontDescent)
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return fmt.Errorf("allocate gc id: %w", err)
	}
	err = xproto.CreateGCChecked(
		conn,
		gc,
		xproto.Drawable(s.Title),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{
			0xFFFFFF,     // foreground
			0,            // background
			uint32(font), // font
			0,            // graphics_exposures=false
		},
	).Check()
	if err != nil {
		return fmt.Errorf("create gc: %w", err)
	}
	s.gc = gc
	return nil
}

// Configure moves and resizes a child window. Sizes below one pixel are
// raised to one, as X does not allow empty windows.
func (s *Surface) Configure(wid xproto.Window, x, y, width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	xproto.ConfigureWindow(
		s.conn.XUtil.Conn(),
		wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(int32(x)), uint32(int32(y)), uint32(width), uint32(height)},
	)
}

// SetMapped maps or unmaps a window.
func (s *Surface) SetMapped(wid xproto.Window, mapped bool) {
	if mapped {
		xproto.MapWindow(s.conn.XUtil.Conn(), wid)
		return
	}
	xproto.UnmapWindow(s.conn.XUtil.Conn(), wid)
}

// SetBackground changes a window's background and repaints it.
func (s *Surface) SetBackground(wid xproto.Window, argb uint32) {
	conn := s.conn.XUtil.Conn()
	xproto.ChangeWindowAttributes(conn, wid, xproto.CwBackPixel, []uint32{Pixel(argb)})
	xproto.ClearArea(conn, false, wid, 0, 0, 0, 0)
}

// DrawTitle clears the title box and draws text vertically centred in a
// box of the given height.
func (s *Surface) DrawTitle(text string, padding, height int, fg, bg uint32) {
	conn := s.conn.XUtil.Conn()

	xproto.ChangeGC(conn, s.gc, xproto.GcForeground|xproto.GcBackground, []uint32{Pixel(fg), Pixel(bg)})
	xproto.ClearArea(conn, false, s.Title, 0, 0, 0, 0)
	if text == "" {
		return
	}
	if len(text) > 255 {
		text = text[:255]
	}

	baseline := (height + s.ascent - s.descent) / 2
	xproto.ImageText8(
		conn,
		byte(len(text)),
		xproto.Drawable(s.Title),
		s.gc,
		int16(padding),
		int16(baseline),
		text,
	)
}

// Map shows the top-level window and the strip. The title box is mapped
// separately once it has room.
func (s *Surface) Map() {
	conn := s.conn.XUtil.Conn()
	xproto.MapWindow(conn, s.Strip)
	xproto.MapWindow(conn, s.Top)
}

// Destroy releases every server resource held by the surface.
func (s *Surface) Destroy() {
	conn := s.conn.XUtil.Conn()
	if s.gc != 0 {
		xproto.FreeGC(conn, s.gc)
	}
	if s.font != 0 {
		xproto.CloseFont(conn, s.font)
	}
	if s.Top != 0 {
		// Children are destroyed with their parent.
		xproto.DestroyWindow(conn, s.Top)
	}
	s.gc, s.font = 0, 0
	s.Top, s.Strip, s.Title = 0, 0, 0
}
