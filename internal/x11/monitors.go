package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/captionbar/internal/geometry"
)

// mmPerInch converts physical output sizes reported by RandR.
const mmPerInch = 25.4

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
	// MmWidth is the physical width in millimetres, zero when unknown.
	MmWidth int
}

// DPI returns the horizontal density of the monitor, or zero when the
// output does not report a physical size.
func (m Monitor) DPI() float64 {
	if m.MmWidth <= 0 || m.Width <= 0 {
		return 0
	}
	return float64(m.Width) / (float64(m.MmWidth) / mmPerInch)
}

func (m Monitor) contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		mon := Monitor{
			ID:     i,
			Name:   fmt.Sprintf("Monitor%d", i),
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		}
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			mon.Name = string(outputInfo.Name)
			mon.MmWidth = int(outputInfo.MmWidth)
		}
		monitors = append(monitors, mon)
	}

	return monitors, nil
}

// MonitorAt returns the monitor containing the centre of r, or nil.
func MonitorAt(monitors []Monitor, r geometry.Rect) *Monitor {
	cx := r.Left + r.Width()/2
	cy := r.Top + r.Height()/2
	for i := range monitors {
		if monitors[i].contains(cx, cy) {
			return &monitors[i]
		}
	}
	return nil
}

// DPIFor returns the density of the monitor showing r. It falls back to
// the first monitor that reports a physical size, then to zero.
func DPIFor(monitors []Monitor, r geometry.Rect) float64 {
	if mon := MonitorAt(monitors, r); mon != nil {
		if dpi := mon.DPI(); dpi > 0 {
			return dpi
		}
	}
	for _, mon := range monitors {
		if dpi := mon.DPI(); dpi > 0 {
			return dpi
		}
	}
	return 0
}

// WindowRect returns the geometry of windowID in root coordinates.
func (c *Connection) WindowRect(windowID xproto.Window) (geometry.Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("get geometry: %w", err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("translate coordinates: %w", err)
	}

	x := int(translate.DstX)
	y := int(translate.DstY)
	return geometry.Rect{
		Left:   x,
		Top:    y,
		Right:  x + int(geom.Width),
		Bottom: y + int(geom.Height),
	}, nil
}

// RootSize returns the size of the root window.
func (c *Connection) RootSize() (width, height int, err error) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("get root geometry: %w", err)
	}
	return int(rootGeom.Width), int(rootGeom.Height), nil
}
