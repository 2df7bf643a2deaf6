package x11

import (
	"fmt"
	"math"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xprop"
)

// GetFrameExtents returns the window decoration sizes (if available)
func (c *Connection) GetFrameExtents(windowID xproto.Window) (left, right, top, bottom int, err error) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		// No frame extents available, return zeros
		return 0, 0, 0, 0, nil
	}

	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom), nil
}

// HasWindowManager reports whether an EWMH compliant window manager is
// running.
func (c *Connection) HasWindowManager() bool {
	check, err := ewmh.SupportingWmCheckGet(c.XUtil, c.Root)
	return err == nil && check != 0
}

// CompositorActive reports whether a compositing manager owns the
// _NET_WM_CM_S<screen> selection.
func (c *Connection) CompositorActive() (bool, error) {
	name := fmt.Sprintf("_NET_WM_CM_S%d", c.XUtil.Conn().DefaultScreen)
	atom, err := xprop.Atm(c.XUtil, name)
	if err != nil {
		return false, fmt.Errorf("intern %s: %w", name, err)
	}

	owner, err := xproto.GetSelectionOwner(c.XUtil.Conn(), atom).Reply()
	if err != nil {
		return false, fmt.Errorf("get selection owner: %w", err)
	}
	return owner.Owner != 0, nil
}

// SetOpacity sets _NET_WM_WINDOW_OPACITY on a top-level window. opacity
// is clamped to [0,1].
func (c *Connection) SetOpacity(windowID xproto.Window, opacity float64) error {
	opacity = math.Max(0, math.Min(1, opacity))
	value := uint(opacity * float64(math.MaxUint32))
	if err := xprop.ChangeProp32(c.XUtil, windowID, "_NET_WM_WINDOW_OPACITY", "CARDINAL", value); err != nil {
		return fmt.Errorf("set _NET_WM_WINDOW_OPACITY: %w", err)
	}
	return nil
}

// IsAtom reports whether atom is the interned atom called name.
func (c *Connection) IsAtom(atom xproto.Atom, name string) bool {
	want, err := xprop.Atm(c.XUtil, name)
	return err == nil && want == atom
}
