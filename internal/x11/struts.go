package x11

import (
	"errors"

	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/captionbar/internal/geometry"
)

// ErrNoClientList is returned by DockStruts when the window manager does
// not publish _NET_CLIENT_LIST, so docks cannot be enumerated.
var ErrNoClientList = errors.New("window manager does not publish _NET_CLIENT_LIST")

// DockStruts returns the screen rectangles reserved by dock windows.
func (c *Connection) DockStruts() ([]geometry.Rect, error) {
	rootWidth, rootHeight, err := c.RootSize()
	if err != nil {
		return nil, err
	}

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, ErrNoClientList
	}

	var rects []geometry.Rect
	for _, windowID := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
		if err != nil || !hasType(types, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			rects = append(rects, strutRects(sp, rootWidth, rootHeight)...)
			continue
		}

		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			rects = append(rects, strutRects(fullStrut(s, rootWidth, rootHeight), rootWidth, rootHeight)...)
		}
	}
	return rects, nil
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

func fullStrut(s *ewmh.WmStrut, rootWidth, rootHeight int) *ewmh.WmStrutPartial {
	return &ewmh.WmStrutPartial{
		Left:         s.Left,
		Right:        s.Right,
		Top:          s.Top,
		Bottom:       s.Bottom,
		LeftStartY:   0,
		LeftEndY:     uint(rootHeight - 1),
		RightStartY:  0,
		RightEndY:    uint(rootHeight - 1),
		TopStartX:    0,
		TopEndX:      uint(rootWidth - 1),
		BottomStartX: 0,
		BottomEndX:   uint(rootWidth - 1),
	}
}

// strutRects expands a partial strut into root-relative rectangles. The
// start/end ranges are inclusive.
func strutRects(sp *ewmh.WmStrutPartial, rootWidth, rootHeight int) []geometry.Rect {
	var rects []geometry.Rect

	// Top strut: y=[0,Top), x=[TopStartX,TopEndX]
	if sp.Top > 0 {
		rects = append(rects, geometry.Rect{
			Left: int(sp.TopStartX), Top: 0,
			Right: int(sp.TopEndX) + 1, Bottom: int(sp.Top),
		})
	}

	// Bottom strut: y=[rootHeight-Bottom,rootHeight), x=[BottomStartX,BottomEndX]
	if sp.Bottom > 0 {
		rects = append(rects, geometry.Rect{
			Left: int(sp.BottomStartX), Top: rootHeight - int(sp.Bottom),
			Right: int(sp.BottomEndX) + 1, Bottom: rootHeight,
		})
	}

	// Left strut: x=[0,Left), y=[LeftStartY,LeftEndY]
	if sp.Left > 0 {
		rects = append(rects, geometry.Rect{
			Left: 0, Top: int(sp.LeftStartY),
			Right: int(sp.Left), Bottom: int(sp.LeftEndY) + 1,
		})
	}

	// Right strut: x=[rootWidth-Right,rootWidth), y=[RightStartY,RightEndY]
	if sp.Right > 0 {
		rects = append(rects, geometry.Rect{
			Left: rootWidth - int(sp.Right), Top: int(sp.RightStartY),
			Right: rootWidth, Bottom: int(sp.RightEndY) + 1,
		})
	}

	return rects
}

// ClassifyStruts maps reserved screen rectangles onto a window at win
// (root coordinates).
//
// A strut that touches the window's top edge and spans its full width is
// a status bar: its depth into the window becomes statusTop. Any other
// strut reaching into the top bandHeight pixels is an obstacle, returned
// in window-local coordinates and clipped to the band.
func ClassifyStruts(struts []geometry.Rect, win geometry.Rect, bandHeight int) (statusTop int, obstacles []geometry.Rect) {
	width := win.Width()
	for _, s := range struts {
		isect, ok := s.Canon().Intersect(win)
		if !ok {
			continue
		}
		local := isect.Offset(-win.Left, -win.Top)

		if local.Top == 0 && local.Left <= 0 && local.Right >= width {
			statusTop = max(statusTop, local.Bottom)
			continue
		}
		if local.Top >= bandHeight {
			continue
		}
		local.Bottom = min(local.Bottom, bandHeight)
		obstacles = append(obstacles, local)
	}
	return statusTop, obstacles
}
