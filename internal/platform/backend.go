package platform

import (
	"context"

	"github.com/1broseidon/captionbar/internal/caption"
	"github.com/1broseidon/captionbar/internal/geometry"
	"github.com/1broseidon/captionbar/internal/transparency"
)

// Display describes a physical display.
type Display struct {
	ID     int
	Name   string
	Bounds geometry.Rect
	// DPI is zero when the display does not report a physical size.
	DPI float64
}

// WindowOptions configures a caption window.
type WindowOptions struct {
	Name   string
	Width  int
	Height int
	// Background is the ARGB color of the window and strip.
	Background uint32
	Fonts      []string
	// TitlePaddingDP is the horizontal text padding inside the title box.
	TitlePaddingDP int
	// ProbeHeightDP is the top band in which reserved rectangles count as
	// obstacles.
	ProbeHeightDP int
	// Opacity is applied when a transparent caption is requested.
	Opacity float64
}

// CaptionWindow is a top-level window a caption binding can attach to.
type CaptionWindow interface {
	caption.Window
	transparency.Controller
	// DPI returns the density of the display showing the window.
	DPI() float64
	// OnClose registers fn to run when the user closes the window.
	OnClose(fn func())
	// SetBackground repaints the window and strip background.
	SetBackground(argb uint32)
	Show()
	Destroy()
}

// Backend abstracts window-system operations across platforms. Window
// callbacks run on the goroutine executing Run; Post marshals work onto
// it from elsewhere.
type Backend interface {
	Displays() ([]Display, error)
	OpenWindow(opts WindowOptions) (CaptionWindow, error)
	Post(fn func())
	Run(ctx context.Context)
	Quit()
	Close()
}
