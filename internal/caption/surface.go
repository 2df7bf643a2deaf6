package caption

import "github.com/1broseidon/captionbar/internal/insets"

// Element is a layout element whose geometry the binder writes.
type Element interface {
	SetHeight(px int)
	// SetHorizontal sets the element's left margin and width inside its
	// container.
	SetHorizontal(leftMargin, width int)
}

// Container is the strip element hosting the title. Its width is only
// known once a layout pass has completed.
type Container interface {
	Element
	// DoOnLayout runs fn once, after the next layout pass completes, with
	// the resolved container width.
	DoOnLayout(fn func(width int))
	// RequestLayout asks the windowing layer for a new layout pass.
	RequestLayout()
	// Width returns the last resolved width, 0 before the first pass.
	Width() int
}

// TitleElement is the element drawing the title string.
type TitleElement interface {
	Element
	SetText(text string)
	SetColors(background *uint32, foreground uint32)
}

// Window is the windowing layer the binding is attached to. It may also
// implement transparency.Controller.
type Window interface {
	// Strip creates (or returns) the strip container and its title element.
	Strip() (Container, TitleElement, error)
	// OnInsetsChanged registers fn for every inset report. fn returns the
	// report unconsumed.
	OnInsetsChanged(fn func(raw *insets.Raw) *insets.Raw)
	// OnRootReady registers fn to run once the root element is attached.
	OnRootReady(fn func())
	// RequestInsets asks the windowing layer to deliver a fresh report.
	RequestInsets()
}
