package caption

import (
	"log/slog"
	"time"

	"github.com/1broseidon/captionbar/internal/geometry"
	"github.com/1broseidon/captionbar/internal/insets"
)

// DebugRecord describes one recomputation of the strip layout.
type DebugRecord struct {
	Seq            uint64          `json:"seq"`
	At             time.Time       `json:"at"`
	CaptionTop     int             `json:"caption_top"`
	StatusTop      int             `json:"status_top"`
	StripHeight    int             `json:"strip_height"`
	Obstacles      []geometry.Rect `json:"obstacles"`
	DrawableStart  int             `json:"drawable_start"`
	DrawableEnd    int             `json:"drawable_end"`
	ContainerWidth int             `json:"container_width"`
	Degraded       bool            `json:"degraded,omitempty"`
}

// DrawableWidth returns DrawableEnd-DrawableStart clamped at zero.
func (r DebugRecord) DrawableWidth() int {
	return geometry.Interval{Start: r.DrawableStart, End: r.DrawableEnd}.Width()
}

func (r DebugRecord) clone() DebugRecord {
	if r.Obstacles != nil {
		rects := make([]geometry.Rect, len(r.Obstacles))
		copy(rects, r.Obstacles)
		r.Obstacles = rects
	}
	return r
}

// binder owns the strip height and the applied interval. It is driven
// from the event loop only and holds no locks.
//
// Every inset report runs in two phases: the height is written and a
// layout pass requested; the span is computed only once that pass reports
// the container's resolved width.
type binder struct {
	container Container
	title     TitleElement
	builder   *insets.Builder
	logger    *slog.Logger
	now       func() time.Time

	bound    bool
	height   int
	interval geometry.Interval
	seq      uint64
	last     *DebugRecord

	listeners   registry
	dispatching bool
	deferred    []func()
}

// onInsets handles an inset report and returns it unconsumed.
func (b *binder) onInsets(raw *insets.Raw) *insets.Raw {
	snap := b.builder.Build(raw, b.container.Width())
	height := b.builder.StripHeight(snap)

	b.height = height
	b.container.SetHeight(height)
	b.title.SetHeight(height)

	b.logger.Debug("strip height applied",
		"height", height,
		"caption_top", snap.CaptionTop,
		"status_top", snap.StatusTop,
		"obstacles", len(snap.Obstacles),
		"degraded", snap.Degraded)

	b.container.DoOnLayout(func(width int) {
		b.onLayout(snap, height, width)
	})
	b.container.RequestLayout()
	return raw
}

// onLayout computes and applies the span for snap once the container
// width is known, then publishes the record.
func (b *binder) onLayout(snap insets.Snapshot, height, width int) {
	if b.dispatching {
		// A listener triggered a layout pass synchronously. Run it after
		// the current dispatch so records stay ordered.
		b.deferred = append(b.deferred, func() { b.onLayout(snap, height, width) })
		return
	}

	iv := geometry.FindWidestGap(width, geometry.Merge(snap.Obstacles))
	b.title.SetHorizontal(iv.Start, iv.Width())
	b.interval = iv
	b.bound = true
	b.seq++

	rec := DebugRecord{
		Seq:            b.seq,
		At:             b.now(),
		CaptionTop:     snap.CaptionTop,
		StatusTop:      snap.StatusTop,
		StripHeight:    height,
		Obstacles:      snap.Obstacles,
		DrawableStart:  iv.Start,
		DrawableEnd:    iv.End,
		ContainerWidth: width,
		Degraded:       snap.Degraded,
	}
	rec = rec.clone()
	b.last = &rec

	b.logger.Debug("drawable span applied",
		"seq", rec.Seq,
		"width", width,
		"start", iv.Start,
		"end", iv.End)

	b.dispatching = true
	b.listeners.dispatch(rec, b.logger)
	b.dispatching = false

	for len(b.deferred) > 0 {
		next := b.deferred[0]
		b.deferred = b.deferred[1:]
		next()
	}
}
