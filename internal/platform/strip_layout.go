package platform

// stripLayout tracks layout passes of the strip window. Callbacks queued
// with doOnLayout run exactly once, in order, on the next completed pass.
//
// A geometry change is applied through configure and completes when the
// server reports it. X sends no ConfigureNotify for an unchanged
// geometry, so that case completes through post instead.
type stripLayout struct {
	post      func(func())
	configure func(width, height int)

	applied  size
	inFlight *size
	width    int
	pending  []func(int)
}

type size struct{ width, height int }

func (l *stripLayout) doOnLayout(fn func(width int)) {
	l.pending = append(l.pending, fn)
}

func (l *stripLayout) request(width, height int) {
	want := size{width, height}
	if l.inFlight != nil {
		if *l.inFlight == want {
			return
		}
	} else if l.applied == want {
		l.post(func() {
			if l.inFlight == nil {
				l.complete(l.applied.width, l.applied.height)
			}
		})
		return
	}
	l.inFlight = &want
	l.configure(width, height)
}

func (l *stripLayout) complete(width, height int) {
	l.applied = size{width, height}
	l.inFlight = nil
	l.width = width
	fns := l.pending
	l.pending = nil
	for _, fn := range fns {
		fn(width)
	}
}
