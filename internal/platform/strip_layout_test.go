package platform

import (
	"reflect"
	"testing"
)

type layoutRig struct {
	layout     stripLayout
	posted     []func()
	configured []size
	widths     []int
}

func newLayoutRig() *layoutRig {
	r := &layoutRig{}
	r.layout = stripLayout{
		post:      func(fn func()) { r.posted = append(r.posted, fn) },
		configure: func(w, h int) { r.configured = append(r.configured, size{w, h}) },
	}
	return r
}

func (r *layoutRig) queue() {
	r.layout.doOnLayout(func(width int) { r.widths = append(r.widths, width) })
}

func (r *layoutRig) runPosted() {
	fns := r.posted
	r.posted = nil
	for _, fn := range fns {
		fn()
	}
}

func TestStripLayout(t *testing.T) {
	tests := []struct {
		name           string
		steps          func(t *testing.T, r *layoutRig)
		wantConfigured []size
		wantWidths     []int
	}{
		{
			name: "two reports before one configure notify",
			steps: func(t *testing.T, r *layoutRig) {
				r.queue()
				r.layout.request(400, 28)
				r.queue()
				r.layout.request(400, 28)
				r.layout.complete(400, 28)
			},
			wantConfigured: []size{{400, 28}},
			wantWidths:     []int{400, 400},
		},
		{
			name: "unchanged geometry completes through post",
			steps: func(t *testing.T, r *layoutRig) {
				r.queue()
				r.layout.request(400, 28)
				r.layout.complete(400, 28)
				r.queue()
				r.layout.request(400, 28)
				if len(r.widths) != 1 {
					t.Fatal("callback ran before the posted completion")
				}
				r.runPosted()
			},
			wantConfigured: []size{{400, 28}},
			wantWidths:     []int{400, 400},
		},
		{
			name: "changed height configures again",
			steps: func(t *testing.T, r *layoutRig) {
				r.queue()
				r.layout.request(400, 28)
				r.layout.complete(400, 28)
				r.queue()
				r.layout.request(400, 40)
				r.layout.complete(400, 40)
			},
			wantConfigured: []size{{400, 28}, {400, 40}},
			wantWidths:     []int{400, 400},
		},
		{
			name: "configure in flight supersedes posted completion",
			steps: func(t *testing.T, r *layoutRig) {
				r.layout.request(400, 28)
				r.layout.complete(400, 28)
				r.queue()
				r.layout.request(400, 28)
				r.layout.request(300, 28)
				r.runPosted()
				r.layout.complete(300, 28)
			},
			wantConfigured: []size{{400, 28}, {300, 28}},
			wantWidths:     []int{300},
		},
		{
			name: "no pending callbacks",
			steps: func(t *testing.T, r *layoutRig) {
				r.layout.request(400, 28)
				r.layout.complete(400, 28)
			},
			wantConfigured: []size{{400, 28}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newLayoutRig()
			tt.steps(t, r)
			if !reflect.DeepEqual(r.configured, tt.wantConfigured) {
				t.Fatalf("configured = %v, want %v", r.configured, tt.wantConfigured)
			}
			if !reflect.DeepEqual(r.widths, tt.wantWidths) {
				t.Fatalf("callback widths = %v, want %v", r.widths, tt.wantWidths)
			}
			if r.layout.pending != nil {
				t.Fatalf("%d callbacks left pending", len(r.layout.pending))
			}
		})
	}
}

func TestStripLayout_WidthFollowsCompletion(t *testing.T) {
	r := newLayoutRig()
	if r.layout.width != 0 {
		t.Fatalf("initial width = %d", r.layout.width)
	}
	r.layout.request(640, 30)
	if r.layout.width != 0 {
		t.Fatalf("width changed before completion: %d", r.layout.width)
	}
	r.layout.complete(640, 30)
	if r.layout.width != 640 {
		t.Fatalf("width = %d, want 640", r.layout.width)
	}
}
