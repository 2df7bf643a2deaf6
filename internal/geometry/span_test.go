package geometry

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestMerge_EmptyInput(t *testing.T) {
	if got := Merge(nil); len(got) != 0 {
		t.Fatalf("Merge(nil) = %v, want empty", got)
	}
}

func TestMerge_OverlapAndTouch(t *testing.T) {
	in := []Rect{
		{Left: 120, Top: 0, Right: 160, Bottom: 30},
		{Left: 0, Top: 4, Right: 30, Bottom: 20},
		{Left: 30, Top: 0, Right: 50, Bottom: 24}, // touches the first span
		{Left: 10, Top: 2, Right: 20, Bottom: 40},
	}
	want := []Rect{
		{Left: 0, Top: 0, Right: 50, Bottom: 40},
		{Left: 120, Top: 0, Right: 160, Bottom: 30},
	}

	got := Merge(in)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Merge() = %v, want %v", got, want)
	}
	if in[0].Left != 120 {
		t.Fatalf("Merge mutated its input: %v", in)
	}
}

func TestMerge_DuplicatesCollapse(t *testing.T) {
	r := Rect{Left: 5, Top: 0, Right: 15, Bottom: 10}
	got := Merge([]Rect{r, r, r})
	if len(got) != 1 || got[0] != r {
		t.Fatalf("Merge(duplicates) = %v, want [%v]", got, r)
	}
}

func TestMerge_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 500; iter++ {
		rects := randomRects(rng, rng.Intn(8))
		merged := Merge(rects)

		if again := Merge(merged); !reflect.DeepEqual(again, merged) {
			t.Fatalf("not idempotent for %v: %v then %v", rects, merged, again)
		}

		for i := 1; i < len(merged); i++ {
			if merged[i-1].Right >= merged[i].Left {
				t.Fatalf("spans %v and %v overlap or touch (input %v)", merged[i-1], merged[i], rects)
			}
		}

		for x := -1; x <= 61; x++ {
			if coveredBy(rects, x) != coveredBy(merged, x) {
				t.Fatalf("coverage differs at x=%d: input %v merged %v", x, rects, merged)
			}
		}
	}
}

func TestFindWidestGap(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		merged []Rect
		want   Interval
	}{
		{
			name:   "widest interior gap",
			width:  200,
			merged: []Rect{{Left: 0, Right: 50, Bottom: 10}, {Left: 120, Right: 160, Bottom: 10}},
			want:   Interval{Start: 50, End: 120},
		},
		{
			name:  "no obstacles",
			width: 300,
			want:  Interval{Start: 0, End: 300},
		},
		{
			name:   "fully covered",
			width:  100,
			merged: []Rect{{Left: 0, Right: 100, Bottom: 10}},
			want:   Interval{Start: 100, End: 100},
		},
		{
			name:   "tie goes to leftmost",
			width:  100,
			merged: []Rect{{Left: 0, Right: 10, Bottom: 10}, {Left: 50, Right: 60, Bottom: 10}},
			want:   Interval{Start: 10, End: 50},
		},
		{
			name:   "trailing gap wins",
			width:  400,
			merged: []Rect{{Left: 20, Right: 40, Bottom: 10}},
			want:   Interval{Start: 40, End: 400},
		},
		{
			name:   "zero width",
			width:  0,
			merged: []Rect{{Left: 0, Right: 10, Bottom: 10}},
			want:   Interval{},
		},
		{
			name:  "negative width",
			width: -50,
			want:  Interval{},
		},
		{
			name:   "obstacle past the strip is clipped",
			width:  100,
			merged: []Rect{{Left: 0, Right: 10, Bottom: 10}, {Left: 150, Right: 170, Bottom: 10}},
			want:   Interval{Start: 10, End: 100},
		},
		{
			name:   "obstacle wider than the strip",
			width:  100,
			merged: []Rect{{Left: -20, Right: 140, Bottom: 10}},
			want:   Interval{Start: 100, End: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindWidestGap(tt.width, tt.merged)
			if got != tt.want {
				t.Fatalf("FindWidestGap(%d, %v) = %v, want %v", tt.width, tt.merged, got, tt.want)
			}
			if got.Start < 0 || got.End < got.Start || (tt.width > 0 && got.End > tt.width) {
				t.Fatalf("interval %v out of bounds for width %d", got, tt.width)
			}
		})
	}
}

func TestWidestFreeSpan_MergesFirst(t *testing.T) {
	// Scanned in input order, [0,30) would be reported as free.
	rects := []Rect{
		{Left: 30, Right: 80, Bottom: 10},
		{Left: 0, Right: 40, Bottom: 10},
		{Left: 60, Right: 70, Bottom: 10},
	}
	got := WidestFreeSpan(100, rects)
	want := Interval{Start: 80, End: 100}
	if got != want {
		t.Fatalf("WidestFreeSpan() = %v, want %v", got, want)
	}
}

func TestIntervalWidthClamps(t *testing.T) {
	if w := (Interval{Start: 10, End: 4}).Width(); w != 0 {
		t.Fatalf("Width() = %d, want 0", w)
	}
}

func TestRectCanonAndIntersect(t *testing.T) {
	r := Rect{Left: 10, Top: 20, Right: 0, Bottom: 5}.Canon()
	if r != (Rect{Left: 0, Top: 5, Right: 10, Bottom: 20}) {
		t.Fatalf("Canon() = %v", r)
	}

	got, ok := r.Intersect(Rect{Left: 5, Top: 0, Right: 50, Bottom: 8})
	if !ok || got != (Rect{Left: 5, Top: 5, Right: 10, Bottom: 8}) {
		t.Fatalf("Intersect() = %v, %v", got, ok)
	}
	if _, ok := r.Intersect(Rect{Left: 10, Top: 0, Right: 20, Bottom: 30}); ok {
		t.Fatal("edge-adjacent rectangles should not intersect")
	}
}

func randomRects(rng *rand.Rand, n int) []Rect {
	rects := make([]Rect, n)
	for i := range rects {
		left := rng.Intn(55)
		top := rng.Intn(20)
		rects[i] = Rect{
			Left:   left,
			Top:    top,
			Right:  left + rng.Intn(10),
			Bottom: top + 1 + rng.Intn(20),
		}
	}
	return rects
}

// coveredBy reports whether the closed column x lies within any rect's
// [Left, Right] extent.
func coveredBy(rects []Rect, x int) bool {
	for _, r := range rects {
		if x >= r.Left && x <= r.Right {
			return true
		}
	}
	return false
}
