// Package geometry holds the pure rectangle arithmetic behind the caption
// strip: merging reserved rectangles and finding the widest free span
// between them.
package geometry

import "sort"

// Merge collapses rects into the minimal set of non-overlapping spans
// covering the same horizontal extent, sorted by Left.
//
// Rectangles that merely touch (r.Left == current.Right) are merged so no
// zero-width gap survives between them. Top and Bottom of a merged span
// are the vertical union of its members. The input slice is not modified.
func Merge(rects []Rect) []Rect {
	if len(rects) == 0 {
		return nil
	}

	sorted := make([]Rect, len(rects))
	copy(sorted, rects)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Left < sorted[j].Left
	})

	merged := make([]Rect, 0, len(sorted))
	current := sorted[0]
	for _, r := range sorted[1:] {
		if r.Left <= current.Right {
			current.Right = max(current.Right, r.Right)
			current.Top = min(current.Top, r.Top)
			current.Bottom = max(current.Bottom, r.Bottom)
			continue
		}
		merged = append(merged, current)
		current = r
	}
	merged = append(merged, current)

	return merged
}

// FindWidestGap returns the widest interval of [0, boundedWidth) not
// covered by merged. merged must be the output of Merge; an unmerged set
// can report a gap inside an overlap.
//
// Ties go to the leftmost candidate. A strip without obstacles is free
// across its full width; a fully covered strip yields a zero-width
// interval positioned at the end of the covered run.
func FindWidestGap(boundedWidth int, merged []Rect) Interval {
	if boundedWidth <= 0 {
		return Interval{}
	}

	var gaps []Interval
	record := func(start, end int) {
		// Spans reaching past the strip can open gaps outside it.
		start = min(max(start, 0), boundedWidth)
		end = min(max(end, start), boundedWidth)
		if end > start {
			gaps = append(gaps, Interval{Start: start, End: end})
		}
	}

	cursor := 0
	for _, span := range merged {
		if span.Left > cursor {
			record(cursor, span.Left)
		}
		cursor = max(cursor, span.Right)
	}
	if cursor < boundedWidth {
		record(cursor, boundedWidth)
	}

	if len(gaps) == 0 {
		if len(merged) == 0 {
			return Interval{Start: 0, End: boundedWidth}
		}
		edge := min(max(cursor, 0), boundedWidth)
		return Interval{Start: edge, End: edge}
	}

	best := gaps[0]
	for _, g := range gaps[1:] {
		if g.Width() > best.Width() {
			best = g
		}
	}
	return best
}

// WidestFreeSpan merges rects and returns the widest free interval.
func WidestFreeSpan(boundedWidth int, rects []Rect) Interval {
	return FindWidestGap(boundedWidth, Merge(rects))
}
