package layout

import (
	"sort"

	"github.com/boinit/textgrid/model"
)

// readingLess orders by page ascending, then y0 descending (PDF y grows
// upward, so higher y0 is nearer the top), then x0 ascending.
func readingLess(pageA, pageB int, y0A, y0B, x0A, x0B float64) bool {
	if pageA != pageB {
		return pageA < pageB
	}
	if y0A != y0B {
		return y0A > y0B
	}
	return x0A < x0B
}

// SortGlyphs returns a copy of glyphs in reading order.
// The sort is stable: glyphs with equal (page, y0, x0) keep their input order.
func SortGlyphs(glyphs []model.Glyph) []model.Glyph {
	sorted := make([]model.Glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		return readingLess(a.Page, b.Page, a.Y0, b.Y0, a.X0, b.X0)
	})
	return sorted
}

// SortBoxes returns a copy of boxes in reading order.
// The sort is stable: boxes with equal (page, y0, x0) keep their input order.
func SortBoxes(boxes []model.MergedBox) []model.MergedBox {
	sorted := make([]model.MergedBox, len(boxes))
	copy(sorted, boxes)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		return readingLess(a.Page, b.Page, a.Y0, b.Y0, a.X0, b.X0)
	})
	return sorted
}
