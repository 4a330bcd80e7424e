package layout

import (
	"sort"
	"strings"

	"github.com/boinit/textgrid/model"
)

// ColumnKey identifies single-character boxes that share an exact left edge
// on the same page
type ColumnKey struct {
	Page int
	X0   float64
}

// MergeColumns joins single-character boxes stacked in a column. Some
// documents set a word as one character per line; each character then lands
// on its own baseline and LineGrouper cannot join them.
//
// Boxes holding exactly one character are grouped by (x0, page). A group of
// two or more becomes one box spanning the group: x0 unchanged, y0 the
// minimum, x1 and y1 the maxima. Singleton groups and multi-character boxes
// pass through unchanged.
//
// Every merged box takes the position of its group's first member and every
// other box keeps its position, so when nothing merges the output equals the
// input. The result is not re-sorted.
func MergeColumns(boxes []model.MergedBox, order ColumnOrder) []model.MergedBox {
	if len(boxes) == 0 {
		return nil
	}

	// Step 1: collect column members by key, remembering where each group starts
	members := make(map[ColumnKey][]int)
	for i, b := range boxes {
		if !b.IsSingleChar() {
			continue
		}
		key := ColumnKey{Page: b.Page, X0: b.X0}
		members[key] = append(members[key], i)
	}

	// Step 2: rebuild in input order, emitting each merged column once
	result := make([]model.MergedBox, 0, len(boxes))
	for i, b := range boxes {
		if !b.IsSingleChar() {
			result = append(result, b)
			continue
		}

		group := members[ColumnKey{Page: b.Page, X0: b.X0}]
		if len(group) == 1 {
			result = append(result, b)
			continue
		}
		if group[0] != i {
			continue // already emitted with the first member
		}

		column := make([]model.MergedBox, len(group))
		for j, idx := range group {
			column[j] = boxes[idx]
		}
		result = append(result, mergeColumn(column, order))
	}

	return result
}

// mergeColumn merges two or more single-character boxes sharing x0 and page
func mergeColumn(column []model.MergedBox, order ColumnOrder) model.MergedBox {
	if order == ColumnOrderTopDown {
		sorted := make([]model.MergedBox, len(column))
		copy(sorted, column)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Y0 > sorted[j].Y0
		})
		column = sorted
	}

	rect := column[0].Rect()
	var sb strings.Builder
	for _, b := range column {
		rect = rect.Union(b.Rect())
		sb.WriteString(b.Text)
	}
	return boxFromRect(rect, sb.String(), column[0].Page)
}
