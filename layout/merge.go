package layout

import (
	"strings"

	"github.com/boinit/textgrid/model"
)

// MergeRun collapses a run into one box covering the union of the glyph
// rectangles; the text is the glyph texts joined in run order.
//
// The run must be non-empty and share one baseline, which is what
// LineGrouper produces, so y0 is that baseline.
func MergeRun(run Run) model.MergedBox {
	if len(run) == 1 {
		return model.BoxFromGlyph(run[0])
	}

	rect := run[0].Rect()
	var sb strings.Builder
	for _, g := range run {
		rect = rect.Union(g.Rect())
		sb.WriteString(g.Text)
	}
	return boxFromRect(rect, sb.String(), run[0].Page)
}

// boxFromRect builds a merged box whose size is taken from rect
func boxFromRect(rect model.Rect, text string, page int) model.MergedBox {
	return model.MergedBox{
		X0:     rect.X0,
		Y0:     rect.Y0,
		X1:     rect.X1,
		Y1:     rect.Y1,
		Width:  rect.Width(),
		Height: rect.Height(),
		Text:   text,
		Page:   page,
	}
}

// MergeRuns applies MergeRun to every run, preserving order
func MergeRuns(runs []Run) []model.MergedBox {
	if len(runs) == 0 {
		return nil
	}

	boxes := make([]model.MergedBox, 0, len(runs))
	for _, run := range runs {
		if len(run) == 0 {
			continue
		}
		boxes = append(boxes, MergeRun(run))
	}
	return boxes
}
