package layout

import "github.com/boinit/textgrid/model"

// makeGlyph creates a test glyph on the given page
func makeGlyph(page int, txt string, x0, y0, x1, y1 float64) model.Glyph {
	return model.NewGlyph(page, x0, y0, x1, y1, txt)
}

// makeBox creates a test merged box with derived width and height
func makeBox(page int, txt string, x0, y0, x1, y1 float64) model.MergedBox {
	return model.MergedBox{
		X0:     x0,
		Y0:     y0,
		X1:     x1,
		Y1:     y1,
		Width:  x1 - x0,
		Height: y1 - y0,
		Text:   txt,
		Page:   page,
	}
}

func boxTexts(boxes []model.MergedBox) []string {
	texts := make([]string, len(boxes))
	for i, b := range boxes {
		texts[i] = b.Text
	}
	return texts
}

func runTexts(runs []Run) []string {
	texts := make([]string, len(runs))
	for i, r := range runs {
		for _, g := range r {
			texts[i] += g.Text
		}
	}
	return texts
}
