package layout

import "github.com/boinit/textgrid/model"

// Deduplicate removes glyphs that repeat an earlier glyph on the same page
// with identical rectangle, size, and text. Some producers draw a glyph twice
// (for example to fake bold); only the first occurrence survives. The
// survivors keep their input order and the input slice is not modified.
func Deduplicate(glyphs []model.Glyph) []model.Glyph {
	if len(glyphs) == 0 {
		return nil
	}

	seen := make(map[model.GlyphKey]struct{}, len(glyphs))
	result := make([]model.Glyph, 0, len(glyphs))
	for _, g := range glyphs {
		key := g.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, g)
	}

	return result
}
