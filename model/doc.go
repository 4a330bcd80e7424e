// Package model defines the records that flow through the layout
// reconstruction pipeline.
//
// # Glyphs
//
// A [Glyph] is one rendered character as reported by a glyph source: its
// rectangle in PDF user space (the vertical axis grows upward from the page
// bottom), its single-character text, and the 1-based page it sits on.
// Glyphs are produced once per rendered character and never mutated.
//
// # Merged boxes
//
// A [MergedBox] is the tight bounding rectangle plus concatenated text of one
// or more glyphs (a word or line fragment) or of a vertical stack of
// single-character boxes. Merged boxes keep no reference to their sources.
//
// # Geometry
//
//   - [Rect] - axis-aligned rectangle with union and containment helpers
//   - [Point] - 2D point with distance calculation
//
// # Validation
//
// Records arriving from outside the pipeline are checked with
// [Glyph.Validate]. Failures wrap [ErrInvalidGlyphRecord] so callers can test
// for them with errors.Is.
package model
