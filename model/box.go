package model

import (
	"fmt"
	"unicode/utf8"
)

// MergedBox is a word, line fragment, or vertical column produced by merging
// one or more glyphs. Its rectangle is the tight bounding box of everything
// merged into it and its text is the concatenation in merge order.
type MergedBox struct {
	X0, Y0 float64
	X1, Y1 float64
	Width  float64
	Height float64
	Text   string
	Page   int
}

// BoxFromGlyph wraps a single glyph as a merged box without changing any value
func BoxFromGlyph(g Glyph) MergedBox {
	return MergedBox{
		X0:     g.X0,
		Y0:     g.Y0,
		X1:     g.X1,
		Y1:     g.Y1,
		Width:  g.Width,
		Height: g.Height,
		Text:   g.Text,
		Page:   g.Page,
	}
}

// Rect returns the box rectangle
func (b MergedBox) Rect() Rect {
	return Rect{X0: b.X0, Y0: b.Y0, X1: b.X1, Y1: b.Y1}
}

// RuneCount returns the number of characters (code points) in Text
func (b MergedBox) RuneCount() int {
	return utf8.RuneCountInString(b.Text)
}

// IsSingleChar reports whether the box holds exactly one character
func (b MergedBox) IsSingleChar() bool {
	return b.RuneCount() == 1
}

// String returns a compact description used in logs and test failures
func (b MergedBox) String() string {
	return fmt.Sprintf("%q p%d [%g %g %g %g]", b.Text, b.Page, b.X0, b.Y0, b.X1, b.Y1)
}
