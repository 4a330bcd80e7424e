package model

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// Glyph represents one rendered character on a page.
type Glyph struct {
	// Rectangle in PDF user space
	X0, Y0 float64
	X1, Y1 float64

	// Width and Height are X1-X0 and Y1-Y0. They are stored rather than
	// computed because sources report them independently and deduplication
	// compares them as given.
	Width  float64
	Height float64

	// Text holds exactly one character
	Text string

	// Page is 1-based
	Page int

	// SequenceID is "<page>_<ordinal>" in source order. Informational only.
	SequenceID string

	// Font information is carried from the source but not used for layout
	FontName string
	FontSize float64
}

// NewGlyph creates a glyph from its corner coordinates, deriving Width and Height
func NewGlyph(page int, x0, y0, x1, y1 float64, text string) Glyph {
	return Glyph{
		X0:     x0,
		Y0:     y0,
		X1:     x1,
		Y1:     y1,
		Width:  x1 - x0,
		Height: y1 - y0,
		Text:   text,
		Page:   page,
	}
}

// Rect returns the glyph rectangle
func (g Glyph) Rect() Rect {
	return Rect{X0: g.X0, Y0: g.Y0, X1: g.X1, Y1: g.Y1}
}

// GlyphKey is the identity used to detect duplicate glyph records.
// Two glyphs on the same page with equal keys are the same rendered character.
type GlyphKey struct {
	Page           int
	X0, Y0, X1, Y1 float64
	Width, Height  float64
	Text           string
}

// Key returns the deduplication key of the glyph
func (g Glyph) Key() GlyphKey {
	return GlyphKey{
		Page:   g.Page,
		X0:     g.X0,
		Y0:     g.Y0,
		X1:     g.X1,
		Y1:     g.Y1,
		Width:  g.Width,
		Height: g.Height,
		Text:   g.Text,
	}
}

// Validate checks the glyph invariants. The returned error, if any, is a
// *RecordError wrapping ErrInvalidGlyphRecord.
func (g Glyph) Validate() error {
	if g.Page < 1 {
		return invalidField("page", "must be >= 1, got %d", g.Page)
	}
	if !g.Rect().IsFinite() {
		return invalidField("", "coordinates must be finite numbers")
	}
	if g.X1 < g.X0 {
		return invalidField("x1", "x1 (%g) < x0 (%g)", g.X1, g.X0)
	}
	if g.Y1 < g.Y0 {
		return invalidField("y1", "y1 (%g) < y0 (%g)", g.Y1, g.Y0)
	}
	if n := utf8.RuneCountInString(g.Text); n != 1 {
		return invalidField("text", "must hold exactly one character, got %d", n)
	}
	if math.IsNaN(g.Width) || math.IsNaN(g.Height) {
		return invalidField("", "width and height must be numbers")
	}
	return nil
}

// String returns a compact description used in logs and test failures
func (g Glyph) String() string {
	return fmt.Sprintf("%q p%d [%g %g %g %g]", g.Text, g.Page, g.X0, g.Y0, g.X1, g.Y1)
}

// PageGlyphs holds the glyphs of one page together with the page size.
type PageGlyphs struct {
	// Number is the 1-based page number
	Number int

	// Page dimensions in PDF points
	Width  float64
	Height float64

	Glyphs []Glyph

	// EstimatedWidths counts glyphs whose width was measured with substitute
	// font metrics because the font carried none
	EstimatedWidths int
}
