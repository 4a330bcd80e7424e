package glyph

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/boinit/textgrid/model"
)

// Default page size (US Letter) used when a source cannot report one
const (
	DefaultPageWidth  = 612.0
	DefaultPageHeight = 792.0
)

// Source yields the glyphs of a document one page at a time
type Source interface {
	// PageCount returns the number of pages in the document
	PageCount(ctx context.Context) (int, error)

	// Page returns the glyphs of the 1-based page number
	Page(ctx context.Context, number int) (model.PageGlyphs, error)

	// Close releases any resources held by the source
	Close() error
}

// Options controls how glyph text is prepared before validation
type Options struct {
	// NormalizeNFC composes glyph text to Unicode NFC, so that a decomposed
	// Hangul syllable (leading consonant, vowel, trailing consonant jamo)
	// becomes one character
	NormalizeNFC bool
}

func (o Options) normalize(s string) string {
	if o.NormalizeNFC {
		return norm.NFC.String(s)
	}
	return s
}

// Collect reads the requested 1-based pages from src, or every page when
// pages is empty. Pages are returned in the order requested.
func Collect(ctx context.Context, src Source, pages []int) ([]model.PageGlyphs, error) {
	count, err := src.PageCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}

	if len(pages) == 0 {
		pages = make([]int, count)
		for i := range pages {
			pages[i] = i + 1
		}
	}

	result := make([]model.PageGlyphs, 0, len(pages))
	for _, n := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if n < 1 || n > count {
			return nil, fmt.Errorf("page %d out of range (document has %d pages)", n, count)
		}
		pg, err := src.Page(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", n, err)
		}
		result = append(result, pg)
	}

	return result, nil
}

// Flatten concatenates the glyphs of every page
func Flatten(pages []model.PageGlyphs) []model.Glyph {
	total := 0
	for _, pg := range pages {
		total += len(pg.Glyphs)
	}

	glyphs := make([]model.Glyph, 0, total)
	for _, pg := range pages {
		glyphs = append(glyphs, pg.Glyphs...)
	}
	return glyphs
}

// RecordSource serves glyphs that are already in memory, typically decoded
// from a record file
type RecordSource struct {
	pages map[int][]model.Glyph
	count int
}

// NewRecordSource creates a source over glyphs. The page count is the highest
// page number present; pages in between without glyphs are empty.
func NewRecordSource(glyphs []model.Glyph) *RecordSource {
	src := &RecordSource{pages: make(map[int][]model.Glyph)}
	for _, g := range glyphs {
		src.pages[g.Page] = append(src.pages[g.Page], g)
		if g.Page > src.count {
			src.count = g.Page
		}
	}
	return src
}

// PageCount returns the highest page number seen
func (s *RecordSource) PageCount(ctx context.Context) (int, error) {
	return s.count, nil
}

// Page returns the glyphs recorded for page number in input order.
// Record files carry no page size, so the default size is reported.
func (s *RecordSource) Page(ctx context.Context, number int) (model.PageGlyphs, error) {
	if number < 1 || number > s.count {
		return model.PageGlyphs{}, fmt.Errorf("page %d out of range (document has %d pages)", number, s.count)
	}
	return model.PageGlyphs{
		Number: number,
		Width:  DefaultPageWidth,
		Height: DefaultPageHeight,
		Glyphs: s.pages[number],
	}, nil
}

// Pages returns the page numbers that hold at least one glyph, ascending
func (s *RecordSource) Pages() []int {
	numbers := make([]int, 0, len(s.pages))
	for n := range s.pages {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

// Close is a no-op
func (s *RecordSource) Close() error {
	return nil
}
