package glyph

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/boinit/textgrid/model"
)

// PDFSource extracts glyphs from a PDF document.
//
// Each text item the PDF library reports becomes one glyph with
// x0 = X, x1 = X + W, y0 = Y, and y1 = Y + FontSize. Items holding more than
// one character are split evenly across their width. Items without a width
// (fonts with no /Widths array) are measured with the standard font metrics.
type PDFSource struct {
	file    *os.File
	reader  *pdf.Reader
	options Options
}

// OpenPDF opens a PDF file as a glyph source. The caller must Close it.
func OpenPDF(filename string, options Options) (*PDFSource, error) {
	f, r, err := openPDF(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &PDFSource{file: f, reader: r, options: options}, nil
}

// NewPDFSource creates a glyph source over an in-memory or already opened
// PDF. Closing the source does not close ra.
func NewPDFSource(ra io.ReaderAt, size int64, options Options) (*PDFSource, error) {
	r, err := newPDFReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	return &PDFSource{reader: r, options: options}, nil
}

// openPDF and newPDFReader convert library panics on corrupt input into errors
func openPDF(filename string) (f *os.File, r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if f != nil {
				f.Close()
			}
			f, r, err = nil, nil, fmt.Errorf("malformed PDF: %v", rec)
		}
	}()
	return pdf.Open(filename)
}

func newPDFReader(ra io.ReaderAt, size int64) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, fmt.Errorf("malformed PDF: %v", rec)
		}
	}()
	return pdf.NewReader(ra, size)
}

// PageCount returns the number of pages in the document
func (s *PDFSource) PageCount(ctx context.Context) (int, error) {
	return s.reader.NumPage(), nil
}

// Page extracts the glyphs of the 1-based page number in content stream order
func (s *PDFSource) Page(ctx context.Context, number int) (pg model.PageGlyphs, err error) {
	if err := ctx.Err(); err != nil {
		return model.PageGlyphs{}, err
	}
	if number < 1 || number > s.reader.NumPage() {
		return model.PageGlyphs{}, fmt.Errorf("page %d out of range (document has %d pages)", number, s.reader.NumPage())
	}

	defer func() {
		if rec := recover(); rec != nil {
			pg, err = model.PageGlyphs{}, fmt.Errorf("malformed content on page %d: %v", number, rec)
		}
	}()

	page := s.reader.Page(number)
	width, height := pageSize(page)
	pg = model.PageGlyphs{Number: number, Width: width, Height: height}
	if page.V.IsNull() {
		return pg, nil
	}

	seq := 0
	var pen penTracker
	for _, item := range page.Content().Text {
		placed := pen.place(item)
		glyphs := s.splitText(number, placed)
		if len(glyphs) > 0 {
			pen.moved(placed.X, glyphs[len(glyphs)-1].X1)
		}
		if _, standard := lookupMetrics(item.Font); item.W <= 0 && !standard {
			pg.EstimatedWidths += len(glyphs)
		}
		for _, g := range glyphs {
			seq++
			g.SequenceID = fmt.Sprintf("%d_%d", number, seq)
			if err := g.Validate(); err != nil {
				return model.PageGlyphs{}, fmt.Errorf("glyph %s: %w", g.SequenceID, err)
			}
			pg.Glyphs = append(pg.Glyphs, g)
		}
	}

	return pg, nil
}

// splitText turns one library text item into one glyph per character
func (s *PDFSource) splitText(page int, t pdf.Text) []model.Glyph {
	text := s.options.normalize(t.S)
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return nil
	}

	// Step 1: advance of every character
	advances := make([]float64, 0, n)
	if t.W > 0 {
		step := t.W / float64(n)
		for i := 0; i < n; i++ {
			advances = append(advances, step)
		}
	} else {
		m, _ := lookupMetrics(t.Font)
		size := math.Abs(t.FontSize)
		for _, r := range text {
			advances = append(advances, m.width(r)*size/1000)
		}
	}

	// Step 2: vertical extent from the baseline and font size
	y0 := t.Y
	y1 := t.Y + t.FontSize
	if y1 < y0 {
		y0, y1 = y1, y0
	}

	// Step 3: lay the characters out left to right
	glyphs := make([]model.Glyph, 0, n)
	x0 := t.X
	i := 0
	for _, r := range text {
		x1 := x0 + advances[i]
		if i == n-1 && t.W > 0 {
			x1 = t.X + t.W
		}
		g := model.NewGlyph(page, x0, y0, x1, y1, string(r))
		g.FontName = strings.TrimPrefix(t.Font, "/")
		g.FontSize = t.FontSize
		glyphs = append(glyphs, g)
		x0 = x1
		i++
	}
	return glyphs
}

// penTracker restores the text advance the PDF library skips for fonts
// without widths. The library then reports every character of a string at
// the origin of the first one.
type penTracker struct {
	last    pdf.Text
	started bool
	x       float64 // where the last item was placed
	end     float64 // right edge of the last item's glyphs
}

// place returns item moved past the previous item when the library did
// not advance between them
func (p *penTracker) place(item pdf.Text) pdf.Text {
	placed := item
	if p.follows(item) {
		placed.X = p.end + (item.X - p.last.X)
	}
	p.last, p.started = item, true
	p.x, p.end = placed.X, placed.X
	return placed
}

// moved records where the glyphs of the last placed item ended
func (p *penTracker) moved(x, end float64) {
	p.x, p.end = x, end
}

func (p *penTracker) follows(item pdf.Text) bool {
	if !p.started || item.W > 0 || p.last.W > 0 {
		return false
	}
	if item.Y != p.last.Y || item.Font != p.last.Font || item.FontSize != p.last.FontSize {
		return false
	}
	moved := item.X - p.last.X
	return moved >= 0 && moved < p.end-p.x
}

// pageSize reads the MediaBox, walking up the page tree when it is inherited
func pageSize(page pdf.Page) (float64, float64) {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Kind() != pdf.Array || box.Len() != 4 {
			continue
		}
		r := model.NewRect(box.Index(0).Float64(), box.Index(1).Float64(), box.Index(2).Float64(), box.Index(3).Float64())
		if r.Width() > 0 && r.Height() > 0 {
			return r.Width(), r.Height()
		}
	}
	return DefaultPageWidth, DefaultPageHeight
}

// Close closes the underlying file if the source opened it
func (s *PDFSource) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
