package textgrid

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/boinit/textgrid/export"
	"github.com/boinit/textgrid/glyph"
	"github.com/boinit/textgrid/layout"
	"github.com/boinit/textgrid/model"
)

// ErrInvalidPage is returned when a selected page does not exist
var ErrInvalidPage = errors.New("invalid page")

// sourceKind selects how a file is opened
type sourceKind int

const (
	sourcePDF sourceKind = iota
	sourceRecords
)

func kindFromFilename(filename string) sourceKind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".jsonl", ".ndjson":
		return sourceRecords
	default:
		return sourcePDF
	}
}

// PageResult holds the reconstruction of a single page
type PageResult struct {
	Number int
	Width  float64
	Height float64

	// Glyphs are the page's glyphs after deduplication, in reading order
	Glyphs []model.Glyph

	// Boxes are the page's boxes in final order
	Boxes []model.MergedBox

	// FirstIndex is the row number of Boxes[0] across the whole result
	FirstIndex int
}

// Result is the output of a full reconstruction
type Result struct {
	Pages []PageResult
	Boxes []model.MergedBox
	Stats layout.Stats
}

// Extractor provides a fluent interface for rebuilding text boxes.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	filename string
	kind     sourceKind
	source   glyph.Source

	// Lifecycle
	ownsSource   bool // true if we opened the source and should close it
	sourceOpened bool

	// Configuration
	options ExtractOptions
	ctx     context.Context
	log     *logrus.Entry

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:     e.filename,
		kind:         e.kind,
		source:       e.source,
		ownsSource:   e.ownsSource,
		sourceOpened: e.sourceOpened,
		options:      e.options.clone(),
		ctx:          e.ctx,
		log:          e.log,
		err:          e.err,
	}
}

func discardLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func (e *Extractor) runContext() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// ensureSource opens the source if not already open.
func (e *Extractor) ensureSource() error {
	if e.sourceOpened {
		return nil
	}
	if e.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	switch e.kind {
	case sourceRecords:
		f, err := os.Open(e.filename)
		if err != nil {
			return fmt.Errorf("failed to open glyph records: %w", err)
		}
		defer f.Close()

		glyphs, err := glyph.Decode(f, e.options.glyph)
		if err != nil {
			return fmt.Errorf("%s: %w", e.filename, err)
		}
		e.source = glyph.NewRecordSource(glyphs)

	default:
		src, err := glyph.OpenPDF(e.filename, e.options.glyph)
		if err != nil {
			return fmt.Errorf("failed to open PDF: %w", err)
		}
		e.source = src
	}

	e.ownsSource = true
	e.sourceOpened = true
	e.log.WithField("file", e.filename).Debug("Opened glyph source")
	return nil
}

// Close releases resources associated with the Extractor.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if e.ownsSource && e.source != nil {
		err := e.source.Close()
		e.source = nil
		e.ownsSource = false
		e.sourceOpened = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to process (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	boxes, _, err := textgrid.Open("doc.pdf").Pages(1, 3, 5).Boxes()
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	for _, p := range pages {
		newExt.options.pages = append(newExt.options.pages, pageSpan{first: p, last: p})
	}
	return newExt
}

// PageRange specifies a range of pages to process (1-indexed, inclusive).
//
// Example:
//
//	boxes, _, err := textgrid.Open("doc.pdf").PageRange(5, 10).Boxes()
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	if start > end {
		newExt.err = fmt.Errorf("%w: range %d-%d is reversed", ErrInvalidPage, start, end)
		return newExt
	}
	newExt.options.pages = append(newExt.options.pages, pageSpan{first: start, last: end})
	return newExt
}

// GapMultiplier sets the factor applied to the mean gap of a baseline when
// deciding where to split it into runs. The default is 1.5.
func (e *Extractor) GapMultiplier(m float64) *Extractor {
	newExt := e.clone()
	newExt.options.layout.GapMultiplier = m
	return newExt
}

// MinGapThreshold sets the smallest gap, in points, that can split a run.
// The default is 10.
func (e *Extractor) MinGapThreshold(points float64) *Extractor {
	newExt := e.clone()
	newExt.options.layout.MinGapThreshold = points
	return newExt
}

// NoColumnMerge disables joining vertical stacks of single characters.
//
// Example:
//
//	boxes, _, err := textgrid.Open("form.pdf").NoColumnMerge().Boxes()
func (e *Extractor) NoColumnMerge() *Extractor {
	newExt := e.clone()
	newExt.options.layout.ColumnMerge = false
	return newExt
}

// ColumnOrder sets the order in which stacked characters are concatenated.
func (e *Extractor) ColumnOrder(order layout.ColumnOrder) *Extractor {
	newExt := e.clone()
	newExt.options.layout.ColumnOrder = order
	return newExt
}

// Workers sets how many pages are reconstructed concurrently.
// Output does not depend on this value.
func (e *Extractor) Workers(n int) *Extractor {
	newExt := e.clone()
	newExt.options.layout.Workers = n
	return newExt
}

// NormalizeText composes glyph text to Unicode NFC before validation.
// This takes effect only if set before the source is opened.
func (e *Extractor) NormalizeText() *Extractor {
	newExt := e.clone()
	newExt.options.glyph.NormalizeNFC = true
	return newExt
}

// WithLogger sets the entry used for debug logging.
func (e *Extractor) WithLogger(entry *logrus.Entry) *Extractor {
	newExt := e.clone()
	if entry == nil {
		entry = discardLogger()
	}
	newExt.log = entry
	return newExt
}

// WithContext sets the context used by terminal operations.
func (e *Extractor) WithContext(ctx context.Context) *Extractor {
	newExt := e.clone()
	newExt.ctx = ctx
	return newExt
}

// ============================================================================
// Terminal Methods
// ============================================================================

// PageCount returns the number of pages in the source.
// Note: This does NOT close the source, allowing further operations.
//
// Example:
//
//	ext := textgrid.Open("document.pdf")
//	defer ext.Close()
//	count, err := ext.PageCount()
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}

	if err := e.ensureSource(); err != nil {
		return 0, err
	}

	return e.source.PageCount(e.runContext())
}

// Glyphs returns the selected pages' glyphs with duplicates removed, in
// reading order. This is a terminal operation that closes the source.
func (e *Extractor) Glyphs() ([]model.Glyph, []Warning, error) {
	pages, warnings, err := e.collect()
	if err != nil {
		return nil, nil, err
	}

	var glyphs []model.Glyph
	for _, pg := range pages {
		glyphs = append(glyphs, layout.Deduplicate(pg.Glyphs)...)
	}
	if err := layout.ValidateGlyphs(glyphs); err != nil {
		return nil, nil, err
	}
	return layout.SortGlyphs(glyphs), warnings, nil
}

// Reconstruct runs the full layout pipeline and returns per-page results.
// This is a terminal operation that closes the source.
func (e *Extractor) Reconstruct() (*Result, []Warning, error) {
	pages, warnings, err := e.collect()
	if err != nil {
		return nil, nil, err
	}

	pipeline := layout.NewPipelineWithConfig(e.options.layout).WithLogger(e.log)
	boxes, stats, err := pipeline.ReconstructPages(e.runContext(), pages)
	if err != nil {
		return nil, nil, err
	}

	result := &Result{
		Pages: make([]PageResult, 0, len(pages)),
		Boxes: boxes,
		Stats: stats,
	}

	// Final order is page first, so each page's boxes are contiguous.
	byPage := make(map[int][]model.MergedBox)
	firstIndex := make(map[int]int)
	for i, b := range boxes {
		if _, ok := byPage[b.Page]; !ok {
			firstIndex[b.Page] = i
		}
		byPage[b.Page] = append(byPage[b.Page], b)
	}

	ordered := append([]model.PageGlyphs(nil), pages...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Number < ordered[j].Number
	})
	for _, pg := range ordered {
		result.Pages = append(result.Pages, PageResult{
			Number:     pg.Number,
			Width:      pg.Width,
			Height:     pg.Height,
			Glyphs:     layout.SortGlyphs(layout.Deduplicate(pg.Glyphs)),
			Boxes:      byPage[pg.Number],
			FirstIndex: firstIndex[pg.Number],
		})
	}

	e.log.WithFields(stats.Fields()).Info("Reconstructed text boxes")
	return result, warnings, nil
}

// Boxes returns the merged boxes of the selected pages in final order.
// This is a terminal operation that closes the source.
//
// Example:
//
//	boxes, warnings, err := textgrid.Open("document.pdf").Boxes()
//	for _, b := range boxes {
//	    fmt.Printf("p.%d %q at (%.1f, %.1f)\n", b.Page, b.Text, b.X0, b.Y0)
//	}
func (e *Extractor) Boxes() ([]model.MergedBox, []Warning, error) {
	result, warnings, err := e.Reconstruct()
	if err != nil {
		return nil, nil, err
	}
	return result.Boxes, warnings, nil
}

// Rows returns the boxes numbered from 0 as export rows.
// This is a terminal operation that closes the source.
func (e *Extractor) Rows() ([]export.Row, []Warning, error) {
	boxes, warnings, err := e.Boxes()
	if err != nil {
		return nil, nil, err
	}
	return export.RowsFromBoxes(boxes), warnings, nil
}

// Export writes the boxes to w using config.
// This is a terminal operation that closes the source.
//
// Example:
//
//	_, err := textgrid.Open("document.pdf").Export(os.Stdout, export.CSVConfig())
func (e *Extractor) Export(w io.Writer, config export.Config) ([]Warning, error) {
	rows, warnings, err := e.Rows()
	if err != nil {
		return nil, err
	}
	if err := export.NewExporterWithConfig(config).ExportRows(rows, w); err != nil {
		return warnings, fmt.Errorf("exporting %s: %w", config.Format, err)
	}
	return warnings, nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// collect opens the source, reads the selected pages, and closes the source.
func (e *Extractor) collect() ([]model.PageGlyphs, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	if err := e.ensureSource(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	ctx := e.runContext()
	pageNumbers, err := e.resolvePages(ctx)
	if err != nil {
		return nil, nil, err
	}

	pages, err := glyph.Collect(ctx, e.source, pageNumbers)
	if err != nil {
		return nil, nil, err
	}

	return pages, pageWarnings(pages), nil
}

// resolvePages validates the selected pages, removes repeats, and sorts them.
// If no pages are specified, returns nil which selects every page.
func (e *Extractor) resolvePages(ctx context.Context) ([]int, error) {
	if len(e.options.pages) == 0 {
		return nil, nil
	}

	pageCount, err := e.source.PageCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}

	// Spans are checked before they are expanded, so a huge range fails
	// without allocating it.
	for _, span := range e.options.pages {
		if span.first < 1 || span.first > pageCount {
			return nil, fmt.Errorf("%w: page %d out of range (1-%d)", ErrInvalidPage, span.first, pageCount)
		}
		if span.last > pageCount {
			return nil, fmt.Errorf("%w: page %d out of range (1-%d)", ErrInvalidPage, span.last, pageCount)
		}
	}

	seen := make(map[int]bool)
	var pageNumbers []int
	for _, span := range e.options.pages {
		for p := span.first; p <= span.last; p++ {
			if !seen[p] {
				seen[p] = true
				pageNumbers = append(pageNumbers, p)
			}
		}
	}

	sort.Ints(pageNumbers)
	return pageNumbers, nil
}

// pageWarnings reports empty pages, pages with guessed glyph widths, and
// pages that repeat glyphs
func pageWarnings(pages []model.PageGlyphs) []Warning {
	var warnings []Warning
	for _, pg := range pages {
		if pg.EstimatedWidths > 0 {
			warnings = append(warnings, Warning{
				Code:    WarningEstimatedWidths,
				Page:    pg.Number,
				Message: fmt.Sprintf("%d glyphs have no font widths; positions are estimated", pg.EstimatedWidths),
			})
		}
		if len(pg.Glyphs) == 0 {
			warnings = append(warnings, Warning{
				Code:    WarningEmptyPage,
				Page:    pg.Number,
				Message: "no glyphs found",
			})
			continue
		}
		if dropped := len(pg.Glyphs) - len(layout.Deduplicate(pg.Glyphs)); dropped > 0 {
			warnings = append(warnings, Warning{
				Code:    WarningDuplicateGlyphs,
				Page:    pg.Number,
				Message: fmt.Sprintf("dropped %d duplicate glyphs", dropped),
			})
		}
	}
	return warnings
}
