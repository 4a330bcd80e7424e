// Package textgrid rebuilds readable text boxes from the per-character glyph
// boxes of a PDF and exports them as table rows.
//
// Basic usage:
//
//	boxes, warnings, err := textgrid.Open("invoice.pdf").Boxes()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", textgrid.FormatWarnings(warnings))
//	}
//
// With options:
//
//	_, err := textgrid.Open("report.pdf").
//	    Pages(1, 2).
//	    GapMultiplier(2).
//	    NoColumnMerge().
//	    Export(os.Stdout, export.CSVConfig())
//
// Glyph record files (JSON array or JSON Lines) can be opened the same way;
// the format is chosen by file extension. For lower-level access use the
// glyph and layout packages directly.
package textgrid

import (
	"github.com/boinit/textgrid/glyph"
)

// Open opens a PDF or glyph record file and returns an Extractor for fluent
// configuration. Files ending in .json, .jsonl, or .ndjson are read as glyph
// records; anything else is parsed as a PDF. The file is opened lazily by the
// first terminal operation, which also closes it.
//
// Example:
//
//	boxes, warnings, err := textgrid.Open("document.pdf").Boxes()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		kind:     kindFromFilename(filename),
		options:  defaultOptions(),
		log:      discardLogger(),
	}
}

// OpenRecords is like Open but always reads filename as glyph records
//
// Example:
//
//	boxes, _, err := textgrid.OpenRecords("dump.txt").Boxes()
func OpenRecords(filename string) *Extractor {
	e := Open(filename)
	e.kind = sourceRecords
	return e
}

// FromSource creates an Extractor over an already-open glyph source.
// The caller is responsible for closing src.
//
// Example:
//
//	src := glyph.NewRecordSource(glyphs)
//	boxes, _, err := textgrid.FromSource(src).Boxes()
func FromSource(src glyph.Source) *Extractor {
	return &Extractor{
		source:       src,
		ownsSource:   false,
		sourceOpened: true,
		options:      defaultOptions(),
		log:          discardLogger(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil.
//
// Example:
//
//	count := textgrid.Must(textgrid.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustBoxes wraps a terminal operation such as Boxes() or Rows() and panics
// if the error is non-nil. Warnings are discarded.
//
// Example:
//
//	boxes := textgrid.MustBoxes(textgrid.Open("document.pdf").Boxes())
func MustBoxes[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
