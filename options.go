package textgrid

import (
	"github.com/boinit/textgrid/glyph"
	"github.com/boinit/textgrid/layout"
)

// ExtractOptions holds configuration for reconstruction.
type ExtractOptions struct {
	// Page selection (1-indexed), kept as spans until the page count is known
	pages []pageSpan

	// Grouping and merging
	layout layout.Config

	// Glyph preparation
	glyph glyph.Options
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		pages:  nil, // nil means all pages
		layout: layout.DefaultConfig(),
		glyph:  glyph.Options{},
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := ExtractOptions{
		layout: o.layout,
		glyph:  o.glyph,
	}

	// Deep copy pages slice
	if o.pages != nil {
		newOpts.pages = make([]pageSpan, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	return newOpts
}

// pageSpan is an inclusive range of 1-based page numbers
type pageSpan struct {
	first, last int
}
