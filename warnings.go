package textgrid

import (
	"fmt"
	"strings"
)

// WarningCode identifies the kind of a non-fatal issue
type WarningCode int

const (
	// WarningEmptyPage means a selected page produced no glyphs
	WarningEmptyPage WarningCode = iota
	// WarningDuplicateGlyphs means repeated glyphs were dropped from a page
	WarningDuplicateGlyphs
	// WarningEstimatedWidths means glyph widths came from substitute font
	// metrics, so horizontal positions are approximate
	WarningEstimatedWidths
)

// String returns a short name for the code
func (c WarningCode) String() string {
	switch c {
	case WarningEmptyPage:
		return "empty-page"
	case WarningDuplicateGlyphs:
		return "duplicate-glyphs"
	case WarningEstimatedWidths:
		return "estimated-widths"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal issue found while processing. Results are still
// returned but may be incomplete.
type Warning struct {
	Code    WarningCode
	Page    int
	Message string
}

// String formats the warning with its page
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings joins warnings into one line each
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
