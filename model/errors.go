package model

import (
	"errors"
	"fmt"
)

// ErrInvalidGlyphRecord is returned when a glyph record is missing a
// required field or carries values the pipeline cannot accept.
var ErrInvalidGlyphRecord = errors.New("invalid glyph record")

// RecordError describes why a single glyph record was rejected.
// It unwraps to ErrInvalidGlyphRecord.
type RecordError struct {
	// Index is the 0-based position of the record in its input, or -1 if unknown
	Index int

	// Field names the offending field, empty when the record as a whole is bad
	Field string

	// Reason is a short human-readable explanation
	Reason string
}

func (e *RecordError) Error() string {
	var where string
	if e.Index >= 0 {
		where = fmt.Sprintf(" %d", e.Index)
	}
	if e.Field != "" {
		return fmt.Sprintf("glyph record%s: field %q: %s", where, e.Field, e.Reason)
	}
	return fmt.Sprintf("glyph record%s: %s", where, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidGlyphRecord)
func (e *RecordError) Unwrap() error {
	return ErrInvalidGlyphRecord
}

// invalidField builds a RecordError with an unknown index; callers that know
// the record position fill it in.
func invalidField(field, format string, args ...interface{}) *RecordError {
	return &RecordError{Index: -1, Field: field, Reason: fmt.Sprintf(format, args...)}
}
