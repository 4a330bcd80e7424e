package glyph

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/boinit/textgrid/model"
)

// sizeTolerance is how far a recorded width or height may differ from the
// one derived from the corners
const sizeTolerance = 1e-6

// Record is the serialized form of a glyph. Field names follow the usual
// per-character PDF dump layout (x0, y0, x1, y1, width, height, text, page);
// all eight are required.
type Record struct {
	X0       *float64 `json:"x0"`
	Y0       *float64 `json:"y0"`
	X1       *float64 `json:"x1"`
	Y1       *float64 `json:"y1"`
	Width    *float64 `json:"width"`
	Height   *float64 `json:"height"`
	Text     *string  `json:"text"`
	Page     *int     `json:"page"`
	CharID   string   `json:"char_id,omitempty"`
	FontName string   `json:"fontname,omitempty"`
	Size     *float64 `json:"size,omitempty"`
}

// RecordFromGlyph converts a glyph to its serialized form
func RecordFromGlyph(g model.Glyph) Record {
	x0, y0, x1, y1 := g.X0, g.Y0, g.X1, g.Y1
	width, height := g.Width, g.Height
	text, page := g.Text, g.Page
	rec := Record{
		X0:       &x0,
		Y0:       &y0,
		X1:       &x1,
		Y1:       &y1,
		Width:    &width,
		Height:   &height,
		Text:     &text,
		Page:     &page,
		CharID:   g.SequenceID,
		FontName: g.FontName,
	}
	if g.FontSize != 0 {
		size := g.FontSize
		rec.Size = &size
	}
	return rec
}

// Glyph converts the record to a validated glyph. Required fields must be
// present, and width and height must agree with the corners.
func (r Record) Glyph(options Options) (model.Glyph, error) {
	required := []struct {
		name    string
		present bool
	}{
		{"x0", r.X0 != nil},
		{"y0", r.Y0 != nil},
		{"x1", r.X1 != nil},
		{"y1", r.Y1 != nil},
		{"width", r.Width != nil},
		{"height", r.Height != nil},
		{"text", r.Text != nil},
		{"page", r.Page != nil},
	}
	for _, f := range required {
		if !f.present {
			return model.Glyph{}, &model.RecordError{Index: -1, Field: f.name, Reason: "missing required field"}
		}
	}

	g := model.NewGlyph(*r.Page, *r.X0, *r.Y0, *r.X1, *r.Y1, options.normalize(*r.Text))
	g.SequenceID = r.CharID
	g.FontName = r.FontName
	if r.Size != nil {
		g.FontSize = *r.Size
	}

	if math.Abs(*r.Width-g.Width) > sizeTolerance {
		return model.Glyph{}, &model.RecordError{Index: -1, Field: "width",
			Reason: fmt.Sprintf("%g does not match x1-x0 (%g)", *r.Width, g.Width)}
	}
	if math.Abs(*r.Height-g.Height) > sizeTolerance {
		return model.Glyph{}, &model.RecordError{Index: -1, Field: "height",
			Reason: fmt.Sprintf("%g does not match y1-y0 (%g)", *r.Height, g.Height)}
	}
	g.Width, g.Height = *r.Width, *r.Height

	if err := g.Validate(); err != nil {
		return model.Glyph{}, err
	}
	return g, nil
}

// Decode reads glyph records from r. The input may be a JSON array of
// records or a stream of records (JSON Lines). Decoding stops at the first
// bad record; the error carries its 0-based index. A leading byte order
// mark is removed, and UTF-16 input with a BOM is converted to UTF-8.
func Decode(r io.Reader, options Options) ([]model.Glyph, error) {
	br := bufio.NewReader(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading glyph records: %w", err)
	}

	dec := json.NewDecoder(br)
	var glyphs []model.Glyph
	index := 0

	decodeOne := func() error {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if err == io.EOF {
				return err
			}
			return fmt.Errorf("reading glyph record %d: %w", index, err)
		}
		g, err := decodeRecord(raw, options)
		if err != nil {
			return withRecordIndex(err, index)
		}
		glyphs = append(glyphs, g)
		index++
		return nil
	}

	if first == '[' {
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("reading glyph records: %w", err)
		}
		for dec.More() {
			if err := decodeOne(); err != nil {
				return nil, err
			}
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("reading glyph records: %w", err)
		}
		return glyphs, nil
	}

	for {
		err := decodeOne()
		if err == io.EOF {
			return glyphs, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func decodeRecord(raw json.RawMessage, options Options) (model.Glyph, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return model.Glyph{}, &model.RecordError{Index: -1, Reason: "record is not a JSON object"}
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return model.Glyph{}, &model.RecordError{Index: -1, Field: typeErr.Field,
				Reason: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value)}
		}
		return model.Glyph{}, &model.RecordError{Index: -1, Reason: err.Error()}
	}
	return rec.Glyph(options)
}

func withRecordIndex(err error, index int) error {
	var recErr *model.RecordError
	if errors.As(err, &recErr) {
		copied := *recErr
		copied.Index = index
		return &copied
	}
	return fmt.Errorf("glyph record %d: %w", index, err)
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		head, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		switch head[0] {
		case ' ', '\t', '\r', '\n':
			br.Discard(1)
			continue
		}
		return head[0], nil
	}
}

// Encode writes glyphs as JSON Lines, one record per line
func Encode(w io.Writer, glyphs []model.Glyph) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, g := range glyphs {
		if err := enc.Encode(RecordFromGlyph(g)); err != nil {
			return fmt.Errorf("encoding glyph %d: %w", i, err)
		}
	}
	return nil
}
