package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/boinit/textgrid/model"
)

// Format defines the available export formats
type Format int

const (
	// FormatCSV exports as comma-separated values
	FormatCSV Format = iota
	// FormatTSV exports as tab-separated values
	FormatTSV
	// FormatJSON exports as a JSON array
	FormatJSON
	// FormatJSONL exports as JSON Lines (one JSON object per line)
	FormatJSONL
	// FormatHTML exports as an HTML table
	FormatHTML
)

// String returns a human-readable representation of the export format
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatJSON:
		return "json"
	case FormatJSONL:
		return "jsonl"
	case FormatHTML:
		return "html"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (f Format) FileExtension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatTSV:
		return ".tsv"
	case FormatJSON:
		return ".json"
	case FormatJSONL:
		return ".jsonl"
	case FormatHTML:
		return ".html"
	default:
		return ".txt"
	}
}

// ParseFormat converts a format name (case-insensitive, optional leading dot)
// to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "csv":
		return FormatCSV, nil
	case "tsv":
		return FormatTSV, nil
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return FormatCSV, fmt.Errorf("unsupported export format %q", s)
	}
}

// Config holds configuration options for export
type Config struct {
	// Format specifies the export format
	Format Format

	// IncludeHeader includes the header row in CSV/TSV/HTML exports
	IncludeHeader bool

	// IndexColumnName is the header of the leading row number column
	IndexColumnName string

	// BOM writes a UTF-8 byte order mark before CSV/TSV output
	BOM bool

	// PrettyPrint enables indentation for JSON
	PrettyPrint bool
}

// DefaultConfig returns CSV with a header row, a "No." index column and a
// byte order mark
func DefaultConfig() Config {
	return Config{
		Format:          FormatCSV,
		IncludeHeader:   true,
		IndexColumnName: "No.",
		BOM:             true,
		PrettyPrint:     false,
	}
}

// CSVConfig returns config for CSV export
func CSVConfig() Config {
	return DefaultConfig()
}

// TSVConfig returns config for TSV export
func TSVConfig() Config {
	config := DefaultConfig()
	config.Format = FormatTSV
	return config
}

// JSONConfig returns config for pretty-printed JSON export
func JSONConfig() Config {
	config := DefaultConfig()
	config.Format = FormatJSON
	config.BOM = false
	config.PrettyPrint = true
	return config
}

// JSONLConfig returns config for JSON Lines export
func JSONLConfig() Config {
	config := DefaultConfig()
	config.Format = FormatJSONL
	config.BOM = false
	return config
}

// HTMLConfig returns config for HTML table export
func HTMLConfig() Config {
	config := DefaultConfig()
	config.Format = FormatHTML
	config.BOM = false
	return config
}

// ConfigFor returns the preset config for a format
func ConfigFor(f Format) Config {
	switch f {
	case FormatTSV:
		return TSVConfig()
	case FormatJSON:
		return JSONConfig()
	case FormatJSONL:
		return JSONLConfig()
	case FormatHTML:
		return HTMLConfig()
	default:
		return CSVConfig()
	}
}

// Row is one exported box
type Row struct {
	No     int     `json:"no"`
	Page   int     `json:"page"`
	Text   string  `json:"text"`
	X0     float64 `json:"x0"`
	Y0     float64 `json:"y0"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RowsFromBoxes numbers boxes from 0 in the order given
func RowsFromBoxes(boxes []model.MergedBox) []Row {
	rows := make([]Row, len(boxes))
	for i, b := range boxes {
		rows[i] = Row{
			No:     i,
			Page:   b.Page,
			Text:   b.Text,
			X0:     b.X0,
			Y0:     b.Y0,
			Width:  b.Width,
			Height: b.Height,
		}
	}
	return rows
}

// columns are the data columns after the index column
var columns = []string{"page", "text", "x0", "y0", "width", "height"}

func (c Config) header() []string {
	name := c.IndexColumnName
	if name == "" {
		name = "No."
	}
	return append([]string{name}, columns...)
}

func (r Row) cells() []string {
	return []string{
		strconv.Itoa(r.No),
		strconv.Itoa(r.Page),
		r.Text,
		formatFloat(r.X0),
		formatFloat(r.Y0),
		formatFloat(r.Width),
		formatFloat(r.Height),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Exporter writes boxes in one format
type Exporter struct {
	config Config
}

// NewExporter creates a new exporter with default configuration
func NewExporter() *Exporter {
	return &Exporter{
		config: DefaultConfig(),
	}
}

// NewExporterWithConfig creates an exporter with custom configuration
func NewExporterWithConfig(config Config) *Exporter {
	return &Exporter{
		config: config,
	}
}

// Config returns the exporter configuration
func (e *Exporter) Config() Config {
	return e.config
}

// Export writes boxes to w
func (e *Exporter) Export(boxes []model.MergedBox, w io.Writer) error {
	return e.ExportRows(RowsFromBoxes(boxes), w)
}

// ExportRows writes already numbered rows to w
func (e *Exporter) ExportRows(rows []Row, w io.Writer) error {
	switch e.config.Format {
	case FormatCSV:
		return e.exportDelimited(rows, w, ',')
	case FormatTSV:
		return e.exportDelimited(rows, w, '\t')
	case FormatJSON:
		return e.exportJSON(rows, w)
	case FormatJSONL:
		return e.exportJSONL(rows, w)
	case FormatHTML:
		return e.exportHTML(rows, w)
	default:
		return fmt.Errorf("unsupported export format: %v", e.config.Format)
	}
}

// ExportToFile exports boxes to a file
func (e *Exporter) ExportToFile(boxes []model.MergedBox, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}

	if err := e.Export(boxes, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExportToString exports boxes to a string
func (e *Exporter) ExportToString(boxes []model.MergedBox) (string, error) {
	var buf bytes.Buffer
	if err := e.Export(boxes, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// exportDelimited exports rows as CSV or TSV
func (e *Exporter) exportDelimited(rows []Row, w io.Writer, delimiter rune) error {
	out := w
	var bomWriter io.WriteCloser
	if e.config.BOM {
		bomWriter = transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
		out = bomWriter
	}

	csvWriter := csv.NewWriter(out)
	csvWriter.Comma = delimiter

	if e.config.IncludeHeader {
		if err := csvWriter.Write(e.config.header()); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, row := range rows {
		if err := csvWriter.Write(row.cells()); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return err
	}
	if bomWriter != nil {
		return bomWriter.Close()
	}
	return nil
}

// exportJSON exports rows as a JSON array
func (e *Exporter) exportJSON(rows []Row, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if e.config.PrettyPrint {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(rows)
}

// exportJSONL exports rows as JSON Lines
func (e *Exporter) exportJSONL(rows []Row, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)

	for i, row := range rows {
		if err := encoder.Encode(row); err != nil {
			return fmt.Errorf("encoding row %d: %w", i, err)
		}
	}

	return nil
}
