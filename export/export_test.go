package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/boinit/textgrid/model"
)

func sampleBoxes() []model.MergedBox {
	return []model.MergedBox{
		{X0: 100, Y0: 700, X1: 121, Y1: 712, Width: 21, Height: 12, Text: "사과", Page: 1},
		{X0: 160, Y0: 700, X1: 192, Y1: 712, Width: 32, Height: 12, Text: "바나나", Page: 1},
		{X0: 50.5, Y0: 500, X1: 60.25, Y1: 510, Width: 9.75, Height: 10, Text: `a,"b"`, Page: 2},
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		format Format
		name   string
		ext    string
	}{
		{FormatCSV, "csv", ".csv"},
		{FormatTSV, "tsv", ".tsv"},
		{FormatJSON, "json", ".json"},
		{FormatJSONL, "jsonl", ".jsonl"},
		{FormatHTML, "html", ".html"},
		{Format(99), "unknown", ".txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.format.String())
			assert.Equal(t, tt.ext, tt.format.FileExtension())
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{".tsv", FormatTSV, false},
		{"json", FormatJSON, false},
		{"ndjson", FormatJSONL, false},
		{"jsonl", FormatJSONL, false},
		{"htm", FormatHTML, false},
		{"xml", FormatCSV, true},
		{"", FormatCSV, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRowsFromBoxes(t *testing.T) {
	rows := RowsFromBoxes(sampleBoxes())
	require.Len(t, rows, 3)
	for i, row := range rows {
		assert.Equal(t, i, row.No)
	}
	assert.Equal(t, Row{No: 1, Page: 1, Text: "바나나", X0: 160, Y0: 700, Width: 32, Height: 12}, rows[1])
	assert.Empty(t, RowsFromBoxes(nil))
}

func TestExportCSV(t *testing.T) {
	out, err := NewExporter().ExportToString(sampleBoxes())
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(out, "\ufeff"), "missing byte order mark")
	out = strings.TrimPrefix(out, "\ufeff")

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"No.", "page", "text", "x0", "y0", "width", "height"}, records[0])
	assert.Equal(t, []string{"0", "1", "사과", "100", "700", "21", "12"}, records[1])
	assert.Equal(t, []string{"2", "2", `a,"b"`, "50.5", "500", "9.75", "10"}, records[3])
}

func TestExportCSVNoBOMNoHeader(t *testing.T) {
	config := CSVConfig()
	config.BOM = false
	config.IncludeHeader = false

	out, err := NewExporterWithConfig(config).ExportToString(sampleBoxes()[:1])
	require.NoError(t, err)
	assert.Equal(t, "0,1,사과,100,700,21,12\n", out)
}

func TestExportTSV(t *testing.T) {
	config := TSVConfig()
	config.BOM = false

	out, err := NewExporterWithConfig(config).ExportToString(sampleBoxes()[:2])
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "No.\tpage\ttext\tx0\ty0\twidth\theight", lines[0])
	assert.Equal(t, "1\t1\t바나나\t160\t700\t32\t12", lines[2])
}

func TestExportJSON(t *testing.T) {
	out, err := NewExporterWithConfig(JSONConfig()).ExportToString(sampleBoxes())
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(out, "\ufeff"))

	var rows []Row
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Equal(t, RowsFromBoxes(sampleBoxes()), rows)
}

func TestExportJSONL(t *testing.T) {
	out, err := NewExporterWithConfig(JSONLConfig()).ExportToString(sampleBoxes())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)

	var row Row
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &row))
	assert.Equal(t, 2, row.No)
	assert.Equal(t, `a,"b"`, row.Text)
}

func TestExportHTML(t *testing.T) {
	boxes := append(sampleBoxes(), model.MergedBox{Text: "<b>", Page: 3, Width: 1, Height: 1, X1: 1, Y1: 1})
	out, err := NewExporterWithConfig(HTMLConfig()).ExportToString(boxes)
	require.NoError(t, err)

	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "&lt;b&gt;")

	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)

	var headers, rows int
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "th":
				headers++
			case "tr":
				for _, a := range n.Attr {
					if a.Key == "data-page" {
						rows++
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	assert.Equal(t, 7, headers)
	assert.Equal(t, 4, rows)
}

func TestExportUnsupportedFormat(t *testing.T) {
	config := DefaultConfig()
	config.Format = Format(42)

	var buf bytes.Buffer
	err := NewExporterWithConfig(config).Export(sampleBoxes(), &buf)
	assert.Error(t, err)
}

func TestExportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxes"+FormatJSONL.FileExtension())

	err := NewExporterWithConfig(JSONLConfig()).ExportToFile(sampleBoxes(), path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "\n"))
}

func TestConfigFor(t *testing.T) {
	for _, f := range []Format{FormatCSV, FormatTSV, FormatJSON, FormatJSONL, FormatHTML} {
		assert.Equal(t, f, ConfigFor(f).Format)
	}
	assert.True(t, ConfigFor(FormatCSV).BOM)
	assert.False(t, ConfigFor(FormatJSON).BOM)
}
