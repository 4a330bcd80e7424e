package textgrid

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boinit/textgrid/export"
	"github.com/boinit/textgrid/glyph"
	"github.com/boinit/textgrid/layout"
	"github.com/boinit/textgrid/model"
)

// testPDFPath returns the path to a test PDF file
func testPDFPath(filename string) string {
	return filepath.Join("..", "pdf-samples", filename)
}

// documentGlyphs returns two pages: two words and a vertical column on page 1
// (with one glyph drawn twice), and one word on page 2.
func documentGlyphs() []model.Glyph {
	return []model.Glyph{
		model.NewGlyph(2, 50, 500, 56, 510, "H"),
		model.NewGlyph(1, 300, 650, 310, 662, "세"),
		model.NewGlyph(1, 100, 700, 110, 712, "사"),
		model.NewGlyph(1, 111, 700, 121, 712, "과"),
		model.NewGlyph(1, 100, 700, 110, 712, "사"),
		model.NewGlyph(1, 160, 700, 170, 712, "바"),
		model.NewGlyph(1, 171, 700, 181, 712, "나"),
		model.NewGlyph(1, 182, 700, 192, 712, "나"),
		model.NewGlyph(1, 300, 630, 310, 642, "로"),
		model.NewGlyph(1, 300, 610, 310, 622, "쓰"),
		model.NewGlyph(2, 57, 500, 60, 510, "i"),
	}
}

// writeRecords writes glyphs as a JSON Lines record file and returns its path
func writeRecords(t *testing.T, glyphs []model.Glyph) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, glyph.Encode(&buf, glyphs))

	path := filepath.Join(t.TempDir(), "glyphs.jsonl")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func boxTexts(boxes []model.MergedBox) []string {
	texts := make([]string, len(boxes))
	for i, b := range boxes {
		texts[i] = b.Text
	}
	return texts
}

func TestOpen(t *testing.T) {
	// Test with non-existent file
	_, _, err := Open("nonexistent.pdf").Boxes()
	assert.Error(t, err)

	_, _, err = Open("nonexistent.jsonl").Boxes()
	assert.Error(t, err)
}

func TestKindFromFilename(t *testing.T) {
	tests := []struct {
		name string
		want sourceKind
	}{
		{"doc.pdf", sourcePDF},
		{"DOC.PDF", sourcePDF},
		{"glyphs.json", sourceRecords},
		{"glyphs.JSONL", sourceRecords},
		{"glyphs.ndjson", sourceRecords},
		{"no-extension", sourcePDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kindFromFilename(tt.name))
		})
	}
}

func TestBoxesFromRecords(t *testing.T) {
	path := writeRecords(t, documentGlyphs())

	boxes, warnings, err := Open(path).Boxes()
	require.NoError(t, err)

	assert.Equal(t, []string{"사과", "바나나", "세로쓰", "Hi"}, boxTexts(boxes))
	assert.Equal(t, model.MergedBox{
		X0: 300, Y0: 610, X1: 310, Y1: 662, Width: 10, Height: 52, Text: "세로쓰", Page: 1,
	}, boxes[2])

	require.Len(t, warnings, 1)
	assert.Equal(t, WarningDuplicateGlyphs, warnings[0].Code)
	assert.Equal(t, 1, warnings[0].Page)
}

func TestBoxesFromSource(t *testing.T) {
	src := glyph.NewRecordSource(documentGlyphs())

	boxes, _, err := FromSource(src).Boxes()
	require.NoError(t, err)
	assert.Len(t, boxes, 4)

	// FromSource does not close the caller's source, so it can be reused.
	boxes, _, err = FromSource(src).NoColumnMerge().Boxes()
	require.NoError(t, err)
	assert.Equal(t, []string{"사과", "바나나", "세", "로", "쓰", "Hi"}, boxTexts(boxes))
}

func TestPageSelection(t *testing.T) {
	src := glyph.NewRecordSource(documentGlyphs())

	boxes, _, err := FromSource(src).Pages(2).Boxes()
	require.NoError(t, err)
	assert.Equal(t, []string{"Hi"}, boxTexts(boxes))

	boxes, _, err = FromSource(src).Pages(2, 1, 2).Boxes()
	require.NoError(t, err)
	assert.Len(t, boxes, 4)

	boxes, _, err = FromSource(src).PageRange(1, 1).Boxes()
	require.NoError(t, err)
	assert.Equal(t, []string{"사과", "바나나", "세로쓰"}, boxTexts(boxes))
}

func TestInvalidPage(t *testing.T) {
	src := glyph.NewRecordSource(documentGlyphs())

	tests := []struct {
		name string
		ext  *Extractor
	}{
		{"beyond last page", FromSource(src).Pages(3)},
		{"page zero", FromSource(src).Pages(0)},
		{"reversed range", FromSource(src).PageRange(2, 1)},
		{"range past last page", FromSource(src).PageRange(1, 2000000000)},
		{"range starting past last page", FromSource(src).PageRange(5, 6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.ext.Boxes()
			assert.True(t, errors.Is(err, ErrInvalidPage), "got %v", err)
		})
	}
}

func TestEmptyPageWarning(t *testing.T) {
	glyphs := []model.Glyph{
		model.NewGlyph(1, 10, 700, 20, 710, "a"),
		model.NewGlyph(3, 10, 700, 20, 710, "b"),
	}

	boxes, warnings, err := FromSource(glyph.NewRecordSource(glyphs)).Boxes()
	require.NoError(t, err)
	assert.Len(t, boxes, 2)

	require.Len(t, warnings, 1)
	assert.Equal(t, WarningEmptyPage, warnings[0].Code)
	assert.Equal(t, 2, warnings[0].Page)
	assert.Equal(t, "page 2: no glyphs found", FormatWarnings(warnings))
}

func TestEstimatedWidthsWarning(t *testing.T) {
	pages := []model.PageGlyphs{
		{Number: 1, Glyphs: []model.Glyph{model.NewGlyph(1, 10, 700, 20, 710, "a")}},
		{Number: 2, Glyphs: []model.Glyph{model.NewGlyph(2, 10, 700, 20, 710, "b")}, EstimatedWidths: 1},
	}

	warnings := pageWarnings(pages)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarningEstimatedWidths, warnings[0].Code)
	assert.Equal(t, 2, warnings[0].Page)
	assert.Equal(t, "estimated-widths", warnings[0].Code.String())
}

func TestChainIsImmutable(t *testing.T) {
	src := glyph.NewRecordSource(documentGlyphs())
	base := FromSource(src)

	_ = base.NoColumnMerge().Pages(2)

	boxes, _, err := base.Boxes()
	require.NoError(t, err)
	assert.Equal(t, []string{"사과", "바나나", "세로쓰", "Hi"}, boxTexts(boxes))
}

func TestGapSettings(t *testing.T) {
	src := glyph.NewRecordSource(documentGlyphs())

	boxes, _, err := FromSource(src).GapMultiplier(0.05).MinGapThreshold(0.5).Boxes()
	require.NoError(t, err)

	// Every gap on page 1's top baseline and on page 2 now splits.
	assert.Equal(t, []string{"사", "과", "바", "나", "나", "세로쓰", "H", "i"}, boxTexts(boxes))

	_, _, err = FromSource(src).GapMultiplier(-1).Boxes()
	assert.Error(t, err)
}

func TestWorkersDoNotChangeOutput(t *testing.T) {
	src := glyph.NewRecordSource(documentGlyphs())

	sequential, _, err := FromSource(src).Boxes()
	require.NoError(t, err)

	parallel, _, err := FromSource(src).Workers(4).Boxes()
	require.NoError(t, err)

	assert.Equal(t, sequential, parallel)
}

func TestColumnOrder(t *testing.T) {
	glyphs := []model.Glyph{
		model.NewGlyph(1, 300, 610, 310, 622, "쓰"),
		model.NewGlyph(1, 300, 650, 310, 662, "세"),
	}
	src := glyph.NewRecordSource(glyphs)

	boxes, _, err := FromSource(src).Boxes()
	require.NoError(t, err)
	assert.Equal(t, []string{"세쓰"}, boxTexts(boxes))

	boxes, _, err = FromSource(src).ColumnOrder(layout.ColumnOrderInput).Boxes()
	require.NoError(t, err)
	assert.Len(t, boxes, 1)
}

func TestGlyphs(t *testing.T) {
	glyphs, warnings, err := FromSource(glyph.NewRecordSource(documentGlyphs())).Glyphs()
	require.NoError(t, err)
	assert.Len(t, warnings, 1)

	require.Len(t, glyphs, 10)
	assert.Equal(t, "사", glyphs[0].Text)
	assert.Equal(t, "i", glyphs[9].Text)
}

func TestReconstruct(t *testing.T) {
	result, _, err := FromSource(glyph.NewRecordSource(documentGlyphs())).Reconstruct()
	require.NoError(t, err)

	require.Len(t, result.Pages, 2)
	assert.Equal(t, 1, result.Pages[0].Number)
	assert.Equal(t, glyph.DefaultPageWidth, result.Pages[0].Width)
	assert.Len(t, result.Pages[0].Boxes, 3)
	assert.Len(t, result.Pages[0].Glyphs, 8)
	assert.Equal(t, 0, result.Pages[0].FirstIndex)
	assert.Equal(t, 3, result.Pages[1].FirstIndex)

	assert.Equal(t, 11, result.Stats.Glyphs)
	assert.Equal(t, 1, result.Stats.Duplicates)
	assert.Equal(t, 4, result.Stats.Boxes)
}

func TestRowsAndExport(t *testing.T) {
	src := glyph.NewRecordSource(documentGlyphs())

	rows, _, err := FromSource(src).Rows()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, 3, rows[3].No)
	assert.Equal(t, "Hi", rows[3].Text)

	config := export.CSVConfig()
	config.BOM = false

	var buf bytes.Buffer
	_, err = FromSource(src).Export(&buf, config)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "No.,page,text,x0,y0,width,height", lines[0])
	assert.Equal(t, "0,1,사과,100,700,21,12", lines[1])
	assert.Equal(t, "3,2,Hi,50,500,10,10", lines[4])
}

func TestInvalidRecordFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"x0":1,"y0":1,"x1":2,"y1":2,"width":1,"height":1,"text":"ab","page":1}]`), 0o644))

	_, _, err := Open(path).Boxes()
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidGlyphRecord))
}

func TestNormalizeText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jamo.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"x0":1,"y0":1,"x1":2,"y1":2,"width":1,"height":1,"text":"\u1100\u1161","page":1}]`), 0o644))

	_, _, err := Open(path).Boxes()
	assert.Error(t, err)

	boxes, _, err := Open(path).NormalizeText().Boxes()
	require.NoError(t, err)
	assert.Equal(t, []string{"\uac00"}, boxTexts(boxes))
}

func TestWithContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := FromSource(glyph.NewRecordSource(documentGlyphs())).WithContext(ctx).Boxes()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)

	_, _, err := FromSource(glyph.NewRecordSource(documentGlyphs())).
		WithLogger(logrus.NewEntry(logger)).
		Boxes()
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Reconstructed text boxes")
	assert.Contains(t, buf.String(), "boxes=4")
}

func TestMust(t *testing.T) {
	src := glyph.NewRecordSource(documentGlyphs())

	assert.Equal(t, 2, Must(FromSource(src).PageCount()))
	assert.Len(t, MustBoxes(FromSource(src).Boxes()), 4)

	assert.Panics(t, func() {
		MustBoxes(FromSource(src).Pages(9).Boxes())
	})
}

func TestBasicPDFExtraction(t *testing.T) {
	pdfPath := testPDFPath("dinosaurs.pdf")
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		t.Skip("test PDF not found:", pdfPath)
	}

	ext := Open(pdfPath)
	count, err := ext.PageCount()
	require.NoError(t, err)
	require.NoError(t, ext.Close())
	require.Greater(t, count, 0)

	boxes, _, err := Open(pdfPath).Pages(1).Boxes()
	require.NoError(t, err)
	assert.NotEmpty(t, boxes)
	for _, b := range boxes {
		assert.Equal(t, 1, b.Page)
	}
}
