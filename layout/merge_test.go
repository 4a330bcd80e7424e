package layout

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boinit/textgrid/model"
)

func TestMergeRun_BoundingBox(t *testing.T) {
	run := Run{
		makeGlyph(1, "사", 100, 700, 110, 712),
		makeGlyph(1, "과", 111, 700, 121, 713),
	}

	got := MergeRun(run)

	assert.Equal(t, makeBox(1, "사과", 100, 700, 121, 713), got)
	assert.Equal(t, 21.0, got.Width)
	assert.Equal(t, 13.0, got.Height)
}

func TestMergeRun_RectIsUnionOfGlyphs(t *testing.T) {
	run := Run{
		makeGlyph(1, "a", 10, 50, 16, 58),
		makeGlyph(1, "b", 16, 50, 22, 61),
		makeGlyph(1, "c", 22, 50, 27, 59),
	}

	want := run[0].Rect()
	for _, g := range run[1:] {
		want = want.Union(g.Rect())
	}

	got := MergeRun(run)
	assert.Equal(t, want, got.Rect())
	assert.Equal(t, want.Width(), got.Width)
	assert.Equal(t, want.Height(), got.Height)
}

func TestMergeRun_SingleGlyphUnchanged(t *testing.T) {
	g := makeGlyph(3, "x", 5, 10, 9, 22)
	g.Width = 4.0000001 // values from the source are carried as given

	got := MergeRun(Run{g})
	assert.Equal(t, model.BoxFromGlyph(g), got)
}

func TestMergeRun_OverlappingGlyphs(t *testing.T) {
	// the widest extent wins even when a later glyph ends before an earlier one
	run := Run{
		makeGlyph(1, "W", 0, 0, 12, 10),
		makeGlyph(1, "'", 8, 0, 10, 10),
	}

	got := MergeRun(run)
	assert.Equal(t, 0.0, got.X0)
	assert.Equal(t, 12.0, got.X1)
	assert.Equal(t, "W'", got.Text)
}

func TestMergeRuns_TextFollowsAscendingX(t *testing.T) {
	glyphs := []model.Glyph{
		makeGlyph(1, "d", 30, 0, 35, 10),
		makeGlyph(1, "b", 10, 0, 15, 10),
		makeGlyph(1, "a", 5, 0, 10, 10),
		makeGlyph(1, "c", 20, 0, 25, 10),
	}

	runs := NewLineGrouper().Split(glyphs)
	boxes := MergeRuns(runs)
	require.Len(t, boxes, 1)

	sorted := make([]model.Glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X0 < sorted[j].X0 })
	var want strings.Builder
	for _, g := range sorted {
		want.WriteString(g.Text)
	}

	assert.Equal(t, want.String(), boxes[0].Text)
	assert.Equal(t, "abcd", boxes[0].Text)
}

func TestMergeRuns_SkipsEmptyRuns(t *testing.T) {
	runs := []Run{nil, {makeGlyph(1, "a", 0, 0, 1, 1)}}
	assert.Equal(t, []string{"a"}, boxTexts(MergeRuns(runs)))
	assert.Nil(t, MergeRuns(nil))
}
