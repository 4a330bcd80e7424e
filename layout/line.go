package layout

import (
	"math"
	"sort"

	"github.com/boinit/textgrid/model"
)

// BaselineKey identifies glyphs that share a page and an exact y0
type BaselineKey struct {
	Page int
	Y0   float64
}

// BaselineGroup is the set of glyphs sitting on one baseline of one page
type BaselineGroup struct {
	Key    BaselineKey
	Glyphs []model.Glyph
}

// Run is a left-to-right sequence of glyphs on one baseline with no gap
// wider than the group's threshold. A run becomes one merged box.
type Run []model.Glyph

// GroupByBaseline partitions glyphs by (page, y0). Groups are returned in the
// order their first member appears in the input, and members keep their
// relative input order.
func GroupByBaseline(glyphs []model.Glyph) []BaselineGroup {
	if len(glyphs) == 0 {
		return nil
	}

	index := make(map[BaselineKey]int)
	var groups []BaselineGroup
	for _, g := range glyphs {
		key := BaselineKey{Page: g.Page, Y0: g.Y0}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, BaselineGroup{Key: key})
		}
		groups[i].Glyphs = append(groups[i].Glyphs, g)
	}

	return groups
}

// Gaps returns the horizontal gap before every glyph after the first:
// gaps[i-1] = glyphs[i].X0 - glyphs[i-1].X1. Glyphs must already be sorted
// by X0. Overlapping glyphs produce negative gaps.
func Gaps(glyphs []model.Glyph) []float64 {
	if len(glyphs) < 2 {
		return nil
	}

	gaps := make([]float64, len(glyphs)-1)
	for i := 1; i < len(glyphs); i++ {
		gaps[i-1] = glyphs[i].X0 - glyphs[i-1].X1
	}
	return gaps
}

// MeanGap returns the mean of gaps, or 0 when there are fewer than two gaps
func MeanGap(gaps []float64) float64 {
	if len(gaps) < 2 {
		return 0
	}

	total := 0.0
	for _, g := range gaps {
		total += g
	}
	return total / float64(len(gaps))
}

// LineGrouper splits baseline groups into runs
type LineGrouper struct {
	config Config
}

// NewLineGrouper creates a line grouper with default configuration
func NewLineGrouper() *LineGrouper {
	return &LineGrouper{
		config: DefaultConfig(),
	}
}

// NewLineGrouperWithConfig creates a line grouper with custom configuration
func NewLineGrouperWithConfig(config Config) *LineGrouper {
	return &LineGrouper{
		config: config,
	}
}

// Threshold returns the split threshold for a group with the given gaps:
// max(MeanGap(gaps) * GapMultiplier, MinGapThreshold)
func (lg *LineGrouper) Threshold(gaps []float64) float64 {
	return math.Max(MeanGap(gaps)*lg.config.GapMultiplier, lg.config.MinGapThreshold)
}

// Split divides one baseline group into runs. The glyphs are ordered by x0
// (stable, so equal x0 keeps input order) and a new run starts wherever the
// gap to the previous glyph is strictly greater than the threshold.
// A single glyph is returned as a singleton run.
func (lg *LineGrouper) Split(glyphs []model.Glyph) []Run {
	switch len(glyphs) {
	case 0:
		return nil
	case 1:
		return []Run{{glyphs[0]}}
	}

	sorted := make([]model.Glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X0 < sorted[j].X0
	})

	gaps := Gaps(sorted)
	threshold := lg.Threshold(gaps)

	var runs []Run
	start := 0
	for i := 1; i < len(sorted); i++ {
		if gaps[i-1] > threshold {
			runs = append(runs, Run(sorted[start:i:i]))
			start = i
		}
	}
	runs = append(runs, Run(sorted[start:]))

	return runs
}

// Group partitions glyphs by baseline and splits every group into runs.
// Runs are returned group by group in baseline first-appearance order, and
// left to right within a group.
func (lg *LineGrouper) Group(glyphs []model.Glyph) []Run {
	var runs []Run
	for _, group := range GroupByBaseline(glyphs) {
		runs = append(runs, lg.Split(group.Glyphs)...)
	}
	return runs
}
