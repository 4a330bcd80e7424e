package layout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/boinit/textgrid/model"
)

// Stats counts what each stage of a reconstruction did
type Stats struct {
	Pages        int // pages processed
	Glyphs       int // glyphs received
	Duplicates   int // glyphs dropped by Deduplicate
	Baselines    int // distinct (page, y0) groups
	Runs         int // runs produced by LineGrouper
	ColumnMerges int // columns built by MergeColumns
	Boxes        int // boxes in the final output
}

func (s *Stats) add(other Stats) {
	s.Pages += other.Pages
	s.Glyphs += other.Glyphs
	s.Duplicates += other.Duplicates
	s.Baselines += other.Baselines
	s.Runs += other.Runs
	s.ColumnMerges += other.ColumnMerges
	s.Boxes += other.Boxes
}

// Fields returns the stats as structured log fields
func (s Stats) Fields() logrus.Fields {
	return logrus.Fields{
		"pages":         s.Pages,
		"glyphs":        s.Glyphs,
		"duplicates":    s.Duplicates,
		"baselines":     s.Baselines,
		"runs":          s.Runs,
		"column_merges": s.ColumnMerges,
		"boxes":         s.Boxes,
	}
}

// Pipeline runs the full reconstruction: deduplicate, sort, group into runs,
// merge runs, merge columns, and sort into final reading order.
type Pipeline struct {
	config  Config
	grouper *LineGrouper
	log     *logrus.Entry
}

// NewPipeline creates a pipeline with default configuration
func NewPipeline() *Pipeline {
	return NewPipelineWithConfig(DefaultConfig())
}

// NewPipelineWithConfig creates a pipeline with custom configuration
func NewPipelineWithConfig(config Config) *Pipeline {
	return &Pipeline{
		config:  config,
		grouper: NewLineGrouperWithConfig(config),
		log:     discardLogger(),
	}
}

// WithLogger returns a copy of the pipeline that logs to entry
func (p *Pipeline) WithLogger(entry *logrus.Entry) *Pipeline {
	clone := *p
	if entry == nil {
		entry = discardLogger()
	}
	clone.log = entry
	return &clone
}

// Config returns the pipeline configuration
func (p *Pipeline) Config() Config {
	return p.config
}

func discardLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

// Reconstruct validates glyphs, splits them by page, and reconstructs every
// page. The returned boxes are in reading order across the whole document.
//
// A glyph failing validation aborts the call with an error wrapping
// model.ErrInvalidGlyphRecord; nothing is partially processed.
func (p *Pipeline) Reconstruct(ctx context.Context, glyphs []model.Glyph) ([]model.MergedBox, Stats, error) {
	if err := p.config.Validate(); err != nil {
		return nil, Stats{}, fmt.Errorf("layout config: %w", err)
	}
	if err := ValidateGlyphs(glyphs); err != nil {
		return nil, Stats{}, err
	}

	return p.reconstructPages(ctx, splitPages(glyphs))
}

// ReconstructPages reconstructs pre-split pages. Each page's glyphs must carry
// that page's number.
func (p *Pipeline) ReconstructPages(ctx context.Context, pages []model.PageGlyphs) ([]model.MergedBox, Stats, error) {
	if err := p.config.Validate(); err != nil {
		return nil, Stats{}, fmt.Errorf("layout config: %w", err)
	}

	split := make([][]model.Glyph, 0, len(pages))
	for _, pg := range pages {
		for i, g := range pg.Glyphs {
			if err := g.Validate(); err != nil {
				return nil, Stats{}, fmt.Errorf("page %d: %w", pg.Number, withIndex(err, i))
			}
			if g.Page != pg.Number {
				return nil, Stats{}, fmt.Errorf("page %d: %w", pg.Number, &model.RecordError{
					Index:  i,
					Field:  "page",
					Reason: fmt.Sprintf("glyph belongs to page %d", g.Page),
				})
			}
		}
		split = append(split, pg.Glyphs)
	}

	return p.reconstructPages(ctx, split)
}

func (p *Pipeline) reconstructPages(ctx context.Context, pages [][]model.Glyph) ([]model.MergedBox, Stats, error) {
	results := make([][]model.MergedBox, len(pages))
	pageStats := make([]Stats, len(pages))

	workers := p.config.Workers
	if workers <= 1 || len(pages) <= 1 {
		for i, glyphs := range pages {
			if err := ctx.Err(); err != nil {
				return nil, Stats{}, err
			}
			results[i], pageStats[i] = p.reconstructPage(glyphs)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i, glyphs := range pages {
			i, glyphs := i, glyphs
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i], pageStats[i] = p.reconstructPage(glyphs)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, Stats{}, err
		}
	}

	var stats Stats
	var combined []model.MergedBox
	for i := range results {
		stats.add(pageStats[i])
		combined = append(combined, results[i]...)
	}

	// Step 7: final reading order over everything
	final := SortBoxes(combined)
	stats.Boxes = len(final)

	p.log.WithFields(stats.Fields()).Debug("Layout reconstruction complete")
	return final, stats, nil
}

// reconstructPage runs steps 2 to 6 on one page worth of glyphs
func (p *Pipeline) reconstructPage(glyphs []model.Glyph) ([]model.MergedBox, Stats) {
	stats := Stats{Pages: 1, Glyphs: len(glyphs)}
	if len(glyphs) == 0 {
		return nil, stats
	}

	// Step 2: drop glyphs drawn twice
	unique := Deduplicate(glyphs)
	stats.Duplicates = len(glyphs) - len(unique)

	// Step 3: canonical raw order
	sorted := SortGlyphs(unique)

	// Step 4: baseline groups split into runs
	groups := GroupByBaseline(sorted)
	stats.Baselines = len(groups)
	var runs []Run
	for _, group := range groups {
		runs = append(runs, p.grouper.Split(group.Glyphs)...)
	}
	stats.Runs = len(runs)

	// Step 5: one box per run, top to bottom
	boxes := SortBoxes(MergeRuns(runs))

	// Step 6: vertical stacks of single characters
	if p.config.ColumnMerge {
		stats.ColumnMerges = countColumns(boxes)
		boxes = MergeColumns(boxes, p.config.ColumnOrder)
	}
	stats.Boxes = len(boxes)

	p.log.WithFields(logrus.Fields{
		"page":       glyphs[0].Page,
		"glyphs":     stats.Glyphs,
		"duplicates": stats.Duplicates,
		"runs":       stats.Runs,
		"boxes":      stats.Boxes,
	}).Debug("Reconstructed page")

	return boxes, stats
}

// countColumns returns how many columns MergeColumns will build from boxes
func countColumns(boxes []model.MergedBox) int {
	counts := make(map[ColumnKey]int)
	for _, b := range boxes {
		if b.IsSingleChar() {
			counts[ColumnKey{Page: b.Page, X0: b.X0}]++
		}
	}
	columns := 0
	for _, c := range counts {
		if c > 1 {
			columns++
		}
	}
	return columns
}

// ValidateGlyphs checks every glyph and returns the first failure with its
// index filled in
func ValidateGlyphs(glyphs []model.Glyph) error {
	for i, g := range glyphs {
		if err := g.Validate(); err != nil {
			return withIndex(err, i)
		}
	}
	return nil
}

func withIndex(err error, index int) error {
	var recErr *model.RecordError
	if errors.As(err, &recErr) {
		copied := *recErr
		copied.Index = index
		return &copied
	}
	return err
}

// splitPages groups glyphs by page number in ascending page order,
// preserving input order within a page
func splitPages(glyphs []model.Glyph) [][]model.Glyph {
	byPage := make(map[int][]model.Glyph)
	for _, g := range glyphs {
		byPage[g.Page] = append(byPage[g.Page], g)
	}

	numbers := make([]int, 0, len(byPage))
	for n := range byPage {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	pages := make([][]model.Glyph, len(numbers))
	for i, n := range numbers {
		pages[i] = byPage[n]
	}
	return pages
}
