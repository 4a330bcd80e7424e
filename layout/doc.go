// Package layout reconstructs words and lines from per-glyph bounding boxes.
//
// The input is a flat list of [model.Glyph] records, typically one page or one
// document at a time. The output is a list of [model.MergedBox] values in
// reading order: top to bottom, then left to right.
//
// # Pipeline
//
// [Pipeline.Reconstruct] runs every stage in order:
//
//	pipeline := layout.NewPipeline()
//	boxes, stats, err := pipeline.Reconstruct(ctx, glyphs)
//
// The stages are also exported so they can be used and tested on their own:
//
//   - [Deduplicate] - drops glyphs rendered twice at the same place
//   - [SortGlyphs] - canonical (page, top-to-bottom, left-to-right) order
//   - [GroupByBaseline] - partitions glyphs by (page, y0)
//   - [LineGrouper] - splits each baseline group into runs at wide gaps
//   - [MergeRun] - collapses a run into one box
//   - [MergeColumns] - joins vertical stacks of single-character boxes
//   - [SortBoxes] - final reading order
//
// # Gap Threshold
//
// Within one baseline, a new run starts wherever the gap between neighbouring
// glyphs exceeds
//
//	max(mean(gaps) * GapMultiplier, MinGapThreshold)
//
// With the defaults (1.5 and 10) small uniform spacing never splits a word,
// while clearly separated tokens on the same baseline become separate boxes.
//
// # Configuration
//
//	config := layout.DefaultConfig()
//	config.MinGapThreshold = 6
//	config.Workers = 4
//	pipeline := layout.NewPipelineWithConfig(config)
//
// Every stage is a pure function of its input; the pipeline may process pages
// in parallel and still produces identical output for any worker count.
package layout
