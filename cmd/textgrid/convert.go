package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/boinit/textgrid"
	"github.com/boinit/textgrid/export"
	"github.com/boinit/textgrid/layout"
)

type convertOptions struct {
	format        string
	pages         string
	gapMultiplier float64
	minGap        float64
	noColumnMerge bool
	columnOrder   string
	workers       int
	bom           bool
	nfc           bool
	outDir        string
	stdout        bool
	glyphs        bool
}

func newConvertCmd() *cobra.Command {
	defaults := layout.DefaultConfig()
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert [files or globs...]",
		Short: "Export reconstructed text boxes",
		Long: "Reconstruct the text boxes of each input and write them next to the input " +
			"(or into --out-dir) with the extension of the chosen format. " +
			"Arguments may be glob patterns; ** matches any number of directories.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", "csv", "Output format (csv, tsv, json, jsonl, html)")
	flags.StringVarP(&opts.pages, "pages", "p", "", "Pages to process, e.g. 1,3-5 (default all)")
	flags.Float64Var(&opts.gapMultiplier, "gap-multiplier", defaults.GapMultiplier, "Multiplier applied to the mean gap of a line")
	flags.Float64Var(&opts.minGap, "min-gap", defaults.MinGapThreshold, "Smallest gap in points that splits a line")
	flags.BoolVar(&opts.noColumnMerge, "no-column-merge", false, "Do not join vertically stacked single characters")
	flags.StringVar(&opts.columnOrder, "column-order", defaults.ColumnOrder.String(), "Order of stacked characters (top-down, input)")
	flags.IntVarP(&opts.workers, "workers", "w", defaults.Workers, "Pages reconstructed concurrently")
	flags.BoolVar(&opts.bom, "bom", true, "Write a UTF-8 byte order mark (csv and tsv only)")
	flags.BoolVar(&opts.nfc, "nfc", false, "Normalize glyph text to Unicode NFC")
	flags.StringVarP(&opts.outDir, "out-dir", "o", "", "Directory for output files (default next to each input)")
	flags.BoolVar(&opts.stdout, "stdout", false, "Write to standard output instead of files (single input only)")
	flags.BoolVar(&opts.glyphs, "glyphs", false, "Read inputs as glyph record files regardless of extension")

	return cmd
}

func (o *convertOptions) run(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(o.format)
	if err != nil {
		return err
	}
	config := export.ConfigFor(format)
	if format == export.FormatCSV || format == export.FormatTSV {
		config.BOM = o.bom
	}

	order, err := layout.ParseColumnOrder(o.columnOrder)
	if err != nil {
		return err
	}
	pages, err := parsePages(o.pages)
	if err != nil {
		return err
	}

	inputs, err := expandInputs(args)
	if err != nil {
		return err
	}
	// Each export is a complete document with its own header
	if o.stdout && len(inputs) > 1 {
		return fmt.Errorf("--stdout accepts a single input, got %d", len(inputs))
	}

	if o.outDir != "" && !o.stdout {
		if err := os.MkdirAll(o.outDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	for _, input := range inputs {
		logger := log.WithFields(logrus.Fields{
			"input":  input,
			"format": format.String(),
		})

		ext := pages.apply(o.extractor(input)).
			GapMultiplier(o.gapMultiplier).
			MinGapThreshold(o.minGap).
			ColumnOrder(order).
			Workers(o.workers).
			WithLogger(logger)

		if err := o.convert(cmd, ext, input, format, config, logger); err != nil {
			logger.WithError(err).Error("Conversion failed")
			return fmt.Errorf("%s: %w", input, err)
		}
	}

	return nil
}

func (o *convertOptions) extractor(input string) *textgrid.Extractor {
	var ext *textgrid.Extractor
	if o.glyphs {
		ext = textgrid.OpenRecords(input)
	} else {
		ext = textgrid.Open(input)
	}
	if o.noColumnMerge {
		ext = ext.NoColumnMerge()
	}
	if o.nfc {
		ext = ext.NormalizeText()
	}
	return ext
}

func (o *convertOptions) convert(cmd *cobra.Command, ext *textgrid.Extractor, input string, format export.Format, config export.Config, logger *logrus.Entry) error {
	var w io.Writer
	var out *os.File
	target := "stdout"

	if o.stdout {
		w = cmd.OutOrStdout()
	} else {
		target = outputPath(input, o.outDir, format)
		if filepath.Clean(target) == filepath.Clean(input) {
			return fmt.Errorf("output %s would overwrite the input", target)
		}
		f, err := os.Create(target)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		out = f
		w = f
	}

	warnings, err := ext.Export(w, config)
	if out != nil {
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			os.Remove(target)
		}
	}
	if err != nil {
		return err
	}

	for _, warning := range warnings {
		logger.WithField("page", warning.Page).Warn(warning.Message)
	}
	logger.WithField("output", target).Info("Converted")
	return nil
}

// expandInputs resolves glob patterns and keeps plain paths as given.
// A pattern that matches nothing is an error.
func expandInputs(args []string) ([]string, error) {
	var inputs []string
	seen := make(map[string]bool)

	for _, arg := range args {
		if !hasGlobMeta(arg) {
			if !seen[arg] {
				seen[arg] = true
				inputs = append(inputs, arg)
			}
			continue
		}

		matches, err := doublestar.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.IsDir() {
				continue
			}
			if !seen[m] {
				seen[m] = true
				inputs = append(inputs, m)
			}
		}
	}

	return inputs, nil
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// outputPath swaps the input extension for the format's and places the file
// in outDir when set
func outputPath(input, outDir string, format export.Format) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	dir := filepath.Dir(input)
	if outDir != "" {
		dir = outDir
	}
	return filepath.Join(dir, base+format.FileExtension())
}
