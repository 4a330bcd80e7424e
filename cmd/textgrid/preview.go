package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boinit/textgrid"
	"github.com/boinit/textgrid/preview"
)

type previewOptions struct {
	page          int
	out           string
	scale         float64
	noLabels      bool
	noGlyphs      bool
	noColumnMerge bool
	glyphs        bool
}

func newPreviewCmd() *cobra.Command {
	opts := &previewOptions{}

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Render the boxes of one page to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args[0])
		},
	}

	defaults := preview.DefaultOptions()
	cmd.Flags().IntVar(&opts.page, "page", 1, "Page to render")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output PNG (default <input>-p<page>.png)")
	cmd.Flags().Float64Var(&opts.scale, "scale", defaults.Scale, "Pixels per PDF point")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "Do not draw row numbers")
	cmd.Flags().BoolVar(&opts.noGlyphs, "no-glyphs", false, "Do not draw glyph outlines")
	cmd.Flags().BoolVar(&opts.noColumnMerge, "no-column-merge", false, "Do not join vertically stacked single characters")
	cmd.Flags().BoolVar(&opts.glyphs, "glyphs", false, "Read the input as a glyph record file")

	return cmd
}

func (o *previewOptions) run(cmd *cobra.Command, input string) error {
	ext := textgrid.Open(input)
	if o.glyphs {
		ext = textgrid.OpenRecords(input)
	}
	if o.noColumnMerge {
		ext = ext.NoColumnMerge()
	}

	result, _, err := ext.Pages(o.page).WithLogger(log.WithField("input", input)).Reconstruct()
	if err != nil {
		return err
	}
	if len(result.Pages) == 0 {
		return fmt.Errorf("page %d produced no output", o.page)
	}
	pg := result.Pages[0]

	opts := preview.DefaultOptions()
	opts.Scale = o.scale
	opts.Labels = !o.noLabels
	opts.GlyphOutlines = !o.noGlyphs

	target := o.out
	if target == "" {
		target = fmt.Sprintf("%s-p%d.png", strings.TrimSuffix(input, filepath.Ext(input)), o.page)
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	err = preview.WritePNG(f, preview.Page{
		Width:      pg.Width,
		Height:     pg.Height,
		Glyphs:     pg.Glyphs,
		Boxes:      pg.Boxes,
		FirstIndex: pg.FirstIndex,
	}, opts)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(target)
		return err
	}

	log.WithField("output", target).Info("Wrote preview")
	return nil
}
