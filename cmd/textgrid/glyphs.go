package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/boinit/textgrid"
	"github.com/boinit/textgrid/glyph"
)

type glyphsOptions struct {
	pages string
	out   string
	nfc   bool
}

func newGlyphsCmd() *cobra.Command {
	opts := &glyphsOptions{}

	cmd := &cobra.Command{
		Use:   "glyphs <file.pdf>",
		Short: "Dump glyph records as JSON Lines",
		Long: "Write the deduplicated glyphs of a PDF in reading order, one JSON record per line. " +
			"The output can be fed back to convert.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.pages, "pages", "p", "", "Pages to dump, e.g. 1,3-5 (default all)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&opts.nfc, "nfc", false, "Normalize glyph text to Unicode NFC")

	return cmd
}

func (o *glyphsOptions) run(cmd *cobra.Command, input string) error {
	pages, err := parsePages(o.pages)
	if err != nil {
		return err
	}

	ext := pages.apply(textgrid.Open(input)).WithLogger(log.WithField("input", input))
	if o.nfc {
		ext = ext.NormalizeText()
	}

	glyphs, warnings, err := ext.Glyphs()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		log.WithField("page", w.Page).Warn(w.Message)
	}

	if o.out == "" {
		return glyph.Encode(cmd.OutOrStdout(), glyphs)
	}

	f, err := os.Create(o.out)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := glyph.Encode(f, glyphs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
