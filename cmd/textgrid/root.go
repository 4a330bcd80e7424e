package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

type rootOptions struct {
	logLevel string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "textgrid",
		Short: "Rebuild text boxes from PDF glyph positions",
		Long: "textgrid reads the character boxes of a PDF (or a glyph record file), " +
			"joins them into words and vertical columns, and exports one row per box.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.configureLogging(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Shorthand for --log-level=debug")

	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newGlyphsCmd())
	cmd.AddCommand(newPreviewCmd())

	return cmd
}

func (o *rootOptions) configureLogging(cmd *cobra.Command) error {
	level, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	if o.verbose {
		level = logrus.DebugLevel
	}

	log.SetOutput(cmd.ErrOrStderr())
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return nil
}
