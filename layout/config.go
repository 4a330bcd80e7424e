package layout

import (
	"fmt"
	"strings"
)

// ColumnOrder selects how MergeColumns orders characters within a column
type ColumnOrder int

const (
	// ColumnOrderTopDown sorts each column by descending y0 before joining,
	// so the top character always comes first
	ColumnOrderTopDown ColumnOrder = iota

	// ColumnOrderInput joins characters in the order they arrive
	ColumnOrderInput
)

// String returns a string representation of the column order
func (o ColumnOrder) String() string {
	switch o {
	case ColumnOrderTopDown:
		return "top-down"
	case ColumnOrderInput:
		return "input"
	default:
		return "unknown"
	}
}

// ParseColumnOrder converts a name produced by String back to a ColumnOrder
func ParseColumnOrder(s string) (ColumnOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top-down", "topdown", "":
		return ColumnOrderTopDown, nil
	case "input":
		return ColumnOrderInput, nil
	default:
		return ColumnOrderTopDown, fmt.Errorf("unknown column order %q", s)
	}
}

// Config holds configuration for layout reconstruction
type Config struct {
	// GapMultiplier scales the mean gap of a baseline group (default: 1.5)
	GapMultiplier float64

	// MinGapThreshold is the floor of the split threshold in PDF units (default: 10)
	MinGapThreshold float64

	// ColumnMerge enables the vertical single-character merge pass (default: true)
	ColumnMerge bool

	// ColumnOrder controls text order inside merged columns (default: top-down)
	ColumnOrder ColumnOrder

	// Workers is the number of pages processed concurrently (default: 1)
	Workers int
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		GapMultiplier:   1.5,
		MinGapThreshold: 10.0,
		ColumnMerge:     true,
		ColumnOrder:     ColumnOrderTopDown,
		Workers:         1,
	}
}

// Validate reports configuration values the pipeline cannot work with
func (c Config) Validate() error {
	if c.GapMultiplier < 0 {
		return fmt.Errorf("gap multiplier must not be negative, got %g", c.GapMultiplier)
	}
	if c.MinGapThreshold < 0 {
		return fmt.Errorf("minimum gap threshold must not be negative, got %g", c.MinGapThreshold)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.ColumnOrder != ColumnOrderTopDown && c.ColumnOrder != ColumnOrderInput {
		return fmt.Errorf("unknown column order %d", int(c.ColumnOrder))
	}
	return nil
}
