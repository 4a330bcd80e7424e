// Command textgrid rebuilds text boxes from PDF glyphs and writes them as
// CSV, TSV, JSON, JSON Lines, or an HTML table.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
