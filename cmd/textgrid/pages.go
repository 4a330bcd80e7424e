package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/boinit/textgrid"
)

// pageRange is an inclusive range of 1-based page numbers
type pageRange struct {
	start, end int
}

// pageSelection is a parsed --pages value. Ranges stay unexpanded; the
// extractor checks them against the page count.
type pageSelection []pageRange

// apply adds every range to the extractor's page selection
func (s pageSelection) apply(ext *textgrid.Extractor) *textgrid.Extractor {
	for _, r := range s {
		ext = ext.PageRange(r.start, r.end)
	}
	return ext
}

// parsePages parses a page selection such as "1,3-5,9".
// An empty string selects every page.
func parsePages(selection string) (pageSelection, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return nil, nil
	}

	var pages pageSelection
	for _, part := range strings.Split(selection, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid page %q", part)
		}
		end := start
		if isRange {
			end, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
		}
		if start < 1 || end < start {
			return nil, fmt.Errorf("invalid page range %q", part)
		}

		pages = append(pages, pageRange{start: start, end: end})
	}

	return pages, nil
}
