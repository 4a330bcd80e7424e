package glyph

import "strings"

// missingWidth is the advance used for characters a table does not cover
const missingWidth = 500

// metrics holds advance widths in 1/1000 em for printable ASCII (32-126).
// A zero entry is unknown and measures missingWidth.
type metrics [95]int

// width returns the advance of r in 1/1000 em
func (m *metrics) width(r rune) float64 {
	if r >= 32 && r <= 126 && m[r-32] > 0 {
		return float64(m[r-32])
	}
	return missingWidth
}

// fixedMetrics gives every printable ASCII character the same advance
func fixedMetrics(w int) *metrics {
	var m metrics
	for i := range m {
		m[i] = w
	}
	return &m
}

// letterMetrics covers the space and the Latin letters only
func letterMetrics(space int, upper, lower [26]int) *metrics {
	var m metrics
	m[0] = space
	copy(m['A'-32:], upper[:])
	copy(m['a'-32:], lower[:])
	return &m
}

var helveticaMetrics = &metrics{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556,
	1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556,
	333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556,
	556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584,
}

var helveticaBoldMetrics = letterMetrics(278,
	[26]int{722, 722, 722, 722, 667, 611, 778, 722, 278, 556, 722, 611, 833, 722, 778, 667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611},
	[26]int{556, 611, 556, 611, 556, 333, 611, 611, 278, 278, 556, 278, 889, 611, 611, 611, 611, 389, 556, 333, 611, 556, 778, 556, 556, 500},
)

var timesMetrics = letterMetrics(250,
	[26]int{722, 667, 667, 722, 611, 556, 722, 722, 333, 389, 722, 611, 889, 722, 722, 556, 722, 667, 556, 611, 722, 722, 944, 722, 722, 611},
	[26]int{444, 500, 444, 500, 444, 333, 500, 500, 278, 278, 500, 278, 778, 500, 500, 500, 500, 333, 389, 278, 500, 500, 722, 500, 500, 444},
)

var timesBoldMetrics = letterMetrics(250,
	[26]int{722, 667, 722, 722, 667, 611, 778, 778, 389, 500, 778, 667, 944, 722, 778, 611, 778, 722, 556, 667, 722, 722, 1000, 722, 722, 667},
	[26]int{500, 556, 444, 556, 444, 333, 500, 556, 278, 333, 556, 278, 833, 556, 500, 556, 556, 444, 389, 333, 556, 500, 722, 500, 500, 444},
)

var (
	courierMetrics = fixedMetrics(600)
	symbolMetrics  = fixedMetrics(500)
)

// standardFonts maps the base names of the 14 standard PDF fonts to their
// metrics. PDFs may use these fonts without a /Widths array.
var standardFonts = map[string]*metrics{
	"Helvetica":             helveticaMetrics,
	"Helvetica-Bold":        helveticaBoldMetrics,
	"Helvetica-Oblique":     helveticaMetrics,
	"Helvetica-BoldOblique": helveticaBoldMetrics,
	"Times-Roman":           timesMetrics,
	"Times-Bold":            timesBoldMetrics,
	"Times-Italic":          timesMetrics,
	"Times-BoldItalic":      timesBoldMetrics,
	"Courier":               courierMetrics,
	"Courier-Bold":          courierMetrics,
	"Courier-Oblique":       courierMetrics,
	"Courier-BoldOblique":   courierMetrics,
	"Symbol":                symbolMetrics,
	"ZapfDingbats":          symbolMetrics,
}

// baseFontName strips the leading slash and a subset tag such as "ABCDEF+"
func baseFontName(name string) string {
	name = strings.TrimPrefix(name, "/")
	if len(name) > 7 && name[6] == '+' && strings.ToUpper(name[:6]) == name[:6] {
		name = name[7:]
	}
	return name
}

// lookupMetrics returns the metrics of a standard font. Any other font
// measures with Helvetica and reports false.
func lookupMetrics(font string) (*metrics, bool) {
	if m, ok := standardFonts[baseFontName(font)]; ok {
		return m, true
	}
	return helveticaMetrics, false
}
