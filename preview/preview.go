// Package preview draws reconstructed boxes onto a PNG so that grouping
// decisions can be checked by eye.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/boinit/textgrid/model"
)

// Options controls the rendered image
type Options struct {
	// Scale is the number of pixels per PDF point
	Scale float64

	// Labels draws the row number of each box at its top-left corner
	Labels bool

	// GlyphOutlines draws the source glyph rectangles under the boxes
	GlyphOutlines bool

	Background color.Color
	BoxColor   color.Color
	GlyphColor color.Color
	LabelColor color.Color
}

// DefaultOptions returns options for a 2x render with labels
func DefaultOptions() Options {
	return Options{
		Scale:         2,
		Labels:        true,
		GlyphOutlines: true,
		Background:    color.White,
		BoxColor:      color.RGBA{R: 0xd0, G: 0x20, B: 0x20, A: 0xff},
		GlyphColor:    color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff},
		LabelColor:    color.RGBA{R: 0x20, G: 0x40, B: 0xc0, A: 0xff},
	}
}

// Page is the input for one rendered page
type Page struct {
	Width  float64
	Height float64
	Glyphs []model.Glyph
	Boxes  []model.MergedBox

	// FirstIndex is the row number of Boxes[0] in the full export
	FirstIndex int
}

// Render draws the page. PDF coordinates have the origin at the bottom left,
// so y is flipped.
func Render(page Page, opts Options) (*image.RGBA, error) {
	if opts.Scale <= 0 || math.IsNaN(opts.Scale) || math.IsInf(opts.Scale, 0) {
		return nil, fmt.Errorf("invalid preview scale %v", opts.Scale)
	}
	if page.Width <= 0 || page.Height <= 0 {
		return nil, fmt.Errorf("invalid page size %vx%v", page.Width, page.Height)
	}

	w := int(math.Ceil(page.Width * opts.Scale))
	h := int(math.Ceil(page.Height * opts.Scale))
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	bg := opts.Background
	if bg == nil {
		bg = color.White
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	c := canvas{img: img, scale: opts.Scale, pageHeight: page.Height}

	if opts.GlyphOutlines && opts.GlyphColor != nil {
		for _, g := range page.Glyphs {
			c.outline(g.Rect(), opts.GlyphColor)
		}
	}

	if opts.BoxColor != nil {
		for _, b := range page.Boxes {
			c.outline(b.Rect(), opts.BoxColor)
		}
	}

	if opts.Labels && opts.LabelColor != nil {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(opts.LabelColor),
			Face: basicfont.Face7x13,
		}
		for i, b := range page.Boxes {
			r := c.pixelRect(b.Rect())
			// Label baseline sits just above the box.
			d.Dot = fixed.P(r.Min.X, r.Min.Y-2)
			d.DrawString(strconv.Itoa(page.FirstIndex + i))
		}
	}

	return img, nil
}

// WritePNG renders the page and encodes it to w
func WritePNG(w io.Writer, page Page, opts Options) error {
	img, err := Render(page, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding preview: %w", err)
	}
	return nil
}

type canvas struct {
	img        *image.RGBA
	scale      float64
	pageHeight float64
}

// pixelRect converts r to pixels. Coordinates are clamped to one pixel
// beyond the image so far off-page rectangles stay small.
func (c canvas) pixelRect(r model.Rect) image.Rectangle {
	b := c.img.Bounds()
	return image.Rect(
		clampPixel(math.Floor(r.X0*c.scale), b.Min.X, b.Max.X),
		clampPixel(math.Floor((c.pageHeight-r.Y1)*c.scale), b.Min.Y, b.Max.Y),
		clampPixel(math.Ceil(r.X1*c.scale), b.Min.X, b.Max.X),
		clampPixel(math.Ceil((c.pageHeight-r.Y0)*c.scale), b.Min.Y, b.Max.Y),
	)
}

func clampPixel(v float64, lo, hi int) int {
	switch {
	case math.IsNaN(v):
		return lo - 1
	case v < float64(lo-1):
		return lo - 1
	case v > float64(hi+1):
		return hi + 1
	}
	return int(v)
}

// outline draws a one pixel border, clipped to the image
func (c canvas) outline(r model.Rect, col color.Color) {
	p := c.pixelRect(r)
	if p.Dx() == 0 {
		p.Max.X++
	}
	if p.Dy() == 0 {
		p.Max.Y++
	}
	b := c.img.Bounds()
	visible := p.Intersect(b)
	if visible.Empty() {
		return
	}

	for x := visible.Min.X; x < visible.Max.X; x++ {
		c.set(b, x, p.Min.Y, col)
		c.set(b, x, p.Max.Y-1, col)
	}
	for y := visible.Min.Y; y < visible.Max.Y; y++ {
		c.set(b, p.Min.X, y, col)
		c.set(b, p.Max.X-1, y, col)
	}
}

func (c canvas) set(b image.Rectangle, x, y int, col color.Color) {
	if image.Pt(x, y).In(b) {
		c.img.Set(x, y, col)
	}
}
