package model

import "math"

// Rect is an axis-aligned rectangle stored by its corner coordinates.
// Y0 is the bottom edge and Y1 the top edge (PDF coordinate system).
// Every edge of a union is exactly the matching edge of one of its inputs.
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
}

// NewRect creates a rectangle from two opposite corners in any order
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// Width returns X1 - X0
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns Y1 - Y0
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// Union returns the smallest rectangle containing both rectangles
func (r Rect) Union(other Rect) Rect {
	return Rect{
		X0: math.Min(r.X0, other.X0),
		Y0: math.Min(r.Y0, other.Y0),
		X1: math.Max(r.X1, other.X1),
		Y1: math.Max(r.Y1, other.Y1),
	}
}

// IsFinite reports whether every coordinate is a finite number
func (r Rect) IsFinite() bool {
	for _, v := range [...]float64{r.X0, r.Y0, r.X1, r.Y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
