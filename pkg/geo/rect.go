package geo

import "math"

// maxInsetFraction caps an inset at 49% of the shorter side so a rectangle
// keeps at least 2% of its extent on both axes.
const maxInsetFraction = 0.49

// Rect is an axis-aligned rectangle with X0 <= X1 and Y0 <= Y1.
type Rect struct {
	X0 float64 `json:"x0" yaml:"x0"`
	Y0 float64 `json:"y0" yaml:"y0"`
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
}

// R is a shorthand constructor for Rect.
func R(x0, y0, x1, y1 float64) Rect {
	return Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// RectAround returns the rectangle of the given size centred on c.
func RectAround(c Point2D, w, h float64) Rect {
	return Rect{
		X0: c.X - w*0.5,
		Y0: c.Y - h*0.5,
		X1: c.X + w*0.5,
		Y1: c.Y + h*0.5,
	}
}

// Width returns X1 - X0.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns Y1 - Y0.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// MinSide returns the shorter of width and height.
func (r Rect) MinSide() float64 { return math.Min(r.Width(), r.Height()) }

// Centre returns the centre point.
func (r Rect) Centre() Point2D {
	return Point2D{(r.X0 + r.X1) * 0.5, (r.Y0 + r.Y1) * 0.5}
}

// Area returns width * height.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// IsInverted reports whether either axis has its bounds reversed.
func (r Rect) IsInverted() bool {
	return r.X0 > r.X1 || r.Y0 > r.Y1
}

// Normalized returns r with each axis ordered low to high.
func (r Rect) Normalized() Rect {
	if r.X0 > r.X1 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y0 > r.Y1 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// Inset shrinks r by k on every side. k is clamped to
// [0, 0.49*min(width, height)] so the result never flips or collapses.
func (r Rect) Inset(k float64) Rect {
	limit := r.MinSide() * maxInsetFraction
	if limit < 0 {
		limit = 0
	}
	k = math.Max(0, math.Min(k, limit))
	return Rect{
		X0: r.X0 + k,
		Y0: r.Y0 + k,
		X1: r.X1 - k,
		Y1: r.Y1 - k,
	}
}

// Translate returns r shifted by d.
func (r Rect) Translate(d Point2D) Rect {
	return Rect{r.X0 + d.X, r.Y0 + d.Y, r.X1 + d.X, r.Y1 + d.Y}
}

// Overlap returns the area shared by r and o, or 0 when they only touch or
// are disjoint.
func (r Rect) Overlap(o Rect) float64 {
	w := math.Min(r.X1, o.X1) - math.Max(r.X0, o.X0)
	h := math.Min(r.Y1, o.Y1) - math.Max(r.Y0, o.Y0)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Corners returns the four corners counter-clockwise starting at (X0, Y0).
func (r Rect) Corners() Quad {
	return Quad{
		{r.X0, r.Y0},
		{r.X1, r.Y0},
		{r.X1, r.Y1},
		{r.X0, r.Y1},
	}
}
