package geo

import "math"

// Quad is a four-cornered base outline in winding order.
type Quad [4]Point2D

// SignedArea returns the signed area using the shoelace formula.
// Positive for counterclockwise winding, negative for clockwise.
func (q Quad) SignedArea() float64 {
	area := 0.0
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		area += q[i].X * q[j].Y
		area -= q[j].X * q[i].Y
	}
	return area / 2
}

// Area returns the unsigned area of the quad.
func (q Quad) Area() float64 {
	return math.Abs(q.SignedArea())
}

// IsCounterClockwise returns true if corners are in CCW order.
func (q Quad) IsCounterClockwise() bool {
	return q.SignedArea() > 0
}

// EnsureCCW returns the quad with corners in counterclockwise order.
// The first corner is kept in place.
func (q Quad) EnsureCCW() Quad {
	if q.SignedArea() < 0 {
		return q.Reverse()
	}
	return q
}

// Reverse returns the quad with reversed winding, keeping the first corner.
func (q Quad) Reverse() Quad {
	return Quad{q[0], q[3], q[2], q[1]}
}

// Centroid returns the average of the four corners.
func (q Quad) Centroid() Point2D {
	sum := Point2D{}
	for _, v := range q {
		sum = sum.Add(v)
	}
	return sum.Scale(0.25)
}

// Edge returns the i-th edge as (start, end). Wraps around.
func (q Quad) Edge(i int) (Point2D, Point2D) {
	return q[i%4], q[(i+1)%4]
}

// BoundingBox returns the axis-aligned bounds of the quad.
func (q Quad) BoundingBox() Rect {
	r := Rect{X0: q[0].X, Y0: q[0].Y, X1: q[0].X, Y1: q[0].Y}
	for _, v := range q[1:] {
		r.X0 = math.Min(r.X0, v.X)
		r.Y0 = math.Min(r.Y0, v.Y)
		r.X1 = math.Max(r.X1, v.X)
		r.Y1 = math.Max(r.Y1, v.Y)
	}
	return r
}

// Strip returns the quad covering a centreline from a to b with the given
// half-width, counter-clockwise starting on the left side of a. The result is
// degenerate when a and b coincide.
func Strip(a, b Point2D, halfWidth float64) Quad {
	dir := b.Sub(a).Normalize()
	off := dir.Perp().Scale(halfWidth)
	return Quad{
		a.Add(off),
		a.Sub(off),
		b.Sub(off),
		b.Add(off),
	}
}
