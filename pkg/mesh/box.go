package mesh

import "github.com/ChicagoDave/citymesh/pkg/geo"

const (
	// VerticesPerBox is the number of corner vertices of an extruded box.
	VerticesPerBox = 8
	// TrianglesPerBox is two triangles for each of the six faces.
	TrianglesPerBox = 12
)

// Face is one side of a box: two triangles sharing an outward unit normal.
// Triangle corners index Box.Vertices and wind counter-clockwise seen from
// outside.
type Face struct {
	Normal    Vec3
	Triangles [2][3]int
}

// Box is a closed prism. Vertices 0..3 are the base corners
// counter-clockwise seen from above, 4..7 the matching top corners. Faces are
// ordered bottom, top, then the sides starting at edge 0-1.
type Box struct {
	Vertices [VerticesPerBox]Vec3
	Faces    [6]Face
}

// Triangle is a box triangle resolved to corner positions.
type Triangle struct {
	A, B, C Vec3
	Normal  Vec3
}

// Extrude builds a box from four base corners between elevations z0 and z1.
// A clockwise base is reversed first. Degenerate extents are not filtered.
func Extrude(base geo.Quad, z0, z1 float64) Box {
	base = base.EnsureCCW()

	var b Box
	for i, p := range base {
		b.Vertices[i] = V(p.X, p.Y, z0)
		b.Vertices[i+4] = V(p.X, p.Y, z1)
	}

	b.Faces[0] = Face{Normal: V(0, 0, -1), Triangles: [2][3]int{{0, 2, 1}, {0, 3, 2}}}
	b.Faces[1] = Face{Normal: V(0, 0, 1), Triangles: [2][3]int{{4, 5, 6}, {4, 6, 7}}}

	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		// Side normals come from the base edge and a unit rise, so flat
		// boxes still get horizontal normals.
		a, c := base.Edge(i)
		b.Faces[2+i] = Face{
			Normal:    Normal(V(a.X, a.Y, 0), V(c.X, c.Y, 0), V(c.X, c.Y, 1)),
			Triangles: [2][3]int{{i, j, j + 4}, {i, j + 4, i + 4}},
		}
	}
	return b
}

// ExtrudeRect builds an axis-aligned box over r.
func ExtrudeRect(r geo.Rect, z0, z1 float64) Box {
	return Extrude(r.Corners(), z0, z1)
}

// Triangles returns the twelve triangles in face order.
func (b Box) Triangles() []Triangle {
	out := make([]Triangle, 0, TrianglesPerBox)
	for _, f := range b.Faces {
		for _, t := range f.Triangles {
			out = append(out, Triangle{
				A:      b.Vertices[t[0]],
				B:      b.Vertices[t[1]],
				C:      b.Vertices[t[2]],
				Normal: f.Normal,
			})
		}
	}
	return out
}

// Centroid returns the average of the eight corners.
func (b Box) Centroid() Vec3 {
	var sum Vec3
	for _, v := range b.Vertices {
		sum = sum.Add(v)
	}
	return sum.Scale(1.0 / VerticesPerBox)
}

// FaceCentroid returns the average of the corners used by face f.
func (b Box) FaceCentroid(f int) Vec3 {
	seen := map[int]bool{}
	var sum Vec3
	for _, t := range b.Faces[f].Triangles {
		for _, idx := range t {
			if !seen[idx] {
				seen[idx] = true
				sum = sum.Add(b.Vertices[idx])
			}
		}
	}
	return sum.Scale(1 / float64(len(seen)))
}

// Normal returns the geometric normal of triangle (a, b, c) from its winding.
func Normal(a, b, c Vec3) Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}
