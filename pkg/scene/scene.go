package scene

import "github.com/ChicagoDave/citymesh/pkg/mesh"

// RoadThickness is the extrusion height of every road surface.
const RoadThickness = 0.05

// SurfaceWriter receives the geometry of a walk. UseMaterial is called before
// each group of boxes sharing a material.
type SurfaceWriter interface {
	UseMaterial(name string) error
	Box(b mesh.Box) error
}

// Stats counts what a walk emitted.
type Stats struct {
	Parcels      int `json:"parcels"`
	Roads        int `json:"roads"`
	SkippedRoads int `json:"skipped_roads"`
	Boxes        int `json:"boxes"`
}

// Triangles returns the number of triangles emitted.
func (s Stats) Triangles() int { return s.Boxes * mesh.TrianglesPerBox }

// Tally is a SurfaceWriter that only counts boxes per material.
type Tally struct {
	current string
	Boxes   map[string]int
	Order   []string
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{Boxes: make(map[string]int)}
}

func (t *Tally) UseMaterial(name string) error {
	t.current = name
	return nil
}

func (t *Tally) Box(mesh.Box) error {
	if _, ok := t.Boxes[t.current]; !ok {
		t.Order = append(t.Order, t.current)
	}
	t.Boxes[t.current]++
	return nil
}

// Triangles returns the triangle count recorded for material.
func (t *Tally) Triangles(material string) int {
	return t.Boxes[material] * mesh.TrianglesPerBox
}
