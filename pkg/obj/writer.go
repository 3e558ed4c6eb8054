// Package obj writes layouts as Wavefront OBJ text with an MTL material
// sidecar. Coordinates stay in the layout frame with Z up.
package obj

import (
	"bufio"
	"io"
	"math"
	"strconv"

	"github.com/ChicagoDave/citymesh/pkg/mesh"
)

// Writer emits OBJ records. It implements scene.SurfaceWriter. Face records
// reference vertices through a running 1-based counter that advances by
// eight per box.
type Writer struct {
	w        *bufio.Writer
	next     int
	vertices int
	faces    int
	err      error
}

// NewWriter returns a Writer whose first vertex has index 1.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w), next: 1}
}

// Next returns the index the next vertex will receive.
func (w *Writer) Next() int { return w.next }

// Vertices returns the number of vertex lines written.
func (w *Writer) Vertices() int { return w.vertices }

// Faces returns the number of face lines written.
func (w *Writer) Faces() int { return w.faces }

func (w *Writer) line(parts ...string) {
	if w.err != nil {
		return
	}
	for i, p := range parts {
		if i > 0 {
			w.w.WriteByte(' ')
		}
		w.w.WriteString(p)
	}
	_, w.err = w.w.WriteString("\n")
}

// Comment writes a "#" comment line.
func (w *Writer) Comment(text string) error {
	w.line("#", text)
	return w.err
}

// MaterialLib references the MTL sidecar by file name.
func (w *Writer) MaterialLib(name string) error {
	w.line("mtllib", name)
	return w.err
}

// UseMaterial selects the material for the following faces.
func (w *Writer) UseMaterial(name string) error {
	w.line("usemtl", name)
	return w.err
}

// Box writes the eight corners of b followed by its twelve faces.
func (w *Writer) Box(b mesh.Box) error {
	for _, v := range b.Vertices {
		w.line("v", formatFloat(v.X), formatFloat(v.Y), formatFloat(v.Z))
	}
	base := w.next
	for _, f := range b.Faces {
		for _, t := range f.Triangles {
			w.line("f",
				strconv.Itoa(base+t[0]),
				strconv.Itoa(base+t[1]),
				strconv.Itoa(base+t[2]))
		}
	}
	if w.err != nil {
		return w.err
	}
	w.next += mesh.VerticesPerBox
	w.vertices += mesh.VerticesPerBox
	w.faces += mesh.TrianglesPerBox
	return nil
}

// Flush writes any buffered data.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

// formatFloat rounds to 1e-6 and prints the shortest decimal form, so output
// is stable across platforms and never shows "-0".
func formatFloat(v float64) string {
	r := math.Round(v*1e6) / 1e6
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
