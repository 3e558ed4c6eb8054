package mesh

// Buffer holds the triangles of one material in the Y-up output frame. Every
// triangle has three unshared vertices carrying the face normal.
type Buffer struct {
	Positions []float32
	Normals   []float32
	Indices   []uint32

	min, max  [3]float32
	hasBounds bool
}

// VertexCount returns the number of vertices stored.
func (b *Buffer) VertexCount() int { return len(b.Positions) / 3 }

// Triangles returns the number of triangles stored.
func (b *Buffer) Triangles() int { return len(b.Indices) / 3 }

// Bounds returns the axis-aligned bounds of all stored positions. ok is false
// while the buffer is empty.
func (b *Buffer) Bounds() (min, max [3]float32, ok bool) {
	return b.min, b.max, b.hasBounds
}

func (b *Buffer) push(p, n Vec3) {
	pos := [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
	b.Positions = append(b.Positions, pos[0], pos[1], pos[2])
	b.Normals = append(b.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	b.Indices = append(b.Indices, uint32(len(b.Indices)))

	if !b.hasBounds {
		b.min, b.max = pos, pos
		b.hasBounds = true
		return
	}
	for i, v := range pos {
		if v < b.min[i] {
			b.min[i] = v
		}
		if v > b.max[i] {
			b.max[i] = v
		}
	}
}

// Accumulator collects boxes into per-material buffers, created on first use.
type Accumulator struct {
	buffers map[string]*Buffer
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{buffers: make(map[string]*Buffer)}
}

// Append remaps box into the Y-up frame and adds its triangles to the buffer
// for material. Winding is reversed to compensate for the axis swap.
func (a *Accumulator) Append(material string, box Box) {
	buf, ok := a.buffers[material]
	if !ok {
		buf = &Buffer{}
		a.buffers[material] = buf
	}
	for _, t := range box.Triangles() {
		n := t.Normal.YUp()
		buf.push(t.A.YUp(), n)
		buf.push(t.C.YUp(), n)
		buf.push(t.B.YUp(), n)
	}
}

// Buffer returns the buffer for material, or nil if nothing was appended.
func (a *Accumulator) Buffer(material string) *Buffer {
	return a.buffers[material]
}

// Triangles returns the total triangle count over all buffers.
func (a *Accumulator) Triangles() int {
	n := 0
	for _, b := range a.buffers {
		n += b.Triangles()
	}
	return n
}
