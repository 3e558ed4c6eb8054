package gltf

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ChicagoDave/citymesh/pkg/city"
	"github.com/ChicagoDave/citymesh/pkg/material"
	"github.com/ChicagoDave/citymesh/pkg/mesh"
	"github.com/ChicagoDave/citymesh/pkg/scene"
)

// Generator is written to asset.generator.
const Generator = "citymesh"

// accumulate adapts a mesh.Accumulator to scene.SurfaceWriter.
type accumulate struct {
	acc     *mesh.Accumulator
	current string
}

func (a *accumulate) UseMaterial(name string) error {
	a.current = name
	return nil
}

func (a *accumulate) Box(b mesh.Box) error {
	a.acc.Append(a.current, b)
	return nil
}

// Build walks l into per-material buffers and returns the scene document with
// its packed little-endian payload. Only materials that received triangles
// appear, in palette order, so material indices do not depend on traversal
// order. The payload length is a multiple of four.
func Build(l *city.Layout, reg *material.Registry) (*Document, []byte, error) {
	w := &accumulate{acc: mesh.NewAccumulator()}
	if _, err := scene.Walk(l, reg, w); err != nil {
		return nil, nil, err
	}

	doc := &Document{
		Asset: Asset{
			Version:   "2.0",
			Generator: Generator,
			Extras:    &AssetExtras{LayoutID: l.ID().String()},
		},
		Scene:  0,
		Scenes: []Scene{{Nodes: []int{}}},
	}

	var bin []byte
	for _, m := range reg.All() {
		buf := w.acc.Buffer(m.Name)
		if buf == nil || buf.Triangles() == 0 {
			continue
		}

		posView := addView(doc, &bin, appendFloats(nil, buf.Positions), TargetArrayBuffer)
		nrmView := addView(doc, &bin, appendFloats(nil, buf.Normals), TargetArrayBuffer)
		idxView := addView(doc, &bin, appendUints(nil, buf.Indices), TargetElementArrayBuffer)

		min, max, _ := buf.Bounds()
		posAcc := addAccessor(doc, Accessor{
			BufferView:    posView,
			ComponentType: ComponentFloat,
			Count:         buf.VertexCount(),
			Type:          TypeVec3,
			Min:           min[:],
			Max:           max[:],
		})
		nrmAcc := addAccessor(doc, Accessor{
			BufferView:    nrmView,
			ComponentType: ComponentFloat,
			Count:         buf.VertexCount(),
			Type:          TypeVec3,
		})
		idxAcc := addAccessor(doc, Accessor{
			BufferView:    idxView,
			ComponentType: ComponentUint32,
			Count:         len(buf.Indices),
			Type:          TypeScalar,
		})

		matIdx := len(doc.Materials)
		doc.Materials = append(doc.Materials, Material{
			Name: m.Name,
			PBR: PBR{
				BaseColorFactor: m.BaseColor(),
				MetallicFactor:  m.Metallic,
				RoughnessFactor: m.Roughness,
			},
			DoubleSided: true,
		})

		meshIdx := len(doc.Meshes)
		doc.Meshes = append(doc.Meshes, Mesh{
			Name: m.Name,
			Primitives: []Primitive{{
				Attributes: Attributes{Position: posAcc, Normal: nrmAcc},
				Indices:    idxAcc,
				Material:   matIdx,
			}},
		})

		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, Node{Name: m.Name, Mesh: meshIdx})
	}

	if got, want := doc.Triangles(), w.acc.Triangles(); got != want {
		return nil, nil, fmt.Errorf("packed %d of %d triangles: material missing from palette", got, want)
	}

	bin = pad4(bin, 0)
	if len(bin) > 0 {
		doc.Buffers = []Buffer{{ByteLength: len(bin)}}
	}
	return doc, bin, nil
}

// addView appends seg to bin at the next 4-byte boundary and records a
// buffer view for it.
func addView(doc *Document, bin *[]byte, seg []byte, target int) int {
	*bin = pad4(*bin, 0)
	doc.BufferViews = append(doc.BufferViews, BufferView{
		Buffer:     0,
		ByteOffset: len(*bin),
		ByteLength: len(seg),
		Target:     target,
	})
	*bin = append(*bin, seg...)
	return len(doc.BufferViews) - 1
}

func addAccessor(doc *Document, a Accessor) int {
	doc.Accessors = append(doc.Accessors, a)
	return len(doc.Accessors) - 1
}

func appendFloats(b []byte, fs []float32) []byte {
	for _, f := range fs {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}

func appendUints(b []byte, us []uint32) []byte {
	for _, u := range us {
		b = binary.LittleEndian.AppendUint32(b, u)
	}
	return b
}

// pad4 extends b with fill up to a multiple of four bytes.
func pad4(b []byte, fill byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, fill)
	}
	return b
}
