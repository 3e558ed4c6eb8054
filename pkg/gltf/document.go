// Package gltf builds glTF 2.0 scenes from a layout, one mesh per material,
// and writes them as JSON with a sibling buffer or as a single GLB container.
package gltf

// Component types and buffer view targets used by the exporter.
const (
	ComponentFloat  = 5126
	ComponentUint32 = 5125

	TargetArrayBuffer        = 34962
	TargetElementArrayBuffer = 34963
)

// Accessor element shapes.
const (
	TypeVec3   = "VEC3"
	TypeScalar = "SCALAR"
)

// Document is the subset of the glTF JSON schema the exporter produces.
type Document struct {
	Asset       Asset        `json:"asset"`
	Scene       int          `json:"scene"`
	Scenes      []Scene      `json:"scenes"`
	Nodes       []Node       `json:"nodes,omitempty"`
	Materials   []Material   `json:"materials,omitempty"`
	Meshes      []Mesh       `json:"meshes,omitempty"`
	Accessors   []Accessor   `json:"accessors,omitempty"`
	BufferViews []BufferView `json:"bufferViews,omitempty"`
	Buffers     []Buffer     `json:"buffers,omitempty"`
}

// Asset identifies the format version and the producer.
type Asset struct {
	Version   string       `json:"version"`
	Generator string       `json:"generator,omitempty"`
	Extras    *AssetExtras `json:"extras,omitempty"`
}

// AssetExtras ties the asset back to the layout it was built from.
type AssetExtras struct {
	LayoutID string `json:"layoutId"`
}

// Scene lists its root nodes. Nodes is empty, not absent, for an empty scene.
type Scene struct {
	Nodes []int `json:"nodes"`
}

// Node places one mesh in the scene.
type Node struct {
	Name string `json:"name,omitempty"`
	Mesh int    `json:"mesh"`
}

// Material is a palette entry in metallic-roughness form.
type Material struct {
	Name        string `json:"name"`
	PBR         PBR    `json:"pbrMetallicRoughness"`
	DoubleSided bool   `json:"doubleSided"`
}

// PBR holds the metallic-roughness factors.
type PBR struct {
	BaseColorFactor [4]float64 `json:"baseColorFactor"`
	MetallicFactor  float64    `json:"metallicFactor"`
	RoughnessFactor float64    `json:"roughnessFactor"`
}

// Mesh holds the triangles of one material.
type Mesh struct {
	Name       string      `json:"name,omitempty"`
	Primitives []Primitive `json:"primitives"`
}

// Primitive is an indexed triangle list.
type Primitive struct {
	Attributes Attributes `json:"attributes"`
	Indices    int        `json:"indices"`
	Material   int        `json:"material"`
}

// Attributes maps vertex attributes to accessor indices.
type Attributes struct {
	Position int `json:"POSITION"`
	Normal   int `json:"NORMAL"`
}

// Accessor describes typed elements in a buffer view. Min and Max are set
// on positions only.
type Accessor struct {
	BufferView    int       `json:"bufferView"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Min           []float32 `json:"min,omitempty"`
	Max           []float32 `json:"max,omitempty"`
}

// BufferView is a byte range of buffer 0. ByteOffset is always written, zero
// included.
type BufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
	Target     int `json:"target,omitempty"`
}

// Buffer describes the packed binary payload. URI is empty when the payload
// is embedded in a GLB container.
type Buffer struct {
	ByteLength int    `json:"byteLength"`
	URI        string `json:"uri,omitempty"`
}

// Triangles returns the number of triangles referenced by all primitives.
func (d *Document) Triangles() int {
	n := 0
	for _, m := range d.Meshes {
		for _, p := range m.Primitives {
			if p.Indices >= 0 && p.Indices < len(d.Accessors) {
				n += d.Accessors[p.Indices].Count / 3
			}
		}
	}
	return n
}

// MaterialTriangles returns the triangle count of the mesh using the named
// material, or 0 if no mesh uses it.
func (d *Document) MaterialTriangles(name string) int {
	n := 0
	for _, m := range d.Meshes {
		for _, p := range m.Primitives {
			if p.Material < 0 || p.Material >= len(d.Materials) || d.Materials[p.Material].Name != name {
				continue
			}
			if p.Indices >= 0 && p.Indices < len(d.Accessors) {
				n += d.Accessors[p.Indices].Count / 3
			}
		}
	}
	return n
}
