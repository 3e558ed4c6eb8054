// Package material holds the fixed, order-stable palette used by every
// exporter.
package material

import (
	"fmt"

	"github.com/ChicagoDave/citymesh/pkg/city"
)

// Palette entry names.
const (
	NameDefault     = "mat_default"
	NameCommercial  = "mat_commercial"
	NameResidential = "mat_residential"
	NameIndustrial  = "mat_industrial"
	NameGreen       = "mat_green"
	NameRoad        = "mat_road"
)

// Material describes one palette entry. Diffuse and Specular feed the MTL
// sidecar; Metallic and Roughness feed the glTF PBR block.
type Material struct {
	Name      string     `json:"name"`
	Diffuse   [3]float64 `json:"diffuse"`
	Specular  float64    `json:"specular"`
	Shininess float64    `json:"shininess"`
	Metallic  float64    `json:"metallic"`
	Roughness float64    `json:"roughness"`
}

// Ambient returns the ambient colour, a quarter of the diffuse colour.
func (m Material) Ambient() [3]float64 {
	return [3]float64{0.25 * m.Diffuse[0], 0.25 * m.Diffuse[1], 0.25 * m.Diffuse[2]}
}

// BaseColor returns the diffuse colour with full alpha.
func (m Material) BaseColor() [4]float64 {
	return [4]float64{m.Diffuse[0], m.Diffuse[1], m.Diffuse[2], 1}
}

// Registry is an immutable ordered set of materials. The zero value is an
// empty registry; use Default for the standard palette.
type Registry struct {
	materials []Material
	index     map[string]int
}

// New builds a registry from materials in the given order. Names must be
// non-empty and unique.
func New(materials ...Material) (*Registry, error) {
	r := &Registry{
		materials: make([]Material, 0, len(materials)),
		index:     make(map[string]int, len(materials)),
	}
	for i, m := range materials {
		if m.Name == "" {
			return nil, fmt.Errorf("material %d has no name", i)
		}
		if _, dup := r.index[m.Name]; dup {
			return nil, fmt.Errorf("duplicate material %q", m.Name)
		}
		r.index[m.Name] = len(r.materials)
		r.materials = append(r.materials, m)
	}
	return r, nil
}

// Default returns the standard six-entry palette.
func Default() *Registry {
	r, err := New(
		Material{Name: NameDefault, Diffuse: [3]float64{0.7, 0.7, 0.7}, Specular: 0.05, Shininess: 32, Metallic: 0, Roughness: 0.6},
		Material{Name: NameCommercial, Diffuse: [3]float64{0.6, 0.65, 0.72}, Specular: 0.5, Shininess: 96, Metallic: 0.05, Roughness: 0.35},
		Material{Name: NameResidential, Diffuse: [3]float64{0.83, 0.72, 0.62}, Specular: 0.08, Shininess: 48, Metallic: 0, Roughness: 0.55},
		Material{Name: NameIndustrial, Diffuse: [3]float64{0.32, 0.34, 0.36}, Specular: 0.04, Shininess: 24, Metallic: 0.02, Roughness: 0.75},
		Material{Name: NameGreen, Diffuse: [3]float64{0.3, 0.62, 0.34}, Specular: 0.02, Shininess: 12, Metallic: 0, Roughness: 0.7},
		Material{Name: NameRoad, Diffuse: [3]float64{0.15, 0.15, 0.15}, Specular: 0.02, Shininess: 12, Metallic: 0, Roughness: 0.8},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// All returns the materials in declaration order.
func (r *Registry) All() []Material {
	out := make([]Material, len(r.materials))
	copy(out, r.materials)
	return out
}

// Lookup returns the material with the given name.
func (r *Registry) Lookup(name string) (Material, bool) {
	i, ok := r.index[name]
	if !ok {
		return Material{}, false
	}
	return r.materials[i], true
}

// ForZone returns the material name used to render zone. Zones without a
// dedicated entry fall back to the default material.
func (r *Registry) ForZone(zone city.ZoneType) string {
	var name string
	switch zone {
	case city.ZoneCommercial:
		name = NameCommercial
	case city.ZoneResidential:
		name = NameResidential
	case city.ZoneIndustrial:
		name = NameIndustrial
	case city.ZoneGreen:
		name = NameGreen
	default:
		return NameDefault
	}
	if _, ok := r.index[name]; !ok {
		return NameDefault
	}
	return name
}
