package scene

import (
	"fmt"

	"github.com/ChicagoDave/citymesh/pkg/archetype"
	"github.com/ChicagoDave/citymesh/pkg/city"
	"github.com/ChicagoDave/citymesh/pkg/material"
	"github.com/ChicagoDave/citymesh/pkg/mesh"
)

// Walk traverses the layout in a fixed order and feeds its geometry to w:
// buildings in layout order, then roads. Undeveloped parcels and degenerate
// roads are skipped. The first error from w stops the walk.
func Walk(l *city.Layout, reg *material.Registry, w SurfaceWriter) (Stats, error) {
	var st Stats
	if err := walkBuildings(l.Buildings, reg, w, &st); err != nil {
		return st, err
	}
	if err := walkRoads(l.Roads, w, &st); err != nil {
		return st, err
	}
	return st, nil
}

func walkBuildings(buildings []city.Building, reg *material.Registry, w SurfaceWriter, st *Stats) error {
	for i, b := range buildings {
		arch, ok := archetype.Classify(b)
		if !ok {
			continue
		}
		if err := w.UseMaterial(reg.ForZone(b.Zone)); err != nil {
			return fmt.Errorf("building %d: %w", i, err)
		}
		for _, v := range arch.Massing(b.Footprint, b.Height) {
			if err := w.Box(mesh.ExtrudeRect(v.Footprint, v.Base, v.Top)); err != nil {
				return fmt.Errorf("building %d %s: %w", i, v.Part, err)
			}
			st.Boxes++
		}
		st.Parcels++
	}
	return nil
}

func walkRoads(roads []city.RoadSegment, w SurfaceWriter, st *Stats) error {
	for i, r := range roads {
		if r.Degenerate() {
			st.SkippedRoads++
			continue
		}
		if err := w.UseMaterial(material.NameRoad); err != nil {
			return fmt.Errorf("road %d: %w", i, err)
		}
		if err := w.Box(mesh.Extrude(r.Outline(), 0, RoadThickness)); err != nil {
			return fmt.Errorf("road %d: %w", i, err)
		}
		st.Boxes++
		st.Roads++
	}
	return nil
}
