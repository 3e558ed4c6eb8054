package validation

import (
	"fmt"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/ChicagoDave/citymesh/pkg/city"
	"github.com/ChicagoDave/citymesh/pkg/geo"
)

// minOverlapArea is the shared area above which two footprints are
// reported as overlapping. Parcels that merely touch share no area.
const minOverlapArea = 1e-9

// ValidateLayout checks a layout before export. Errors make the layout
// unexportable; warnings describe input the exporters tolerate.
func ValidateLayout(l *city.Layout) *Report {
	r := NewReport()

	validateGrid(l, r)
	validateBuildings(l, r)
	validateFacilities(l, r)
	validateRoads(l, r)
	r.Merge(validateOverlaps(l))

	r.AddInfo(Result{
		Level:   LevelStructure,
		Message: fmt.Sprintf("%dx%d grid, %d buildings, %d facilities, %d roads", l.Size, l.Size, len(l.Buildings), len(l.Facilities), len(l.Roads)),
	})
	return r
}

func validateGrid(l *city.Layout, r *Report) {
	if l.Size <= 0 {
		r.AddError(Result{
			Level:       LevelStructure,
			Message:     "grid size must be greater than 0",
			Path:        "size",
			ActualValue: l.Size,
			Expected:    "> 0",
		})
	}
	if want := l.Size * l.Size; l.Size >= 0 && len(l.Zones) != want {
		r.AddError(Result{
			Level:       LevelStructure,
			Message:     fmt.Sprintf("zoning grid has %d cells, want %d", len(l.Zones), want),
			Path:        "zones",
			ActualValue: len(l.Zones),
			Expected:    fmt.Sprintf("%d (size squared)", want),
		})
	}
	for i, z := range l.Zones {
		if !z.Valid() {
			r.AddError(Result{
				Level:       LevelStructure,
				Message:     fmt.Sprintf("unknown zone %d", int(z)),
				Path:        fmt.Sprintf("zones[%d]", i),
				ActualValue: int(z),
			})
		}
	}
}

func validateBuildings(l *city.Layout, r *Report) {
	for i, b := range l.Buildings {
		path := fmt.Sprintf("buildings[%d]", i)
		if !b.Zone.Valid() {
			r.AddError(Result{
				Level:       LevelStructure,
				Message:     fmt.Sprintf("unknown zone %d", int(b.Zone)),
				Path:        path + ".zone",
				ActualValue: int(b.Zone),
			})
		}
		if b.Height < 0 {
			r.AddError(Result{
				Level:       LevelStructure,
				Message:     "height must not be negative",
				Path:        path + ".height",
				ActualValue: b.Height,
				Expected:    ">= 0",
			})
		}
		if b.Footprint.IsInverted() {
			r.AddError(Result{
				Level:       LevelStructure,
				Message:     fmt.Sprintf("footprint is inverted (%.3f,%.3f)-(%.3f,%.3f)", b.Footprint.X0, b.Footprint.Y0, b.Footprint.X1, b.Footprint.Y1),
				Path:        path + ".footprint",
				Expected:    "x0 <= x1 and y0 <= y1",
				Suggestions: []string{"Swap the corner coordinates"},
			})
		}
		if !b.Facility {
			continue
		}
		if !b.FacilityKind.Valid() {
			r.AddError(Result{
				Level:       LevelStructure,
				Message:     fmt.Sprintf("unknown facility kind %d", int(b.FacilityKind)),
				Path:        path + ".facility_kind",
				ActualValue: int(b.FacilityKind),
			})
			continue
		}
		if b.Zone == city.ZoneNone || b.Zone == city.ZoneGreen {
			r.AddWarning(Result{
				Level:       LevelConsistency,
				Message:     fmt.Sprintf("%s parcel in a %s zone is not exported as a facility", b.FacilityKind, b.Zone),
				Path:        path + ".zone",
				ActualValue: b.Zone.String(),
				Expected:    "residential, commercial or industrial",
			})
		}
		if !hasFacilityWithin(l.Facilities, b.FacilityKind, b.Footprint) {
			r.AddWarning(Result{
				Level:        LevelConsistency,
				Message:      fmt.Sprintf("no %s facility point lies inside this parcel", b.FacilityKind),
				Path:         path,
				ConflictWith: "facilities",
				Suggestions:  []string{"Add a facility entry so the summary counts it"},
			})
		}
	}
}

func hasFacilityWithin(fs []city.Facility, kind city.FacilityKind, fp geo.Rect) bool {
	fp = fp.Normalized()
	for _, f := range fs {
		if f.Kind == kind && f.X >= fp.X0 && f.X <= fp.X1 && f.Y >= fp.Y0 && f.Y <= fp.Y1 {
			return true
		}
	}
	return false
}

func validateFacilities(l *city.Layout, r *Report) {
	extent := float64(l.Size)
	for i, f := range l.Facilities {
		path := fmt.Sprintf("facilities[%d]", i)
		if !f.Kind.Valid() {
			r.AddError(Result{
				Level:       LevelStructure,
				Message:     fmt.Sprintf("unknown facility kind %d", int(f.Kind)),
				Path:        path + ".kind",
				ActualValue: int(f.Kind),
			})
		}
		if f.X < 0 || f.Y < 0 || f.X > extent || f.Y > extent {
			r.AddWarning(Result{
				Level:       LevelSpatial,
				Message:     fmt.Sprintf("facility at (%.3f, %.3f) lies outside the grid", f.X, f.Y),
				Path:        path,
				ActualValue: fmt.Sprintf("(%.3f, %.3f)", f.X, f.Y),
				Expected:    fmt.Sprintf("0..%d on both axes", l.Size),
			})
		}
	}
}

func validateRoads(l *city.Layout, r *Report) {
	skipped := 0
	for i, rd := range l.Roads {
		path := fmt.Sprintf("roads[%d]", i)
		if !rd.Type.Valid() {
			r.AddError(Result{
				Level:       LevelStructure,
				Message:     fmt.Sprintf("unknown road type %d", int(rd.Type)),
				Path:        path + ".type",
				ActualValue: int(rd.Type),
			})
		}
		if rd.Degenerate() {
			skipped++
			r.AddWarning(Result{
				Level:       LevelSpatial,
				Message:     fmt.Sprintf("road has length %.2g and will be skipped", rd.Length()),
				Path:        path,
				ActualValue: rd.Length(),
			})
		}
	}
	if skipped > 0 {
		r.AddInfo(Result{
			Level:   LevelSpatial,
			Message: fmt.Sprintf("%d of %d roads are degenerate", skipped, len(l.Roads)),
			Path:    "roads",
		})
	}
}

// parcel adapts a building footprint to rtreego.Spatial.
type parcel struct {
	index int
	fp    geo.Rect
	rect  rtreego.Rect
}

func (p *parcel) Bounds() rtreego.Rect { return p.rect }

// validateOverlaps reports every pair of footprints sharing area.
func validateOverlaps(l *city.Layout) *Report {
	r := NewReport()
	tree := rtreego.NewTree(2, 25, 50)
	parcels := make([]*parcel, 0, len(l.Buildings))
	for i, b := range l.Buildings {
		fp := b.Footprint.Normalized()
		if fp.Area() <= 0 {
			continue
		}
		rect, err := rtreego.NewRectFromPoints(rtreego.Point{fp.X0, fp.Y0}, rtreego.Point{fp.X1, fp.Y1})
		if err != nil {
			continue
		}
		p := &parcel{index: i, fp: fp, rect: rect}
		parcels = append(parcels, p)
		tree.Insert(p)
	}

	for _, p := range parcels {
		hits := tree.SearchIntersect(p.rect)
		sort.Slice(hits, func(i, j int) bool {
			return hits[i].(*parcel).index < hits[j].(*parcel).index
		})
		for _, hit := range hits {
			q := hit.(*parcel)
			// Each pair is reported once, from its lower index.
			if q.index <= p.index {
				continue
			}
			area := p.fp.Overlap(q.fp)
			if area <= minOverlapArea {
				continue
			}
			r.AddWarning(Result{
				Level:        LevelSpatial,
				Message:      fmt.Sprintf("footprint overlaps buildings[%d] by %.4g", q.index, area),
				Path:         fmt.Sprintf("buildings[%d].footprint", p.index),
				ActualValue:  area,
				ConflictWith: fmt.Sprintf("buildings[%d].footprint", q.index),
			})
		}
	}
	return r
}
