// Package archetype turns a parcel into the boxes that make up its massing.
// Every procedure is deterministic in the footprint and storey count.
package archetype

import (
	"math"

	"github.com/ChicagoDave/citymesh/pkg/city"
	"github.com/ChicagoDave/citymesh/pkg/geo"
)

// Volume is one box of a parcel's massing: a footprint extruded from Base to
// Top.
type Volume struct {
	Part      string   `json:"part"`
	Footprint geo.Rect `json:"footprint"`
	Base      float64  `json:"base"`
	Top       float64  `json:"top"`
}

// Archetype is a procedural massing strategy. The set is closed: Generic,
// Park, School and Hospital.
type Archetype interface {
	Name() string
	Massing(footprint geo.Rect, height int) []Volume
	archetype()
}

// Generic is a single block for ordinary parcels.
type Generic struct{}

// Park is a lawn pad with two planters on opposite corners.
type Park struct{}

// School is a sports field with a teaching block near one corner.
type School struct{}

// Hospital is a podium carrying a main block and a crossing wing.
type Hospital struct{}

func (Generic) archetype()  {}
func (Park) archetype()     {}
func (School) archetype()   {}
func (Hospital) archetype() {}

func (Generic) Name() string  { return "generic" }
func (Park) Name() string     { return "park" }
func (School) Name() string   { return "school" }
func (Hospital) Name() string { return "hospital" }

// Classify picks the archetype for b. Undeveloped parcels have none and
// report false. Green parcels are parks even when flagged as facilities.
func Classify(b city.Building) (Archetype, bool) {
	switch {
	case b.Zone == city.ZoneNone:
		return nil, false
	case b.Zone == city.ZoneGreen:
		return Park{}, true
	case b.Facility && b.FacilityKind == city.FacilityHospital:
		return Hospital{}, true
	case b.Facility:
		return School{}, true
	default:
		return Generic{}, true
	}
}

// Massing of a generic parcel: the full footprint from the ground to at least
// one storey.
func (Generic) Massing(fp geo.Rect, height int) []Volume {
	return []Volume{{
		Part:      "block",
		Footprint: fp,
		Base:      0,
		Top:       math.Max(1.0, float64(height)),
	}}
}

const (
	parkMargin     = 0.08
	parkPadHeight  = 0.08
	planterShare   = 0.2
	planterMinSize = 0.2
	planterMaxFrac = 0.45
	planterRise    = 2.5
)

// Massing of a park. The storey count is ignored.
func (Park) Massing(fp geo.Rect, _ int) []Volume {
	lawn := fp.Inset(fp.MinSide() * parkMargin)
	m := lawn.MinSide()
	// The upper bound wins when the lawn is too small for the minimum size.
	size := math.Min(math.Max(m*planterShare, planterMinSize), m*planterMaxFrac)
	top := parkPadHeight + parkPadHeight*planterRise

	return []Volume{
		{Part: "lawn", Footprint: lawn, Base: 0, Top: parkPadHeight},
		{
			Part:      "planter",
			Footprint: geo.R(lawn.X0, lawn.Y0, lawn.X0+size, lawn.Y0+size),
			Base:      parkPadHeight,
			Top:       top,
		},
		{
			Part:      "planter",
			Footprint: geo.R(lawn.X1-size, lawn.Y1-size, lawn.X1, lawn.Y1),
			Base:      parkPadHeight,
			Top:       top,
		},
	}
}

const (
	schoolFieldInset  = 0.07
	schoolFieldHeight = 0.05
	schoolMinHeight   = 2.0
	schoolFarMargin   = 0.05
)

// Massing of a school.
func (School) Massing(fp geo.Rect, height int) []Volume {
	w, h := fp.Width(), fp.Height()
	field := fp.Inset(math.Min(w, h) * schoolFieldInset)

	wide := w >= h
	bw, bh := w*0.6, h*0.45
	anchorY := 0.08
	if wide {
		bw, bh = w*0.45, h*0.6
		anchorY = 0.2
	}
	block := geo.R(fp.X0+w*0.08, fp.Y0+h*anchorY, 0, 0)
	block.X1 = block.X0 + bw
	block.Y1 = block.Y0 + bh

	if maxX := fp.X1 - w*schoolFarMargin; block.X1 > maxX {
		block = block.Translate(geo.Pt(maxX-block.X1, 0))
	}
	if maxY := fp.Y1 - h*schoolFarMargin; block.Y1 > maxY {
		block = block.Translate(geo.Pt(0, maxY-block.Y1))
	}

	return []Volume{
		{Part: "field", Footprint: field, Base: 0, Top: schoolFieldHeight},
		{Part: "school", Footprint: block, Base: 0, Top: math.Max(schoolMinHeight, float64(height))},
	}
}

// Massing of a hospital. Main block and wing are centred on the footprint
// centre and swap proportions with the footprint orientation.
func (Hospital) Massing(fp geo.Rect, height int) []Volume {
	w, h := fp.Width(), fp.Height()
	storeys := float64(height)

	podium := fp.Inset(math.Min(w, h) * 0.08)
	podiumTop := math.Max(1.2, storeys*0.25)

	wide := w >= h
	mainW, mainH := w*0.45, h*0.7
	wingW, wingH := w*0.85, h*0.28
	if wide {
		mainW, mainH = w*0.7, h*0.45
		wingW, wingH = w*0.28, h*0.85
	}
	c := fp.Centre()
	mainTop := math.Max(podiumTop+2.0, storeys)
	wingTop := math.Max(podiumTop+1.2, mainTop*0.9)

	return []Volume{
		{Part: "podium", Footprint: podium, Base: 0, Top: podiumTop},
		{Part: "main", Footprint: geo.RectAround(c, mainW, mainH), Base: podiumTop, Top: mainTop},
		{Part: "wing", Footprint: geo.RectAround(c, wingW, wingH), Base: podiumTop, Top: wingTop},
	}
}
