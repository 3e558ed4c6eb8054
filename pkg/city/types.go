package city

import (
	"fmt"
	"strings"

	"github.com/ChicagoDave/citymesh/pkg/geo"
	"gopkg.in/yaml.v3"
)

// ZoneType identifies the land use of a grid cell or parcel.
type ZoneType int

const (
	ZoneNone ZoneType = iota
	ZoneResidential
	ZoneCommercial
	ZoneIndustrial
	ZoneGreen
)

var zoneNames = [...]string{"none", "residential", "commercial", "industrial", "green"}

func (z ZoneType) String() string {
	if z < 0 || int(z) >= len(zoneNames) {
		return fmt.Sprintf("zone(%d)", int(z))
	}
	return zoneNames[z]
}

// Valid reports whether z is one of the declared zones.
func (z ZoneType) Valid() bool {
	return z >= ZoneNone && int(z) < len(zoneNames)
}

// ParseZone converts a zone name to a ZoneType. "undeveloped" and the empty
// string are accepted as aliases for none.
func ParseZone(s string) (ZoneType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "undeveloped":
		return ZoneNone, nil
	case "residential":
		return ZoneResidential, nil
	case "commercial":
		return ZoneCommercial, nil
	case "industrial":
		return ZoneIndustrial, nil
	case "green", "park":
		return ZoneGreen, nil
	}
	return ZoneNone, fmt.Errorf("unknown zone %q", s)
}

func (z ZoneType) MarshalText() ([]byte, error) {
	if !z.Valid() {
		return nil, fmt.Errorf("invalid zone %d", int(z))
	}
	return []byte(z.String()), nil
}

func (z *ZoneType) UnmarshalText(b []byte) error {
	v, err := ParseZone(string(b))
	if err != nil {
		return err
	}
	*z = v
	return nil
}

func (z *ZoneType) UnmarshalYAML(n *yaml.Node) error {
	return z.UnmarshalText([]byte(n.Value))
}

// FacilityKind identifies a public facility.
type FacilityKind int

const (
	FacilityHospital FacilityKind = iota
	FacilitySchool
)

func (k FacilityKind) String() string {
	switch k {
	case FacilityHospital:
		return "hospital"
	case FacilitySchool:
		return "school"
	default:
		return fmt.Sprintf("facility(%d)", int(k))
	}
}

// Valid reports whether k is one of the declared kinds.
func (k FacilityKind) Valid() bool {
	return k == FacilityHospital || k == FacilitySchool
}

// ParseFacilityKind converts a facility name to a FacilityKind.
func ParseFacilityKind(s string) (FacilityKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hospital":
		return FacilityHospital, nil
	case "school":
		return FacilitySchool, nil
	}
	return FacilityHospital, fmt.Errorf("unknown facility kind %q", s)
}

func (k FacilityKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid facility kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *FacilityKind) UnmarshalText(b []byte) error {
	v, err := ParseFacilityKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

func (k *FacilityKind) UnmarshalYAML(n *yaml.Node) error {
	return k.UnmarshalText([]byte(n.Value))
}

// RoadType is the hierarchy level of a road segment.
type RoadType int

const (
	RoadArterial RoadType = iota
	RoadSecondary
	RoadLocal
)

func (t RoadType) String() string {
	switch t {
	case RoadArterial:
		return "arterial"
	case RoadSecondary:
		return "secondary"
	case RoadLocal:
		return "local"
	default:
		return fmt.Sprintf("road(%d)", int(t))
	}
}

// Valid reports whether t is one of the declared road types.
func (t RoadType) Valid() bool {
	return t >= RoadArterial && t <= RoadLocal
}

// Width returns the rendered width in world units: 1.6 arterial,
// 1.2 secondary, 0.8 local (and anything unknown).
func (t RoadType) Width() float64 {
	switch t {
	case RoadArterial:
		return 1.6
	case RoadSecondary:
		return 1.2
	default:
		return 0.8
	}
}

// ParseRoadType converts a road hierarchy name to a RoadType.
func ParseRoadType(s string) (RoadType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "arterial":
		return RoadArterial, nil
	case "secondary":
		return RoadSecondary, nil
	case "", "local":
		return RoadLocal, nil
	}
	return RoadLocal, fmt.Errorf("unknown road type %q", s)
}

func (t RoadType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid road type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *RoadType) UnmarshalText(b []byte) error {
	v, err := ParseRoadType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t *RoadType) UnmarshalYAML(n *yaml.Node) error {
	return t.UnmarshalText([]byte(n.Value))
}

// degenerateLength is the centreline length below which a road is skipped.
const degenerateLength = 1e-6

// Building is a parcel footprint with its zone and storey count. When
// Facility is set the parcel hosts a public facility of FacilityKind.
type Building struct {
	Footprint    geo.Rect     `yaml:"footprint" json:"footprint"`
	Zone         ZoneType     `yaml:"zone" json:"zone"`
	Height       int          `yaml:"height" json:"height"`
	Facility     bool         `yaml:"facility" json:"facility"`
	FacilityKind FacilityKind `yaml:"facility_kind" json:"facility_kind"`
}

// Facility is a facility position used for accessibility statistics.
type Facility struct {
	X    float64      `yaml:"x" json:"x"`
	Y    float64      `yaml:"y" json:"y"`
	Kind FacilityKind `yaml:"kind" json:"kind"`
}

// Position returns the facility location.
func (f Facility) Position() geo.Point2D {
	return geo.Pt(f.X, f.Y)
}

// RoadSegment is a straight road centreline.
type RoadSegment struct {
	X1   float64  `yaml:"x1" json:"x1"`
	Y1   float64  `yaml:"y1" json:"y1"`
	X2   float64  `yaml:"x2" json:"x2"`
	Y2   float64  `yaml:"y2" json:"y2"`
	Type RoadType `yaml:"type" json:"type"`
}

// Start returns the first endpoint.
func (r RoadSegment) Start() geo.Point2D { return geo.Pt(r.X1, r.Y1) }

// End returns the second endpoint.
func (r RoadSegment) End() geo.Point2D { return geo.Pt(r.X2, r.Y2) }

// Length returns the centreline length.
func (r RoadSegment) Length() float64 {
	return r.Start().Distance(r.End())
}

// Degenerate reports whether the endpoints are too close to render.
func (r RoadSegment) Degenerate() bool {
	return r.Length() < degenerateLength
}

// Outline returns the road surface outline, counter-clockwise, using the
// half-width of its hierarchy level.
func (r RoadSegment) Outline() geo.Quad {
	return geo.Strip(r.Start(), r.End(), 0.5*r.Type.Width())
}

// Layout is the city aggregate handed over by the layout stage: a square
// zoning grid plus parcels, facilities and roads.
type Layout struct {
	Size       int           `yaml:"size" json:"size"`
	Zones      []ZoneType    `yaml:"zones" json:"zones"`
	Buildings  []Building    `yaml:"buildings" json:"buildings"`
	Facilities []Facility    `yaml:"facilities" json:"facilities"`
	Roads      []RoadSegment `yaml:"roads" json:"roads"`
}

// New creates a layout of the given grid size with every cell undeveloped.
func New(size int) *Layout {
	if size < 0 {
		size = 0
	}
	return &Layout{
		Size:  size,
		Zones: make([]ZoneType, size*size),
	}
}

// ZoneAt returns the zone of cell (x, y). No bounds checking is performed.
func (l *Layout) ZoneAt(x, y int) ZoneType {
	return l.Zones[y*l.Size+x]
}

// SetZone sets the zone of cell (x, y). No bounds checking is performed.
func (l *Layout) SetZone(x, y int, z ZoneType) {
	l.Zones[y*l.Size+x] = z
}
