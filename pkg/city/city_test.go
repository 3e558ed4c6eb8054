package city

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ChicagoDave/citymesh/pkg/geo"
)

func checkSmall(t *testing.T, l *Layout) {
	t.Helper()
	if l.Size != 2 {
		t.Fatalf("size = %d, want 2", l.Size)
	}
	if len(l.Zones) != 4 {
		t.Fatalf("zones = %d, want 4", len(l.Zones))
	}
	if l.ZoneAt(0, 0) != ZoneResidential {
		t.Errorf("zone(0,0) = %v, want residential", l.ZoneAt(0, 0))
	}
	if l.ZoneAt(0, 1) != ZoneGreen {
		t.Errorf("zone(0,1) = %v, want green", l.ZoneAt(0, 1))
	}
	if l.ZoneAt(1, 1) != ZoneCommercial {
		t.Errorf("zone(1,1) = %v, want commercial", l.ZoneAt(1, 1))
	}
	if len(l.Buildings) != 3 {
		t.Fatalf("buildings = %d, want 3", len(l.Buildings))
	}
	b := l.Buildings[0]
	if b.Footprint != geo.R(0, 0, 1, 1) || b.Zone != ZoneResidential || b.Height != 3 {
		t.Errorf("building[0] = %+v", b)
	}
	fac := l.Buildings[2]
	if !fac.Facility || fac.FacilityKind != FacilitySchool {
		t.Errorf("building[2] facility = %v/%v, want school", fac.Facility, fac.FacilityKind)
	}
	if len(l.Facilities) != 1 || l.Facilities[0].Kind != FacilitySchool {
		t.Errorf("facilities = %+v", l.Facilities)
	}
	if len(l.Roads) != 2 {
		t.Fatalf("roads = %d, want 2", len(l.Roads))
	}
	if l.Roads[0].Type != RoadArterial || l.Roads[0].Length() != 10 {
		t.Errorf("road[0] = %+v", l.Roads[0])
	}
	if !l.Roads[1].Degenerate() {
		t.Error("road[1] should be degenerate")
	}
}

func TestLoadYAML(t *testing.T) {
	l, err := Load("testdata/small.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	checkSmall(t, l)
}

func TestLoadJSON(t *testing.T) {
	l, err := Load("testdata/small.json")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	checkSmall(t, l)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("testdata/does-not-exist.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "reading layout file") {
		t.Errorf("error = %v, want reading context", err)
	}
}

func TestDecodeRejectsUnknownZone(t *testing.T) {
	_, err := Decode(strings.NewReader("size: 1\nzones: [suburban]\n"))
	if err == nil {
		t.Fatal("expected error for unknown zone")
	}
}

func TestDecodeEmpty(t *testing.T) {
	if _, err := Decode(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty document")
	}
}

func TestDecodeDefaultsZones(t *testing.T) {
	l, err := Decode(strings.NewReader("size: 3\n"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(l.Zones) != 9 {
		t.Fatalf("zones = %d, want 9", len(l.Zones))
	}
	for i, z := range l.Zones {
		if z != ZoneNone {
			t.Errorf("zone[%d] = %v, want none", i, z)
		}
	}
}

func TestSaveLoadZstd(t *testing.T) {
	src, err := Load("testdata/small.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "layout.yaml.zst")
	if err := Save(path, src); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load zst failed: %v", err)
	}
	checkSmall(t, l)
	if l.ID() != src.ID() {
		t.Errorf("ID changed across zstd save/load: %v != %v", l.ID(), src.ID())
	}
}

func TestIDStable(t *testing.T) {
	a, err := Load("testdata/small.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	b, err := Load("testdata/small.json")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if a.ID() != b.ID() {
		t.Errorf("same layout in YAML and JSON gave IDs %v and %v", a.ID(), b.ID())
	}
	if a.ID().Version() != 5 {
		t.Errorf("ID version = %d, want 5", a.ID().Version())
	}

	b.Buildings[0].Height = 4
	if a.ID() == b.ID() {
		t.Error("different layouts should have different IDs")
	}
}

func TestRoadWidths(t *testing.T) {
	tests := []struct {
		typ  RoadType
		want float64
	}{
		{RoadArterial, 1.6},
		{RoadSecondary, 1.2},
		{RoadLocal, 0.8},
	}
	for _, tt := range tests {
		if got := tt.typ.Width(); got != tt.want {
			t.Errorf("%v width = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestRoadOutline(t *testing.T) {
	r := RoadSegment{X1: 0, Y1: 0, X2: 10, Y2: 0, Type: RoadArterial}
	bb := r.Outline().BoundingBox()
	if math.Abs(bb.Width()-10) > 1e-9 || math.Abs(bb.Height()-1.6) > 1e-9 {
		t.Errorf("outline bounds %vx%v, want 10x1.6", bb.Width(), bb.Height())
	}
}

func TestDegenerateThreshold(t *testing.T) {
	if (RoadSegment{X2: 1e-7}).Degenerate() != true {
		t.Error("1e-7 segment should be degenerate")
	}
	if (RoadSegment{X2: 1e-5}).Degenerate() != false {
		t.Error("1e-5 segment should not be degenerate")
	}
}

func TestParseNames(t *testing.T) {
	for _, name := range []string{"none", "residential", "commercial", "industrial", "green"} {
		z, err := ParseZone(name)
		if err != nil {
			t.Fatalf("ParseZone(%q): %v", name, err)
		}
		if z.String() != name {
			t.Errorf("ParseZone(%q).String() = %q", name, z.String())
		}
	}
	if z, _ := ParseZone("undeveloped"); z != ZoneNone {
		t.Errorf("undeveloped = %v, want none", z)
	}
	if _, err := ParseFacilityKind("library"); err == nil {
		t.Error("expected error for unknown facility kind")
	}
	if _, err := ParseRoadType("highway"); err == nil {
		t.Error("expected error for unknown road type")
	}
}

func TestNewLayout(t *testing.T) {
	l := New(3)
	l.SetZone(2, 1, ZoneIndustrial)
	if l.ZoneAt(2, 1) != ZoneIndustrial {
		t.Errorf("zone(2,1) = %v, want industrial", l.ZoneAt(2, 1))
	}
	if l.Zones[1*3+2] != ZoneIndustrial {
		t.Error("zones should be row-major")
	}
}
