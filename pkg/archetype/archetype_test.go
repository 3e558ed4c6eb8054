package archetype

import (
	"math"
	"testing"

	"github.com/ChicagoDave/citymesh/pkg/city"
	"github.com/ChicagoDave/citymesh/pkg/geo"
)

const tolerance = 1e-9

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func rectApprox(a, b geo.Rect) bool {
	return approxEqual(a.X0, b.X0, tolerance) && approxEqual(a.Y0, b.Y0, tolerance) &&
		approxEqual(a.X1, b.X1, tolerance) && approxEqual(a.Y1, b.Y1, tolerance)
}

func contains(outer, inner geo.Rect) bool {
	return inner.X0 >= outer.X0-tolerance && inner.Y0 >= outer.Y0-tolerance &&
		inner.X1 <= outer.X1+tolerance && inner.Y1 <= outer.Y1+tolerance
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		b    city.Building
		want string
	}{
		{"residential", city.Building{Zone: city.ZoneResidential}, "generic"},
		{"industrial", city.Building{Zone: city.ZoneIndustrial}, "generic"},
		{"green", city.Building{Zone: city.ZoneGreen}, "park"},
		{"green facility", city.Building{Zone: city.ZoneGreen, Facility: true, FacilityKind: city.FacilityHospital}, "park"},
		{"school", city.Building{Zone: city.ZoneCommercial, Facility: true, FacilityKind: city.FacilitySchool}, "school"},
		{"hospital", city.Building{Zone: city.ZoneResidential, Facility: true, FacilityKind: city.FacilityHospital}, "hospital"},
	}
	for _, tt := range tests {
		a, ok := Classify(tt.b)
		if !ok {
			t.Errorf("%s: no archetype", tt.name)
			continue
		}
		if a.Name() != tt.want {
			t.Errorf("%s: archetype = %q, want %q", tt.name, a.Name(), tt.want)
		}
	}

	if _, ok := Classify(city.Building{Zone: city.ZoneNone, Height: 5}); ok {
		t.Error("undeveloped parcel should have no archetype")
	}
}

func TestGenericMassing(t *testing.T) {
	fp := geo.R(0, 0, 1, 1)
	v := Generic{}.Massing(fp, 3)
	if len(v) != 1 {
		t.Fatalf("volumes = %d, want 1", len(v))
	}
	if v[0].Footprint != fp || v[0].Base != 0 || v[0].Top != 3 {
		t.Errorf("volume = %+v", v[0])
	}
	if top := (Generic{}).Massing(fp, 0)[0].Top; top != 1 {
		t.Errorf("zero-storey top = %v, want 1", top)
	}
}

func TestParkMassing(t *testing.T) {
	v := Park{}.Massing(geo.R(0, 0, 2, 2), 7)
	if len(v) != 3 {
		t.Fatalf("volumes = %d, want 3", len(v))
	}
	lawn := v[0]
	if !rectApprox(lawn.Footprint, geo.R(0.16, 0.16, 1.84, 1.84)) {
		t.Errorf("lawn = %+v", lawn.Footprint)
	}
	if lawn.Base != 0 || lawn.Top != 0.08 {
		t.Errorf("lawn z = %v..%v, want 0..0.08", lawn.Base, lawn.Top)
	}
	if !rectApprox(v[1].Footprint, geo.R(0.16, 0.16, 0.496, 0.496)) {
		t.Errorf("planter A = %+v", v[1].Footprint)
	}
	if !rectApprox(v[2].Footprint, geo.R(1.504, 1.504, 1.84, 1.84)) {
		t.Errorf("planter B = %+v", v[2].Footprint)
	}
	for _, p := range v[1:] {
		if p.Base != 0.08 || !approxEqual(p.Top, 0.28, tolerance) {
			t.Errorf("planter z = %v..%v, want 0.08..0.28", p.Base, p.Top)
		}
	}
}

func TestParkPlanterMinimumSize(t *testing.T) {
	v := Park{}.Massing(geo.R(0, 0, 5, 1), 0)
	// lawn min side = 1 - 2*0.08 = 0.84, 20% = 0.168 < 0.2
	size := v[1].Footprint.Width()
	if !approxEqual(size, 0.2, tolerance) {
		t.Errorf("planter size = %v, want 0.2", size)
	}
}

func TestParkSmallLawnKeepsPlantersInside(t *testing.T) {
	v := Park{}.Massing(geo.R(0, 0, 0.3, 0.3), 0)
	lawn := v[0].Footprint
	for i, p := range v[1:] {
		if !contains(lawn, p.Footprint) {
			t.Errorf("planter %d %+v outside lawn %+v", i, p.Footprint, lawn)
		}
		if p.Footprint.Width() > lawn.MinSide()*0.45+tolerance {
			t.Errorf("planter %d wider than 45%% of lawn", i)
		}
	}
}

func TestSchoolMassingWide(t *testing.T) {
	fp := geo.R(0, 0, 10, 5)
	v := School{}.Massing(fp, 1)
	if len(v) != 2 {
		t.Fatalf("volumes = %d, want 2", len(v))
	}
	if !rectApprox(v[0].Footprint, geo.R(0.35, 0.35, 9.65, 4.65)) {
		t.Errorf("field = %+v", v[0].Footprint)
	}
	if v[0].Top != 0.05 {
		t.Errorf("field top = %v, want 0.05", v[0].Top)
	}
	if !rectApprox(v[1].Footprint, geo.R(0.8, 1.0, 5.3, 4.0)) {
		t.Errorf("school block = %+v", v[1].Footprint)
	}
	if v[1].Top != 2 {
		t.Errorf("school top = %v, want 2", v[1].Top)
	}
}

func TestSchoolMassingTall(t *testing.T) {
	fp := geo.R(0, 0, 1, 2)
	v := School{}.Massing(fp, 6)
	if !rectApprox(v[1].Footprint, geo.R(0.08, 0.16, 0.68, 1.06)) {
		t.Errorf("school block = %+v", v[1].Footprint)
	}
	if v[1].Top != 6 {
		t.Errorf("school top = %v, want 6", v[1].Top)
	}
}

func TestSchoolBlockRespectsFarMargin(t *testing.T) {
	for _, fp := range []geo.Rect{geo.R(0, 0, 10, 5), geo.R(3, 3, 4, 9), geo.R(0, 0, 1, 1), geo.R(-5, -5, 5, 5)} {
		b := School{}.Massing(fp, 2)[1].Footprint
		if b.X1 > fp.X1-fp.Width()*0.05+tolerance || b.Y1 > fp.Y1-fp.Height()*0.05+tolerance {
			t.Errorf("block %+v exceeds far margin of %+v", b, fp)
		}
		if !contains(fp, b) {
			t.Errorf("block %+v outside footprint %+v", b, fp)
		}
	}
}

func TestHospitalMassingWide(t *testing.T) {
	v := Hospital{}.Massing(geo.R(0, 0, 10, 4), 20)
	if len(v) != 3 {
		t.Fatalf("volumes = %d, want 3", len(v))
	}
	podium, main, wing := v[0], v[1], v[2]
	if !rectApprox(podium.Footprint, geo.R(0.32, 0.32, 9.68, 3.68)) {
		t.Errorf("podium = %+v", podium.Footprint)
	}
	if podium.Top != 5 {
		t.Errorf("podium top = %v, want 5", podium.Top)
	}
	if !rectApprox(main.Footprint, geo.R(1.5, 1.1, 8.5, 2.9)) {
		t.Errorf("main = %+v", main.Footprint)
	}
	if main.Base != 5 || main.Top != 20 {
		t.Errorf("main z = %v..%v, want 5..20", main.Base, main.Top)
	}
	if !rectApprox(wing.Footprint, geo.R(3.6, 0.3, 6.4, 3.7)) {
		t.Errorf("wing = %+v", wing.Footprint)
	}
	if wing.Base != 5 || !approxEqual(wing.Top, 18, tolerance) {
		t.Errorf("wing z = %v..%v, want 5..18", wing.Base, wing.Top)
	}
}

func TestHospitalMassingLowRise(t *testing.T) {
	v := Hospital{}.Massing(geo.R(0, 0, 4, 10), 0)
	if v[0].Top != 1.2 {
		t.Errorf("podium top = %v, want 1.2", v[0].Top)
	}
	if !approxEqual(v[1].Top, 3.2, tolerance) {
		t.Errorf("main top = %v, want 3.2", v[1].Top)
	}
	if !approxEqual(v[2].Top, 2.88, tolerance) {
		t.Errorf("wing top = %v, want 2.88", v[2].Top)
	}
	// Tall footprint: main is 45% wide and 70% deep.
	if !approxEqual(v[1].Footprint.Width(), 1.8, tolerance) || !approxEqual(v[1].Footprint.Height(), 7, tolerance) {
		t.Errorf("main size = %vx%v, want 1.8x7", v[1].Footprint.Width(), v[1].Footprint.Height())
	}
	c := v[2].Footprint.Centre()
	if !approxEqual(c.X, 2, tolerance) || !approxEqual(c.Y, 5, tolerance) {
		t.Errorf("wing centre = %v, want (2,5)", c)
	}
}

func TestMassingNeverInverted(t *testing.T) {
	kinds := []Archetype{Generic{}, Park{}, School{}, Hospital{}}
	fps := []geo.Rect{geo.R(0, 0, 1, 1), geo.R(0, 0, 0.01, 3), geo.R(2, 2, 2.5, 2.6), geo.R(0, 0, 100, 1)}
	for _, a := range kinds {
		for _, fp := range fps {
			for _, v := range a.Massing(fp, 4) {
				if v.Footprint.IsInverted() {
					t.Errorf("%s %s footprint inverted: %+v", a.Name(), v.Part, v.Footprint)
				}
				if v.Top < v.Base {
					t.Errorf("%s %s top %v below base %v", a.Name(), v.Part, v.Top, v.Base)
				}
			}
		}
	}
}
