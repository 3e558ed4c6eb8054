package material

import (
	"testing"

	"github.com/ChicagoDave/citymesh/pkg/city"
)

func TestDefaultOrder(t *testing.T) {
	want := []string{NameDefault, NameCommercial, NameResidential, NameIndustrial, NameGreen, NameRoad}
	r := Default()
	all := r.All()
	if len(all) != len(want) {
		t.Fatalf("palette size = %d, want %d", len(all), len(want))
	}
	for i, m := range all {
		if m.Name != want[i] {
			t.Errorf("palette[%d] = %q, want %q", i, m.Name, want[i])
		}
		if got, ok := r.Lookup(m.Name); !ok || got != m {
			t.Errorf("Lookup(%q) = %+v, %v", m.Name, got, ok)
		}
	}
}

func TestForZone(t *testing.T) {
	r := Default()
	tests := []struct {
		zone city.ZoneType
		want string
	}{
		{city.ZoneNone, NameDefault},
		{city.ZoneResidential, NameResidential},
		{city.ZoneCommercial, NameCommercial},
		{city.ZoneIndustrial, NameIndustrial},
		{city.ZoneGreen, NameGreen},
		{city.ZoneType(42), NameDefault},
	}
	for _, tt := range tests {
		if got := r.ForZone(tt.zone); got != tt.want {
			t.Errorf("ForZone(%v) = %q, want %q", tt.zone, got, tt.want)
		}
	}
}

func TestForZoneMissingEntryFallsBack(t *testing.T) {
	r, err := New(Material{Name: NameDefault})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := r.ForZone(city.ZoneCommercial); got != NameDefault {
		t.Errorf("ForZone = %q, want %q", got, NameDefault)
	}
}

func TestLookup(t *testing.T) {
	r := Default()
	m, ok := r.Lookup(NameCommercial)
	if !ok {
		t.Fatal("commercial missing")
	}
	if m.Shininess != 96 || m.Roughness != 0.35 {
		t.Errorf("commercial = %+v", m)
	}
	if _, ok := r.Lookup("mat_glass"); ok {
		t.Error("unexpected material found")
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	if _, err := New(Material{Name: "a"}, Material{Name: "a"}); err == nil {
		t.Error("expected duplicate error")
	}
	if _, err := New(Material{}); err == nil {
		t.Error("expected empty name error")
	}
}

func TestAllIsCopy(t *testing.T) {
	r := Default()
	all := r.All()
	all[0].Name = "changed"
	if r.All()[0].Name != NameDefault {
		t.Error("All should not expose internal state")
	}
}

func TestAmbient(t *testing.T) {
	m := Material{Diffuse: [3]float64{0.8, 0.4, 0.2}}
	a := m.Ambient()
	if a != [3]float64{0.2, 0.1, 0.05} {
		t.Errorf("ambient = %v", a)
	}
	if m.BaseColor()[3] != 1 {
		t.Error("base color alpha should be 1")
	}
}
