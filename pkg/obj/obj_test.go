package obj

import (
	"bufio"
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ChicagoDave/citymesh/pkg/city"
	"github.com/ChicagoDave/citymesh/pkg/geo"
	"github.com/ChicagoDave/citymesh/pkg/material"
	"github.com/ChicagoDave/citymesh/pkg/mesh"
	"github.com/ChicagoDave/citymesh/pkg/output"
)

func scenarioLayout() *city.Layout {
	l := city.New(2)
	l.SetZone(0, 0, city.ZoneResidential)
	l.Buildings = []city.Building{
		{Footprint: geo.R(0, 0, 1, 1), Zone: city.ZoneResidential, Height: 3},
	}
	return l
}

func mixedLayout() *city.Layout {
	l := city.New(4)
	l.Buildings = []city.Building{
		{Footprint: geo.R(0, 0, 1, 1), Zone: city.ZoneIndustrial, Height: 2},
		{Footprint: geo.R(0, 1, 2, 3), Zone: city.ZoneGreen},
		{Footprint: geo.R(2, 0, 4, 1), Zone: city.ZoneCommercial, Height: 6, Facility: true, FacilityKind: city.FacilitySchool},
		{Footprint: geo.R(2, 2, 4, 4), Zone: city.ZoneResidential, Height: 8, Facility: true, FacilityKind: city.FacilityHospital},
	}
	l.Roads = []city.RoadSegment{
		{X1: 0, Y1: 0, X2: 4, Y2: 3, Type: city.RoadSecondary},
		{X1: 1, Y1: 1, X2: 1, Y2: 1, Type: city.RoadLocal},
	}
	return l
}

type parsed struct {
	lines    []string
	vertices [][3]float64
	faces    [][3]int
	mtllib   string
	usemtl   []string
}

func parseOBJ(t *testing.T, path string) parsed {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var p parsed
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		p.lines = append(p.lines, line)
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			var v [3]float64
			for i := range v {
				v[i], err = strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					t.Fatalf("bad vertex line %q", line)
				}
			}
			p.vertices = append(p.vertices, v)
		case "f":
			var fc [3]int
			for i := range fc {
				fc[i], err = strconv.Atoi(fields[i+1])
				if err != nil {
					t.Fatalf("bad face line %q", line)
				}
			}
			p.faces = append(p.faces, fc)
		case "mtllib":
			p.mtllib = fields[1]
		case "usemtl":
			p.usemtl = append(p.usemtl, fields[1])
		}
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return p
}

func TestExportScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "city.obj")
	res, err := Export(scenarioLayout(), material.Default(), path)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	p := parseOBJ(t, path)
	if len(p.vertices) != 8 {
		t.Errorf("vertex lines = %d, want 8", len(p.vertices))
	}
	if len(p.faces) != 12 {
		t.Errorf("face lines = %d, want 12", len(p.faces))
	}
	if p.mtllib != "city.mtl" {
		t.Errorf("mtllib = %q, want city.mtl", p.mtllib)
	}
	if len(p.usemtl) != 1 || p.usemtl[0] != material.NameResidential {
		t.Errorf("usemtl = %v, want [mat_residential]", p.usemtl)
	}
	if !strings.HasPrefix(p.lines[0], "# citymesh layout ") {
		t.Errorf("header = %q", p.lines[0])
	}
	if res.Vertices != 8 || res.Faces != 12 {
		t.Errorf("result counts = %d/%d, want 8/12", res.Vertices, res.Faces)
	}
	if res.MTLPath != filepath.Join(dir, "city.mtl") {
		t.Errorf("mtl path = %q", res.MTLPath)
	}
	if _, err := os.Stat(res.MTLPath); err != nil {
		t.Errorf("sidecar missing: %v", err)
	}
}

func TestExportFaceIndicesInRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "city.obj")
	res, err := Export(mixedLayout(), material.Default(), path)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	p := parseOBJ(t, path)

	// industrial 1 + park 3 + school 2 + hospital 3 + road 1
	if len(p.vertices) != 10*8 || len(p.faces) != 10*12 {
		t.Fatalf("counts = %d v / %d f, want 80 / 120", len(p.vertices), len(p.faces))
	}
	if res.Stats.SkippedRoads != 1 {
		t.Errorf("skipped roads = %d, want 1", res.Stats.SkippedRoads)
	}
	for i, f := range p.faces {
		box := i / 12
		lo, hi := box*8+1, box*8+8
		for _, idx := range f {
			if idx < lo || idx > hi {
				t.Fatalf("face %d index %d outside its box range [%d,%d]", i, idx, lo, hi)
			}
		}
	}
	if got := p.usemtl[len(p.usemtl)-1]; got != material.NameRoad {
		t.Errorf("last usemtl = %q, want mat_road", got)
	}
}

func TestExportFacesWindOutward(t *testing.T) {
	path := filepath.Join(t.TempDir(), "city.obj")
	if _, err := Export(mixedLayout(), material.Default(), path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	p := parseOBJ(t, path)
	vec := func(i int) mesh.Vec3 {
		v := p.vertices[i-1]
		return mesh.V(v[0], v[1], v[2])
	}
	for i, f := range p.faces {
		box := i / 12
		var c mesh.Vec3
		for k := 0; k < 8; k++ {
			c = c.Add(vec(box*8 + 1 + k))
		}
		c = c.Scale(1.0 / 8)
		a, b, d := vec(f[0]), vec(f[1]), vec(f[2])
		n := mesh.Normal(a, b, d)
		centre := a.Add(b).Add(d).Scale(1.0 / 3)
		if n.Dot(centre.Sub(c)) <= 0 {
			t.Errorf("face %d winds inward", i)
		}
	}
}

func TestWriterCounter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if w.Next() != 1 {
		t.Fatalf("first index = %d, want 1", w.Next())
	}
	w.UseMaterial("m")
	w.Box(mesh.ExtrudeRect(geo.R(0, 0, 1, 1), 0, 1))
	w.Box(mesh.ExtrudeRect(geo.R(2, 0, 3, 1), 0, 1))
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if w.Next() != 17 {
		t.Errorf("next = %d, want 17", w.Next())
	}
	if w.Next()-1 != w.Vertices() {
		t.Errorf("counter-1 = %d, vertices = %d", w.Next()-1, w.Vertices())
	}
	if strings.Count(buf.String(), "\nv ") != 16 {
		t.Errorf("vertex lines = %d, want 16", strings.Count(buf.String(), "\nv "))
	}
	if !strings.Contains(buf.String(), "f 9 11 10\n") {
		t.Error("second box bottom face should start at index 9")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriterPropagatesError(t *testing.T) {
	w := NewWriter(failWriter{})
	w.Box(mesh.ExtrudeRect(geo.R(0, 0, 1, 1), 0, 1))
	if err := w.Flush(); err == nil {
		t.Error("expected flush error")
	}
}

func TestWriteMaterials(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMaterials(&buf, material.Default()); err != nil {
		t.Fatalf("WriteMaterials failed: %v", err)
	}
	want := "newmtl mat_default\n" +
		"Ka 0.175 0.175 0.175\n" +
		"Kd 0.7 0.7 0.7\n" +
		"Ks 0.05 0.05 0.05\n" +
		"Ns 32\n" +
		"d 1.0\n" +
		"illum 2\n" +
		"\n"
	if !strings.HasPrefix(buf.String(), want) {
		t.Errorf("first block =\n%s\nwant\n%s", buf.String()[:len(want)], want)
	}
	if n := strings.Count(buf.String(), "newmtl "); n != 6 {
		t.Errorf("blocks = %d, want 6", n)
	}
	if !strings.Contains(buf.String(), "newmtl mat_road\nKa 0.0375 0.0375 0.0375\n") {
		t.Error("road block missing or wrong ambient")
	}
}

func TestExportUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "city.obj")
	_, err := Export(scenarioLayout(), material.Default(), path)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, output.ErrUnwritable) {
		t.Errorf("error %v does not match ErrUnwritable", err)
	}
}

func TestExportSidecarFailureIsNonFatal(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "city.mtl"), 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "city.obj")
	res, err := Export(scenarioLayout(), material.Default(), path)
	if !errors.Is(err, output.ErrUnwritable) {
		t.Fatalf("error = %v, want ErrUnwritable", err)
	}
	if res.MTLPath != "" {
		t.Errorf("mtl path = %q, want empty", res.MTLPath)
	}
	p := parseOBJ(t, path)
	if p.mtllib != "" {
		t.Errorf("mtllib = %q, want none", p.mtllib)
	}
	if len(p.vertices) != 8 || len(p.faces) != 12 {
		t.Errorf("obj incomplete: %d v / %d f", len(p.vertices), len(p.faces))
	}
}

func TestExportDeterministic(t *testing.T) {
	a := filepath.Join(t.TempDir(), "city.obj")
	b := filepath.Join(t.TempDir(), "city.obj")
	if _, err := Export(mixedLayout(), material.Default(), a); err != nil {
		t.Fatal(err)
	}
	if _, err := Export(mixedLayout(), material.Default(), b); err != nil {
		t.Fatal(err)
	}
	for _, ext := range []string{".obj", ".mtl"} {
		da, _ := os.ReadFile(output.ReplaceExt(a, ext))
		db, _ := os.ReadFile(output.ReplaceExt(b, ext))
		if !bytes.Equal(da, db) {
			t.Errorf("%s output differs between runs", ext)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{-1e-9, "0"},
		{2.5, "2.5"},
		{1.0000004, "1"},
		{0.1 + 0.2, "0.3"},
		{-0.8, "-0.8"},
		{1234567, "1234567"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
