package stellarium

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestInterpolatedStates(t *testing.T) {
	states := []*CgInterpolatedState{
		{JD: 2451545, Position: []float64{1.5, -2.25, 3}, Velocity: []float64{0.5, 0, -0.125}},
		{JD: 2451546.5, Position: []float64{149597870.7, 0, 0}, Velocity: []float64{0, 29.78, 0}},
	}
	if txt := states[0].ToText(); txt != "2451545.000000 1.500000 -2.250000 3.000000 0.500000 0.000000 -0.125000" {
		t.Fatalf("invalid text: %s", txt)
	}
	var buf bytes.Buffer
	if err := WriteInterpolatedStates(&buf, states); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "# Creation date (UTC)") {
		t.Fatalf("missing header: %s", buf.String())
	}
	parsed, err := ParseInterpolatedStates(buf.String())
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != len(states) {
		t.Fatalf("parsed %d states", len(parsed))
	}
	for i, s := range parsed {
		if s.JD != states[i].JD || !vectorsEqual(s.Position, states[i].Position) || !vectorsEqual(s.Velocity, states[i].Velocity) {
			t.Fatalf("state %d: %+v != %+v", i, s, states[i])
		}
	}

	var state CgInterpolatedState
	if err := state.FromText([]string{"1", "2", "3"}); err == nil {
		t.Fatal("expected an error for too few fields")
	}
	if err := state.FromText([]string{"1", "2", "3", "4", "5", "6", "seven"}); err == nil {
		t.Fatal("expected an error for an invalid field")
	}
	if _, err := ParseInterpolatedStates("1 2 3 4 5 6 x\n"); err == nil {
		t.Fatal("expected an error for an invalid record")
	}
}

func TestCgTrajectory(t *testing.T) {
	if err := (&CgTrajectory{Type: "InterpolatedStates", Source: "states.xyzv"}).Validate(); err != nil {
		t.Fatal(err)
	}
	if err := (&CgTrajectory{Type: "Builtin", Source: "states.xyzv"}).Validate(); err == nil || !strings.HasPrefix(err.Error(), "states.xyzv as Builtin") {
		t.Fatalf("only InterpolatedStates are supported: %v", err)
	}
	if s := (&CgTrajectory{Type: "InterpolatedStates", Source: "a.xyzv"}).String(); s != "a.xyzv as InterpolatedStates" {
		t.Fatalf("String = %s", s)
	}
	if c := cosmographiaClass(DwarfPlanet); c != "planet" {
		t.Fatalf("class = %s", c)
	}
	if c := cosmographiaClass(Sednoid); c != "asteroid" {
		t.Fatalf("class = %s", c)
	}
	if c := cosmographiaClass(Artificial); c != "spacecraft" {
		t.Fatalf("class = %s", c)
	}
}

func TestHeliocentricStateAt(t *testing.T) {
	sys := newTestSystem(t, DefaultConfig(), nil)
	planet := mustAdd(t, sys, 0, BodyConfig{Name: "Planet", Type: "planet",
		Orbit: NewKeplerOrbit(1, 0, 0, 0, 0, J2000, 0, MeanMotion(1), 0, 0, 0)})
	moon := mustAdd(t, sys, planet.ID(), BodyConfig{Name: "Moonlet", Type: "moon", Orbit: fixedOrbit(0.01, 0, 0)})
	state := HeliocentricStateAt(moon, J2000)
	if !vectorsEqual(state.Position, []float64{1.01 * AU, 0, 0}) {
		t.Fatalf("position = %+v", state.Position)
	}
	if !scalar.EqualWithinAbs(norm(state.Velocity), GaussK*AU/86400, 1e-9) {
		t.Fatalf("velocity = %+v", state.Velocity)
	}
	if states := SampleStates(moon, J2000, J2000+10, 2.5); len(states) != 5 {
		t.Fatalf("%d states", len(states))
	}
	if SampleStates(moon, J2000, J2000+10, 0) != nil || SampleStates(moon, J2000+10, J2000, 1) != nil {
		t.Fatal("invalid sampling should return nothing")
	}
}

func TestExport(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OrbitSegments = 12
	sys := newTestSystem(t, cfg, nil)
	planet := mustAdd(t, sys, 0, BodyConfig{Name: "Planet", Type: "planet",
		Orbit: NewKeplerOrbit(1, 0, 0, 0, 0, J2000, 0, MeanMotion(1), 0, 0, 0)})
	planet.SetRotationElements(1, 0, J2000, 0, 0, 0, 0, 0, 0, 0, 0, CalculateSiderealPeriod(1))
	computeAll(sys, J2000)
	planet.ComputeOrbitPath()

	if !(ExportConfig{}).IsUseless() {
		t.Fatal("an empty export config is useless")
	}
	dir := t.TempDir()
	conf := ExportConfig{Filename: "test", OutputDir: dir, Cosmo: true, AsCSV: true}
	written, err := Export(conf, sys.Bodies(), J2000, J2000+2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 3 {
		t.Fatalf("written: %+v", written)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "catalog-test.json"))
	if err != nil {
		t.Fatal(err)
	}
	var catalog CgCatalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		t.Fatal(err)
	}
	if len(catalog.Items) != 1 || catalog.Items[0].Name != "Planet" || catalog.Items[0].Class != "planet" {
		t.Fatalf("invalid catalog: %s", raw)
	}
	if err := catalog.Items[0].Trajectory.Validate(); err != nil {
		t.Fatal(err)
	}

	states, err := LoadInterpolatedStates(filepath.Join(dir, catalog.Items[0].Trajectory.Source))
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 3 {
		t.Fatalf("%d states", len(states))
	}
	for _, s := range states {
		if !scalar.EqualWithinRel(norm(s.Position), AU, 1e-9) {
			t.Fatalf("|R| = %f km", norm(s.Position))
		}
	}

	raw, err = os.ReadFile(filepath.Join(dir, "orbit-test-Planet.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 13 || lines[0] != "x,y,z" {
		t.Fatalf("invalid orbit path: %s", raw)
	}
	if _, err := LoadInterpolatedStates(filepath.Join(dir, "missing.xyzv")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
