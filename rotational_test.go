package stellarium

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

func TestSiderealTimeTraditional(t *testing.T) {
	sys := newTestSystem(t, DefaultConfig(), nil)
	b := mustAdd(t, sys, 0, BodyConfig{Name: "Planet", Type: "planet", Orbit: fixedOrbit(1, 0, 0)})
	b.SetRotationElements(1, 10, J2000, 0.1, 0.2, 0, 0, 0, 0, 0, 0, 365)
	if b.RotationModel() != Traditional {
		t.Fatalf("model = %s", b.RotationModel())
	}
	if st := b.SiderealTime(J2000, J2000+0.25); !scalar.EqualWithinAbs(st, 100, 1e-9) {
		t.Fatalf("sidereal time = %f", st)
	}
	if st := b.SiderealTime(J2000, J2000+3.75); !scalar.EqualWithinAbs(st, -80, 1e-9) {
		t.Fatalf("sidereal time = %f", st)
	}
	if b.SiderealDay() != 1 || b.SiderealPeriod() != 365 {
		t.Fatal("invalid periods")
	}
	b.ComputeTransMatrix(J2000, J2000+0.25)
	if !scalar.EqualWithinAbs(b.AxisRotation(), 100, 1e-9) {
		t.Fatalf("axis rotation = %f", b.AxisRotation())
	}
	if !mat.EqualApprox(b.RotLocalToParent(), Rmul(Rz(0.2), Rx(0.1)), 1e-15) {
		t.Fatal("invalid local to parent rotation")
	}
	if b.RotObliquity(J2000) != 0.1 || b.RotAscendingNode() != 0.2 {
		t.Fatal("invalid rotation angles")
	}
}

func TestSiderealTimeChaotic(t *testing.T) {
	sys := newTestSystem(t, DefaultConfig(), nil)
	b := mustAdd(t, sys, 0, BodyConfig{Name: "Tumbler", Type: "asteroid", Orbit: fixedOrbit(2, 0, 0)})
	b.SetRotationElements(0, 42, J2000, 0, 0, 0, 0, 0, 0, 0, 0, 1000)
	for _, dt := range []float64{0, 0.3, 1000} {
		if st := b.SiderealTime(J2000, J2000+dt); st != 42 {
			t.Fatalf("sidereal time = %f", st)
		}
	}
}

func TestSiderealTimeIAU(t *testing.T) {
	sys := newTestSystem(t, DefaultConfig(), nil)
	b := mustAdd(t, sys, 0, BodyConfig{Name: "Planet", Type: "planet", Orbit: fixedOrbit(1, 0, 0)})
	b.SetRotationElements(1, 0, J2000, 0, 0, 0, 0, math.Pi/2, 0, 100, 10, 365)
	if b.RotationModel() != IAU || b.RotationModel().String() != "IAU" {
		t.Fatalf("model = %s", b.RotationModel())
	}
	if st := b.SiderealTime(J2000, J2000+3); !scalar.EqualWithinAbs(st, 130, 1e-9) {
		t.Fatalf("sidereal time = %f", st)
	}
	if st := b.SiderealTime(J2000, J2000+40); !scalar.EqualWithinAbs(st, 140, 1e-9) {
		t.Fatalf("sidereal time = %f", st)
	}
	// The pole of the J2000 equator.
	b.ComputeTransMatrix(J2000, J2000)
	pole := MxV33(b.RotEquatorialToVsop87(), []float64{0, 0, 1})
	if exp := MxV33(J2000ToVSOP87, []float64{0, 0, 1}); !vectorsEqual(pole, exp) {
		t.Fatalf("pole = %+v exp %+v", pole, exp)
	}
	if !scalar.EqualWithinAbs(b.RotObliquity(J2000), ε0, 1e-9) {
		t.Fatalf("obliquity = %f", b.RotObliquity(J2000))
	}
}

func TestRotEquatorialToVsop87(t *testing.T) {
	sys := newTestSystem(t, DefaultConfig(), nil)
	planet := mustAdd(t, sys, 0, BodyConfig{Name: "Planet", Type: "planet", Orbit: fixedOrbit(1, 0, 0)})
	planet.SetRotationElements(1, 0, J2000, 0.4, 1.0, 0, 0, 0, 0, 0, 0, 365)
	moon := mustAdd(t, sys, planet.ID(), BodyConfig{Name: "Moonlet", Type: "moon", Orbit: fixedOrbit(0.01, 0, 0)})
	moon.SetRotationElements(1, 0, J2000, 0.1, 0.3, 0, 0, 0, 0, 0, 0, 10)
	// Traditional moons are referred to their parent's equator.
	if exp := Rmul(planet.RotLocalToParent(), moon.RotLocalToParent()); !mat.EqualApprox(moon.RotEquatorialToVsop87(), exp, 1e-15) {
		t.Fatal("invalid chain of rotations")
	}
	m := Rmul(Rz(0.3), Rx(0.2))
	moon.SetRotEquatorialToVsop87(m)
	if !mat.EqualApprox(moon.RotEquatorialToVsop87(), m, 1e-14) {
		t.Fatalf("round trip failed:\n%v", mat.Formatted(moon.RotEquatorialToVsop87()))
	}
}

func TestEarthTransMatrix(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Nutation = false
	sys := newTestSystem(t, cfg, nil)
	earth := mustAdd(t, sys, 0, BodyConfig{Name: "Earth", Type: "planet", Orbit: fixedOrbit(1, 0, 0)})
	earth.SetRotationElements(0.99726968, 0, J2000, 0, 0, 0, 0, math.Pi/2, 0, 0, 0, 365.256363)
	earth.ComputeTransMatrix(J2000, J2000)
	if !mat.EqualApprox(earth.RotLocalToParent(), Rx(-ε0), 1e-15) {
		t.Fatalf("invalid Earth rotation:\n%v", mat.Formatted(earth.RotLocalToParent()))
	}
	// Greenwich mean sidereal time at J2000 is 18.697374558 h.
	if st := earth.AxisRotation(); !scalar.EqualWithinAbs(st, 280.46061837, 1e-3) {
		t.Fatalf("sidereal time = %f", st)
	}
	if !scalar.EqualWithinAbs(earth.RotObliquity(J2000), ε0, 1e-15) {
		t.Fatalf("obliquity = %f", earth.RotObliquity(J2000))
	}
}

func TestJupiterRotation(t *testing.T) {
	jde := 2456908.0
	def := jupiterRotation(jde, GRSConfig{})
	custom := jupiterRotation(jde, GRSConfig{Custom: true, Longitude: 216, Drift: 15, JD: 2456908})
	if !scalar.EqualWithinAbs(def, custom, 1e-9) {
		t.Fatalf("default %f != custom %f", def, custom)
	}
	shifted := jupiterRotation(jde, GRSConfig{Custom: true, Longitude: 226, Drift: 15, JD: 2456908})
	if !scalar.EqualWithinAbs(shifted-def, -10, 1e-9) {
		t.Fatalf("shift = %f", shifted-def)
	}
	later := jupiterRotation(jde+365.25, GRSConfig{Custom: true, Longitude: 216, Drift: 15, JD: 2456908})
	free := jupiterRotation(jde+365.25, GRSConfig{Custom: true, Longitude: 216, JD: 2456908})
	if !scalar.EqualWithinAbs(later-free, -15, 1e-9) {
		t.Fatalf("drift = %f", later-free)
	}

	cfg := DefaultConfig()
	cfg.GRS = GRSConfig{Custom: true, Longitude: 226, Drift: 15, JD: 2456908}
	sys := newTestSystem(t, cfg, nil)
	jupiter := mustAdd(t, sys, 0, BodyConfig{Name: "Jupiter", Type: "planet", Orbit: fixedOrbit(5.2, 0, 0)})
	jupiter.SetRotationElements(0.41353831, 0, J2000, 0.05, 0.1, 0, 0, 0, 0, 0, 0, 4332.59)
	if st := jupiter.SiderealTime(jde, jde); !scalar.EqualWithinAbs(st, shifted, 1e-9) {
		t.Fatalf("Jupiter sidereal time = %f", st)
	}
}

func TestMeanSolarDay(t *testing.T) {
	sys := newTestSystem(t, DefaultConfig(), nil)
	earth := mustAdd(t, sys, 0, BodyConfig{Name: "Earth", Type: "planet", Orbit: fixedOrbit(1, 0, 0)})
	earth.SetRotationElements(0.99726968, 0, J2000, 0, 0, 0, 0, math.Pi/2, 0, 0, 0, 365.256363)
	moon := mustAdd(t, sys, earth.ID(), BodyConfig{Name: "Moon", Type: "moon", Orbit: fixedOrbit(0.0025, 0, 0)})
	moon.SetRotationElements(27.321661, 0, J2000, 0, 0, 0, 0, 0, 0, 38.3213, 13.17635815, 27.321661)
	venus := mustAdd(t, sys, 0, BodyConfig{Name: "Venus", Type: "planet", Orbit: fixedOrbit(0.72, 0, 0)})
	venus.SetRotationElements(243.0185, 0, J2000, 0, 0, 0, 0, 0, 0, 160.20, -1.4813688, 224.701)

	if d := sys.Sun().MeanSolarDay(); d != 1 {
		t.Fatalf("Sun: %f", d)
	}
	if d := earth.MeanSolarDay(); !scalar.EqualWithinAbs(d, 1, 1e-4) {
		t.Fatalf("Earth: %f", d)
	}
	if d := moon.MeanSolarDay(); !scalar.EqualWithinAbs(d, 29.53, 1e-2) {
		t.Fatalf("Moon: %f", d)
	}
	if d := venus.MeanSolarDay(); !scalar.EqualWithinAbs(d, -116.75, 1e-2) {
		t.Fatalf("Venus: %f", d)
	}
}

func TestKeplerSiderealPeriod(t *testing.T) {
	sys := newTestSystem(t, DefaultConfig(), nil)
	rock := mustAdd(t, sys, 0, BodyConfig{Name: "Rock", Type: "asteroid",
		Orbit: NewKeplerOrbit(1.8, 0.1, 0, 0, 0, J2000, 0, MeanMotion(2), 0, 0, 0)})
	rock.SetRotationElements(0.3, 0, J2000, 0, 0, 0, 0, 0, 0, 0, 0, 1)
	if p := rock.SiderealPeriod(); !scalar.EqualWithinAbs(p, 1033.1025187268478, 1e-6) {
		t.Fatalf("period = %f", p)
	}
	if !rock.CloseOrbit() {
		t.Fatal("bound orbits are closed")
	}
	if !scalar.EqualWithinAbs(rock.DeltaOrbitJDE(), rock.SiderealPeriod()/DefaultOrbitSegments, 1e-12) {
		t.Fatalf("ΔJDE = %f", rock.DeltaOrbitJDE())
	}

	comet := mustAdd(t, sys, 0, BodyConfig{Name: "Comet", Type: "comet",
		Orbit: NewKeplerOrbit(0.5, 0.95, 0, 0, 0, J2000, 0, MeanMotion(10), 0, 0, 0)})
	comet.SetRotationElements(0.3, 0, J2000, 0, 0, 0, 0, 0, 0, 0, 0, 5000)
	if comet.SiderealPeriod() != 5000 || comet.CloseOrbit() {
		t.Fatalf("comet: period=%f closed=%v", comet.SiderealPeriod(), comet.CloseOrbit())
	}

	planet := mustAdd(t, sys, 0, BodyConfig{Name: "Planet", Type: "planet",
		Orbit: NewKeplerOrbit(1.8, 0.1, 0, 0, 0, J2000, 0, MeanMotion(2), 0, 0, 0)})
	planet.SetRotationElements(0.3, 0, J2000, 0, 0, 0, 0, 0, 0, 0, 0, 1000)
	if planet.SiderealPeriod() != 1000 || !planet.CloseOrbit() {
		t.Fatal("major bodies keep their configured period")
	}
}

func TestIAUPoleCorrections(t *testing.T) {
	for _, c := range []struct {
		name, kind       string
		ra0, ra1         float64 // degrees, degrees per century
		de0, de1, w0, w1 float64
		minOffset        float64 // radians
	}{
		{"Moon", "moon", 269.9949, 0.0031, 66.5392, 0.0130, 38.3213, 13.17635815, 0.01},
		// A Jupiter configured with IAU elements reaches the Ja terms.
		{"Jupiter", "planet", 268.056595, -0.006499, 64.495303, 0.002413, 284.95, 870.536, 1e-7},
	} {
		sys := newTestSystem(t, DefaultConfig(), nil)
		b := mustAdd(t, sys, 0, BodyConfig{Name: c.name, Type: c.kind, Orbit: fixedOrbit(1, 0, 0)})
		b.SetRotationElements(1, 0, J2000, 0, 0, c.ra0*deg2rad, c.ra1*deg2rad, c.de0*deg2rad, c.de1*deg2rad, c.w0, c.w1, 0)
		if b.RotationModel() != IAU {
			t.Fatalf("%s: expected the IAU model", c.name)
		}
		jde := J2000 + 100
		b.ComputeTransMatrix(jde, jde)
		pole := MxV33(b.RotEquatorialToVsop87(), []float64{0, 0, 1})

		T := 100 / 36525.
		ra, de := (c.ra0+c.ra1*T)*deg2rad, (c.de0+c.de1*T)*deg2rad
		ΔRA, ΔDE := b.correction.poleCorrection(sys.Context().Corrections, jde)
		corrected := MxV33(J2000ToVSOP87, LonLat2Cartesian(ra+ΔRA, de+ΔDE))
		uncorrected := MxV33(J2000ToVSOP87, LonLat2Cartesian(ra, de))
		if !vectorsEqual(pole, corrected) {
			t.Fatalf("%s: pole %+v != %+v", c.name, pole, corrected)
		}
		if δ := norm(sub(pole, uncorrected)); δ < c.minOffset {
			t.Fatalf("%s: pole only %g away from the uncorrected pole", c.name, δ)
		}
	}
}
