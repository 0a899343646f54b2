package stellarium

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestWillCastShadow(t *testing.T) {
	sys := newTestSystem(t, DefaultConfig(), nil)
	planet := mustAdd(t, sys, 0, BodyConfig{Name: "Planet", Type: "planet", EquatorialRadius: 1e-4, Orbit: fixedOrbit(1, 0, 0)})
	behind := mustAdd(t, sys, planet.ID(), BodyConfig{Name: "Behind", Type: "moon", EquatorialRadius: 1e-6, Orbit: fixedOrbit(0.01, 0, 0)})
	aside := mustAdd(t, sys, planet.ID(), BodyConfig{Name: "Aside", Type: "moon", EquatorialRadius: 1e-6, Orbit: fixedOrbit(0.01, 0.01, 0)})
	inner := mustAdd(t, sys, planet.ID(), BodyConfig{Name: "Inner", Type: "moon", EquatorialRadius: 1e-5, Orbit: fixedOrbit(0.005, 0, 0)})
	computeAll(sys, J2000)

	if !behind.WillCastShadow(planet) {
		t.Fatal("the planet should shadow the moon behind it")
	}
	if aside.WillCastShadow(planet) {
		t.Fatal("the planet should not shadow the moon on its side")
	}
	if planet.WillCastShadow(behind) {
		t.Fatal("a body farther from the Sun cannot cast a shadow")
	}

	candidates := behind.CandidatesForShadow()
	if len(candidates) != 2 || candidates[0] != planet || candidates[1] != inner {
		t.Fatalf("invalid candidates: %+v", candidates)
	}
	if c := aside.CandidatesForShadow(); len(c) != 0 {
		t.Fatalf("invalid candidates: %+v", c)
	}
}

func TestSunCastsNoShadow(t *testing.T) {
	sys := newTestSystem(t, DefaultConfig(), nil)
	planet := mustAdd(t, sys, 0, BodyConfig{Name: "Planet", Type: "planet", EquatorialRadius: 1e-4, Orbit: fixedOrbit(1, 0, 0)})
	moon := mustAdd(t, sys, planet.ID(), BodyConfig{Name: "Moon", Type: "moon", EquatorialRadius: 1e-5, Orbit: fixedOrbit(-0.002, 0, 0)})
	computeAll(sys, J2000)

	sun := sys.Sun()
	if planet.WillCastShadow(sun) || sun.WillCastShadow(planet) {
		t.Fatal("the Sun neither casts nor receives shadows")
	}
	candidates := planet.CandidatesForShadow()
	if len(candidates) != 1 || candidates[0] != moon {
		t.Fatalf("invalid candidates: %+v", candidates)
	}
}

func TestCandidatesForShadowEmpty(t *testing.T) {
	sys := newTestSystem(t, DefaultConfig(), nil)
	lonely := mustAdd(t, sys, 0, BodyConfig{Name: "Lonely", Type: "planet", EquatorialRadius: 1e-4, Orbit: fixedOrbit(1, 0, 0)})
	mustAdd(t, sys, 0, BodyConfig{Name: "Inner", Type: "planet", EquatorialRadius: 1e-3, Orbit: fixedOrbit(0.5, 0, 0)})
	computeAll(sys, J2000)
	if c := sys.Sun().CandidatesForShadow(); len(c) != 0 {
		t.Fatalf("the Sun has no shadow candidates: %+v", c)
	}
	if c := lonely.CandidatesForShadow(); len(c) != 0 {
		t.Fatalf("a planet without satellites has no shadow candidates: %+v", c)
	}
}

// eclipseSystem places the observer on a planet at 1 AU with a moon of the
// provided radius (km) at the provided heliocentric distance.
func eclipseSystem(t *testing.T, moonRadius, moonX float64) (*System, ObserverContext) {
	sys := newTestSystem(t, DefaultConfig(), nil)
	earth := mustAdd(t, sys, 0, BodyConfig{Name: "Earth", Type: "planet", EquatorialRadius: 6378.137 / AU, Orbit: fixedOrbit(1, 0, 0)})
	mustAdd(t, sys, earth.ID(), BodyConfig{Name: "Moon", Type: "moon", EquatorialRadius: moonRadius / AU, Orbit: fixedOrbit(moonX, 0, 0)})
	computeAll(sys, J2000)
	return sys, ObserverContext{HelioPos: earth.HeliocentricEclipticPos(), Planet: "Earth", JD: J2000, JDE: J2000}
}

func TestEclipseFactor(t *testing.T) {
	// Moon between the Sun and the observer.
	sys, obs := eclipseSystem(t, 2000, -0.0025)
	if f := sys.EclipseFactor(obs); f != 0 {
		t.Fatalf("total eclipse factor = %f", f)
	}
	// Moon behind the observer.
	sys, obs = eclipseSystem(t, 2000, 0.0025)
	if f := sys.EclipseFactor(obs); f != 1 {
		t.Fatalf("no eclipse factor = %f", f)
	}
	// Annular eclipse.
	sys, obs = eclipseSystem(t, 1500, -0.0025)
	R, r := SunRadius, 1500/AU/0.0025
	if f := sys.EclipseFactor(obs); !scalar.EqualWithinAbs(f, 1-r*r/(R*R), 1e-12) {
		t.Fatalf("annular eclipse factor = %f", f)
	}
	// Partial eclipse, strictly between both.
	sys, obs = eclipseSystem(t, 2000, -0.0025)
	sys.bodies[2].SetHeliocentricEclipticPos([]float64{1 - 0.0025, 0.0025 * SunRadius, 0})
	if f := sys.EclipseFactor(obs); f <= 0 || f >= 1 {
		t.Fatalf("partial eclipse factor = %f", f)
	}
	// An empty system has no eclipse.
	ctx, _ := NewContext(DefaultConfig(), nil, nil)
	if f := NewSystem(ctx).EclipseFactor(obs); f != 1 {
		t.Fatalf("empty system eclipse factor = %f", f)
	}
}
