package stellarium

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestBodyTree(t *testing.T) {
	sys := newTestSystem(t, DefaultConfig(), nil)
	planet := mustAdd(t, sys, sys.Sun().ID(), BodyConfig{Name: "Planet", Type: "planet", Orbit: fixedOrbit(1, 0, 0)})
	moon := mustAdd(t, sys, planet.ID(), BodyConfig{Name: "Moonlet", Type: "moon", Orbit: fixedOrbit(0, 0.01, 0)})
	craft := mustAdd(t, sys, moon.ID(), BodyConfig{Name: "Craft", Type: "artificial", Orbit: fixedOrbit(0, 0, 0.001)})
	computeAll(sys, J2000)

	if !vectorsEqual(craft.HeliocentricEclipticPos(), []float64{1, 0.01, 0.001}) {
		t.Fatalf("heliocentric position = %+v", craft.HeliocentricEclipticPos())
	}
	if !vectorsEqual(craft.HeliocentricEclipticPosAt(J2000+10), []float64{1, 0.01, 0.001}) {
		t.Fatalf("heliocentric position at date = %+v", craft.HeliocentricEclipticPosAt(J2000+10))
	}
	if !vectorsEqual(craft.EclipticPos(), []float64{0, 0, 0.001}) {
		t.Fatalf("parent relative position = %+v", craft.EclipticPos())
	}
	if !vectorsEqual(sys.Sun().HeliocentricEclipticPos(), []float64{0, 0, 0}) {
		t.Fatal("the Sun should be at the origin")
	}
	if craft.Parent() != moon || moon.Parent() != planet || planet.Parent() != sys.Sun() || sys.Sun().Parent() != nil {
		t.Fatal("invalid parents")
	}
	if sats := planet.Satellites(); len(sats) != 1 || sats[0] != moon {
		t.Fatalf("invalid satellites: %+v", sats)
	}
	if !sys.Sun().IsSun() || planet.IsSun() {
		t.Fatal("invalid IsSun")
	}
	if b, ok := sys.ByName("Moonlet"); !ok || b != moon {
		t.Fatal("ByName failed")
	}
	if _, ok := sys.ByName("Nope"); ok {
		t.Fatal("ByName should fail for unknown bodies")
	}
	if sys.Body(craft.ID()) != craft || sys.Body(42) != nil || sys.Body(NoParent) != nil {
		t.Fatal("Body failed")
	}
	if bodies := sys.Bodies(); len(bodies) != 4 || bodies[0] != sys.Sun() {
		t.Fatalf("invalid bodies: %+v", bodies)
	}
	if craft.String() != "Craft (artificial)" {
		t.Fatalf("String = %s", craft)
	}

	craft.SetHeliocentricEclipticPos([]float64{1.5, 0, 0})
	if !vectorsEqual(craft.EclipticPos(), []float64{0.5, -0.01, 0}) {
		t.Fatalf("parent relative position = %+v", craft.EclipticPos())
	}
	if !vectorsEqual(craft.HeliocentricEclipticPos(), []float64{1.5, 0, 0}) {
		t.Fatalf("heliocentric position = %+v", craft.HeliocentricEclipticPos())
	}
}

func TestAddBodyErrors(t *testing.T) {
	sys := newTestSystem(t, DefaultConfig(), nil)
	orbit := fixedOrbit(1, 0, 0)
	cases := map[string]struct {
		parent BodyID
		cfg    BodyConfig
	}{
		"duplicate":      {sys.Sun().ID(), BodyConfig{Name: "Sun", Type: "planet", Orbit: orbit}},
		"second root":    {NoParent, BodyConfig{Name: "Star", Type: "star"}},
		"unknown parent": {42, BodyConfig{Name: "Lost", Type: "planet", Orbit: orbit}},
		"missing orbit":  {sys.Sun().ID(), BodyConfig{Name: "Still", Type: "planet"}},
	}
	for name, c := range cases {
		if _, err := sys.AddBody(c.parent, c.cfg); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
	ctx, _ := NewContext(DefaultConfig(), nil, nil)
	if _, err := NewSystem(ctx).AddBody(NoParent, BodyConfig{Name: "Sun", Type: "star", Orbit: orbit}); err == nil {
		t.Fatal("the root should not accept an orbit")
	}
	assertPanic(t, func() {
		sys.AddBody(sys.Sun().ID(), BodyConfig{Name: "Blob", Type: "blob", Orbit: orbit})
	})
}

func TestBodyType(t *testing.T) {
	for _, c := range []struct {
		s   string
		exp BodyType
	}{{"star", Star}, {"Planet", Planet}, {"dwarf planet", DwarfPlanet}, {"Oort cloud object", OCO}, {"observer", Observer}} {
		bt, err := ParseBodyType(c.s)
		if err != nil || bt != c.exp {
			t.Fatalf("%s: got %s (%v)", c.s, bt, err)
		}
	}
	if _, err := ParseBodyType("UNDEFINED"); err == nil {
		t.Fatal("UNDEFINED is not a valid type")
	}
	if _, err := ParseBodyType("blob"); err == nil {
		t.Fatal("blob is not a valid type")
	}
	if BodyType(200).String() != "UNDEFINED" || Comet.String() != "comet" {
		t.Fatal("invalid type names")
	}
	if !(Artificial < Asteroid && Asteroid < Comet && Comet < DwarfPlanet) {
		t.Fatal("the type order is used by thresholds")
	}
}

func TestDeltaJDE(t *testing.T) {
	if b := newBody(BodyConfig{Name: "Mars", Type: "planet"}, 10); b.DeltaJDE() != 0.001*JDSecond {
		t.Fatalf("planet ΔJDE = %e", b.DeltaJDE())
	}
	if b := newBody(BodyConfig{Name: "Pluto", Type: "dwarf planet"}, 10); b.DeltaJDE() != JDSecond {
		t.Fatalf("Pluto ΔJDE = %e", b.DeltaJDE())
	}
	if b := newBody(BodyConfig{Name: "Sedna", Type: "sednoid"}, 10); b.DeltaJDE() != JDSecond {
		t.Fatalf("sednoid ΔJDE = %e", b.DeltaJDE())
	}
	if b := newBody(BodyConfig{Name: "Rock", Type: "asteroid"}, 10); b.SphereScale != 1 || b.cache.capacity != 20 {
		t.Fatalf("sphere scale %f, cache capacity %d", b.SphereScale, b.cache.capacity)
	}
}

func TestComputePosition(t *testing.T) {
	sys := newTestSystem(t, DefaultConfig(), nil)
	planet := mustAdd(t, sys, 0, BodyConfig{Name: "Planet", Type: "planet",
		Orbit: NewKeplerOrbit(1, 0, 0, 0, 0, J2000, 0, MeanMotion(1), 0, 0, 0)})
	planet.ComputePosition(J2000)
	pos := planet.EclipticPos()
	if !vectorsEqual(pos, []float64{1, 0, 0}) {
		t.Fatalf("position at J2000 = %+v", pos)
	}
	if !scalar.EqualWithinAbs(norm(planet.EclipticVelocity()), GaussK, 1e-12) {
		t.Fatalf("velocity = %+v", planet.EclipticVelocity())
	}
	// Below the threshold nothing is recomputed.
	planet.ComputePosition(J2000 + 0.0005*JDSecond)
	if planet.LastJDE() != J2000 || !vectorsEqual(planet.EclipticPos(), pos) {
		t.Fatal("position should not have been recomputed")
	}
	planet.ComputePosition(J2000 + 30)
	if planet.LastJDE() != J2000+30 || vectorsEqual(planet.EclipticPos(), pos) {
		t.Fatal("position should have been recomputed")
	}
	// The returned vectors are copies.
	p := planet.EclipticPos()
	p[0] = 42
	if planet.EclipticPos()[0] == 42 {
		t.Fatal("EclipticPos should return a copy")
	}
}

func TestComputeDistance(t *testing.T) {
	sys := newTestSystem(t, DefaultConfig(), nil)
	planet := mustAdd(t, sys, 0, BodyConfig{Name: "Planet", Type: "planet", Orbit: fixedOrbit(1.5, 0, 0)})
	rock := mustAdd(t, sys, 0, BodyConfig{Name: "Rock", Type: "asteroid", Orbit: fixedOrbit(3, 0, 0)})
	computeAll(sys, J2000)
	sys.ComputeDistances(ObserverContext{HelioPos: []float64{1, 0, 0}})
	if rock.Distance() != 2 || rock.DeltaJDE() != 2*JDSecond {
		t.Fatalf("rock: distance=%f ΔJDE=%e", rock.Distance(), rock.DeltaJDE())
	}
	if planet.Distance() != 0.5 || planet.DeltaJDE() != 0.001*JDSecond {
		t.Fatalf("planet: distance=%f ΔJDE=%e", planet.Distance(), planet.DeltaJDE())
	}
}

func TestEclipticPosAtCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.OrbitSegments = 2
	sys := newTestSystem(t, cfg, metrics)
	planet := mustAdd(t, sys, 0, BodyConfig{Name: "Planet", Type: "planet",
		Orbit: NewKeplerOrbit(1, 0, 0, 0, 0, J2000, 0, MeanMotion(1), 0, 0, 0)})
	planet.ComputePosition(J2000)
	if v := testutil.ToFloat64(metrics.OrbitEvaluations.WithLabelValues("planet")); v != 1 {
		t.Fatalf("orbit evaluations = %f", v)
	}

	// The last computed date is not cached.
	if !vectorsEqual(planet.EclipticPosAt(J2000), planet.EclipticPos()) {
		t.Fatal("EclipticPosAt at the last date differs")
	}
	if testutil.ToFloat64(metrics.CacheMisses) != 0 || testutil.ToFloat64(metrics.CacheHits) != 0 {
		t.Fatal("the last date should not use the cache")
	}

	first := planet.EclipticPosAt(J2000 + 10)
	second := planet.EclipticPosAt(J2000 + 10)
	if !vectorsEqual(first, second) {
		t.Fatalf("cache returned a different position: %+v != %+v", first, second)
	}
	exp, _ := planet.Orbit().PositionAt(J2000 + 10)
	if !vectorsEqual(first, exp) {
		t.Fatalf("position at date = %+v exp %+v", first, exp)
	}
	if hits, misses := testutil.ToFloat64(metrics.CacheHits), testutil.ToFloat64(metrics.CacheMisses); hits != 1 || misses != 1 {
		t.Fatalf("hits=%f misses=%f", hits, misses)
	}

	// Two segments give a capacity of four positions.
	for k := 1; k <= 4; k++ {
		planet.EclipticPosAt(J2000 + 10 + float64(k))
	}
	if v := testutil.ToFloat64(metrics.CacheEvictions); v != 1 {
		t.Fatalf("evictions = %f", v)
	}
	if planet.cache.len() != 4 {
		t.Fatalf("cache length = %d", planet.cache.len())
	}
}

func TestRADec(t *testing.T) {
	sys := newTestSystem(t, DefaultConfig(), nil)
	target := mustAdd(t, sys, 0, BodyConfig{Name: "Target", Type: "asteroid", Orbit: fixedOrbit(1, 1, 0)})
	behind := mustAdd(t, sys, 0, BodyConfig{Name: "Behind", Type: "asteroid", Orbit: fixedOrbit(1, -1, 0)})
	computeAll(sys, J2000)
	obs := ObserverContext{HelioPos: []float64{1, 0, 0}, JD: J2000, JDE: J2000}
	// Along the ecliptic y axis, the declination is the obliquity.
	ra, dec := target.RADec(obs)
	if !scalar.EqualWithinAbs(ra, 90, 1e-3) || !scalar.EqualWithinAbs(dec, 23.4392794, 1e-3) {
		t.Fatalf("ra=%f dec=%f", ra, dec)
	}
	ra, dec = behind.RADec(obs)
	if !scalar.EqualWithinAbs(ra, 270, 1e-3) || !scalar.EqualWithinAbs(dec, -23.4392794, 1e-3) {
		t.Fatalf("ra=%f dec=%f", ra, dec)
	}
}
