package stellarium

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	sunit "github.com/soniakeys/unit"
)

// elements are osculating elements in degrees at epoch. Sun-centred orbits are
// referred to the VSOP87 ecliptic; satellite orbits to their parent's equator.
type elements struct {
	a, e, i, Ω, ϖ, L float64
	epoch            float64
	period           float64 // days, only for satellites
}

// perihelion are the elements of a comet in degrees, with the time of perihelion.
type perihelion struct {
	q, e, i, Ω, ω, T float64
}

// rotation are IAU style elements: pole in degrees and degrees per century, W in
// degrees and degrees per day. A zero W0 is a Traditional rotator.
type rotation struct {
	period, siderealPeriod float64
	ra0, ra1, de0, de1     float64
	w0, w1                 float64
}

type catalogEntry struct {
	name, kind, parent    string
	radius                float64 // km
	ringRadius            float64 // km
	oblateness, albedo, H float64
	vsop87                int // meeus planetposition index, -1 if none
	ephemeris             func() EphemerisFunc
	kepler                *elements
	comet                 *perihelion
	rot                   rotation
}

// catalog lists the built-in bodies, parents first.
var catalog = []catalogEntry{
	{name: "Sun", kind: "star", radius: 696000, albedo: -1, H: undefinedAbsoluteMagnitude, vsop87: -1,
		rot: rotation{period: 25.38, ra0: 286.13, de0: 63.87}},
	{name: "Mercury", kind: "planet", parent: "Sun", radius: 2440.53, albedo: 0.106, H: -0.6, vsop87: 0,
		kepler: &elements{a: 0.38709927, e: 0.20563593, i: 7.00497902, Ω: 48.33076593, ϖ: 77.45779628, L: 252.25032350, epoch: J2000},
		rot:    rotation{period: 58.6462, siderealPeriod: 87.9691, ra0: 281.0103, ra1: -0.0328, de0: 61.4155, de1: -0.0049, w0: 329.5988, w1: 6.1385108}},
	{name: "Venus", kind: "planet", parent: "Sun", radius: 6051.8, albedo: 0.65, H: -4.47, vsop87: 1,
		kepler: &elements{a: 0.72333566, e: 0.00677672, i: 3.39467605, Ω: 76.67984255, ϖ: 131.60246718, L: 181.97909950, epoch: J2000},
		rot:    rotation{period: 243.0185, siderealPeriod: 224.701, ra0: 272.76, de0: 67.16, w0: 160.20, w1: -1.4813688}},
	{name: "Earth", kind: "planet", parent: "Sun", radius: 6378.137, oblateness: 0.0033528, albedo: 0.30, H: -3.87, vsop87: 2,
		kepler: &elements{a: 1.00000261, e: 0.01671123, i: -0.00001531, Ω: 0, ϖ: 102.93768193, L: 100.46457166, epoch: J2000},
		rot:    rotation{period: 0.99726968, siderealPeriod: 365.256363, ra0: 0, de0: 90}},
	{name: "Moon", kind: "moon", parent: "Earth", radius: 1737.4, oblateness: 0.0012, albedo: 0.12, H: 0.21, vsop87: -1, ephemeris: MoonEphemeris,
		rot: rotation{period: 27.321661, siderealPeriod: 27.321661, ra0: 269.9949, ra1: 0.0031, de0: 66.5392, de1: 0.0130, w0: 38.3213, w1: 13.17635815}},
	{name: "Mars", kind: "planet", parent: "Sun", radius: 3396.19, oblateness: 0.00589, albedo: 0.15, H: -1.52, vsop87: 3,
		kepler: &elements{a: 1.52371034, e: 0.09339410, i: 1.84969142, Ω: 49.55953891, ϖ: -23.94362959, L: -4.55343205, epoch: J2000},
		rot:    rotation{period: 1.02595676, siderealPeriod: 686.971, ra0: 317.68143, ra1: -0.1061, de0: 52.88650, de1: -0.0609, w0: 176.630, w1: 350.89198226}},
	{name: "Phobos", kind: "moon", parent: "Mars", radius: 13.0, albedo: 0.071, H: 11.8, vsop87: -1,
		kepler: &elements{a: 9376 / AU, e: 0.0151, i: 1.075, Ω: 164.931, ϖ: 150.247 + 164.931, L: 92.474 + 150.247 + 164.931, epoch: J2000, period: 0.31891023},
		rot:    rotation{period: 0.31891023, siderealPeriod: 0.31891023, ra0: 317.68, ra1: -0.108, de0: 52.90, de1: -0.061, w0: 35.06, w1: 1128.8445850}},
	{name: "Deimos", kind: "moon", parent: "Mars", radius: 7.8, albedo: 0.068, H: 12.89, vsop87: -1,
		kepler: &elements{a: 23458 / AU, e: 0.0002, i: 1.788, Ω: 339.600, ϖ: 290.496 + 339.600, L: 296.230 + 290.496 + 339.600, epoch: J2000, period: 1.2624407},
		rot:    rotation{period: 1.2624407, siderealPeriod: 1.2624407, ra0: 316.65, ra1: -0.108, de0: 53.52, de1: -0.061, w0: 79.41, w1: 285.1618970}},
	{name: "Jupiter", kind: "planet", parent: "Sun", radius: 71492, oblateness: 0.06487, albedo: 0.52, H: -9.40, vsop87: 4,
		kepler: &elements{a: 5.20288700, e: 0.04838624, i: 1.30439695, Ω: 100.47390909, ϖ: 14.72847983, L: 34.39644051, epoch: J2000},
		rot:    rotation{period: 0.41353831, siderealPeriod: 4332.59, ra0: 268.056595, de0: 64.495303}},
	{name: "Io", kind: "moon", parent: "Jupiter", radius: 1821.49, albedo: 0.63, H: -1.68, vsop87: -1,
		kepler: &elements{a: 421800 / AU, e: 0.0041, i: 0.036, Ω: 43.977, ϖ: 84.129 + 43.977, L: 342.021 + 84.129 + 43.977, epoch: J2000, period: 1.769138},
		rot:    rotation{period: 1.769138, siderealPeriod: 1.769138, ra0: 268.05, ra1: -0.009, de0: 64.50, de1: 0.003, w0: 200.39, w1: 203.4889538}},
	{name: "Europa", kind: "moon", parent: "Jupiter", radius: 1560.8, albedo: 0.67, H: -1.41, vsop87: -1,
		kepler: &elements{a: 671100 / AU, e: 0.0094, i: 0.466, Ω: 219.106, ϖ: 88.970 + 219.106, L: 171.016 + 88.970 + 219.106, epoch: J2000, period: 3.551181},
		rot:    rotation{period: 3.551181, siderealPeriod: 3.551181, ra0: 268.08, ra1: -0.009, de0: 64.51, de1: 0.003, w0: 36.022, w1: 101.3747235}},
	{name: "Ganymede", kind: "moon", parent: "Jupiter", radius: 2631.2, albedo: 0.43, H: -2.09, vsop87: -1,
		kepler: &elements{a: 1070400 / AU, e: 0.0013, i: 0.177, Ω: 63.552, ϖ: 192.417 + 63.552, L: 317.540 + 192.417 + 63.552, epoch: J2000, period: 7.154553},
		rot:    rotation{period: 7.154553, siderealPeriod: 7.154553, ra0: 268.20, ra1: -0.009, de0: 64.57, de1: 0.003, w0: 44.064, w1: 50.3176081}},
	{name: "Callisto", kind: "moon", parent: "Jupiter", radius: 2410.3, albedo: 0.17, H: -1.05, vsop87: -1,
		kepler: &elements{a: 1882700 / AU, e: 0.0074, i: 0.192, Ω: 298.848, ϖ: 52.643 + 298.848, L: 181.408 + 52.643 + 298.848, epoch: J2000, period: 16.689018},
		rot:    rotation{period: 16.689018, siderealPeriod: 16.689018, ra0: 268.72, ra1: -0.009, de0: 64.83, de1: 0.003, w0: 259.51, w1: 21.5710715}},
	{name: "Saturn", kind: "planet", parent: "Sun", radius: 60268, ringRadius: 136775, oblateness: 0.09796, albedo: 0.47, H: -8.88, vsop87: 5,
		kepler: &elements{a: 9.53667594, e: 0.05386179, i: 2.48599187, Ω: 113.66242448, ϖ: 92.59887831, L: 49.95424423, epoch: J2000},
		rot:    rotation{period: 0.44401, siderealPeriod: 10759.22, ra0: 40.589, ra1: -0.036, de0: 83.537, de1: -0.004, w0: 38.90, w1: 810.7939024}},
	{name: "Mimas", kind: "moon", parent: "Saturn", radius: 198.2, albedo: 0.962, H: 3.3, vsop87: -1,
		kepler: &elements{a: 185539 / AU, e: 0.0196, i: 1.574, Ω: 173.027, ϖ: 332.499 + 173.027, L: 14.848 + 332.499 + 173.027, epoch: J2000, period: 0.942422},
		rot:    rotation{period: 0.942422, siderealPeriod: 0.942422, ra0: 40.66, ra1: -0.036, de0: 83.52, de1: -0.004, w0: 333.46, w1: 381.9945550}},
	{name: "Titan", kind: "moon", parent: "Saturn", radius: 2575, albedo: 0.22, H: -1.28, vsop87: -1,
		kepler: &elements{a: 1221870 / AU, e: 0.0288, i: 0.280, Ω: 28.060, ϖ: 180.532 + 28.060, L: 163.310 + 180.532 + 28.060, epoch: J2000, period: 15.945421},
		rot:    rotation{period: 15.945421, siderealPeriod: 15.945421, ra0: 39.4827, de0: 83.4279, w0: 186.5855, w1: 22.5769768}},
	{name: "Uranus", kind: "planet", parent: "Sun", radius: 25559, oblateness: 0.02293, albedo: 0.51, H: -7.19, vsop87: 6,
		kepler: &elements{a: 19.18916464, e: 0.04725744, i: 0.77263783, Ω: 74.01692503, ϖ: 170.95427630, L: 313.23810451, epoch: J2000},
		rot:    rotation{period: 0.71833, siderealPeriod: 30688.5, ra0: 257.311, de0: -15.175, w0: 203.81, w1: -501.1600928}},
	{name: "Miranda", kind: "moon", parent: "Uranus", radius: 235.8, albedo: 0.32, H: 3.6, vsop87: -1,
		kepler: &elements{a: 129390 / AU, e: 0.0013, i: 4.338, Ω: 326.438, ϖ: 68.312 + 326.438, L: 311.330 + 68.312 + 326.438, epoch: J2000, period: 1.413479},
		rot:    rotation{period: 1.413479, siderealPeriod: 1.413479, ra0: 257.43, de0: -15.08, w0: 30.70, w1: -254.6906892}},
	{name: "Neptune", kind: "planet", parent: "Sun", radius: 24764, oblateness: 0.01708, albedo: 0.41, H: -6.87, vsop87: 7,
		kepler: &elements{a: 30.06992276, e: 0.00859048, i: 1.77004347, Ω: 131.78422574, ϖ: 44.96476227, L: -55.12002969, epoch: J2000},
		rot:    rotation{period: 0.67125, siderealPeriod: 60182, ra0: 299.36, de0: 43.46, w0: 249.978, w1: 541.1397757}},
	{name: "Triton", kind: "moon", parent: "Neptune", radius: 1352.6, albedo: 0.76, H: -1.24, vsop87: -1,
		kepler: &elements{a: 354759 / AU, e: 0.000016, i: 156.865, Ω: 177.608, ϖ: 66.142 + 177.608, L: 352.257 + 66.142 + 177.608, epoch: J2000, period: 5.876854},
		rot:    rotation{period: 5.876854, siderealPeriod: 5.876854, ra0: 299.36, de0: 41.17, w0: 296.53, w1: -61.2572637}},
	{name: "Pluto", kind: "dwarf planet", parent: "Sun", radius: 1188.3, albedo: 0.30, H: -1.01, vsop87: -1, ephemeris: PlutoEphemeris,
		kepler: &elements{a: 39.48211675, e: 0.24882730},
		rot:    rotation{period: 6.387230, siderealPeriod: 90560, ra0: 132.993, de0: -6.163, w0: 302.695, w1: 56.3625225}},
	{name: "Ceres", kind: "dwarf planet", parent: "Sun", radius: 469.7, oblateness: 0.075, albedo: 0.09, H: 3.34, vsop87: -1,
		kepler: &elements{a: 2.7675, e: 0.0758, i: 10.593, Ω: 80.3055, ϖ: 73.5977 + 80.3055, L: 77.372 + 73.5977 + 80.3055, epoch: 2458600.5},
		rot:    rotation{period: 0.3781, ra0: 291.418, de0: 66.764, w0: 170.650, w1: 952.1532}},
	{name: "1P/Halley", kind: "comet", parent: "Sun", radius: 5.5, albedo: 0.04, H: 5.5, vsop87: -1,
		comet: &perihelion{q: 0.58597811, e: 0.96714291, i: 162.26269, Ω: 58.42008, ω: 111.33249, T: 2446467.39532},
		rot:   rotation{period: 2.2, siderealPeriod: 27509}},
}

// CatalogNames returns the names of the built-in bodies, parents first.
func CatalogNames() []string {
	names := make([]string, len(catalog))
	for i, e := range catalog {
		names[i] = e.name
	}
	return names
}

// CatalogName returns the catalog spelling of a body name, case insensitive.
func CatalogName(name string) (string, error) {
	for _, e := range catalog {
		if strings.EqualFold(e.name, name) {
			return e.name, nil
		}
	}
	return "", fmt.Errorf("undefined body '%s'", name)
}

func deg(x float64) float64 {
	return sunit.AngleFromDeg(x).Rad()
}

// orbit builds the orbit of the entry. The parent must already be in the system.
func (e catalogEntry) orbit(cfg Config, parent *Body) (Orbit, error) {
	switch {
	case cfg.VSOP87 && e.vsop87 >= 0:
		fn, err := VSOP87Ephemeris(e.vsop87, cfg.VSOP87Dir)
		if err != nil {
			return nil, err
		}
		return NewEphemerisOrbit(fn, e.kepler.a, e.kepler.e), nil
	case e.ephemeris != nil:
		var a, ecc float64
		if e.kepler != nil {
			a, ecc = e.kepler.a, e.kepler.e
		}
		return NewEphemerisOrbit(e.ephemeris(), a, ecc), nil
	case e.comet != nil:
		c := e.comet
		n := ParabolicMeanMotion(c.q)
		if c.e != 1 {
			n = MeanMotion(c.q / math.Abs(1-c.e))
		}
		return NewKeplerOrbit(c.q, c.e, deg(c.i), deg(c.Ω), deg(c.ω), c.T, 0, n, 0, 0, 0), nil
	case e.kepler != nil:
		k := e.kepler
		var n, obliquity, node float64
		if k.period > 0 {
			// Satellite elements are referred to the parent's equator.
			n = 2 * math.Pi / k.period
			obliquity, node = PoleToVSOP87(parent.re.RA0, parent.re.DE0)
		} else {
			n = MeanMotion(k.a)
		}
		M0 := deg(k.L - k.ϖ)
		t0 := k.epoch - math.Remainder(M0, 2*math.Pi)/n
		return NewKeplerOrbit(k.a*(1-k.e), k.e, deg(k.i), deg(k.Ω), deg(k.ϖ-k.Ω), t0, 0, n, obliquity, node, 0), nil
	}
	return nil, fmt.Errorf("body %s has no orbit", e.name)
}

// NewSolarSystem builds the built-in bodies in a new System. The Earth's moon and
// Pluto always use their analytical theories; the planets use VSOP87 when enabled.
func NewSolarSystem(ctx *Context, cfg Config) (*System, error) {
	sys := NewSystem(ctx)
	for _, e := range catalog {
		parentID := NoParent
		var parent *Body
		if e.parent != "" {
			var ok bool
			if parent, ok = sys.ByName(e.parent); !ok {
				return nil, errors.Errorf("body %s: parent %s is not defined", e.name, e.parent)
			}
			parentID = parent.ID()
		}
		bcfg := BodyConfig{
			Name:              e.name,
			Type:              e.kind,
			EquatorialRadius:  e.radius / AU,
			Oblateness:        e.oblateness,
			Albedo:            e.albedo,
			AbsoluteMagnitude: e.H,
			RingRadius:        e.ringRadius / AU,
		}
		if parent != nil {
			orbit, err := e.orbit(cfg, parent)
			if err != nil {
				return nil, errors.Wrapf(err, "building %s", e.name)
			}
			bcfg.Orbit = orbit
		}
		b, err := sys.AddBody(parentID, bcfg)
		if err != nil {
			return nil, err
		}
		r := e.rot
		ra0, de0 := deg(r.ra0), deg(r.de0)
		var obliquity, node float64
		if r.ra0 != 0 || r.de0 != 0 {
			obliquity, node = PoleToVSOP87(ra0, de0)
		}
		if b.IsSun() || r.w0 == 0 {
			b.SetRotationElements(r.period, 0, J2000, obliquity, node, ra0, 0, de0, 0, 0, 0, r.siderealPeriod)
		} else {
			b.SetRotationElements(r.period, 0, J2000, obliquity, node, ra0, deg(r.ra1), de0, deg(r.de1), r.w0, r.w1, r.siderealPeriod)
		}
	}
	return sys, nil
}
