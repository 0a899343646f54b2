package stellarium

import (
	"math"

	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/pkg/errors"
	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/planetposition"
	"github.com/soniakeys/meeus/v3/pluto"
	"gonum.org/v1/gonum/interp"
)

const (
	// AU is one astronomical unit in kilometers.
	AU = 1.49597870700e8

	ephemerisStep = 1.0 / 24 // days, central difference step
)

// EphemerisFunc returns a parent-relative VSOP87 position (AU) and velocity (AU/day).
// A nil velocity is allowed.
type EphemerisFunc func(jde float64) (R, V []float64)

// EphemerisOrbit wraps an externally supplied ephemeris.
type EphemerisOrbit struct {
	fn   EphemerisFunc
	a, e float64
}

// NewEphemerisOrbit returns an orbit evaluating fn. The semi-major axis and
// eccentricity are only informative (orbit path timing, opposition magnitude).
func NewEphemerisOrbit(fn EphemerisFunc, a, e float64) *EphemerisOrbit {
	return &EphemerisOrbit{fn: fn, a: a, e: e}
}

// PositionAt calls the ephemeris.
func (o *EphemerisOrbit) PositionAt(jde float64) (R, V []float64) {
	R, V = o.fn(jde)
	if V == nil {
		V = []float64{0, 0, 0}
	}
	return
}

// SemiMajorAxis returns the informative semi-major axis.
func (o *EphemerisOrbit) SemiMajorAxis() float64 { return o.a }

// Eccentricity returns the informative eccentricity.
func (o *EphemerisOrbit) Eccentricity() float64 { return o.e }

// withVelocity adds a central difference velocity to a position-only ephemeris.
func withVelocity(pos func(jde float64) []float64) EphemerisFunc {
	return func(jde float64) (R, V []float64) {
		R = pos(jde)
		before, after := pos(jde-ephemerisStep), pos(jde+ephemerisStep)
		V = scale(1/(2*ephemerisStep), sub(after, before))
		return
	}
}

// VSOP87Ephemeris returns the heliocentric VSOP87 ephemeris of the provided planet
// (meeus planetposition numbering, Mercury = 0) loaded from dir.
func VSOP87Ephemeris(ibody int, dir string) (EphemerisFunc, error) {
	planet, err := planetposition.LoadPlanetPath(ibody, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load VSOP87 planet number %d", ibody)
	}
	return withVelocity(func(jde float64) []float64 {
		l, b, r := planet.Position2000(jde)
		return scale(r, LonLat2Cartesian(l.Rad(), b.Rad()))
	}), nil
}

// PlutoEphemeris returns Pluto's heliocentric position (Meeus chapter 37).
func PlutoEphemeris() EphemerisFunc {
	return withVelocity(func(jde float64) []float64 {
		l, b, r := pluto.Heliocentric(jde)
		return scale(r, LonLat2Cartesian(l.Rad(), b.Rad()))
	})
}

// MoonEphemeris returns the geocentric position of the Moon (Meeus chapter 47),
// referred to the J2000 ecliptic with the general precession in longitude.
func MoonEphemeris() EphemerisFunc {
	return withVelocity(func(jde float64) []float64 {
		λ, β, Δ := moonposition.Position(jde)
		T := base.J2000Century(jde)
		pA := (5028.796195 + 1.1054348*T) * T * arcsec2rad
		return scale(Δ/AU, LonLat2Cartesian(λ.Rad()-pA, β.Rad()))
	})
}

// TLEEphemeris returns an SGP4 ephemeris for an artificial Earth satellite.
// The TEME frame is taken as the J2000 mean equator, and JDE as UTC; both are
// well below the rendering precision of a satellite seen from a planetarium.
func TLEEphemeris(line1, line2 string) EphemerisFunc {
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	return func(jde float64) (R, V []float64) {
		t := julian.JDToTime(jde)
		year, month, day := t.Date()
		hour, min, sec := t.Clock()
		p, v := satellite.Propagate(sat, year, int(month), day, hour, min, sec)
		if math.IsNaN(p.X) {
			return []float64{0, 0, 0}, []float64{0, 0, 0}
		}
		R = MxV33(J2000ToVSOP87, []float64{p.X / AU, p.Y / AU, p.Z / AU})
		V = MxV33(J2000ToVSOP87, []float64{v.X * 86400 / AU, v.Y * 86400 / AU, v.Z * 86400 / AU})
		return
	}
}

// InterpolatedStatesEphemeris returns a cubic Hermite interpolation of Cosmographia
// states (TDB Julian dates, km and km/s), sorted by date. Dates outside the
// records return the first or last state.
func InterpolatedStatesEphemeris(states []*CgInterpolatedState) (EphemerisFunc, error) {
	n := len(states)
	if n < 2 {
		return nil, errors.Errorf("need at least two states, got %d", n)
	}
	jds := make([]float64, n)
	for k, s := range states {
		if k > 0 && s.JD <= states[k-1].JD {
			return nil, errors.Errorf("state %d is not after state %d", k, k-1)
		}
		jds[k] = s.JD
	}
	var axes [3]interp.PiecewiseCubic
	for i := range axes {
		pos, vel := make([]float64, n), make([]float64, n)
		for k, s := range states {
			pos[k] = s.Position[i] / AU
			vel[k] = s.Velocity[i] * 86400 / AU
		}
		axes[i].FitWithDerivatives(jds, pos, vel)
	}
	first, last := states[0], states[n-1]
	return func(jde float64) (R, V []float64) {
		switch {
		case jde <= first.JD:
			return scale(1/AU, first.Position), scale(86400/AU, first.Velocity)
		case jde >= last.JD:
			return scale(1/AU, last.Position), scale(86400/AU, last.Velocity)
		}
		R, V = make([]float64, 3), make([]float64, 3)
		for i := range axes {
			R[i] = axes[i].Predict(jde)
			V[i] = axes[i].PredictDerivative(jde)
		}
		return
	}, nil
}
