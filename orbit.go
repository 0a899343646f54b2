package stellarium

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// GaussK is the Gaussian gravitational constant (AU^3/2 per day, unit solar mass).
	GaussK = 0.01720209895

	keplerε       = 1e-12 // radians
	keplerMaxIter = 100
)

// Orbit is a trajectory around a parent body. Positions are in AU and velocities
// in AU/day, both expressed in the parent-relative VSOP87 (ecliptic J2000) frame.
type Orbit interface {
	PositionAt(jde float64) (R, V []float64)
	SemiMajorAxis() float64
	Eccentricity() float64
}

// KeplerOrbit is a two-body conic defined by its perihelion distance.
type KeplerOrbit struct {
	q, e, i, Ω, ω float64
	t0, n         float64
	orbitGood     float64 // validity half-window in days, <= 0 means always valid
	toParent      *mat.Dense
	lastV         []float64
}

// NewKeplerOrbit returns a new Kepler orbit.
// q is in AU, angles in radians, t0 (time of perihelion) in JDE, n in radians per day.
// For parabolic orbits, n is W/Δt (cf. Heafner), see ParabolicMeanMotion.
// The parent orientation angles locate the reference plane of the elements in the parent frame.
func NewKeplerOrbit(q, e, i, Ω, ω, t0, orbitGood, n, parentRotObliquity, parentRotAscendingNode, parentRotJ2000Longitude float64) *KeplerOrbit {
	o := &KeplerOrbit{q: q, e: e, i: i, Ω: Ω, ω: ω, t0: t0, n: n, orbitGood: orbitGood}
	// The perifocal to reference plane matrix is the transpose of the 3-1-3 rotation.
	perifocal := transpose(R3R1R3(Ω, i, ω))
	o.toParent = Rmul(orientation(parentRotObliquity, parentRotAscendingNode, parentRotJ2000Longitude), perifocal)
	o.lastV = []float64{0, 0, 0}
	return o
}

// MeanMotion returns the mean motion in radians per day of a Sun-centred orbit of semi-major axis a (AU).
func MeanMotion(a float64) float64 {
	return GaussK / math.Pow(a, 1.5)
}

// ParabolicMeanMotion returns the W/Δt factor of a Sun-centred parabolic orbit of perihelion q (AU).
func ParabolicMeanMotion(q float64) float64 {
	return 1.5 * GaussK / math.Sqrt(2*q*q*q)
}

// EccentricAnomaly solves Kepler's equation M = E - e sin E for E (elliptic orbits).
// Newton iterations are capped; the best estimate is returned if the cap is reached.
func EccentricAnomaly(M, e float64) float64 {
	Mr := math.Remainder(M, 2*math.Pi)
	E := Mr + e*math.Sin(Mr)
	if e >= 0.8 {
		E = math.Copysign(math.Pi, Mr)
	}
	for k := 0; k < keplerMaxIter; k++ {
		sE, cE := math.Sincos(E)
		dE := (E - e*sE - Mr) / (1 - e*cE)
		E -= dE
		if math.Abs(dE) < keplerε {
			break
		}
	}
	return E + (M - Mr)
}

// MeanAnomaly returns the mean anomaly from the eccentric anomaly.
func MeanAnomaly(E, e float64) float64 {
	return E - e*math.Sin(E)
}

// HyperbolicAnomaly solves M = e sinh H - H for H (hyperbolic orbits).
func HyperbolicAnomaly(M, e float64) float64 {
	H := math.Asinh(M / e)
	for k := 0; k < keplerMaxIter; k++ {
		dH := (e*math.Sinh(H) - H - M) / (e*math.Cosh(H) - 1)
		H -= dH
		if math.Abs(dH) < keplerε {
			break
		}
	}
	return H
}

// PositionAt returns the position and velocity at the provided JDE.
// The velocity is also kept and available through Velocity().
func (o *KeplerOrbit) PositionAt(jde float64) (R, V []float64) {
	dt := jde - o.t0
	var x, y, ẋ, ẏ float64
	switch {
	case o.e < 1:
		a := o.q / (1 - o.e)
		E := EccentricAnomaly(o.n*dt, o.e)
		sE, cE := math.Sincos(E)
		h := math.Sqrt(1 - o.e*o.e)
		x = a * (cE - o.e)
		y = a * h * sE
		Ė := o.n / (1 - o.e*cE)
		ẋ = -a * sE * Ė
		ẏ = a * h * cE * Ė
	case o.e > 1:
		a := o.q / (o.e - 1)
		H := HyperbolicAnomaly(o.n*dt, o.e)
		sH, cH := math.Sinh(H), math.Cosh(H)
		h := math.Sqrt(o.e*o.e - 1)
		x = a * (o.e - cH)
		y = a * h * sH
		Ḣ := o.n / (o.e*cH - 1)
		ẋ = -a * sH * Ḣ
		ẏ = a * h * cH * Ḣ
	default:
		// Barker's equation, with n = W/Δt.
		W := o.n * dt
		Y := math.Cbrt(W + math.Sqrt(W*W+1))
		s := Y - 1/Y // tan(ν/2)
		x = o.q * (1 - s*s)
		y = 2 * o.q * s
		ṡ := 2 * o.n / (3 * (1 + s*s))
		ẋ = -2 * o.q * s * ṡ
		ẏ = 2 * o.q * ṡ
	}
	R = MxV33(o.toParent, []float64{x, y, 0})
	V = MxV33(o.toParent, []float64{ẋ, ẏ, 0})
	o.lastV = V
	return R, vcopy(V)
}

// Velocity returns the velocity computed by the last call to PositionAt.
func (o *KeplerOrbit) Velocity() []float64 {
	return vcopy(o.lastV)
}

// ObjectDateValid returns whether the osculating elements are meaningful at the provided JDE.
func (o *KeplerOrbit) ObjectDateValid(jde float64) bool {
	return o.orbitGood <= 0 || math.Abs(o.t0-jde) < o.orbitGood
}

// SemiMajorAxis returns the semi-major axis in AU, or zero for parabolic orbits.
func (o *KeplerOrbit) SemiMajorAxis() float64 {
	if o.e == 1 {
		return 0
	}
	return o.q / (1 - o.e)
}

// Eccentricity returns e.
func (o *KeplerOrbit) Eccentricity() float64 {
	return o.e
}

// PerihelionDistance returns q in AU.
func (o *KeplerOrbit) PerihelionDistance() float64 {
	return o.q
}

// TimeOfPerihelion returns t0 in JDE.
func (o *KeplerOrbit) TimeOfPerihelion() float64 {
	return o.t0
}

func (o *KeplerOrbit) String() string {
	return fmt.Sprintf("q=%.6f AU e=%.6f i=%.4f Ω=%.4f ω=%.4f t0=%.4f", o.q, o.e, o.i/deg2rad, o.Ω/deg2rad, o.ω/deg2rad, o.t0)
}

// CalculateSiderealPeriod returns the sidereal period in days of a Sun-centred orbit
// from Kepler's third law. Only meaningful for bodies orbiting the Sun.
func CalculateSiderealPeriod(a float64) float64 {
	if a <= 0 {
		return math.Inf(1)
	}
	return 2 * math.Pi / GaussK * math.Pow(a, 1.5)
}
