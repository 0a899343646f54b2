package stellarium

import (
	"math"

	"github.com/soniakeys/meeus/v3/sidereal"
	"gonum.org/v1/gonum/mat"
)

// speedOfLight in km/s.
const speedOfLight = 299792.458

// RotationModel is the rotation model of a body, fixed when its rotation elements are set.
type RotationModel uint8

const (
	// Traditional bodies rotate about a fixed axis given by obliquity and ascending node.
	Traditional RotationModel = iota
	// IAU bodies follow the WGCCRE pole and prime meridian expressions.
	IAU
)

func (m RotationModel) String() string {
	if m == IAU {
		return "IAU"
	}
	return "traditional"
}

// RotationElements are the configured rotation parameters of a body.
type RotationElements struct {
	Period         float64 // sidereal rotation period in days, 0 for chaotic rotators
	Offset         float64 // rotation angle at epoch, degrees
	Epoch          float64 // JDE
	Obliquity      float64 // radians
	AscendingNode  float64 // radians
	RA0, RA1       float64 // pole right ascension at J2000 (rad) and its rate (rad/century)
	DE0, DE1       float64 // pole declination at J2000 (rad) and its rate (rad/century)
	W0, W1         float64 // prime meridian at J2000 (deg) and its rate (deg/day)
	SiderealPeriod float64 // orbital period in days
}

// SetRotationElements configures the rotation. The model is IAU if w0 is not zero.
// Minor bodies on bound Kepler orbits get their sidereal period from Kepler's third law.
func (b *Body) SetRotationElements(period, offset, epoch, obliquity, ascendingNode, ra0, ra1, de0, de1, w0, w1, siderealPeriod float64) {
	b.re = RotationElements{
		Period: period, Offset: offset, Epoch: epoch,
		Obliquity: obliquity, AscendingNode: ascendingNode,
		RA0: ra0, RA1: ra1, DE0: de0, DE1: de1,
		W0: w0, W1: w1,
		SiderealPeriod: siderealPeriod,
	}
	b.model = Traditional
	if w0 != 0 {
		b.model = IAU
	}
	b.obliquity, b.node = obliquity, ascendingNode
	b.rotLocalToParent = Rmul(Rz(ascendingNode), Rx(obliquity))
	if kep, ok := b.orbit.(*KeplerOrbit); ok && b.Type >= Artificial {
		a, e := kep.SemiMajorAxis(), kep.Eccentricity()
		if a > 0 && e < 0.9 {
			b.re.SiderealPeriod = CalculateSiderealPeriod(a)
			b.closeOrbit = true
		} else {
			b.closeOrbit = false
		}
	}
	b.deltaOrbitJDE = b.re.SiderealPeriod / float64(b.sys.segments())
	b.orbitPathOK = false
}

// RotationElements returns the configured rotation elements.
func (b *Body) RotationElements() RotationElements { return b.re }

// RotationModel returns the rotation model selected by SetRotationElements.
func (b *Body) RotationModel() RotationModel { return b.model }

// ComputeTransMatrix updates the local to parent rotation at the provided dates.
// The parent's matrix must be up to date for Traditional bodies.
func (b *Body) ComputeTransMatrix(jd, jde float64) {
	ctx := b.sys.ctx
	switch {
	case b.Name == "Earth":
		m, εA := EarthRotation(jde, ctx.Nutation)
		b.rotLocalToParent = m
		b.obliquity = εA
	case b.IsSun():
		b.rotLocalToParent = Rmul(Rz(b.re.AscendingNode), Rx(b.re.Obliquity))
	case b.model == IAU:
		T := (jde - J2000) / 36525
		ΔRA, ΔDE := b.correction.poleCorrection(ctx.Corrections, jde)
		ra := b.re.RA0 + b.re.RA1*T + ΔRA
		de := b.re.DE0 + b.re.DE1*T + ΔDE
		b.obliquity, b.node = PoleToVSOP87(ra, de)
		b.SetRotEquatorialToVsop87(Rmul(Rz(b.node), Rx(b.obliquity)))
	default:
		b.rotLocalToParent = Rmul(Rz(b.re.AscendingNode), Rx(b.re.Obliquity))
	}
	b.axisRotation = b.SiderealTime(jd, jde)
}

// PoleToVSOP87 returns the obliquity and ascending node (radians) on the VSOP87
// ecliptic of an equator whose pole has the provided J2000 right ascension and declination.
func PoleToVSOP87(ra, de float64) (obliquity, node float64) {
	λ, β := Cartesian2LonLat(MxV33(J2000ToVSOP87, LonLat2Cartesian(ra, de)))
	return math.Pi/2 - β, λ + math.Pi/2
}

// RotLocalToParent returns a copy of the current local to parent rotation.
func (b *Body) RotLocalToParent() *mat.Dense {
	return mat.DenseCopyOf(b.rotLocalToParent)
}

// AxisRotation returns the sidereal time (degrees) computed by the last ComputeTransMatrix.
func (b *Body) AxisRotation() float64 { return b.axisRotation }

// RotEquatorialToVsop87 returns the rotation from the body's equatorial frame into VSOP87.
func (b *Body) RotEquatorialToVsop87() *mat.Dense {
	m := mat.DenseCopyOf(b.rotLocalToParent)
	if b.model == Traditional {
		for p := b.Parent(); p != nil && !p.IsSun(); p = p.Parent() {
			m = Rmul(p.rotLocalToParent, m)
		}
	}
	return m
}

// SetRotEquatorialToVsop87 sets the local to parent rotation such that
// RotEquatorialToVsop87 returns m.
func (b *Body) SetRotEquatorialToVsop87(m *mat.Dense) {
	a := identity()
	if b.model == Traditional {
		for p := b.Parent(); p != nil && !p.IsSun(); p = p.Parent() {
			a = Rmul(p.rotLocalToParent, a)
		}
	}
	b.rotLocalToParent = Rmul(transpose(a), m)
}

// SiderealTime returns the rotation angle of the prime meridian in degrees.
func (b *Body) SiderealTime(jd, jde float64) float64 {
	ctx := b.sys.ctx
	if b.Name == "Earth" {
		if ctx.Nutation {
			return sidereal.Apparent(jd).Sec() / 240
		}
		return sidereal.Mean(jd).Sec() / 240
	}
	if b.model == IAU {
		t := jde - J2000
		w := b.re.W0 + math.Remainder(t*b.re.W1, 360)
		return w + b.correction.meridianCorrection(ctx.Corrections, jde)
	}
	if b.Name == "Jupiter" {
		return jupiterRotation(jde, ctx.GRS)
	}
	if b.re.Period == 0 {
		// Chaotic rotators keep their offset.
		return b.re.Offset
	}
	rotations := math.Remainder((jde-b.re.Epoch)/b.re.Period, 1)
	return rotations*360 + b.re.Offset
}

// jupiterRotation is the System II central meridian shifted by the Great Red Spot
// longitude and its position in the texture.
func jupiterRotation(jde float64, grs GRSConfig) float64 {
	lightTime := 870.1869147 * 5.202561 * AU / speedOfLight / 86400
	cm2 := math.Mod(181.62+870.1869147*jde+lightTime, 360)
	longitude := 216 + 1.25*(jde-2456908)/30
	if grs.Custom {
		longitude = grs.Longitude + grs.Drift*(jde-grs.JD)/365.25
	}
	return cm2 - longitude + (187./512.)*360
}

// RotObliquity returns the obliquity in radians. For Earth this is εA at the JDE.
func (b *Body) RotObliquity(jde float64) float64 {
	if b.Name == "Earth" {
		εA, _, _, _ := PrecessionAngles(jde)
		return εA
	}
	return b.obliquity
}

// RotAscendingNode returns the current ascending node in radians.
func (b *Body) RotAscendingNode() float64 { return b.node }

// SiderealDay returns the sidereal rotation period in days.
func (b *Body) SiderealDay() float64 { return b.re.Period }

// SiderealPeriod returns the orbital period in days.
func (b *Body) SiderealPeriod() float64 { return b.re.SiderealPeriod }

// MeanSolarDay returns the mean solar day in Earth days.
func (b *Body) MeanSolarDay() float64 {
	if b.IsSun() {
		return 1
	}
	sday := b.SiderealDay()
	if b.Type == Moon {
		// A solar day on a moon lasts one synodic month.
		a := b.Parent().SiderealPeriod() / sday
		return sday * (a / (a - 1))
	}
	coeff := math.Abs(sday / b.SiderealPeriod())
	s := 1.0
	if b.Name == "Venus" || b.Name == "Uranus" || b.Name == "Pluto" {
		s = -1 // retrograde
	}
	return s * sday / (1 - s*coeff)
}
