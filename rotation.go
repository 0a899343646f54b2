package stellarium

import (
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/nutation"
	"gonum.org/v1/gonum/mat"
)

const (
	// J2000 is the Julian date of the J2000 epoch.
	J2000 = base.J2000
	// JDSecond is one second expressed in days.
	JDSecond = 1.0 / 86400
	// JDMinute is one minute expressed in days.
	JDMinute = 1.0 / 1440

	arcsec2rad = deg2rad / 3600
	// ε0 is the J2000 mean obliquity of the ecliptic (IAU 2006).
	ε0 = 84381.406 * arcsec2rad
)

var (
	// J2000ToVSOP87 rotates J2000 mean equatorial coordinates into the VSOP87 ecliptic frame.
	J2000ToVSOP87 = Rmul(Rx(-ε0), Rz(0.0000275*deg2rad))
	// VSOP87ToJ2000 is the inverse of J2000ToVSOP87.
	VSOP87ToJ2000 = transpose(J2000ToVSOP87)
)

// R3R1R3 performs a 3-1-3 Euler parameter rotation.
// From Schaub and Junkins (the one in Vallado is wrong... surprinsingly, right? =/)
func R3R1R3(θ1, θ2, θ3 float64) *mat.Dense {
	sθ1, cθ1 := math.Sincos(θ1)
	sθ2, cθ2 := math.Sincos(θ2)
	sθ3, cθ3 := math.Sincos(θ3)
	return mat.NewDense(3, 3, []float64{cθ3*cθ1 - sθ3*cθ2*sθ1, cθ3*sθ1 + sθ3*cθ2*cθ1, sθ3 * sθ2,
		-sθ3*cθ1 - cθ3*cθ2*sθ1, -sθ3*sθ1 + cθ3*cθ2*cθ1, cθ3 * sθ2,
		sθ2 * sθ1, -sθ2 * cθ1, cθ2})
}

// R1 rotation about the 1st axis (frame rotation).
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis (frame rotation).
func R2(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis (frame rotation).
func R3(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// Rx rotates a vector by x radians about the first axis.
// This is the vector rotation, i.e. R1(-x).
func Rx(x float64) *mat.Dense {
	return R1(-x)
}

// Rz rotates a vector by x radians about the third axis, i.e. R3(-x).
func Rz(x float64) *mat.Dense {
	return R3(-x)
}

// Rmul multiplies all the provided 3x3 matrices from left to right.
func Rmul(ms ...*mat.Dense) *mat.Dense {
	rslt := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	for _, m := range ms {
		var tmp mat.Dense
		tmp.Mul(rslt, m)
		rslt = &tmp
	}
	return rslt
}

// identity returns a new 3x3 identity matrix.
func identity() *mat.Dense {
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}

// transpose returns a new dense copy of mᵀ.
func transpose(m *mat.Dense) *mat.Dense {
	return mat.DenseCopyOf(m.T())
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m mat.Matrix, v []float64) (o []float64) {
	vVec := mat.NewVecDense(len(v), v)
	var rVec mat.VecDense
	rVec.MulVec(m, vVec)
	return []float64{rVec.AtVec(0), rVec.AtVec(1), rVec.AtVec(2)}
}

// orientation returns Rz(node)·Rx(obliquity)·Rz(longitude), which maps a frame
// defined by its obliquity and ascending node on a reference plane into that
// reference plane.
func orientation(obliquity, node, longitude float64) *mat.Dense {
	return Rmul(Rz(node), Rx(obliquity), Rz(longitude))
}

// PrecessionAngles returns the precession angles εA, χA, ωA and ψA (radians)
// at the provided JDE. Polynomials in Julian centuries are from IAU 2006
// (Capitaine et al. 2003), which Vondrák et al. 2011 match within their span.
func PrecessionAngles(jde float64) (εA, χA, ωA, ψA float64) {
	T := base.J2000Century(jde)
	εA = ε0 + (((((-0.0000000434*T-0.000000576)*T+0.00200340)*T-0.0001831)*T-46.836769)*T)*arcsec2rad
	χA = (((((-0.0000000560*T+0.000170663)*T-0.00121197)*T-2.3814292)*T + 10.556403) * T) * arcsec2rad
	ωA = ε0 + (((((0.0000003337*T-0.000000467)*T-0.00772503)*T+0.0512623)*T-0.025754)*T)*arcsec2rad
	ψA = (((((-0.0000000951*T+0.000132851)*T-0.00114045)*T-1.0790069)*T + 5038.481507) * T) * arcsec2rad
	return
}

// NutationAngles returns Δψ and Δε (radians) at the provided JDE.
func NutationAngles(jde float64) (Δψ, Δε float64) {
	ψ, ε := nutation.Nutation(jde)
	return ψ.Rad(), ε.Rad()
}

// EarthRotation returns the matrix mapping Earth's true (or mean, if nutation is
// disabled) equator of date into the VSOP87 frame, along with the mean obliquity εA.
func EarthRotation(jde float64, withNutation bool) (*mat.Dense, float64) {
	εA, χA, ωA, ψA := PrecessionAngles(jde)
	m := Rmul(Rz(-ψA), Rx(-ωA), Rz(χA))
	if withNutation {
		Δψ, Δε := NutationAngles(jde)
		m = Rmul(m, Rx(εA), Rz(Δψ), Rx(-εA-Δε))
	}
	return m, εA
}
