package stellarium

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

// norm returns the norm of a given vector which is supposed to be 3x1.
func norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// norm2 returns the squared norm of a 3x1 vector.
func norm2(v []float64) float64 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}

// unit returns the unit vector of a given vector.
func unit(a []float64) (b []float64) {
	n := norm(a)
	if scalar.EqualWithinAbs(n, 0, 1e-12) {
		return []float64{0, 0, 0}
	}
	b = make([]float64, len(a))
	for i, val := range a {
		b[i] = val / n
	}
	return
}

// dot performs the inner product via gonum/BLAS.
func dot(a, b []float64) float64 {
	return mat.Dot(mat.NewVecDense(len(a), a), mat.NewVecDense(len(b), b))
}

// add returns a+b as a new vector.
func add(a, b []float64) []float64 {
	return []float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// sub returns a-b as a new vector.
func sub(a, b []float64) []float64 {
	return []float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// scale returns k*a as a new vector.
func scale(k float64, a []float64) []float64 {
	return []float64{k * a[0], k * a[1], k * a[2]}
}

// vcopy returns a copy of the vector; nil stays nil.
func vcopy(a []float64) []float64 {
	if a == nil {
		return nil
	}
	b := make([]float64, len(a))
	copy(b, a)
	return b
}

// Spherical2Cartesian returns the provided spherical coordinates vector in Cartesian.
// The input is [r, θ, φ] with θ the colatitude.
func Spherical2Cartesian(a []float64) (b []float64) {
	b = make([]float64, 3)
	sθ, cθ := math.Sincos(a[1])
	sφ, cφ := math.Sincos(a[2])
	b[0] = a[0] * sθ * cφ
	b[1] = a[0] * sθ * sφ
	b[2] = a[0] * cθ
	return
}

// Cartesian2Spherical returns the provided Cartesian coordinates vector in spherical.
func Cartesian2Spherical(a []float64) (b []float64) {
	b = make([]float64, 3)
	if norm(a) == 0 {
		return []float64{0, 0, 0}
	}
	b[0] = norm(a)
	b[1] = math.Acos(a[2] / b[0])
	b[2] = math.Atan2(a[1], a[0])
	return
}

// LonLat2Cartesian returns the unit vector pointing at the given longitude and latitude (radians).
func LonLat2Cartesian(λ, β float64) []float64 {
	sλ, cλ := math.Sincos(λ)
	sβ, cβ := math.Sincos(β)
	return []float64{cβ * cλ, cβ * sλ, sβ}
}

// Cartesian2LonLat returns the longitude and latitude (radians) of the vector.
func Cartesian2LonLat(a []float64) (λ, β float64) {
	r := norm(a)
	if r == 0 {
		return 0, 0
	}
	return math.Atan2(a[1], a[0]), math.Asin(a[2] / r)
}

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}

// fuzzyEquals returns whether both values are within machine precision of each other.
func fuzzyEquals(a, b float64) bool {
	return scalar.EqualWithinAbsOrRel(a, b, 1e-12, 1e-15)
}
