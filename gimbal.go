package stellarium

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	gimbalMinDistance = 0.01 // AU
	gimbalMaxDistance = 50.0 // AU
)

// GimbalOrbit is a fixed spherical offset from the parent, used for free-floating viewpoints.
// Longitude and latitude are stored in degrees so that the clamps are exact.
type GimbalOrbit struct {
	distance, longitude, latitude float64
	toParent                      *mat.Dense
}

// NewGimbalOrbit returns a new gimbal orbit. Distance in AU, angles in degrees.
func NewGimbalOrbit(distance, longitude, latitude float64) *GimbalOrbit {
	g := &GimbalOrbit{longitude: longitude, toParent: identity()}
	g.distance = clamp(distance, gimbalMinDistance, gimbalMaxDistance)
	g.latitude = clamp(latitude, -90, 90)
	return g
}

// SetParentOrientation sets the rotation of the gimbal frame into the parent frame.
func (g *GimbalOrbit) SetParentOrientation(obliquity, node, longitude float64) {
	g.toParent = orientation(obliquity, node, longitude)
}

// PositionAt returns the fixed position; the velocity is always zero.
func (g *GimbalOrbit) PositionAt(jde float64) (R, V []float64) {
	λ, β := g.longitude*deg2rad, g.latitude*deg2rad
	R = MxV33(g.toParent, scale(g.distance, LonLat2Cartesian(λ, β)))
	return R, []float64{0, 0, 0}
}

// SemiMajorAxis returns the distance.
func (g *GimbalOrbit) SemiMajorAxis() float64 { return g.distance }

// Eccentricity is always zero.
func (g *GimbalOrbit) Eccentricity() float64 { return 0 }

// Distance returns the distance in AU.
func (g *GimbalOrbit) Distance() float64 { return g.distance }

// Longitude returns the longitude in degrees.
func (g *GimbalOrbit) Longitude() float64 { return g.longitude }

// Latitude returns the latitude in degrees.
func (g *GimbalOrbit) Latitude() float64 { return g.latitude }

// AddToDistance moves the viewpoint radially, within [0.01, 50] AU.
func (g *GimbalOrbit) AddToDistance(δ float64) {
	g.distance = clamp(g.distance+δ, gimbalMinDistance, gimbalMaxDistance)
}

// AddToLongitude rotates the viewpoint in longitude (degrees).
func (g *GimbalOrbit) AddToLongitude(δ float64) {
	g.longitude += δ
}

// AddToLatitude rotates the viewpoint in latitude (degrees), within [-90, 90].
func (g *GimbalOrbit) AddToLatitude(δ float64) {
	g.latitude = clamp(g.latitude+δ, -90, 90)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
