package stellarium

import (
	"fmt"
	"math"
)

// Viewpoint stands on a body at a geodetic position, or rides a body of type
// observer (a GimbalOrbit viewpoint) in which case the surface position is ignored.
type Viewpoint struct {
	Name        string
	Home        *Body
	LatΦ, Longθ float64 // these are stored in radians!
	Altitude    float64 // km
}

// NewViewpoint returns a new viewpoint. Angles in degrees, altitude in km.
func NewViewpoint(name string, home *Body, altitude, latΦ, longθ float64) Viewpoint {
	return Viewpoint{Name: name, Home: home, LatΦ: latΦ * deg2rad, Longθ: Deg2rad(longθ), Altitude: altitude}
}

// NewFloatingViewpoint adds a viewpoint body of type observer around parent.
func NewFloatingViewpoint(sys *System, name string, parent *Body, gimbal *GimbalOrbit) (Viewpoint, error) {
	gimbal.SetParentOrientation(parent.RotObliquity(J2000), parent.RotAscendingNode(), 0)
	b, err := sys.AddBody(parent.ID(), BodyConfig{Name: name, Type: "observer", Orbit: gimbal, AbsoluteMagnitude: undefinedAbsoluteMagnitude})
	if err != nil {
		return Viewpoint{}, err
	}
	return Viewpoint{Name: name, Home: b}, nil
}

// surfaceOffset returns the position of the observer relative to the center of
// its home body in the body fixed frame, in AU.
func (v Viewpoint) surfaceOffset() []float64 {
	sLat := math.Sin(v.LatΦ)
	// Geocentric radius on the reference ellipsoid.
	f := v.Home.Oblateness
	r := v.Home.EquatorialRadius*(1-f*sLat*sLat) + v.Altitude/AU
	return Spherical2Cartesian([]float64{r, math.Pi/2 - v.LatΦ, v.Longθ})
}

// HeliocentricEclipticPos returns the observer position relative to the Sun, in AU.
func (v Viewpoint) HeliocentricEclipticPos() []float64 {
	pos := v.Home.HeliocentricEclipticPos()
	if v.Home.Type == Observer || !v.Home.sys.ctx.Topocentric {
		return pos
	}
	θ := v.Home.AxisRotation() * deg2rad
	equatorial := MxV33(Rz(θ), v.surfaceOffset())
	return add(pos, MxV33(v.Home.RotEquatorialToVsop87(), equatorial))
}

// Context returns what the photometric queries need at the provided dates.
// The home body must be up to date.
func (v Viewpoint) Context(jd, jde float64) ObserverContext {
	return ObserverContext{
		HelioPos: v.HeliocentricEclipticPos(),
		Planet:   v.Home.Name,
		JD:       jd,
		JDE:      jde,
	}
}

// RangeElAz returns the range (AU), elevation and azimuth (in degrees) of the
// target as seen from the observer, from the SEZ frame.
func (v Viewpoint) RangeElAz(target *Body) (ρ, el, az float64) {
	ρVSOP87 := sub(target.HeliocentricEclipticPos(), v.HeliocentricEclipticPos())
	ρ = norm(ρVSOP87)
	// VSOP87 to body fixed.
	θ := v.Home.AxisRotation() * deg2rad
	ρFixed := MxV33(R3(θ), MxV33(transpose(v.Home.RotEquatorialToVsop87()), ρVSOP87))
	rSEZ := MxV33(R3(v.Longθ), ρFixed)
	rSEZ = MxV33(R2(math.Pi/2-v.LatΦ), rSEZ)
	el = math.Asin(clamp(rSEZ[2]/ρ, -1, 1)) * rad2deg
	az = math.Mod(2*math.Pi+math.Atan2(rSEZ[1], -rSEZ[0]), 2*math.Pi) * rad2deg
	return
}

func (v Viewpoint) String() string {
	if v.Home.Type == Observer {
		return fmt.Sprintf("%s (floating around %s)", v.Name, v.Home.Parent().Name)
	}
	return fmt.Sprintf("%s on %s (%f,%f); alt = %f km", v.Name, v.Home.Name, v.LatΦ*rad2deg, v.Longθ*rad2deg, v.Altitude)
}
