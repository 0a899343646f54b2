package stellarium

import "math"

// ComputeOrbitPath samples one orbital period centered on the last computed date.
// The points are heliocentric, in AU. Dates other than the center are snapped to a
// multiple of DeltaOrbitJDE so that successive paths hit the position cache.
func (b *Body) ComputeOrbitPath() [][]float64 {
	segments := b.sys.segments()
	if b.deltaOrbitJDE <= 0 || b.orbit == nil || b.Type == Observer {
		return nil
	}
	if b.orbitPathOK && b.orbitPathJDE == b.lastJDE {
		return b.orbitPath
	}
	if kep, ok := b.orbit.(*KeplerOrbit); ok && b.Type >= Artificial && !kep.ObjectDateValid(b.lastJDE) {
		return nil
	}
	parentPos := []float64{0, 0, 0}
	if p := b.Parent(); p != nil && !p.IsSun() {
		parentPos = p.HeliocentricEclipticPosAt(b.lastJDE)
	}
	if len(b.orbitPath) != segments {
		b.orbitPath = make([][]float64, segments)
	}
	for d := 0; d < segments; d++ {
		date := b.lastJDE + float64(d-segments/2)*b.deltaOrbitJDE
		if d != segments/2 {
			date = math.RoundToEven(date/b.deltaOrbitJDE) * b.deltaOrbitJDE
		}
		b.orbitPath[d] = add(b.EclipticPosAt(date), parentPos)
	}
	b.orbitPathJDE = b.lastJDE
	b.orbitPathOK = true
	return b.orbitPath
}

// OrbitPath returns the last computed orbit path.
func (b *Body) OrbitPath() [][]float64 {
	if !b.orbitPathOK {
		return nil
	}
	return b.orbitPath
}

// CloseOrbit returns whether the orbit path should be drawn as a closed curve.
func (b *Body) CloseOrbit() bool { return b.closeOrbit }

// DeltaOrbitJDE returns the time between two orbit path samples in days.
func (b *Body) DeltaOrbitJDE() float64 { return b.deltaOrbitJDE }
