package stellarium

import "math"

// SunRadius in AU.
const SunRadius = 696000 / AU

// WillCastShadow returns whether caster's penumbra cone may reach b.
func (b *Body) WillCastShadow(caster *Body) bool {
	if caster.IsSun() || b.IsSun() {
		return false
	}
	thisPos := b.HeliocentricEclipticPos()
	casterPos := caster.HeliocentricEclipticPos()
	// Farther from the Sun than b.
	if norm2(casterPos) > norm2(thisPos) {
		return false
	}
	ppVector := unit(casterPos)
	shadowDistance := dot(ppVector, thisPos)
	d := norm(casterPos) / (caster.EquatorialRadius/SunRadius + 1)
	penumbraRadius := (shadowDistance - d) / d * SunRadius
	centerDistance := norm(sub(scale(shadowDistance, ppVector), thisPos))
	return centerDistance < penumbraRadius+b.EquatorialRadius
}

// CandidatesForShadow returns the bodies which may cast a shadow on b: its
// satellites, its parent, then its siblings.
func (b *Body) CandidatesForShadow() []*Body {
	var candidates []*Body
	parent := b.Parent()
	if parent == nil || (parent.IsSun() && len(b.children) == 0) {
		return candidates
	}
	for _, sat := range b.Satellites() {
		if b.WillCastShadow(sat) {
			candidates = append(candidates, sat)
		}
	}
	if b.WillCastShadow(parent) {
		candidates = append(candidates, parent)
	}
	if !parent.IsSun() {
		for _, sibling := range parent.Satellites() {
			if sibling.id == b.id {
				continue
			}
			if b.WillCastShadow(sibling) {
				candidates = append(candidates, sibling)
			}
		}
	}
	return candidates
}

// EclipseFactor returns the visible fraction of the solar disc from the observer,
// 1 without eclipse and 0 for a total eclipse.
func (s *System) EclipseFactor(obs ObserverContext) float64 {
	sun := s.Sun()
	if sun == nil {
		return 1
	}
	toSun := sub(sun.HeliocentricEclipticPos(), obs.HelioPos)
	L := norm(toSun)
	R := sun.EquatorialRadius / L
	toSun = scale(1/L, toSun)
	factor := 1.0
	for _, body := range s.bodies {
		if body.IsSun() || body.Name == obs.Planet || body.Type == Observer {
			continue
		}
		toBody := sub(body.HeliocentricEclipticPos(), obs.HelioPos)
		l := norm(toBody)
		if l == 0 {
			continue
		}
		r := body.EquatorialRadius / l
		d := norm(sub(toSun, scale(1/l, toBody)))
		var f float64
		switch {
		case d >= R+r:
			f = 1
		case d <= r-R:
			f = 0
		case d <= R-r:
			// Annular.
			f = 1 - r*r/(R*R)
		default:
			x := (R*R + d*d - r*r) / (2 * d)
			α := math.Acos(clamp(x/R, -1, 1))
			β := math.Acos(clamp((d-x)/r, -1, 1))
			AR := R * R * (α - 0.5*math.Sin(2*α))
			Ar := r * r * (β - 0.5*math.Sin(2*β))
			f = 1 - (AR+Ar)/(R*R*math.Pi)
		}
		if f < factor {
			factor = f
		}
	}
	return factor
}
