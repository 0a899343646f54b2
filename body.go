package stellarium

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// BodyType classifies a body. The order matters: several thresholds compare types.
type BodyType uint8

const (
	Star BodyType = iota
	Planet
	Moon
	Observer
	Artificial
	Asteroid
	Plutino
	Comet
	DwarfPlanet
	Cubewano
	SDO // scattered disc object
	OCO // Oort cloud object
	Sednoid
	Interstellar
	UndefinedType
)

var bodyTypeNames = [...]string{
	Star:          "star",
	Planet:        "planet",
	Moon:          "moon",
	Observer:      "observer",
	Artificial:    "artificial",
	Asteroid:      "asteroid",
	Plutino:       "plutino",
	Comet:         "comet",
	DwarfPlanet:   "dwarf planet",
	Cubewano:      "cubewano",
	SDO:           "scattered disc object",
	OCO:           "Oort cloud object",
	Sednoid:       "sednoid",
	Interstellar:  "interstellar object",
	UndefinedType: "UNDEFINED",
}

func (t BodyType) String() string {
	if int(t) < len(bodyTypeNames) {
		return bodyTypeNames[t]
	}
	return bodyTypeNames[UndefinedType]
}

// ParseBodyType returns the body type from its configuration string.
func ParseBodyType(s string) (BodyType, error) {
	for t, name := range bodyTypeNames {
		if BodyType(t) != UndefinedType && strings.EqualFold(name, s) {
			return BodyType(t), nil
		}
	}
	return UndefinedType, fmt.Errorf("undefined body type '%s'", s)
}

// BodyID is the handle of a body in its System.
type BodyID int

// NoParent is the parent of the root body.
const NoParent BodyID = -1

// BodyConfig is the static configuration of a body.
type BodyConfig struct {
	Name              string
	Type              string
	EquatorialRadius  float64 // AU
	Oblateness        float64
	Albedo            float64
	Roughness         float64
	AbsoluteMagnitude float64 // -99 when undefined
	RingRadius        float64 // AU, outer radius of the rings if any
	SphereScale       float64 // 0 means 1
	Orbit             Orbit   // nil for the root star
}

// Body is a node of the solar system tree.
type Body struct {
	id       BodyID
	sys      *System
	parent   BodyID
	children []BodyID

	Name              string
	Type              BodyType
	EquatorialRadius  float64
	Oblateness        float64
	Albedo            float64
	Roughness         float64
	AbsoluteMagnitude float64
	RingRadius        float64
	SphereScale       float64

	orbit Orbit

	// Rotation
	re               RotationElements
	model            RotationModel
	correction       *rotationCorrection
	obliquity, node  float64 // current, updated by ComputeTransMatrix
	rotLocalToParent *mat.Dense
	axisRotation     float64 // degrees, last sidereal time

	// Position
	positionValid    bool
	lastJDE          float64
	deltaJDE         float64
	eclipticPos      []float64
	eclipticVelocity []float64
	distance         float64
	cache            *positionCache

	// Orbit path
	closeOrbit    bool
	deltaOrbitJDE float64
	orbitPath     [][]float64
	orbitPathJDE  float64
	orbitPathOK   bool
}

// newBody returns a new body; it panics on an unknown type since that means the
// static configuration is corrupt.
func newBody(cfg BodyConfig, segments int) *Body {
	t, err := ParseBodyType(cfg.Type)
	if err != nil {
		panic(fmt.Errorf("body %s: %s", cfg.Name, err))
	}
	b := &Body{
		Name:              cfg.Name,
		Type:              t,
		EquatorialRadius:  cfg.EquatorialRadius,
		Oblateness:        cfg.Oblateness,
		Albedo:            cfg.Albedo,
		Roughness:         cfg.Roughness,
		AbsoluteMagnitude: cfg.AbsoluteMagnitude,
		RingRadius:        cfg.RingRadius,
		SphereScale:       cfg.SphereScale,
		orbit:             cfg.Orbit,
		correction:        lookupRotationCorrection(cfg.Name),
		rotLocalToParent:  identity(),
		deltaJDE:          JDSecond,
		eclipticPos:       []float64{0, 0, 0},
		eclipticVelocity:  []float64{0, 0, 0},
		cache:             newPositionCache(2 * segments),
		closeOrbit:        true,
	}
	if b.SphereScale == 0 {
		b.SphereScale = 1
	}
	if b.Type <= DwarfPlanet && b.Name != "Pluto" {
		// Inner objects are recomputed more often; KBOs stay at 1 s.
		b.deltaJDE = 0.001 * JDSecond
	}
	return b
}

// ID returns the handle of the body.
func (b *Body) ID() BodyID { return b.id }

// Parent returns the parent body, or nil for the root.
func (b *Body) Parent() *Body {
	if b.parent == NoParent {
		return nil
	}
	return b.sys.bodies[b.parent]
}

// Satellites returns the children of this body.
func (b *Body) Satellites() []*Body {
	sats := make([]*Body, len(b.children))
	for i, id := range b.children {
		sats[i] = b.sys.bodies[id]
	}
	return sats
}

// Orbit returns the orbit of this body, nil for the root.
func (b *Body) Orbit() Orbit { return b.orbit }

// IsSun returns whether this body is the root star.
func (b *Body) IsSun() bool { return b.parent == NoParent }

func (b *Body) String() string {
	return fmt.Sprintf("%s (%s)", b.Name, b.Type)
}

// ComputePosition updates the parent-relative position and velocity at the provided JDE,
// unless the last computation is closer than the body's update threshold.
func (b *Body) ComputePosition(jde float64) {
	if b.positionValid && math.Abs(b.lastJDE-jde) <= b.deltaJDE {
		return
	}
	if b.orbit != nil {
		b.eclipticPos, b.eclipticVelocity = b.orbit.PositionAt(jde)
		b.sys.metrics.orbitEvaluated(b.Type)
	}
	b.lastJDE = jde
	b.positionValid = true
}

// LastJDE returns the date of the last position computation.
func (b *Body) LastJDE() float64 { return b.lastJDE }

// DeltaJDE returns the current update threshold in days.
func (b *Body) DeltaJDE() float64 { return b.deltaJDE }

// EclipticPos returns the last computed parent-relative position.
func (b *Body) EclipticPos() []float64 { return vcopy(b.eclipticPos) }

// EclipticVelocity returns the last computed parent-relative velocity.
func (b *Body) EclipticVelocity() []float64 { return vcopy(b.eclipticVelocity) }

// EclipticPosAt returns the parent-relative position at the provided JDE, using the
// last computed position or the position cache when possible.
func (b *Body) EclipticPosAt(jde float64) []float64 {
	if b.positionValid && fuzzyEquals(jde, b.lastJDE) {
		return vcopy(b.eclipticPos)
	}
	if pos, ok := b.cache.get(jde); ok {
		b.sys.metrics.cacheHit()
		return pos
	}
	b.sys.metrics.cacheMiss()
	pos := []float64{0, 0, 0}
	if b.orbit != nil {
		pos, _ = b.orbit.PositionAt(jde)
	}
	if b.cache.put(jde, pos) {
		b.sys.metrics.cacheEvicted()
	}
	return vcopy(pos)
}

// HeliocentricEclipticPos returns the position relative to the Sun: the sum of this
// body's position and of all its ancestors but the Sun.
func (b *Body) HeliocentricEclipticPos() []float64 {
	pos := vcopy(b.eclipticPos)
	for p := b.Parent(); p != nil && !p.IsSun(); p = p.Parent() {
		pos = add(pos, p.eclipticPos)
	}
	return pos
}

// HeliocentricEclipticPosAt is HeliocentricEclipticPos at any date, through the position caches.
func (b *Body) HeliocentricEclipticPosAt(jde float64) []float64 {
	pos := b.EclipticPosAt(jde)
	for p := b.Parent(); p != nil && !p.IsSun(); p = p.Parent() {
		pos = add(pos, p.EclipticPosAt(jde))
	}
	return pos
}

// HeliocentricEclipticVelocity returns the velocity relative to the Sun.
func (b *Body) HeliocentricEclipticVelocity() []float64 {
	vel := vcopy(b.eclipticVelocity)
	for p := b.Parent(); p != nil && !p.IsSun(); p = p.Parent() {
		vel = add(vel, p.eclipticVelocity)
	}
	return vel
}

// SetHeliocentricEclipticPos sets the parent-relative position from a heliocentric one.
func (b *Body) SetHeliocentricEclipticPos(pos []float64) {
	b.eclipticPos = vcopy(pos)
	for p := b.Parent(); p != nil && !p.IsSun(); p = p.Parent() {
		b.eclipticPos = sub(b.eclipticPos, p.eclipticPos)
	}
}

// ComputeDistance returns the distance (AU) to the provided heliocentric position.
// Minor bodies far away from the observer are then recomputed less often.
func (b *Body) ComputeDistance(obsHelioPos []float64) float64 {
	b.distance = norm(sub(obsHelioPos, b.HeliocentricEclipticPos()))
	if b.Type >= Asteroid {
		b.deltaJDE = b.distance * JDSecond
	}
	return b.distance
}

// Distance returns the last distance computed by ComputeDistance.
func (b *Body) Distance() float64 { return b.distance }

// J2000EquatorialPos returns the position relative to the observer in J2000 equatorial coordinates.
func (b *Body) J2000EquatorialPos(obs ObserverContext) []float64 {
	return MxV33(VSOP87ToJ2000, sub(b.HeliocentricEclipticPos(), obs.HelioPos))
}

// RADec returns the J2000 right ascension and declination of the body in degrees.
func (b *Body) RADec(obs ObserverContext) (ra, dec float64) {
	s := Cartesian2Spherical(b.J2000EquatorialPos(obs))
	return Rad2deg(s[2]), 90 - s[1]*rad2deg
}
