package stellarium

import (
	"fmt"
	"math"
	"strings"

	"github.com/soniakeys/meeus/v3/base"
)

const (
	// Parsec in kilometers.
	Parsec = 30.857e12
	// UndefinedMagnitude is returned when a magnitude cannot be computed.
	UndefinedMagnitude = 100.0
	// undefinedAbsoluteMagnitude marks bodies without an absolute magnitude.
	undefinedAbsoluteMagnitude = -99.0
)

// MagnitudeAlgorithm selects the empirical magnitude fits used for observers on Earth.
type MagnitudeAlgorithm uint8

const (
	// ExpSup2013 is the Explanatory Supplement to the Astronomical Almanac, 3rd edition (2013).
	ExpSup2013 MagnitudeAlgorithm = iota
	// ExpSup1992 is the Explanatory Supplement, 1992 edition.
	ExpSup1992
	// Mueller1893 is G. Müller's visual photometry (Potsdam, 1893).
	Mueller1893
	// AstrAlm1984 is the Astronomical Almanac 1984 and later.
	AstrAlm1984
	// Generic uses the albedo and phase integral for all bodies.
	Generic
)

var magnitudeAlgorithmNames = [...]string{"ExpSup2013", "ExpSup1992", "Mueller1893", "AstrAlm1984", "Generic"}

func (m MagnitudeAlgorithm) String() string {
	if int(m) < len(magnitudeAlgorithmNames) {
		return magnitudeAlgorithmNames[m]
	}
	return "undefined"
}

// ParseMagnitudeAlgorithm returns the algorithm from its name. An empty name is the default.
func ParseMagnitudeAlgorithm(s string) (MagnitudeAlgorithm, error) {
	if s == "" {
		return ExpSup2013, nil
	}
	for i, name := range magnitudeAlgorithmNames {
		if strings.EqualFold(name, s) {
			return MagnitudeAlgorithm(i), nil
		}
	}
	return ExpSup2013, fmt.Errorf("unknown magnitude algorithm '%s'", s)
}

// ObserverContext is what the photometric queries need to know about the observer.
type ObserverContext struct {
	HelioPos []float64 // heliocentric VSOP87 position, AU
	Planet   string    // name of the body the observer stands on
	JD, JDE  float64
}

// PhaseAngle returns the Sun-body-observer angle in radians.
func (b *Body) PhaseAngle(obsPos []float64) float64 {
	observerRq := norm2(obsPos)
	planetHelioPos := b.HeliocentricEclipticPos()
	planetRq := norm2(planetHelioPos)
	observerPlanetRq := norm2(sub(obsPos, planetHelioPos))
	return math.Acos(clamp((observerPlanetRq+planetRq-observerRq)/(2*math.Sqrt(observerPlanetRq*planetRq)), -1, 1))
}

// Phase returns the illuminated fraction of the disk, in [0, 1].
func (b *Body) Phase(obsPos []float64) float64 {
	observerRq := norm2(obsPos)
	planetHelioPos := b.HeliocentricEclipticPos()
	planetRq := norm2(planetHelioPos)
	observerPlanetRq := norm2(sub(obsPos, planetHelioPos))
	cosχ := (observerPlanetRq + planetRq - observerRq) / (2 * math.Sqrt(observerPlanetRq*planetRq))
	return 0.5 * math.Abs(1+cosχ)
}

// Elongation returns the Sun-observer-body angle in radians.
func (b *Body) Elongation(obsPos []float64) float64 {
	observerRq := norm2(obsPos)
	planetHelioPos := b.HeliocentricEclipticPos()
	planetRq := norm2(planetHelioPos)
	observerPlanetRq := norm2(sub(obsPos, planetHelioPos))
	return math.Acos(clamp((observerPlanetRq+observerRq-planetRq)/(2*math.Sqrt(observerPlanetRq*observerRq)), -1, 1))
}

// shadowFactor returns the fraction of sunlight reaching a satellite through its parent's shadow.
func (b *Body) shadowFactor(planetHelioPos []float64) float64 {
	parent := b.Parent()
	if parent == nil || parent.IsSun() {
		return 1
	}
	parentHelioPos := parent.HeliocentricEclipticPos()
	parentRq := norm2(parentHelioPos)
	posTimesParentPos := dot(planetHelioPos, parentHelioPos)
	if posTimesParentPos <= parentRq {
		// Closer to the Sun than the parent.
		return 1
	}
	sunRadius := parent.Parent().EquatorialRadius
	sunMinusParentRadius := sunRadius - parent.EquatorialRadius
	quot := posTimesParentPos / parentRq
	// d > 0 means inside the umbra cone.
	d := sunRadius - sunMinusParentRadius*quot -
		math.Sqrt((1-sunMinusParentRadius/math.Sqrt(parentRq))*(norm2(planetHelioPos)-posTimesParentPos*quot))
	switch {
	case d >= b.EquatorialRadius:
		if b.Name == "Moon" {
			return 2.718e-5
		}
		return 1e-9
	case d > -b.EquatorialRadius:
		d /= b.EquatorialRadius
		return 0.5 - (math.Asin(d)+d*math.Sqrt(1-d*d))/math.Pi
	}
	return 1
}

// VMagnitude returns the apparent visual magnitude as seen by the observer.
func (b *Body) VMagnitude(obs ObserverContext) float64 {
	if b.IsSun() {
		distParsec := norm(obs.HelioPos) * AU / Parsec
		shadowFactor := math.Max(0.000128, b.sys.EclipseFactor(obs))
		return 4.83 + 5*(math.Log10(distParsec)-1) - 2.5*math.Log10(shadowFactor)
	}

	observerRq := norm2(obs.HelioPos)
	planetHelioPos := b.HeliocentricEclipticPos()
	planetRq := norm2(planetHelioPos)
	observerPlanetRq := norm2(sub(obs.HelioPos, planetHelioPos))
	dr := math.Sqrt(observerPlanetRq * planetRq)
	cosχ := (observerPlanetRq + planetRq - observerRq) / (2 * dr)
	phaseAngle := math.Acos(clamp(cosχ, -1, 1))
	shadowFactor := b.shadowFactor(planetHelioPos)

	if obs.Planet == "Earth" {
		if mag, ok := b.earthMagnitude(obs, phaseAngle/deg2rad, 5*math.Log10(dr), shadowFactor); ok {
			return mag
		}
	}

	p := (1-phaseAngle/math.Pi)*cosχ + math.Sqrt(1-cosχ*cosχ)/math.Pi
	F := 2 * b.Albedo * b.EquatorialRadius * b.EquatorialRadius * p / (3 * observerPlanetRq * planetRq) * shadowFactor
	return -26.73 - 2.5*math.Log10(F)
}

// earthMagnitude applies the empirical fits of the selected algorithm.
// φ is the phase angle in degrees and d the distance term.
func (b *Body) earthMagnitude(obs ObserverContext, φ, d, shadowFactor float64) (float64, bool) {
	switch b.sys.ctx.MagnitudeAlgorithm {
	case ExpSup2013:
		switch b.Name {
		case "Mercury":
			return -0.6 + d + ((3.02e-6*φ-0.000488)*φ+0.0498)*φ, true
		case "Venus":
			if φ < 163.6 {
				return -4.47 + d + ((0.13e-6*φ+0.000057)*φ+0.0103)*φ, true
			}
			return 236.05828 + d - 2.81914*φ + 8.39034e-3*φ*φ, true
		case "Earth":
			return -3.87 + d + ((0.48e-6*φ+0.000019)*φ+0.0130)*φ, true
		case "Mars":
			return -1.52 + d + 0.016*φ, true
		case "Jupiter":
			return -9.40 + d + 0.005*φ, true
		case "Saturn":
			return -8.88 + d + 0.044*φ + b.saturnRings(obs), true
		case "Uranus":
			return -7.19 + d + 0.002*φ, true
		case "Neptune":
			return -6.87 + d, true
		case "Pluto":
			return -1.01 + d, true
		case "Io":
			return galilean(shadowFactor, -1.68+d+φ*(0.046-0.0010*φ)), true
		case "Europa":
			return galilean(shadowFactor, -1.41+d+φ*(0.0312-0.00125*φ)), true
		case "Ganymede":
			return galilean(shadowFactor, -2.09+d+φ*(0.0323-0.00066*φ)), true
		case "Callisto":
			return galilean(shadowFactor, -1.05+d+φ*(0.078-0.00274*φ)), true
		}
		if b.AbsoluteMagnitude != undefinedAbsoluteMagnitude && b.Name != "Moon" {
			return b.AbsoluteMagnitude + d, true
		}
	case ExpSup1992:
		f1 := φ / 100
		switch b.Name {
		case "Mercury":
			if φ > 150 {
				f1 = 1.5
			}
			return -0.36 + d + 3.8*f1 - 2.73*f1*f1 + 2*f1*f1*f1, true
		case "Venus":
			return -4.29 + d + 0.09*f1 + 2.39*f1*f1 - 0.65*f1*f1*f1, true
		case "Mars":
			return -1.52 + d + 0.016*φ, true
		case "Jupiter":
			return -9.25 + d + 0.005*φ, true
		case "Saturn":
			return -8.88 + d + 0.044*φ + b.saturnRings(obs), true
		case "Uranus":
			return -7.19 + d + 0.0028*φ, true
		case "Neptune":
			return -6.87 + d, true
		case "Pluto":
			return -1.01 + d + 0.041*φ, true
		}
	case Mueller1893:
		switch b.Name {
		case "Mercury":
			ph50 := φ - 50
			return 1.16 + d + 0.02838*ph50 + 0.0001023*ph50*ph50, true
		case "Venus":
			return -4.00 + d + 0.01322*φ + 0.0000004247*φ*φ*φ, true
		case "Mars":
			return -1.30 + d + 0.01486*φ, true
		case "Jupiter":
			return -8.93 + d, true
		case "Saturn":
			return -8.68 + d + 0.044*φ + b.saturnRings(obs), true
		case "Uranus":
			return -6.85 + d, true
		case "Neptune":
			return -7.05 + d, true
		case "Pluto":
			return -1.0 + d, true
		}
	case AstrAlm1984:
		switch b.Name {
		case "Mercury":
			return -0.42 + d + 0.038*φ - 0.000273*φ*φ + 0.000002*φ*φ*φ, true
		case "Venus":
			return -4.40 + d + 0.0009*φ + 0.000239*φ*φ - 0.00000065*φ*φ*φ, true
		case "Mars":
			return -1.52 + d + 0.016*φ, true
		case "Jupiter":
			return -9.40 + d + 0.005*φ, true
		case "Saturn":
			return -8.88 + d + 0.044*φ + b.saturnRings(obs), true
		case "Uranus":
			return -7.19 + d, true
		case "Neptune":
			return -6.87 + d, true
		case "Pluto":
			return -1.00 + d, true
		}
	}
	return 0, false
}

// galilean returns a faint sentinel magnitude for eclipsed Galilean moons.
func galilean(shadowFactor, mag float64) float64 {
	if shadowFactor < 1 {
		return 21.0
	}
	return mag
}

// saturnRings returns the ring illumination term (Meeus, Astronomical Algorithms, ch. 45).
func (b *Body) saturnRings(obs ObserverContext) float64 {
	T := base.J2000Century(obs.JDE)
	i := ((0.000004*T-0.012998)*T + 28.075216) * deg2rad
	Ω := ((0.000412*T+1.394681)*T + 169.508470) * deg2rad
	earthPos := obs.HelioPos
	if earth, ok := b.sys.ByName("Earth"); ok {
		earthPos = earth.HeliocentricEclipticPos()
	}
	saturnEarth := sub(b.HeliocentricEclipticPos(), earthPos)
	λ := math.Atan2(saturnEarth[1], saturnEarth[0])
	β := math.Atan2(saturnEarth[2], math.Hypot(saturnEarth[0], saturnEarth[1]))
	sinx := math.Sin(i)*math.Cos(β)*math.Sin(λ-Ω) - math.Cos(i)*math.Sin(β)
	return -2.6*math.Abs(sinx) + 1.25*sinx*sinx
}

// meanOppositionMagnitudes are the tabulated values of the major bodies.
var meanOppositionMagnitudes = map[string]float64{
	"Sun":      UndefinedMagnitude,
	"Moon":     -12.74,
	"Mars":     -2.01,
	"Jupiter":  -2.7,
	"Saturn":   0.67,
	"Uranus":   5.52,
	"Neptune":  7.84,
	"Pluto":    15.12,
	"Io":       5.02,
	"Europa":   5.29,
	"Ganymede": 4.61,
	"Callisto": 5.65,
}

// parentSemiMajorAxes are used for the opposition distance of moons, in AU.
var parentSemiMajorAxes = map[string]float64{
	"Mars":    1.52371034,
	"Jupiter": 5.202887,
	"Saturn":  9.53667594,
	"Uranus":  19.18916464,
	"Neptune": 30.06992276,
	"Pluto":   39.48211675,
}

// MeanOppositionMagnitude returns the magnitude at a mean opposition, or UndefinedMagnitude.
func (b *Body) MeanOppositionMagnitude() float64 {
	if b.AbsoluteMagnitude <= undefinedAbsoluteMagnitude {
		return UndefinedMagnitude
	}
	if mag, ok := meanOppositionMagnitudes[b.Name]; ok {
		return mag
	}
	var a float64
	if p := b.Parent(); p != nil {
		a = parentSemiMajorAxes[p.Name]
	}
	if b.Type >= Asteroid && b.orbit != nil {
		a = b.orbit.SemiMajorAxis()
	}
	if a > 0 {
		return b.AbsoluteMagnitude + 5*math.Log10(a*(a-1))
	}
	return UndefinedMagnitude
}

// AngularSize returns the apparent radius in degrees, rings included.
func (b *Body) AngularSize(obs ObserverContext) float64 {
	radius := b.EquatorialRadius
	if b.RingRadius > 0 {
		radius = b.RingRadius
	}
	return math.Atan2(radius*b.SphereScale, norm(b.J2000EquatorialPos(obs))) / deg2rad
}

// SpheroidAngularSize returns the apparent radius of the globe alone in degrees.
func (b *Body) SpheroidAngularSize(obs ObserverContext) float64 {
	return math.Atan2(b.EquatorialRadius*b.SphereScale, norm(b.J2000EquatorialPos(obs))) / deg2rad
}
