package stellarium

import "math"

// rotationCorrection holds the periodic terms of a body's pole and prime meridian.
// All functions return degrees; a holds the group arguments (radians), t is days
// and T Julian centuries since J2000.
type rotationCorrection struct {
	group    CorrectionGroup
	pole     func(a args, t, T float64) (ΔRA, ΔDE float64)
	meridian func(a args, t, T float64) float64
}

// args eases writing the periodic series.
type args []float64

func (a args) s(k int) float64 { return math.Sin(a[k]) }
func (a args) c(k int) float64 { return math.Cos(a[k]) }
func (a args) sn(k int, m float64) float64 { return math.Sin(m * a[k]) }
func (a args) cn(k int, m float64) float64 { return math.Cos(m * a[k]) }

// argDeg returns deg2rad·(base + remainder(rate·x, 360)).
func argDeg(base, rate, x float64) float64 {
	return deg2rad * (base + math.Remainder(rate*x, 360))
}

// neptunianInner builds the correction of a small inner moon of Neptune.
func neptunianInner(k int, raK, deK, naW, wK float64, second ...float64) rotationCorrection {
	return rotationCorrection{
		group: NeptuneGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			ra := 0.70*a.s(cNa) - raK*a.s(k)
			de := -0.51*a.c(cNa) - deK*a.c(k)
			if len(second) == 3 {
				ra += second[0] * a.sn(k, 2)
				de += second[1] * a.cn(k, 2)
			}
			return ra, de
		},
		meridian: func(a args, _, _ float64) float64 {
			w := naW*a.s(cNa) + wK*a.s(k)
			if len(second) == 3 {
				w += second[2] * a.sn(k, 2)
			}
			return w
		},
	}
}

// uranianInner builds the correction of a small inner moon of Uranus.
func uranianInner(k int, ra, de, w float64) rotationCorrection {
	return rotationCorrection{
		group: UranusGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			return ra * a.s(k), de * a.c(k)
		},
		meridian: func(a args, _, _ float64) float64 {
			return -w * a.s(k)
		},
	}
}

// rotationCorrections maps body names to their periodic rotation terms.
// Bodies not listed use their base pole and meridian.
var rotationCorrections = map[string]rotationCorrection{
	"Moon": {
		group: EarthMoonGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			ra := -3.8787*a.s(cE1) - 0.1204*a.s(cE2) + 0.0700*a.s(cE3) - 0.0172*a.s(cE4) +
				0.0072*a.s(cE6) - 0.0052*a.s(cE10) + 0.0043*a.s(cE13)
			de := 1.5419*a.c(cE1) + 0.0239*a.c(cE2) - 0.0278*a.c(cE3) + 0.0068*a.c(cE4) -
				0.0029*a.c(cE6) + 0.0009*a.c(cE7) + 0.0008*a.c(cE10) - 0.0009*a.c(cE13)
			return ra, de
		},
		meridian: func(a args, t, _ float64) float64 {
			return -1.4e-12*t*t + 3.5610*a.s(cE1) + 0.1208*a.s(cE2) - 0.0642*a.s(cE3) +
				0.0158*a.s(cE4) + 0.0252*a.s(cE5) - 0.0066*a.s(cE6) - 0.0047*a.s(cE7) -
				0.0046*a.s(cE8) + 0.0028*a.s(cE9) + 0.0052*a.s(cE10) + 0.0040*a.s(cE11) +
				0.0019*a.s(cE12) - 0.0044*a.s(cE13)
		},
	},
	"Mercury": {
		group: noCorrectionGroup,
		meridian: func(_ args, t, _ float64) float64 {
			M1 := argDeg(174.791086, 4.092335, t)
			M2 := argDeg(349.582171, 8.184670, t)
			M3 := argDeg(164.373257, 12.277005, t)
			M4 := argDeg(339.164343, 16.369340, t)
			M5 := argDeg(153.955429, 20.461675, t)
			return 0.00993822*math.Sin(M1) - 0.00104581*math.Sin(M2) - 0.00010280*math.Sin(M3) -
				0.00002364*math.Sin(M4) - 0.00000535*math.Sin(M5)
		},
	},
	"Phobos": {
		group: noCorrectionGroup,
		pole: func(_ args, t, _ float64) (float64, float64) {
			M1 := argDeg(169.51, -0.4357640, t)
			return 1.79 * math.Sin(M1), -1.08 * math.Cos(M1)
		},
		meridian: func(_ args, t, T float64) float64 {
			M1 := argDeg(169.51, -0.4357640, t)
			M2 := deg2rad * (192.93 + math.Remainder(1128.4096700*t, 360) + 8.864*T*T)
			return 8.864*T*T - 1.42*math.Sin(M1) - 0.78*math.Sin(M2)
		},
	},
	"Deimos": {
		group: noCorrectionGroup,
		pole: func(_ args, t, _ float64) (float64, float64) {
			M3 := argDeg(53.47, -0.0181510, t)
			return 2.98 * math.Sin(M3), -1.78 * math.Cos(M3)
		},
		meridian: func(_ args, t, T float64) float64 {
			M3 := argDeg(53.47, -0.0181510, t)
			return -0.520*T*T - 2.58*math.Sin(M3) + 0.19*math.Cos(M3)
		},
	},
	"Jupiter": {
		group: JupiterGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			ra := 0.000117*a.s(cJa1) + 0.000938*a.s(cJa2) + 0.001432*a.s(cJa3) + 0.000030*a.s(cJa4) + 0.002150*a.s(cJa5)
			de := 0.000050*a.c(cJa1) + 0.000404*a.c(cJa2) + 0.000617*a.c(cJa3) - 0.000013*a.c(cJa4) + 0.000926*a.c(cJa5)
			return ra, de
		},
	},
	"Io": {
		group: JupiterGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			return 0.094*a.s(cJ3) + 0.024*a.s(cJ4), 0.040*a.c(cJ3) + 0.011*a.c(cJ4)
		},
		meridian: func(a args, _, _ float64) float64 {
			return -0.085*a.s(cJ3) - 0.022*a.s(cJ4)
		},
	},
	"Europa": {
		group: JupiterGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			ra := 1.086*a.s(cJ4) + 0.060*a.s(cJ5) + 0.015*a.s(cJ6) + 0.009*a.s(cJ7)
			de := 0.468*a.c(cJ4) + 0.026*a.c(cJ5) + 0.007*a.c(cJ6) + 0.002*a.c(cJ7)
			return ra, de
		},
		meridian: func(a args, _, _ float64) float64 {
			return -0.980*a.s(cJ4) - 0.054*a.s(cJ5) - 0.014*a.s(cJ6) - 0.008*a.s(cJ7)
		},
	},
	"Ganymede": {
		group: JupiterGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			ra := -0.037*a.s(cJ4) + 0.431*a.s(cJ5) + 0.091*a.s(cJ6)
			de := -0.016*a.c(cJ4) + 0.186*a.c(cJ5) + 0.039*a.c(cJ6)
			return ra, de
		},
		meridian: func(a args, _, _ float64) float64 {
			return 0.033*a.s(cJ4) - 0.389*a.s(cJ5) - 0.082*a.s(cJ6)
		},
	},
	"Callisto": {
		group: JupiterGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			ra := -0.068*a.s(cJ5) + 0.590*a.s(cJ6) + 0.010*a.s(cJ8)
			de := -0.029*a.c(cJ5) + 0.254*a.c(cJ6) - 0.004*a.c(cJ8)
			return ra, de
		},
		meridian: func(a args, _, _ float64) float64 {
			return 0.061*a.s(cJ5) - 0.533*a.s(cJ6) - 0.009*a.s(cJ8)
		},
	},
	"Amalthea": {
		group: JupiterGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			return -0.84*a.s(cJ1) + 0.01*a.sn(cJ1, 2), -0.36 * a.c(cJ1)
		},
		meridian: func(a args, _, _ float64) float64 {
			return 0.76*a.s(cJ1) - 0.01*a.sn(cJ1, 2)
		},
	},
	"Thebe": {
		group: JupiterGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			return -2.11*a.s(cJ2) - 0.04*a.sn(cJ2, 2), -0.91*a.c(cJ2) + 0.01*a.cn(cJ2, 2)
		},
		meridian: func(a args, _, _ float64) float64 {
			return 1.91*a.s(cJ2) - 0.04*a.sn(cJ2, 2)
		},
	},
	"Mimas": {
		group: SaturnGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			return 13.56 * a.s(cS3), -1.53 * a.c(cS3)
		},
		meridian: func(a args, _, _ float64) float64 {
			return -13.48*a.s(cS3) - 44.85*a.s(cS5)
		},
	},
	"Tethys": {
		group: SaturnGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			return 9.66 * a.s(cS4), -1.09 * a.c(cS4)
		},
		meridian: func(a args, _, _ float64) float64 {
			return -9.60*a.s(cS4) + 2.23*a.s(cS5)
		},
	},
	"Rhea": {
		group: SaturnGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			return 3.10 * a.s(cS6), -0.35 * a.c(cS6)
		},
		meridian: func(a args, _, _ float64) float64 {
			return -3.08 * a.s(cS6)
		},
	},
	"Janus": {
		group: SaturnGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			return -1.623*a.s(cS2) + 0.023*a.sn(cS2, 2), -0.183*a.c(cS2) + 0.001*a.cn(cS2, 2)
		},
		meridian: func(a args, _, _ float64) float64 {
			return 1.613*a.s(cS2) - 0.023*a.sn(cS2, 2)
		},
	},
	"Epimetheus": {
		group: SaturnGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			return -3.153*a.s(cS1) + 0.086*a.sn(cS1, 2), -0.356*a.c(cS1) + 0.005*a.cn(cS1, 2)
		},
		meridian: func(a args, _, _ float64) float64 {
			return 3.133*a.s(cS1) - 0.086*a.sn(cS1, 2)
		},
	},
	"Ariel": {
		group: UranusGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			return 0.29 * a.s(cU13), 0.28 * a.c(cU13)
		},
		meridian: func(a args, _, _ float64) float64 {
			return 0.05*a.s(cU12) + 0.08*a.s(cU13)
		},
	},
	"Umbriel": {
		group: UranusGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			return 0.21 * a.s(cU14), 0.20 * a.c(cU14)
		},
		meridian: func(a args, _, _ float64) float64 {
			return -0.09*a.s(cU12) + 0.06*a.s(cU14)
		},
	},
	"Titania": {
		group: UranusGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			return 0.29 * a.s(cU15), 0.28 * a.c(cU15)
		},
		meridian: func(a args, _, _ float64) float64 {
			return 0.08 * a.s(cU15)
		},
	},
	"Oberon": {
		group: UranusGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			return 0.16 * a.s(cU16), 0.16 * a.c(cU16)
		},
		meridian: func(a args, _, _ float64) float64 {
			return 0.04 * a.s(cU16)
		},
	},
	"Miranda": {
		group: UranusGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			return 4.41*a.s(cU11) - 0.04*a.sn(cU11, 2), 4.25*a.c(cU11) - 0.02*a.cn(cU11, 2)
		},
		meridian: func(a args, _, _ float64) float64 {
			return -1.27*a.s(cU12) + 0.15*a.sn(cU12, 2) + 1.15*a.s(cU11) - 0.09*a.sn(cU11, 2)
		},
	},
	"Cordelia":  uranianInner(cU1, -0.15, 0.14, 0.04),
	"Ophelia":   uranianInner(cU2, -0.09, 0.09, 0.03),
	"Cressida":  uranianInner(cU4, -0.04, 0.04, 0.01),
	"Desdemona": uranianInner(cU5, -0.17, 0.16, 0.04),
	"Juliet":    uranianInner(cU6, -0.06, 0.06, 0.02),
	"Neptune": {
		group: NeptuneGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			return 0.70 * a.s(cNa), -0.51 * a.c(cNa)
		},
		meridian: func(a args, _, _ float64) float64 {
			return -0.48 * a.s(cNa)
		},
	},
	"Triton": {
		group: NeptuneGroup,
		pole: func(a args, _, _ float64) (float64, float64) {
			ra := -32.35*a.s(cN7) - 6.28*a.sn(cN7, 2) - 2.08*a.sn(cN7, 3) - 0.74*a.sn(cN7, 4) -
				0.28*a.sn(cN7, 5) - 0.11*a.sn(cN7, 6) - 0.07*a.sn(cN7, 7) - 0.02*a.sn(cN7, 8) - 0.01*a.sn(cN7, 9)
			de := 22.55*a.c(cN7) + 2.10*a.cn(cN7, 2) + 0.55*a.cn(cN7, 3) + 0.16*a.cn(cN7, 4) +
				0.05*a.cn(cN7, 5) + 0.02*a.cn(cN7, 6) + 0.01*a.cn(cN7, 7)
			return ra, de
		},
		meridian: func(a args, _, _ float64) float64 {
			return 22.25*a.s(cN7) + 6.73*a.sn(cN7, 2) + 2.05*a.sn(cN7, 3) + 0.74*a.sn(cN7, 4) +
				0.28*a.sn(cN7, 5) + 0.11*a.sn(cN7, 6) + 0.05*a.sn(cN7, 7) + 0.02*a.sn(cN7, 8) + 0.01*a.sn(cN7, 9)
		},
	},
	"Naiad":    neptunianInner(cN1, 6.49, 4.75, -0.48, 4.40, 0.25, 0.09, -0.27),
	"Thalassa": neptunianInner(cN2, 0.28, 0.21, -0.48, 0.19),
	"Despina":  neptunianInner(cN3, 0.09, 0.07, -0.49, 0.06),
	"Galatea":  neptunianInner(cN4, 0.07, 0.05, -0.48, 0.05),
	"Larissa":  neptunianInner(cN5, 0.27, 0.20, -0.48, 0.19),
	"Proteus":  neptunianInner(cN6, 0.05, 0.04, -0.48, 0.04),
}

// lookupRotationCorrection returns the correction of the named body, if any.
func lookupRotationCorrection(name string) *rotationCorrection {
	if rc, ok := rotationCorrections[name]; ok {
		return &rc
	}
	return nil
}

// poleCorrection returns the pole correction in radians at the provided JDE.
func (rc *rotationCorrection) poleCorrection(table *CorrectionTable, jde float64) (ΔRA, ΔDE float64) {
	if rc == nil || rc.pole == nil {
		return 0, 0
	}
	t := jde - J2000
	ra, de := rc.pole(table.EnsureFresh(rc.group, jde), t, t/36525)
	return ra * deg2rad, de * deg2rad
}

// meridianCorrection returns the prime meridian correction in degrees at the provided JDE.
func (rc *rotationCorrection) meridianCorrection(table *CorrectionTable, jde float64) float64 {
	if rc == nil || rc.meridian == nil {
		return 0
	}
	t := jde - J2000
	return rc.meridian(table.EnsureFresh(rc.group, jde), t, t/36525)
}
