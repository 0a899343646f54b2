package stellarium

import (
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

const angleε = 1e-9 // degrees

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("The code did not panic")
		}
	}()
	f()
}

func vectorsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !scalar.EqualWithinAbsOrRel(a[i], b[i], 1e-9, 1e-9) {
			return false
		}
	}
	return true
}

// anglesEqual returns whether two angles in degrees are equal.
func anglesEqual(a, b float64) (bool, error) {
	diff := math.Mod(math.Abs(a-b), 360)
	if diff < angleε || 360-diff < angleε {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10f degrees", diff)
}

func newTestSystem(t *testing.T, cfg Config, metrics *Metrics) *System {
	ctx, err := NewContext(cfg, nil, metrics)
	if err != nil {
		t.Fatalf("NewContext: %s", err)
	}
	sys := NewSystem(ctx)
	mustAdd(t, sys, NoParent, BodyConfig{Name: "Sun", Type: "star", EquatorialRadius: SunRadius, AbsoluteMagnitude: undefinedAbsoluteMagnitude})
	return sys
}

func mustAdd(t *testing.T, sys *System, parent BodyID, cfg BodyConfig) *Body {
	b, err := sys.AddBody(parent, cfg)
	if err != nil {
		t.Fatalf("AddBody(%s): %s", cfg.Name, err)
	}
	return b
}

// fixedOrbit always returns the provided position.
func fixedOrbit(x, y, z float64) *EphemerisOrbit {
	return NewEphemerisOrbit(func(float64) ([]float64, []float64) {
		return []float64{x, y, z}, nil
	}, math.Sqrt(x*x+y*y+z*z), 0)
}

// computeAll updates the positions of all the bodies at the provided JDE.
func computeAll(sys *System, jde float64) {
	for _, b := range sys.Bodies() {
		b.ComputePosition(jde)
	}
}
