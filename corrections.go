package stellarium

import (
	"math"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// CorrectionGroup identifies a set of periodic arguments shared by a planet and its moons.
type CorrectionGroup uint8

const (
	EarthMoonGroup CorrectionGroup = iota
	JupiterGroup
	SaturnGroup
	UranusGroup
	NeptuneGroup
	nCorrectionGroups
	noCorrectionGroup = nCorrectionGroups
)

func (g CorrectionGroup) String() string {
	switch g {
	case EarthMoonGroup:
		return "earth-moon"
	case JupiterGroup:
		return "jupiter"
	case SaturnGroup:
		return "saturn"
	case UranusGroup:
		return "uranus"
	case NeptuneGroup:
		return "neptune"
	default:
		return "none"
	}
}

// Indexes of the arguments in each group.
const (
	cE1 = iota
	cE2
	cE3
	cE4
	cE5
	cE6
	cE7
	cE8
	cE9
	cE10
	cE11
	cE12
	cE13
)

const (
	cJa1 = iota
	cJa2
	cJa3
	cJa4
	cJa5
	cJ1
	cJ2
	cJ3
	cJ4
	cJ5
	cJ6
	cJ7
	cJ8
)

const (
	cS1 = iota
	cS2
	cS3
	cS4
	cS5
	cS6
)

const (
	cU1 = iota
	cU2
	cU3
	cU4
	cU5
	cU6
	cU7
	cU8
	cU9
	cU10
	cU11
	cU12
	cU13
	cU14
	cU15
	cU16
)

const (
	cNa = iota
	cN1
	cN2
	cN3
	cN4
	cN5
	cN6
	cN7
)

// correctionArgument is base + rate·x in degrees, x being days (Earth-Moon) or Julian centuries.
type correctionArgument struct {
	base, rate float64
}

var correctionArguments = [nCorrectionGroups][]correctionArgument{
	EarthMoonGroup: {
		{125.045, -0.0529921}, {250.089, -0.1059842}, {260.008, 13.0120009}, {176.625, 13.3407154},
		{357.529, 0.9856003}, {311.589, 26.4057084}, {134.963, 13.0649930}, {276.617, 0.3287146},
		{34.226, 1.7484877}, {15.134, -0.1589763}, {119.743, 0.0036096}, {239.961, 0.1643573},
		{25.053, 12.9590088},
	},
	JupiterGroup: {
		{99.360714, 4850.4046}, {175.895369, 1191.9605}, {300.323162, 262.5475}, {114.012305, 6070.2476},
		{49.511251, 64.3000},
		{73.32, 91472.9}, {24.62, 45137.2}, {283.90, 4850.7}, {355.80, 1191.3},
		{119.90, 262.1}, {229.80, 64.3}, {352.25, 2382.6}, {113.35, 6070.0},
	},
	SaturnGroup: {
		{353.32, 75706.7}, {28.72, 75706.7}, {177.40, -36505.5}, {300.00, -7225.9},
		{316.45, 506.2}, {345.20, -1016.3},
	},
	UranusGroup: {
		{115.75, 54991.87}, {141.69, 41887.66}, {135.03, 29927.35}, {61.77, 25733.59},
		{249.32, 24471.46}, {43.86, 22278.41}, {77.66, 20289.42}, {157.36, 16652.76},
		{101.81, 12872.63}, {138.64, 8061.81}, {102.23, -2024.22}, {316.41, 2863.96},
		{304.01, -51.94}, {308.71, -93.17}, {340.82, -75.32}, {259.14, -504.81},
	},
	NeptuneGroup: {
		{357.85, 52.316}, {323.92, 62606.6}, {220.51, 55064.2}, {354.27, 46564.5},
		{75.31, 26109.4}, {35.36, 14325.4}, {142.61, 2824.6}, {177.85, 52.316},
	},
}

// threshold returns the staleness threshold of the group in days.
func (g CorrectionGroup) threshold() float64 {
	if g == EarthMoonGroup {
		return JDMinute
	}
	return 0.025
}

type correctionSet struct {
	lastJDE float64
	fresh   bool
	angles  []float64
}

// CorrectionTable caches the periodic arguments of each group, in radians.
// It is owned by a simulation Context and is not safe for concurrent use.
type CorrectionTable struct {
	sets    [nCorrectionGroups]correctionSet
	logger  kitlog.Logger
	metrics *Metrics
}

// NewCorrectionTable returns an empty table; nil logger and metrics are allowed.
func NewCorrectionTable(logger kitlog.Logger, metrics *Metrics) *CorrectionTable {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	c := &CorrectionTable{logger: kitlog.With(logger, "subsys", "corrections"), metrics: metrics}
	for g := range c.sets {
		c.sets[g].angles = make([]float64, len(correctionArguments[g]))
	}
	return c
}

// EnsureFresh returns the arguments of the group at the provided JDE, recomputing
// them only if the cached ones are older than the group threshold.
// The returned slice is owned by the table.
func (c *CorrectionTable) EnsureFresh(g CorrectionGroup, jde float64) []float64 {
	if g >= nCorrectionGroups {
		return nil
	}
	set := &c.sets[g]
	if set.fresh && math.Abs(jde-set.lastJDE) <= g.threshold() {
		return set.angles
	}
	x := jde - J2000
	if g != EarthMoonGroup {
		x /= 36525
	}
	for k, arg := range correctionArguments[g] {
		set.angles[k] = deg2rad * (arg.base + math.Remainder(arg.rate*x, 360))
	}
	set.lastJDE = jde
	set.fresh = true
	c.metrics.correctionRecomputed(g)
	level.Debug(c.logger).Log("msg", "recomputed periodic arguments", "group", g, "jde", jde)
	return set.angles
}

// LastJDE returns the JDE of the last recomputation of the group, and whether it was ever computed.
func (c *CorrectionTable) LastJDE(g CorrectionGroup) (float64, bool) {
	if g >= nCorrectionGroups {
		return 0, false
	}
	return c.sets[g].lastJDE, c.sets[g].fresh
}
