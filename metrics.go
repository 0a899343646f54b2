package stellarium

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the Prometheus counters of a simulation. A nil *Metrics records nothing.
type Metrics struct {
	CacheHits           prometheus.Counter
	CacheMisses         prometheus.Counter
	CacheEvictions      prometheus.Counter
	CorrectionRecompute *prometheus.CounterVec
	OrbitEvaluations    *prometheus.CounterVec
}

// NewMetrics registers the counters against the provided registerer, defaulting
// to the global Prometheus registry when nil. Counters already registered are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	hits, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stellarium_position_cache_hits_total",
		Help: "Number of positions served from a body position cache.",
	}), "stellarium_position_cache_hits_total")
	if err != nil {
		return nil, err
	}
	misses, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stellarium_position_cache_misses_total",
		Help: "Number of positions computed because they were not cached.",
	}), "stellarium_position_cache_misses_total")
	if err != nil {
		return nil, err
	}
	evictions, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stellarium_position_cache_evictions_total",
		Help: "Number of cached positions dropped to make room.",
	}), "stellarium_position_cache_evictions_total")
	if err != nil {
		return nil, err
	}
	recomputes, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stellarium_correction_recomputes_total",
		Help: "Number of periodic argument recomputations, labeled by correction group.",
	}, []string{"group"}), "stellarium_correction_recomputes_total")
	if err != nil {
		return nil, err
	}
	evaluations, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stellarium_orbit_evaluations_total",
		Help: "Number of orbit evaluations by ComputePosition, labeled by body type.",
	}, []string{"type"}), "stellarium_orbit_evaluations_total")
	if err != nil {
		return nil, err
	}
	return &Metrics{
		CacheHits:           hits,
		CacheMisses:         misses,
		CacheEvictions:      evictions,
		CorrectionRecompute: recomputes,
		OrbitEvaluations:    evaluations,
	}, nil
}

func (m *Metrics) cacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

func (m *Metrics) cacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

func (m *Metrics) cacheEvicted() {
	if m != nil {
		m.CacheEvictions.Inc()
	}
}

func (m *Metrics) correctionRecomputed(g CorrectionGroup) {
	if m != nil {
		m.CorrectionRecompute.WithLabelValues(g.String()).Inc()
	}
}

func (m *Metrics) orbitEvaluated(t BodyType) {
	if m != nil {
		m.OrbitEvaluations.WithLabelValues(t.String()).Inc()
	}
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return c, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
