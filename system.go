package stellarium

import (
	"fmt"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// Context is the simulation state shared by all the bodies of a System.
type Context struct {
	Nutation           bool
	Topocentric        bool
	MagnitudeAlgorithm MagnitudeAlgorithm
	GRS                GRSConfig
	OrbitSegments      int
	Corrections        *CorrectionTable
	Logger             kitlog.Logger
	Metrics            *Metrics
}

// NewContext returns a context from the configuration. Logger and metrics may be nil.
func NewContext(cfg Config, logger kitlog.Logger, metrics *Metrics) (*Context, error) {
	algo, err := ParseMagnitudeAlgorithm(cfg.MagnitudeAlgorithm)
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	if cfg.OrbitSegments < 2 {
		return nil, errors.Errorf("invalid configuration: %d orbit segments", cfg.OrbitSegments)
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Context{
		Nutation:           cfg.Nutation,
		Topocentric:        cfg.Topocentric,
		MagnitudeAlgorithm: algo,
		GRS:                cfg.GRS,
		OrbitSegments:      cfg.OrbitSegments,
		Corrections:        NewCorrectionTable(logger, metrics),
		Logger:             logger,
		Metrics:            metrics,
	}, nil
}

// System is an arena of bodies. Parents are always stored before their children.
// It is not safe for concurrent use.
type System struct {
	ctx     *Context
	bodies  []*Body
	byName  map[string]BodyID
	metrics *Metrics
	logger  kitlog.Logger
}

// NewSystem returns an empty system.
func NewSystem(ctx *Context) *System {
	return &System{
		ctx:     ctx,
		byName:  make(map[string]BodyID),
		metrics: ctx.Metrics,
		logger:  kitlog.With(ctx.Logger, "subsys", "system"),
	}
}

// Context returns the simulation context of the system.
func (s *System) Context() *Context { return s.ctx }

// AddBody adds a body as a child of parent. The first body must be the root star
// and be added with NoParent. It panics if the configured type is unknown.
func (s *System) AddBody(parent BodyID, cfg BodyConfig) (*Body, error) {
	if _, exists := s.byName[cfg.Name]; exists {
		return nil, fmt.Errorf("body %s already exists", cfg.Name)
	}
	switch {
	case parent == NoParent && len(s.bodies) > 0:
		return nil, fmt.Errorf("body %s: the system already has a root", cfg.Name)
	case parent != NoParent && (parent < 0 || int(parent) >= len(s.bodies)):
		return nil, fmt.Errorf("body %s: unknown parent %d", cfg.Name, parent)
	case parent == NoParent && cfg.Orbit != nil:
		return nil, fmt.Errorf("body %s: the root cannot have an orbit", cfg.Name)
	case parent != NoParent && cfg.Orbit == nil:
		return nil, fmt.Errorf("body %s: missing orbit", cfg.Name)
	}
	b := newBody(cfg, s.segments())
	b.id = BodyID(len(s.bodies))
	b.sys = s
	b.parent = parent
	s.bodies = append(s.bodies, b)
	s.byName[b.Name] = b.id
	if parent != NoParent {
		p := s.bodies[parent]
		p.children = append(p.children, b.id)
	}
	level.Debug(s.logger).Log("msg", "added body", "body", b.Name, "type", b.Type, "id", b.id)
	return b, nil
}

// Body returns the body with the provided handle, or nil.
func (s *System) Body(id BodyID) *Body {
	if id < 0 || int(id) >= len(s.bodies) {
		return nil
	}
	return s.bodies[id]
}

// ByName returns the body with the provided English name.
func (s *System) ByName(name string) (*Body, bool) {
	id, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.bodies[id], true
}

// Sun returns the root body, or nil if the system is empty.
func (s *System) Sun() *Body {
	if len(s.bodies) == 0 {
		return nil
	}
	return s.bodies[0]
}

// Bodies returns all the bodies, parents first.
func (s *System) Bodies() []*Body {
	bodies := make([]*Body, len(s.bodies))
	copy(bodies, s.bodies)
	return bodies
}

// Update computes the positions of all the bodies, then their transform matrices.
func (s *System) Update(jd, jde float64) {
	for _, b := range s.bodies {
		b.ComputePosition(jde)
	}
	for _, b := range s.bodies {
		b.ComputeTransMatrix(jd, jde)
	}
}

// ComputeDistances updates the distance of every body to the observer, which
// adapts the update threshold of the minor bodies.
func (s *System) ComputeDistances(obs ObserverContext) {
	for _, b := range s.bodies {
		b.ComputeDistance(obs.HelioPos)
	}
}

func (s *System) segments() int {
	if s.ctx.OrbitSegments < 2 {
		return DefaultOrbitSegments
	}
	return s.ctx.OrbitSegments
}
