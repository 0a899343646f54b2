package stellarium

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/soniakeys/meeus/v3/julian"
)

// CgCatalog definition.
type CgCatalog struct {
	Version string     `json:"version"`
	Name    string     `json:"name"`
	Items   []*CgItems `json:"items"`
}

// CgItems definition.
type CgItems struct {
	Class           string            `json:"class"`
	Name            string            `json:"name"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	Center          string            `json:"center"`
	TrajectoryFrame string            `json:"trajectoryFrame"`
	Trajectory      *CgTrajectory     `json:"trajectory,omitempty"`
	Label           *CgLabel          `json:"label,omitempty"`
	TrajectoryPlot  *CgTrajectoryPlot `json:"trajectoryPlot,omitempty"`
}

// CgTrajectory definition.
type CgTrajectory struct {
	Type   string `json:"type,omitempty"`
	Source string `json:"source,omitempty"`
}

// Validate validates a CgTrajectory.
func (t *CgTrajectory) Validate() error {
	if t.Type != "InterpolatedStates" || !strings.HasSuffix(t.Source, "xyzv") {
		return errors.Errorf("%s: only InterpolatedStates are currently supported in Cosmographia trajectory types", t)
	}
	return nil
}

func (t *CgTrajectory) String() string {
	return t.Source + " as " + t.Type
}

// CgLabel definition.
type CgLabel struct {
	Color    []float64 `json:"color,omitempty"`
	FadeSize int       `json:"fadeSize,omitempty"`
	ShowText bool      `json:"showText,omitempty"`
}

// CgTrajectoryPlot definition.
type CgTrajectoryPlot struct {
	Color       []float64 `json:"color,omitempty"`
	LineWidth   int       `json:"lineWidth,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Lead        string    `json:"lead,omitempty"`
	SampleCount int       `json:"sampleCount,omitempty"`
}

// CgInterpolatedState is one record of an xyzv file: TDB Julian date, km and km/s.
type CgInterpolatedState struct {
	JD       float64
	Position []float64
	Velocity []float64
}

// FromText initializes from text.
// The `record` parameter must be an array of seven items.
func (i *CgInterpolatedState) FromText(record []string) error {
	if len(record) != 7 {
		return errors.Errorf("expected 7 fields, got %d", len(record))
	}
	vals := make([]float64, 7)
	for k, field := range record {
		val, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return errors.Wrapf(err, "field %d", k)
		}
		vals[k] = val
	}
	i.JD = vals[0]
	i.Position = vals[1:4]
	i.Velocity = vals[4:7]
	return nil
}

// ToText converts to text for written output.
func (i *CgInterpolatedState) ToText() string {
	return fmt.Sprintf("%f %f %f %f %f %f %f", i.JD, i.Position[0], i.Position[1], i.Position[2], i.Velocity[0], i.Velocity[1], i.Velocity[2])
}

// ParseInterpolatedStates reads the records of an xyzv file.
func ParseInterpolatedStates(s string) ([]*CgInterpolatedState, error) {
	var states = []*CgInterpolatedState{}
	r := csv.NewReader(strings.NewReader(s))
	r.Comma = ' '
	r.Comment = '#'
	for {
		record, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		state := CgInterpolatedState{}
		if err := state.FromText(record); err != nil {
			return nil, errors.Wrapf(err, "record %d", len(states))
		}
		states = append(states, &state)
	}
	return states, nil
}

// LoadInterpolatedStates reads an xyzv file.
func LoadInterpolatedStates(fn string) ([]*CgInterpolatedState, error) {
	raw, err := os.ReadFile(fn)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", fn)
	}
	states, err := ParseInterpolatedStates(string(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", fn)
	}
	return states, nil
}

// HeliocentricStateAt returns the heliocentric state of the body in km and km/s,
// evaluating the orbits of the body and of its ancestors.
func HeliocentricStateAt(b *Body, jde float64) *CgInterpolatedState {
	R, V := []float64{0, 0, 0}, []float64{0, 0, 0}
	for p := b; p != nil && !p.IsSun(); p = p.Parent() {
		r, v := p.orbit.PositionAt(jde)
		R, V = add(R, r), add(V, v)
	}
	return &CgInterpolatedState{JD: jde, Position: scale(AU, R), Velocity: scale(AU/86400, V)}
}

// SampleStates returns the heliocentric states of the body from start to end (JDE) every step days.
func SampleStates(b *Body, start, end, step float64) []*CgInterpolatedState {
	if step <= 0 || end < start {
		return nil
	}
	var states []*CgInterpolatedState
	for jde := start; jde <= end; jde += step {
		states = append(states, HeliocentricStateAt(b, jde))
	}
	return states
}

// WriteInterpolatedStates writes a Cosmographia xyzv file.
func WriteInterpolatedStates(w io.Writer, states []*CgInterpolatedState) error {
	if _, err := fmt.Fprintf(w, `# Creation date (UTC): %s
# Records are <jd> <x> <y> <z> <vel x> <vel y> <vel z>
#   Time is a TDB Julian date
#   Position in km
#   Velocity in km/sec`, time.Now().UTC()); err != nil {
		return err
	}
	for _, state := range states {
		if _, err := io.WriteString(w, "\n"+state.ToText()); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteOrbitPath writes the last computed orbit path of the body as CSV, in AU.
func WriteOrbitPath(w io.Writer, b *Body) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "z"}); err != nil {
		return err
	}
	for _, pt := range b.OrbitPath() {
		rec := make([]string, 3)
		for k := range pt {
			rec[k] = strconv.FormatFloat(pt[k], 'f', 9, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportConfig configures the exporting of the simulation.
type ExportConfig struct {
	Filename  string
	OutputDir string
	Cosmo     bool
	AsCSV     bool
	Timestamp bool
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.Cosmo && !c.AsCSV
}

func (c ExportConfig) path(prefix, name, ext string) string {
	filename := fmt.Sprintf("%s-%s-%s", prefix, c.Filename, strings.ReplaceAll(name, "/", "_"))
	if c.Timestamp {
		t := time.Now()
		filename = fmt.Sprintf("%s-%d-%02d-%02dT%02d.%02d.%02d", filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	return filepath.Join(c.OutputDir, filename+"."+ext)
}

func cosmographiaClass(t BodyType) string {
	switch {
	case t == Star:
		return "star"
	case t == Planet || t == DwarfPlanet:
		return "planet"
	case t == Moon:
		return "moon"
	case t == Comet:
		return "comet"
	case t >= Asteroid:
		return "asteroid"
	}
	return "spacecraft"
}

// Export writes the sampled states of the bodies between start and end (JDE) as
// Cosmographia files and a catalog, and their current orbit paths as CSV.
// It returns the names of the files written.
func Export(conf ExportConfig, bodies []*Body, start, end, step float64) ([]string, error) {
	var written []string
	var items []*CgItems
	color := []float64{0.6, 1, 1}
	for _, b := range bodies {
		if b.IsSun() {
			continue
		}
		if conf.Cosmo {
			fn := conf.path("states", b.Name, "xyzv")
			traj := &CgTrajectory{Type: "InterpolatedStates", Source: filepath.Base(fn)}
			if err := traj.Validate(); err != nil {
				return written, errors.Wrapf(err, "exporting %s", b.Name)
			}
			if err := writeFile(fn, func(w io.Writer) error {
				return WriteInterpolatedStates(w, SampleStates(b, start, end, step))
			}); err != nil {
				return written, err
			}
			written = append(written, fn)
			items = append(items, &CgItems{
				Class:           cosmographiaClass(b.Type),
				Name:            b.Name,
				StartTime:       julian.JDToTime(start).UTC().Format(time.RFC3339),
				EndTime:         julian.JDToTime(end).UTC().Format(time.RFC3339),
				Center:          "Sun",
				TrajectoryFrame: "EclipticJ2000",
				Trajectory:      traj,
				Label:           &CgLabel{Color: color, FadeSize: 1000000, ShowText: true},
				TrajectoryPlot:  &CgTrajectoryPlot{Color: color, LineWidth: 1, Duration: fmt.Sprintf("%d d", int(end-start+1)), Lead: "0 d", SampleCount: 10},
			})
		}
		if conf.AsCSV && b.OrbitPath() != nil {
			fn := conf.path("orbit", b.Name, "csv")
			if err := writeFile(fn, func(w io.Writer) error { return WriteOrbitPath(w, b) }); err != nil {
				return written, err
			}
			written = append(written, fn)
		}
	}
	if conf.Cosmo {
		c := CgCatalog{Version: "1.0", Name: conf.Filename, Items: items}
		marsh, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return written, err
		}
		fn := filepath.Join(conf.OutputDir, fmt.Sprintf("catalog-%s.json", conf.Filename))
		if err := os.WriteFile(fn, marsh, 0o644); err != nil {
			return written, errors.Wrap(err, "writing catalog")
		}
		written = append(written, fn)
	}
	return written, nil
}

func writeFile(fn string, write func(io.Writer) error) error {
	f, err := os.Create(fn)
	if err != nil {
		return errors.Wrapf(err, "creating %s", fn)
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", fn)
	}
	return f.Close()
}
