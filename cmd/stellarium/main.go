package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robertdigital/stellarium"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const dateFormat = "2006-01-02 15:04:05"

var (
	configDir   string
	dateStr     string
	deltaT      float64
	latitude    float64
	longitude   float64
	altitude    float64
	metricsAddr string
	trajectory  string

	v      = viper.New()
	logger kitlog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "stellarium",
	Short: "Positions, orientation and brightness of solar system bodies",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configDir == "" {
			configDir = os.Getenv(stellarium.ConfigEnv)
		}
		if configDir != "" {
			v.SetConfigName("conf")
			v.SetConfigType("toml")
			v.AddConfigPath(configDir)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("%s/conf.toml: %s", configDir, err)
			}
		}
		return nil
	},
}

var ephemCmd = &cobra.Command{
	Use:   "ephem [body...]",
	Short: "Print the apparent state of bodies seen from the Earth",
	RunE:  runEphem,
}

var pathCmd = &cobra.Command{
	Use:   "path [body...]",
	Short: "Export orbit paths and Cosmographia trajectories",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPath,
}

var bodiesCmd = &cobra.Command{
	Use:   "bodies",
	Short: "List the built-in bodies",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range stellarium.CatalogNames() {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "directory holding conf.toml (default $"+stellarium.ConfigEnv+")")
	rootCmd.PersistentFlags().String("log-level", "info", "log level")
	rootCmd.PersistentFlags().Bool("nutation", true, "apply nutation to the Earth")
	rootCmd.PersistentFlags().Bool("topocentric", true, "use topocentric coordinates")
	rootCmd.PersistentFlags().String("magnitude", "ExpSup2013", "magnitude algorithm")
	rootCmd.PersistentFlags().StringVar(&dateStr, "date", "", "UTC date as JD or \""+dateFormat+"\" (default now)")
	rootCmd.PersistentFlags().Float64Var(&deltaT, "delta-t", 69.2, "TT-UT in seconds")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address and block")
	v.BindPFlag("general.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	v.BindPFlag("simulation.nutation", rootCmd.PersistentFlags().Lookup("nutation"))
	v.BindPFlag("simulation.topocentric", rootCmd.PersistentFlags().Lookup("topocentric"))
	v.BindPFlag("simulation.magnitude_algorithm", rootCmd.PersistentFlags().Lookup("magnitude"))

	ephemCmd.Flags().Float64Var(&latitude, "lat", 0, "observer latitude in degrees")
	ephemCmd.Flags().Float64Var(&longitude, "long", 0, "observer longitude in degrees (east positive)")
	ephemCmd.Flags().Float64Var(&altitude, "alt", 0, "observer altitude in km")
	ephemCmd.Flags().StringVar(&trajectory, "trajectory", "", "add a heliocentric body from a Cosmographia xyzv file")

	pathCmd.Flags().Float64("days", 30, "duration of the sampled trajectories in days")
	pathCmd.Flags().Float64("step", 1, "step of the sampled trajectories in days")
	pathCmd.Flags().Bool("cosmo", true, "export Cosmographia files")
	pathCmd.Flags().Bool("csv", true, "export orbit paths as CSV")
	pathCmd.Flags().String("output", "", "output directory (default general.output_path)")
	v.BindPFlag("general.output_path", pathCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(ephemCmd, pathCmd, bodiesCmd)
}

// parseDate reads a Julian date or a UTC date string.
func parseDate(s string) (float64, error) {
	if s == "" {
		return julian.TimeToJD(time.Now().UTC()), nil
	}
	if jd, err := strconv.ParseFloat(s, 64); err == nil {
		return jd, nil
	}
	dt, err := time.Parse(dateFormat, s)
	if err != nil {
		return 0, err
	}
	return julian.TimeToJD(dt), nil
}

// setup loads the configuration and builds the solar system at the requested date.
func setup() (*stellarium.System, stellarium.Config, float64, float64, error) {
	cfg, err := stellarium.ConfigFromViper(v)
	if err != nil {
		return nil, cfg, 0, 0, err
	}
	logger = stellarium.NewLogger(os.Stderr, cfg.LogLevel)
	var metrics *stellarium.Metrics
	if cfg.Metrics || metricsAddr != "" {
		if metrics, err = stellarium.NewMetrics(prometheus.DefaultRegisterer); err != nil {
			return nil, cfg, 0, 0, err
		}
	}
	ctx, err := stellarium.NewContext(cfg, logger, metrics)
	if err != nil {
		return nil, cfg, 0, 0, err
	}
	sys, err := stellarium.NewSolarSystem(ctx, cfg)
	if err != nil {
		return nil, cfg, 0, 0, err
	}
	jd, err := parseDate(dateStr)
	if err != nil {
		return nil, cfg, 0, 0, err
	}
	jde := jd + deltaT/86400
	sys.Update(jd, jde)
	level.Info(logger).Log("msg", "solar system ready", "bodies", len(sys.Bodies()), "jd", jd, "jde", jde)
	return sys, cfg, jd, jde, nil
}

func bodiesFromArgs(sys *stellarium.System, args []string) ([]*stellarium.Body, error) {
	if len(args) == 0 {
		return sys.Bodies(), nil
	}
	bodies := make([]*stellarium.Body, 0, len(args))
	for _, arg := range args {
		name, err := stellarium.CatalogName(arg)
		if err != nil {
			return nil, err
		}
		b, _ := sys.ByName(name)
		bodies = append(bodies, b)
	}
	return bodies, nil
}

func runEphem(cmd *cobra.Command, args []string) error {
	sys, _, jd, jde, err := setup()
	if err != nil {
		return err
	}
	var recorded *stellarium.Body
	if trajectory != "" {
		if recorded, err = addTrajectory(sys, trajectory, jd, jde); err != nil {
			return err
		}
	}
	earth, _ := sys.ByName("Earth")
	vp := stellarium.NewViewpoint("observer", earth, altitude, latitude, longitude)
	obs := vp.Context(jd, jde)
	sys.ComputeDistances(obs)
	bodies, err := bodiesFromArgs(sys, args)
	if err != nil {
		return err
	}
	if recorded != nil && len(args) > 0 {
		bodies = append(bodies, recorded)
	}
	fmt.Printf("%-10s %10s %9s %12s %8s %8s %7s %8s %9s %9s\n", "body", "ra", "dec", "dist (AU)", "phase", "elong", "mag", "size\"", "el", "az")
	for _, b := range bodies {
		if b.Name == "Earth" {
			continue
		}
		_, el, az := vp.RangeElAz(b)
		ra, dec := b.RADec(obs)
		fmt.Printf("%-10s %10.5f %9.5f %12.6f %8.4f %8.3f %7.2f %8.2f %9.3f %9.3f\n", b.Name, ra, dec, b.Distance(),
			b.Phase(obs.HelioPos), stellarium.Rad2deg(b.Elongation(obs.HelioPos)), b.VMagnitude(obs),
			2*3600*b.AngularSize(obs), el, az)
	}
	return serveMetrics()
}

// addTrajectory adds an artificial body orbiting the Sun along the recorded states.
func addTrajectory(sys *stellarium.System, fn string, jd, jde float64) (*stellarium.Body, error) {
	states, err := stellarium.LoadInterpolatedStates(fn)
	if err != nil {
		return nil, err
	}
	ephem, err := stellarium.InterpolatedStatesEphemeris(states)
	if err != nil {
		return nil, fmt.Errorf("%s: %s", fn, err)
	}
	name := strings.TrimSuffix(filepath.Base(fn), filepath.Ext(fn))
	b, err := sys.AddBody(sys.Sun().ID(), stellarium.BodyConfig{
		Name:              name,
		Type:              "artificial",
		AbsoluteMagnitude: 99,
		Orbit:             stellarium.NewEphemerisOrbit(ephem, 0, 0),
	})
	if err != nil {
		return nil, err
	}
	b.ComputePosition(jde)
	b.ComputeTransMatrix(jd, jde)
	level.Info(logger).Log("msg", "loaded trajectory", "body", name, "states", len(states))
	return b, nil
}

func runPath(cmd *cobra.Command, args []string) error {
	sys, cfg, _, jde, err := setup()
	if err != nil {
		return err
	}
	bodies, err := bodiesFromArgs(sys, args)
	if err != nil {
		return err
	}
	days, _ := cmd.Flags().GetFloat64("days")
	step, _ := cmd.Flags().GetFloat64("step")
	cosmo, _ := cmd.Flags().GetBool("cosmo")
	asCSV, _ := cmd.Flags().GetBool("csv")
	for _, b := range bodies {
		if b.ComputeOrbitPath() == nil {
			level.Warn(logger).Log("msg", "no orbit path", "body", b.Name)
		}
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}
	conf := stellarium.ExportConfig{
		Filename:  strings.ReplaceAll(strings.ToLower(strings.Join(args, "-")), "/", "_"),
		OutputDir: cfg.OutputDir,
		Cosmo:     cosmo,
		AsCSV:     asCSV,
	}
	if conf.IsUseless() {
		return fmt.Errorf("nothing to export")
	}
	written, err := stellarium.Export(conf, bodies, jde, jde+days, step)
	for _, fn := range written {
		level.Info(logger).Log("msg", "saved", "file", fn)
	}
	if err != nil {
		return err
	}
	return serveMetrics()
}

func serveMetrics() error {
	if metricsAddr == "" {
		return nil
	}
	level.Info(logger).Log("msg", "serving metrics", "addr", metricsAddr)
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(metricsAddr, nil)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
