package stellarium

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ConfigEnv names the directory holding conf.toml.
const ConfigEnv = "STELLARIUM_CONFIG"

// DefaultOrbitSegments is the number of orbit path samples.
const DefaultOrbitSegments = 360

// GRSConfig places Jupiter's Great Red Spot. When Custom is false the default drift model is used.
type GRSConfig struct {
	Custom    bool
	Longitude float64 // System II longitude in degrees at JD
	Drift     float64 // degrees per year
	JD        float64
}

// Config is the simulation configuration.
type Config struct {
	LogLevel           string
	OutputDir          string
	Nutation           bool
	Topocentric        bool
	MagnitudeAlgorithm string
	OrbitSegments      int
	GRS                GRSConfig
	VSOP87             bool
	VSOP87Dir          string
	Metrics            bool
}

// DefaultConfig returns the configuration used when no file is provided.
func DefaultConfig() Config {
	return Config{
		LogLevel:           "info",
		OutputDir:          ".",
		Nutation:           true,
		Topocentric:        true,
		MagnitudeAlgorithm: ExpSup2013.String(),
		OrbitSegments:      DefaultOrbitSegments,
		GRS:                GRSConfig{Longitude: 216, Drift: 15, JD: 2456908},
	}
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("general.log_level", def.LogLevel)
	v.SetDefault("general.output_path", def.OutputDir)
	v.SetDefault("simulation.nutation", def.Nutation)
	v.SetDefault("simulation.topocentric", def.Topocentric)
	v.SetDefault("simulation.magnitude_algorithm", def.MagnitudeAlgorithm)
	v.SetDefault("simulation.orbit_segments", def.OrbitSegments)
	v.SetDefault("jupiter.custom_grs", def.GRS.Custom)
	v.SetDefault("jupiter.grs_longitude", def.GRS.Longitude)
	v.SetDefault("jupiter.grs_drift", def.GRS.Drift)
	v.SetDefault("jupiter.grs_jd", def.GRS.JD)
	v.SetDefault("VSOP87.enabled", def.VSOP87)
	v.SetDefault("VSOP87.directory", def.VSOP87Dir)
	v.SetDefault("metrics.enabled", def.Metrics)
}

// ConfigFromViper reads the configuration from an already loaded viper instance.
func ConfigFromViper(v *viper.Viper) (Config, error) {
	setDefaults(v)
	cfg := Config{
		LogLevel:           v.GetString("general.log_level"),
		OutputDir:          v.GetString("general.output_path"),
		Nutation:           v.GetBool("simulation.nutation"),
		Topocentric:        v.GetBool("simulation.topocentric"),
		MagnitudeAlgorithm: v.GetString("simulation.magnitude_algorithm"),
		OrbitSegments:      v.GetInt("simulation.orbit_segments"),
		GRS: GRSConfig{
			Custom:    v.GetBool("jupiter.custom_grs"),
			Longitude: v.GetFloat64("jupiter.grs_longitude"),
			Drift:     v.GetFloat64("jupiter.grs_drift"),
			JD:        v.GetFloat64("jupiter.grs_jd"),
		},
		VSOP87:    v.GetBool("VSOP87.enabled"),
		VSOP87Dir: v.GetString("VSOP87.directory"),
		Metrics:   v.GetBool("metrics.enabled"),
	}
	if cfg.OrbitSegments < 2 {
		return cfg, errors.Errorf("orbit_segments must be at least 2, got %d", cfg.OrbitSegments)
	}
	if _, err := ParseMagnitudeAlgorithm(cfg.MagnitudeAlgorithm); err != nil {
		return cfg, errors.Wrap(err, "simulation.magnitude_algorithm")
	}
	if cfg.VSOP87 && cfg.VSOP87Dir == "" {
		return cfg, errors.New("VSOP87 is enabled but VSOP87.directory is empty")
	}
	return cfg, nil
}

// LoadConfig reads conf.toml from the provided directory.
func LoadConfig(dir string) (Config, error) {
	v := viper.New()
	v.SetConfigName("conf")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrapf(err, "reading %s/conf.toml", dir)
	}
	return ConfigFromViper(v)
}

// ConfigFromEnv loads the configuration from the directory named by STELLARIUM_CONFIG,
// or returns the defaults if that variable is not set.
func ConfigFromEnv() (Config, error) {
	dir := os.Getenv(ConfigEnv)
	if dir == "" {
		return DefaultConfig(), nil
	}
	return LoadConfig(dir)
}
