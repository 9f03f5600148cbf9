// Package config provides configuration loading and access for the
// pathfinding core and its tools.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all pathfinding configuration parameters.
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Search    SearchConfig    `yaml:"search"`
	Throttle  ThrottleConfig  `yaml:"throttle"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig describes the navigation grid geometry and cost tuning.
type GridConfig struct {
	Width          int     `yaml:"width"`     // cell count along world X
	Height         int     `yaml:"height"`    // cell count along world Z
	CellSize       float64 `yaml:"cell_size"` // world units per cell
	OriginX        float64 `yaml:"origin_x"`  // world-space corner of cell (0,0)
	OriginY        float64 `yaml:"origin_y"`
	OriginZ        float64 `yaml:"origin_z"`
	CostMultiplier float64 `yaml:"cost_multiplier"` // elevation cost scale; 0 = distance only
}

// SearchConfig holds search behavior parameters.
type SearchConfig struct {
	MaxIterations int     `yaml:"max_iterations"` // 0 = derive from grid size
	HeightOffset  float64 `yaml:"height_offset"`  // flight height above terrain
	StrictBounds  bool    `yaml:"strict_bounds"`  // fail out-of-range requests instead of clamping
	SimplifyPath  bool    `yaml:"simplify_path"`  // drop collinear waypoints
}

// ThrottleConfig holds continuous-tracking recalculation parameters.
// Displacement thresholds are in grid cells; 0 disables a trigger.
type ThrottleConfig struct {
	MinIntervalSec   float64 `yaml:"min_interval_sec"`
	TargetThreshold  int     `yaml:"target_threshold"`
	OriginThreshold  int     `yaml:"origin_threshold"`
	DistanceScaling  bool    `yaml:"distance_scaling"`
	FarDistance      float64 `yaml:"far_distance"`
	MaxIntervalScale float64 `yaml:"max_interval_scale"`
}

// TerrainConfig selects and tunes the height source.
type TerrainConfig struct {
	Source      string  `yaml:"source"` // flat | procedural | static
	FlatHeight  float64 `yaml:"flat_height"`
	Seed        int64   `yaml:"seed"`
	NoiseScale  float64 `yaml:"noise_scale"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	HeightScale float64 `yaml:"height_scale"`
	BaseHeight  float64 `yaml:"base_height"`
}

// TelemetryConfig holds search telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int    `yaml:"stats_window"` // searches per stats window
	OutputDir   string `yaml:"output_dir"`   // empty = CSV output disabled
}

// DerivedConfig holds values computed from the loaded configuration.
type DerivedConfig struct {
	MaxIterations int           // resolved iteration cap
	MinInterval   time.Duration // throttle floor as a duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the grid model would refuse, so the
// failure surfaces at load time with a file-level message.
func (c *Config) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("config: invalid grid dimensions %dx%d", c.Grid.Width, c.Grid.Height)
	}
	if c.Grid.CellSize <= 0 {
		return fmt.Errorf("config: invalid cell size %g", c.Grid.CellSize)
	}
	if c.Grid.CostMultiplier < 0 {
		return fmt.Errorf("config: negative cost multiplier %g", c.Grid.CostMultiplier)
	}
	switch c.Terrain.Source {
	case "", "flat", "procedural", "static":
	default:
		return fmt.Errorf("config: unknown terrain source %q", c.Terrain.Source)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.MaxIterations = c.Search.MaxIterations
	if c.Derived.MaxIterations <= 0 {
		c.Derived.MaxIterations = c.Grid.Width * c.Grid.Height
	}
	c.Derived.MinInterval = time.Duration(c.Throttle.MinIntervalSec * float64(time.Second))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
