// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	View      ViewConfig      `yaml:"view"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Particles ParticlesConfig `yaml:"particles"`
	Solver    SolverConfig    `yaml:"solver"`
	Emitters  []EmitterConfig `yaml:"emitters"`
	Drains    []DrainConfig   `yaml:"drains"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ViewConfig holds camera defaults for the viewer.
type ViewConfig struct {
	PixelsPerUnit float64   `yaml:"pixels_per_unit"`
	Center        []float64 `yaml:"center"` // world point at screen centre, [x, y]
	ShowCells     bool      `yaml:"show_cells"`
}

// PhysicsConfig holds time stepping and external force.
type PhysicsConfig struct {
	DT      float64   `yaml:"dt"`
	Gravity []float64 `yaml:"gravity"` // [x, y, z] acceleration
}

// ParticlesConfig describes the initial particle block.
type ParticlesConfig struct {
	Count    int       `yaml:"count"`     // initial particles, laid out on a square lattice
	Size     float64   `yaml:"size"`      // particle radius
	Spacing  float64   `yaml:"spacing"`   // lattice spacing (0 = size)
	Origin   []float64 `yaml:"origin"`    // lattice origin override, [x, y] (empty = centred)
	MaxCount int       `yaml:"max_count"` // emitters stop at this count (0 = unlimited)
}

// SolverConfig holds fluid solver parameters.
type SolverConfig struct {
	KernelScale float64 `yaml:"kernel_scale"` // kernel radius h = kernel_scale * particle size
	MaxCells    int     `yaml:"max_cells"`    // binning is skipped above this many cells
}

// EmitterConfig defines a particle source.
type EmitterConfig struct {
	Name     string    `yaml:"name"`
	Origin   []float64 `yaml:"origin"`
	Velocity []float64 `yaml:"velocity"`
	Rate     float64   `yaml:"rate"`   // particles per second
	Jitter   float64   `yaml:"jitter"` // half-width of random x/y offset
}

// DrainConfig defines a box that removes particles.
type DrainConfig struct {
	Name string    `yaml:"name"`
	Min  []float64 `yaml:"min"`
	Max  []float64 `yaml:"max"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // seconds of simulation per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32          float32    // Physics.DT as float32
	Gravity       mgl32.Vec3 // Physics.Gravity as a vector
	Size32        float32    // Particles.Size as float32
	Spacing32     float32    // effective lattice spacing
	KernelScale32 float32    // Solver.KernelScale as float32
	KernelRadius  float32    // h for the configured particle size
	Emitters      []EmitterSpec
	Drains        []DrainSpec
}

// EmitterSpec is an EmitterConfig with vector fields resolved.
type EmitterSpec struct {
	Name     string
	Origin   mgl32.Vec3
	Velocity mgl32.Vec3
	Rate     float32
	Jitter   float32
}

// DrainSpec is a DrainConfig with vector fields resolved.
type DrainSpec struct {
	Name     string
	Min, Max mgl32.Vec3
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
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

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks scalar parameters the solver requires to be positive.
func (c *Config) Validate() error {
	var errs []error
	if !(c.Physics.DT > 0) {
		errs = append(errs, fmt.Errorf("physics.dt must be positive, got %g", c.Physics.DT))
	}
	if !(c.Particles.Size > 0) {
		errs = append(errs, fmt.Errorf("particles.size must be positive, got %g", c.Particles.Size))
	}
	if c.Particles.Count < 0 {
		errs = append(errs, fmt.Errorf("particles.count must not be negative, got %d", c.Particles.Count))
	}
	if c.Particles.Spacing < 0 {
		errs = append(errs, fmt.Errorf("particles.spacing must not be negative, got %g", c.Particles.Spacing))
	}
	if !(c.Solver.KernelScale > 0) {
		errs = append(errs, fmt.Errorf("solver.kernel_scale must be positive, got %g", c.Solver.KernelScale))
	}
	if c.Telemetry.StatsWindow < 0 {
		errs = append(errs, fmt.Errorf("telemetry.stats_window must not be negative, got %g", c.Telemetry.StatsWindow))
	}
	for _, e := range c.Emitters {
		if e.Rate < 0 {
			errs = append(errs, fmt.Errorf("emitter %q: rate must not be negative, got %g", e.Name, e.Rate))
		}
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	gravity, err := vec3(c.Physics.Gravity, "physics.gravity")
	if err != nil {
		return err
	}

	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.Gravity = gravity
	c.Derived.Size32 = float32(c.Particles.Size)
	c.Derived.Spacing32 = float32(c.Particles.Spacing)
	if c.Derived.Spacing32 == 0 {
		c.Derived.Spacing32 = c.Derived.Size32
	}
	c.Derived.KernelScale32 = float32(c.Solver.KernelScale)
	c.Derived.KernelRadius = c.Derived.KernelScale32 * c.Derived.Size32

	c.Derived.Emitters = make([]EmitterSpec, 0, len(c.Emitters))
	for i, e := range c.Emitters {
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("emitter-%d", i)
		}
		origin, err := vec3(e.Origin, name+".origin")
		if err != nil {
			return err
		}
		vel, err := vec3(e.Velocity, name+".velocity")
		if err != nil {
			return err
		}
		c.Derived.Emitters = append(c.Derived.Emitters, EmitterSpec{
			Name:     name,
			Origin:   origin,
			Velocity: vel,
			Rate:     float32(e.Rate),
			Jitter:   float32(e.Jitter),
		})
	}

	c.Derived.Drains = make([]DrainSpec, 0, len(c.Drains))
	for i, d := range c.Drains {
		name := d.Name
		if name == "" {
			name = fmt.Sprintf("drain-%d", i)
		}
		lo, err := vec3(d.Min, name+".min")
		if err != nil {
			return err
		}
		hi, err := vec3(d.Max, name+".max")
		if err != nil {
			return err
		}
		c.Derived.Drains = append(c.Derived.Drains, DrainSpec{Name: name, Min: lo, Max: hi})
	}
	return nil
}

// vec3 converts a YAML list to a vector. A missing list is the zero vector;
// two elements leave z at 0.
func vec3(v []float64, field string) (mgl32.Vec3, error) {
	var out mgl32.Vec3
	switch len(v) {
	case 0:
	case 2, 3:
		for i, f := range v {
			out[i] = float32(f)
		}
	default:
		return out, fmt.Errorf("%s: expected 2 or 3 components, got %d", field, len(v))
	}
	return out, nil
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
