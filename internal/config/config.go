package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	WindowWidth  = 1024
	WindowHeight = 768

	VisualRingSize  = 8192
	SmoothingFactor = 0.6

	// Button dimensions
	ButtonWidth  = 120
	ButtonHeight = 40
	ButtonX      = 20
	ButtonY      = 50

	// Camera
	CameraDistance = 400.0
	CameraFOV      = 75.0
	CameraNear     = 0.1
	RotationSpeed  = 0.002

	// Hand landmark inset
	InsetWidth  = 240
	InsetHeight = 180
)

// Simulation defaults. These are the recognized tuning options.
const (
	DefaultParticleCount     = 3000
	DefaultInteractionRadius = 500.0
	DefaultSpringStiffness   = 0.03
	DefaultDamping           = 0.92
	DefaultForcePower        = 15.0
	DefaultOpennessThreshold = 0.15
	DefaultExpansionRate     = 0.05
	DefaultHueRate           = 0.02
	DefaultColorChaseRate    = 0.02
	DefaultTimeStep          = 0.01
	DefaultBaseHue           = 220.0
	DefaultInitialExpansion  = 1.0
)

// Fixed shaping constants of the force field and gesture mapping.
const (
	NoiseAmplitude = 20.0
	WakeFactor     = 0.3
	WakeThreshold  = 0.1
	Saturation     = 0.8
	BaseLightness  = 0.5
	LightnessGain  = 0.02
	MaxLightBoost  = 0.5
	InitLightness  = 0.6

	RestRadiusMin = 50.0
	RestRadiusMax = 250.0
	SizeMin       = 1.0
	SizeMax       = 3.0

	MinExpansion = 0.3
	MaxExpansion = 3.0

	SpaceScaleX = 800.0
	SpaceScaleY = 600.0
	SpaceScaleZ = 500.0

	DefaultRedisChannel = "hand-particles:landmarks"
)

// ErrInvalid wraps every validation failure returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

type Simulation struct {
	Particles         int     `yaml:"particles"`
	Seed              int64   `yaml:"seed"`
	InteractionRadius float64 `yaml:"interaction_radius"`
	SpringStiffness   float64 `yaml:"spring_stiffness"`
	Damping           float64 `yaml:"damping"`
	ForcePower        float64 `yaml:"force_power"`
	OpennessThreshold float64 `yaml:"openness_threshold"`
	ExpansionRate     float64 `yaml:"expansion_rate"`
	HueRate           float64 `yaml:"hue_rate"`
	ColorChaseRate    float64 `yaml:"color_chase_rate"`
	TimeStep          float64 `yaml:"time_step"`
	BaseHue           float64 `yaml:"base_hue"`
	InitialExpansion  float64 `yaml:"initial_expansion"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Telemetry struct {
	// Addr is the listen address of the debug HTTP server. Empty disables it.
	Addr string `yaml:"addr"`
}

type Redis struct {
	// Addr of the Redis server publishing landmark frames. Empty disables it.
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

type Trace struct {
	Path string `yaml:"path"`
	Loop bool   `yaml:"loop"`
}

type Audio struct {
	Enabled bool `yaml:"enabled"`
}

// Config is the full application configuration.
type Config struct {
	Simulation Simulation `yaml:"simulation"`
	Window     Window     `yaml:"window"`
	Telemetry  Telemetry  `yaml:"telemetry"`
	Redis      Redis      `yaml:"redis"`
	Trace      Trace      `yaml:"trace"`
	Audio      Audio      `yaml:"audio"`
	LogLevel   string     `yaml:"log_level"`
}

// Default returns the configuration used when no file or flags override it.
func Default() Config {
	return Config{
		Simulation: DefaultSimulation(),
		Window: Window{
			Width:  WindowWidth,
			Height: WindowHeight,
			Title:  "Hand Particles - drag mouse or open a trace, D: debug, M: mute, Esc/Q: Quit",
		},
		Redis:    Redis{Channel: DefaultRedisChannel},
		LogLevel: "info",
	}
}

func DefaultSimulation() Simulation {
	return Simulation{
		Particles:         DefaultParticleCount,
		InteractionRadius: DefaultInteractionRadius,
		SpringStiffness:   DefaultSpringStiffness,
		Damping:           DefaultDamping,
		ForcePower:        DefaultForcePower,
		OpennessThreshold: DefaultOpennessThreshold,
		ExpansionRate:     DefaultExpansionRate,
		HueRate:           DefaultHueRate,
		ColorChaseRate:    DefaultColorChaseRate,
		TimeStep:          DefaultTimeStep,
		BaseHue:           DefaultBaseHue,
		InitialExpansion:  DefaultInitialExpansion,
	}
}

// Load reads a YAML file on top of the defaults. Fields missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every out-of-range option at once.
func (c Config) Validate() error {
	var errs []error
	s := c.Simulation
	if s.Particles <= 0 {
		errs = append(errs, fmt.Errorf("simulation.particles must be positive, got %d", s.Particles))
	}
	if s.InteractionRadius <= 0 {
		errs = append(errs, fmt.Errorf("simulation.interaction_radius must be positive, got %g", s.InteractionRadius))
	}
	if s.SpringStiffness <= 0 {
		errs = append(errs, fmt.Errorf("simulation.spring_stiffness must be positive, got %g", s.SpringStiffness))
	}
	if s.Damping <= 0 || s.Damping >= 1 {
		errs = append(errs, fmt.Errorf("simulation.damping must be in (0,1), got %g", s.Damping))
	}
	if s.TimeStep <= 0 {
		errs = append(errs, fmt.Errorf("simulation.time_step must be positive, got %g", s.TimeStep))
	}
	for name, rate := range map[string]float64{
		"expansion_rate":   s.ExpansionRate,
		"hue_rate":         s.HueRate,
		"color_chase_rate": s.ColorChaseRate,
	} {
		if rate <= 0 || rate > 1 {
			errs = append(errs, fmt.Errorf("simulation.%s must be in (0,1], got %g", name, rate))
		}
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Redis.Addr != "" && c.Redis.Channel == "" {
		errs = append(errs, errors.New("redis.channel is required when redis.addr is set"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}
