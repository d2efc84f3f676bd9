// Package sim drives one simulation step per host tick and is the only
// place particle and smoothed state are mutated.
//
// Gesture producers run on their own goroutines and hand over a complete
// gesture.Signal through Publish. Tick reads whatever signal was published
// last, so a slow producer only makes the input stale, never blocks a tick.
// Telemetry readers poll Snapshot, which is replaced whole at the end of
// every tick.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/iburimskiy/hand-particles/internal/config"
	"github.com/iburimskiy/hand-particles/internal/field"
	"github.com/iburimskiy/hand-particles/internal/gesture"
	"github.com/iburimskiy/hand-particles/internal/logging"
	"github.com/iburimskiy/hand-particles/internal/particle"
	"github.com/iburimskiy/hand-particles/internal/smoother"
	"github.com/iburimskiy/hand-particles/internal/vec"
)

// Snapshot is the read-only telemetry view after a tick.
type Snapshot struct {
	Frame            uint64    `json:"frame"`
	SimTime          float64   `json:"sim_time"`
	Particles        int       `json:"particles"`
	HandDetected     bool      `json:"hand_detected"`
	Hands            int       `json:"hands"`
	CurrentExpansion float64   `json:"current_expansion"`
	TargetExpansion  float64   `json:"target_expansion"`
	CurrentHue       float64   `json:"current_hue"`
	TargetHue        float64   `json:"target_hue"`
	PalmCenter       *vec.Vec3 `json:"palm_center,omitempty"`
	HandOpenness     float64   `json:"hand_openness"`
	TwoHandSpan      float64   `json:"two_hand_span"`
	HandVelocity     vec.Vec3  `json:"hand_velocity"`
	MeanSpeed        float64   `json:"mean_speed"`
	Influenced       int       `json:"influenced"`
}

type Driver struct {
	logger     *slog.Logger
	rng        *rand.Rand
	store      *particle.Store
	smoother   *smoother.Smoother
	integrator *field.Integrator

	mailbox  atomic.Pointer[gesture.Signal]
	snapshot atomic.Pointer[Snapshot]

	current gesture.Signal
	frame   uint64
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets a structured logger for the driver.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithRand overrides the random source used to place particles.
func WithRand(rng *rand.Rand) Option {
	return func(d *Driver) {
		d.rng = rng
	}
}

// New builds the particle ensemble and smoothed state from cfg.
func New(cfg config.Simulation, opts ...Option) (*Driver, error) {
	if cfg.Particles <= 0 {
		return nil, fmt.Errorf("particle count must be positive, got %d", cfg.Particles)
	}

	d := &Driver{}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logging.NewNop()
	}
	if d.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		d.rng = rand.New(rand.NewSource(seed))
	}

	d.store = particle.New(cfg.Particles, cfg.BaseHue, d.rng)
	d.smoother = smoother.New(smoother.Params{
		ExpansionRate: cfg.ExpansionRate,
		HueRate:       cfg.HueRate,
		TimeStep:      cfg.TimeStep,
	}, cfg.InitialExpansion, cfg.BaseHue)

	fp := field.DefaultParams()
	fp.InteractionRadius = cfg.InteractionRadius
	fp.SpringStiffness = cfg.SpringStiffness
	fp.Damping = cfg.Damping
	fp.ForcePower = cfg.ForcePower
	fp.OpennessThreshold = cfg.OpennessThreshold
	fp.ColorChaseRate = cfg.ColorChaseRate
	d.integrator = field.New(fp)

	d.publishSnapshot(field.Stats{})
	d.logger.Info("simulation ready", "particles", cfg.Particles)
	return d, nil
}

// Publish replaces the pending control signal. Safe for concurrent use.
func (d *Driver) Publish(sig gesture.Signal) {
	d.mailbox.Store(&sig)
}

// Tick advances the smoother and then every particle exactly once. It uses
// the last published signal, or no hand if nothing was published yet.
func (d *Driver) Tick() {
	if sig := d.mailbox.Load(); sig != nil {
		d.current = *sig
	}
	sig := d.current

	d.smoother.Advance(sig)
	st := d.smoother.State()

	stats := d.integrator.Step(d.store, field.Input{
		SimTime:      st.SimTime,
		Expansion:    st.CurrentExpansion,
		Hue:          st.CurrentHue,
		HandDetected: sig.HandDetected,
		HasPalm:      sig.HasPalm,
		Palm:         sig.PalmCenter,
		Openness:     sig.HandOpenness,
		HandVelocity: st.HandVelocity,
	})

	d.frame++
	d.publishSnapshot(stats)
}

func (d *Driver) publishSnapshot(stats field.Stats) {
	st := d.smoother.State()
	sig := d.current
	snap := &Snapshot{
		Frame:            d.frame,
		SimTime:          st.SimTime,
		Particles:        d.store.Len(),
		HandDetected:     sig.HandDetected,
		Hands:            len(sig.Hands),
		CurrentExpansion: st.CurrentExpansion,
		TargetExpansion:  st.TargetExpansion,
		CurrentHue:       st.CurrentHue,
		TargetHue:        st.TargetHue,
		HandOpenness:     sig.HandOpenness,
		TwoHandSpan:      sig.TwoHandSpan,
		HandVelocity:     st.HandVelocity,
		MeanSpeed:        stats.MeanSpeed,
		Influenced:       stats.Influenced,
	}
	if sig.HasPalm {
		palm := sig.PalmCenter
		snap.PalmCenter = &palm
	}
	d.snapshot.Store(snap)
}

// Snapshot returns the telemetry of the latest tick. Safe for concurrent use.
func (d *Driver) Snapshot() Snapshot {
	return *d.snapshot.Load()
}

// Signal is the control signal the latest tick consumed. Must be called from
// the ticking goroutine.
func (d *Driver) Signal() gesture.Signal {
	return d.current
}

// Len is the fixed particle count.
func (d *Driver) Len() int {
	return d.store.Len()
}

// Positions, Colors and Sizes expose the renderer buffers. They are rewritten
// in place by Tick and must be read from the ticking goroutine.
func (d *Driver) Positions() []float32 { return d.store.Positions }
func (d *Driver) Colors() []float32    { return d.store.Colors }
func (d *Driver) Sizes() []float32     { return d.store.Sizes }
