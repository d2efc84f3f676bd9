package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iburimskiy/hand-particles/internal/sim"
)

const namespace = "hand_particles"

// NewRegistry returns a registry whose collectors read the latest snapshot
// on every scrape.
func NewRegistry(src SnapshotSource, fps func() float64) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	gauge := func(name, help string, read func(sim.Snapshot) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, func() float64 { return read(src.Snapshot()) })
	}
	velocity := func(axis string, read func(sim.Snapshot) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "hand_velocity",
			Help:        "Palm displacement since the previous tick.",
			ConstLabels: prometheus.Labels{"axis": axis},
		}, func() float64 { return read(src.Snapshot()) })
	}

	reg.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Simulation ticks executed.",
		}, func() float64 { return float64(src.Snapshot().Frame) }),
		gauge("hand_detected", "1 when at least one hand is detected.", func(s sim.Snapshot) float64 {
			if s.HandDetected {
				return 1
			}
			return 0
		}),
		gauge("expansion_current", "Smoothed expansion factor.", func(s sim.Snapshot) float64 { return s.CurrentExpansion }),
		gauge("expansion_target", "Expansion target set by two hands.", func(s sim.Snapshot) float64 { return s.TargetExpansion }),
		gauge("hue_current", "Smoothed global hue in degrees.", func(s sim.Snapshot) float64 { return s.CurrentHue }),
		gauge("hue_target", "Hue target set by hand openness.", func(s sim.Snapshot) float64 { return s.TargetHue }),
		gauge("mean_speed", "Mean particle speed after the latest tick.", func(s sim.Snapshot) float64 { return s.MeanSpeed }),
		velocity("x", func(s sim.Snapshot) float64 { return s.HandVelocity.X }),
		velocity("y", func(s sim.Snapshot) float64 { return s.HandVelocity.Y }),
		velocity("z", func(s sim.Snapshot) float64 { return s.HandVelocity.Z }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fps",
			Help:      "Render frames per second reported by the host.",
		}, fps),
	)
	return reg
}
