// Package field integrates the per-particle force field: idle drift around
// an expanded rest shell, gesture attraction or repulsion, spring return and
// damping, and speed-driven color.
package field

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/hand-particles/internal/config"
	"github.com/iburimskiy/hand-particles/internal/particle"
	"github.com/iburimskiy/hand-particles/internal/vec"
)

type Params struct {
	InteractionRadius float64
	SpringStiffness   float64
	Damping           float64
	ForcePower        float64
	OpennessThreshold float64
	ColorChaseRate    float64

	NoiseAmplitude float64
	WakeFactor     float64
	WakeThreshold  float64

	Saturation    float64
	BaseLightness float64
	LightnessGain float64
	MaxLightBoost float64
}

func DefaultParams() Params {
	return Params{
		InteractionRadius: config.DefaultInteractionRadius,
		SpringStiffness:   config.DefaultSpringStiffness,
		Damping:           config.DefaultDamping,
		ForcePower:        config.DefaultForcePower,
		OpennessThreshold: config.DefaultOpennessThreshold,
		ColorChaseRate:    config.DefaultColorChaseRate,
		NoiseAmplitude:    config.NoiseAmplitude,
		WakeFactor:        config.WakeFactor,
		WakeThreshold:     config.WakeThreshold,
		Saturation:        config.Saturation,
		BaseLightness:     config.BaseLightness,
		LightnessGain:     config.LightnessGain,
		MaxLightBoost:     config.MaxLightBoost,
	}
}

// Input is everything the integrator reads besides the particle store.
type Input struct {
	SimTime   float64
	Expansion float64
	Hue       float64

	// Gesture force applies only when a single hand supplied a palm.
	HandDetected bool
	HasPalm      bool
	Palm         vec.Vec3
	Openness     float64
	HandVelocity vec.Vec3
}

// Stats summarizes one Step.
type Stats struct {
	MeanSpeed float64
	// Influenced counts particles that received a gesture force.
	Influenced int
}

type Integrator struct {
	params Params
}

func New(p Params) *Integrator {
	return &Integrator{params: p}
}

// Step advances every particle once and rewrites the position and color
// buffers of s.
func (in *Integrator) Step(s *particle.Store, input Input) Stats {
	var stats Stats
	n := s.Len()
	if n == 0 {
		return stats
	}

	var speedSum float64
	gesture := input.HandDetected && input.HasPalm
	for i := 0; i < n; i++ {
		speed, touched := in.stepParticle(s, i, input, gesture)
		speedSum += speed
		if touched {
			stats.Influenced++
		}
	}
	stats.MeanSpeed = speedSum / float64(n)
	return stats
}

// stepParticle applies, in order: idle target, gesture force, velocity,
// spring, damping, color. Returns the post-damping speed and whether the
// gesture force touched the particle.
func (in *Integrator) stepParticle(s *particle.Store, i int, input Input, gesture bool) (float64, bool) {
	p := in.params
	rest := s.Rest[i]
	vel := s.Vel[i]

	home := rest.Scale(input.Expansion).Add(Noise(rest, input.SimTime, p.NoiseAmplitude))

	touched := false
	if gesture {
		var impulse vec.Vec3
		impulse, touched = in.gestureImpulse(s.Pos[i], input)
		vel = vel.Add(impulse)
	}

	pos := s.Pos[i].Add(vel)

	vel = vel.Add(home.Sub(pos).Scale(p.SpringStiffness))
	vel = vel.Scale(p.Damping)

	s.Pos[i] = pos
	s.Vel[i] = vel
	s.WritePosition(i)

	s.Hue[i] += (input.Hue - s.Hue[i]) * p.ColorChaseRate
	speed := vel.Len()
	lightness := p.BaseLightness + math.Min(p.MaxLightBoost, speed*p.LightnessGain)
	s.WriteColor(i, colorful.Hsl(particle.WrapHue(s.Hue[i]), p.Saturation, lightness))

	return speed, touched
}

// gestureImpulse is the velocity change the hand applies to a particle at
// pos. It is zero outside the interaction radius and when the particle sits
// exactly on the palm, where the direction is undefined.
func (in *Integrator) gestureImpulse(pos vec.Vec3, input Input) (vec.Vec3, bool) {
	p := in.params
	delta := input.Palm.Sub(pos)
	distance := delta.Len()
	if distance >= p.InteractionRadius || distance == 0 {
		return vec.Vec3{}, false
	}

	f := (p.InteractionRadius - distance) / p.InteractionRadius
	falloff := f * f * f

	sign := 1.0
	if input.Openness > p.OpennessThreshold {
		sign = -1
	}
	impulse := delta.Scale(falloff * sign * p.ForcePower / distance)

	hv := input.HandVelocity
	if math.Abs(hv.X) > p.WakeThreshold || math.Abs(hv.Y) > p.WakeThreshold {
		impulse = impulse.Add(hv.Scale(p.WakeFactor * falloff))
	}
	return impulse, true
}

// Noise is the idle drift offset of a particle with the given rest position.
func Noise(rest vec.Vec3, t, amplitude float64) vec.Vec3 {
	return vec.Vec3{
		X: math.Sin(t+rest.Y*0.01) * amplitude,
		Y: math.Cos(t*0.8+rest.X*0.01) * amplitude,
		Z: math.Sin(t*0.5+rest.Z*0.01) * amplitude,
	}
}
