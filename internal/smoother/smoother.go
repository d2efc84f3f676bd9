// Package smoother keeps the exponentially filtered control state that
// persists across frames: expansion, hue, hand velocity and simulation time.
package smoother

import (
	"github.com/iburimskiy/hand-particles/internal/config"
	"github.com/iburimskiy/hand-particles/internal/gesture"
	"github.com/iburimskiy/hand-particles/internal/vec"
)

type Params struct {
	ExpansionRate float64
	HueRate       float64
	// TimeStep is added to SimTime once per Advance, independent of wall clock.
	TimeStep float64
}

func DefaultParams() Params {
	return Params{
		ExpansionRate: config.DefaultExpansionRate,
		HueRate:       config.DefaultHueRate,
		TimeStep:      config.DefaultTimeStep,
	}
}

// State is a copy of the smoothed values after the latest Advance.
type State struct {
	CurrentExpansion float64
	TargetExpansion  float64
	CurrentHue       float64
	TargetHue        float64

	HasPrevPalm bool
	PrevPalm    vec.Vec3

	// HandVelocity is the raw palm displacement since the previous tick. It is
	// not divided by elapsed time, so its magnitude depends on the tick rate.
	HandVelocity vec.Vec3

	SimTime float64
}

type Smoother struct {
	params Params
	state  State
}

// New starts with current and target values equal.
func New(p Params, expansion, hue float64) *Smoother {
	return &Smoother{
		params: p,
		state: State{
			CurrentExpansion: expansion,
			TargetExpansion:  expansion,
			CurrentHue:       hue,
			TargetHue:        hue,
		},
	}
}

// Advance runs one tick. Targets carried by sig replace the held targets; a
// target sig does not carry keeps its last value.
func (s *Smoother) Advance(sig gesture.Signal) {
	st := &s.state

	if sig.HasExpansionTarget {
		st.TargetExpansion = sig.TargetExpansion
	}
	if sig.HasHueTarget {
		st.TargetHue = sig.TargetHue
	}

	st.CurrentExpansion += (st.TargetExpansion - st.CurrentExpansion) * s.params.ExpansionRate
	st.CurrentHue += (st.TargetHue - st.CurrentHue) * s.params.HueRate

	// Velocity needs a palm on two consecutive ticks. Two hands carry no palm
	// and count as absent here.
	if sig.HandDetected && sig.HasPalm {
		if st.HasPrevPalm {
			st.HandVelocity = sig.PalmCenter.Sub(st.PrevPalm)
		} else {
			st.HandVelocity = vec.Vec3{}
		}
		st.PrevPalm = sig.PalmCenter
		st.HasPrevPalm = true
	} else {
		st.HasPrevPalm = false
		st.PrevPalm = vec.Vec3{}
		st.HandVelocity = vec.Vec3{}
	}

	st.SimTime += s.params.TimeStep
}

func (s *Smoother) State() State {
	return s.state
}
