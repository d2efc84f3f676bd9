// Package sonify turns the simulation state into sound: a hum whose pitch
// follows the global hue and whose loudness follows particle motion.
package sonify

import (
	"math"

	"github.com/faiface/beep"

	"github.com/iburimskiy/hand-particles/internal/particle"
	"github.com/iburimskiy/hand-particles/internal/sim"
)

const (
	baseFrequency = 110.0
	frequencySpan = 330.0
	baseAmplitude = 0.02
	amplitudeGain = 0.05
	maxAmpBoost   = 0.25
	slewPerSample = 0.0005
)

// SnapshotSource is polled once per audio buffer. sim.Driver implements it.
type SnapshotSource interface {
	Snapshot() sim.Snapshot
}

// HumFrequency maps a hue in degrees to a pitch in Hz.
func HumFrequency(hue float64) float64 {
	return baseFrequency + particle.WrapHue(hue)/360*frequencySpan
}

// HumAmplitude maps mean particle speed to a sample amplitude.
func HumAmplitude(meanSpeed float64) float64 {
	return baseAmplitude + math.Min(maxAmpBoost, meanSpeed*amplitudeGain)
}

// Hum is an endless beep.Streamer. Pitch and amplitude glide toward the
// values of the latest snapshot so buffer boundaries do not click.
type Hum struct {
	sampleRate beep.SampleRate
	src        SnapshotSource

	phase float64
	freq  float64
	amp   float64
}

func NewHum(sr beep.SampleRate, src SnapshotSource) *Hum {
	snap := src.Snapshot()
	return &Hum{
		sampleRate: sr,
		src:        src,
		freq:       HumFrequency(snap.CurrentHue),
		amp:        HumAmplitude(snap.MeanSpeed),
	}
}

func (h *Hum) Stream(samples [][2]float64) (int, bool) {
	snap := h.src.Snapshot()
	targetFreq := HumFrequency(snap.CurrentHue)
	targetAmp := HumAmplitude(snap.MeanSpeed)
	step := 2 * math.Pi / float64(h.sampleRate)

	for i := range samples {
		h.freq += (targetFreq - h.freq) * slewPerSample
		h.amp += (targetAmp - h.amp) * slewPerSample
		h.phase += step * h.freq
		if h.phase > 2*math.Pi {
			h.phase -= 2 * math.Pi
		}
		v := math.Sin(h.phase) * h.amp
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (h *Hum) Err() error { return nil }
