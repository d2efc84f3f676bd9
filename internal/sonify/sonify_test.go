package sonify

import (
	"math"
	"testing"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/hand-particles/internal/sim"
)

type counter struct{ next float64 }

func (c *counter) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		c.next++
		samples[i] = [2]float64{c.next, -c.next}
	}
	return len(samples), true
}

func (c *counter) Err() error { return nil }

func TestTapKeepsMostRecentSamplesInOrder(t *testing.T) {
	tap := NewTap(&counter{}, 4)
	buf := make([][2]float64, 3)

	tap.Stream(buf)
	tap.Stream(buf)

	got := tap.Snapshot(4)
	require.Len(t, got, 4)
	assert.Equal(t, [2]float64{3, -3}, got[0])
	assert.Equal(t, [2]float64{6, -6}, got[3])

	assert.Len(t, tap.Snapshot(10), 4)
	assert.Equal(t, [][2]float64{{5, -5}, {6, -6}}, tap.Snapshot(2))
}

func TestTapBeforeRingFills(t *testing.T) {
	tap := NewTap(&counter{}, 8)
	assert.Empty(t, tap.Snapshot(4))

	tap.Stream(make([][2]float64, 3))
	assert.Equal(t, [][2]float64{{1, -1}, {2, -2}, {3, -3}}, tap.Snapshot(4))
}

func TestTapChunkLargerThanRing(t *testing.T) {
	tap := NewTap(&counter{}, 4)
	tap.Stream(make([][2]float64, 2))
	tap.Stream(make([][2]float64, 7))

	assert.Equal(t, [][2]float64{{6, -6}, {7, -7}, {8, -8}, {9, -9}}, tap.Snapshot(4))

	tap.Stream(make([][2]float64, 1))
	assert.Equal(t, [][2]float64{{8, -8}, {9, -9}, {10, -10}}, tap.Snapshot(3))
}

type fixedSnapshot sim.Snapshot

func (f fixedSnapshot) Snapshot() sim.Snapshot { return sim.Snapshot(f) }

func TestHumFrequencyWrapsHue(t *testing.T) {
	assert.InDelta(t, 110, HumFrequency(0), 1e-9)
	assert.InDelta(t, 275, HumFrequency(180), 1e-9)
	assert.InDelta(t, HumFrequency(270), HumFrequency(630), 1e-9)
	assert.InDelta(t, HumFrequency(340), HumFrequency(-20), 1e-9)
}

func TestHumAmplitudeIsCapped(t *testing.T) {
	assert.InDelta(t, 0.02, HumAmplitude(0), 1e-12)
	assert.InDelta(t, 0.07, HumAmplitude(1), 1e-12)
	assert.InDelta(t, 0.27, HumAmplitude(1000), 1e-12)
}

func TestHumStreamsBoundedStereo(t *testing.T) {
	h := NewHum(beep.SampleRate(44100), fixedSnapshot{CurrentHue: 220, MeanSpeed: 2})
	samples := make([][2]float64, 4096)

	n, ok := h.Stream(samples)
	assert.Equal(t, len(samples), n)
	assert.True(t, ok)
	assert.NoError(t, h.Err())

	peak := 0.0
	for _, s := range samples {
		assert.Equal(t, s[0], s[1])
		peak = math.Max(peak, math.Abs(s[0]))
	}
	assert.LessOrEqual(t, peak, HumAmplitude(2)+1e-9)
	assert.Greater(t, peak, 0.0)
}
