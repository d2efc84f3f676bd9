package field

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/hand-particles/internal/particle"
	"github.com/iburimskiy/hand-particles/internal/vec"
)

func single(rest vec.Vec3) *particle.Store {
	return particle.NewFromRest([]vec.Vec3{rest}, 220)
}

func idle() Input {
	return Input{Expansion: 1, Hue: 220}
}

func TestPalmOnParticleSkipsGestureForce(t *testing.T) {
	s := single(vec.Vec3{X: 100})
	in := New(DefaultParams())

	stats := in.Step(s, Input{
		SimTime:      0,
		Expansion:    1,
		Hue:          220,
		HandDetected: true,
		HasPalm:      true,
		Palm:         vec.Vec3{X: 100},
		Openness:     0.1,
		HandVelocity: vec.Vec3{X: 5, Y: 5},
	})

	home := vec.Vec3{X: 100, Y: math.Cos(1) * 20, Z: 0}
	wantVel := home.Sub(vec.Vec3{X: 100}).Scale(0.03 * 0.92)

	assert.Equal(t, 0, stats.Influenced)
	assert.Equal(t, vec.Vec3{X: 100}, s.Pos[0])
	assert.InDelta(t, wantVel.X, s.Vel[0].X, 1e-12)
	assert.InDelta(t, wantVel.Y, s.Vel[0].Y, 1e-12)
	assert.InDelta(t, wantVel.Z, s.Vel[0].Z, 1e-12)
	assert.False(t, math.IsNaN(s.Vel[0].Len()))
}

func TestNoiseAtTimeZero(t *testing.T) {
	n := Noise(vec.Vec3{X: 100}, 0, 20)
	assert.InDelta(t, 0, n.X, 1e-12)
	assert.InDelta(t, 20*math.Cos(1), n.Y, 1e-12)
	assert.InDelta(t, 0, n.Z, 1e-12)
}

func TestOpenHandRepelsClosedHandAttracts(t *testing.T) {
	in := New(DefaultParams())
	pos := vec.Vec3{}
	base := Input{HandDetected: true, HasPalm: true, Palm: vec.Vec3{X: 100}}

	open := base
	open.Openness = 0.2
	closed := base
	closed.Openness = 0.1

	repel, ok := in.gestureImpulse(pos, open)
	require.True(t, ok)
	attract, ok := in.gestureImpulse(pos, closed)
	require.True(t, ok)

	assert.Less(t, repel.X, 0.0, "open hand pushes away from the palm")
	assert.Greater(t, attract.X, 0.0, "closed hand pulls toward the palm")
	assert.InDelta(t, -repel.X, attract.X, 1e-12)

	// falloff ((500-100)/500)^3 * power 15
	assert.InDelta(t, 0.512*15, attract.X, 1e-12)
}

func TestOpennessAtThresholdAttracts(t *testing.T) {
	in := New(DefaultParams())
	impulse, ok := in.gestureImpulse(vec.Vec3{}, Input{HandDetected: true, HasPalm: true, Palm: vec.Vec3{Y: 10}, Openness: 0.15})
	require.True(t, ok)
	assert.Greater(t, impulse.Y, 0.0)
}

func TestRadiusCutoff(t *testing.T) {
	in := New(DefaultParams())

	_, ok := in.gestureImpulse(vec.Vec3{}, Input{HandDetected: true, HasPalm: true, Palm: vec.Vec3{X: 500}})
	assert.False(t, ok)

	_, ok = in.gestureImpulse(vec.Vec3{}, Input{HandDetected: true, HasPalm: true, Palm: vec.Vec3{X: 499.9}})
	assert.True(t, ok)

	// Whole step: a far hand leaves the particle exactly as an absent hand.
	far := single(vec.Vec3{X: 100})
	none := single(vec.Vec3{X: 100})
	hand := idle()
	hand.HandDetected = true
	hand.HasPalm = true
	hand.Palm = vec.Vec3{X: 700}
	hand.HandVelocity = vec.Vec3{X: 30}

	for i := 0; i < 10; i++ {
		in.Step(far, hand)
		in.Step(none, idle())
	}
	assert.Equal(t, none.Pos, far.Pos)
	assert.Equal(t, none.Vel, far.Vel)
}

func TestWakeTerm(t *testing.T) {
	in := New(DefaultParams())
	base := Input{HandDetected: true, HasPalm: true, Palm: vec.Vec3{X: 100}, Openness: 0.1}

	still, _ := in.gestureImpulse(vec.Vec3{}, base)

	slow := base
	slow.HandVelocity = vec.Vec3{X: 0.1, Y: -0.1, Z: 50}
	got, _ := in.gestureImpulse(vec.Vec3{}, slow)
	assert.Equal(t, still, got, "wake needs |vx| or |vy| above the threshold")

	moving := base
	moving.HandVelocity = vec.Vec3{X: 0, Y: 10, Z: 4}
	got, _ = in.gestureImpulse(vec.Vec3{}, moving)
	assert.InDelta(t, still.X, got.X, 1e-12)
	assert.InDelta(t, 10*0.3*0.512, got.Y, 1e-12)
	assert.InDelta(t, 4*0.3*0.512, got.Z, 1e-12)
}

func TestTwoHandModeHasNoGestureForce(t *testing.T) {
	in := New(DefaultParams())
	twoHands := single(vec.Vec3{X: 100})
	none := single(vec.Vec3{X: 100})

	sig := idle()
	sig.HandDetected = true
	sig.HasPalm = false
	sig.Palm = vec.Vec3{X: 110}
	sig.Openness = 0.5

	for i := 0; i < 5; i++ {
		stats := in.Step(twoHands, sig)
		assert.Zero(t, stats.Influenced)
		in.Step(none, idle())
	}
	assert.Equal(t, none.Vel, twoHands.Vel)
}

func TestIdleSettlesNearHome(t *testing.T) {
	in := New(DefaultParams())
	s := particle.New(50, 220, rand.New(rand.NewSource(3)))
	for i := range s.Vel {
		s.Vel[i] = vec.Vec3{X: 40, Y: -25, Z: 10}
	}

	input := idle()
	input.Expansion = 1.5
	for step := 0; step < 3000; step++ {
		input.SimTime = float64(step+1) * 0.01
		in.Step(s, input)
	}

	for i := 0; i < s.Len(); i++ {
		home := s.Rest[i].Scale(1.5).Add(Noise(s.Rest[i], input.SimTime, 20))
		assert.Less(t, s.Vel[i].Len(), 1.0)
		assert.Less(t, s.Pos[i].Sub(home).Len(), 5.0)
	}
}

func TestVelocityStaysBounded(t *testing.T) {
	in := New(DefaultParams())
	s := particle.New(200, 220, rand.New(rand.NewSource(11)))
	rng := rand.New(rand.NewSource(12))

	palm := vec.Vec3{}
	prev := palm
	maxSpeed := 0.0
	for step := 0; step < 2000; step++ {
		palm = palm.Add(vec.Vec3{X: rng.Float64()*40 - 20, Y: rng.Float64()*40 - 20, Z: rng.Float64()*20 - 10})
		palm = vec.Vec3{X: clamp(palm.X, -400, 400), Y: clamp(palm.Y, -300, 300), Z: clamp(palm.Z, -250, 250)}
		input := Input{
			SimTime:      float64(step) * 0.01,
			Expansion:    0.3 + rng.Float64()*2.7,
			Hue:          rng.Float64() * 720,
			HandDetected: rng.Intn(4) != 0,
			HasPalm:      true,
			Palm:         palm,
			Openness:     rng.Float64() * 0.3,
			HandVelocity: palm.Sub(prev),
		}
		prev = palm
		stats := in.Step(s, input)
		require.False(t, math.IsNaN(stats.MeanSpeed))
		for i := range s.Vel {
			maxSpeed = math.Max(maxSpeed, s.Vel[i].Len())
		}
	}
	assert.Less(t, maxSpeed, 2000.0)
}

func TestColorFollowsHueAndSpeed(t *testing.T) {
	in := New(DefaultParams())
	s := single(vec.Vec3{X: 100})

	in.Step(s, Input{Expansion: 1, Hue: 320})
	assert.InDelta(t, 222, s.Hue[0], 1e-12)

	for _, c := range s.Colors {
		assert.GreaterOrEqual(t, c, float32(0))
		assert.LessOrEqual(t, c, float32(1))
	}

	// A fast particle is brighter than a resting one of the same hue.
	slow := single(vec.Vec3{X: 100})
	fast := single(vec.Vec3{X: 100})
	fast.Vel[0] = vec.Vec3{X: 200}
	in.Step(slow, idle())
	in.Step(fast, idle())
	assert.Greater(t, sum(fast.Colors), sum(slow.Colors))
}

func TestStepWritesPositionBuffer(t *testing.T) {
	in := New(DefaultParams())
	s := single(vec.Vec3{X: 100})
	s.Vel[0] = vec.Vec3{X: 1, Y: 2, Z: 3}

	in.Step(s, idle())
	assert.Equal(t, vec.Vec3{X: 101, Y: 2, Z: 3}, s.Pos[0])
	assert.Equal(t, []float32{101, 2, 3}, s.Positions)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func sum(xs []float32) float32 {
	var total float32
	for _, x := range xs {
		total += x
	}
	return total
}
