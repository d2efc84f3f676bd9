// Package particle owns the fixed-size per-particle state and the flat output
// buffers handed to a renderer.
package particle

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/hand-particles/internal/config"
	"github.com/iburimskiy/hand-particles/internal/vec"
)

// Store is a struct-of-arrays layout indexed by particle number. Its length
// never changes after New.
type Store struct {
	Rest []vec.Vec3 // immutable after New
	Pos  []vec.Vec3
	Vel  []vec.Vec3
	Hue  []float64

	// Renderer buffers: 3 floats per particle for Positions and Colors,
	// 1 per particle for Sizes. Sizes is written once.
	Positions []float32
	Colors    []float32
	Sizes     []float32
}

// New samples n rest positions on a spherical shell with radius uniform in
// [RestRadiusMin, RestRadiusMax] and direction uniform over the sphere.
func New(n int, baseHue float64, rng *rand.Rand) *Store {
	rest := make([]vec.Vec3, n)
	sizes := make([]float32, n)
	for i := 0; i < n; i++ {
		radius := config.RestRadiusMin + rng.Float64()*(config.RestRadiusMax-config.RestRadiusMin)
		theta := rng.Float64() * 2 * math.Pi
		cosPhi := rng.Float64()*2 - 1
		sinPhi := math.Sqrt(1 - cosPhi*cosPhi)

		rest[i] = vec.Vec3{
			X: radius * sinPhi * math.Cos(theta),
			Y: radius * sinPhi * math.Sin(theta),
			Z: radius * cosPhi,
		}
		sizes[i] = float32(config.SizeMin + rng.Float64()*(config.SizeMax-config.SizeMin))
	}
	s := NewFromRest(rest, baseHue)
	copy(s.Sizes, sizes)
	return s
}

// NewFromRest builds a store around the given rest positions. Live positions
// start at rest with zero velocity; every size is the midpoint size.
func NewFromRest(rest []vec.Vec3, baseHue float64) *Store {
	n := len(rest)
	s := &Store{
		Rest:      make([]vec.Vec3, n),
		Pos:       make([]vec.Vec3, n),
		Vel:       make([]vec.Vec3, n),
		Hue:       make([]float64, n),
		Positions: make([]float32, n*3),
		Colors:    make([]float32, n*3),
		Sizes:     make([]float32, n),
	}
	copy(s.Rest, rest)
	copy(s.Pos, rest)

	initial := colorful.Hsl(WrapHue(baseHue), config.Saturation, config.InitLightness)
	for i := 0; i < n; i++ {
		s.Hue[i] = baseHue
		s.Sizes[i] = float32((config.SizeMin + config.SizeMax) / 2)
		s.WritePosition(i)
		s.WriteColor(i, initial)
	}
	return s
}

// Len is the fixed particle count.
func (s *Store) Len() int {
	return len(s.Rest)
}

// WritePosition copies the live position of particle i into Positions.
func (s *Store) WritePosition(i int) {
	p := s.Pos[i]
	idx := i * 3
	s.Positions[idx] = float32(p.X)
	s.Positions[idx+1] = float32(p.Y)
	s.Positions[idx+2] = float32(p.Z)
}

func (s *Store) WriteColor(i int, c colorful.Color) {
	idx := i * 3
	s.Colors[idx] = float32(c.R)
	s.Colors[idx+1] = float32(c.G)
	s.Colors[idx+2] = float32(c.B)
}

// WrapHue maps any hue in degrees into [0,360).
func WrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}
