package vec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -1, 0.5}

	assert.Equal(t, Vec3{5, 1, 3.5}, a.Add(b))
	assert.Equal(t, Vec3{-3, 3, 2.5}, a.Sub(b))
	assert.Equal(t, Vec3{2, 4, 6}, a.Scale(2))
	assert.Equal(t, 14.0, a.LenSq())
	assert.InDelta(t, math.Sqrt(14), a.Len(), 1e-12)
}

func TestDist2DIgnoresZ(t *testing.T) {
	assert.InDelta(t, 5.0, Dist2D(Vec3{0, 0, 100}, Vec3{3, 4, -7}), 1e-12)
}

func TestMean(t *testing.T) {
	assert.Equal(t, Vec3{}, Mean())
	assert.Equal(t, Vec3{2, 2, 2}, Mean(Vec3{1, 1, 1}, Vec3{3, 3, 3}))
}

func TestRotateYPreservesLength(t *testing.T) {
	v := Vec3{100, -20, 40}
	r := RotateY(v, 1.3)
	assert.InDelta(t, v.Len(), r.Len(), 1e-9)
	assert.Equal(t, v.Y, r.Y)

	quarter := RotateY(Vec3{1, 0, 0}, math.Pi/2)
	assert.InDelta(t, 0, quarter.X, 1e-12)
	assert.InDelta(t, -1, quarter.Z, 1e-12)
}
