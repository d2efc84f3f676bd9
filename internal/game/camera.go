package game

import (
	"math"

	"github.com/iburimskiy/hand-particles/internal/config"
	"github.com/iburimskiy/hand-particles/internal/vec"
)

// camera is a perspective camera on the +Z axis looking at the origin.
type camera struct {
	distance float64
	near     float64
	focal    float64
	width    float64
	height   float64
}

func newCamera(width, height int) camera {
	fov := config.CameraFOV * math.Pi / 180
	return camera{
		distance: config.CameraDistance,
		near:     config.CameraNear,
		focal:    (float64(height) / 2) / math.Tan(fov/2),
		width:    float64(width),
		height:   float64(height),
	}
}

// project maps a simulation-space point, spun by rotation about Y, to screen
// coordinates. scale is pixels per simulation unit at the point's depth; ok
// is false for points at or behind the near plane.
func (c camera) project(p vec.Vec3, rotation float64) (x, y, scale float64, ok bool) {
	r := vec.RotateY(p, rotation)
	depth := c.distance - r.Z
	if depth <= c.near {
		return 0, 0, 0, false
	}
	scale = c.focal / depth
	x = c.width/2 + r.X*scale
	y = c.height/2 - r.Y*scale
	return x, y, scale, true
}
