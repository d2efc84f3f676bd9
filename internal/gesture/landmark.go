package gesture

import (
	"errors"
	"fmt"

	"github.com/iburimskiy/hand-particles/internal/config"
	"github.com/iburimskiy/hand-particles/internal/vec"
)

// LandmarkCount is the number of points a hand detector reports per hand.
const LandmarkCount = 21

// Landmark indices used by the interpreter.
const (
	Wrist     = 0
	ThumbTip  = 4
	IndexMCP  = 5
	MiddleMCP = 9
	RingMCP   = 13
	PinkyMCP  = 17
	PinkyTip  = 20
)

var (
	ErrLandmarkCount = errors.New("hand must have exactly 21 landmarks")
	ErrTooManyHands  = errors.New("at most two hands are supported")
)

// Landmark is one detector point in normalized image space: x and y in
// [0,1] with y pointing down, z a relative depth.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (l Landmark) Vec() vec.Vec3 {
	return vec.Vec3{X: l.X, Y: l.Y, Z: l.Z}
}

// Hand is the ordered landmark set of one detected hand.
type Hand []Landmark

func (h Hand) Validate() error {
	if len(h) != LandmarkCount {
		return fmt.Errorf("%w: got %d", ErrLandmarkCount, len(h))
	}
	return nil
}

func (h Hand) clone() Hand {
	out := make(Hand, len(h))
	copy(out, h)
	return out
}

// Frame is the raw detector output for one video frame.
type Frame struct {
	Hands []Hand `json:"hands"`
}

func (f Frame) Validate() error {
	if len(f.Hands) > 2 {
		return fmt.Errorf("%w: got %d", ErrTooManyHands, len(f.Hands))
	}
	for i, h := range f.Hands {
		if err := h.Validate(); err != nil {
			return fmt.Errorf("hand %d: %w", i, err)
		}
	}
	return nil
}

// ToSimSpace maps a normalized point into simulation space.
func ToSimSpace(p vec.Vec3) vec.Vec3 {
	return vec.Vec3{
		X: (p.X - 0.5) * config.SpaceScaleX,
		Y: -(p.Y - 0.5) * config.SpaceScaleY,
		Z: p.Z * config.SpaceScaleZ,
	}
}

// HandConnections lists the landmark pairs that form the hand skeleton.
var HandConnections = [][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 4},
	{0, 5}, {5, 6}, {6, 7}, {7, 8},
	{0, 9}, {9, 10}, {10, 11}, {11, 12},
	{0, 13}, {13, 14}, {14, 15}, {15, 16},
	{0, 17}, {17, 18}, {18, 19}, {19, 20},
	{5, 9}, {9, 13}, {13, 17},
}
