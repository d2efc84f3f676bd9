package game

import (
	"math"

	"github.com/iburimskiy/hand-particles/internal/gesture"
)

// Thumb-to-pinky spans of the mouse-driven hands, either side of the
// repel threshold.
const (
	mouseOpenHand   = 0.25
	mouseClosedHand = 0.05
)

type mouseState struct {
	left, right, shift bool
	// Normalized cursor position in [0,1], top-left origin.
	x, y float64
}

// mouseFrame synthesizes the landmark frame for the current mouse state.
// Left is an open hand at the cursor, right a fist, and shift+left a pair of
// hands whose span grows with the cursor's horizontal distance from center.
func mouseFrame(m mouseState) (gesture.Frame, bool) {
	x, y := clamp01(m.x), clamp01(m.y)
	switch {
	case m.left && m.shift:
		span := math.Abs(x-0.5) * 2
		return gesture.SynthesizeTwoHands(0.5, y, span), true
	case m.left:
		return gesture.Frame{Hands: []gesture.Hand{gesture.SynthesizeHand(x, y, 0, mouseOpenHand)}}, true
	case m.right:
		return gesture.Frame{Hands: []gesture.Hand{gesture.SynthesizeHand(x, y, 0, mouseClosedHand)}}, true
	}
	return gesture.Frame{}, false
}

// normalizeCursor maps a cursor position on a width x height screen into
// [0,1] per axis.
func normalizeCursor(x, y, width, height int) (float64, float64) {
	return float64(x) / float64(width), float64(y) / float64(height)
}
