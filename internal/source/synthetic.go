package source

import (
	"math"
	"time"

	"github.com/iburimskiy/hand-particles/internal/gesture"
)

// Orbit generates a demo trace: one hand circling the frame center while
// opening and closing, then two hands pulling apart and together, repeated
// for the whole duration.
func Orbit(duration time.Duration, fps int) []TraceFrame {
	if fps <= 0 {
		fps = 30
	}
	step := time.Second / time.Duration(fps)
	n := int(duration / step)

	frames := make([]TraceFrame, 0, n)
	for i := 0; i < n; i++ {
		at := time.Duration(i) * step
		t := at.Seconds()
		phase := math.Mod(t, 12)

		var f gesture.Frame
		switch {
		case phase < 8:
			x := 0.5 + 0.25*math.Cos(t*0.9)
			y := 0.5 + 0.2*math.Sin(t*0.9)
			openness := 0.15 + 0.12*math.Sin(t*1.7)
			f.Hands = []gesture.Hand{gesture.SynthesizeHand(x, y, 0, openness)}
		case phase < 11:
			span := 0.3 + 0.25*math.Sin((phase-8)*math.Pi/1.5)
			f = gesture.SynthesizeTwoHands(0.5, 0.5, span)
		default:
			// Hands out of view.
		}
		frames = append(frames, TraceFrame{TimeMS: at.Milliseconds(), Frame: f})
	}
	return frames
}
