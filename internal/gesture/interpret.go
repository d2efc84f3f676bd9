package gesture

import (
	"math"

	"github.com/iburimskiy/hand-particles/internal/config"
	"github.com/iburimskiy/hand-particles/internal/vec"
)

const (
	hueBase       = 180.0
	hueSpan       = 300.0
	expansionBase = 0.5
	expansionGain = 5.0
)

// Signal is the control signal derived from one detector frame.
//
// A Signal is immutable once published: producers build a fresh value per
// frame and consumers only read it.
type Signal struct {
	HandDetected bool

	// One-hand fields. HasPalm is false for zero or two hands.
	HasPalm      bool
	PalmCenter   vec.Vec3
	HandOpenness float64

	// Two-hand field.
	TwoHandSpan float64

	// Target updates. Only the branch that ran sets its target; the other
	// target keeps whatever value the smoother already holds.
	HasHueTarget       bool
	TargetHue          float64
	HasExpansionTarget bool
	TargetExpansion    float64

	// Hands carries the landmarks for drawing.
	Hands []Hand
}

// Interpret turns a detector frame into a Signal. It is a pure function of
// the frame.
func Interpret(f Frame) (Signal, error) {
	if err := f.Validate(); err != nil {
		return Signal{}, err
	}

	hands := make([]Hand, len(f.Hands))
	for i, h := range f.Hands {
		hands[i] = h.clone()
	}

	switch len(hands) {
	case 1:
		return interpretOne(hands), nil
	case 2:
		return interpretTwo(hands), nil
	default:
		return Signal{}, nil
	}
}

func interpretOne(hands []Hand) Signal {
	h := hands[0]
	palm := vec.Mean(
		h[Wrist].Vec(),
		h[IndexMCP].Vec(),
		h[MiddleMCP].Vec(),
		h[RingMCP].Vec(),
		h[PinkyMCP].Vec(),
	)
	openness := vec.Dist2D(h[ThumbTip].Vec(), h[PinkyTip].Vec())

	return Signal{
		HandDetected: true,
		HasPalm:      true,
		PalmCenter:   ToSimSpace(palm),
		HandOpenness: openness,
		HasHueTarget: true,
		TargetHue:    hueBase + openness*hueSpan,
		Hands:        hands,
	}
}

func interpretTwo(hands []Hand) Signal {
	a := vec.Mean(hands[0][Wrist].Vec(), hands[0][MiddleMCP].Vec())
	b := vec.Mean(hands[1][Wrist].Vec(), hands[1][MiddleMCP].Vec())
	span := vec.Dist2D(a, b)

	return Signal{
		HandDetected:       true,
		TwoHandSpan:        span,
		HasExpansionTarget: true,
		TargetExpansion:    ExpansionForSpan(span),
		Hands:              hands,
	}
}

// ExpansionForSpan maps the distance between two palms to an expansion target.
func ExpansionForSpan(span float64) float64 {
	return math.Max(config.MinExpansion, math.Min(config.MaxExpansion, expansionBase+span*expansionGain))
}
