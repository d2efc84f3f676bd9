package gesture

// Offsets of the palm points from the palm center. The wrist sits below and
// the four finger bases sit in a row above, so the palm mean is the center.
const (
	wristDrop   = 0.1
	mcpRise     = 0.025
	mcpSpacing  = 0.03
	fingerReach = 0.09
	tipRise     = 0.05
)

// SynthesizeHand builds a plausible 21-point hand whose palm center is
// (x, y, z) in normalized space and whose thumb-to-pinky tip distance is
// openness.
func SynthesizeHand(x, y, z, openness float64) Hand {
	h := make(Hand, LandmarkCount)
	at := func(dx, dy float64) Landmark { return Landmark{X: x + dx, Y: y + dy, Z: z} }

	h[Wrist] = at(0, wristDrop)

	mcps := []int{IndexMCP, MiddleMCP, RingMCP, PinkyMCP}
	for i, idx := range mcps {
		dx := (float64(i) - 1.5) * mcpSpacing
		h[idx] = at(dx, -mcpRise)
		if idx == PinkyMCP {
			continue
		}
		// Three joints per finger above the base, tip last.
		for j := 1; j <= 3; j++ {
			h[idx+j] = at(dx, -mcpRise-fingerReach*float64(j)/3)
		}
	}

	h[ThumbTip] = at(-openness/2, -tipRise)
	h[PinkyTip] = at(openness/2, -tipRise)

	// Thumb joints from wrist to tip, pinky joints from base to tip.
	lerp := func(a, b Landmark, t float64) Landmark {
		return Landmark{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t, Z: a.Z + (b.Z-a.Z)*t}
	}
	for j := 1; j <= 3; j++ {
		h[j] = lerp(h[Wrist], h[ThumbTip], float64(j)/4)
		h[PinkyMCP+j] = lerp(h[PinkyMCP], h[PinkyTip], float64(j)/3)
	}
	return h
}

// SynthesizeTwoHands builds two hands centered at cx±span/2 on row y so the
// interpreter measures a two-hand span of exactly span.
func SynthesizeTwoHands(cx, y, span float64) Frame {
	return Frame{Hands: []Hand{
		SynthesizeHand(cx-span/2, y, 0, 0.2),
		SynthesizeHand(cx+span/2, y, 0, 0.2),
	}}
}
