package game

import (
	"fmt"

	"github.com/iburimskiy/hand-particles/internal/sim"
)

// debugLines renders the telemetry overlay text.
func debugLines(snap sim.Snapshot, fps float64) []string {
	lines := []string{
		fmt.Sprintf("FPS: %.0f", fps),
		fmt.Sprintf("Hand Detected: %t", snap.HandDetected),
		fmt.Sprintf("Expansion: %.2f (Target: %.2f)", snap.CurrentExpansion, snap.TargetExpansion),
		fmt.Sprintf("Color Hue: %.0f (Target: %.0f)", snap.CurrentHue, snap.TargetHue),
	}
	if !snap.HandDetected {
		return lines
	}
	if snap.PalmCenter != nil {
		p := snap.PalmCenter
		lines = append(lines, fmt.Sprintf("Palm Center: X:%.0f, Y:%.0f, Z:%.0f", p.X, p.Y, p.Z))
	}
	if snap.Hands == 2 {
		lines = append(lines, fmt.Sprintf("Two Hand Span: %.2f", snap.TwoHandSpan))
	}
	v := snap.HandVelocity
	lines = append(lines,
		fmt.Sprintf("Hand Openness: %.2f", snap.HandOpenness),
		fmt.Sprintf("Hand Velocity: X:%.1f, Y:%.1f, Z:%.1f", v.X, v.Y, v.Z),
	)
	return lines
}
