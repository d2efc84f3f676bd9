package game

import (
	"fmt"
	"math"
	"time"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// bandLevels reduces stereo samples to nBands compressed RMS levels and
// blends them into prev with the given smoothing factor.
func bandLevels(samples [][2]float64, prev []float64, nBands int, smoothing float64) []float64 {
	if len(prev) != nBands {
		prev = make([]float64, nBands)
	}
	if len(samples) == 0 {
		return prev
	}

	segmentSize := int(math.Max(1, float64(len(samples))/float64(nBands)))
	for i := 0; i < nBands; i++ {
		start := i * segmentSize
		end := start + segmentSize
		if start >= len(samples) {
			break
		}
		if end > len(samples) {
			end = len(samples)
		}

		var sumSquares float64
		for s := start; s < end; s++ {
			mono := (samples[s][0] + samples[s][1]) * 0.5
			sumSquares += mono * mono
		}

		rms := math.Sqrt(sumSquares / float64(end-start))
		mag := clamp01(math.Pow(rms, 0.3))
		prev[i] = smoothing*prev[i] + (1-smoothing)*mag
	}
	return prev
}
