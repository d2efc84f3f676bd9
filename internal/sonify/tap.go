package sonify

import (
	"sync"

	"github.com/faiface/beep"
)

// Tap passes audio through unchanged and remembers the most recent samples
// for the waveform strip.
type Tap struct {
	src beep.Streamer

	mu      sync.Mutex
	ring    [][2]float64
	written uint64 // samples recorded since creation
}

func NewTap(src beep.Streamer, ringSize int) *Tap {
	return &Tap{src: src, ring: make([][2]float64, ringSize)}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.src.Stream(samples)
	if n > 0 {
		t.record(samples[:n])
	}
	return n, ok
}

func (t *Tap) Err() error { return t.src.Err() }

// record appends samples to the ring, wrapping at most once per copy.
func (t *Tap) record(samples [][2]float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	size := len(t.ring)
	if len(samples) > size {
		t.written += uint64(len(samples) - size)
		samples = samples[len(samples)-size:]
	}
	at := int(t.written % uint64(size))
	k := copy(t.ring[at:], samples)
	copy(t.ring, samples[k:])
	t.written += uint64(len(samples))
}

// Snapshot returns up to n of the latest samples, oldest first. It returns
// fewer before the tap has seen n samples.
func (t *Tap) Snapshot(n int) [][2]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	size := len(t.ring)
	n = min(n, size)
	if t.written < uint64(n) {
		n = int(t.written)
	}
	out := make([][2]float64, n)
	from := int((t.written - uint64(n)) % uint64(size))
	k := copy(out, t.ring[from:])
	copy(out[k:], t.ring)
	return out
}
