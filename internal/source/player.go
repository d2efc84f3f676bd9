package source

import (
	"context"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/iburimskiy/hand-particles/internal/gesture"
	"github.com/iburimskiy/hand-particles/internal/logging"
)

// defaultFrameInterval paces traces that carry no usable timing, such as a
// single frame.
const defaultFrameInterval = time.Second / 30

// TracePlayer replays a recorded trace on its own timeline.
type TracePlayer struct {
	frames []TraceFrame
	loop   bool
	logger *slog.Logger

	played atomic.Int64
}

type PlayerOption func(*TracePlayer)

// WithLoop restarts the trace from the beginning when it ends.
func WithLoop(loop bool) PlayerOption {
	return func(p *TracePlayer) {
		p.loop = loop
	}
}

func WithPlayerLogger(logger *slog.Logger) PlayerOption {
	return func(p *TracePlayer) {
		p.logger = logger
	}
}

func NewTracePlayer(frames []TraceFrame, opts ...PlayerOption) *TracePlayer {
	p := &TracePlayer{frames: frames, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Duration is the timestamp of the last frame.
func (p *TracePlayer) Duration() time.Duration {
	if len(p.frames) == 0 {
		return 0
	}
	return time.Duration(p.frames[len(p.frames)-1].TimeMS) * time.Millisecond
}

// Progress is the fraction of frames published in the current pass, in [0,1].
func (p *TracePlayer) Progress() float64 {
	if len(p.frames) == 0 {
		return 0
	}
	return float64(p.played.Load()) / float64(len(p.frames))
}

// Run publishes every frame at its timestamp until the trace ends (or
// forever when looping) or ctx is canceled. When the trace ends without
// looping it publishes an empty signal so the hand disappears.
//
// A looping pass starts one frame interval after the previous one ended, so
// the seam keeps the trace's own cadence.
func (p *TracePlayer) Run(ctx context.Context, pub Publisher) error {
	if len(p.frames) == 0 {
		return ErrEmptyTrace
	}
	p.logger.Info("trace playback started", "frames", len(p.frames), "duration", p.Duration(), "loop", p.loop)

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	gap := p.FrameInterval()
	start := time.Now()
	for {
		p.played.Store(0)
		for _, f := range p.frames {
			wait := time.Until(start.Add(time.Duration(f.TimeMS) * time.Millisecond))
			if wait > 0 {
				timer.Reset(wait)
				select {
				case <-ctx.Done():
					return nil
				case <-timer.C:
				}
			} else if ctx.Err() != nil {
				return nil
			}

			sig, err := gesture.Interpret(f.Frame)
			if err != nil {
				p.logger.Warn("dropping trace frame", "t_ms", f.TimeMS, "error", err)
				continue
			}
			pub.Publish(sig)
			p.played.Add(1)
		}
		if !p.loop {
			pub.Publish(gesture.Signal{})
			p.logger.Info("trace playback finished")
			return nil
		}
		start = time.Now().Add(gap)
	}
}

// FrameInterval is the median spacing between consecutive frames, or
// defaultFrameInterval when every frame shares one timestamp.
func (p *TracePlayer) FrameInterval() time.Duration {
	steps := make([]int64, 0, len(p.frames))
	for i := 1; i < len(p.frames); i++ {
		if d := p.frames[i].TimeMS - p.frames[i-1].TimeMS; d > 0 {
			steps = append(steps, d)
		}
	}
	if len(steps) == 0 {
		return defaultFrameInterval
	}
	slices.Sort(steps)
	return time.Duration(steps[len(steps)/2]) * time.Millisecond
}
