package sonify

import (
	"log/slog"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"github.com/iburimskiy/hand-particles/internal/logging"
)

const SampleRate = beep.SampleRate(44100)

// Output plays a Hum through the system speaker behind a mute control.
type Output struct {
	ctrl   *beep.Ctrl
	tap    *Tap
	logger *slog.Logger
	muted  bool
}

// Start initializes the speaker and begins playing. Errors are returned so
// the caller can continue without sound.
func Start(src SnapshotSource, ringSize int, logger *slog.Logger) (*Output, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/20)); err != nil {
		return nil, err
	}

	tap := NewTap(NewHum(SampleRate, src), ringSize)
	ctrl := &beep.Ctrl{Streamer: tap, Paused: false}
	speaker.Play(ctrl)

	logger.Info("audio started", "sample_rate", int(SampleRate))
	return &Output{ctrl: ctrl, tap: tap, logger: logger}, nil
}

// Tap exposes the recent samples for drawing.
func (o *Output) Tap() *Tap {
	return o.tap
}

func (o *Output) Muted() bool {
	return o.muted
}

func (o *Output) ToggleMute() {
	speaker.Lock()
	o.muted = !o.muted
	o.ctrl.Paused = o.muted
	speaker.Unlock()
	o.logger.Debug("audio mute toggled", "muted", o.muted)
}

// Close stops playback.
func (o *Output) Close() {
	speaker.Lock()
	speaker.Clear()
	speaker.Unlock()
}
