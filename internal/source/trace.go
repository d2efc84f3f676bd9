// Package source contains gesture producers that stand in for a camera and
// hand detector. Each producer runs on its own goroutine, interprets raw
// landmark frames and publishes the resulting control signal.
package source

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iburimskiy/hand-particles/internal/gesture"
)

var ErrEmptyTrace = errors.New("trace has no frames")

// Publisher receives every interpreted signal.
type Publisher interface {
	Publish(gesture.Signal)
}

// TraceFrame is one line of a landmark trace: a detector frame stamped with
// milliseconds since the start of the recording.
type TraceFrame struct {
	TimeMS int64 `json:"t_ms"`
	gesture.Frame
}

// ReadTrace parses a JSON Lines trace. Blank lines are skipped; any invalid
// line fails the whole read.
func ReadTrace(r io.Reader) ([]TraceFrame, error) {
	var frames []TraceFrame
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var f TraceFrame
		if err := json.Unmarshal([]byte(text), &f); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if n := len(frames); n > 0 && f.TimeMS < frames[n-1].TimeMS {
			return nil, fmt.Errorf("line %d: timestamp %d goes backwards", line, f.TimeMS)
		}
		frames = append(frames, f)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	if len(frames) == 0 {
		return nil, ErrEmptyTrace
	}
	return frames, nil
}

// LoadTrace reads a trace file from disk.
func LoadTrace(path string) ([]TraceFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	frames, err := ReadTrace(f)
	if err != nil {
		return nil, fmt.Errorf("trace %s: %w", path, err)
	}
	return frames, nil
}

// WriteTrace writes frames in the format ReadTrace accepts.
func WriteTrace(w io.Writer, frames []TraceFrame) error {
	enc := json.NewEncoder(w)
	for i, f := range frames {
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}
