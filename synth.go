package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/hand-particles/internal/source"
)

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Write a synthetic hand trace",
	Long:  `Writes a demo landmark trace of one hand orbiting the view while opening and closing, followed by two hands stretching apart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		duration, _ := cmd.Flags().GetDuration("duration")
		fps, _ := cmd.Flags().GetInt("fps")
		frames, err := orbitTrace(duration, fps)
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if out != "" && out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if err := source.WriteTrace(w, frames); err != nil {
			return fmt.Errorf("write trace: %w", err)
		}

		logger.Info("trace written", "out", out, "frames", len(frames), "duration", duration)
		return nil
	},
}

// orbitTrace builds the demo trace, refusing settings that would produce no
// frames since such a file could not be loaded back.
func orbitTrace(duration time.Duration, fps int) ([]source.TraceFrame, error) {
	if duration <= 0 || fps <= 0 {
		return nil, fmt.Errorf("duration and fps must be positive, got %v and %d", duration, fps)
	}
	frames := source.Orbit(duration, fps)
	if len(frames) == 0 {
		return nil, fmt.Errorf("duration %v is shorter than one frame at %d fps", duration, fps)
	}
	return frames, nil
}

func init() {
	rootCmd.AddCommand(synthCmd)
	synthCmd.Flags().StringP("out", "o", "-", "Output file (- for stdout)")
	synthCmd.Flags().Duration("duration", 30*time.Second, "Length of the trace")
	synthCmd.Flags().Int("fps", 30, "Frames per second")
}
