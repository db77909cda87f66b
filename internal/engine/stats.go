package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Stats is the performance report of one export run.
type Stats struct {
	RunID   string
	Build   string
	Title   string
	Project string
	Output  string
	Events  int
	Frames  int
	Render  time.Duration
	Mux     time.Duration
	Total   time.Duration
}

// FPS is frames rendered per second of wall time.
func (s Stats) FPS() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Total.Seconds()
}

func (s Stats) Report() string {
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Run: %s\n"+
			"Build: %s\n"+
			"Output: %s\n"+
			"Frames: %d (%d lines)\n"+
			"Total Time: %.2fs\n"+
			"Rendering (CPU): %.2fs\n"+
			"Muxing (FFmpeg): %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		s.RunID, s.Build, s.Output, s.Frames, s.Events, s.Total.Seconds(), s.Render.Seconds(), s.Mux.Seconds(), s.FPS(),
	)
}

// AppendTo adds a one-line summary to a benchmark log.
func (s Stats) AppendTo(path string) error {
	project := "-"
	if s.Project != "" {
		project = filepath.Base(s.Project)
	}
	line := fmt.Sprintf("[%s] Run: %s | Build: %s | Song: %s | Project: %s | Output: %s | Frames: %d | Total: %.2fs | Render: %.2fs | Mux: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		s.RunID,
		s.Build,
		s.Title,
		project,
		s.Output,
		s.Frames,
		s.Total.Seconds(),
		s.Render.Seconds(),
		s.Mux.Seconds(),
		s.FPS(),
	)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
