package timeline

import (
	"fmt"
	"math"
)

// Event is one lyric line with its active window in seconds.
type Event struct {
	Text  string  `yaml:"text" json:"text"`
	Start float64 `yaml:"start" json:"startTime"`
	End   float64 `yaml:"end" json:"endTime"`
}

// Duration returns End - Start.
func (e Event) Duration() float64 {
	return e.End - e.Start
}

// Contains reports whether t falls inside the event window (both ends inclusive).
func (e Event) Contains(t float64) bool {
	return e.Start <= t && t <= e.End
}

// ResolveActive finds the active event for playback time t.
// The scan runs from the last event backward and stops at the first event
// that has already started; if that event has ended, t is in a gap.
func ResolveActive(events []Event, t float64) (int, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Start <= t {
			if events[i].End < t {
				return -1, false
			}
			return i, true
		}
	}
	return -1, false
}

// ResolveFrame is the stateless per-frame lookup used by export:
// the first event (in order) whose window contains t. An instant shared by
// one event's end and the next event's start belongs to the later event,
// the same tie-break ResolveActive makes.
func ResolveFrame(events []Event, t float64) (int, bool) {
	for i := range events {
		if !events[i].Contains(t) {
			continue
		}
		if t == events[i].End && i+1 < len(events) && events[i+1].Start == t {
			return i + 1, true
		}
		return i, true
	}
	return -1, false
}

// TotalFrames returns floor(duration*fps).
func TotalFrames(duration float64, fps int) int {
	if duration <= 0 || fps <= 0 {
		return 0
	}
	n := duration * float64(fps)
	// 10.03*30 comes out as 300.90000000000003; the epsilon only matters
	// for values like 2.9999999999 that should be 3.
	return int(math.Floor(n + 1e-9))
}

// FrameTime returns the sample time of frame i.
func FrameTime(i, fps int) float64 {
	return float64(i) / float64(fps)
}

// Validate reports events that break the sorted, non-overlapping
// assumption. It never reorders anything; callers decide whether to warn.
func Validate(events []Event) error {
	for i, e := range events {
		if e.Start < 0 {
			return fmt.Errorf("событие %d: отрицательное время начала %.3f", i+1, e.Start)
		}
		if e.End <= e.Start {
			return fmt.Errorf("событие %d: конец %.3f не позже начала %.3f", i+1, e.End, e.Start)
		}
		if i > 0 {
			prev := events[i-1]
			if e.Start < prev.Start {
				return fmt.Errorf("событие %d начинается раньше предыдущего (%.3f < %.3f)", i+1, e.Start, prev.Start)
			}
			if e.Start < prev.End {
				return fmt.Errorf("событие %d перекрывает предыдущее (%.3f < %.3f)", i+1, e.Start, prev.End)
			}
		}
	}
	return nil
}
