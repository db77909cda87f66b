// Package preview keeps the on-screen lyric in step with a playing audio
// clock. The driver does not own time: it samples a Clock on every tick and
// restarts the line animation only when the active line changes or the user
// seeks.
package preview

import (
	"context"
	"sync"
	"time"

	"github.com/ivlev/lyric2video/internal/fade"
	"github.com/ivlev/lyric2video/internal/timeline"
)

// Clock reports the playback position in seconds.
type Clock interface {
	Position() float64
}

// Seeker is a Clock that can be moved.
type Seeker interface {
	Clock
	Seek(t float64)
}

// Animation describes the preview curve scheduled for one line. Delay is
// Start - now at scheduling time, so it is zero or negative when the line
// is entered mid-way and the curve starts already advanced.
type Animation struct {
	Index    int
	Delay    float64
	Duration float64
}

// State is the result of one tick.
type State struct {
	Time      float64
	Index     int // -1 when no line is active
	Active    bool
	Changed   bool // the animation was (re)started on this tick
	Envelope  fade.Envelope
	Animation Animation
}

// Event returns the active event, or nil.
func (s State) Event(events []timeline.Event) *timeline.Event {
	if !s.Active || s.Index < 0 || s.Index >= len(events) {
		return nil
	}
	return &events[s.Index]
}

type Driver struct {
	events []timeline.Event
	clock  Clock

	mu      sync.Mutex
	current int
	anim    Animation
	resync  bool
}

func NewDriver(events []timeline.Event, clock Clock) *Driver {
	return &Driver{events: events, clock: clock, current: -1}
}

// Events returns the timeline the driver follows.
func (d *Driver) Events() []timeline.Event {
	return d.events
}

// Tick samples the clock and resolves the active line.
func (d *Driver) Tick() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tickLocked()
}

// Seek moves a seekable clock and resyncs the animation phase at once,
// even if the same line stays active.
func (d *Driver) Seek(t float64) State {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.clock.(Seeker); ok {
		s.Seek(t)
	}
	d.resync = true
	return d.tickLocked()
}

func (d *Driver) tickLocked() State {
	now := d.clock.Position()
	idx, ok := timeline.ResolveActive(d.events, now)
	if !ok {
		idx = -1
	}

	st := State{Time: now, Index: idx, Active: ok}
	if idx != d.current || d.resync {
		st.Changed = true
		d.current = idx
		d.resync = false
		d.anim = Animation{Index: idx}
		if ok {
			e := d.events[idx]
			d.anim.Delay = e.Start - now
			d.anim.Duration = e.Duration()
		}
	}
	st.Animation = d.anim

	if ok {
		// now-Start is -Delay plus the time since the animation was scheduled.
		st.Envelope = fade.PreviewElapsed(d.anim.Duration, now-d.events[idx].Start)
	}
	return st
}

// Run ticks every interval until ctx is done. onTick may be nil.
func (d *Driver) Run(ctx context.Context, interval time.Duration, onTick func(State)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	st := d.Tick()
	if onTick != nil {
		onTick(st)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			st := d.Tick()
			if onTick != nil {
				onTick(st)
			}
		}
	}
}
