package preview

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/ivlev/lyric2video/internal/fade"
	"github.com/ivlev/lyric2video/internal/timeline"
)

type manualClock struct {
	t float64
}

func (c *manualClock) Position() float64 { return c.t }
func (c *manualClock) Seek(t float64)    { c.t = t }

var song = []timeline.Event{
	{Text: "one", Start: 1, End: 3},
	{Text: "two", Start: 3.5, End: 6},
	{Text: "three", Start: 8, End: 9},
}

func TestTickResolvesAndRestartsOnChange(t *testing.T) {
	clock := &manualClock{}
	d := NewDriver(song, clock)

	st := d.Tick()
	if st.Active || st.Index != -1 {
		t.Fatalf("expected no line at 0, got %+v", st)
	}

	clock.t = 1.0
	st = d.Tick()
	if !st.Active || st.Index != 0 || !st.Changed {
		t.Fatalf("expected line 0 to start, got %+v", st)
	}
	if st.Animation.Delay != 0 || st.Animation.Duration != 2 {
		t.Errorf("unexpected animation %+v", st.Animation)
	}

	clock.t = 2.0
	st = d.Tick()
	if st.Changed {
		t.Error("animation restarted without an index change")
	}
	if st.Envelope != fade.Preview(1, 3, 2.0) {
		t.Errorf("envelope %+v, want preview curve value", st.Envelope)
	}

	clock.t = 3.2
	st = d.Tick()
	if st.Active || !st.Changed {
		t.Errorf("gap should deactivate the line: %+v", st)
	}
}

func TestTickMidEventNegativeDelay(t *testing.T) {
	clock := &manualClock{t: 4.5}
	d := NewDriver(song, clock)

	st := d.Tick()
	if st.Index != 1 {
		t.Fatalf("expected line 1, got %d", st.Index)
	}
	if math.Abs(st.Animation.Delay-(-1.0)) > 1e-9 {
		t.Errorf("Delay = %v, want -1", st.Animation.Delay)
	}
	if st.Envelope.Opacity != 1 {
		t.Errorf("40%% into the line should be fully visible, got %v", st.Envelope.Opacity)
	}
}

func TestSeekResyncsSameLine(t *testing.T) {
	clock := &manualClock{t: 1.1}
	d := NewDriver(song, clock)
	d.Tick()

	st := d.Seek(2.5)
	if !st.Changed || st.Index != 0 {
		t.Fatalf("seek should restart the animation: %+v", st)
	}
	if clock.t != 2.5 {
		t.Errorf("clock not moved, at %v", clock.t)
	}
	if math.Abs(st.Animation.Delay-(-1.5)) > 1e-9 {
		t.Errorf("Delay = %v, want -1.5", st.Animation.Delay)
	}

	st = d.Tick()
	if st.Changed {
		t.Error("resync must happen only once")
	}
}

func TestMonotonicPlayback(t *testing.T) {
	clock := &manualClock{}
	d := NewDriver(song, clock)

	last := -1
	starts := 0
	for i := 0; i <= 1000; i++ {
		clock.t = float64(i) / 100
		st := d.Tick()
		if st.Active {
			if st.Index < last {
				t.Fatalf("index went back from %d to %d at %v", last, st.Index, clock.t)
			}
			last = st.Index
		}
		if st.Changed && st.Active {
			starts++
		}
	}
	if starts != len(song) {
		t.Errorf("expected %d animation starts, got %d", len(song), starts)
	}
}

func TestStateEvent(t *testing.T) {
	st := State{Index: 2, Active: true}
	if e := st.Event(song); e == nil || e.Text != "three" {
		t.Errorf("Event() = %v", e)
	}
	if e := (State{Index: -1}).Event(song); e != nil {
		t.Errorf("inactive state returned %v", e)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	clock := &manualClock{t: 1.5}
	d := NewDriver(song, clock)

	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	err := d.Run(ctx, time.Millisecond, func(st State) {
		ticks++
		if ticks == 3 {
			cancel()
		}
	})
	if err != context.Canceled {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
	if ticks < 3 {
		t.Errorf("expected at least 3 ticks, got %d", ticks)
	}
}

func TestWallClock(t *testing.T) {
	now := time.Unix(100, 0)
	c := NewWallClock(2)
	c.now = func() time.Time { return now }

	if c.Position() != 2 || c.Playing() {
		t.Fatal("new clock should be paused at its offset")
	}

	c.Play()
	now = now.Add(1500 * time.Millisecond)
	if got := c.Position(); math.Abs(got-3.5) > 1e-9 {
		t.Errorf("Position = %v, want 3.5", got)
	}

	c.Pause()
	now = now.Add(time.Second)
	if got := c.Position(); math.Abs(got-3.5) > 1e-9 {
		t.Errorf("paused clock moved to %v", got)
	}

	c.Play()
	c.Seek(10)
	now = now.Add(500 * time.Millisecond)
	if got := c.Position(); math.Abs(got-10.5) > 1e-9 {
		t.Errorf("after seek Position = %v, want 10.5", got)
	}

	c.Seek(-4)
	if got := c.Position(); got != 0 {
		t.Errorf("negative seek should clamp to 0, got %v", got)
	}
}
