package preview

import (
	"sync"
	"time"
)

// WallClock is a playback clock driven by real time. It stands in for an
// audio element when there is nothing to play.
type WallClock struct {
	mu      sync.Mutex
	base    float64
	started time.Time
	running bool
	now     func() time.Time
}

// NewWallClock returns a paused clock at offset seconds.
func NewWallClock(offset float64) *WallClock {
	return &WallClock{base: offset, now: time.Now}
}

func (c *WallClock) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.positionLocked()
}

func (c *WallClock) positionLocked() float64 {
	if !c.running {
		return c.base
	}
	return c.base + c.now().Sub(c.started).Seconds()
}

func (c *WallClock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.started = c.now()
	c.running = true
}

func (c *WallClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = c.positionLocked()
	c.running = false
}

func (c *WallClock) Seek(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t < 0 {
		t = 0
	}
	c.base = t
	c.started = c.now()
}

func (c *WallClock) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
