package player

import (
	"context"
	"sync"
	"time"
)

// DefaultTickInterval matches the slowest time-update rate of a media element.
const DefaultTickInterval = 250 * time.Millisecond

// Clock reports the playback position in seconds.
type Clock interface {
	Position() float64
}

// WallClock advances with real time from a start offset.
type WallClock struct {
	mu     sync.Mutex
	now    func() time.Time
	anchor time.Time
	offset float64
	paused bool
}

func NewWallClock(start float64) *WallClock {
	return newWallClock(start, time.Now)
}

func newWallClock(start float64, now func() time.Time) *WallClock {
	if start < 0 {
		start = 0
	}
	return &WallClock{now: now, anchor: now(), offset: start}
}

func (c *WallClock) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position()
}

func (c *WallClock) position() float64 {
	if c.paused {
		return c.offset
	}
	return c.offset + c.now().Sub(c.anchor).Seconds()
}

func (c *WallClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return
	}
	c.offset = c.position()
	c.paused = true
}

func (c *WallClock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		return
	}
	c.anchor = c.now()
	c.paused = false
}

func (c *WallClock) Seek(pos float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pos < 0 {
		pos = 0
	}
	c.offset = pos
	c.anchor = c.now()
}

// Follow samples clock every interval, starting immediately, until fn
// returns false or ctx is done.
func Follow(ctx context.Context, clock Clock, interval time.Duration, fn func(t float64) bool) error {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if !fn(clock.Position()) {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !fn(clock.Position()) {
				return nil
			}
		}
	}
}

// Caption is one change of the displayed caption text.
type Caption struct {
	Time float64
	Text string
}

// Watch follows clock for the selection of generation gen and calls fn each
// time the displayed caption changes, including the first tick. It returns
// ErrSuperseded once gen is replaced and ErrClosed after Close.
func (s *Session) Watch(ctx context.Context, gen uint64, clock Clock, interval time.Duration, fn func(Caption) bool) error {
	var (
		last    string
		started bool
		stopErr error
	)

	err := Follow(ctx, clock, interval, func(t float64) bool {
		text, ok := s.Tick(gen, t)
		if !ok {
			stopErr = s.stopReason()
			return false
		}
		if started && text == last {
			return true
		}
		started = true
		last = text
		return fn(Caption{Time: t, Text: text})
	})
	if err != nil {
		return err
	}
	return stopErr
}

func (s *Session) stopReason() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return ErrSuperseded
}
