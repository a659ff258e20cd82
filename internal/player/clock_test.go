package player

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/whiscribe/whiscribe/internal/library"
	"github.com/whiscribe/whiscribe/internal/resolve"
)

type fakeTime struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeTime) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeTime) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestWallClock(t *testing.T) {
	ft := &fakeTime{now: time.Unix(1000, 0)}
	c := newWallClock(5, ft.Now)

	if got := c.Position(); !near(got, 5) {
		t.Errorf("start position = %v, want 5", got)
	}

	ft.Advance(1500 * time.Millisecond)
	if got := c.Position(); !near(got, 6.5) {
		t.Errorf("position = %v, want 6.5", got)
	}

	c.Pause()
	ft.Advance(10 * time.Second)
	if got := c.Position(); !near(got, 6.5) {
		t.Errorf("paused position = %v, want 6.5", got)
	}

	c.Resume()
	ft.Advance(time.Second)
	if got := c.Position(); !near(got, 7.5) {
		t.Errorf("resumed position = %v, want 7.5", got)
	}

	c.Seek(60)
	ft.Advance(2 * time.Second)
	if got := c.Position(); !near(got, 62) {
		t.Errorf("seek position = %v, want 62", got)
	}

	c.Seek(-3)
	if got := c.Position(); !near(got, 0) {
		t.Errorf("negative seek = %v, want 0", got)
	}
}

func TestNewWallClockClampsStart(t *testing.T) {
	ft := &fakeTime{now: time.Unix(0, 0)}
	if got := newWallClock(-2, ft.Now).Position(); got != 0 {
		t.Errorf("Position() = %v, want 0", got)
	}
}

type scriptedClock struct {
	mu        sync.Mutex
	positions []float64
	i         int
}

func (c *scriptedClock) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.positions[c.i]
	if c.i < len(c.positions)-1 {
		c.i++
	}
	return p
}

func TestFollowStopsWhenCallbackDeclines(t *testing.T) {
	clock := &scriptedClock{positions: []float64{0, 1, 2, 3}}
	var seen []float64

	err := Follow(context.Background(), clock, time.Millisecond, func(t float64) bool {
		seen = append(seen, t)
		return len(seen) < 3
	})
	if err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if len(seen) != 3 || seen[0] != 0 || seen[2] != 2 {
		t.Errorf("unexpected samples %v", seen)
	}
}

func TestFollowCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := &scriptedClock{positions: []float64{0}}

	calls := 0
	err := Follow(ctx, clock, time.Millisecond, func(float64) bool {
		calls++
		if calls == 2 {
			cancel()
		}
		return true
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWatchReportsChangesOnly(t *testing.T) {
	s := NewSession(nil, Options{})
	sel, err := s.Select(context.Background(), library.MediaFile{Name: "a.mp3"}, resolve.Collection{memFile("a.srt", trackOneSRT)})
	if err != nil {
		t.Fatal(err)
	}

	clock := &scriptedClock{positions: []float64{0, 0.5, 1.2, 1.5, 2.5, 3.1, 3.9, 5}}
	var got []Caption
	err = s.Watch(context.Background(), sel.Generation, clock, time.Millisecond, func(c Caption) bool {
		got = append(got, c)
		return c.Time < 5
	})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	want := []string{"", "hi", "", "there", ""}
	if len(got) != len(want) {
		t.Fatalf("got %d captions %+v, want %v", len(got), got, want)
	}
	for i := range want {
		if got[i].Text != want[i] {
			t.Errorf("caption %d = %q, want %q", i, got[i].Text, want[i])
		}
	}
}

func TestWatchStopsWhenSuperseded(t *testing.T) {
	s := NewSession(nil, Options{})
	first, err := s.Select(context.Background(), library.MediaFile{Name: "a.mp3"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Select(context.Background(), library.MediaFile{Name: "b.mp3"}, nil); err != nil {
		t.Fatal(err)
	}

	err = s.Watch(context.Background(), first.Generation, &scriptedClock{positions: []float64{0}}, time.Millisecond, func(Caption) bool {
		t.Error("superseded watch must not emit captions")
		return false
	})
	if !errors.Is(err, ErrSuperseded) {
		t.Errorf("expected ErrSuperseded, got %v", err)
	}
}

func TestWatchStopsWhenClosed(t *testing.T) {
	s := NewSession(nil, Options{})
	sel, err := s.Select(context.Background(), library.MediaFile{Name: "a.mp3"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	err = s.Watch(context.Background(), sel.Generation, &scriptedClock{positions: []float64{0}}, time.Millisecond, func(Caption) bool {
		return true
	})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
