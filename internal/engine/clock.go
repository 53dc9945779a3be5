package engine

import (
	"sync"
	"time"
)

// Clock paces the frame loop. C delivers one value per frame.
type Clock interface {
	C() <-chan time.Time
	Stop()
}

type TickerClock struct {
	t *time.Ticker
}

// NewTickerClock ticks fps times per second; fps <= 0 falls back to 60.
func NewTickerClock(fps int) *TickerClock {
	if fps <= 0 {
		fps = 60
	}
	return &TickerClock{t: time.NewTicker(time.Second / time.Duration(fps))}
}

func (c *TickerClock) C() <-chan time.Time { return c.t.C }
func (c *TickerClock) Stop()               { c.t.Stop() }

// ManualClock delivers ticks only when Tick is called.
type ManualClock struct {
	c chan time.Time

	mu    sync.Mutex
	stops int
}

func NewManualClock() *ManualClock {
	return &ManualClock{c: make(chan time.Time)}
}

func (m *ManualClock) C() <-chan time.Time { return m.c }

func (m *ManualClock) Stop() {
	m.mu.Lock()
	m.stops++
	m.mu.Unlock()
}

// Stops reports how many times Stop has been called.
func (m *ManualClock) Stops() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}

// Tick hands one tick to a waiting loop and reports whether it was taken
// before timeout.
func (m *ManualClock) Tick(timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case m.c <- time.Now():
		return true
	case <-t.C:
		return false
	}
}
