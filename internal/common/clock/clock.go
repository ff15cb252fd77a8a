package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

type RealClock struct{}

func NewRealClock() Clock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}

func (c *RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// MockClock is safe for concurrent use. Step, when set, advances the clock
// after every Now call so consecutive reads are strictly increasing.
type MockClock struct {
	mu   sync.Mutex
	time time.Time
	step time.Duration
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{time: t}
}

func NewSteppingClock(t time.Time, step time.Duration) *MockClock {
	return &MockClock{time: t, step: step}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.time
	c.time = c.time.Add(c.step)
	return now
}

func (c *MockClock) Since(t time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.time.Sub(t)
}

func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.time = c.time.Add(d)
	c.mu.Unlock()
}
