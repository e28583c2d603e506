// Package clock supplies the current instant to services so that "today"
// is never read from the wall clock inside domain code.
package clock

import (
	"sync"
	"time"

	"cloud.google.com/go/civil"
)

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// System is a Clock backed by time.Now in a fixed location.
type System struct {
	loc *time.Location
}

// NewSystem returns a system clock reporting times in loc. A nil loc means time.Local.
func NewSystem(loc *time.Location) *System {
	if loc == nil {
		loc = time.Local
	}
	return &System{loc: loc}
}

// Now implements Clock.
func (s *System) Now() time.Time {
	return time.Now().In(s.loc)
}

// Fixed is a settable Clock for tests.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixed returns a clock stuck at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t}
}

// Now implements Clock.
func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// Today returns the calendar date of c.Now() in the clock's location.
func Today(c Clock) civil.Date {
	return civil.DateOf(c.Now())
}
