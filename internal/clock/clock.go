// Package clock abstracts wall-clock time for bounded wait loops.
// Production code injects Real(); tests inject a FakeClock so polling
// logic runs deterministically without real delays.
package clock

import (
	"context"
	"time"
)

// Clock is the time surface the compilation poll loop depends on.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Since returns the time elapsed since t.
	Since(t time.Time) time.Duration

	// Sleep pauses for at least duration d, or until ctx is done.
	// Returns ctx.Err() when the context ends the sleep early.
	Sleep(ctx context.Context, d time.Duration) error
}

// Real returns a Clock backed by the standard time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Since(t time.Time) time.Duration { return time.Since(t) }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
