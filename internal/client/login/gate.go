package login

import (
	"context"
	"time"
)

// Default auto-login timing: a splash is shown for at least the floor and
// the whole attempt is abandoned at the ceiling.
const (
	DefaultFloor   = 1500 * time.Millisecond
	DefaultCeiling = 5000 * time.Millisecond
)

// Gate computes auto-login timing relative to an attempt's start time.
type Gate struct {
	Floor   time.Duration
	Ceiling time.Duration

	now func() time.Time
}

func NewGate(floor, ceiling time.Duration) *Gate {
	return &Gate{Floor: floor, Ceiling: ceiling, now: time.Now}
}

func (g *Gate) Now() time.Time {
	if g.now == nil {
		return time.Now()
	}
	return g.now()
}

func (g *Gate) Elapsed(start time.Time) time.Duration {
	return g.Now().Sub(start)
}

// Delay is how long a successful result has to be held back so that it is
// not surfaced before the floor.
func (g *Gate) Delay(start time.Time) time.Duration {
	return max(0, g.Floor-g.Elapsed(start))
}

func (g *Gate) Deadline(start time.Time) time.Time {
	return start.Add(g.Ceiling)
}

// Exceeded reports whether the attempt, with pending work still ahead of
// it, ends at or after the ceiling.
func (g *Gate) Exceeded(start time.Time, pending time.Duration) bool {
	return g.Elapsed(start)+pending >= g.Ceiling
}

// Wait blocks for Delay(start). It returns the context cause if ctx is done
// first.
func (g *Gate) Wait(ctx context.Context, start time.Time) error {
	d := g.Delay(start)
	if d == 0 {
		return context.Cause(ctx)
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}
