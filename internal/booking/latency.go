package booking

import (
	"context"
	"time"
)

// Latency is the simulated remote-call delay per operation.
type Latency struct {
	Search    time.Duration
	GetTrain  time.Duration
	AllTrains time.Duration
	Watchlist time.Duration
	Conflict  time.Duration
	Create    time.Duration
	Pay       time.Duration
	GetOrder  time.Duration
	History   time.Duration
	Cancel    time.Duration
}

func DefaultLatency() Latency {
	return Latency{
		Search:    500 * time.Millisecond,
		GetTrain:  200 * time.Millisecond,
		AllTrains: 300 * time.Millisecond,
		Watchlist: 200 * time.Millisecond,
		Conflict:  300 * time.Millisecond,
		Create:    500 * time.Millisecond,
		Pay:       2000 * time.Millisecond,
		GetOrder:  200 * time.Millisecond,
		History:   300 * time.Millisecond,
		Cancel:    500 * time.Millisecond,
	}
}

// Scale multiplies every delay by f. Zero or less disables latency.
func (l Latency) Scale(f float64) Latency {
	if f <= 0 {
		return Latency{}
	}
	s := func(d time.Duration) time.Duration { return time.Duration(float64(d) * f) }
	return Latency{
		Search:    s(l.Search),
		GetTrain:  s(l.GetTrain),
		AllTrains: s(l.AllTrains),
		Watchlist: s(l.Watchlist),
		Conflict:  s(l.Conflict),
		Create:    s(l.Create),
		Pay:       s(l.Pay),
		GetOrder:  s(l.GetOrder),
		History:   s(l.History),
		Cancel:    s(l.Cancel),
	}
}

// wait blocks for d or until ctx is done. It runs before any mutation, so a
// cancelled wait leaves state untouched.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
