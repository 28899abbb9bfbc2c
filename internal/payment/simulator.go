package payment

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultFailureRate is the probability that an unforced payment fails.
const DefaultFailureRate = 0.20

const (
	FailureMessage = "Payment failed. Please try again or use a different payment method."
	SuccessMessage = "Payment successful! Your booking is confirmed."
)

// Decider draws whether a payment attempt fails.
type Decider interface {
	ShouldFail() bool
}

type DeciderFunc func() bool

func (f DeciderFunc) ShouldFail() bool { return f() }

var (
	AlwaysSucceed Decider = DeciderFunc(func() bool { return false })
	AlwaysFail    Decider = DeciderFunc(func() bool { return true })
)

type randomDecider struct {
	mu          sync.Mutex
	rng         *rand.Rand
	probability float64
}

// NewRandomDecider fails each attempt independently with the given
// probability. A nil source is seeded from the clock.
func NewRandomDecider(probability float64, src rand.Source) Decider {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	if probability < 0 {
		probability = 0
	}
	if probability > 1 {
		probability = 1
	}
	return &randomDecider{rng: rand.New(src), probability: probability}
}

func (d *randomDecider) ShouldFail() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Float64() < d.probability
}

// Simulator decides payment outcomes.
type Simulator struct {
	decider Decider
}

func NewSimulator(d Decider) *Simulator {
	if d == nil {
		d = NewRandomDecider(DefaultFailureRate, nil)
	}
	return &Simulator{decider: d}
}

// ShouldFail honors forceFail when given, otherwise asks the decider.
func (s *Simulator) ShouldFail(forceFail *bool) bool {
	if forceFail != nil {
		return *forceFail
	}
	return s.decider.ShouldFail()
}
