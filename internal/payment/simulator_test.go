package payment

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestSimulator_ForceOverridesDecider(t *testing.T) {
	s := NewSimulator(AlwaysFail)
	assert.False(t, s.ShouldFail(boolPtr(false)))
	assert.True(t, s.ShouldFail(boolPtr(true)))
	assert.True(t, s.ShouldFail(nil))

	s = NewSimulator(AlwaysSucceed)
	assert.False(t, s.ShouldFail(nil))
}

func TestSimulator_UsesInjectedDecider(t *testing.T) {
	calls := 0
	s := NewSimulator(DeciderFunc(func() bool {
		calls++
		return calls%2 == 0
	}))

	assert.False(t, s.ShouldFail(nil))
	assert.True(t, s.ShouldFail(nil))
	assert.False(t, s.ShouldFail(boolPtr(false)))
	assert.Equal(t, 2, calls)
}

func TestRandomDecider_Rate(t *testing.T) {
	d := NewRandomDecider(DefaultFailureRate, rand.NewSource(7))

	failures := 0
	const n = 20000
	for i := 0; i < n; i++ {
		if d.ShouldFail() {
			failures++
		}
	}
	assert.InDelta(t, DefaultFailureRate, float64(failures)/n, 0.02)
}

func TestRandomDecider_Bounds(t *testing.T) {
	never := NewRandomDecider(-1, rand.NewSource(1))
	always := NewRandomDecider(2, rand.NewSource(1))
	for i := 0; i < 100; i++ {
		assert.False(t, never.ShouldFail())
		assert.True(t, always.ShouldFail())
	}
}
