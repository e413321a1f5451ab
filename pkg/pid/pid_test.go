package pid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUpdate(t *testing.T) {
	testCases := []struct {
		name   string
		gains  Gains
		limits Limits
		errs   []float64
		dt     time.Duration
		expect float64
	}{
		{
			name:   "proportional only",
			gains:  Gains{P: 10},
			errs:   []float64{3.0 - 5.0},
			dt:     10 * time.Millisecond,
			expect: -20,
		},
		{
			name:   "integral accumulates",
			gains:  Gains{I: 2},
			errs:   []float64{1, 1, 1},
			dt:     500 * time.Millisecond,
			expect: 3,
		},
		{
			name:   "derivative",
			gains:  Gains{D: 1},
			errs:   []float64{0, 2},
			dt:     time.Second,
			expect: 2,
		},
		{
			name:   "integral clamped",
			gains:  Gains{I: 1},
			limits: Limits{IMin: -0.5, IMax: 0.5},
			errs:   []float64{1, 1, 1},
			dt:     time.Second,
			expect: 0.5,
		},
		{
			name:   "output clamped",
			gains:  Gains{P: 100},
			limits: Limits{CmdMin: -5, CmdMax: 5},
			errs:   []float64{-1},
			dt:     time.Second,
			expect: -5,
		},
		{
			name:   "inactive limits",
			gains:  Gains{P: 100},
			limits: Limits{CmdMin: 5, CmdMax: 5},
			errs:   []float64{-1},
			dt:     time.Second,
			expect: -100,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(tc.gains, tc.limits)
			var out float64
			for _, e := range tc.errs {
				out = c.Update(e, tc.dt)
			}
			require.InDelta(t, tc.expect, out, 1e-9)
		})
	}
}

func TestZeroDtSuppressesDerivative(t *testing.T) {
	c := New(Gains{P: 1, I: 1, D: 100}, Limits{})
	c.Update(-4, time.Second)
	integral, _, _ := c.State()
	require.Equal(t, -4.0, integral)

	// P and I still apply, no derivative and no new integral.
	out := c.Update(3, 0)
	require.Equal(t, 3.0+(-4.0), out)
	integral, prevErr, _ := c.State()
	require.Equal(t, -4.0, integral)
	require.Equal(t, 3.0, prevErr)
}

func TestIntegralMonotonic(t *testing.T) {
	for _, sign := range []float64{1, -1} {
		c := New(Gains{I: 1}, Limits{})
		var last float64
		for i := 0; i < 20; i++ {
			c.Update(sign*0.7, 8*time.Millisecond)
			integral, _, _ := c.State()
			require.True(t, sign*integral > sign*last, "step %d: %v not beyond %v", i, integral, last)
			last = integral
		}
	}
}

func TestReset(t *testing.T) {
	c := New(Gains{P: 1, I: 1, D: 1}, Limits{})
	c.Update(2, time.Second)
	c.Reset()
	integral, prevErr, cmd := c.State()
	require.Zero(t, integral)
	require.Zero(t, prevErr)
	require.Zero(t, cmd)
}
