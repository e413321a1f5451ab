package drive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSteering(t *testing.T) {
	testCases := []struct {
		arg    string
		expect float64
		err    bool
	}{
		{arg: "0", expect: 0},
		{arg: "90", expect: math.Pi / 2},
		{arg: "-45", expect: -math.Pi / 4},
		{arg: "abc", err: true},
		{arg: "NaN", err: true},
	}
	for _, tc := range testCases {
		t.Run(tc.arg, func(t *testing.T) {
			val, err := ParseSteering(tc.arg)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.InDelta(t, tc.expect, val, 1e-12)
		})
	}
}

func TestParseVelocity(t *testing.T) {
	val, err := ParseVelocity("-2.5")
	require.NoError(t, err)
	require.Equal(t, -2.5, val)
	_, err = ParseVelocity("")
	require.Error(t, err)
}
