package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calciumcli/internal/errors"
)

func TestConcentrationAtCalibrationMaximum(t *testing.T) {
	_, err := Concentration(6.274)

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeDivisionByZero))
}

func TestConcentrationKnownValues(t *testing.T) {
	// At the calibration minimum the numerator vanishes.
	c, err := Concentration(0.132)
	require.NoError(t, err)
	assert.Equal(t, 0.0, c)

	// At the midpoint of the calibration range the ratio term is 1,
	// leaving just the calibration factor.
	mid := (0.132 + 6.274) / 2
	c, err = Concentration(mid)
	require.NoError(t, err)
	assert.InDelta(t, 146*(25813.79/1674.68), c, 1e-6)
}

// Concentration must be strictly increasing on the open calibration
// interval (0.132, 6.274).
func TestConcentrationMonotonicity(t *testing.T) {
	const steps = 2000
	lo, hi := 0.132, 6.274
	step := (hi - lo) / (steps + 1)

	prev := -1.0
	for i := 1; i <= steps; i++ {
		ratio := lo + float64(i)*step
		c, err := Concentration(ratio)
		require.NoError(t, err, "ratio %v", ratio)
		if i > 1 {
			assert.Greater(t, c, prev, "not increasing at ratio %v", ratio)
		}
		prev = c
	}
}
