package dataprocessing

import (
	"calciumcli/internal/errors"
)

// Calibration constants of the ratiometric dye fit for this rig. The
// conversion follows the standard Grynkiewicz form: concentration is
// proportional to (R - Rmin) / (Rmax - R).
const (
	calibrationKd    = 146.0
	calibrationScale = 25813.79 / 1674.68
	ratioMin         = 0.132
	ratioMax         = 6.274
)

// Concentration converts a fluorescence ratio measurement to a
// calcium concentration. It is pure and total except at the
// calibration maximum ratioMax, where the formula divides by zero;
// that value indicates malformed input data and is reported as an
// error rather than propagated as NaN or Inf.
func Concentration(ratio float64) (float64, error) {
	if ratio == ratioMax {
		return 0, errors.NewDivisionByZeroError(ratio)
	}
	return calibrationKd * calibrationScale * ((ratio - ratioMin) / (ratioMax - ratio)), nil
}
