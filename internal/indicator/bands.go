package indicator

import (
	"errors"
	"math"
)

// ErrInsufficientHistory is returned by every indicator when the trailing
// window holds fewer observations than the calculation requires. Callers in
// the detection path treat it as "no signal", never as a user-facing failure.
var ErrInsufficientHistory = errors.New("insufficient trailing history")

// Bands computes Bollinger-style bands at the last index of values, using a
// rolling mean and standard deviation over the trailing length observations.
func Bands(values []float64, length int, mult float64) (upper, middle, lower float64, err error) {
	if length <= 1 {
		return 0, 0, 0, errors.New("band length must be greater than 1")
	}
	if len(values) < length {
		return 0, 0, 0, ErrInsufficientHistory
	}
	window := values[len(values)-length:]
	var sum float64
	for _, v := range window {
		sum += v
	}
	mean := sum / float64(length)

	var sq float64
	for _, v := range window {
		d := v - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(length))

	return mean + mult*std, mean, mean - mult*std, nil
}

// Mean returns the simple average of the trailing length observations.
func Mean(values []float64, length int) (float64, error) {
	if length <= 0 {
		return 0, errors.New("length must be positive")
	}
	if len(values) < length {
		return 0, ErrInsufficientHistory
	}
	sum := 0.0
	for i := len(values) - length; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(length), nil
}
