package indicator

import "math"

// tradingDaysPerYear annualizes daily return volatility.
const tradingDaysPerYear = 252

// AnnualizedVol computes the annualized standard deviation of log returns
// over the trailing window returns, evaluated at the last observation.
func AnnualizedVol(closes []float64, window int) (float64, error) {
	if window <= 1 {
		window = 2
	}
	if len(closes) < window+1 {
		return 0, ErrInsufficientHistory
	}

	rets := make([]float64, window)
	start := len(closes) - window
	for i := 0; i < window; i++ {
		prev := closes[start+i-1]
		cur := closes[start+i]
		if prev <= 0 || cur <= 0 {
			return 0, ErrInsufficientHistory
		}
		rets[i] = math.Log(cur / prev)
	}

	var sum float64
	for _, r := range rets {
		sum += r
	}
	mean := sum / float64(window)
	var sq float64
	for _, r := range rets {
		d := r - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(window-1))
	return std * math.Sqrt(tradingDaysPerYear), nil
}
