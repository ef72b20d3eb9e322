package indicator

import "math"

// Hurst estimates the persistence exponent of the trailing window by
// regressing log dispersion of lagged differences against log lag.
// Values below 0.5 indicate anti-persistence (mean reversion), above 0.5
// trending persistence. Computed only on trailing data, never centered.
func Hurst(values []float64, maxLag int) (float64, error) {
	if maxLag < 2 {
		maxLag = 2
	}
	if len(values) < 2*maxLag {
		return 0, ErrInsufficientHistory
	}

	logLags := make([]float64, 0, maxLag-1)
	logTaus := make([]float64, 0, maxLag-1)
	for lag := 2; lag <= maxLag; lag++ {
		tau := lagDispersion(values, lag)
		if tau <= 0 {
			continue
		}
		logLags = append(logLags, math.Log(float64(lag)))
		logTaus = append(logTaus, math.Log(tau))
	}
	if len(logLags) < 2 {
		// Dispersion degenerate at every lag (flat series).
		return 0, ErrInsufficientHistory
	}

	slope := olsSlope(logLags, logTaus)
	return slope, nil
}

// lagDispersion returns the standard deviation of values[t]-values[t-lag]
// over the window.
func lagDispersion(values []float64, lag int) float64 {
	n := len(values) - lag
	if n <= 1 {
		return 0
	}
	var sum float64
	diffs := make([]float64, n)
	for i := 0; i < n; i++ {
		diffs[i] = values[i+lag] - values[i]
		sum += diffs[i]
	}
	mean := sum / float64(n)
	var sq float64
	for _, d := range diffs {
		dd := d - mean
		sq += dd * dd
	}
	return math.Sqrt(sq / float64(n))
}

func olsSlope(xs, ys []float64) float64 {
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n
	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (ys[i] - meanY)
	}
	if sxx == 0 {
		return 0
	}
	return sxy / sxx
}
