package indicator

import "math"

// minADFObs is the smallest window on which the Dickey-Fuller regression is
// considered meaningful.
const minADFObs = 20

// dfTable maps Dickey-Fuller t-statistics to p-values for the
// constant-no-trend variant. Intermediate values are linearly interpolated.
var dfTable = []struct {
	t float64
	p float64
}{
	{-4.38, 0.001},
	{-3.95, 0.005},
	{-3.43, 0.010},
	{-3.12, 0.025},
	{-2.86, 0.050},
	{-2.57, 0.100},
	{-2.22, 0.200},
	{-1.94, 0.300},
	{-1.62, 0.400},
	{-1.28, 0.500},
	{-0.51, 0.680},
	{0.00, 0.780},
	{0.87, 0.910},
	{1.60, 0.970},
}

// ADFPValue runs a Dickey-Fuller stationarity test (constant, no trend, no
// augmentation lags) over the trailing window and returns the approximate
// p-value. p < 0.05 is read as "the series exhibits mean-reverting
// statistical behavior".
func ADFPValue(values []float64) (float64, error) {
	if len(values) < minADFObs {
		return 0, ErrInsufficientHistory
	}

	// Regress Δy_t on a constant and y_{t-1}.
	n := len(values) - 1
	var sumX, sumD float64
	for i := 1; i <= n; i++ {
		sumX += values[i-1]
		sumD += values[i] - values[i-1]
	}
	meanX := sumX / float64(n)
	meanD := sumD / float64(n)

	var sxx, sxd float64
	for i := 1; i <= n; i++ {
		dx := values[i-1] - meanX
		sxx += dx * dx
		sxd += dx * ((values[i] - values[i-1]) - meanD)
	}
	if sxx == 0 {
		// Constant series: no information about reversion.
		return 0.99, nil
	}
	beta := sxd / sxx
	alpha := meanD - beta*meanX

	var rss float64
	for i := 1; i <= n; i++ {
		resid := (values[i] - values[i-1]) - alpha - beta*values[i-1]
		rss += resid * resid
	}
	dof := float64(n - 2)
	if dof <= 0 {
		return 0, ErrInsufficientHistory
	}
	se := math.Sqrt(rss / dof / sxx)
	if se == 0 {
		if beta < 0 {
			return 0.001, nil
		}
		return 0.99, nil
	}
	tStat := beta / se

	return interpolatePValue(tStat), nil
}

func interpolatePValue(t float64) float64 {
	if t <= dfTable[0].t {
		return dfTable[0].p
	}
	last := dfTable[len(dfTable)-1]
	if t >= last.t {
		return 0.99
	}
	for i := 1; i < len(dfTable); i++ {
		if t <= dfTable[i].t {
			lo, hi := dfTable[i-1], dfTable[i]
			frac := (t - lo.t) / (hi.t - lo.t)
			return lo.p + frac*(hi.p-lo.p)
		}
	}
	return 0.99
}
