package indicator

import (
	"errors"
	"math"

	"ReversionScout/internal/model"
)

// TrueRange returns the true range of one bar given the previous close:
// max of high-low, |high-prevClose|, |low-prevClose|.
func TrueRange(high, low, prevClose float64) float64 {
	tr := high - low
	if d := math.Abs(high - prevClose); d > tr {
		tr = d
	}
	if d := math.Abs(low - prevClose); d > tr {
		tr = d
	}
	return tr
}

// ATR computes the average true range at the last bar as the simple rolling
// mean of true range over the trailing length bars. Requires length+1 bars
// because each true range needs the previous close.
func ATR(bars []model.PriceBar, length int) (float64, error) {
	if length <= 0 {
		return 0, errors.New("length must be positive")
	}
	if len(bars) < length+1 {
		return 0, ErrInsufficientHistory
	}
	start := len(bars) - length
	var sum float64
	for i := start; i < len(bars); i++ {
		sum += TrueRange(bars[i].High, bars[i].Low, bars[i-1].Close)
	}
	return sum / float64(length), nil
}
