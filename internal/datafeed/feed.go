// Package datafeed supplies merged, contract-checked price history. The
// simulation core never performs network access itself; everything arrives
// through the Feed interface.
package datafeed

import (
	"context"
	"errors"
	"fmt"

	"ReversionScout/internal/indicator"
	"ReversionScout/internal/model"
	"ReversionScout/internal/timeframe"
)

// Feed returns the full ordered daily history for a symbol, already merged
// with the contextual volatility column.
type Feed interface {
	GetBars(ctx context.Context, symbol string) ([]model.PriceBar, error)
	Name() string
}

// ErrDataContract marks out-of-order or duplicate-timestamp bars. This is a
// fatal input error for the symbol's run, never a recoverable one.
var ErrDataContract = errors.New("data contract violation")

// ValidateBars enforces strictly increasing timestamps with no duplicates.
func ValidateBars(bars []model.PriceBar) error {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return fmt.Errorf("%w: bar %d (%s) not after bar %d (%s)",
				ErrDataContract, i, bars[i].Time, i-1, bars[i-1].Time)
		}
	}
	return nil
}

// MergeContextVol annotates each bar with the annualized rolling volatility
// of the reference series, looked up as-of the bar's timestamp. Bars earlier
// than the reference history carry zero volatility.
func MergeContextVol(bars, reference []model.PriceBar, volWindow int) []model.PriceBar {
	refCloses := model.Closes(reference)
	out := make([]model.PriceBar, len(bars))
	for i, b := range bars {
		out[i] = b
		idx, ok := timeframe.AsOfIndex(reference, b.Time)
		if !ok {
			continue
		}
		vol, err := indicator.AnnualizedVol(refCloses[:idx+1], volWindow)
		if err != nil {
			continue
		}
		out[i].ContextVol = vol
	}
	return out
}
