// Package detector evaluates a point-in-time window of bars for a
// mean-reversion entry. It only ever sees trailing data: the caller passes
// the complete history available at decision time and nothing after it.
package detector

import (
	"ReversionScout/internal/config"
	"ReversionScout/internal/indicator"
	"ReversionScout/internal/model"
	"ReversionScout/internal/timeframe"
)

// Detect returns at most one candidate signal for the last bar of the window,
// or nil when no signal fires. A missing value on any of the three timeframes
// (insufficient trailing history) yields nil — defaults are never substituted.
func Detect(window []model.PriceBar, cfg *config.Config) *model.Signal {
	if len(window) < cfg.Detector.MinWindow {
		return nil
	}
	last := window[len(window)-1]
	closes := model.Closes(window)

	_, dMiddle, dLower, err := indicator.Bands(closes, cfg.Detector.Daily.Length, cfg.Detector.Daily.Mult)
	if err != nil {
		return nil
	}
	rsi, err := indicator.RSI(closes, cfg.Detector.RSILength)
	if err != nil {
		return nil
	}

	// Weekly and monthly aggregates are labeled at period start and retrieved
	// by as-of lookup, so the current partial period is visible at the
	// decision timestamp instead of the lookup falling back one full period.
	wClose, wLower, ok := aggregateLowerBand(window, timeframe.Weekly, cfg.Detector.Weekly, last)
	if !ok {
		return nil
	}
	mClose, mLower, ok := aggregateLowerBand(window, timeframe.Monthly, cfg.Detector.Monthly, last)
	if !ok {
		return nil
	}

	if last.Close >= dLower || rsi >= cfg.Detector.RSIOversold || wClose >= wLower {
		return nil
	}
	// Monthly oversold is a regime contradiction, not confirmation.
	if mClose < mLower {
		return nil
	}

	// The statistical thesis concerns the series before the dislocation; the
	// shock bar itself is a single outlier that would swamp both regressions,
	// so the snapshot window ends at the prior bar.
	prior := closes[:len(closes)-1]
	pValue, err := indicator.ADFPValue(tail(prior, cfg.Detector.ADFWindow))
	if err != nil {
		return nil
	}
	hurst, err := indicator.Hurst(tail(prior, cfg.Detector.HurstWindow), cfg.Detector.HurstMaxLag)
	if err != nil {
		return nil
	}

	return &model.Signal{
		Time:       last.Time,
		EntryPrice: last.Close * (1 + cfg.Detector.SlippageMarkup),
		StopPrice:  dMiddle,
		Timeframes: []string{"daily", "weekly"},
		Stats: model.StatSnapshot{
			ADFPValue:  pValue,
			Hurst:      hurst,
			ContextVol: last.ContextVol,
		},
	}
}

// aggregateLowerBand resamples the window to the given period and returns the
// as-of close and lower band at the decision bar's timestamp.
func aggregateLowerBand(window []model.PriceBar, p timeframe.Period, spec config.BandSpec, last model.PriceBar) (close, lower float64, ok bool) {
	agg := timeframe.Resample(window, p)
	idx, found := timeframe.AsOfIndex(agg, last.Time)
	if !found {
		return 0, 0, false
	}
	closes := model.Closes(agg[:idx+1])
	_, _, lb, err := indicator.Bands(closes, spec.Length, spec.Mult)
	if err != nil {
		return 0, 0, false
	}
	return agg[idx].Close, lb, true
}

func tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
