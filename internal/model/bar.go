package model

import "time"

// PriceBar represents a single candlestick bar, already merged with the
// contextual volatility column (annualized rolling volatility of the
// configured reference series). Immutable once produced.
type PriceBar struct {
	Time       time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     float64
	ContextVol float64
}

// Turnover returns the bar's traded notional (close × volume).
func (b PriceBar) Turnover() float64 {
	return b.Close * b.Volume
}

// Closes extracts the close column from an ordered bar slice.
func Closes(bars []PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
