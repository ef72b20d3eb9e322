package model

import "time"

// StatSnapshot captures the raw statistical readings that justified a signal.
// Captured at signal time and never recomputed, so any later audit sees
// exactly what the detector saw.
type StatSnapshot struct {
	ADFPValue  float64
	Hurst      float64
	ContextVol float64
}

// Signal is a candidate mean-reversion entry produced by the detector.
type Signal struct {
	Time       time.Time
	EntryPrice float64
	StopPrice  float64
	Timeframes []string
	Stats      StatSnapshot
}

// ValidationScores holds the three independent cascade scores, each in [0,1],
// and their product. Created once per signal; immutable.
type ValidationScores struct {
	Liquidity   float64
	Regime      float64
	Statistical float64
	Composite   float64
}
