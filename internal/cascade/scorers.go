package cascade

import (
	"math"

	"ReversionScout/internal/config"
	"ReversionScout/internal/model"
)

// scoreLiquidity maps trailing average daily turnover linearly onto [0,1]
// between the configured floor (0) and ceiling (1).
func scoreLiquidity(window []model.PriceBar, cfg *config.Config) float64 {
	n := cfg.Cascade.LiquidityWindow
	if len(window) < n {
		n = len(window)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for i := len(window) - n; i < len(window); i++ {
		sum += window[i].Turnover()
	}
	avg := sum / float64(n)

	return clamp01((avg - cfg.Cascade.TurnoverFloor) / (cfg.Cascade.TurnoverCeiling - cfg.Cascade.TurnoverFloor))
}

// scoreRegime maps the window's current contextual volatility inversely onto
// [0,1]: calm regimes score near 1, volatility at or above the ceiling scores 0.
func scoreRegime(window []model.PriceBar, cfg *config.Config) float64 {
	vol := window[len(window)-1].ContextVol
	return clamp01(1 - vol/cfg.Cascade.RegimeVolCeiling)
}

// scoreStatistical combines the stationarity p-value score and the
// persistence-exponent score via geometric mean, so either axis failing badly
// drags the combined score toward zero.
func scoreStatistical(stats model.StatSnapshot, cfg *config.Config) float64 {
	pScore := clamp01(1 - stats.ADFPValue/cfg.Cascade.ADFPValueCutoff)
	hScore := clamp01((0.5 - stats.Hurst) / (0.5 - cfg.Cascade.HurstCutoff))
	return math.Sqrt(pScore * hScore)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
