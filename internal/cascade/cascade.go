// Package cascade scores a candidate signal along three independent axes.
// All scorers run unconditionally so a rejected signal still yields a full
// diagnostic record; admission is a policy decision made downstream.
package cascade

import (
	"ReversionScout/internal/config"
	"ReversionScout/internal/model"
)

// Score runs the liquidity, regime, and statistical scorers over the decision
// window and the signal's statistical snapshot. Composite is their product.
func Score(window []model.PriceBar, sig *model.Signal, cfg *config.Config) model.ValidationScores {
	liq := scoreLiquidity(window, cfg)
	reg := scoreRegime(window, cfg)
	stat := scoreStatistical(sig.Stats, cfg)

	return model.ValidationScores{
		Liquidity:   liq,
		Regime:      reg,
		Statistical: stat,
		Composite:   liq * reg * stat,
	}
}
