package simulator

import (
	"sort"

	"ReversionScout/internal/config"
	"ReversionScout/internal/model"
)

// CostModel carries every transaction-cost parameter. Nothing in the
// simulator is hard-coded; the model comes from configuration.
type CostModel struct {
	Notional      float64
	BrokerageFlat float64
	BrokeragePct  float64
	TaxRate       float64
	SlippageTiers []config.SlippageTier
}

// CostModelFromConfig copies the configured cost parameters, sorting slippage
// tiers highest minimum volume first so lookup picks the best earned tier.
func CostModelFromConfig(cfg *config.Config) CostModel {
	tiers := make([]config.SlippageTier, len(cfg.Costs.SlippageTiers))
	copy(tiers, cfg.Costs.SlippageTiers)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinVolume > tiers[j].MinVolume })

	return CostModel{
		Notional:      cfg.Costs.Notional,
		BrokerageFlat: cfg.Costs.BrokerageFlat,
		BrokeragePct:  cfg.Costs.BrokeragePct,
		TaxRate:       cfg.Costs.TaxRate,
		SlippageTiers: tiers,
	}
}

// Breakdown itemizes round-trip costs as fractions of entry notional.
// Brokerage is the greater of the flat fee and the percentage of notional,
// applied on both entry and exit; the transaction tax applies to notional on
// both sides; slippage is the tier rate for the entry-bar volume applied to
// round-trip notional.
func (c CostModel) Breakdown(entryPrice, exitPrice, entryVolume float64) model.CostBreakdown {
	qty := c.Notional / entryPrice
	entryNotional := c.Notional
	exitNotional := qty * exitPrice
	roundTrip := entryNotional + exitNotional

	brokerage := maxOf(c.BrokerageFlat, c.BrokeragePct*entryNotional) +
		maxOf(c.BrokerageFlat, c.BrokeragePct*exitNotional)
	tax := c.TaxRate * roundTrip
	slippage := c.slippageRate(entryVolume) * roundTrip

	return model.CostBreakdown{
		Brokerage: brokerage / entryNotional,
		Tax:       tax / entryNotional,
		Slippage:  slippage / entryNotional,
	}
}

func (c CostModel) slippageRate(volume float64) float64 {
	for _, tier := range c.SlippageTiers {
		if volume >= tier.MinVolume {
			return tier.Rate
		}
	}
	if len(c.SlippageTiers) > 0 {
		return c.SlippageTiers[len(c.SlippageTiers)-1].Rate
	}
	return 0
}

func maxOf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
