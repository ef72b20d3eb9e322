// Package simulator determines the outcome of one entry decision. It receives
// an explicitly bounded forward slice and nothing else — it has no access to
// the full history, which is the architectural guarantee against lookahead.
package simulator

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"ReversionScout/internal/indicator"
	"ReversionScout/internal/model"
)

// ErrIncompleteSimulation is returned when the forward slice is exhausted
// before any exit condition fires. The simulator never guesses an exit.
var ErrIncompleteSimulation = errors.New("forward bars exhausted before an exit condition fired")

// Entry is everything the simulator may know about the decision being
// replayed. Volume is the traded volume at entry and keys the slippage tier.
type Entry struct {
	Symbol       string
	Time         time.Time
	Price        float64
	ProposedStop float64
	Volume       float64
	Scores       model.ValidationScores
	Confidence   float64
	Audited      bool
}

// ExitRules parameterizes the exit state machine.
type ExitRules struct {
	ATRLength      int
	StopMultiple   float64
	TargetFraction float64
	MaxHoldingBars int
}

// Simulate replays forward bars against the exit state machine and returns
// the completed trade. Per bar, first match wins in priority order: trailing
// stop breached (inclusive), profit target reached, holding period elapsed.
func Simulate(entry Entry, forward []model.PriceBar, costs CostModel, exits ExitRules) (*model.Trade, error) {
	if costs.Notional <= 0 || entry.Price <= 0 {
		return nil, errors.New("entry price and notional must be positive")
	}

	target := entry.Price * (1 + exits.TargetFraction)

	// The trailing stop ratchets up from an ATR multiple below the running
	// extreme favorable price. The signal's proposed stop seeds it only when
	// protective, i.e. below the entry price.
	trailStop := math.Inf(-1)
	if entry.ProposedStop > 0 && entry.ProposedStop < entry.Price {
		trailStop = entry.ProposedStop
	}
	extreme := entry.Price
	prevClose := entry.Price
	trueRanges := make([]float64, 0, exits.ATRLength)

	for k, bar := range forward {
		// Exit checks use the stop derived from prior bars only; the current
		// bar's range updates the state afterwards.
		switch {
		case bar.Low <= trailStop:
			return buildTrade(entry, bar.Time, trailStop, model.ExitStopLoss, k+1, costs), nil
		case bar.High >= target:
			return buildTrade(entry, bar.Time, target, model.ExitProfitTarget, k+1, costs), nil
		case k+1 >= exits.MaxHoldingBars:
			return buildTrade(entry, bar.Time, bar.Close, model.ExitTimeout, k+1, costs), nil
		}

		trueRanges = append(trueRanges, indicator.TrueRange(bar.High, bar.Low, prevClose))
		if len(trueRanges) > exits.ATRLength {
			trueRanges = trueRanges[1:]
		}
		if bar.High > extreme {
			extreme = bar.High
		}
		atr := meanOf(trueRanges)
		if cand := extreme - exits.StopMultiple*atr; cand > trailStop {
			trailStop = cand
		}
		prevClose = bar.Close
	}

	return nil, ErrIncompleteSimulation
}

func buildTrade(entry Entry, exitTime time.Time, exitPrice float64, reason model.ExitReason, barsHeld int, costs CostModel) *model.Trade {
	gross := (exitPrice - entry.Price) / entry.Price
	breakdown := costs.Breakdown(entry.Price, exitPrice, entry.Volume)

	return &model.Trade{
		ID:          tradeID(entry.Symbol, entry.Time),
		Symbol:      entry.Symbol,
		EntryTime:   entry.Time,
		EntryPrice:  entry.Price,
		ExitTime:    exitTime,
		ExitPrice:   exitPrice,
		ExitReason:  reason,
		BarsHeld:    barsHeld,
		GrossReturn: gross,
		Costs:       breakdown,
		NetReturn:   gross - breakdown.Total(),
		Scores:      entry.Scores,
		Confidence:  entry.Confidence,
		Audited:     entry.Audited,
	}
}

// tradeID derives a stable identifier from the symbol and entry timestamp so
// that replaying identical bars yields a byte-identical ledger.
func tradeID(symbol string, entryTime time.Time) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(symbol+"|"+entryTime.UTC().Format(time.RFC3339))).String()
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
