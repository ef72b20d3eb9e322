// Package runner drives the walk-forward pass: an expanding window over the
// full history, one detector→cascade→audit→simulator evaluation per bar.
// Everything a decision uses is contained in bars[0:i]; the simulator only
// ever receives a bounded slice starting strictly after the decision bar.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"ReversionScout/internal/auditor"
	"ReversionScout/internal/cascade"
	"ReversionScout/internal/config"
	"ReversionScout/internal/datafeed"
	"ReversionScout/internal/detector"
	"ReversionScout/internal/ledger"
	"ReversionScout/internal/model"
	"ReversionScout/internal/simulator"
)

// Runner owns the per-run wiring. Configuration is immutable and shared; the
// ledger implementations serialize their own writes.
type Runner struct {
	Cfg    *config.Config
	Feed   datafeed.Feed
	Ledger ledger.Ledger
	Scorer auditor.Scorer // nil disables the external audit
	Log    zerolog.Logger
}

// Result is one symbol's completed walk-forward pass.
type Result struct {
	Symbol     string
	Bars       int
	Trades     []model.Trade
	Rejections []model.Rejection
}

// RunSymbol walks one symbol's history forward. The loop is strictly
// sequential by design: each step's inputs are defined by the ordering of
// prior steps (expanding window, no overlapping positions).
func (r *Runner) RunSymbol(ctx context.Context, symbol string) (*Result, error) {
	log := r.Log.With().Str("symbol", symbol).Logger()

	bars, err := r.Feed.GetBars(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("get bars for %s: %w", symbol, err)
	}
	if err := datafeed.ValidateBars(bars); err != nil {
		return nil, err
	}

	res := &Result{Symbol: symbol, Bars: len(bars)}
	costs := simulator.CostModelFromConfig(r.Cfg)
	exits := simulator.ExitRules{
		ATRLength:      r.Cfg.Execution.ATRLength,
		StopMultiple:   r.Cfg.Execution.StopMultiple,
		TargetFraction: r.Cfg.Execution.TargetFraction,
		MaxHoldingBars: r.Cfg.Execution.MaxHoldingBars,
	}

	i := r.Cfg.Detector.MinWindow
	if i < 1 {
		i = 1
	}
	for i <= len(bars) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("walk-forward aborted: %w", err)
		}

		window := bars[:i]
		sig := detector.Detect(window, r.Cfg)
		if sig == nil {
			i++
			continue
		}

		scores := cascade.Score(window, sig, r.Cfg)
		log.Debug().Time("ts", sig.Time).
			Float64("liquidity", scores.Liquidity).
			Float64("regime", scores.Regime).
			Float64("statistical", scores.Statistical).
			Float64("composite", scores.Composite).
			Msg("candidate signal scored")

		if scores.Composite < r.Cfg.Audit.MinComposite {
			r.reject(res, &log, sig, scores, 0, model.RejectCascade, symbol)
			i++
			continue
		}

		confidence, audited := 0.5, false
		if r.Scorer != nil {
			confidence = auditor.ScoreWithRetry(ctx, r.Scorer, summaryFor(sig, scores),
				r.Cfg.Audit.Timeout, r.Cfg.Audit.MaxRetries, log)
			audited = true
			if confidence < r.Cfg.Audit.MinConfidence {
				r.reject(res, &log, sig, scores, confidence, model.RejectConfidence, symbol)
				i++
				continue
			}
		}

		// Forward slice: bars strictly after the decision bar, bounded by the
		// holding horizon.
		end := i + r.Cfg.Execution.MaxHoldingBars
		if end > len(bars) {
			end = len(bars)
		}
		entry := simulator.Entry{
			Symbol:       symbol,
			Time:         sig.Time,
			Price:        sig.EntryPrice,
			ProposedStop: sig.StopPrice,
			Volume:       window[len(window)-1].Volume,
			Scores:       scores,
			Confidence:   confidence,
			Audited:      audited,
		}
		trade, err := simulator.Simulate(entry, bars[i:end], costs, exits)
		if err != nil {
			if errors.Is(err, simulator.ErrIncompleteSimulation) {
				log.Warn().Time("ts", sig.Time).Msg("forward data exhausted, trade attempt dropped")
				r.reject(res, &log, sig, scores, confidence, model.RejectSimulation, symbol)
				i++
				continue
			}
			return nil, fmt.Errorf("simulate %s at %s: %w", symbol, sig.Time, err)
		}

		if err := r.Ledger.AppendTrade(trade); err != nil {
			return nil, fmt.Errorf("append trade: %w", err)
		}
		res.Trades = append(res.Trades, *trade)
		log.Info().Time("entry", trade.EntryTime).Time("exit", trade.ExitTime).
			Str("reason", string(trade.ExitReason)).
			Float64("gross", trade.GrossReturn).
			Float64("net", trade.NetReturn).
			Float64("composite", scores.Composite).
			Float64("confidence", confidence).
			Msg("trade admitted")

		// Advance past the exit bar: one position at a time per symbol.
		exitAbs := i + trade.BarsHeld - 1
		i = exitAbs + 2
	}

	return res, nil
}

func (r *Runner) reject(res *Result, log *zerolog.Logger, sig *model.Signal, scores model.ValidationScores, confidence float64, reason model.RejectReason, symbol string) {
	rej := model.Rejection{
		Symbol:     symbol,
		Time:       sig.Time,
		Reason:     reason,
		Scores:     scores,
		Confidence: confidence,
		Stats:      sig.Stats,
	}
	if err := r.Ledger.AppendRejection(&rej); err != nil {
		log.Error().Err(err).Msg("append rejection")
	}
	res.Rejections = append(res.Rejections, rej)
	log.Info().Time("ts", sig.Time).Str("reason", string(reason)).
		Float64("composite", scores.Composite).
		Float64("confidence", confidence).
		Float64("adf_pvalue", sig.Stats.ADFPValue).
		Float64("hurst", sig.Stats.Hurst).
		Msg("candidate rejected")
}

// summaryFor aggregates the named scalars the external scorer is allowed to
// see. Raw price data never crosses this boundary.
func summaryFor(sig *model.Signal, scores model.ValidationScores) map[string]float64 {
	return map[string]float64{
		"adf_pvalue":        sig.Stats.ADFPValue,
		"hurst":             sig.Stats.Hurst,
		"context_vol":       sig.Stats.ContextVol,
		"score_liquidity":   scores.Liquidity,
		"score_regime":      scores.Regime,
		"score_statistical": scores.Statistical,
		"score_composite":   scores.Composite,
	}
}
