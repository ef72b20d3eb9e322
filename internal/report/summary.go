// Package report renders the end-of-run summary. Rendering stays out of the
// simulation core; this package only reads completed results.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"ReversionScout/internal/model"
	"ReversionScout/internal/runner"
)

// FormatRunSummary renders one run's results across all symbols.
func FormatRunSummary(results []runner.Result, started time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("ReversionScout run | %s\n\n", started.Format("2006-01-02 15:04")))

	var totalBars int
	var trades []model.Trade
	var rejected int
	for _, res := range results {
		totalBars += res.Bars
		trades = append(trades, res.Trades...)
		rejected += len(res.Rejections)
	}
	b.WriteString(fmt.Sprintf("symbols: %d | bars replayed: %s | candidates rejected: %d\n",
		len(results), humanize.Comma(int64(totalBars)), rejected))

	if len(trades) == 0 {
		b.WriteString("no trades admitted\n")
		return b.String()
	}

	wins := 0
	var totalNet, totalCost float64
	byReason := map[model.ExitReason]int{}
	for _, t := range trades {
		if t.NetReturn > 0 {
			wins++
		}
		totalNet += t.NetReturn
		totalCost += t.Costs.Total()
		byReason[t.ExitReason]++
	}
	n := float64(len(trades))

	b.WriteString(fmt.Sprintf("trades: %d | win rate: %.0f%%\n", len(trades), 100*float64(wins)/n))
	b.WriteString(fmt.Sprintf("net return: avg %+.2f%% | total %+.2f%%\n", 100*totalNet/n, 100*totalNet))
	b.WriteString(fmt.Sprintf("cost drag: avg %.2f%% per trade\n", 100*totalCost/n))
	b.WriteString(fmt.Sprintf("exits: stop %d | target %d | timeout %d\n",
		byReason[model.ExitStopLoss], byReason[model.ExitProfitTarget], byReason[model.ExitTimeout]))

	for _, res := range results {
		if len(res.Trades) == 0 {
			continue
		}
		var net float64
		for _, t := range res.Trades {
			net += t.NetReturn
		}
		b.WriteString(fmt.Sprintf("  %s: %d trades, net %+.2f%%\n", res.Symbol, len(res.Trades), 100*net))
	}

	return b.String()
}
