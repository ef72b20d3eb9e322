package timeframe

import (
	"time"

	"ReversionScout/internal/model"
)

// Period is a resampling granularity coarser than the input bars.
type Period int

const (
	Weekly Period = iota
	Monthly
)

func (p Period) String() string {
	if p == Weekly {
		return "weekly"
	}
	return "monthly"
}

// Start returns the period-start label for the period containing t. Weekly
// periods start on Monday, monthly periods on the first of the month.
//
// Period-start labeling is mandatory for point-in-time correctness: labeling
// the current, still-incomplete period at its end would make an as-of lookup
// fall back one full period and feed multi-day-stale aggregates into
// decisions.
func (p Period) Start(t time.Time) time.Time {
	switch p {
	case Weekly:
		offset := (int(t.Weekday()) + 6) % 7 // days since Monday
		y, m, d := t.AddDate(0, 0, -offset).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	default:
		y, m, _ := t.Date()
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	}
}

// Resample aggregates ordered bars into one row per period, labeled at the
// period start. The final row covers the current, possibly incomplete period
// and carries everything known so far — open of the first bar, running
// high/low, latest close, summed volume.
func Resample(bars []model.PriceBar, p Period) []model.PriceBar {
	if len(bars) == 0 {
		return nil
	}
	out := make([]model.PriceBar, 0, len(bars)/5+1)
	cur := model.PriceBar{}
	curStart := time.Time{}

	for _, b := range bars {
		start := p.Start(b.Time)
		if !start.Equal(curStart) {
			if !curStart.IsZero() {
				out = append(out, cur)
			}
			curStart = start
			cur = model.PriceBar{
				Time:       start,
				Open:       b.Open,
				High:       b.High,
				Low:        b.Low,
				Close:      b.Close,
				Volume:     b.Volume,
				ContextVol: b.ContextVol,
			}
			continue
		}
		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low < cur.Low {
			cur.Low = b.Low
		}
		cur.Close = b.Close
		cur.Volume += b.Volume
		cur.ContextVol = b.ContextVol
	}
	out = append(out, cur)
	return out
}

// AsOfIndex returns the index of the most recent row whose label is at or
// before ts — a last-known-value lookup. Positional indexing of the final row
// is not equivalent: it assumes the last row aligns with ts, which is false on
// most days.
func AsOfIndex(series []model.PriceBar, ts time.Time) (int, bool) {
	lo, hi := 0, len(series)
	for lo < hi {
		mid := (lo + hi) / 2
		if series[mid].Time.After(ts) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	if lo == 0 {
		return 0, false
	}
	return lo - 1, true
}
