package datafeed

import (
	"context"
	"math"
	"time"

	"ReversionScout/internal/model"
)

// MockFeed returns controllable fixed data for development and testing. When
// Bars is set it is returned verbatim (after contract validation); otherwise
// a deterministic synthetic series is generated.
type MockFeed struct {
	Bars      []model.PriceBar
	BasePrice float64
	Count     int
}

func (m *MockFeed) Name() string { return "mock" }

func (m *MockFeed) GetBars(_ context.Context, _ string) ([]model.PriceBar, error) {
	bars := m.Bars
	if bars == nil {
		bars = GenerateBars(m.BasePrice, m.Count)
	}
	if err := ValidateBars(bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// GenerateBars builds a deterministic oscillating daily series starting from
// a fixed epoch. Weekends are skipped so resampling behaves like real data.
func GenerateBars(basePrice float64, count int) []model.PriceBar {
	if basePrice == 0 {
		basePrice = 100
	}
	start := time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC) // a Monday
	bars := make([]model.PriceBar, 0, count)
	day := start
	for i := 0; len(bars) < count; i++ {
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)
		}
		p := basePrice * (1 + 0.03*math.Sin(float64(i)/9.0))
		bars = append(bars, model.PriceBar{
			Time:       day,
			Open:       p * 0.999,
			High:       p * 1.005,
			Low:        p * 0.995,
			Close:      p,
			Volume:     1_000_000 + 1000*float64(i%37),
			ContextVol: 0.15,
		})
		day = day.AddDate(0, 0, 1)
	}
	return bars
}
