package datafeed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ReversionScout/internal/model"
)

func TestValidateBars(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

	ok := []model.PriceBar{{Time: day(1)}, {Time: day(2)}, {Time: day(3)}}
	assert.NoError(t, ValidateBars(ok))
	assert.NoError(t, ValidateBars(nil))

	dup := []model.PriceBar{{Time: day(1)}, {Time: day(2)}, {Time: day(2)}}
	assert.ErrorIs(t, ValidateBars(dup), ErrDataContract)

	outOfOrder := []model.PriceBar{{Time: day(2)}, {Time: day(1)}}
	assert.ErrorIs(t, ValidateBars(outOfOrder), ErrDataContract)
}

func TestGenerateBars(t *testing.T) {
	bars := GenerateBars(100, 600)
	require.Len(t, bars, 600)
	require.NoError(t, ValidateBars(bars))

	for _, b := range bars {
		wd := b.Time.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
		assert.Greater(t, b.Close, 0.0)
		assert.GreaterOrEqual(t, b.High, b.Close)
		assert.LessOrEqual(t, b.Low, b.Close)
	}
}

func TestMockFeedReturnsFixture(t *testing.T) {
	fixture := GenerateBars(50, 10)
	feed := &MockFeed{Bars: fixture}
	got, err := feed.GetBars(context.Background(), "ANY")
	require.NoError(t, err)
	assert.Equal(t, fixture, got)

	// Fixtures that violate the ordering contract never leave the feed.
	broken := []model.PriceBar{
		{Time: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	_, err = (&MockFeed{Bars: broken}).GetBars(context.Background(), "ANY")
	assert.ErrorIs(t, err, ErrDataContract)
}

func TestMergeContextVol(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

	// Reference series with enough wiggle to carry a positive volatility.
	ref := make([]model.PriceBar, 12)
	for i := range ref {
		ref[i] = model.PriceBar{Time: day(i + 3), Close: 100 + float64(i%2)}
	}

	bars := []model.PriceBar{
		{Time: day(1), Close: 50},  // before the reference history
		{Time: day(5), Close: 50},  // reference exists but the window does not
		{Time: day(14), Close: 50}, // full window available
	}

	merged := MergeContextVol(bars, ref, 5)
	require.Len(t, merged, 3)

	assert.Equal(t, 0.0, merged[0].ContextVol, "bars before the reference carry zero")
	assert.Equal(t, 0.0, merged[1].ContextVol, "insufficient reference window carries zero")
	assert.Greater(t, merged[2].ContextVol, 0.0)

	// Price fields pass through untouched.
	assert.Equal(t, 50.0, merged[2].Close)
	assert.Equal(t, bars[2].Time, merged[2].Time)
}
