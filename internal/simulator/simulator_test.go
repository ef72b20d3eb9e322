package simulator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ReversionScout/internal/config"
	"ReversionScout/internal/model"
)

var testCosts = CostModel{
	Notional:      100_000,
	BrokerageFlat: 20,
	BrokeragePct:  0.0003,
	TaxRate:       0.001,
	SlippageTiers: []config.SlippageTier{
		{MinVolume: 5e6, Rate: 0.0005},
		{MinVolume: 1e6, Rate: 0.001},
		{MinVolume: 0, Rate: 0.002},
	},
}

func testEntry(price, stop float64) Entry {
	return Entry{
		Symbol:       "SPX500",
		Time:         time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Price:        price,
		ProposedStop: stop,
		Volume:       2_000_000,
	}
}

func flatForward(n int, close, high, low float64) []model.PriceBar {
	start := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, n)
	for i := range bars {
		bars[i] = model.PriceBar{
			Time:  start.AddDate(0, 0, i),
			Open:  close,
			High:  high,
			Low:   low,
			Close: close,
		}
	}
	return bars
}

func TestSimulateTimeout(t *testing.T) {
	rules := ExitRules{ATRLength: 14, StopMultiple: 3, TargetFraction: 0.05, MaxHoldingBars: 5}
	forward := flatForward(10, 100, 100.5, 99.5)

	trade, err := Simulate(testEntry(100, 0), forward, testCosts, rules)
	require.NoError(t, err)

	assert.Equal(t, model.ExitTimeout, trade.ExitReason)
	assert.Equal(t, 5, trade.BarsHeld)
	assert.Equal(t, forward[4].Time, trade.ExitTime)
	assert.Equal(t, 100.0, trade.ExitPrice, "timeout exits at the bar close")
	assert.InDelta(t, 0.0, trade.GrossReturn, 1e-12)
	assert.Less(t, trade.NetReturn, 0.0, "costs push a flat round trip negative")
}

func TestSimulateStopBoundaryInclusive(t *testing.T) {
	rules := ExitRules{ATRLength: 14, StopMultiple: 3, TargetFraction: 0.05, MaxHoldingBars: 10}
	// First bar's low touches the proposed stop exactly.
	forward := flatForward(10, 96, 97, 95)

	trade, err := Simulate(testEntry(100, 95), forward, testCosts, rules)
	require.NoError(t, err)

	assert.Equal(t, model.ExitStopLoss, trade.ExitReason)
	assert.Equal(t, 1, trade.BarsHeld)
	assert.Equal(t, 95.0, trade.ExitPrice, "stop exits fill at the stop price")
	assert.InDelta(t, -0.05, trade.GrossReturn, 1e-12)
}

func TestSimulateStopBeatsTargetOnSameBar(t *testing.T) {
	rules := ExitRules{ATRLength: 14, StopMultiple: 3, TargetFraction: 0.05, MaxHoldingBars: 10}
	// One wide bar satisfies both exits; the conservative one wins.
	forward := flatForward(1, 100, 106, 95)

	trade, err := Simulate(testEntry(100, 95), forward, testCosts, rules)
	require.NoError(t, err)
	assert.Equal(t, model.ExitStopLoss, trade.ExitReason)
}

func TestSimulateProfitTarget(t *testing.T) {
	rules := ExitRules{ATRLength: 14, StopMultiple: 3, TargetFraction: 0.05, MaxHoldingBars: 10}
	forward := flatForward(10, 100, 100.5, 99.5)
	forward[2].High = 106
	forward[2].Close = 105.5

	trade, err := Simulate(testEntry(100, 0), forward, testCosts, rules)
	require.NoError(t, err)

	assert.Equal(t, model.ExitProfitTarget, trade.ExitReason)
	assert.Equal(t, 3, trade.BarsHeld)
	assert.Equal(t, 105.0, trade.ExitPrice, "target exits fill at the target price")
	assert.InDelta(t, 0.05, trade.GrossReturn, 1e-12)
}

func TestSimulateTrailingStopRatchets(t *testing.T) {
	// The stop follows the running high up and locks in a profitable exit.
	rules := ExitRules{ATRLength: 2, StopMultiple: 1, TargetFraction: 1.0, MaxHoldingBars: 10}
	forward := []model.PriceBar{
		{Time: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), High: 110, Low: 100, Close: 110},
		{Time: time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), High: 112, Low: 104, Close: 110},
		{Time: time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), High: 110, Low: 102, Close: 104},
	}

	trade, err := Simulate(testEntry(100, 0), forward, testCosts, rules)
	require.NoError(t, err)

	// After bar one: TR 10, stop 110-10 = 100. After bar two: TRs [10 8],
	// extreme 112, stop 112-9 = 103. Bar three's low pierces it.
	assert.Equal(t, model.ExitStopLoss, trade.ExitReason)
	assert.Equal(t, 3, trade.BarsHeld)
	assert.Equal(t, 103.0, trade.ExitPrice)
	assert.InDelta(t, 0.03, trade.GrossReturn, 1e-12, "a ratcheted stop can exit in profit")
}

func TestSimulateProposedStopAboveEntryIsAdvisory(t *testing.T) {
	// A proposed stop at or above the entry price would stop out instantly;
	// it only seeds the trail when genuinely protective.
	rules := ExitRules{ATRLength: 14, StopMultiple: 5, TargetFraction: 0.05, MaxHoldingBars: 3}
	forward := flatForward(3, 100, 100.5, 99.5)

	trade, err := Simulate(testEntry(100, 120), forward, testCosts, rules)
	require.NoError(t, err)
	assert.Equal(t, model.ExitTimeout, trade.ExitReason)
}

func TestSimulateIncompleteForward(t *testing.T) {
	rules := ExitRules{ATRLength: 14, StopMultiple: 3, TargetFraction: 0.05, MaxHoldingBars: 10}
	forward := flatForward(3, 100, 100.5, 99.5)

	trade, err := Simulate(testEntry(100, 0), forward, testCosts, rules)
	assert.ErrorIs(t, err, ErrIncompleteSimulation)
	assert.Nil(t, trade)

	_, err = Simulate(testEntry(100, 0), nil, testCosts, rules)
	assert.ErrorIs(t, err, ErrIncompleteSimulation)
}

func TestSimulateIgnoresBarsAfterExit(t *testing.T) {
	rules := ExitRules{ATRLength: 14, StopMultiple: 3, TargetFraction: 0.05, MaxHoldingBars: 10}
	forward := flatForward(10, 100, 100.5, 99.5)
	forward[2].High = 106

	base, err := Simulate(testEntry(100, 0), forward, testCosts, rules)
	require.NoError(t, err)

	// Mutate everything after the exit bar; the trade must not change.
	for i := 3; i < len(forward); i++ {
		forward[i].High = 500
		forward[i].Low = 1
		forward[i].Close = 250
	}
	again, err := Simulate(testEntry(100, 0), forward, testCosts, rules)
	require.NoError(t, err)
	assert.Equal(t, base, again)
}

func TestSimulateDeterministicID(t *testing.T) {
	rules := ExitRules{ATRLength: 14, StopMultiple: 3, TargetFraction: 0.05, MaxHoldingBars: 5}
	forward := flatForward(5, 100, 100.5, 99.5)

	a, err := Simulate(testEntry(100, 0), forward, testCosts, rules)
	require.NoError(t, err)
	b, err := Simulate(testEntry(100, 0), forward, testCosts, rules)
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID, "identical inputs yield an identical trade id")

	other := testEntry(100, 0)
	other.Time = other.Time.AddDate(0, 0, 1)
	c, err := Simulate(other, forward, testCosts, rules)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestCostBreakdown(t *testing.T) {
	b := testCosts.Breakdown(100, 105, 2_000_000)

	// qty 1000, exit notional 105000, round trip 205000.
	assert.InDelta(t, (30.0+31.5)/100_000, b.Brokerage, 1e-12)
	assert.InDelta(t, 205.0/100_000, b.Tax, 1e-12)
	assert.InDelta(t, 205.0/100_000, b.Slippage, 1e-12, "2e6 volume lands in the mid tier")
	assert.InDelta(t, b.Brokerage+b.Tax+b.Slippage, b.Total(), 1e-12)
}

func TestCostBreakdownFlatBrokerageFloor(t *testing.T) {
	small := testCosts
	small.Notional = 10_000
	b := small.Breakdown(100, 100, 2_000_000)

	// 0.03% of 10k is 3, below the 20 flat minimum on each side.
	assert.InDelta(t, 40.0/10_000, b.Brokerage, 1e-12)
}

func TestSlippageTierSelection(t *testing.T) {
	assert.Equal(t, 0.0005, testCosts.slippageRate(6_000_000))
	assert.Equal(t, 0.0005, testCosts.slippageRate(5_000_000), "tier minimum is inclusive")
	assert.Equal(t, 0.001, testCosts.slippageRate(2_000_000))
	assert.Equal(t, 0.002, testCosts.slippageRate(500_000))
}

func TestCostModelFromConfigSortsTiers(t *testing.T) {
	cfg := &config.Config{}
	cfg.Costs.Notional = 100_000
	cfg.Costs.SlippageTiers = []config.SlippageTier{
		{MinVolume: 0, Rate: 0.002},
		{MinVolume: 5e6, Rate: 0.0005},
		{MinVolume: 1e6, Rate: 0.001},
	}
	cm := CostModelFromConfig(cfg)
	assert.Equal(t, 0.0005, cm.slippageRate(9e6))
	assert.Equal(t, 0.001, cm.slippageRate(2e6))
	assert.Equal(t, 0.002, cm.slippageRate(1))
}

func TestSimulateRejectsBadEntry(t *testing.T) {
	rules := ExitRules{ATRLength: 14, StopMultiple: 3, TargetFraction: 0.05, MaxHoldingBars: 5}
	_, err := Simulate(testEntry(0, 0), flatForward(5, 100, 101, 99), testCosts, rules)
	assert.Error(t, err)
}
