package model

import "time"

// ExitReason enumerates how a simulated trade was closed.
type ExitReason string

const (
	ExitStopLoss     ExitReason = "STOP_LOSS"
	ExitProfitTarget ExitReason = "PROFIT_TARGET"
	ExitTimeout      ExitReason = "TIMEOUT"
)

// CostBreakdown itemizes round-trip transaction costs, each expressed as a
// fraction of entry notional.
type CostBreakdown struct {
	Brokerage float64
	Tax       float64
	Slippage  float64
}

// Total returns the combined cost fraction.
func (c CostBreakdown) Total() float64 {
	return c.Brokerage + c.Tax + c.Slippage
}

// Trade is a completed simulated round trip. Created by the execution
// simulator and appended to the ledger; never mutated afterwards.
type Trade struct {
	ID          string
	Symbol      string
	EntryTime   time.Time
	EntryPrice  float64
	ExitTime    time.Time
	ExitPrice   float64
	ExitReason  ExitReason
	BarsHeld    int
	GrossReturn float64
	Costs       CostBreakdown
	NetReturn   float64
	Scores      ValidationScores
	Confidence  float64
	Audited     bool
}

// RejectReason enumerates why a candidate signal was not traded.
type RejectReason string

const (
	RejectCascade    RejectReason = "CASCADE_COMPOSITE"
	RejectConfidence RejectReason = "LOW_CONFIDENCE"
	RejectSimulation RejectReason = "INCOMPLETE_SIMULATION"
)

// Rejection records a candidate signal that was evaluated but not traded,
// with the full scores that drove the decision.
type Rejection struct {
	Symbol     string
	Time       time.Time
	Reason     RejectReason
	Scores     ValidationScores
	Confidence float64
	Stats      StatSnapshot
}
