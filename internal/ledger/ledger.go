// Package ledger persists the append-only record of every decision a run
// makes: admitted trades and rejected candidates, each with the full score
// record so post-hoc audits can reconstruct any decision without rerunning
// the simulation.
package ledger

import (
	"sync"

	"ReversionScout/internal/model"
)

// Ledger is an append-only sink. Rows are never updated or deleted.
type Ledger interface {
	AppendTrade(trade *model.Trade) error
	AppendRejection(rej *model.Rejection) error
	Close() error
}

// Memory keeps everything in process. Used when no database is configured
// and throughout the tests.
type Memory struct {
	mu         sync.Mutex
	Trades     []model.Trade
	Rejections []model.Rejection
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) AppendTrade(trade *model.Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Trades = append(m.Trades, *trade)
	return nil
}

func (m *Memory) AppendRejection(rej *model.Rejection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rejections = append(m.Rejections, *rej)
	return nil
}

func (m *Memory) Close() error { return nil }
