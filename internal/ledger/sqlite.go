package ledger

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"ReversionScout/internal/model"
)

// SQLite persists trades and rejections to a SQLite database. The column set
// is stable across runs for a given configuration version, so downstream
// aggregation can rely on it.
type SQLite struct {
	db  *sql.DB
	log zerolog.Logger
	mu  sync.Mutex
}

// NewSQLite opens (or creates) the database and runs migrations.
func NewSQLite(dbPath string, log zerolog.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance while a scan writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	l := &SQLite{db: db, log: log}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite ledger opened")
	return l, nil
}

func (l *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id                TEXT PRIMARY KEY,
			symbol            TEXT NOT NULL,
			entry_ts          INTEGER NOT NULL,
			entry_price       REAL,
			exit_ts           INTEGER NOT NULL,
			exit_price        REAL,
			exit_reason       TEXT,
			bars_held         INTEGER,
			gross_return      REAL,
			cost_brokerage    REAL,
			cost_tax          REAL,
			cost_slippage     REAL,
			net_return        REAL,
			score_liquidity   REAL,
			score_regime      REAL,
			score_statistical REAL,
			score_composite   REAL,
			confidence        REAL,
			audited           INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_symbol_ts ON trades(symbol, entry_ts)`,

		`CREATE TABLE IF NOT EXISTS rejections (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol            TEXT NOT NULL,
			ts                INTEGER NOT NULL,
			reason            TEXT,
			score_liquidity   REAL,
			score_regime      REAL,
			score_statistical REAL,
			score_composite   REAL,
			confidence        REAL,
			adf_pvalue        REAL,
			hurst             REAL,
			context_vol       REAL,
			UNIQUE(symbol, ts, reason)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rejections_symbol_ts ON rejections(symbol, ts)`,
	}

	for _, s := range stmts {
		if _, err := l.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (l *SQLite) AppendTrade(t *model.Trade) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	audited := 0
	if t.Audited {
		audited = 1
	}
	// Trade ids are deterministic, so a re-run over the same history produces
	// the same rows; replays land on the primary key and are absorbed.
	_, err := l.db.Exec(`INSERT OR IGNORE INTO trades
		(id, symbol, entry_ts, entry_price, exit_ts, exit_price, exit_reason, bars_held,
		 gross_return, cost_brokerage, cost_tax, cost_slippage, net_return,
		 score_liquidity, score_regime, score_statistical, score_composite,
		 confidence, audited)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		t.ID, t.Symbol, t.EntryTime.Unix(), t.EntryPrice, t.ExitTime.Unix(), t.ExitPrice,
		string(t.ExitReason), t.BarsHeld,
		t.GrossReturn, t.Costs.Brokerage, t.Costs.Tax, t.Costs.Slippage, t.NetReturn,
		t.Scores.Liquidity, t.Scores.Regime, t.Scores.Statistical, t.Scores.Composite,
		t.Confidence, audited,
	)
	return err
}

func (l *SQLite) AppendRejection(r *model.Rejection) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.Exec(`INSERT OR IGNORE INTO rejections
		(symbol, ts, reason, score_liquidity, score_regime, score_statistical,
		 score_composite, confidence, adf_pvalue, hurst, context_vol)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		r.Symbol, r.Time.Unix(), string(r.Reason),
		r.Scores.Liquidity, r.Scores.Regime, r.Scores.Statistical, r.Scores.Composite,
		r.Confidence, r.Stats.ADFPValue, r.Stats.Hurst, r.Stats.ContextVol,
	)
	return err
}

func (l *SQLite) Close() error {
	l.log.Info().Msg("closing sqlite ledger")
	return l.db.Close()
}
