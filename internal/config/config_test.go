package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"SPX500"}, cfg.Symbols)
	assert.Equal(t, "yahoo", cfg.Data.Source)
	assert.Equal(t, 120, cfg.Detector.MinWindow)
	assert.Equal(t, BandSpec{Length: 20, Mult: 2.0}, cfg.Detector.Daily)
	assert.Equal(t, BandSpec{Length: 10, Mult: 1.5}, cfg.Detector.Weekly)
	assert.Equal(t, BandSpec{Length: 6, Mult: 2.0}, cfg.Detector.Monthly)
	assert.Equal(t, 14, cfg.Detector.RSILength)
	assert.Equal(t, 0.10, cfg.Cascade.ADFPValueCutoff)
	assert.Equal(t, 2.5, cfg.Execution.StopMultiple)
	assert.Equal(t, 100000.0, cfg.Costs.Notional)
	assert.Len(t, cfg.Costs.SlippageTiers, 3)
	assert.Equal(t, 20*time.Second, cfg.Audit.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
symbols: [AAA, BBB]
workers: 3
detector:
  min_window: 200
  daily: { length: 30, mult: 2.5 }
execution:
  max_holding_bars: 15
audit:
  timeout: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"AAA", "BBB"}, cfg.Symbols)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 200, cfg.Detector.MinWindow)
	assert.Equal(t, BandSpec{Length: 30, Mult: 2.5}, cfg.Detector.Daily)
	assert.Equal(t, 15, cfg.Execution.MaxHoldingBars)
	assert.Equal(t, 5*time.Second, cfg.Audit.Timeout)

	// Untouched sections still get defaults.
	assert.Equal(t, 14, cfg.Detector.RSILength)
	assert.Equal(t, 0.40, cfg.Cascade.RegimeVolCeiling)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symbols: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SCOUT_SYMBOLS", "XXX,YYY")
	t.Setenv("SCOUT_WORKERS", "7")
	t.Setenv("SCOUT_SQLITE_PATH", "/tmp/scout.db")
	t.Setenv("SCOUT_CRON", "0 30 9 * * 1-5")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"XXX", "YYY"}, cfg.Symbols)
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, "/tmp/scout.db", cfg.Ledger.SQLitePath)
	assert.Equal(t, "0 30 9 * * 1-5", cfg.Schedule.Cron)
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		return cfg
	}

	cfg := base(t)
	cfg.Detector.MinWindow = 10 // shorter than the daily band window
	assert.Error(t, cfg.Validate())

	cfg = base(t)
	cfg.Cascade.TurnoverFloor = 1e9
	assert.Error(t, cfg.Validate())

	cfg = base(t)
	cfg.Cascade.ADFPValueCutoff = 1.5
	assert.Error(t, cfg.Validate())

	cfg = base(t)
	cfg.Cascade.HurstCutoff = 0.5
	assert.Error(t, cfg.Validate())

	cfg = base(t)
	cfg.Symbols = nil
	assert.Error(t, cfg.Validate())
}
