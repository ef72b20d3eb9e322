package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// BandSpec configures one timeframe's band calculation.
type BandSpec struct {
	Length int     `yaml:"length"`
	Mult   float64 `yaml:"mult"`
}

// SlippageTier maps a minimum entry-bar volume to a slippage rate. Tiers are
// evaluated highest volume first; higher traded volume earns a lower rate.
type SlippageTier struct {
	MinVolume float64 `yaml:"min_volume"`
	Rate      float64 `yaml:"rate"`
}

// Config holds every threshold and cost parameter for a run. Loaded once,
// passed by reference to every component, and never mutated — each symbol's
// walk-forward pass reads the same immutable record, which is what makes
// per-symbol parallelism safe.
type Config struct {
	Symbols []string `yaml:"symbols"`
	Workers int      `yaml:"workers"`

	Data struct {
		Source          string `yaml:"source"` // "yahoo" or "mock"
		ReferenceSymbol string `yaml:"reference_symbol"`
		VolWindow       int    `yaml:"vol_window"`
		RangeYears      int    `yaml:"range_years"`
	} `yaml:"data"`

	Detector struct {
		MinWindow      int      `yaml:"min_window"`
		Daily          BandSpec `yaml:"daily"`
		Weekly         BandSpec `yaml:"weekly"`
		Monthly        BandSpec `yaml:"monthly"`
		RSILength      int      `yaml:"rsi_length"`
		RSIOversold    float64  `yaml:"rsi_oversold"`
		SlippageMarkup float64  `yaml:"slippage_markup"`
		ADFWindow      int      `yaml:"adf_window"`
		HurstWindow    int      `yaml:"hurst_window"`
		HurstMaxLag    int      `yaml:"hurst_max_lag"`
	} `yaml:"detector"`

	Cascade struct {
		LiquidityWindow  int     `yaml:"liquidity_window"`
		TurnoverFloor    float64 `yaml:"turnover_floor"`
		TurnoverCeiling  float64 `yaml:"turnover_ceiling"`
		RegimeVolCeiling float64 `yaml:"regime_vol_ceiling"`
		ADFPValueCutoff  float64 `yaml:"adf_pvalue_cutoff"`
		HurstCutoff      float64 `yaml:"hurst_cutoff"`
	} `yaml:"cascade"`

	Execution struct {
		ATRLength      int     `yaml:"atr_length"`
		StopMultiple   float64 `yaml:"stop_multiple"`
		TargetFraction float64 `yaml:"target_fraction"`
		MaxHoldingBars int     `yaml:"max_holding_bars"`
	} `yaml:"execution"`

	Costs struct {
		Notional      float64        `yaml:"notional"`
		BrokerageFlat float64        `yaml:"brokerage_flat"`
		BrokeragePct  float64        `yaml:"brokerage_pct"`
		TaxRate       float64        `yaml:"tax_rate"`
		SlippageTiers []SlippageTier `yaml:"slippage_tiers"`
	} `yaml:"costs"`

	Audit struct {
		Enabled       bool          `yaml:"enabled"`
		Model         string        `yaml:"model"`
		MinComposite  float64       `yaml:"min_composite"`
		MinConfidence float64       `yaml:"min_confidence"`
		Timeout       time.Duration `yaml:"timeout"`
		MaxRetries    int           `yaml:"max_retries"`
	} `yaml:"audit"`

	Ledger struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"ledger"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`

	Schedule struct {
		Cron string `yaml:"cron"` // empty means one-shot
	} `yaml:"schedule"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // "console" or "json"
	} `yaml:"log"`

	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SCOUT_SYMBOLS"); v != "" {
		cfg.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("SCOUT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("SCOUT_SQLITE_PATH"); v != "" {
		cfg.Ledger.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SCOUT_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Symbols) == 0 {
		c.Symbols = []string{"SPX500"}
	}
	if c.Data.Source == "" {
		c.Data.Source = "yahoo"
	}
	if c.Data.ReferenceSymbol == "" {
		c.Data.ReferenceSymbol = "^VIX"
	}
	if c.Data.VolWindow == 0 {
		c.Data.VolWindow = 21
	}
	if c.Data.RangeYears == 0 {
		c.Data.RangeYears = 2
	}

	if c.Detector.MinWindow == 0 {
		c.Detector.MinWindow = 120
	}
	if c.Detector.Daily.Length == 0 {
		c.Detector.Daily = BandSpec{Length: 20, Mult: 2.0}
	}
	if c.Detector.Weekly.Length == 0 {
		c.Detector.Weekly = BandSpec{Length: 10, Mult: 1.5}
	}
	if c.Detector.Monthly.Length == 0 {
		c.Detector.Monthly = BandSpec{Length: 6, Mult: 2.0}
	}
	if c.Detector.RSILength == 0 {
		c.Detector.RSILength = 14
	}
	if c.Detector.RSIOversold == 0 {
		c.Detector.RSIOversold = 30
	}
	if c.Detector.SlippageMarkup == 0 {
		c.Detector.SlippageMarkup = 0.001
	}
	if c.Detector.ADFWindow == 0 {
		c.Detector.ADFWindow = 100
	}
	if c.Detector.HurstWindow == 0 {
		c.Detector.HurstWindow = 100
	}
	if c.Detector.HurstMaxLag == 0 {
		c.Detector.HurstMaxLag = 20
	}

	if c.Cascade.LiquidityWindow == 0 {
		c.Cascade.LiquidityWindow = 20
	}
	if c.Cascade.TurnoverCeiling == 0 {
		c.Cascade.TurnoverFloor = 1e6
		c.Cascade.TurnoverCeiling = 1e8
	}
	if c.Cascade.RegimeVolCeiling == 0 {
		c.Cascade.RegimeVolCeiling = 0.40
	}
	if c.Cascade.ADFPValueCutoff == 0 {
		c.Cascade.ADFPValueCutoff = 0.10
	}
	if c.Cascade.HurstCutoff == 0 {
		c.Cascade.HurstCutoff = 0.20
	}

	if c.Execution.ATRLength == 0 {
		c.Execution.ATRLength = 14
	}
	if c.Execution.StopMultiple == 0 {
		c.Execution.StopMultiple = 2.5
	}
	if c.Execution.TargetFraction == 0 {
		c.Execution.TargetFraction = 0.05
	}
	if c.Execution.MaxHoldingBars == 0 {
		c.Execution.MaxHoldingBars = 20
	}

	if c.Costs.Notional == 0 {
		c.Costs.Notional = 100000
	}
	if c.Costs.BrokerageFlat == 0 {
		c.Costs.BrokerageFlat = 20
	}
	if c.Costs.BrokeragePct == 0 {
		c.Costs.BrokeragePct = 0.0003
	}
	if c.Costs.TaxRate == 0 {
		c.Costs.TaxRate = 0.001
	}
	if len(c.Costs.SlippageTiers) == 0 {
		c.Costs.SlippageTiers = []SlippageTier{
			{MinVolume: 5e6, Rate: 0.0005},
			{MinVolume: 1e6, Rate: 0.001},
			{MinVolume: 0, Rate: 0.002},
		}
	}

	if c.Audit.Model == "" {
		c.Audit.Model = "gemini-2.5-flash"
	}
	if c.Audit.MinComposite == 0 {
		c.Audit.MinComposite = 0.05
	}
	if c.Audit.MinConfidence == 0 {
		c.Audit.MinConfidence = 0.5
	}
	if c.Audit.Timeout == 0 {
		c.Audit.Timeout = 20 * time.Second
	}
	if c.Audit.MaxRetries == 0 {
		c.Audit.MaxRetries = 2
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Validate checks that the loaded configuration is internally consistent.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbols must not be empty")
	}
	if c.Detector.MinWindow <= c.Detector.Daily.Length {
		return fmt.Errorf("detector.min_window must exceed detector.daily.length")
	}
	if c.Cascade.TurnoverCeiling <= c.Cascade.TurnoverFloor {
		return fmt.Errorf("cascade.turnover_ceiling must exceed cascade.turnover_floor")
	}
	if c.Cascade.RegimeVolCeiling <= 0 {
		return fmt.Errorf("cascade.regime_vol_ceiling must be positive")
	}
	if c.Cascade.ADFPValueCutoff <= 0 || c.Cascade.ADFPValueCutoff >= 1 {
		return fmt.Errorf("cascade.adf_pvalue_cutoff must be in (0,1)")
	}
	if c.Cascade.HurstCutoff < 0 || c.Cascade.HurstCutoff >= 0.5 {
		return fmt.Errorf("cascade.hurst_cutoff must be in [0,0.5)")
	}
	if c.Execution.MaxHoldingBars <= 0 {
		return fmt.Errorf("execution.max_holding_bars must be positive")
	}
	if c.Costs.Notional <= 0 {
		return fmt.Errorf("costs.notional must be positive")
	}
	if c.Audit.Enabled && c.Audit.Model == "" {
		return fmt.Errorf("audit.model is required when audit is enabled")
	}
	return nil
}
