package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"ReversionScout/internal/auditor"
	"ReversionScout/internal/config"
	"ReversionScout/internal/datafeed"
	"ReversionScout/internal/ledger"
	"ReversionScout/internal/notify"
	"ReversionScout/internal/report"
	"ReversionScout/internal/runner"
	"ReversionScout/internal/scheduler"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("load config")
	}

	log := newLogger(cfg)
	log.Info().Str("config", cfgPath).Msg("ReversionScout starting")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init data feed
	var feed datafeed.Feed
	switch cfg.Data.Source {
	case "mock":
		feed = &datafeed.MockFeed{BasePrice: 100, Count: 600}
	default:
		feed = datafeed.NewYahooFeed(cfg.Data.ReferenceSymbol, cfg.Data.VolWindow, cfg.Data.RangeYears, cfg.Proxy)
	}
	log.Info().Str("source", feed.Name()).Msg("data feed ready")

	// Init ledger
	var book ledger.Ledger
	if cfg.Ledger.SQLitePath != "" {
		sl, err := ledger.NewSQLite(cfg.Ledger.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite ledger failed, using in-memory")
			book = ledger.NewMemory()
		} else {
			book = sl
			defer sl.Close()
		}
	} else {
		book = ledger.NewMemory()
	}

	// Init external confidence scorer
	var scorer auditor.Scorer
	if cfg.Audit.Enabled {
		gs, err := auditor.NewGeminiScorer(ctx, cfg.Audit.Model)
		if err != nil {
			log.Fatal().Err(err).Msg("init gemini scorer")
		}
		scorer = gs
		log.Info().Str("model", cfg.Audit.Model).Msg("external confidence scorer enabled")
	}

	run := &runner.Runner{
		Cfg:    cfg,
		Feed:   feed,
		Ledger: book,
		Scorer: scorer,
		Log:    log,
	}

	// One-shot mode: scan once, print the summary, exit.
	if cfg.Schedule.Cron == "" {
		started := time.Now()
		results, failures := run.Run(ctx)
		for symbol, err := range failures {
			log.Error().Err(err).Str("symbol", symbol).Msg("symbol run failed")
		}
		os.Stdout.WriteString(report.FormatRunSummary(results, started))
		if len(failures) > 0 {
			os.Exit(1)
		}
		return
	}

	// Daemon mode: re-scan on the cron schedule.
	var tn *notify.Telegram
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn = notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
	}

	sched := scheduler.NewScheduler(ctx, run, tn, log)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatal().Err(err).Msg("register cron task")
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, scanning now")
		go sched.RunNow()
	}

	log.Info().Str("cron", cfg.Schedule.Cron).Msg("ReversionScout is running, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var out = os.Stderr
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if cfg.Log.Format == "console" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}
	return logger
}
