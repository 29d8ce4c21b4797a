package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"StockSentinel/internal/cache"
	"StockSentinel/internal/collector"
	"StockSentinel/internal/config"
	"StockSentinel/internal/notifier"
	"StockSentinel/internal/recorder"
	"StockSentinel/internal/report"
	"StockSentinel/internal/scanner"
	"StockSentinel/internal/scheduler"
	"StockSentinel/internal/strategy"
	"StockSentinel/internal/universe"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockSentinel starting...")

	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.Provider == "alpaca" {
		fetcher = collector.NewAlpacaFetcher(cfg.DataSource.AlpacaKey, cfg.DataSource.AlpacaSecret, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init fundamentals cache
	var fundCache cache.Cache = cache.NewNoop()
	if cfg.Cache.RedisAddr != "" {
		rc, err := cache.NewRedis(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			log.Printf("[WARN] init redis cache failed, using noop: %v", err)
		} else {
			fundCache = rc
			defer rc.Close()
		}
	}
	fetcher = &collector.CachedFetcher{
		Fetcher: fetcher,
		Cache:   fundCache,
		TTL:     time.Duration(cfg.Cache.TTLHours) * time.Hour,
	}

	// Init recorder
	var rec recorder.Recorder
	switch {
	case cfg.Database.PostgresURL != "":
		pr, err := recorder.NewPostgresRecorder(context.Background(), cfg.Database.PostgresURL)
		if err != nil {
			log.Printf("[WARN] init postgres recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = pr
			defer pr.Close()
		}
	case cfg.Database.SQLitePath != "":
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	default:
		rec = recorder.NewNoopRecorder()
	}

	// Init universe provider
	sources := universe.DefaultSources()
	if len(cfg.Universe.Sources) > 0 {
		sources = sources[:0]
		for _, s := range cfg.Universe.Sources {
			sources = append(sources, universe.Source{Name: s.Name, URL: s.URL})
		}
	}
	uni := universe.NewProvider(sources, cfg.Scan.MaxTickers, cfg.Proxy)

	// Assemble the scan pipeline
	pipeline := &scanner.Pipeline{
		Universe: uni,
		Scanner: &scanner.Scanner{
			Fetcher: fetcher,
			Classifier: &strategy.Classifier{
				Mode: strategy.Mode(cfg.Scan.Mode),
				Thresholds: strategy.Thresholds{
					RSIUpper:     cfg.Scan.RSIUpper,
					RSILower:     cfg.Scan.RSILower,
					MinMarketCap: decimal.NewFromFloat(cfg.Scan.MinMarketCap),
				},
			},
			RSIPeriod: cfg.Scan.RSIPeriod,
			Lookback:  cfg.Scan.LookbackDays,
			Delay:     time.Duration(cfg.Scan.DelayMs) * time.Millisecond,
			FetchIV:   cfg.Scan.FetchIV,
		},
		Sink:       report.CSVSink{},
		ReportPath: cfg.Report.OutputPath,
		Notifier:   notifier.NewFromEnv(cfg.Email.SMTPHost, cfg.Email.SMTPPort),
		Recorder:   rec,
	}

	// Shutdown waits for an in-flight scan so a report mid-write is not cut
	// off.
	var scans sync.WaitGroup
	runScan := func(ctx context.Context) {
		scans.Add(1)
		defer scans.Done()
		if err := pipeline.Run(ctx); err != nil {
			log.Printf("[ERROR] scan run: %v", err)
		}
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// One-shot mode: no cron spec means scan once and exit.
	if cfg.Schedule.ScanCron == "" {
		runScan(ctx)
		log.Println("[INFO] StockSentinel done")
		return
	}

	// Init scheduler
	sched := scheduler.New(ctx, runScan)
	if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go runScan(ctx)
	}

	log.Println("[INFO] StockSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	sched.Stop()
	scans.Wait()
	log.Println("[INFO] StockSentinel stopped")
}
