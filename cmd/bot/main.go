package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"CandleSage/internal/bot"
	"CandleSage/internal/cache"
	"CandleSage/internal/collector"
	"CandleSage/internal/config"
	"CandleSage/internal/metrics"
	"CandleSage/internal/notifier"
	"CandleSage/internal/quota"
	"CandleSage/internal/recorder"
	"CandleSage/internal/scheduler"
	"CandleSage/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CandleSage starting...")

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
	if os.Getenv("USE_MOCK_DATA") == "true" {
		fetcher = &collector.MockFetcher{Price: 65000}
	} else {
		fetcher = collector.NewBinanceFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init quota store
	store, err := quota.NewSQLiteStore(cfg.Database.SQLitePath, cfg.Quota.DailyLimit, cfg.Quota.ReferralBonus)
	if err != nil {
		log.Fatalf("[FATAL] init quota store: %v", err)
	}
	defer store.Close()

	// Init prediction cache
	var predCache cache.Cache
	if cfg.Cache.Backend == "redis" {
		rc, err := cache.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			log.Fatalf("[FATAL] init redis cache: %v", err)
		}
		predCache = rc
	} else {
		predCache = cache.NewMemoryCache(5 * time.Minute)
	}
	defer predCache.Close()
	log.Printf("[INFO] prediction cache: %s", cfg.Cache.Backend)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init metrics
	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)

	// Init Telegram notifier and message handler
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Proxy)
	handler := bot.NewHandler(fetcher, store, predCache, rec, m,
		cfg.EngineParams(), cfg.DataSource.Timeframe, cfg.DataSource.CandleLimit,
		cfg.CacheTTL(), cfg.Telegram.BotUsername)
	handler.Typing = tn

	if err := handler.RefreshSymbols(); err != nil {
		log.Printf("[WARN] initial symbol refresh failed, using defaults: %v", err)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(store, handler)
	if err := sched.RegisterAll(); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start HTTP server
	srv := server.New(cfg.Server.Port, store, registry)
	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("[ERROR] HTTP server: %v", err)
		}
	}()

	// Start Telegram polling
	go tn.StartPolling(ctx, handler.HandleMessage)
	log.Println("[INFO] Telegram polling started")

	log.Println("[INFO] CandleSage is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] HTTP shutdown: %v", err)
	}

	log.Println("[INFO] CandleSage stopped")
}
