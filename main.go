package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devenn05/Crypto-signal-check/config"
	"github.com/devenn05/Crypto-signal-check/internal/adapters/binanceclient"
	"github.com/devenn05/Crypto-signal-check/internal/adapters/breaker"
	"github.com/devenn05/Crypto-signal-check/internal/adapters/feargreed"
	"github.com/devenn05/Crypto-signal-check/internal/adapters/logger"
	"github.com/devenn05/Crypto-signal-check/internal/adapters/rediscache"
	"github.com/devenn05/Crypto-signal-check/internal/adapters/sqlite"
	"github.com/devenn05/Crypto-signal-check/internal/api"
	"github.com/devenn05/Crypto-signal-check/internal/app"
	"github.com/devenn05/Crypto-signal-check/internal/app/appobs"
	"github.com/devenn05/Crypto-signal-check/internal/cli"
	"github.com/devenn05/Crypto-signal-check/internal/metrics"
	"github.com/devenn05/Crypto-signal-check/internal/ports"
	"github.com/devenn05/Crypto-signal-check/internal/risk"
	"github.com/devenn05/Crypto-signal-check/internal/scheduler"
	"github.com/devenn05/Crypto-signal-check/internal/strategy"
	"github.com/devenn05/Crypto-signal-check/internal/strategy/evaluators"
	"github.com/devenn05/Crypto-signal-check/internal/trace"
)

const version = "1.0.0"

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Tracing and metrics
	if err := trace.Init(trace.Config{Enabled: cfg.TracingEnabled, Version: version, Writer: os.Stderr}); err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize tracing")
		log.Fatalf("FATAL: Failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := trace.Shutdown(shutdownCtx); err != nil {
			appLogger.Error(context.Background(), err, "Error shutting down tracing")
		}
	}()
	m := metrics.New(nil)

	// 4. Initialize Exchange Client (Binance Adapter)
	binanceClient, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
		Timeout:    cfg.HTTPTimeout,
	})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize Binance client")
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}
	appLogger.Info(ctx, "Binance client initialized", map[string]interface{}{"testnet": cfg.IsTestnet})

	// 5. Initialize Sentiment Client
	sentimentBreaker := newBreaker("feargreed", cfg, m)
	sentiment, err := feargreed.New(feargreed.Config{
		URL:     cfg.FearGreedURL,
		Timeout: cfg.HTTPTimeout,
		Breaker: sentimentBreaker,
		Logger:  appLogger,
	})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize fear and greed client")
		log.Fatalf("FATAL: Failed to initialize fear and greed client: %v", err)
	}

	// 6. Optional caches. A nil concrete pointer must not reach the service
	// as a non-nil interface, so the ports are assigned only on success.
	var cache ports.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := rediscache.New(ctx, rediscache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, newBreaker("redis", cfg, m), appLogger)
		if err != nil {
			appLogger.Warn(ctx, "Redis unavailable, running without shared cache", map[string]interface{}{"error": err.Error()})
		} else {
			cache = redisCache
			defer func() {
				if err := redisCache.Close(); err != nil {
					appLogger.Error(context.Background(), err, "Error closing redis cache")
				}
			}()
		}
	}

	var klineRepo ports.KlineRepository
	if cfg.KlineCacheEnabled {
		repo, err := sqlite.NewRepository(sqlite.Config{
			DBPath: cfg.DBPath,
			Logger: appLogger,
		})
		if err != nil {
			appLogger.Error(ctx, err, "FATAL: Failed to initialize kline repository")
			log.Fatalf("FATAL: Failed to initialize kline repository: %v", err) // Also log to stderr
		}
		klineRepo = repo
		defer func() {
			if err := repo.Close(); err != nil {
				appLogger.Error(context.Background(), err, "Error closing kline repository")
			}
		}()
		appLogger.Info(ctx, "Kline repository initialized", map[string]interface{}{"path": cfg.DBPath})
	}

	// 7. Initialize Engine
	seed := cfg.MinerSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine, err := strategy.New(cfg.Strategy, evaluators.All(cfg.Strategy.Evaluators, rand.New(rand.NewSource(seed))), appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize analysis engine")
		log.Fatalf("FATAL: Failed to initialize analysis engine: %v", err)
	}
	advisor, err := risk.NewAdvisor(risk.DefaultAdvisorConfig())
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize advisor")
		log.Fatalf("FATAL: Failed to initialize advisor: %v", err)
	}

	// 8. Initialize Application Service
	service, err := app.NewAnalysisService(
		app.ServiceConfig{
			KlineLimit:     cfg.KlineLimit,
			OrderBookDepth: cfg.OrderBookDepth,
			CacheTTL:       cfg.CacheTTL,
		},
		appLogger,
		binanceClient,
		sentiment,
		engine,
		advisor,
		klineRepo,
		cache,
	)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize analysis service")
		log.Fatalf("FATAL: Failed to initialize analysis service: %v", err)
	}
	analyzer := appobs.Wrap(service, appLogger, m)
	appLogger.Info(ctx, "Analysis service initialized")

	// 9. Run the selected mode
	switch {
	case cfg.WebMode:
		server, err := api.NewServer(analyzer, appLogger, m.Handler(), binanceClient)
		if err != nil {
			appLogger.Error(ctx, err, "FATAL: Failed to initialize API server")
			log.Fatalf("FATAL: Failed to initialize API server: %v", err)
		}
		if err := server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
			appLogger.Error(ctx, err, "API server exited with error")
			os.Exit(1)
		}

	case cfg.WatchSpec != "":
		watchlist, err := scheduler.ParseWatchlist(cfg.WatchSpec)
		if err != nil {
			appLogger.Error(ctx, err, "FATAL: Invalid WATCH_SPEC")
			log.Fatalf("FATAL: Invalid WATCH_SPEC: %v", err)
		}
		sched, err := scheduler.New(analyzer, appLogger, watchlist, 2*cfg.HTTPTimeout)
		if err != nil {
			appLogger.Error(ctx, err, "FATAL: Failed to initialize scheduler")
			log.Fatalf("FATAL: Failed to initialize scheduler: %v", err)
		}
		if err := sched.Register(cfg.WatchCron); err != nil {
			appLogger.Error(ctx, err, "FATAL: Failed to register watch task")
			log.Fatalf("FATAL: Failed to register watch task: %v", err)
		}
		sched.Start()
		sched.RunOnce()
		<-ctx.Done()
		sched.Stop()

	default:
		if err := cli.Run(ctx, analyzer, os.Stdin, os.Stdout); err != nil {
			appLogger.Debug(ctx, "Interactive analysis failed", map[string]interface{}{"reason": app.Classify(err)})
		}
	}

	appLogger.Info(context.Background(), "Application finished gracefully.")
}

func newBreaker(name string, cfg *config.Config, m *metrics.Metrics) *breaker.Breaker {
	b := breaker.New(name, cfg.BreakerMaxFailures, cfg.BreakerResetTimeout)
	b.OnStateChange = m.BreakerTransition
	return b
}
