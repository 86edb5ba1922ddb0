// Command fetch_klines downloads historical candles into a CSV file and the
// local kline cache, or imports a previously written CSV into the cache.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/devenn05/Crypto-signal-check/config"
	"github.com/devenn05/Crypto-signal-check/internal/adapters/binanceclient"
	"github.com/devenn05/Crypto-signal-check/internal/adapters/logger"
	"github.com/devenn05/Crypto-signal-check/internal/adapters/sqlite"
	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/utils"
)

func main() {
	marketFlag := flag.String("market", "", "market type (spot/futures), defaults to DEFAULT_MARKET")
	symbol := flag.String("symbol", "BTCUSDT", "trading pair")
	interval := flag.String("interval", "1h", "kline interval, e.g. 15m, 4h, 1d")
	days := flag.Int("days", 30, "days of history to fetch")
	importFile := flag.String("import", "", "seed the kline cache from this CSV instead of fetching")
	noCache := flag.Bool("no-cache", false, "only write the CSV file")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()

	market := cfg.DefaultMarket
	if *marketFlag != "" {
		if market, err = domain.ParseMarketType(*marketFlag); err != nil {
			log.Fatalf("FATAL: %v", err)
		}
	}
	sym := strings.ToUpper(*symbol)
	if !domain.IsValidInterval(*interval) {
		log.Fatalf("FATAL: unsupported interval %q", *interval)
	}

	var repo *sqlite.Repository
	if !*noCache {
		repo, err = sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
		if err != nil {
			appLogger.Error(ctx, err, "FATAL: Failed to initialize kline repository")
			log.Fatalf("FATAL: Failed to initialize kline repository: %v", err)
		}
		defer repo.Close()
	}

	if *importFile != "" {
		if repo == nil {
			log.Fatalf("FATAL: -import requires the kline cache")
		}
		klines, err := utils.ReadKlinesFromCSV(*importFile)
		if err != nil {
			appLogger.Error(ctx, err, "Error reading CSV")
			log.Fatalf("Error reading CSV: %v", err)
		}
		if err := repo.SaveKlines(ctx, market, klines); err != nil {
			appLogger.Error(ctx, err, "Error seeding kline cache")
			log.Fatalf("Error seeding kline cache: %v", err)
		}
		appLogger.Info(ctx, "Imported klines", map[string]interface{}{"count": len(klines), "file": *importFile})
		return
	}

	// 3. Initialize Exchange Client (Binance Adapter)
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

	end := time.Now()
	start := end.AddDate(0, 0, -*days)

	fmt.Printf("Fetching %s klines for %s %s from %s to %s...\n", market, sym, *interval, start.Format(time.RFC3339), end.Format(time.RFC3339))
	klines, err := binanceClient.GetKlinesRange(ctx, market, sym, *interval, start, end)
	if err != nil {
		appLogger.Error(ctx, err, "Error fetching klines")
		log.Fatalf("Error fetching klines: %v", err)
	}
	appLogger.Info(ctx, "Fetched klines", map[string]interface{}{"count": len(klines)})

	filename := fmt.Sprintf("data/%s_%s_%s_%s_to_%s.csv", market, sym, *interval, start.Format("20060102"), end.Format("20060102"))
	if err := utils.WriteKlinesToCSV(klines, filename); err != nil {
		appLogger.Error(ctx, err, "Error writing CSV")
		log.Fatalf("Error writing CSV: %v", err)
	}
	appLogger.Info(ctx, "Saved to", map[string]interface{}{"filename": filename})

	if repo != nil {
		if err := repo.SaveKlines(ctx, market, klines); err != nil {
			appLogger.Error(ctx, err, "Error seeding kline cache")
			log.Fatalf("Error seeding kline cache: %v", err)
		}
		appLogger.Info(ctx, "Kline cache updated", map[string]interface{}{"path": cfg.DBPath})
	}
}
