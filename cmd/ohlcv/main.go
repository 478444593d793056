// Package main runs the OHLCV collector: it polls the transaction log
// for first-holder buys, fetches each token's candle window, and
// publishes the profit/loss summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"solana-wallet-alerts/internal/config"
	"solana-wallet-alerts/internal/notify"
	"solana-wallet-alerts/internal/ohlcv"
	"solana-wallet-alerts/internal/storage"
	"solana-wallet-alerts/internal/storage/clickhouse"
	csvstore "solana-wallet-alerts/internal/storage/csv"
	"solana-wallet-alerts/internal/storage/memory"
	"solana-wallet-alerts/internal/storage/migrations"
	"solana-wallet-alerts/internal/storage/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ohlcv: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	csvDir := flag.String("csv-dir", "", "Directory for CSV input/output (overrides CSV_DIR)")
	pollInterval := flag.Duration("poll-interval", 0, "Transaction-log poll interval (overrides OHLCV_POLL_INTERVAL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *csvDir != "" {
		cfg.Storage.CSVDir = *csvDir
	}
	if *pollInterval > 0 {
		cfg.Bitquery.PollInterval = *pollInterval
	}
	if cfg.Bitquery.APIKey == "" {
		return fmt.Errorf("BITQUERY_API_KEY is required")
	}

	logger := log.New(os.Stdout, "[ohlcv] ", log.LstdFlags)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("received signal %v, shutting down", sig)
		cancel()
	}()

	txLog, summaries, closeStores, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	candles, err := openCandleStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var sender ohlcv.ReportSender
	if cfg.Telegram.BotToken != "" {
		pub, err := notify.NewTelegramPublisher(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return err
		}
		sender = pub
	} else {
		logger.Println("telegram disabled, summaries are persisted only")
	}

	collector := ohlcv.NewCollector(ohlcv.CollectorConfig{
		Log:          txLog,
		Summaries:    summaries,
		Candles:      candles,
		Fetcher:      ohlcv.NewBitqueryClient(cfg.Bitquery.APIKey, ohlcv.WithBitqueryURL(cfg.Bitquery.URL)),
		Sender:       sender,
		PollInterval: cfg.Bitquery.PollInterval,
		Logger:       logger,
	})

	if err := collector.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, logger *log.Logger) (storage.TransactionLogStore, storage.TokenSummaryStore, func(), error) {
	if cfg.Storage.PostgresDSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("run postgres migrations: %w", err)
		}
		logger.Println("stores: postgres")
		return postgres.NewTransactionLogStore(pool), postgres.NewTokenSummaryStore(pool), pool.Close, nil
	}

	if err := os.MkdirAll(cfg.Storage.CSVDir, 0o755); err != nil {
		return nil, nil, nil, fmt.Errorf("create csv dir: %w", err)
	}
	txLog, err := csvstore.NewTransactionLogStore(filepath.Join(cfg.Storage.CSVDir, "transaction_log.csv"))
	if err != nil {
		return nil, nil, nil, err
	}
	summaries, err := csvstore.NewTokenSummaryStore(filepath.Join(cfg.Storage.CSVDir, "token_summaries.csv"))
	if err != nil {
		txLog.Close()
		return nil, nil, nil, err
	}
	logger.Printf("stores: csv files in %s", cfg.Storage.CSVDir)
	closeAll := func() {
		txLog.Close()
		summaries.Close()
	}
	return txLog, summaries, closeAll, nil
}

func openCandleStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (storage.CandleStore, error) {
	if cfg.Storage.ClickhouseDSN == "" {
		logger.Println("candles: memory (no clickhouse configured)")
		return memory.NewCandleStore(), nil
	}
	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
	if err != nil {
		return nil, fmt.Errorf("run clickhouse migrations: %w", err)
	}
	logger.Println("candles: clickhouse")
	return clickhouse.NewCandleStore(conn), nil
}
