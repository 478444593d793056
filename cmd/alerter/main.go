// Package main runs the wallet alert service: relay subscription →
// transaction classification → enrichment → holder tracking → alert
// publishing and audit logging.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"

	"solana-wallet-alerts/internal/classify"
	"solana-wallet-alerts/internal/config"
	"solana-wallet-alerts/internal/enrichment"
	"solana-wallet-alerts/internal/forward"
	"solana-wallet-alerts/internal/holders"
	"solana-wallet-alerts/internal/notify"
	"solana-wallet-alerts/internal/observability"
	"solana-wallet-alerts/internal/pipeline"
	"solana-wallet-alerts/internal/relay"
	"solana-wallet-alerts/internal/solana"
	"solana-wallet-alerts/internal/storage"
	csvstore "solana-wallet-alerts/internal/storage/csv"
	"solana-wallet-alerts/internal/storage/migrations"
	"solana-wallet-alerts/internal/storage/postgres"
	"solana-wallet-alerts/internal/wallets"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "alerter: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	relayURL := flag.String("relay-url", "", "Alert relay WebSocket URL (overrides RELAY_URL)")
	rpcURL := flag.String("rpc-url", "", "Solana RPC endpoint (overrides SOLANA_RPC_URL)")
	csvDir := flag.String("csv-dir", "", "Directory for CSV output (overrides CSV_DIR)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus listen address (overrides METRICS_ADDR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *relayURL != "" {
		cfg.Relay.URL = *relayURL
	}
	if *rpcURL != "" {
		cfg.Solana.RPCURL = *rpcURL
	}
	if *csvDir != "" {
		cfg.Storage.CSVDir = *csvDir
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	logger := log.New(os.Stdout, "[alerter] ", log.LstdFlags)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("received signal %v, shutting down", sig)
		cancel()
	}()

	metrics := observability.NewMetrics("")
	go serveMetrics(cfg.Metrics.Addr, logger)

	rpcClient := solana.NewHTTPClient(cfg.Solana.RPCURL,
		solana.WithTimeout(cfg.Solana.Timeout),
		solana.WithMaxRetries(cfg.Solana.MaxRetries),
	)
	relayClient := relay.NewClient(relay.ClientConfig{
		URL:               cfg.Relay.URL,
		ReconnectDelay:    cfg.Relay.ReconnectDelay,
		MaxReconnectDelay: cfg.Relay.MaxReconnectDelay,
		Logger:            logger,
		Metrics:           metrics,
	})
	source := relay.NewTransactionSource(relayClient, rpcClient, logger)

	tokens := enrichment.NewTokenCache(
		enrichment.NewTokenInfoClient(
			enrichment.WithJupiterURL(cfg.Enrich.JupiterURL),
			enrichment.WithDexScreenerURL(cfg.Enrich.DexScreenerURL),
		),
		enrichment.WithCacheTTL(cfg.Enrich.CacheTTL),
		enrichment.WithCacheMetrics(metrics),
	)
	risks := enrichment.NewRugcheckClient(enrichment.WithRugcheckURL(cfg.Enrich.RugcheckURL))

	directory := wallets.NewDirectory(walletLoader(cfg),
		wallets.WithTTL(cfg.Wallets.TTL),
		wallets.WithLogger(logger),
	)

	auditLog, closeAudit, err := openAuditLog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeAudit()

	publishers, err := buildPublishers(cfg, logger)
	if err != nil {
		return err
	}

	p := pipeline.New(pipeline.Config{
		Classifier: classify.NewClassifier(tokens),
		Tracker:    holders.NewTracker(),
		Tokens:     tokens,
		Risks:      risks,
		Names:      directory,
		Metrics:    metrics,
		Logger:     logger,
	})
	runner := pipeline.NewRunner(pipeline.RunnerOptions{
		Pipeline:   p,
		Source:     source,
		Publishers: publishers,
		AuditLog:   auditLog,
		Metrics:    metrics,
		Logger:     logger,
	})

	if err := runner.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func serveMetrics(addr string, logger *log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	logger.Printf("metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Printf("metrics server: %v", err)
	}
}

func walletLoader(cfg *config.Config) wallets.Loader {
	if cfg.Wallets.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Wallets.RedisAddr})
		return wallets.NewRedisLoader(client, cfg.Wallets.RedisKey)
	}
	return wallets.NewFileLoader(cfg.Wallets.File)
}

func openAuditLog(ctx context.Context, cfg *config.Config, logger *log.Logger) (storage.TransactionLogStore, func(), error) {
	if cfg.Storage.PostgresDSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
		}
		logger.Println("audit log: postgres")
		return postgres.NewTransactionLogStore(pool), pool.Close, nil
	}

	if err := os.MkdirAll(cfg.Storage.CSVDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create csv dir: %w", err)
	}
	path := filepath.Join(cfg.Storage.CSVDir, "transaction_log.csv")
	store, err := csvstore.NewTransactionLogStore(path)
	if err != nil {
		return nil, nil, err
	}
	logger.Printf("audit log: %s", path)
	return store, func() { store.Close() }, nil
}

func buildPublishers(cfg *config.Config, logger *log.Logger) ([]pipeline.Publisher, error) {
	if cfg.Telegram.BotToken == "" {
		logger.Println("telegram disabled, alerts go to the audit log only")
		return nil, nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	publishers := []pipeline.Publisher{
		notify.NewTelegramPublisherWithBot(bot, cfg.Telegram.ChatID),
	}
	if cfg.Forward.ChatID != 0 {
		sender := notify.NewTelegramPublisherWithBot(bot, cfg.Forward.ChatID)
		publishers = append(publishers, forward.NewForwarder(sender,
			forward.WithMarketCapWindow(cfg.Forward.MinMarketCap, cfg.Forward.MaxMarketCap),
			forward.WithLogger(logger),
		))
		logger.Println("copy-buy forwarding enabled")
	}
	return publishers, nil
}
