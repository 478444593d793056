package ohlcv

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"solana-wallet-alerts/internal/domain"
	"solana-wallet-alerts/internal/observability"
	"solana-wallet-alerts/internal/pnl"
	"solana-wallet-alerts/internal/storage"
)

// Collection window around the first-holder buy. Data collection waits
// until the window has fully elapsed so the report covers the whole span.
const (
	WindowBefore = 1 * time.Hour
	WindowAfter  = 3 * time.Hour
)

// DefaultPollInterval is how often the transaction log is re-read for
// fresh first-holder buys.
const DefaultPollInterval = 10 * time.Second

// CandleFetcher yields the candles for a mint inside a window.
// Implemented by BitqueryClient.
type CandleFetcher interface {
	FetchCandles(ctx context.Context, mint string, fromMs, toMs int64) ([]*domain.Candle, error)
}

// ReportSender delivers the rendered performance report.
type ReportSender interface {
	SendText(ctx context.Context, text string) error
}

// CollectorConfig configures a Collector.
type CollectorConfig struct {
	Log       storage.TransactionLogStore
	Summaries storage.TokenSummaryStore
	Candles   storage.CandleStore
	Fetcher   CandleFetcher

	// Sender is optional; without it summaries are persisted but not
	// announced.
	Sender ReportSender

	PollInterval time.Duration
	Metrics      *observability.Metrics
	Logger       *log.Logger
	Clock        func() time.Time
}

// Collector polls the transaction log for first-holder buys, waits out
// each token's observation window, then fetches its candles, persists
// them, and appends the profit/loss summary. Each mint is handled once.
type Collector struct {
	log          storage.TransactionLogStore
	summaries    storage.TokenSummaryStore
	candles      storage.CandleStore
	fetcher      CandleFetcher
	sender       ReportSender
	pollInterval time.Duration
	metrics      *observability.Metrics
	logger       *log.Logger
	clock        func() time.Time

	mu        sync.Mutex
	scheduled map[string]struct{}
	wg        sync.WaitGroup
}

// NewCollector creates a collector.
func NewCollector(cfg CollectorConfig) *Collector {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Collector{
		log:          cfg.Log,
		summaries:    cfg.Summaries,
		candles:      cfg.Candles,
		fetcher:      cfg.Fetcher,
		sender:       cfg.Sender,
		pollInterval: cfg.PollInterval,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		clock:        cfg.Clock,
		scheduled:    make(map[string]struct{}),
	}
}

// FetchWindow returns the candle window for a first-holder buy: one hour
// before through three hours after, never reaching before the pair was
// created. Times are Unix ms; creationMs of 0 means unknown.
func FetchWindow(firstBuyMs, creationMs int64) (fromMs, toMs int64) {
	fromMs = firstBuyMs - WindowBefore.Milliseconds()
	if creationMs > fromMs {
		fromMs = creationMs
	}
	return fromMs, firstBuyMs + WindowAfter.Milliseconds()
}

// Run polls until the context is cancelled, then waits for in-flight
// collections to finish.
func (c *Collector) Run(ctx context.Context) error {
	c.logger.Println("Starting OHLCV collector...")
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		c.poll(ctx)
		select {
		case <-ctx.Done():
			c.logger.Println("OHLCV collector stopping")
			c.wg.Wait()
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Collector) poll(ctx context.Context) {
	records, err := c.log.FirstHolderRecords(ctx)
	if err != nil {
		c.logger.Printf("read first-holder records: %v", err)
		return
	}

	for _, rec := range records {
		if c.isScheduled(rec.TokenMint) {
			continue
		}
		exists, err := c.summaries.Exists(ctx, rec.TokenMint)
		if err != nil {
			c.logger.Printf("check summary for %s: %v", rec.TokenMint, err)
			continue
		}
		c.markScheduled(rec.TokenMint)
		if exists {
			continue
		}

		c.logger.Printf("scheduling candle collection for %s", rec.TokenMint)
		c.wg.Add(1)
		go func(rec *domain.TransactionRecord) {
			defer c.wg.Done()
			if err := c.collect(ctx, rec); err != nil && ctx.Err() == nil {
				c.logger.Printf("collect %s: %v", rec.TokenMint, err)
			}
		}(rec)
	}
}

// markScheduled records the mint as handled. The mark is permanent once
// taken: a failed collection is not retried until the process restarts.
// It is taken only after the summary-store check succeeds, so a transient
// store error leaves the mint eligible for the next poll.
func (c *Collector) markScheduled(mint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheduled[mint] = struct{}{}
}

func (c *Collector) isScheduled(mint string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.scheduled[mint]
	return ok
}

func (c *Collector) collect(ctx context.Context, rec *domain.TransactionRecord) error {
	target := time.UnixMilli(rec.Timestamp).Add(WindowAfter)
	if wait := target.Sub(c.clock()); wait > 0 {
		c.logger.Printf("waiting %s before fetching candles for %s", wait.Round(time.Second), rec.TokenMint)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	fromMs, toMs := FetchWindow(rec.Timestamp, rec.CreationTime)
	candles, err := c.fetcher.FetchCandles(ctx, rec.TokenMint, fromMs, toMs)
	if err != nil {
		return fmt.Errorf("fetch candles: %w", err)
	}
	if c.metrics != nil {
		c.metrics.CandlesFetched.Add(float64(len(candles)))
	}
	if len(candles) == 0 {
		c.logger.Printf("no candles for %s in window", rec.TokenMint)
		return nil
	}

	if err := c.candles.InsertBatch(ctx, candles); err != nil {
		return fmt.Errorf("store candles: %w", err)
	}

	summary, err := pnl.Compute(rec, candles)
	if err != nil {
		return fmt.Errorf("compute summary: %w", err)
	}
	summary.Buyers = c.buyerNames(ctx, rec)

	if err := c.summaries.Append(ctx, summary); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil
		}
		return fmt.Errorf("store summary: %w", err)
	}
	if c.metrics != nil {
		c.metrics.SummariesComputed.Inc()
	}
	c.logger.Printf("summary for %s: high %+.2f%%, latest %+.2f%%",
		rec.TokenMint, summary.HighestChangePct, summary.LatestChangePct)

	if c.sender != nil {
		if err := c.sender.SendText(ctx, FormatReport(summary, rec)); err != nil {
			c.logger.Printf("send report for %s: %v", rec.TokenMint, err)
		}
	}
	return nil
}

// buyerNames lists the wallets that bought after the first holder, in
// log order, deduplicated. Failures degrade to an empty list.
func (c *Collector) buyerNames(ctx context.Context, rec *domain.TransactionRecord) []string {
	records, err := c.log.GetByMint(ctx, rec.TokenMint)
	if err != nil {
		c.logger.Printf("read buyers for %s: %v", rec.TokenMint, err)
		return nil
	}

	seen := make(map[string]struct{})
	var buyers []string
	for _, r := range records {
		if r.BuyType == string(domain.FirstHolder) || r.BuyType == "SELL" {
			continue
		}
		if _, ok := seen[r.WalletName]; ok {
			continue
		}
		seen[r.WalletName] = struct{}{}
		buyers = append(buyers, r.WalletName)
	}
	return buyers
}
