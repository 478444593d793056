// Package pipeline orchestrates classification, enrichment and holder
// tracking for the incoming transaction stream.
package pipeline

import (
	"context"
	"log"
	"os"

	"solana-wallet-alerts/internal/classify"
	"solana-wallet-alerts/internal/domain"
	"solana-wallet-alerts/internal/holders"
	"solana-wallet-alerts/internal/observability"
)

// RiskProvider resolves an external risk report for a mint. Lookups may
// fail; enrichment fields are simply omitted.
type RiskProvider interface {
	RiskReport(ctx context.Context, mint string) (*domain.RiskReport, error)
}

// WalletNamer maps wallet addresses to human labels.
type WalletNamer interface {
	Name(wallet string) (string, bool)
}

// Config wires a Pipeline. Classifier and Tracker are required; the
// enrichment collaborators and metrics are optional.
type Config struct {
	Classifier *classify.Classifier
	Tracker    *holders.Tracker
	Tokens     classify.TokenInfoProvider
	Risks      RiskProvider
	Names      WalletNamer
	Metrics    *observability.Metrics
	Logger     *log.Logger
}

// Pipeline turns raw transactions into enriched events. Classification
// failures are dropped with a logged reason; no error crosses the
// pipeline boundary. All external lookups happen before any tracker
// mutation so position state is never held across a blocking call.
type Pipeline struct {
	classifier *classify.Classifier
	tracker    *holders.Tracker
	tokens     classify.TokenInfoProvider
	risks      RiskProvider
	names      WalletNamer
	metrics    *observability.Metrics
	logger     *log.Logger
}

// New creates a Pipeline from the config.
func New(cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[pipeline] ", log.LstdFlags|log.Lshortfile)
	}
	return &Pipeline{
		classifier: cfg.Classifier,
		tracker:    cfg.Tracker,
		tokens:     cfg.Tokens,
		risks:      cfg.Risks,
		names:      cfg.Names,
		metrics:    cfg.Metrics,
		logger:     logger,
	}
}

// Process classifies one transaction and applies holder tracking. The
// second return value reports whether an event was produced; a false
// return means the transaction was dropped.
func (p *Pipeline) Process(ctx context.Context, tx *domain.RawTransaction) (*domain.EnrichedEvent, bool) {
	classified, err := p.classifier.Classify(ctx, tx)
	if err != nil {
		reason := "unknown"
		if cerr, ok := err.(*classify.ClassificationError); ok {
			reason = string(cerr.Reason)
		}
		p.logger.Printf("dropping %s: %v", tx.Signature, err)
		if p.metrics != nil {
			p.metrics.EventsDropped.WithLabelValues(reason).Inc()
		}
		return nil, false
	}

	ev := &domain.EnrichedEvent{ClassifiedEvent: *classified}

	// Enrichment first: lookups block, tracker mutation must not.
	ev.Token = p.lookupToken(ctx, enrichmentMint(classified))
	ev.Risk = p.lookupRisk(ctx, enrichmentMint(classified))
	if p.names != nil {
		if name, ok := p.names.Name(classified.Wallet); ok {
			ev.WalletName = name
		}
	}

	if classified.Kind == domain.KindSolTokenTrade {
		p.track(ev)
	}

	if p.metrics != nil {
		p.metrics.EventsProcessed.WithLabelValues(string(classified.Kind)).Inc()
		if classified.EstimatorFallback {
			p.metrics.EstimatorFallbacks.Inc()
		}
		if ev.HolderType != "" {
			p.metrics.HolderBuys.WithLabelValues(string(ev.HolderType)).Inc()
		}
		p.metrics.LastEventTimestamp.SetToCurrentTime()
	}
	return ev, true
}

// track applies the holder-state rules for a SOL/token trade. Buys
// classify the holder before mutating the position; sells only mutate and
// derive the sell percentage from the prior amount.
func (p *Pipeline) track(ev *domain.EnrichedEvent) {
	if ev.IsBuy {
		ev.HolderType = p.tracker.ClassifyHolder(ev.TokenMint, ev.Wallet)
		ev.PreviousAmount, ev.CurrentAmount = p.tracker.UpdatePosition(ev.TokenMint, ev.Wallet, ev.TokenAmount, true)
		return
	}
	ev.PreviousAmount, ev.CurrentAmount = p.tracker.UpdatePosition(ev.TokenMint, ev.Wallet, ev.TokenAmount, false)
	if pct, ok := holders.SellPercentage(ev.PreviousAmount, ev.TokenAmount); ok {
		ev.SellPercentage = &pct
	}
}

func (p *Pipeline) lookupToken(ctx context.Context, mint string) *domain.TokenInfo {
	if p.tokens == nil || mint == "" {
		return nil
	}
	info, err := p.tokens.TokenInfo(ctx, mint)
	if err != nil {
		p.logger.Printf("token info lookup failed for %s: %v", mint, err)
		if p.metrics != nil {
			p.metrics.LookupFailures.WithLabelValues("token_info").Inc()
		}
		return nil
	}
	return info
}

func (p *Pipeline) lookupRisk(ctx context.Context, mint string) *domain.RiskReport {
	if p.risks == nil || mint == "" {
		return nil
	}
	report, err := p.risks.RiskReport(ctx, mint)
	if err != nil {
		p.logger.Printf("risk lookup failed for %s: %v", mint, err)
		if p.metrics != nil {
			p.metrics.LookupFailures.WithLabelValues("risk").Inc()
		}
		return nil
	}
	return report
}

// enrichmentMint picks the mint whose metadata the alert displays: the
// traded token, or the destination side of a swap.
func enrichmentMint(ev *domain.ClassifiedEvent) string {
	if ev.Kind == domain.KindTokenSwap {
		return ev.ToMint
	}
	return ev.TokenMint
}
