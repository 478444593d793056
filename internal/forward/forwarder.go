// Package forward relays qualifying first-holder buys to a copy-trading
// chat as bare mint addresses.
package forward

import (
	"context"
	"log"
	"sync"

	"solana-wallet-alerts/internal/domain"
	"solana-wallet-alerts/internal/pipeline"
)

// Market-cap window for forwarding. Below the floor the token is too
// fresh to trade; above the ceiling the entry is already gone.
const (
	DefaultMinMarketCap = 90_000
	DefaultMaxMarketCap = 2_000_000
)

// TextSender delivers a plain message. Implemented by
// notify.TelegramPublisher.
type TextSender interface {
	SendText(ctx context.Context, text string) error
}

// Forwarder publishes the mint of every first-holder buy whose displayed
// market cap falls inside the configured window. Each mint is forwarded
// at most once.
type Forwarder struct {
	sender TextSender
	minCap float64
	maxCap float64
	logger *log.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

var _ pipeline.Publisher = (*Forwarder)(nil)

// Option configures a Forwarder.
type Option func(*Forwarder)

// WithMarketCapWindow overrides the forwarding window.
func WithMarketCapWindow(minCap, maxCap float64) Option {
	return func(f *Forwarder) {
		f.minCap = minCap
		f.maxCap = maxCap
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *log.Logger) Option {
	return func(f *Forwarder) {
		f.logger = logger
	}
}

// NewForwarder creates a forwarder around the given sender.
func NewForwarder(sender TextSender, opts ...Option) *Forwarder {
	f := &Forwarder{
		sender: sender,
		minCap: DefaultMinMarketCap,
		maxCap: DefaultMaxMarketCap,
		logger: log.Default(),
		seen:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Publish forwards the event's mint when it passes the gate. Events that
// do not qualify are ignored without error.
func (f *Forwarder) Publish(ctx context.Context, ev *domain.EnrichedEvent) error {
	if !f.qualifies(ev) {
		return nil
	}
	if !f.markSeen(ev.TokenMint) {
		return nil
	}
	if err := f.sender.SendText(ctx, ev.TokenMint); err != nil {
		// Allow a retry on the next qualifying event for this mint.
		f.unmark(ev.TokenMint)
		return err
	}
	f.logger.Printf("forwarded mint %s (market cap in window)", ev.TokenMint)
	return nil
}

func (f *Forwarder) qualifies(ev *domain.EnrichedEvent) bool {
	if ev.Kind != domain.KindSolTokenTrade || !ev.IsBuy {
		return false
	}
	if ev.HolderType != domain.FirstHolder {
		return false
	}
	if ev.Token == nil {
		return false
	}
	mc := ev.Token.DisplayMarketCap()
	return mc >= f.minCap && mc <= f.maxCap
}

func (f *Forwarder) markSeen(mint string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.seen[mint]; ok {
		return false
	}
	f.seen[mint] = struct{}{}
	return true
}

func (f *Forwarder) unmark(mint string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.seen, mint)
}
