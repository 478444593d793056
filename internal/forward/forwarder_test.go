package forward

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-alerts/internal/domain"
)

type recordingSender struct {
	sent []string
	err  error
}

func (s *recordingSender) SendText(_ context.Context, text string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, text)
	return nil
}

func firstHolderBuy(mint string, marketCap float64) *domain.EnrichedEvent {
	return &domain.EnrichedEvent{
		ClassifiedEvent: domain.ClassifiedEvent{
			Kind:      domain.KindSolTokenTrade,
			Wallet:    "WalletA",
			IsBuy:     true,
			TokenMint: mint,
		},
		HolderType: domain.FirstHolder,
		Token:      &domain.TokenInfo{Mint: mint, MarketCap: marketCap},
	}
}

func TestForwarderGate(t *testing.T) {
	sender := &recordingSender{}
	f := NewForwarder(sender, WithLogger(log.New(io.Discard, "", 0)))
	ctx := context.Background()

	require.NoError(t, f.Publish(ctx, firstHolderBuy("MintA", 500_000)))
	assert.Equal(t, []string{"MintA"}, sender.sent)

	// Outside the window, either side.
	require.NoError(t, f.Publish(ctx, firstHolderBuy("MintB", 89_999)))
	require.NoError(t, f.Publish(ctx, firstHolderBuy("MintC", 2_000_001)))
	assert.Len(t, sender.sent, 1)

	// Boundaries are inclusive.
	require.NoError(t, f.Publish(ctx, firstHolderBuy("MintD", 90_000)))
	require.NoError(t, f.Publish(ctx, firstHolderBuy("MintE", 2_000_000)))
	assert.Equal(t, []string{"MintA", "MintD", "MintE"}, sender.sent)
}

func TestForwarderSkipsNonFirstHolder(t *testing.T) {
	sender := &recordingSender{}
	f := NewForwarder(sender, WithLogger(log.New(io.Discard, "", 0)))
	ctx := context.Background()

	ev := firstHolderBuy("MintA", 500_000)
	ev.HolderType = domain.NewHolder
	require.NoError(t, f.Publish(ctx, ev))

	sell := firstHolderBuy("MintB", 500_000)
	sell.IsBuy = false
	require.NoError(t, f.Publish(ctx, sell))

	noToken := firstHolderBuy("MintC", 500_000)
	noToken.Token = nil
	require.NoError(t, f.Publish(ctx, noToken))

	assert.Empty(t, sender.sent)
}

func TestForwarderDedupesPerMint(t *testing.T) {
	sender := &recordingSender{}
	f := NewForwarder(sender, WithLogger(log.New(io.Discard, "", 0)))
	ctx := context.Background()

	require.NoError(t, f.Publish(ctx, firstHolderBuy("MintA", 500_000)))
	require.NoError(t, f.Publish(ctx, firstHolderBuy("MintA", 600_000)))
	assert.Equal(t, []string{"MintA"}, sender.sent)
}

func TestForwarderRetriesAfterSendFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("telegram down")}
	f := NewForwarder(sender, WithLogger(log.New(io.Discard, "", 0)))
	ctx := context.Background()

	require.Error(t, f.Publish(ctx, firstHolderBuy("MintA", 500_000)))

	sender.err = nil
	require.NoError(t, f.Publish(ctx, firstHolderBuy("MintA", 500_000)))
	assert.Equal(t, []string{"MintA"}, sender.sent)
}

func TestForwarderUsesDexMarketCapOnDivergence(t *testing.T) {
	sender := &recordingSender{}
	f := NewForwarder(sender, WithLogger(log.New(io.Discard, "", 0)))
	ctx := context.Background()

	ev := firstHolderBuy("MintA", 5_000_000)
	ev.Token.DexMarketCap = 300_000
	require.NoError(t, f.Publish(ctx, ev))
	assert.Equal(t, []string{"MintA"}, sender.sent, "the displayed market cap drives the gate")
}
