package classify

import (
	"context"
	"errors"
	"testing"

	"solana-wallet-alerts/internal/domain"
)

const (
	testWallet = "WaLLet1111111111111111111111111111111111111"
	mintA      = "MintA11111111111111111111111111111111111111"
	mintB      = "MintB11111111111111111111111111111111111111"
	usdcMint   = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

type fakeTokens struct {
	infos map[string]*domain.TokenInfo
}

func (f fakeTokens) TokenInfo(_ context.Context, mint string) (*domain.TokenInfo, error) {
	if info, ok := f.infos[mint]; ok {
		return info, nil
	}
	return nil, nil
}

func newTestClassifier(infos map[string]*domain.TokenInfo) *Classifier {
	return NewClassifier(fakeTokens{infos: infos})
}

func buyTx() *domain.RawTransaction {
	return &domain.RawTransaction{
		Signature:     "sig-buy",
		WalletAddress: testWallet,
		AccountBalances: []domain.AccountBalance{
			{Account: testWallet, PreLamports: 2_000_000_000, PostLamports: 900_000_000},
			{Account: "pool", PreLamports: 0, PostLamports: 1_100_000_000},
		},
		PreTokenBalances: []domain.TokenBalance{
			{Mint: mintA, Owner: testWallet, RawAmount: 0},
		},
		PostTokenBalances: []domain.TokenBalance{
			{Mint: mintA, Owner: testWallet, RawAmount: 500_000},
		},
	}
}

func TestClassifySimpleBuy(t *testing.T) {
	c := newTestClassifier(nil)

	ev, err := c.Classify(context.Background(), buyTx())
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if ev.Kind != domain.KindSolTokenTrade {
		t.Errorf("Kind = %v, want SolTokenTrade", ev.Kind)
	}
	if !ev.IsBuy {
		t.Error("IsBuy = false, want true")
	}
	if ev.TokenMint != mintA {
		t.Errorf("TokenMint = %v, want %v", ev.TokenMint, mintA)
	}
	if ev.SolAmount != 1.1 {
		t.Errorf("SolAmount = %v, want 1.1", ev.SolAmount)
	}
	if ev.TokenAmount != 500_000 {
		t.Errorf("TokenAmount = %v, want 500000", ev.TokenAmount)
	}
	if ev.EstimatorFallback {
		t.Error("EstimatorFallback set for clean delta")
	}
}

func TestClassifySell(t *testing.T) {
	tx := &domain.RawTransaction{
		Signature:     "sig-sell",
		WalletAddress: testWallet,
		AccountBalances: []domain.AccountBalance{
			{Account: testWallet, PreLamports: 500_000_000, PostLamports: 2_750_000_000},
		},
		PreTokenBalances: []domain.TokenBalance{
			{Mint: mintA, Owner: testWallet, RawAmount: 800_000},
		},
		PostTokenBalances: []domain.TokenBalance{
			{Mint: mintA, Owner: testWallet, RawAmount: 300_000},
		},
	}

	c := newTestClassifier(nil)
	ev, err := c.Classify(context.Background(), tx)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if ev.IsBuy {
		t.Error("IsBuy = true, want false")
	}
	if ev.SolAmount != 2.25 {
		t.Errorf("SolAmount = %v, want 2.25", ev.SolAmount)
	}
	if ev.TokenAmount != 500_000 {
		t.Errorf("TokenAmount = %v, want 500000", ev.TokenAmount)
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	c := newTestClassifier(nil)
	tx := buyTx()

	first, err := c.Classify(context.Background(), tx)
	if err != nil {
		t.Fatalf("first Classify: %v", err)
	}
	second, err := c.Classify(context.Background(), tx)
	if err != nil {
		t.Fatalf("second Classify: %v", err)
	}
	if *first != *second {
		t.Errorf("classification not idempotent: %+v vs %+v", first, second)
	}
}

func TestClassifyStableTradeDefaults(t *testing.T) {
	tx := &domain.RawTransaction{
		Signature:     "sig-stable",
		WalletAddress: testWallet,
		AccountBalances: []domain.AccountBalance{
			{Account: testWallet, PreLamports: 2_000_000_000, PostLamports: 1_000_000_000},
		},
		PreTokenBalances: []domain.TokenBalance{
			{Mint: usdcMint, Owner: testWallet, RawAmount: 0},
		},
		PostTokenBalances: []domain.TokenBalance{
			{Mint: usdcMint, Owner: testWallet, RawAmount: 25_000_000},
		},
	}

	c := newTestClassifier(map[string]*domain.TokenInfo{
		usdcMint: {Mint: usdcMint, Symbol: "USDC"},
	})
	ev, err := c.Classify(context.Background(), tx)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if ev.Kind != domain.KindStableCoinTrade {
		t.Fatalf("Kind = %v, want StableCoinTrade", ev.Kind)
	}
	// No parseable transfer instructions: documented default amounts.
	if ev.SolAmount != 1.0 {
		t.Errorf("SolAmount = %v, want default 1.0", ev.SolAmount)
	}
	if ev.StableAmount != 10.0 {
		t.Errorf("StableAmount = %v, want default 10.0", ev.StableAmount)
	}
	if !ev.EstimatorFallback {
		t.Error("default amounts must be flagged as fallback")
	}
	// Stable balance increased for the wallet.
	if !ev.IsBuy {
		t.Error("IsBuy = false, want true")
	}
}

func TestClassifyStableTradeFromInstructions(t *testing.T) {
	tx := &domain.RawTransaction{
		Signature:     "sig-stable-ix",
		WalletAddress: testWallet,
		AccountBalances: []domain.AccountBalance{
			{Account: testWallet, PreLamports: 3_000_000_000, PostLamports: 500_000_000},
		},
		PostTokenBalances: []domain.TokenBalance{
			{Mint: usdcMint, Owner: testWallet, RawAmount: 50_000_000},
		},
		Instructions: []domain.Instruction{
			{
				Program:    "system",
				ParsedType: "transfer",
				Info:       map[string]string{"source": testWallet, "destination": "pool", "lamports": "2500000000"},
			},
			{
				Program:    "spl-token",
				ParsedType: "transferChecked",
				Info:       map[string]string{"source": "pool", "destination": testWallet, "tokenAmount": "50000000"},
			},
		},
	}

	c := newTestClassifier(map[string]*domain.TokenInfo{
		usdcMint: {Mint: usdcMint, Symbol: "USDC"},
	})
	ev, err := c.Classify(context.Background(), tx)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if ev.SolAmount != 2.5 {
		t.Errorf("SolAmount = %v, want 2.5", ev.SolAmount)
	}
	if ev.StableAmount != 50.0 {
		t.Errorf("StableAmount = %v, want 50.0", ev.StableAmount)
	}
	// Wallet is the source of the first transfer.
	if ev.IsBuy {
		t.Error("IsBuy = true, want false")
	}
	if ev.EstimatorFallback {
		t.Error("fallback flagged despite parseable instructions")
	}
}

func TestClassifyStableTradePlainTransferAmount(t *testing.T) {
	// Plain spl-token transfers carry the raw amount under "amount", not
	// "tokenAmount". Both keys must feed the stable leg.
	tx := &domain.RawTransaction{
		Signature:     "sig-stable-plain",
		WalletAddress: testWallet,
		AccountBalances: []domain.AccountBalance{
			{Account: testWallet, PreLamports: 2_000_000_000, PostLamports: 500_000_000},
		},
		PostTokenBalances: []domain.TokenBalance{
			{Mint: usdcMint, Owner: testWallet, RawAmount: 75_000_000},
		},
		Instructions: []domain.Instruction{
			{
				Program:    "system",
				ParsedType: "transfer",
				Info:       map[string]string{"source": testWallet, "destination": "pool", "lamports": "1500000000"},
			},
			{
				Program:    "spl-token",
				ParsedType: "transfer",
				Info:       map[string]string{"source": "pool", "destination": testWallet, "amount": "75000000"},
			},
		},
	}

	c := newTestClassifier(map[string]*domain.TokenInfo{
		usdcMint: {Mint: usdcMint, Symbol: "USDC"},
	})
	ev, err := c.Classify(context.Background(), tx)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if ev.SolAmount != 1.5 {
		t.Errorf("SolAmount = %v, want 1.5", ev.SolAmount)
	}
	if ev.StableAmount != 75.0 {
		t.Errorf("StableAmount = %v, want 75.0", ev.StableAmount)
	}
	if ev.EstimatorFallback {
		t.Error("fallback flagged despite a parseable plain transfer")
	}
}

func TestClassifyTokenSwapDirectionFromDeltas(t *testing.T) {
	// Array order says A then B, but the wallet's balances say B was sold
	// for A. Direction must follow the deltas.
	tx := &domain.RawTransaction{
		Signature:     "sig-swap",
		WalletAddress: testWallet,
		AccountBalances: []domain.AccountBalance{
			{Account: testWallet, PreLamports: 1_000_000_000, PostLamports: 995_000_000},
		},
		PreTokenBalances: []domain.TokenBalance{
			{Mint: mintA, Owner: testWallet, RawAmount: 0},
			{Mint: mintB, Owner: testWallet, RawAmount: 900_000},
		},
		PostTokenBalances: []domain.TokenBalance{
			{Mint: mintA, Owner: testWallet, RawAmount: 400_000},
			{Mint: mintB, Owner: testWallet, RawAmount: 0},
		},
	}

	c := newTestClassifier(nil)
	ev, err := c.Classify(context.Background(), tx)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if ev.Kind != domain.KindTokenSwap {
		t.Fatalf("Kind = %v, want TokenSwap", ev.Kind)
	}
	if ev.FromMint != mintB || ev.ToMint != mintA {
		t.Errorf("direction = %s -> %s, want %s -> %s", ev.FromMint, ev.ToMint, mintB, mintA)
	}
	if ev.FromAmount != 900_000 {
		t.Errorf("FromAmount = %v, want 900000", ev.FromAmount)
	}
	if ev.ToAmount != 400_000 {
		t.Errorf("ToAmount = %v, want 400000", ev.ToAmount)
	}
}

func TestClassifyWSOLRoutedTrade(t *testing.T) {
	// WSOL appears as a second mint: still a SOL/token trade, with the
	// SOL side read from the wallet's wrapped-SOL delta.
	tx := &domain.RawTransaction{
		Signature:     "sig-wsol",
		WalletAddress: testWallet,
		PreTokenBalances: []domain.TokenBalance{
			{Mint: domain.WSOLMint, Owner: testWallet, RawAmount: 3_000_000_000},
			{Mint: mintA, Owner: testWallet, RawAmount: 0},
		},
		PostTokenBalances: []domain.TokenBalance{
			{Mint: domain.WSOLMint, Owner: testWallet, RawAmount: 750_000_000},
			{Mint: mintA, Owner: testWallet, RawAmount: 120_000},
		},
	}

	c := newTestClassifier(nil)
	ev, err := c.Classify(context.Background(), tx)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if ev.Kind != domain.KindSolTokenTrade {
		t.Fatalf("Kind = %v, want SolTokenTrade", ev.Kind)
	}
	if !ev.IsBuy {
		t.Error("IsBuy = false, want true")
	}
	if ev.SolAmount != 2.25 {
		t.Errorf("SolAmount = %v, want 2.25", ev.SolAmount)
	}
	if ev.EstimatorFallback {
		t.Error("fallback flagged despite WSOL delta")
	}
}

func TestClassifyTokenAmountFixup(t *testing.T) {
	tx := buyTx()
	tx.PostTokenBalances[0].RawAmount = 2e12

	c := newTestClassifier(nil)
	ev, err := c.Classify(context.Background(), tx)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if ev.TokenAmount != 2e6 {
		t.Errorf("TokenAmount = %v, want 2e6 after scaling fix", ev.TokenAmount)
	}
}

func TestClassifyInsufficientData(t *testing.T) {
	tx := &domain.RawTransaction{
		Signature:     "sig-empty",
		WalletAddress: testWallet,
	}

	c := newTestClassifier(nil)
	_, err := c.Classify(context.Background(), tx)
	if err == nil {
		t.Fatal("expected classification failure")
	}
	var cerr *ClassificationError
	if !errors.As(err, &cerr) {
		t.Fatalf("error type = %T, want *ClassificationError", err)
	}
	if cerr.Reason != ReasonInsufficientData {
		t.Errorf("Reason = %v, want INSUFFICIENT_DATA", cerr.Reason)
	}
}

func TestClassifyPriceRescueOnFallback(t *testing.T) {
	// No usable SOL delta: the estimator falls back, then the token price
	// rescues a derived amount.
	tx := &domain.RawTransaction{
		Signature:     "sig-rescue",
		WalletAddress: testWallet,
		PreTokenBalances: []domain.TokenBalance{
			{Mint: mintA, Owner: testWallet, RawAmount: 0},
		},
		PostTokenBalances: []domain.TokenBalance{
			{Mint: mintA, Owner: testWallet, RawAmount: 1_500_000_000},
		},
	}

	c := newTestClassifier(map[string]*domain.TokenInfo{
		mintA: {Mint: mintA, Symbol: "AAA", PriceUsd: 0.000002},
	})
	ev, err := c.Classify(context.Background(), tx)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if ev.EstimatorFallback {
		t.Error("rescue should clear the fallback flag")
	}
	if ev.SolAmount != 0.003 {
		t.Errorf("SolAmount = %v, want 0.003", ev.SolAmount)
	}
}
