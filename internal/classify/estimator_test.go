package classify

import (
	"testing"

	"solana-wallet-alerts/internal/domain"
)

func TestEstimateFallbackOnEmptyBalances(t *testing.T) {
	var e Estimator

	buy := e.Estimate(nil, true, SingleTradeBound)
	if buy.SolAmount != 1.09 {
		t.Errorf("buy fallback = %v, want 1.09", buy.SolAmount)
	}
	if !buy.Fallback {
		t.Error("buy fallback flag not set")
	}

	sell := e.Estimate(nil, false, SingleTradeBound)
	if sell.SolAmount != 0.9 {
		t.Errorf("sell fallback = %v, want 0.9", sell.SolAmount)
	}
	if !sell.Fallback {
		t.Error("sell fallback flag not set")
	}
}

func TestEstimateSimpleBuy(t *testing.T) {
	balances := []domain.AccountBalance{
		{Account: "wallet", PreLamports: 2_000_000_000, PostLamports: 900_000_000},
		{Account: "other", PreLamports: 0, PostLamports: 0},
	}

	var e Estimator
	got := e.Estimate(balances, true, SingleTradeBound)
	if got.Fallback {
		t.Fatal("unexpected fallback for clean buy delta")
	}
	// 1.1 SOL spent, minus the 0.000005 network fee, rounded to 3 decimals.
	if got.SolAmount != 1.1 {
		t.Errorf("SolAmount = %v, want 1.1", got.SolAmount)
	}
}

func TestEstimateSell(t *testing.T) {
	balances := []domain.AccountBalance{
		{Account: "wallet", PreLamports: 500_000_000, PostLamports: 2_750_000_000},
		{Account: "pool", PreLamports: 9_000_000_000, PostLamports: 6_750_000_000},
	}

	var e Estimator
	got := e.Estimate(balances, false, SingleTradeBound)
	if got.Fallback {
		t.Fatal("unexpected fallback for clean sell delta")
	}
	if got.SolAmount != 2.25 {
		t.Errorf("SolAmount = %v, want 2.25", got.SolAmount)
	}
}

func TestEstimateClampReplacesImplausibleAmount(t *testing.T) {
	// 15 SOL spent is outside the single-trade bound and must never be
	// returned as-is.
	balances := []domain.AccountBalance{
		{Account: "wallet", PreLamports: 20_000_000_000, PostLamports: 5_000_000_000},
	}

	var e Estimator
	got := e.Estimate(balances, true, SingleTradeBound)
	if !got.Fallback {
		t.Fatal("expected fallback for out-of-bound estimate")
	}
	if got.SolAmount != 1.09 {
		t.Errorf("SolAmount = %v, want 1.09", got.SolAmount)
	}
}

func TestEstimateWiderSwapBound(t *testing.T) {
	balances := []domain.AccountBalance{
		{Account: "wallet", PreLamports: 20_000_000_000, PostLamports: 5_000_000_000},
	}

	var e Estimator
	got := e.Estimate(balances, true, SwapBound)
	if got.Fallback {
		t.Fatal("15 SOL should pass the aggregated swap bound")
	}
	if got.SolAmount != 15.0 {
		t.Errorf("SolAmount = %v, want 15.0 after rounding", got.SolAmount)
	}
}

func TestEstimateNoDeltaOfRequiredSign(t *testing.T) {
	// Only inflows present: a buy has nothing to select and falls back.
	balances := []domain.AccountBalance{
		{Account: "wallet", PreLamports: 1_000_000_000, PostLamports: 3_000_000_000},
	}

	var e Estimator
	got := e.Estimate(balances, true, SingleTradeBound)
	if !got.Fallback || got.SolAmount != 1.09 {
		t.Errorf("got %+v, want fallback 1.09", got)
	}
}

func TestPriceRescue(t *testing.T) {
	tests := []struct {
		name     string
		priceUsd float64
		raw      float64
		bound    float64
		want     float64
		ok       bool
	}{
		{"plausible", 0.000002, 1_500_000_000, SingleTradeBound, 0.000002 * 1_500_000_000 / 1e6, true},
		{"zero price", 0, 1_500_000_000, SingleTradeBound, 0, false},
		{"zero amount", 0.000002, 0, SingleTradeBound, 0, false},
		{"over bound", 1.0, 500_000_000_000, SingleTradeBound, 0, false},
	}
	for _, tt := range tests {
		got, ok := PriceRescue(tt.priceUsd, tt.raw, tt.bound)
		if ok != tt.ok {
			t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if ok && got != Round3(tt.want) {
			t.Errorf("%s: value = %v, want %v", tt.name, got, Round3(tt.want))
		}
	}
}

func TestFixTokenAmount(t *testing.T) {
	if got := FixTokenAmount(2e12); got != 2e6 {
		t.Errorf("FixTokenAmount(2e12) = %v, want 2e6", got)
	}
	if got := FixTokenAmount(5e11); got != 5e11 {
		t.Errorf("FixTokenAmount(5e11) = %v, want unchanged", got)
	}
}
