package pnl

import (
	"math"
	"testing"

	"solana-wallet-alerts/internal/domain"
)

func candle(ts int64, open, high, low, close float64) *domain.Candle {
	return &domain.Candle{Mint: "MintA", Timestamp: ts, Open: open, High: high, Low: low, Close: close}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeSummary(t *testing.T) {
	rec := &domain.TransactionRecord{
		TokenMint:   "MintA",
		TokenSymbol: "ALPHA",
		Timestamp:   1_700_000_000_000,
		PriceSol:    0.0002,
	}
	candles := []*domain.Candle{
		candle(1_700_000_000_000, 0.0002, 0.0003, 0.00018, 0.00025),
		candle(1_700_000_060_000, 0.00025, 0.0008, 0.00024, 0.0006),
		candle(1_700_000_120_000, 0.0006, 0.0007, 0.0001, 0.0004),
	}

	s, err := Compute(rec, candles)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if s.BasePrice != 0.0002 {
		t.Errorf("BasePrice = %v, want 0.0002", s.BasePrice)
	}
	if s.HighestPrice != 0.0008 || s.HighestPriceTime != 1_700_000_060_000 {
		t.Errorf("highest = %v at %d", s.HighestPrice, s.HighestPriceTime)
	}
	if s.LowestPrice != 0.0001 || s.LowestPriceTime != 1_700_000_120_000 {
		t.Errorf("lowest = %v at %d", s.LowestPrice, s.LowestPriceTime)
	}
	if s.LatestPrice != 0.0004 || s.LatestPriceTime != 1_700_000_120_000 {
		t.Errorf("latest = %v at %d", s.LatestPrice, s.LatestPriceTime)
	}

	if !almostEqual(s.HighestChangePct, 300) {
		t.Errorf("HighestChangePct = %v, want 300", s.HighestChangePct)
	}
	if !almostEqual(s.LowestChangePct, -50) {
		t.Errorf("LowestChangePct = %v, want -50", s.LowestChangePct)
	}
	if !almostEqual(s.LatestChangePct, 100) {
		t.Errorf("LatestChangePct = %v, want 100", s.LatestChangePct)
	}
	if s.CandleCount != 3 {
		t.Errorf("CandleCount = %d, want 3", s.CandleCount)
	}
}

func TestComputeSortsCandles(t *testing.T) {
	rec := &domain.TransactionRecord{TokenMint: "MintA", Timestamp: 100, PriceSol: 1}
	candles := []*domain.Candle{
		candle(300, 2, 2, 2, 2),
		candle(100, 1, 1, 1, 1),
		candle(200, 3, 3, 0.5, 1.5),
	}

	s, err := Compute(rec, candles)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if s.LatestPrice != 2 || s.LatestPriceTime != 300 {
		t.Errorf("latest = %v at %d, want close of the last bar", s.LatestPrice, s.LatestPriceTime)
	}
}

func TestComputeBasePriceFallsBackToFirstCandle(t *testing.T) {
	rec := &domain.TransactionRecord{TokenMint: "MintA", Timestamp: 150}
	candles := []*domain.Candle{
		candle(100, 0.5, 0.6, 0.4, 0.55), // before the buy, ignored for the base
		candle(200, 2, 4, 1, 3),
	}

	s, err := Compute(rec, candles)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if s.BasePrice != 2 {
		t.Errorf("BasePrice = %v, want open of first candle at/after the buy", s.BasePrice)
	}
	if !almostEqual(s.HighestChangePct, 100) {
		t.Errorf("HighestChangePct = %v, want 100", s.HighestChangePct)
	}
}

func TestComputeErrors(t *testing.T) {
	rec := &domain.TransactionRecord{TokenMint: "MintA", Timestamp: 100}

	if _, err := Compute(rec, nil); err != ErrNoCandles {
		t.Errorf("err = %v, want ErrNoCandles", err)
	}

	zero := []*domain.Candle{candle(50, 0, 0, 0, 0)}
	if _, err := Compute(rec, zero); err != ErrNoBasePrice {
		t.Errorf("err = %v, want ErrNoBasePrice", err)
	}
}
