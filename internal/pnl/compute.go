// Package pnl computes the profit/loss summary for a token's
// first-holder entry from its OHLCV candles.
package pnl

import (
	"errors"
	"sort"

	"solana-wallet-alerts/internal/domain"
)

// ErrNoCandles is returned when there is nothing to compute from.
var ErrNoCandles = errors.New("pnl: no candles for mint")

// ErrNoBasePrice is returned when neither the first-holder record nor the
// candles give a usable entry price.
var ErrNoBasePrice = errors.New("pnl: base price unavailable")

// Compute builds a summary from the first-holder audit record and the
// candles covering its window. The entry price comes from the record;
// when the record carries none, the open of the first candle at or after
// the buy stands in. Candles are sorted by timestamp before use.
func Compute(rec *domain.TransactionRecord, candles []*domain.Candle) (*domain.TokenSummary, error) {
	if len(candles) == 0 {
		return nil, ErrNoCandles
	}

	sorted := make([]*domain.Candle, len(candles))
	copy(sorted, candles)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	base := rec.PriceSol
	if base == 0 {
		base = openAtOrAfter(sorted, rec.Timestamp)
	}
	if base == 0 {
		return nil, ErrNoBasePrice
	}

	s := &domain.TokenSummary{
		Mint:         rec.TokenMint,
		TokenSymbol:  rec.TokenSymbol,
		FirstBuyTime: rec.Timestamp,
		BasePrice:    base,
		CandleCount:  len(sorted),
	}

	for _, c := range sorted {
		if s.HighestPrice == 0 || c.High > s.HighestPrice {
			s.HighestPrice = c.High
			s.HighestPriceTime = c.Timestamp
		}
		if s.LowestPrice == 0 || c.Low < s.LowestPrice {
			s.LowestPrice = c.Low
			s.LowestPriceTime = c.Timestamp
		}
	}
	last := sorted[len(sorted)-1]
	s.LatestPrice = last.Close
	s.LatestPriceTime = last.Timestamp

	s.HighestChangePct = changePct(s.HighestPrice, base)
	s.LowestChangePct = changePct(s.LowestPrice, base)
	s.LatestChangePct = changePct(s.LatestPrice, base)
	return s, nil
}

func openAtOrAfter(sorted []*domain.Candle, ts int64) float64 {
	for _, c := range sorted {
		if c.Timestamp >= ts && c.Open > 0 {
			return c.Open
		}
	}
	return 0
}

func changePct(price, base float64) float64 {
	return (price - base) / base * 100
}
