package domain

// TokenInfo is price/market metadata for a token mint, supplied by an
// external price feed. All fields are best-effort; zero values mean the
// feed did not report them.
type TokenInfo struct {
	Mint   string
	Name   string
	Symbol string

	PriceUsd     float64
	PriceSol     float64
	MarketCap    float64
	DexMarketCap float64
	H24Volume    float64
	M5Volume     float64

	// PairCreatedAt is a Unix timestamp in milliseconds; 0 if unknown.
	PairCreatedAt int64
}

// marketCapDivergence is the USD gap above which the DEX-reported market
// cap is preferred over the aggregator one for display.
const marketCapDivergence = 200_000

// DisplayMarketCap picks the market cap to show. When the two sources
// disagree by more than the divergence threshold, the DEX figure wins.
func (t *TokenInfo) DisplayMarketCap() float64 {
	if t.DexMarketCap != 0 {
		diff := t.MarketCap - t.DexMarketCap
		if diff < 0 {
			diff = -diff
		}
		if diff > marketCapDivergence {
			return t.DexMarketCap
		}
	}
	return t.MarketCap
}

// IsStable reports whether the token is a known USD-pegged stable coin.
func (t *TokenInfo) IsStable() bool {
	return IsStableSymbol(t.Symbol)
}
