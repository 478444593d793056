package domain

// TokenSummary is the profit/loss report for a token's first-holder entry,
// computed from OHLCV candles around the first buy.
type TokenSummary struct {
	Mint        string
	TokenSymbol string

	// FirstBuyTime is the first-holder buy, Unix ms.
	FirstBuyTime int64

	// BasePrice is the price at (or nearest after) the first buy, USD.
	BasePrice float64

	HighestPrice     float64
	HighestPriceTime int64
	LowestPrice      float64
	LowestPriceTime  int64
	LatestPrice      float64
	LatestPriceTime  int64

	// Percent changes of highest/lowest/latest relative to BasePrice.
	HighestChangePct float64
	LowestChangePct  float64
	LatestChangePct  float64

	CandleCount int

	// Buyers lists wallet names that bought the token, in observation order.
	Buyers []string
}
