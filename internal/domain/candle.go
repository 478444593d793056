package domain

// Candle is a single OHLCV bar for a token, priced in USD.
// Timestamp is the bar's open time as a Unix timestamp in milliseconds.
type Candle struct {
	Mint      string
	Timestamp int64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}
