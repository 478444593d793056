// Package ohlcv fetches 1-minute candles for tokens that got a
// first-holder buy and turns them into profit/loss summaries.
package ohlcv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"solana-wallet-alerts/internal/domain"
)

// DefaultBitqueryURL is the Bitquery EAP GraphQL endpoint.
const DefaultBitqueryURL = "https://streaming.bitquery.io/eap"

// DefaultFetchTimeout bounds one GraphQL request.
const DefaultFetchTimeout = 60 * time.Second

// candleQuery aggregates DEX trades into 1-minute bars priced against
// SOL. PriceAsymmetry filters out wash-trade outliers.
const candleQuery = `{
  Solana(dataset: archive) {
    DEXTradeByTokens(
      orderBy: {ascendingByField: "Block_Time"}
      where: {
        Trade: {
          Currency: {MintAddress: {is: %q}}
          Side: {Currency: {MintAddress: {is: %q}}}
          PriceAsymmetry: {lt: 0.1}
        }
        Block: {Time: {since: %q, till: %q}}
      }
    ) {
      Block {
        Time(interval: {in: minutes, count: 1})
      }
      volume: sum(of: Trade_Amount)
      Trade {
        high: Price(maximum: Trade_Price)
        low: Price(minimum: Trade_Price)
        open: Price(minimum: Block_Slot)
        close: Price(maximum: Block_Slot)
      }
      count
    }
  }
}`

// BitqueryClient fetches candles over the Bitquery GraphQL API.
type BitqueryClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// BitqueryOption configures a BitqueryClient.
type BitqueryOption func(*BitqueryClient)

// WithBitqueryURL overrides the GraphQL endpoint.
func WithBitqueryURL(url string) BitqueryOption {
	return func(c *BitqueryClient) {
		c.endpoint = url
	}
}

// WithBitqueryHTTPClient overrides the HTTP client.
func WithBitqueryHTTPClient(hc *http.Client) BitqueryOption {
	return func(c *BitqueryClient) {
		c.httpClient = hc
	}
}

// NewBitqueryClient creates a client authenticated with the given API key.
func NewBitqueryClient(apiKey string, opts ...BitqueryOption) *BitqueryClient {
	c := &BitqueryClient{
		endpoint:   DefaultBitqueryURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultFetchTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphqlRequest struct {
	Query     string `json:"query"`
	Variables string `json:"variables"`
}

type bitqueryResponse struct {
	Data struct {
		Solana struct {
			DEXTradeByTokens []bitqueryBar `json:"DEXTradeByTokens"`
		} `json:"Solana"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type bitqueryBar struct {
	Block struct {
		Time string `json:"Time"`
	} `json:"Block"`
	Volume json.Number `json:"volume"`
	Trade  struct {
		High  json.Number `json:"high"`
		Low   json.Number `json:"low"`
		Open  json.Number `json:"open"`
		Close json.Number `json:"close"`
	} `json:"Trade"`
	Count json.Number `json:"count"`
}

// FetchCandles returns the 1-minute candles for a mint inside
// [fromMs, toMs], oldest first. Bars Bitquery returns without a usable
// timestamp are dropped.
func (c *BitqueryClient) FetchCandles(ctx context.Context, mint string, fromMs, toMs int64) ([]*domain.Candle, error) {
	since := time.UnixMilli(fromMs).UTC().Format("2006-01-02T15:04:05Z")
	till := time.UnixMilli(toMs).UTC().Format("2006-01-02T15:04:05Z")
	query := fmt.Sprintf(candleQuery, mint, domain.WSOLMint, since, till)

	body, err := json.Marshal(graphqlRequest{Query: query, Variables: "{}"})
	if err != nil {
		return nil, fmt.Errorf("marshal candle query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create candle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch candles for %s: %w", mint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch candles for %s: unexpected status %d", mint, resp.StatusCode)
	}

	var decoded bitqueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode candle response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("fetch candles for %s: %s", mint, decoded.Errors[0].Message)
	}

	bars := decoded.Data.Solana.DEXTradeByTokens
	candles := make([]*domain.Candle, 0, len(bars))
	for _, bar := range bars {
		ts, err := time.Parse(time.RFC3339, bar.Block.Time)
		if err != nil {
			continue
		}
		candles = append(candles, &domain.Candle{
			Mint:      mint,
			Timestamp: ts.UnixMilli(),
			Open:      numberOrZero(bar.Trade.Open),
			High:      numberOrZero(bar.Trade.High),
			Low:       numberOrZero(bar.Trade.Low),
			Close:     numberOrZero(bar.Trade.Close),
			Volume:    numberOrZero(bar.Volume),
		})
	}
	return candles, nil
}

func numberOrZero(n json.Number) float64 {
	v, err := n.Float64()
	if err != nil {
		return 0
	}
	return v
}
