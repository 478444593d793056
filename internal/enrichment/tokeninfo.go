// Package enrichment provides the external price and risk lookups that
// decorate classified events. Every lookup is best-effort: failures and
// timeouts degrade to absent data, never to a dropped event.
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"solana-wallet-alerts/internal/domain"
)

// Default endpoints and timeouts.
const (
	DefaultJupiterURL     = "https://api.jup.ag/price/v2"
	DefaultDexScreenerURL = "https://api.dexscreener.com/latest/dex/tokens"
	DefaultLookupTimeout  = 10 * time.Second
)

// circulating supply proxy used when only a unit price is known.
const marketCapSupplyProxy = 1_000_000_000

// TokenInfoClient resolves token metadata from Jupiter and DexScreener.
// Jupiter is preferred for the price; DexScreener supplies the name,
// symbol, volumes and pair-creation time.
type TokenInfoClient struct {
	jupiterURL     string
	dexScreenerURL string
	client         *http.Client
}

// TokenInfoOption configures TokenInfoClient.
type TokenInfoOption func(*TokenInfoClient)

// WithTokenInfoHTTPClient sets a custom http.Client.
func WithTokenInfoHTTPClient(client *http.Client) TokenInfoOption {
	return func(c *TokenInfoClient) {
		c.client = client
	}
}

// WithJupiterURL overrides the Jupiter price endpoint.
func WithJupiterURL(url string) TokenInfoOption {
	return func(c *TokenInfoClient) {
		c.jupiterURL = url
	}
}

// WithDexScreenerURL overrides the DexScreener token endpoint.
func WithDexScreenerURL(url string) TokenInfoOption {
	return func(c *TokenInfoClient) {
		c.dexScreenerURL = url
	}
}

// NewTokenInfoClient creates a TokenInfoClient.
func NewTokenInfoClient(opts ...TokenInfoOption) *TokenInfoClient {
	c := &TokenInfoClient{
		jupiterURL:     DefaultJupiterURL,
		dexScreenerURL: DefaultDexScreenerURL,
		client:         &http.Client{Timeout: DefaultLookupTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// jupiterResponse is the shape of the Jupiter price API response.
type jupiterResponse struct {
	Data map[string]*struct {
		Price json.Number `json:"price"`
	} `json:"data"`
}

// dexScreenerResponse is the shape of the DexScreener token response.
type dexScreenerResponse struct {
	Pairs []struct {
		BaseToken struct {
			Name   string `json:"name"`
			Symbol string `json:"symbol"`
		} `json:"baseToken"`
		PriceUsd    json.Number `json:"priceUsd"`
		PriceNative json.Number `json:"priceNative"`
		MarketCap   float64     `json:"marketCap"`
		FDV         float64     `json:"fdv"`
		Volume      struct {
			H24 float64 `json:"h24"`
			M5  float64 `json:"m5"`
		} `json:"volume"`
		PairCreatedAt int64 `json:"pairCreatedAt"`
	} `json:"pairs"`
}

// TokenInfo fetches metadata for a mint. Returns nil with no error when
// neither source knows the token.
func (c *TokenInfoClient) TokenInfo(ctx context.Context, mint string) (*domain.TokenInfo, error) {
	info := &domain.TokenInfo{Mint: mint}
	haveAny := false

	if price, err := c.fetchJupiterPrice(ctx, mint); err == nil && price > 0 {
		info.PriceUsd = price
		info.MarketCap = math.Round(price * marketCapSupplyProxy)
		haveAny = true
	}

	dex, err := c.fetchDexScreener(ctx, mint)
	if err != nil && !haveAny {
		return nil, err
	}
	if dex != nil && len(dex.Pairs) > 0 {
		pair := dex.Pairs[0]
		info.Name = pair.BaseToken.Name
		info.Symbol = pair.BaseToken.Symbol
		info.H24Volume = pair.Volume.H24
		info.M5Volume = pair.Volume.M5
		info.PairCreatedAt = pair.PairCreatedAt
		info.DexMarketCap = pair.MarketCap
		if info.DexMarketCap == 0 {
			info.DexMarketCap = pair.FDV
		}
		if v, err := pair.PriceNative.Float64(); err == nil {
			info.PriceSol = v
		}
		if info.PriceUsd == 0 {
			if v, err := pair.PriceUsd.Float64(); err == nil && v > 0 {
				info.PriceUsd = v
				info.MarketCap = math.Round(v * marketCapSupplyProxy)
			}
		}
		haveAny = true
	}

	if !haveAny {
		return nil, nil
	}
	return info, nil
}

func (c *TokenInfoClient) fetchJupiterPrice(ctx context.Context, mint string) (float64, error) {
	url := fmt.Sprintf("%s?ids=%s", c.jupiterURL, mint)
	var out jupiterResponse
	if err := c.getJSON(ctx, url, &out); err != nil {
		return 0, err
	}
	entry, ok := out.Data[mint]
	if !ok || entry == nil {
		return 0, nil
	}
	price, err := entry.Price.Float64()
	if err != nil {
		return 0, fmt.Errorf("parse jupiter price for %s: %w", mint, err)
	}
	return price, nil
}

func (c *TokenInfoClient) fetchDexScreener(ctx context.Context, mint string) (*dexScreenerResponse, error) {
	url := fmt.Sprintf("%s/%s", c.dexScreenerURL, mint)
	var out dexScreenerResponse
	if err := c.getJSON(ctx, url, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TokenInfoClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", url, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", url, err)
	}
	return nil
}
