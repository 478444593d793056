package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"solana-wallet-alerts/internal/domain"
)

// DefaultRugcheckURL is the public token summary endpoint.
const DefaultRugcheckURL = "https://api.rugcheck.xyz/v1/tokens"

// RugcheckClient resolves token risk reports.
type RugcheckClient struct {
	baseURL string
	client  *http.Client
}

// RugcheckOption configures RugcheckClient.
type RugcheckOption func(*RugcheckClient)

// WithRugcheckHTTPClient sets a custom http.Client.
func WithRugcheckHTTPClient(client *http.Client) RugcheckOption {
	return func(c *RugcheckClient) {
		c.client = client
	}
}

// WithRugcheckURL overrides the rugcheck endpoint.
func WithRugcheckURL(url string) RugcheckOption {
	return func(c *RugcheckClient) {
		c.baseURL = url
	}
}

// NewRugcheckClient creates a RugcheckClient.
func NewRugcheckClient(opts ...RugcheckOption) *RugcheckClient {
	c := &RugcheckClient{
		baseURL: DefaultRugcheckURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rugcheckSummary is the shape of the report summary response.
type rugcheckSummary struct {
	Score       float64 `json:"risk_score"`
	RiskFactors []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"risk_factors"`
}

// RiskReport fetches the risk summary for a mint.
func (c *RugcheckClient) RiskReport(ctx context.Context, mint string) (*domain.RiskReport, error) {
	url := fmt.Sprintf("%s/%s/report/summary", c.baseURL, mint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build rugcheck request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get rugcheck summary for %s: %w", mint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rugcheck summary for %s: unexpected status %d", mint, resp.StatusCode)
	}

	var out rugcheckSummary
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode rugcheck summary for %s: %w", mint, err)
	}

	report := &domain.RiskReport{Mint: mint, Score: out.Score}
	for _, f := range out.RiskFactors {
		if f.Description != "" {
			report.Risks = append(report.Risks, fmt.Sprintf("%s: %s", f.Name, f.Description))
			continue
		}
		report.Risks = append(report.Risks, f.Name)
	}
	return report, nil
}
