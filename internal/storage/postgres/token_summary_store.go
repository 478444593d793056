package postgres

import (
	"context"
	"fmt"

	"solana-wallet-alerts/internal/domain"
	"solana-wallet-alerts/internal/storage"
)

// TokenSummaryStore implements storage.TokenSummaryStore using PostgreSQL.
type TokenSummaryStore struct {
	pool *Pool
}

// NewTokenSummaryStore creates a new TokenSummaryStore.
func NewTokenSummaryStore(pool *Pool) *TokenSummaryStore {
	return &TokenSummaryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenSummaryStore = (*TokenSummaryStore)(nil)

// Append writes a summary. Returns ErrDuplicateKey if the mint has one.
func (s *TokenSummaryStore) Append(ctx context.Context, sum *domain.TokenSummary) error {
	if sum == nil || sum.Mint == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO token_summaries (
			token_mint, token_symbol, first_buy_time, base_price,
			highest_price, highest_price_time, highest_change_pct,
			lowest_price, lowest_price_time, lowest_change_pct,
			latest_price, latest_price_time, latest_change_pct,
			candle_count, buyers
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10,
			$11, $12, $13,
			$14, $15
		)
	`

	_, err := s.pool.Exec(ctx, query,
		sum.Mint, sum.TokenSymbol, sum.FirstBuyTime, sum.BasePrice,
		sum.HighestPrice, sum.HighestPriceTime, sum.HighestChangePct,
		sum.LowestPrice, sum.LowestPriceTime, sum.LowestChangePct,
		sum.LatestPrice, sum.LatestPriceTime, sum.LatestChangePct,
		sum.CandleCount, sum.Buyers,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("append token summary: %w", err)
	}
	return nil
}

// Exists reports whether a summary for the mint has been written.
func (s *TokenSummaryStore) Exists(ctx context.Context, mint string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM token_summaries WHERE token_mint = $1)`, mint,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check token summary exists: %w", err)
	}
	return exists, nil
}

// GetByMint returns the summary for a mint. Returns ErrNotFound if missing.
func (s *TokenSummaryStore) GetByMint(ctx context.Context, mint string) (*domain.TokenSummary, error) {
	query := `
		SELECT
			token_mint, token_symbol, first_buy_time, base_price,
			highest_price, highest_price_time, highest_change_pct,
			lowest_price, lowest_price_time, lowest_change_pct,
			latest_price, latest_price_time, latest_change_pct,
			candle_count, buyers
		FROM token_summaries
		WHERE token_mint = $1
	`

	var sum domain.TokenSummary
	err := s.pool.QueryRow(ctx, query, mint).Scan(
		&sum.Mint, &sum.TokenSymbol, &sum.FirstBuyTime, &sum.BasePrice,
		&sum.HighestPrice, &sum.HighestPriceTime, &sum.HighestChangePct,
		&sum.LowestPrice, &sum.LowestPriceTime, &sum.LowestChangePct,
		&sum.LatestPrice, &sum.LatestPriceTime, &sum.LatestChangePct,
		&sum.CandleCount, &sum.Buyers,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token summary by mint: %w", err)
	}
	return &sum, nil
}
