// Package storage defines the persistence interfaces and their shared
// error values. Implementations live in the memory, csv, postgres and
// clickhouse subpackages.
package storage

import (
	"context"

	"solana-wallet-alerts/internal/domain"
)

// TransactionLogStore is the append-only audit log of processed events.
type TransactionLogStore interface {
	// Append writes one audit record.
	Append(ctx context.Context, rec *domain.TransactionRecord) error

	// GetByMint returns the records for a mint, oldest first.
	GetByMint(ctx context.Context, mint string) ([]*domain.TransactionRecord, error)

	// FirstHolderRecords returns the records whose buy type is
	// FIRST_HOLDER, oldest first. The OHLCV collector polls these.
	FirstHolderRecords(ctx context.Context) ([]*domain.TransactionRecord, error)
}

// TokenSummaryStore persists profit/loss summaries per token.
type TokenSummaryStore interface {
	// Append writes a summary. Returns ErrDuplicateKey when the mint
	// already has one.
	Append(ctx context.Context, s *domain.TokenSummary) error

	// Exists reports whether a summary for the mint has been written.
	Exists(ctx context.Context, mint string) (bool, error)

	// GetByMint returns the summary for a mint, or ErrNotFound.
	GetByMint(ctx context.Context, mint string) (*domain.TokenSummary, error)
}

// CandleStore persists OHLCV candles.
type CandleStore interface {
	// InsertBatch writes a batch of candles.
	InsertBatch(ctx context.Context, candles []*domain.Candle) error

	// GetByMintRange returns the candles for a mint inside
	// [fromMs, toMs], ordered by timestamp ascending.
	GetByMintRange(ctx context.Context, mint string, fromMs, toMs int64) ([]*domain.Candle, error)
}
