package clickhouse

import (
	"context"
	"fmt"

	"solana-wallet-alerts/internal/domain"
	"solana-wallet-alerts/internal/storage"
)

// CandleStore implements storage.CandleStore using ClickHouse.
type CandleStore struct {
	conn *Conn
}

// NewCandleStore creates a new CandleStore.
func NewCandleStore(conn *Conn) *CandleStore {
	return &CandleStore{conn: conn}
}

// Compile-time interface check.
var _ storage.CandleStore = (*CandleStore)(nil)

// InsertBatch writes a batch of candles using a prepared batch.
func (s *CandleStore) InsertBatch(ctx context.Context, candles []*domain.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO token_candles (mint, ts, open, high, low, close, volume)
	`)
	if err != nil {
		return fmt.Errorf("prepare candle batch: %w", err)
	}

	for _, c := range candles {
		if c == nil || c.Mint == "" {
			return storage.ErrInvalidInput
		}
		if err := batch.Append(c.Mint, c.Timestamp, c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
			return fmt.Errorf("append candle to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send candle batch: %w", err)
	}
	return nil
}

// GetByMintRange returns the mint's candles inside [fromMs, toMs], ordered
// by timestamp ascending.
func (s *CandleStore) GetByMintRange(ctx context.Context, mint string, fromMs, toMs int64) ([]*domain.Candle, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT mint, ts, open, high, low, close, volume
		FROM token_candles
		WHERE mint = ? AND ts BETWEEN ? AND ?
		ORDER BY ts ASC
	`, mint, fromMs, toMs)
	if err != nil {
		return nil, fmt.Errorf("query candles by range: %w", err)
	}
	defer rows.Close()

	var out []*domain.Candle
	for rows.Next() {
		var c domain.Candle
		if err := rows.Scan(&c.Mint, &c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("scan candle row: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candle rows: %w", err)
	}
	return out, nil
}
