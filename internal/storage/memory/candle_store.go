package memory

import (
	"context"
	"sort"
	"sync"

	"solana-wallet-alerts/internal/domain"
	"solana-wallet-alerts/internal/storage"
)

// CandleStore implements storage.CandleStore in memory.
type CandleStore struct {
	mu      sync.RWMutex
	candles map[string][]*domain.Candle
}

// NewCandleStore creates an empty CandleStore.
func NewCandleStore() *CandleStore {
	return &CandleStore{candles: make(map[string][]*domain.Candle)}
}

// Compile-time interface check.
var _ storage.CandleStore = (*CandleStore)(nil)

// InsertBatch writes a batch of candles.
func (s *CandleStore) InsertBatch(_ context.Context, candles []*domain.Candle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range candles {
		if c == nil || c.Mint == "" {
			return storage.ErrInvalidInput
		}
		cp := *c
		s.candles[c.Mint] = append(s.candles[c.Mint], &cp)
	}
	return nil
}

// GetByMintRange returns the mint's candles inside [fromMs, toMs], sorted
// by timestamp ascending.
func (s *CandleStore) GetByMintRange(_ context.Context, mint string, fromMs, toMs int64) ([]*domain.Candle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Candle
	for _, c := range s.candles[mint] {
		if c.Timestamp >= fromMs && c.Timestamp <= toMs {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, nil
}
