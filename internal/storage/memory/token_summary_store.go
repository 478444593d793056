package memory

import (
	"context"
	"sync"

	"solana-wallet-alerts/internal/domain"
	"solana-wallet-alerts/internal/storage"
)

// TokenSummaryStore implements storage.TokenSummaryStore in memory.
type TokenSummaryStore struct {
	mu        sync.RWMutex
	summaries map[string]*domain.TokenSummary
}

// NewTokenSummaryStore creates an empty TokenSummaryStore.
func NewTokenSummaryStore() *TokenSummaryStore {
	return &TokenSummaryStore{summaries: make(map[string]*domain.TokenSummary)}
}

// Compile-time interface check.
var _ storage.TokenSummaryStore = (*TokenSummaryStore)(nil)

// Append writes a summary. Returns ErrDuplicateKey if the mint has one.
func (s *TokenSummaryStore) Append(_ context.Context, sum *domain.TokenSummary) error {
	if sum == nil || sum.Mint == "" {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.summaries[sum.Mint]; ok {
		return storage.ErrDuplicateKey
	}
	cp := *sum
	cp.Buyers = append([]string(nil), sum.Buyers...)
	s.summaries[sum.Mint] = &cp
	return nil
}

// Exists reports whether a summary for the mint has been written.
func (s *TokenSummaryStore) Exists(_ context.Context, mint string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.summaries[mint]
	return ok, nil
}

// GetByMint returns the summary for a mint, or ErrNotFound.
func (s *TokenSummaryStore) GetByMint(_ context.Context, mint string) (*domain.TokenSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum, ok := s.summaries[mint]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *sum
	cp.Buyers = append([]string(nil), sum.Buyers...)
	return &cp, nil
}
