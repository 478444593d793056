// Package memory provides in-memory storage implementations, used in
// tests and as defaults when no database is configured.
package memory

import (
	"context"
	"sync"

	"solana-wallet-alerts/internal/domain"
	"solana-wallet-alerts/internal/storage"
)

// TransactionLogStore implements storage.TransactionLogStore in memory.
type TransactionLogStore struct {
	mu      sync.RWMutex
	records []*domain.TransactionRecord
}

// NewTransactionLogStore creates an empty TransactionLogStore.
func NewTransactionLogStore() *TransactionLogStore {
	return &TransactionLogStore{}
}

// Compile-time interface check.
var _ storage.TransactionLogStore = (*TransactionLogStore)(nil)

// Append writes one audit record.
func (s *TransactionLogStore) Append(_ context.Context, rec *domain.TransactionRecord) error {
	if rec == nil {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	s.records = append(s.records, &cp)
	return nil
}

// GetByMint returns the records for a mint in insertion order.
func (s *TransactionLogStore) GetByMint(_ context.Context, mint string) ([]*domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.TransactionRecord
	for _, rec := range s.records {
		if rec.TokenMint == mint {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

// FirstHolderRecords returns the FIRST_HOLDER records in insertion order.
func (s *TransactionLogStore) FirstHolderRecords(_ context.Context) ([]*domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.TransactionRecord
	for _, rec := range s.records {
		if rec.BuyType == string(domain.FirstHolder) {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Len returns the number of stored records.
func (s *TransactionLogStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
