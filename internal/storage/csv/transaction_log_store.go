// Package csv provides append-only CSV storage, the audit format consumed
// by downstream spreadsheet tooling.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"solana-wallet-alerts/internal/domain"
	"solana-wallet-alerts/internal/storage"
)

// TransactionLogStore implements storage.TransactionLogStore on a CSV
// file. The header row is written when the file is created; every Append
// is flushed immediately so a crash loses at most the in-flight row.
type TransactionLogStore struct {
	mu   sync.Mutex
	path string
	file *os.File
	w    *csv.Writer
}

// NewTransactionLogStore opens (or creates) the CSV file at path.
func NewTransactionLogStore(path string) (*TransactionLogStore, error) {
	info, err := os.Stat(path)
	fresh := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open csv log %s: %w", path, err)
	}

	s := &TransactionLogStore{path: path, file: file, w: csv.NewWriter(file)}
	if fresh {
		if err := s.w.Write(domain.RecordColumns); err != nil {
			file.Close()
			return nil, fmt.Errorf("write csv header: %w", err)
		}
		s.w.Flush()
		if err := s.w.Error(); err != nil {
			file.Close()
			return nil, fmt.Errorf("flush csv header: %w", err)
		}
	}
	return s, nil
}

// Compile-time interface check.
var _ storage.TransactionLogStore = (*TransactionLogStore)(nil)

// Append writes one audit record and flushes it to disk.
func (s *TransactionLogStore) Append(_ context.Context, rec *domain.TransactionRecord) error {
	if rec == nil {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.w.Write(rec.Row()); err != nil {
		return fmt.Errorf("write csv record: %w", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("flush csv record: %w", err)
	}
	return nil
}

// GetByMint returns the records for a mint, oldest first.
func (s *TransactionLogStore) GetByMint(ctx context.Context, mint string) ([]*domain.TransactionRecord, error) {
	return s.filter(ctx, func(rec *domain.TransactionRecord) bool {
		return rec.TokenMint == mint
	})
}

// FirstHolderRecords returns the FIRST_HOLDER records, oldest first.
func (s *TransactionLogStore) FirstHolderRecords(ctx context.Context) ([]*domain.TransactionRecord, error) {
	return s.filter(ctx, func(rec *domain.TransactionRecord) bool {
		return rec.BuyType == string(domain.FirstHolder)
	})
}

// Close flushes and closes the underlying file.
func (s *TransactionLogStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.file.Close()
		return fmt.Errorf("flush csv log: %w", err)
	}
	return s.file.Close()
}

func (s *TransactionLogStore) filter(_ context.Context, keep func(*domain.TransactionRecord) bool) ([]*domain.TransactionRecord, error) {
	s.mu.Lock()
	s.w.Flush()
	s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv log %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(domain.RecordColumns)

	var out []*domain.TransactionRecord
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv log: %w", err)
		}
		if first {
			first = false
			continue // header
		}
		rec := parseRow(row)
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func parseRow(row []string) *domain.TransactionRecord {
	return &domain.TransactionRecord{
		TokenSymbol:   row[0],
		BuyType:       row[1],
		TokenMint:     row[2],
		WalletName:    row[3],
		Timestamp:     parseTimestamp(row[4]),
		MarketCap:     parseFloat(row[5]),
		BuyAmountSol:  parseFloat(row[6]),
		M5Volume:      parseFloat(row[7]),
		H24Volume:     parseFloat(row[8]),
		GMGNLink:      row[9],
		CreationTime:  parseTimestamp(row[10]),
		PriceSol:      parseFloat(row[11]),
		RugcheckScore: parseFloat(row[12]),
		RiskLevel:     row[13],
		RiskDetails:   row[14],
	}
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseTimestamp(s string) int64 {
	if s == "" {
		return 0
	}
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}
