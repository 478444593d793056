package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"solana-wallet-alerts/internal/domain"
	"solana-wallet-alerts/internal/storage"
)

// summaryColumns is the token-summary header, in column order.
var summaryColumns = []string{
	"Token Mint", "Token Symbol", "First Buy Time", "Base Price",
	"Highest Price", "Highest Price Time", "Highest Change %",
	"Lowest Price", "Lowest Price Time", "Lowest Change %",
	"Latest Price", "Latest Price Time", "Latest Change %",
	"Candle Count", "Buyers",
}

// TokenSummaryStore implements storage.TokenSummaryStore on a CSV file.
type TokenSummaryStore struct {
	mu   sync.Mutex
	path string
	file *os.File
	w    *csv.Writer
	seen map[string]struct{}
}

// NewTokenSummaryStore opens (or creates) the CSV file at path and indexes
// the mints already present for duplicate detection.
func NewTokenSummaryStore(path string) (*TokenSummaryStore, error) {
	seen := make(map[string]struct{})
	if f, err := os.Open(path); err == nil {
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		first := true
		for {
			row, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("index csv summaries %s: %w", path, err)
			}
			if first {
				first = false
				continue
			}
			if len(row) > 0 {
				seen[row[0]] = struct{}{}
			}
		}
		f.Close()
	}

	info, err := os.Stat(path)
	fresh := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open csv summaries %s: %w", path, err)
	}

	s := &TokenSummaryStore{path: path, file: file, w: csv.NewWriter(file), seen: seen}
	if fresh {
		if err := s.w.Write(summaryColumns); err != nil {
			file.Close()
			return nil, fmt.Errorf("write csv summary header: %w", err)
		}
		s.w.Flush()
		if err := s.w.Error(); err != nil {
			file.Close()
			return nil, fmt.Errorf("flush csv summary header: %w", err)
		}
	}
	return s, nil
}

// Compile-time interface check.
var _ storage.TokenSummaryStore = (*TokenSummaryStore)(nil)

// Append writes a summary. Returns ErrDuplicateKey when the mint has one.
func (s *TokenSummaryStore) Append(_ context.Context, sum *domain.TokenSummary) error {
	if sum == nil || sum.Mint == "" {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[sum.Mint]; ok {
		return storage.ErrDuplicateKey
	}
	row := []string{
		sum.Mint,
		sum.TokenSymbol,
		strconv.FormatInt(sum.FirstBuyTime, 10),
		formatPrice(sum.BasePrice),
		formatPrice(sum.HighestPrice),
		strconv.FormatInt(sum.HighestPriceTime, 10),
		formatPct(sum.HighestChangePct),
		formatPrice(sum.LowestPrice),
		strconv.FormatInt(sum.LowestPriceTime, 10),
		formatPct(sum.LowestChangePct),
		formatPrice(sum.LatestPrice),
		strconv.FormatInt(sum.LatestPriceTime, 10),
		formatPct(sum.LatestChangePct),
		strconv.Itoa(sum.CandleCount),
		strings.Join(sum.Buyers, "; "),
	}
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("write csv summary: %w", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("flush csv summary: %w", err)
	}
	s.seen[sum.Mint] = struct{}{}
	return nil
}

// Exists reports whether a summary for the mint has been written.
func (s *TokenSummaryStore) Exists(_ context.Context, mint string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.seen[mint]
	return ok, nil
}

// GetByMint returns the summary for a mint, or ErrNotFound.
func (s *TokenSummaryStore) GetByMint(_ context.Context, mint string) (*domain.TokenSummary, error) {
	s.mu.Lock()
	s.w.Flush()
	s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv summaries %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(summaryColumns)
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv summaries: %w", err)
		}
		if first {
			first = false
			continue
		}
		if row[0] != mint {
			continue
		}
		return parseSummaryRow(row), nil
	}
	return nil, storage.ErrNotFound
}

// Close flushes and closes the underlying file.
func (s *TokenSummaryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.file.Close()
		return fmt.Errorf("flush csv summaries: %w", err)
	}
	return s.file.Close()
}

func parseSummaryRow(row []string) *domain.TokenSummary {
	sum := &domain.TokenSummary{
		Mint:             row[0],
		TokenSymbol:      row[1],
		FirstBuyTime:     parseInt(row[2]),
		BasePrice:        parseFloat(row[3]),
		HighestPrice:     parseFloat(row[4]),
		HighestPriceTime: parseInt(row[5]),
		HighestChangePct: parseFloat(row[6]),
		LowestPrice:      parseFloat(row[7]),
		LowestPriceTime:  parseInt(row[8]),
		LowestChangePct:  parseFloat(row[9]),
		LatestPrice:      parseFloat(row[10]),
		LatestPriceTime:  parseInt(row[11]),
		LatestChangePct:  parseFloat(row[12]),
	}
	sum.CandleCount = int(parseInt(row[13]))
	if row[14] != "" {
		sum.Buyers = strings.Split(row[14], "; ")
	}
	return sum
}

func parseInt(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
