package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-wallet-alerts/internal/domain"
	"solana-wallet-alerts/internal/storage"
)

// TransactionLogStore implements storage.TransactionLogStore using PostgreSQL.
type TransactionLogStore struct {
	pool *Pool
}

// NewTransactionLogStore creates a new TransactionLogStore.
func NewTransactionLogStore(pool *Pool) *TransactionLogStore {
	return &TransactionLogStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionLogStore = (*TransactionLogStore)(nil)

const transactionLogColumns = `
	token_symbol, buy_type, token_mint, wallet_name, event_time,
	market_cap, buy_amount_sol, m5_volume, h24_volume, gmgn_link,
	creation_time, price_sol, rugcheck_score, risk_level, risk_details
`

// Append writes one audit record.
func (s *TransactionLogStore) Append(ctx context.Context, rec *domain.TransactionRecord) error {
	if rec == nil {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO transaction_log (` + transactionLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := s.pool.Exec(ctx, query,
		rec.TokenSymbol, rec.BuyType, rec.TokenMint, rec.WalletName, rec.Timestamp,
		rec.MarketCap, rec.BuyAmountSol, rec.M5Volume, rec.H24Volume, rec.GMGNLink,
		rec.CreationTime, rec.PriceSol, rec.RugcheckScore, rec.RiskLevel, rec.RiskDetails,
	)
	if err != nil {
		return fmt.Errorf("append transaction record: %w", err)
	}
	return nil
}

// GetByMint returns the records for a mint, oldest first.
func (s *TransactionLogStore) GetByMint(ctx context.Context, mint string) ([]*domain.TransactionRecord, error) {
	query := `
		SELECT ` + transactionLogColumns + `
		FROM transaction_log
		WHERE token_mint = $1
		ORDER BY event_time ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("get transaction records by mint: %w", err)
	}
	defer rows.Close()

	return scanTransactionRecords(rows)
}

// FirstHolderRecords returns the FIRST_HOLDER records, oldest first.
func (s *TransactionLogStore) FirstHolderRecords(ctx context.Context) ([]*domain.TransactionRecord, error) {
	query := `
		SELECT ` + transactionLogColumns + `
		FROM transaction_log
		WHERE buy_type = $1
		ORDER BY event_time ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, string(domain.FirstHolder))
	if err != nil {
		return nil, fmt.Errorf("get first holder records: %w", err)
	}
	defer rows.Close()

	return scanTransactionRecords(rows)
}

// scanTransactionRecords scans rows into a slice of TransactionRecord.
func scanTransactionRecords(rows pgx.Rows) ([]*domain.TransactionRecord, error) {
	var records []*domain.TransactionRecord

	for rows.Next() {
		var rec domain.TransactionRecord

		err := rows.Scan(
			&rec.TokenSymbol, &rec.BuyType, &rec.TokenMint, &rec.WalletName, &rec.Timestamp,
			&rec.MarketCap, &rec.BuyAmountSol, &rec.M5Volume, &rec.H24Volume, &rec.GMGNLink,
			&rec.CreationTime, &rec.PriceSol, &rec.RugcheckScore, &rec.RiskLevel, &rec.RiskDetails,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction record row: %w", err)
		}

		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction record rows: %w", err)
	}

	return records, nil
}
