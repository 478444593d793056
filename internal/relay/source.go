package relay

import (
	"context"
	"log"

	"solana-wallet-alerts/internal/domain"
)

// AlertSource yields relayed alerts. Implemented by Client.
type AlertSource interface {
	Subscribe(ctx context.Context) (<-chan Alert, error)
}

// TransactionFetcher resolves an alert's signature into a decoded
// transaction. Implemented by the solana HTTP client.
type TransactionFetcher interface {
	GetTransaction(ctx context.Context, signature string) (*domain.RawTransaction, error)
}

// TransactionSource adapts the alert feed into the pipeline's transaction
// source: each alert is resolved through the chain RPC, tagged with the
// relay source, and forwarded in arrival order. Fetch failures drop the
// single alert and keep the stream going.
type TransactionSource struct {
	alerts  AlertSource
	fetcher TransactionFetcher
	logger  *log.Logger
}

// NewTransactionSource creates a TransactionSource.
func NewTransactionSource(alerts AlertSource, fetcher TransactionFetcher, logger *log.Logger) *TransactionSource {
	if logger == nil {
		logger = log.Default()
	}
	return &TransactionSource{alerts: alerts, fetcher: fetcher, logger: logger}
}

// Subscribe starts consuming alerts and returns the transaction channel.
func (s *TransactionSource) Subscribe(ctx context.Context) (<-chan *domain.RawTransaction, error) {
	alertCh, err := s.alerts.Subscribe(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan *domain.RawTransaction)
	go func() {
		defer close(out)
		for alert := range alertCh {
			tx, err := s.fetcher.GetTransaction(ctx, alert.Signature)
			if err != nil {
				s.logger.Printf("fetch transaction %s: %v", alert.Signature, err)
				continue
			}
			tx.Source = alert.Source
			if tx.BlockTime == 0 {
				tx.BlockTime = alert.Timestamp
			}
			select {
			case out <- tx:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
