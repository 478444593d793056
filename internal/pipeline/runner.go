package pipeline

import (
	"context"
	"log"

	"solana-wallet-alerts/internal/domain"
	"solana-wallet-alerts/internal/observability"
	"solana-wallet-alerts/internal/storage"
)

// Source yields decoded transactions in on-chain observation order.
type Source interface {
	Subscribe(ctx context.Context) (<-chan *domain.RawTransaction, error)
}

// Publisher delivers a formatted alert for an enriched event.
type Publisher interface {
	Publish(ctx context.Context, ev *domain.EnrichedEvent) error
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Pipeline   *Pipeline
	Source     Source
	Publishers []Publisher
	AuditLog   storage.TransactionLogStore
	Metrics    *observability.Metrics
	Logger     *log.Logger
}

// Runner drives the single ordered ingestion loop: it pulls transactions
// from the source one at a time, runs them through the pipeline, and fans
// the result out to the publishers and the audit log. One loop per tracker
// keeps per-token event order intact.
type Runner struct {
	pipeline   *Pipeline
	source     Source
	publishers []Publisher
	auditLog   storage.TransactionLogStore
	metrics    *observability.Metrics
	logger     *log.Logger
}

// NewRunner creates a new pipeline runner.
func NewRunner(opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		pipeline:   opts.Pipeline,
		source:     opts.Source,
		publishers: opts.Publishers,
		auditLog:   opts.AuditLog,
		metrics:    opts.Metrics,
		logger:     logger,
	}
}

// Run blocks until the context is cancelled or the source closes its
// channel. Publish and audit-log failures are logged and do not stop the
// loop.
func (r *Runner) Run(ctx context.Context) error {
	txCh, err := r.source.Subscribe(ctx)
	if err != nil {
		return err
	}
	r.logger.Println("Starting alert runner...")

	for {
		select {
		case <-ctx.Done():
			r.logger.Println("Alert runner stopped")
			return ctx.Err()
		case tx, ok := <-txCh:
			if !ok {
				r.logger.Println("Transaction source closed")
				return nil
			}
			r.handle(ctx, tx)
		}
	}
}

func (r *Runner) handle(ctx context.Context, tx *domain.RawTransaction) {
	ev, ok := r.pipeline.Process(ctx, tx)
	if !ok {
		return
	}

	for _, pub := range r.publishers {
		if err := pub.Publish(ctx, ev); err != nil {
			r.logger.Printf("publish %s: %v", ev.Signature, err)
			if r.metrics != nil {
				r.metrics.PublishErrors.WithLabelValues("publisher").Inc()
			}
		} else if r.metrics != nil {
			r.metrics.AlertsPublished.Inc()
		}
	}

	if r.auditLog != nil {
		rec := domain.RecordFromEvent(ev)
		if err := r.auditLog.Append(ctx, rec); err != nil {
			r.logger.Printf("append audit record %s: %v", ev.Signature, err)
		} else if r.metrics != nil {
			r.metrics.RecordsLogged.WithLabelValues("audit").Inc()
		}
	}
}
