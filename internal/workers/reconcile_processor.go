// Package workers holds the asynq task handlers run by cmd/worker.
package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/stockroom/internal/adapters/queue"
	"github.com/ammerola/stockroom/internal/adapters/redis_adapter"
	"github.com/ammerola/stockroom/internal/core/ports"
	"github.com/ammerola/stockroom/internal/core/services"
	"github.com/ammerola/stockroom/internal/pkg/metrics"
)

// Reconciliation outcomes, used as the metrics label
const (
	OutcomeCompensated     = "compensated"
	OutcomeAlreadyRecorded = "already_recorded"
	OutcomeItemMissing     = "item_missing"
	OutcomeInvalid         = "invalid"
	OutcomeLocked          = "locked"
	OutcomeFailed          = "failed"
)

// DefaultLockTTL bounds how long one reference stays locked by a worker
const DefaultLockTTL = 2 * time.Minute

// ErrLocked is returned when another worker holds the reference; asynq retries it
var ErrLocked = errors.New("reconciliation already in progress")

// ReconcileProcessor repairs stock movements whose transaction record was lost
type ReconcileProcessor struct {
	inventory    ports.InventoryAPI
	transactions ports.TransactionAPI
	cache        ports.CacheRepository
	metrics      *metrics.Metrics
	lockTTL      time.Duration
	logger       *slog.Logger
}

// NewReconcileProcessor creates the processor. cache and m may be nil.
func NewReconcileProcessor(inventory ports.InventoryAPI, transactions ports.TransactionAPI,
	cache ports.CacheRepository, m *metrics.Metrics, logger *slog.Logger) *ReconcileProcessor {
	return &ReconcileProcessor{
		inventory:    inventory,
		transactions: transactions,
		cache:        cache,
		metrics:      m,
		lockTTL:      DefaultLockTTL,
		logger:       logger.With(slog.String("processor", "reconcile")),
	}
}

// ProcessPartialFailure handles a stock:partial_failure task. When the backend
// has no transaction carrying the movement reference, the missing transaction
// is posted.
func (p *ReconcileProcessor) ProcessPartialFailure(ctx context.Context, t *asynq.Task) error {
	failure, err := queue.DecodePartialFailure(t)
	if err != nil {
		p.metrics.Reconciled(OutcomeInvalid)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	log := p.logger.With(
		slog.String("reference", failure.Reference),
		slog.String("item_id", failure.ItemID))

	unlock, err := p.lock(ctx, failure.Reference)
	if err != nil {
		p.metrics.Reconciled(OutcomeLocked)
		return err
	}
	defer unlock()

	outcome, err := p.reconcile(ctx, failure)
	p.metrics.Reconciled(outcome)
	if err != nil {
		log.ErrorContext(ctx, "reconciliation failed",
			slog.String("outcome", outcome),
			slog.String("error", err.Error()))
		return err
	}

	log.InfoContext(ctx, "reconciliation completed", slog.String("outcome", outcome))
	return nil
}

func (p *ReconcileProcessor) reconcile(ctx context.Context, failure ports.PartialFailure) (string, error) {
	item, err := p.inventory.Get(ctx, failure.ItemID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return OutcomeItemMissing, fmt.Errorf("item %s no longer exists: %w", failure.ItemID, asynq.SkipRetry)
		}
		return OutcomeFailed, fmt.Errorf("failed to read item: %w", err)
	}

	txs, err := p.transactions.List(ctx)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to list transactions: %w", err)
	}
	for _, tx := range txs {
		if tx.Reference == failure.Reference {
			return OutcomeAlreadyRecorded, nil
		}
	}

	draft := failure.Transaction
	draft.ItemID = item.ID
	draft.Reference = failure.Reference
	if draft.ItemName == "" {
		draft.ItemName = item.Name
	}
	if err := draft.Validate(); err != nil {
		return OutcomeInvalid, fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if _, err := p.transactions.Create(ctx, draft); err != nil {
		return OutcomeFailed, fmt.Errorf("failed to record transaction: %w", err)
	}

	if p.cache != nil {
		if err := p.cache.Delete(ctx, services.DashboardCacheKey); err != nil {
			p.logger.WarnContext(ctx, "failed to invalidate dashboard cache",
				slog.String("error", err.Error()))
		}
	}

	return OutcomeCompensated, nil
}

// lock takes a per-reference lock so concurrent retries do not post twice.
// Without a cache, or when redis is unreachable, the work proceeds unlocked.
func (p *ReconcileProcessor) lock(ctx context.Context, reference string) (func(), error) {
	noop := func() {}
	if p.cache == nil {
		return noop, nil
	}

	key := redis_adapter.BuildKey(redis_adapter.PrefixReconcile, reference)
	ok, err := p.cache.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), p.lockTTL)
	if err != nil {
		p.logger.WarnContext(ctx, "reconcile lock unavailable, continuing without it",
			slog.String("reference", reference),
			slog.String("error", err.Error()))
		return noop, nil
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, reference)
	}

	return func() {
		if err := p.cache.Delete(context.WithoutCancel(ctx), key); err != nil {
			p.logger.WarnContext(ctx, "failed to release reconcile lock",
				slog.String("reference", reference),
				slog.String("error", err.Error()))
		}
	}, nil
}
