package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/stockroom/internal/core/ports"
	"github.com/ammerola/stockroom/internal/pkg/metrics"
)

// Enqueuer is the part of *asynq.Client the reporter needs
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqReporter queues partial failures for the reconciliation worker
type AsynqReporter struct {
	client   Enqueuer
	retryMax int
	logger   *slog.Logger
}

var _ ports.PartialFailureReporter = (*AsynqReporter)(nil)

// NewAsynqReporter creates a reporter on top of an asynq client
func NewAsynqReporter(client Enqueuer, retryMax int, logger *slog.Logger) *AsynqReporter {
	return &AsynqReporter{
		client:   client,
		retryMax: retryMax,
		logger:   logger.With(slog.String("component", "asynq_reporter")),
	}
}

// ReportPartialFailure enqueues one reconciliation task per movement reference.
// A duplicate report of the same reference is not an error.
func (r *AsynqReporter) ReportPartialFailure(ctx context.Context, failure ports.PartialFailure) error {
	task, err := NewPartialFailureTask(failure)
	if err != nil {
		return err
	}

	info, err := r.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueCritical),
		asynq.MaxRetry(r.retryMax),
		asynq.TaskID(failure.Reference),
		asynq.Retention(24*time.Hour))
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			r.logger.InfoContext(ctx, "partial failure already queued",
				slog.String("reference", failure.Reference))
			return nil
		}
		r.logger.ErrorContext(ctx, "failed to enqueue partial failure",
			slog.String("reference", failure.Reference),
			slog.String("error", err.Error()))
		return fmt.Errorf("enqueue partial failure: %w", err)
	}

	r.logger.InfoContext(ctx, "partial failure queued",
		slog.String("reference", failure.Reference),
		slog.String("item_id", failure.ItemID),
		slog.String("task_id", info.ID))
	return nil
}

// LogReporter records partial failures in the log and the metrics registry
type LogReporter struct {
	metrics *metrics.Metrics
	logger  *slog.Logger
}

var _ ports.PartialFailureReporter = (*LogReporter)(nil)

// NewLogReporter creates a reporter that logs at error level. m may be nil.
func NewLogReporter(logger *slog.Logger, m *metrics.Metrics) *LogReporter {
	return &LogReporter{
		metrics: m,
		logger:  logger.With(slog.String("component", "partial_failures")),
	}
}

func (r *LogReporter) ReportPartialFailure(ctx context.Context, failure ports.PartialFailure) error {
	r.metrics.PartialFailure()
	r.logger.ErrorContext(ctx, "stock movement partially applied",
		slog.String("reference", failure.Reference),
		slog.String("item_id", failure.ItemID),
		slog.String("type", string(failure.Transaction.Type)),
		slog.Int("quantity", failure.Transaction.Quantity),
		slog.String("cause", failure.Cause))
	return nil
}

// Reporters fans a report out to every reporter and joins their errors
type Reporters []ports.PartialFailureReporter

func (rs Reporters) ReportPartialFailure(ctx context.Context, failure ports.PartialFailure) error {
	var errs []error
	for _, r := range rs {
		if r == nil {
			continue
		}
		if err := r.ReportPartialFailure(ctx, failure); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
