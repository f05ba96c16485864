package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/ammerola/stockroom/internal/core/ports"
)

const (
	// QueueCritical carries reconciliation work
	QueueCritical = "critical"
	// TypeStockPartialFailure is a stock movement whose transaction was never recorded
	TypeStockPartialFailure = "stock:partial_failure"
)

// NewPartialFailureTask constructs an Asynq task for failure
func NewPartialFailureTask(failure ports.PartialFailure) (*asynq.Task, error) {
	data, err := json.Marshal(failure)
	if err != nil {
		return nil, fmt.Errorf("marshal partial failure: %w", err)
	}
	return asynq.NewTask(TypeStockPartialFailure, data), nil
}

// DecodePartialFailure reads the payload written by NewPartialFailureTask
func DecodePartialFailure(t *asynq.Task) (ports.PartialFailure, error) {
	var failure ports.PartialFailure
	if err := json.Unmarshal(t.Payload(), &failure); err != nil {
		return failure, fmt.Errorf("unmarshal partial failure: %w", err)
	}
	if failure.ItemID == "" || failure.Reference == "" {
		return failure, fmt.Errorf("partial failure payload missing item id or reference")
	}
	return failure, nil
}
