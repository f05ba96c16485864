// internal/core/ports/reporter.go
package ports

import (
	"context"
	"time"

	"github.com/ammerola/stockroom/internal/core/domain"
)

// PartialFailure describes a stock movement whose item update was applied
// but whose transaction record was not
type PartialFailure struct {
	Reference   string                  `json:"reference"`
	ItemID      string                  `json:"itemId"`
	Transaction domain.TransactionDraft `json:"transaction"`
	Cause       string                  `json:"cause"`
	OccurredAt  time.Time               `json:"occurredAt"`
}

// PartialFailureReporter hands partial failures to whoever reconciles them
type PartialFailureReporter interface {
	ReportPartialFailure(ctx context.Context, failure PartialFailure) error
}
