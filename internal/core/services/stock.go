// internal/core/services/stock.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/ports"
)

// StageTransaction names the second phase of a stock movement
const StageTransaction = "transaction"

// PartialFailureError reports a movement whose item update was applied but
// whose transaction record was not
type PartialFailureError struct {
	Stage     string
	ItemID    string
	Reference string
	Item      domain.InventoryItem
	Err       error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("stock movement %s partially applied: item %s updated but %s failed: %v",
		e.Reference, e.ItemID, e.Stage, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

// Movement is a request to move stock in or out of an item
type Movement struct {
	ItemID    string
	Quantity  int
	Note      string
	Reference string
	CreatedBy string
}

// MovementResult is what a completed movement produced
type MovementResult struct {
	Item        domain.InventoryItem
	Transaction domain.Transaction
}

// StockService moves stock in two phases: update the item, then record the transaction
type StockService struct {
	inventory    *InventoryService
	transactions *TransactionService
	reporter     ports.PartialFailureReporter
	now          func() time.Time
	logger       *slog.Logger
}

// NewStockService creates a stock service on top of the inventory and transaction views
func NewStockService(inventory *InventoryService, transactions *TransactionService,
	reporter ports.PartialFailureReporter, logger *slog.Logger) *StockService {
	return &StockService{
		inventory:    inventory,
		transactions: transactions,
		reporter:     reporter,
		now:          time.Now,
		logger:       logger.With(slog.String("service", "stock")),
	}
}

// Dispatch takes stock out of an item. Quantities above the available stock are rejected.
func (s *StockService) Dispatch(ctx context.Context, m Movement) (MovementResult, error) {
	return s.move(ctx, domain.TransactionOutgoing, m)
}

// Receive adds stock to an item
func (s *StockService) Receive(ctx context.Context, m Movement) (MovementResult, error) {
	return s.move(ctx, domain.TransactionIncoming, m)
}

func (s *StockService) move(ctx context.Context, kind domain.TransactionType, m Movement) (MovementResult, error) {
	m.ItemID = strings.TrimSpace(m.ItemID)
	m.Reference = strings.TrimSpace(m.Reference)

	verr := &domain.ValidationError{}
	if m.ItemID == "" {
		verr.Add("itemId", "is required")
	}
	if m.Quantity <= 0 {
		verr.Add("quantity", "must be greater than 0")
	}
	if err := verr.OrNil(); err != nil {
		return MovementResult{}, err
	}
	if m.Reference == "" {
		m.Reference = NewMovementReference()
	}

	item, err := s.inventory.Get(ctx, m.ItemID)
	if err != nil {
		return MovementResult{}, fmt.Errorf("load item %s: %w", m.ItemID, err)
	}

	quantity := item.Quantity + m.Quantity
	if kind == domain.TransactionOutgoing {
		if m.Quantity > item.Quantity {
			return MovementResult{}, domain.NewValidationError("quantity",
				fmt.Sprintf("exceeds available stock (%d)", item.Quantity))
		}
		quantity = item.Quantity - m.Quantity
	}

	draft := item.Draft()
	draft.Quantity = quantity
	draft.Status = domain.DeriveStatus(quantity, item.Threshold(s.inventory.Threshold()))

	// Phase A: nothing is applied if the item update fails
	updated, err := s.inventory.Update(ctx, item.ID, draft)
	if err != nil {
		return MovementResult{}, fmt.Errorf("update stock of %s: %w", item.ID, err)
	}

	txDraft := domain.TransactionDraft{
		ItemID:    updated.ID,
		ItemName:  updated.Name,
		Type:      kind,
		Quantity:  m.Quantity,
		Note:      m.Note,
		Reference: m.Reference,
		CreatedBy: m.CreatedBy,
	}

	// Phase B
	tx, err := s.transactions.Create(ctx, txDraft)
	if err != nil {
		perr := &PartialFailureError{
			Stage:     StageTransaction,
			ItemID:    updated.ID,
			Reference: m.Reference,
			Item:      updated,
			Err:       err,
		}
		s.report(ctx, txDraft, perr)
		return MovementResult{Item: updated}, perr
	}

	s.logger.InfoContext(ctx, "stock moved",
		slog.String("item_id", updated.ID),
		slog.String("type", string(kind)),
		slog.Int("quantity", m.Quantity),
		slog.Int("stock", updated.Quantity),
		slog.String("reference", m.Reference))

	return MovementResult{Item: updated, Transaction: tx}, nil
}

func (s *StockService) report(ctx context.Context, draft domain.TransactionDraft, perr *PartialFailureError) {
	s.logger.ErrorContext(ctx, "stock movement partially applied",
		slog.String("item_id", perr.ItemID),
		slog.String("reference", perr.Reference),
		slog.String("stage", perr.Stage),
		slog.String("error", perr.Err.Error()))

	if s.reporter == nil {
		return
	}
	failure := ports.PartialFailure{
		Reference:   perr.Reference,
		ItemID:      perr.ItemID,
		Transaction: draft,
		Cause:       perr.Err.Error(),
		OccurredAt:  s.now().UTC(),
	}
	if err := s.reporter.ReportPartialFailure(ctx, failure); err != nil {
		s.logger.WarnContext(ctx, "failed to report partial failure",
			slog.String("reference", perr.Reference),
			slog.String("error", err.Error()))
	}
}

// NewMovementReference returns a fresh reference for a movement that has none
func NewMovementReference() string {
	return "MOV-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
