// internal/core/services/transactions.go
package services

import (
	"log/slog"
	"time"

	"github.com/ammerola/stockroom/internal/core/collection"
	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/ports"
)

// TransactionFilterType is the transaction categorical filter key
const TransactionFilterType = "type"

// TransactionSchema describes how transactions are searched, filtered and sorted
func TransactionSchema() collection.Schema[domain.Transaction] {
	return collection.Schema[domain.Transaction]{
		ID: func(t domain.Transaction) string { return t.ID },
		Searchable: []func(domain.Transaction) string{
			func(t domain.Transaction) string { return t.ItemName },
			func(t domain.Transaction) string { return t.Reference },
		},
		Categories: map[string]func(domain.Transaction) string{
			TransactionFilterType: func(t domain.Transaction) string { return string(t.Type) },
		},
		Sorts: map[string]collection.Comparator[domain.Transaction]{
			"itemName":  collection.ByString(func(t domain.Transaction) string { return t.ItemName }),
			"reference": collection.ByString(func(t domain.Transaction) string { return t.Reference }),
			"type":      collection.ByString(func(t domain.Transaction) string { return string(t.Type) }),
			"quantity":  collection.ByInt(func(t domain.Transaction) int { return t.Quantity }),
			"createdAt": collection.ByTime(func(t domain.Transaction) time.Time { return t.CreatedAt }),
		},
	}
}

// TransactionService is the transaction list view-model
type TransactionService struct {
	*collection.Collection[domain.Transaction, domain.TransactionDraft]
}

// NewTransactionService creates the transaction view-model
func NewTransactionService(api ports.TransactionAPI, opts ViewOptions, logger *slog.Logger) *TransactionService {
	return &TransactionService{
		Collection: collection.New(collection.Config[domain.Transaction, domain.TransactionDraft]{
			Name:     "transactions",
			API:      api,
			Schema:   TransactionSchema(),
			Validate: (*domain.TransactionDraft).Validate,
			Provisional: func(id string, d domain.TransactionDraft, now time.Time) domain.Transaction {
				return d.ToTransaction(id, now)
			},
			Language: opts.lang(),
			Filters:  initialFilters(opts.Settings.TransactionSort),
			Logger:   logger.With(slog.String("service", "transactions")),
		}),
	}
}

// ByReference returns the loaded transaction carrying reference, if any
func (s *TransactionService) ByReference(reference string) (domain.Transaction, bool) {
	for _, tx := range s.Items() {
		if tx.Reference == reference {
			return tx, true
		}
	}
	return domain.Transaction{}, false
}
