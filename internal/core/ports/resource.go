// internal/core/ports/resource.go
package ports

import (
	"context"

	"github.com/ammerola/stockroom/internal/core/domain"
)

// ResourceAPI is the REST contract of one backend collection.
// T is the entity as served, D is the draft sent on create and update.
type ResourceAPI[T any, D any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, draft D) (T, error)
	Update(ctx context.Context, id string, draft D) (T, error)
	Delete(ctx context.Context, id string) error
}

// Collection contracts used by the feature services
type (
	InventoryAPI   = ResourceAPI[domain.InventoryItem, domain.InventoryDraft]
	SupplierAPI    = ResourceAPI[domain.Supplier, domain.SupplierDraft]
	TransactionAPI = ResourceAPI[domain.Transaction, domain.TransactionDraft]
)
