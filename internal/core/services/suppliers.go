// internal/core/services/suppliers.go
package services

import (
	"log/slog"
	"time"

	"github.com/ammerola/stockroom/internal/core/collection"
	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/ports"
)

// SupplierFilterStatus is the supplier categorical filter key
const SupplierFilterStatus = "status"

// SupplierSchema describes how suppliers are searched, filtered and sorted
func SupplierSchema() collection.Schema[domain.Supplier] {
	return collection.Schema[domain.Supplier]{
		ID: func(s domain.Supplier) string { return s.ID },
		Searchable: []func(domain.Supplier) string{
			func(s domain.Supplier) string { return s.Name },
			func(s domain.Supplier) string { return s.Email },
		},
		Categories: map[string]func(domain.Supplier) string{
			SupplierFilterStatus: func(s domain.Supplier) string { return string(s.Status) },
		},
		Sorts: map[string]collection.Comparator[domain.Supplier]{
			"name":          collection.ByString(func(s domain.Supplier) string { return s.Name }),
			"contactPerson": collection.ByString(func(s domain.Supplier) string { return s.ContactPerson }),
			"email":         collection.ByString(func(s domain.Supplier) string { return s.Email }),
			"status":        collection.ByString(func(s domain.Supplier) string { return string(s.Status) }),
			"createdAt":     collection.ByTime(func(s domain.Supplier) time.Time { return s.CreatedAt }),
			"updatedAt":     collection.ByTime(func(s domain.Supplier) time.Time { return s.UpdatedAt }),
		},
	}
}

// SupplierService is the supplier list view-model
type SupplierService struct {
	*collection.Collection[domain.Supplier, domain.SupplierDraft]
}

// NewSupplierService creates the supplier view-model
func NewSupplierService(api ports.SupplierAPI, opts ViewOptions, logger *slog.Logger) *SupplierService {
	return &SupplierService{
		Collection: collection.New(collection.Config[domain.Supplier, domain.SupplierDraft]{
			Name:     "suppliers",
			API:      api,
			Schema:   SupplierSchema(),
			Validate: (*domain.SupplierDraft).Validate,
			Provisional: func(id string, d domain.SupplierDraft, now time.Time) domain.Supplier {
				return d.ToSupplier(id, now)
			},
			Language: opts.lang(),
			Filters:  initialFilters(opts.Settings.SupplierSort),
			Logger:   logger.With(slog.String("service", "suppliers")),
		}),
	}
}

// ActiveCount returns how many loaded suppliers are active
func (s *SupplierService) ActiveCount() int {
	n := 0
	for _, sup := range s.Items() {
		if sup.Status == domain.SupplierActive {
			n++
		}
	}
	return n
}
