// internal/core/services/inventory.go
package services

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/stockroom/internal/core/collection"
	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/ports"
)

// Inventory categorical filter keys
const (
	InventoryFilterCategory = "category"
	InventoryFilterSupplier = "supplier"
	InventoryFilterStatus   = "status"
)

// InventorySchema describes how inventory items are searched, filtered and sorted
func InventorySchema() collection.Schema[domain.InventoryItem] {
	return collection.Schema[domain.InventoryItem]{
		ID: func(i domain.InventoryItem) string { return i.ID },
		Searchable: []func(domain.InventoryItem) string{
			func(i domain.InventoryItem) string { return i.Name },
			func(i domain.InventoryItem) string { return i.SKU },
		},
		Categories: map[string]func(domain.InventoryItem) string{
			InventoryFilterCategory: func(i domain.InventoryItem) string { return i.Category },
			InventoryFilterSupplier: func(i domain.InventoryItem) string { return i.Supplier },
			InventoryFilterStatus:   func(i domain.InventoryItem) string { return string(i.Status) },
		},
		Sorts: map[string]collection.Comparator[domain.InventoryItem]{
			"name":        collection.ByString(func(i domain.InventoryItem) string { return i.Name }),
			"sku":         collection.ByString(func(i domain.InventoryItem) string { return i.SKU }),
			"category":    collection.ByString(func(i domain.InventoryItem) string { return i.Category }),
			"supplier":    collection.ByString(func(i domain.InventoryItem) string { return i.Supplier }),
			"status":      collection.ByString(func(i domain.InventoryItem) string { return string(i.Status) }),
			"quantity":    collection.ByInt(func(i domain.InventoryItem) int { return i.Quantity }),
			"price":       collection.ByDecimal(func(i domain.InventoryItem) decimal.Decimal { return i.Price }),
			"value":       collection.ByDecimal(domain.InventoryItem.StockValue),
			"lastUpdated": collection.ByTime(func(i domain.InventoryItem) time.Time { return i.LastUpdated }),
		},
	}
}

// InventoryService is the inventory list view-model
type InventoryService struct {
	*collection.Collection[domain.InventoryItem, domain.InventoryDraft]
	threshold int
}

// NewInventoryService creates the inventory view-model
func NewInventoryService(api ports.InventoryAPI, opts ViewOptions, logger *slog.Logger) *InventoryService {
	threshold := opts.threshold()
	return &InventoryService{
		Collection: collection.New(collection.Config[domain.InventoryItem, domain.InventoryDraft]{
			Name:   "inventory",
			API:    api,
			Schema: InventorySchema(),
			Validate: func(d *domain.InventoryDraft) error {
				return d.Validate(threshold)
			},
			Provisional: func(id string, d domain.InventoryDraft, now time.Time) domain.InventoryItem {
				return d.ToItem(id, now)
			},
			Language: opts.lang(),
			Filters:  initialFilters(opts.Settings.InventorySort),
			Logger:   logger.With(slog.String("service", "inventory")),
		}),
		threshold: threshold,
	}
}

// Threshold is the default low-stock threshold applied to items without their own
func (s *InventoryService) Threshold() int {
	return s.threshold
}

// Categories lists the categories present in the loaded items
func (s *InventoryService) Categories() []string {
	return Distinct(s.Items(), func(i domain.InventoryItem) string { return i.Category })
}

// Suppliers lists the supplier names present in the loaded items
func (s *InventoryService) Suppliers() []string {
	return Distinct(s.Items(), func(i domain.InventoryItem) string { return i.Supplier })
}

// NeedsRestock returns the loaded items that are low or out of stock
func (s *InventoryService) NeedsRestock() []domain.InventoryItem {
	var out []domain.InventoryItem
	for _, item := range s.Items() {
		if item.Status == domain.StatusLowStock || item.Status == domain.StatusOutOfStock {
			out = append(out, item)
		}
	}
	return out
}
