// internal/core/domain/inventory.go
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StockStatus represents the stock level classification of an item
type StockStatus string

// Stock status constants
const (
	StatusInStock    StockStatus = "in-stock"
	StatusLowStock   StockStatus = "low-stock"
	StatusOutOfStock StockStatus = "out-of-stock"
)

// DefaultLowStockThreshold is used when neither the item nor the settings carry one
const DefaultLowStockThreshold = 10

// Valid reports whether s is one of the known stock statuses
func (s StockStatus) Valid() bool {
	switch s {
	case StatusInStock, StatusLowStock, StatusOutOfStock:
		return true
	}
	return false
}

// DeriveStatus classifies a quantity against a low-stock threshold
func DeriveStatus(quantity, threshold int) StockStatus {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= threshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// InventoryItem represents a single inventory record as served by the backend
type InventoryItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Category    string          `json:"category"`
	Supplier    string          `json:"supplier"`
	Unit        string          `json:"unit"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Status      StockStatus     `json:"status"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location,omitempty"`
	MinStock    int             `json:"minStock,omitempty"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// Threshold returns the item's own low-stock threshold, falling back to def
func (i InventoryItem) Threshold(def int) int {
	if i.MinStock > 0 {
		return i.MinStock
	}
	if def > 0 {
		return def
	}
	return DefaultLowStockThreshold
}

// StockValue returns quantity multiplied by unit price
func (i InventoryItem) StockValue() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Draft returns the editable part of the item
func (i InventoryItem) Draft() InventoryDraft {
	return InventoryDraft{
		Name:        i.Name,
		SKU:         i.SKU,
		Category:    i.Category,
		Supplier:    i.Supplier,
		Unit:        i.Unit,
		Quantity:    i.Quantity,
		Price:       i.Price,
		Status:      i.Status,
		Description: i.Description,
		Location:    i.Location,
		MinStock:    i.MinStock,
	}
}

// InventoryDraft is an inventory item without server-assigned id and timestamps
type InventoryDraft struct {
	Name        string          `json:"name" validate:"required"`
	SKU         string          `json:"sku" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Supplier    string          `json:"supplier" validate:"required"`
	Unit        string          `json:"unit" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	Price       decimal.Decimal `json:"price"`
	Status      StockStatus     `json:"status,omitempty"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location,omitempty"`
	MinStock    int             `json:"minStock,omitempty" validate:"gte=0"`
}

// Normalize trims descriptive fields and fills the status from the quantity when absent
func (d *InventoryDraft) Normalize(threshold int) {
	d.Name = strings.TrimSpace(d.Name)
	d.SKU = strings.TrimSpace(d.SKU)
	d.Category = strings.TrimSpace(d.Category)
	d.Supplier = strings.TrimSpace(d.Supplier)
	d.Unit = strings.TrimSpace(d.Unit)
	d.Description = strings.TrimSpace(d.Description)
	d.Location = strings.TrimSpace(d.Location)

	if d.Status == "" {
		if d.MinStock > 0 {
			threshold = d.MinStock
		}
		d.Status = DeriveStatus(d.Quantity, threshold)
	}
}

// Validate normalizes the draft and checks required fields, numeric bounds
// and the quantity/status invariant
func (d *InventoryDraft) Validate(threshold int) error {
	d.Normalize(threshold)

	verr := structErrors(d)
	if d.Price.IsNegative() {
		verr.Add("price", "must be greater than or equal to 0")
	}
	if !d.Status.Valid() {
		verr.Add("status", "must be one of in-stock low-stock out-of-stock")
	} else if d.Quantity >= 0 {
		if d.Quantity == 0 && d.Status != StatusOutOfStock {
			verr.Add("status", "must be out-of-stock when quantity is 0")
		}
		if d.Quantity > 0 && d.Status == StatusOutOfStock {
			verr.Add("status", "cannot be out-of-stock when quantity is positive")
		}
	}
	return verr.OrNil()
}

// ToItem builds a local record from the draft
func (d InventoryDraft) ToItem(id string, now time.Time) InventoryItem {
	return InventoryItem{
		ID:          id,
		Name:        d.Name,
		SKU:         d.SKU,
		Category:    d.Category,
		Supplier:    d.Supplier,
		Unit:        d.Unit,
		Quantity:    d.Quantity,
		Price:       d.Price,
		Status:      d.Status,
		Description: d.Description,
		Location:    d.Location,
		MinStock:    d.MinStock,
		LastUpdated: now,
	}
}
