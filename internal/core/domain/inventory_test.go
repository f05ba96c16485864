package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockroom/internal/core/domain"
)

func validDraft() domain.InventoryDraft {
	return domain.InventoryDraft{
		Name:     "Hex Bolt M8",
		SKU:      "HB-M8",
		Category: "Fasteners",
		Supplier: "Acme Supply",
		Unit:     "pcs",
		Quantity: 120,
		Price:    decimal.RequireFromString("0.35"),
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		threshold int
		want      domain.StockStatus
	}{
		{"zero is out of stock", 0, 10, domain.StatusOutOfStock},
		{"at threshold is low", 10, 10, domain.StatusLowStock},
		{"below threshold is low", 3, 10, domain.StatusLowStock},
		{"above threshold is in stock", 11, 10, domain.StatusInStock},
		{"zero threshold", 1, 0, domain.StatusInStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.DeriveStatus(tt.quantity, tt.threshold))
		})
	}
}

func TestInventoryDraft_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(d *domain.InventoryDraft)
		wantFields []string
		wantStatus domain.StockStatus
	}{
		{
			name:       "valid draft derives status",
			mutate:     func(d *domain.InventoryDraft) {},
			wantStatus: domain.StatusInStock,
		},
		{
			name: "blank name and sku",
			mutate: func(d *domain.InventoryDraft) {
				d.Name = "   "
				d.SKU = ""
			},
			wantFields: []string{"name", "sku"},
		},
		{
			name: "negative quantity and price",
			mutate: func(d *domain.InventoryDraft) {
				d.Quantity = -1
				d.Price = decimal.NewFromInt(-5)
			},
			wantFields: []string{"price", "quantity"},
		},
		{
			name: "zero quantity must be out of stock",
			mutate: func(d *domain.InventoryDraft) {
				d.Quantity = 0
				d.Status = domain.StatusInStock
			},
			wantFields: []string{"status"},
		},
		{
			name: "positive quantity cannot be out of stock",
			mutate: func(d *domain.InventoryDraft) {
				d.Status = domain.StatusOutOfStock
			},
			wantFields: []string{"status"},
		},
		{
			name: "unknown status",
			mutate: func(d *domain.InventoryDraft) {
				d.Status = "discontinued"
			},
			wantFields: []string{"status"},
		},
		{
			name: "explicit low stock above threshold is kept",
			mutate: func(d *domain.InventoryDraft) {
				d.Status = domain.StatusLowStock
			},
			wantStatus: domain.StatusLowStock,
		},
		{
			name: "per item minimum drives derivation",
			mutate: func(d *domain.InventoryDraft) {
				d.MinStock = 200
			},
			wantStatus: domain.StatusLowStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(&draft)

			err := draft.Validate(domain.DefaultLowStockThreshold)

			if len(tt.wantFields) > 0 {
				require.Error(t, err)
				var verr *domain.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantFields, verr.FieldNames())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, draft.Status)
		})
	}
}

func TestInventoryDraft_ToItemRoundTrip(t *testing.T) {
	draft := validDraft()
	require.NoError(t, draft.Validate(10))
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	item := draft.ToItem("tmp-1", now)

	assert.Equal(t, "tmp-1", item.ID)
	assert.Equal(t, now, item.LastUpdated)
	assert.Equal(t, draft, item.Draft())
}

func TestInventoryItem_StockValueAndThreshold(t *testing.T) {
	item := domain.InventoryItem{Quantity: 4, Price: decimal.RequireFromString("2.50")}

	assert.True(t, item.StockValue().Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 7, item.Threshold(7))
	assert.Equal(t, domain.DefaultLowStockThreshold, item.Threshold(0))

	item.MinStock = 3
	assert.Equal(t, 3, item.Threshold(7))
}
