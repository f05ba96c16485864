// internal/core/services/inventory_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/text/language"

	"github.com/ammerola/stockroom/internal/core/collection"
	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/services"
	"github.com/ammerola/stockroom/test/helpers"
	"github.com/ammerola/stockroom/test/mocks"
)

func item(id, name, sku, category string, qty int, status domain.StockStatus) domain.InventoryItem {
	return *helpers.CreateTestInventoryItem(func(i *domain.InventoryItem) {
		i.ID = id
		i.Name = name
		i.SKU = sku
		i.Category = category
		i.Quantity = qty
		i.Status = status
	})
}

func newInventory(t *testing.T, opts services.ViewOptions) (*services.InventoryService, *mocks.MockResourceAPI[domain.InventoryItem, domain.InventoryDraft]) {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := mocks.NewMockResourceAPI[domain.InventoryItem, domain.InventoryDraft](ctrl)
	return services.NewInventoryService(api, opts, helpers.TestLogger()), api
}

func TestInventoryService_VisibleUsesSchemaAndSettings(t *testing.T) {
	ctx := context.Background()
	svc, api := newInventory(t, services.ViewOptions{Settings: domain.DefaultSettings()})

	api.EXPECT().List(gomock.Any()).Return([]domain.InventoryItem{
		item("1", "Widget", "W-1", "Tools", 5, domain.StatusLowStock),
		item("2", "anvil", "A-9", "Tools", 0, domain.StatusOutOfStock),
		item("3", "Bolt", "B-2", "Fasteners", 50, domain.StatusInStock),
	}, nil)

	require.NoError(t, svc.FetchAll(ctx))

	// default settings sort inventory by name ascending
	names := func(items []domain.InventoryItem) []string {
		out := make([]string, 0, len(items))
		for _, i := range items {
			out = append(out, i.Name)
		}
		return out
	}
	assert.Equal(t, []string{"anvil", "Bolt", "Widget"}, names(svc.Visible()))

	require.NoError(t, svc.UpdateFilters(collection.FilterPatch{
		Search:     collection.Ptr("w-"),
		Categories: map[string]string{services.InventoryFilterCategory: "Tools"},
	}))
	assert.Equal(t, []string{"Widget"}, names(svc.Visible()))

	require.NoError(t, svc.UpdateFilters(collection.FilterPatch{
		Search:     collection.Ptr(""),
		Categories: map[string]string{services.InventoryFilterCategory: ""},
		SortBy:     collection.Ptr("quantity"),
		SortOrder:  collection.Ptr(domain.SortDesc),
	}))
	assert.Equal(t, []string{"Bolt", "Widget", "anvil"}, names(svc.Visible()))

	assert.Equal(t, []string{"Fasteners", "Tools"}, svc.Categories())
	assert.Len(t, svc.NeedsRestock(), 2)

	var verr *domain.ValidationError
	err := svc.UpdateFilters(collection.FilterPatch{Categories: map[string]string{"colour": "red"}})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "colour")
}

func TestInventoryService_CreateValidatesStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInventory(t, services.ViewOptions{Settings: domain.DefaultSettings()})

	draft := domain.InventoryDraft{
		Name:     "Cable tie",
		SKU:      "CT-100",
		Category: "Fasteners",
		Supplier: "Acme Supply",
		Unit:     "pcs",
		Quantity: 0,
		Price:    decimal.RequireFromString("0.05"),
		Status:   domain.StatusInStock,
	}

	// no API call is expected: the mock fails the test if one happens
	_, err := svc.Create(ctx, draft)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "status")
	assert.Equal(t, err, svc.Err())
}

func TestInventoryService_CreateDerivesStatusFromThreshold(t *testing.T) {
	ctx := context.Background()
	settings := domain.DefaultSettings()
	settings.LowStockThreshold = 25
	svc, api := newInventory(t, services.ViewOptions{Settings: settings, Language: language.English})

	draft := domain.InventoryDraft{
		Name: "Cable tie", SKU: "CT-100", Category: "Fasteners",
		Supplier: "Acme Supply", Unit: "pcs", Quantity: 20,
		Price: decimal.RequireFromString("0.05"),
	}

	api.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d domain.InventoryDraft) (domain.InventoryItem, error) {
			assert.Equal(t, domain.StatusLowStock, d.Status)
			return d.ToItem("srv-1", helpers.CreateTestInventoryItem().LastUpdated), nil
		})

	created, err := svc.Create(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "srv-1", created.ID)
	assert.Equal(t, 25, svc.Threshold())
	require.Len(t, svc.Items(), 1)
	assert.Equal(t, "srv-1", svc.Items()[0].ID)
}

func TestInventoryService_DeleteRollback(t *testing.T) {
	ctx := context.Background()
	svc, api := newInventory(t, services.ViewOptions{Settings: domain.DefaultSettings()})

	items := []domain.InventoryItem{
		item("1", "A", "A-1", "Tools", 5, domain.StatusLowStock),
		item("2", "B", "B-1", "Tools", 15, domain.StatusInStock),
	}
	api.EXPECT().List(gomock.Any()).Return(items, nil)
	api.EXPECT().Delete(gomock.Any(), "1").Return(errors.New("request failed (409): in use"))

	require.NoError(t, svc.FetchAll(ctx))
	require.Error(t, svc.Delete(ctx, "1"))
	assert.Equal(t, items, svc.Items())
	assert.Error(t, svc.Err())
}

func TestDistinct(t *testing.T) {
	values := services.Distinct([]string{"b", " a", "", "b", "c "}, func(s string) string { return s })
	assert.Equal(t, []string{"a", "b", "c"}, values)
}
