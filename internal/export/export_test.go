package export_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"go.uber.org/mock/gomock"
	"golang.org/x/text/language"

	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/export"
	"github.com/ammerola/stockroom/internal/i18n"
	"github.com/ammerola/stockroom/test/helpers"
	"github.com/ammerola/stockroom/test/mocks"
)

func sampleItems() []domain.InventoryItem {
	updated := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	return []domain.InventoryItem{
		*helpers.CreateTestInventoryItem(func(i *domain.InventoryItem) {
			i.ID = "item-1"
			i.SKU = "HB-M8-0001"
			i.LastUpdated = updated
		}),
		*helpers.CreateTestInventoryItem(func(i *domain.InventoryItem) {
			i.ID = "item-2"
			i.Name = "Wing Nut M6"
			i.SKU = "WN-M6-0002"
			i.Quantity = 4
			i.Price = decimal.RequireFromString("1.25")
			i.Status = domain.StatusLowStock
			i.LastUpdated = updated
		}),
	}
}

func TestInventoryTable_Localized(t *testing.T) {
	es := i18n.New(language.Spanish)
	table := export.InventoryTable(es, sampleItems(), "02/01/2006")

	assert.Equal(t, "Inventario", table.Sheet)
	assert.Equal(t, "Nombre", table.Headers[1])
	assert.Equal(t, 2, table.Len())

	rows := table.Strings()
	assert.Equal(t, []string{
		"item-2", "Wing Nut M6", "WN-M6-0002", "Fasteners", "Acme Supply",
		"pcs", "4", "1.25", "Stock bajo", "A-01", "01/10/2026",
	}, rows[1])
}

func TestSupplierTable(t *testing.T) {
	en := i18n.New(language.English)
	s := *helpers.CreateTestSupplier(func(s *domain.Supplier) {
		s.ID = "sup-1"
		s.CreatedAt = time.Time{}
	})

	table := export.SupplierTable(en, []domain.Supplier{s}, "")

	require.Equal(t, 1, table.Len())
	row := table.Strings()[0]
	assert.Equal(t, "sup-1", row[0])
	assert.Equal(t, "Active", row[7])
	assert.Equal(t, "", row[8])
}

func TestWriteXLSX(t *testing.T) {
	en := i18n.New(language.English)
	table := export.InventoryTable(en, sampleItems(), "")

	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, table))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Inventory", sheet.Name)
	assert.Equal(t, 3, sheet.MaxRow)

	header, err := sheet.Cell(0, 2)
	require.NoError(t, err)
	assert.Equal(t, "SKU", header.Value)

	qty, err := sheet.Cell(2, 6)
	require.NoError(t, err)
	n, err := qty.Int()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	price, err := sheet.Cell(2, 7)
	require.NoError(t, err)
	f, err := price.Float()
	require.NoError(t, err)
	assert.InDelta(t, 1.25, f, 0.0001)
}

func TestExporter_WritesLocalFile(t *testing.T) {
	en := i18n.New(language.English)
	path := filepath.Join(t.TempDir(), "out", "inventory.xlsx")

	exp := export.NewExporter(nil, 0, helpers.TestLogger())
	res, err := exp.Export(context.Background(), export.Request{
		Name:  "inventory",
		Table: export.InventoryTable(en, sampleItems(), ""),
		Path:  path,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, path, res.Path)
	assert.Empty(t, res.URL)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExporter_NoDestination(t *testing.T) {
	exp := export.NewExporter(nil, 0, helpers.TestLogger())
	_, err := exp.Export(context.Background(), export.Request{Name: "inventory"})
	assert.ErrorIs(t, err, export.ErrNoDestination)
}

func TestExporter_UploadsToStorage(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockObjectStorage(ctrl)
	en := i18n.New(language.English)

	var uploadedKey string
	storage.EXPECT().
		Upload(gomock.Any(), gomock.Any(), gomock.Any(), export.ContentTypeXLSX).
		DoAndReturn(func(_ context.Context, key string, _ io.Reader, _ string) (string, error) {
			uploadedKey = key
			return "s3://exports/" + key, nil
		})
	storage.EXPECT().
		GetPresignedURL(gomock.Any(), gomock.Any(), 10*time.Minute).
		Return("https://example.test/signed", nil)

	exp := export.NewExporter(storage, 10*time.Minute, helpers.TestLogger())
	res, err := exp.Export(context.Background(), export.Request{
		Name:  "Suppliers",
		Table: export.SupplierTable(en, nil, ""),
	})

	require.NoError(t, err)
	assert.Regexp(t, `^exports/suppliers-\d{8}-\d{6}\.xlsx$`, uploadedKey)
	assert.Equal(t, uploadedKey, res.Key)
	assert.Equal(t, "https://example.test/signed", res.URL)
	assert.Empty(t, res.Path)
}

func TestExporter_UploadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockObjectStorage(ctrl)
	storage.EXPECT().
		Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("bucket gone"))

	exp := export.NewExporter(storage, 0, helpers.TestLogger())
	_, err := exp.Export(context.Background(), export.Request{
		Name:  "inventory",
		Table: export.InventoryTable(i18n.New(language.English), nil, ""),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")
}
