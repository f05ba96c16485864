// test/benchmarks/helpers.go
package benchmarks

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/test/helpers"
)

// createBenchmarkTransactions spreads count movements over the items and the last 30 days
func createBenchmarkTransactions(items []domain.InventoryItem, count int, now time.Time) []domain.Transaction {
	txs := make([]domain.Transaction, count)
	for i := range txs {
		item := items[i%len(items)]
		kind := domain.TransactionIncoming
		if i%3 == 0 {
			kind = domain.TransactionOutgoing
		}
		txs[i] = *helpers.CreateTestTransaction(func(tx *domain.Transaction) {
			tx.ItemID = item.ID
			tx.ItemName = item.Name
			tx.Type = kind
			tx.Quantity = 1 + i%20
			tx.Reference = fmt.Sprintf("REF-%06d", i)
			tx.CreatedAt = now.Add(-time.Duration(i%30) * 24 * time.Hour)
		})
	}
	return txs
}

// createBenchmarkWorkbook renders items as an import workbook
func createBenchmarkWorkbook(b *testing.B, items []domain.InventoryItem) []byte {
	b.Helper()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Inventory")
	if err != nil {
		b.Fatal(err)
	}

	addRow := func(values ...string) {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().Value = v
		}
	}
	addRow("Name", "SKU", "Category", "Supplier", "Unit", "Quantity", "Price", "Location")
	for _, item := range items {
		addRow(item.Name, item.SKU, item.Category, item.Supplier, item.Unit,
			fmt.Sprint(item.Quantity), item.Price.String(), item.Location)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		b.Fatal(err)
	}
	return buf.Bytes()
}
