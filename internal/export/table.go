// Package export turns visible projections into tables and spreadsheets.
package export

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/i18n"
)

// Table is a localized projection ready for rendering. Cells hold string,
// int or decimal.Decimal values.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]any
}

// Len returns the number of data rows
func (t Table) Len() int {
	return len(t.Rows)
}

// Strings renders every cell as text
func (t Table) Strings() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		line := make([]string, len(row))
		for i, v := range row {
			line[i] = cellText(v)
		}
		out = append(out, line)
	}
	return out
}

// InventoryTable lays out inventory items in the order given
func InventoryTable(l *i18n.Localizer, items []domain.InventoryItem, dateFormat string) Table {
	t := Table{
		Sheet: l.T(i18n.MsgInventory),
		Headers: headers(l,
			i18n.MsgID, i18n.MsgName, i18n.MsgSKU, i18n.MsgCategory, i18n.MsgSupplier,
			i18n.MsgUnit, i18n.MsgQuantity, i18n.MsgPrice, i18n.MsgStatus,
			i18n.MsgLocation, i18n.MsgLastUpdated),
		Rows: make([][]any, 0, len(items)),
	}
	for _, it := range items {
		t.Rows = append(t.Rows, []any{
			it.ID, it.Name, it.SKU, it.Category, it.Supplier,
			it.Unit, it.Quantity, it.Price, l.Label(string(it.Status)),
			it.Location, formatTime(it.LastUpdated, dateFormat),
		})
	}
	return t
}

// SupplierTable lays out suppliers in the order given
func SupplierTable(l *i18n.Localizer, suppliers []domain.Supplier, dateFormat string) Table {
	t := Table{
		Sheet: l.T(i18n.MsgSuppliers),
		Headers: headers(l,
			i18n.MsgID, i18n.MsgName, i18n.MsgContactPerson, i18n.MsgEmail,
			i18n.MsgPhone, i18n.MsgAddress, i18n.MsgTaxNumber, i18n.MsgStatus,
			i18n.MsgCreated),
		Rows: make([][]any, 0, len(suppliers)),
	}
	for _, s := range suppliers {
		t.Rows = append(t.Rows, []any{
			s.ID, s.Name, s.ContactPerson, s.Email,
			s.Phone, s.Address, s.TaxNumber, l.Label(string(s.Status)),
			formatTime(s.CreatedAt, dateFormat),
		})
	}
	return t
}

// TransactionTable lays out transactions in the order given
func TransactionTable(l *i18n.Localizer, txs []domain.Transaction, dateFormat string) Table {
	t := Table{
		Sheet: l.T(i18n.MsgTransactions),
		Headers: headers(l,
			i18n.MsgID, i18n.MsgItem, i18n.MsgType, i18n.MsgQuantity,
			i18n.MsgReference, i18n.MsgNote, i18n.MsgCreated),
		Rows: make([][]any, 0, len(txs)),
	}
	for _, tx := range txs {
		t.Rows = append(t.Rows, []any{
			tx.ID, tx.ItemName, l.Label(string(tx.Type)), tx.Quantity,
			tx.Reference, tx.Note, formatTime(tx.CreatedAt, dateFormat),
		})
	}
	return t
}

func headers(l *i18n.Localizer, keys ...string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = l.T(k)
	}
	return out
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	if layout == "" {
		layout = time.DateOnly
	}
	return t.Format(layout)
}

func cellText(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return decimal.NewFromInt(int64(val)).String()
	case decimal.Decimal:
		return val.StringFixed(2)
	case nil:
		return ""
	default:
		return ""
	}
}
