package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/stockroom/internal/core/domain"
)

// Column headers understood by the spreadsheet import
const (
	ColName        = "name"
	ColSKU         = "sku"
	ColCategory    = "category"
	ColSupplier    = "supplier"
	ColUnit        = "unit"
	ColQuantity    = "quantity"
	ColPrice       = "price"
	ColLocation    = "location"
	ColDescription = "description"
	ColMinStock    = "minstock"
)

var requiredColumns = []string{ColName, ColSKU, ColCategory, ColSupplier, ColUnit, ColQuantity, ColPrice}

// ErrMissingColumns is returned when the header row lacks a required column
var ErrMissingColumns = errors.New("missing required columns")

// ParseXLSX reads drafts from the first sheet. Row 1 is the header.
func ParseXLSX(data []byte, threshold int) (Result, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open Excel file: %w", err)
	}
	if len(file.Sheets) == 0 {
		return Result{}, nil
	}

	var (
		res  Result
		cols map[string]int
	)
	err = file.Sheets[0].ForEachRow(func(r *xlsx.Row) error {
		if cols == nil {
			cols = headerColumns(r)
			var missing []string
			for _, c := range requiredColumns {
				if _, ok := cols[c]; !ok {
					missing = append(missing, c)
				}
			}
			if len(missing) > 0 {
				return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
			}
			return nil
		}

		get := func(name string) string {
			i, ok := cols[name]
			if !ok {
				return ""
			}
			c := r.GetCell(i)
			if c == nil {
				return ""
			}
			return strings.TrimSpace(c.String())
		}

		if blankRow(get) {
			return nil
		}

		draft, err := rowDraft(get, threshold)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: r.GetCoordinate() + 1, Err: err})
			return nil
		}
		res.Drafts = append(res.Drafts, draft)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to process Excel rows: %w", err)
	}

	return res, nil
}

func headerColumns(r *xlsx.Row) map[string]int {
	cols := make(map[string]int)
	_ = r.ForEachCell(func(c *xlsx.Cell) error {
		name := strings.ToLower(strings.TrimSpace(c.String()))
		name = strings.NewReplacer(" ", "", "_", "").Replace(name)
		if name != "" {
			col, _ := c.GetCoordinates()
			if _, dup := cols[name]; !dup {
				cols[name] = col
			}
		}
		return nil
	})
	return cols
}

func blankRow(get func(string) string) bool {
	for _, c := range requiredColumns {
		if get(c) != "" {
			return false
		}
	}
	return true
}

func rowDraft(get func(string) string, threshold int) (domain.InventoryDraft, error) {
	qty, err := parseQuantity(get(ColQuantity))
	if err != nil {
		return domain.InventoryDraft{}, domain.NewValidationError("quantity", "must be a whole number")
	}
	price, err := parsePrice(get(ColPrice))
	if err != nil {
		return domain.InventoryDraft{}, domain.NewValidationError("price", "must be a number")
	}
	var minStock int
	if v := get(ColMinStock); v != "" {
		if minStock, err = parseQuantity(v); err != nil {
			return domain.InventoryDraft{}, domain.NewValidationError("minStock", "must be a whole number")
		}
	}

	draft := domain.InventoryDraft{
		Name:        get(ColName),
		SKU:         get(ColSKU),
		Category:    get(ColCategory),
		Supplier:    get(ColSupplier),
		Unit:        get(ColUnit),
		Quantity:    qty,
		Price:       price,
		Location:    get(ColLocation),
		Description: get(ColDescription),
		MinStock:    minStock,
	}
	if err := draft.Validate(threshold); err != nil {
		return domain.InventoryDraft{}, err
	}
	return draft, nil
}

// parseQuantity accepts "12" and the "12.0" some spreadsheet tools write
func parseQuantity(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("quantity %s is not whole", s)
	}
	return int(d.IntPart()), nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(s, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(cleaned)
}
