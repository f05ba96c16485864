package importer

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ammerola/stockroom/internal/core/domain"
)

// Defaults for fields a delivery note does not carry
const (
	DefaultCategory = "Uncategorized"
	DefaultUnit     = "pcs"
)

var (
	supplierRe = regexp.MustCompile(`(?i)^supplier\s*:\s*(.+)$`)
	footerRe   = regexp.MustCompile(`(?i)^(subtotal|total)\b`)
	lineRe     = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._/-]*)\s+(.+?)\s+(\d+)\s+\$?(\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)$`)
)

// ParsePDF extracts drafts from a delivery note
func ParsePDF(data []byte, threshold int) (Result, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("failed to open PDF: %w", err)
	}

	var lines []string
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return Result{}, fmt.Errorf("failed to extract text from page %d: %w", pageNum, err)
		}
		lines = append(lines, strings.Split(text, "\n")...)
	}

	return ParseDeliveryNote(lines, threshold), nil
}

// ParseDeliveryNote reads "SKU NAME QTY PRICE" lines. A "Supplier: X" line
// sets the supplier for the lines after it; reading stops at a total line.
// Lines that match no pattern, such as headings, are skipped.
func ParseDeliveryNote(lines []string, threshold int) Result {
	var (
		res      Result
		supplier string
	)
	for n, raw := range lines {
		line := strings.Join(strings.Fields(raw), " ")
		if line == "" {
			continue
		}
		if footerRe.MatchString(line) {
			break
		}
		if m := supplierRe.FindStringSubmatch(line); m != nil {
			supplier = strings.TrimSpace(m[1])
			continue
		}

		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		qty, err := parseQuantity(m[3])
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: n + 1, Err: err})
			continue
		}
		price, err := parsePrice(m[4])
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: n + 1, Err: err})
			continue
		}

		draft := domain.InventoryDraft{
			Name:     m[2],
			SKU:      strings.ToUpper(m[1]),
			Category: DefaultCategory,
			Supplier: supplier,
			Unit:     DefaultUnit,
			Quantity: qty,
			Price:    price,
		}
		if err := draft.Validate(threshold); err != nil {
			res.Errors = append(res.Errors, RowError{Row: n + 1, Err: err})
			continue
		}
		res.Drafts = append(res.Drafts, draft)
	}
	return res
}
