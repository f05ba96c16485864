// Package collection holds the generic list view-model shared by the
// inventory, supplier and transaction views.
package collection

import (
	"cmp"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
)

// Comparator orders two records. The collator is only valid for the duration of the call.
type Comparator[T any] func(a, b T, col *collate.Collator) int

// ByString compares a text field with the locale collator
func ByString[T any](get func(T) string) Comparator[T] {
	return func(a, b T, col *collate.Collator) int {
		return col.CompareString(get(a), get(b))
	}
}

// ByInt compares a numeric field
func ByInt[T any](get func(T) int) Comparator[T] {
	return func(a, b T, _ *collate.Collator) int {
		return cmp.Compare(get(a), get(b))
	}
}

// ByDecimal compares a decimal field
func ByDecimal[T any](get func(T) decimal.Decimal) Comparator[T] {
	return func(a, b T, _ *collate.Collator) int {
		return get(a).Cmp(get(b))
	}
}

// ByTime compares a timestamp field chronologically
func ByTime[T any](get func(T) time.Time) Comparator[T] {
	return func(a, b T, _ *collate.Collator) int {
		return get(a).Compare(get(b))
	}
}

// Schema describes how an entity type is identified, searched, filtered and sorted
type Schema[T any] struct {
	ID         func(T) string
	Searchable []func(T) string
	Categories map[string]func(T) string
	Sorts      map[string]Comparator[T]
}

// CategoryKeys lists the categorical filter keys the schema accepts
func (s Schema[T]) CategoryKeys() []string {
	return sortedKeys(s.Categories)
}

// SortKeys lists the sort keys the schema accepts
func (s Schema[T]) SortKeys() []string {
	return sortedKeys(s.Sorts)
}
