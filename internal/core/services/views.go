// internal/core/services/views.go
package services

import (
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/ammerola/stockroom/internal/core/collection"
	"github.com/ammerola/stockroom/internal/core/domain"
)

// ViewOptions carries the session state every view-model is built from
type ViewOptions struct {
	Settings domain.Settings
	Language language.Tag
}

func (o ViewOptions) lang() language.Tag {
	if o.Language != language.Und {
		return o.Language
	}
	if tag, err := language.Parse(o.Settings.Language); err == nil {
		return tag
	}
	return language.English
}

func (o ViewOptions) threshold() int {
	if o.Settings.LowStockThreshold > 0 {
		return o.Settings.LowStockThreshold
	}
	return domain.DefaultLowStockThreshold
}

func initialFilters(pref domain.SortPreference) collection.FilterConfig {
	order := pref.Order
	if order == "" {
		order = domain.SortAsc
	}
	return collection.FilterConfig{SortBy: pref.Field, SortOrder: order}
}

// Distinct returns the non-empty values a categorical field takes in items,
// for offering filter choices
func Distinct[T any](items []T, get func(T) string) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		v := strings.TrimSpace(get(item))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
