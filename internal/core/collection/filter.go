package collection

import (
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ammerola/stockroom/internal/core/domain"
)

// FilterConfig is the active search, categorical and sort state of a view
type FilterConfig struct {
	Search     string
	Categories map[string]string
	SortBy     string
	SortOrder  domain.SortOrder
}

// FilterPatch is a partial FilterConfig. Nil fields are left untouched;
// a category entry with an empty value clears that constraint.
type FilterPatch struct {
	Search     *string
	Categories map[string]string
	SortBy     *string
	SortOrder  *domain.SortOrder
}

// Ptr returns a pointer to v, for building patches
func Ptr[V any](v V) *V {
	return &v
}

// Active reports whether the search or any categorical constraint narrows the view
func (f FilterConfig) Active() bool {
	if strings.TrimSpace(f.Search) != "" {
		return true
	}
	for _, v := range f.Categories {
		if v != "" {
			return true
		}
	}
	return false
}

func (f FilterConfig) clone() FilterConfig {
	out := f
	out.Categories = maps.Clone(f.Categories)
	return out
}

func (f FilterConfig) merge(p FilterPatch) FilterConfig {
	out := f.clone()
	if p.Search != nil {
		out.Search = *p.Search
	}
	for key, value := range p.Categories {
		if value == "" {
			delete(out.Categories, key)
			continue
		}
		if out.Categories == nil {
			out.Categories = make(map[string]string)
		}
		out.Categories[key] = value
	}
	if p.SortBy != nil {
		out.SortBy = *p.SortBy
	}
	if p.SortOrder != nil {
		out.SortOrder = *p.SortOrder
	}
	return out
}

func (s Schema[T]) check(f FilterConfig) error {
	verr := &domain.ValidationError{}
	for key := range f.Categories {
		if _, ok := s.Categories[key]; !ok {
			verr.Add(key, "is not a filterable field")
		}
	}
	if f.SortBy != "" {
		if _, ok := s.Sorts[f.SortBy]; !ok {
			verr.Add("sortBy", "must be one of "+strings.Join(s.SortKeys(), " "))
		}
	}
	switch f.SortOrder {
	case "", domain.SortAsc, domain.SortDesc:
	default:
		verr.Add("sortOrder", "must be one of asc desc")
	}
	return verr.OrNil()
}

// Project returns the records of items kept by cfg, stably sorted by its sort key.
// items is never modified.
func Project[T any](items []T, schema Schema[T], cfg FilterConfig, lang language.Tag) []T {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(cfg.Search))

	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle != "" && !matchesSearch(item, schema.Searchable, needle, fold) {
			continue
		}
		if !matchesCategories(item, schema.Categories, cfg.Categories) {
			continue
		}
		out = append(out, item)
	}

	compare, ok := schema.Sorts[cfg.SortBy]
	if !ok {
		return out
	}
	col := collate.New(lang, collate.Numeric)
	sign := 1
	if cfg.SortOrder == domain.SortDesc {
		sign = -1
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return sign * compare(a, b, col)
	})
	return out
}

func matchesSearch[T any](item T, fields []func(T) string, needle string, fold cases.Caser) bool {
	for _, field := range fields {
		if strings.Contains(fold.String(field(item)), needle) {
			return true
		}
	}
	return false
}

func matchesCategories[T any](item T, fields map[string]func(T) string, want map[string]string) bool {
	for key, value := range want {
		if value == "" {
			continue
		}
		field, ok := fields[key]
		if !ok || field(item) != value {
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
