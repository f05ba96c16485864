package domain

import (
	"slices"
)

// SortOrder is the direction applied to a sort key
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Theme selects the console colour scheme
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// SortPreference is a per-view default sort
type SortPreference struct {
	Field string    `json:"field" mapstructure:"field" yaml:"field"`
	Order SortOrder `json:"order" mapstructure:"order" yaml:"order"`
}

// Settings is the user-facing settings panel
type Settings struct {
	Language          string         `json:"language" mapstructure:"language"`
	Theme             Theme          `json:"theme" mapstructure:"theme"`
	LowStockThreshold int            `json:"lowStockThreshold" mapstructure:"low_stock_threshold"`
	DateFormat        string         `json:"dateFormat" mapstructure:"date_format"`
	InventorySort     SortPreference `json:"inventorySort" mapstructure:"inventory_sort"`
	SupplierSort      SortPreference `json:"supplierSort" mapstructure:"supplier_sort"`
	TransactionSort   SortPreference `json:"transactionSort" mapstructure:"transaction_sort"`
}

// DefaultSettings returns the settings used before anything is saved
func DefaultSettings() Settings {
	return Settings{
		Language:          "en",
		Theme:             ThemeSystem,
		LowStockThreshold: DefaultLowStockThreshold,
		DateFormat:        "2006-01-02",
		InventorySort:     SortPreference{Field: "name", Order: SortAsc},
		SupplierSort:      SortPreference{Field: "name", Order: SortAsc},
		TransactionSort:   SortPreference{Field: "createdAt", Order: SortDesc},
	}
}

// Validate checks the settings against the supported languages
func (s Settings) Validate(languages []string) error {
	verr := &ValidationError{}
	if !slices.Contains(languages, s.Language) {
		verr.Add("language", "is not supported")
	}
	switch s.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		verr.Add("theme", "must be one of light dark system")
	}
	if s.LowStockThreshold < 0 {
		verr.Add("lowStockThreshold", "must be greater than or equal to 0")
	}
	if s.DateFormat == "" {
		verr.Add("dateFormat", "is required")
	}
	for field, pref := range map[string]SortPreference{
		"inventorySort":   s.InventorySort,
		"supplierSort":    s.SupplierSort,
		"transactionSort": s.TransactionSort,
	} {
		if pref.Order != "" && pref.Order != SortAsc && pref.Order != SortDesc {
			verr.Add(field, "order must be asc or desc")
		}
	}
	return verr.OrNil()
}
