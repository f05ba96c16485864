// internal/core/services/settings.go
package services

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/ammerola/stockroom/internal/core/domain"
)

// Setting keys as written to the settings file
const (
	SettingLanguage          = "language"
	SettingTheme             = "theme"
	SettingLowStockThreshold = "low_stock_threshold"
	SettingDateFormat        = "date_format"
	SettingInventorySort     = "inventory_sort"
	SettingSupplierSort      = "supplier_sort"
	SettingTransactionSort   = "transaction_sort"
)

// SettingKeys lists the keys accepted by Set
func SettingKeys() []string {
	return []string{
		SettingLanguage,
		SettingTheme,
		SettingLowStockThreshold,
		SettingDateFormat,
		SettingInventorySort,
		SettingSupplierSort,
		SettingTransactionSort,
	}
}

// SettingsService loads and saves the settings panel as YAML
type SettingsService struct {
	path      string
	languages []string
	logger    *slog.Logger
}

// NewSettingsService creates a settings service for the file at path.
// languages are the tags the settings may select.
func NewSettingsService(path string, languages []string, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		path:      path,
		languages: languages,
		logger:    logger.With(slog.String("service", "settings")),
	}
}

// Path returns the settings file location
func (s *SettingsService) Path() string {
	return s.path
}

// Load reads the settings file; a missing file yields the defaults
func (s *SettingsService) Load() (domain.Settings, error) {
	v := s.newViper(domain.DefaultSettings())

	if s.path != "" {
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return domain.Settings{}, fmt.Errorf("read settings %s: %w", s.path, err)
			}
			s.logger.Debug("settings file not found, using defaults", slog.String("path", s.path))
		}
	}

	var settings domain.Settings
	if err := v.Unmarshal(&settings); err != nil {
		return domain.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	if err := settings.Validate(s.languages); err != nil {
		return domain.Settings{}, fmt.Errorf("settings %s: %w", s.path, err)
	}
	return settings, nil
}

// Save validates and writes settings
func (s *SettingsService) Save(settings domain.Settings) error {
	if err := settings.Validate(s.languages); err != nil {
		return err
	}
	if s.path == "" {
		return errors.New("no settings file configured")
	}

	v := s.newViper(settings)
	for key, value := range settingsMap(settings) {
		v.Set(key, value)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write settings %s: %w", s.path, err)
	}

	s.logger.Info("settings saved", slog.String("path", s.path))
	return nil
}

// Set changes one setting and saves the result.
// Sort settings take "field" or "field:order".
func (s *SettingsService) Set(key, value string) (domain.Settings, error) {
	settings, err := s.Load()
	if err != nil {
		return domain.Settings{}, err
	}

	value = strings.TrimSpace(value)
	switch strings.ToLower(key) {
	case SettingLanguage:
		settings.Language = value
	case SettingTheme:
		settings.Theme = domain.Theme(value)
	case SettingLowStockThreshold:
		n, err := strconv.Atoi(value)
		if err != nil {
			return domain.Settings{}, domain.NewValidationError("lowStockThreshold", "must be a whole number")
		}
		settings.LowStockThreshold = n
	case SettingDateFormat:
		settings.DateFormat = value
	case SettingInventorySort:
		settings.InventorySort = parseSortPreference(value)
	case SettingSupplierSort:
		settings.SupplierSort = parseSortPreference(value)
	case SettingTransactionSort:
		settings.TransactionSort = parseSortPreference(value)
	default:
		return domain.Settings{}, domain.NewValidationError("key",
			"must be one of "+strings.Join(SettingKeys(), " "))
	}

	if err := s.Save(settings); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

func (s *SettingsService) newViper(defaults domain.Settings) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	if s.path != "" {
		v.SetConfigFile(s.path)
	}
	for key, value := range settingsMap(defaults) {
		v.SetDefault(key, value)
	}
	return v
}

func settingsMap(st domain.Settings) map[string]any {
	return map[string]any{
		SettingLanguage:                   st.Language,
		SettingTheme:                      string(st.Theme),
		SettingLowStockThreshold:          st.LowStockThreshold,
		SettingDateFormat:                 st.DateFormat,
		SettingInventorySort + ".field":   st.InventorySort.Field,
		SettingInventorySort + ".order":   string(st.InventorySort.Order),
		SettingSupplierSort + ".field":    st.SupplierSort.Field,
		SettingSupplierSort + ".order":    string(st.SupplierSort.Order),
		SettingTransactionSort + ".field": st.TransactionSort.Field,
		SettingTransactionSort + ".order": string(st.TransactionSort.Order),
	}
}

func parseSortPreference(value string) domain.SortPreference {
	field, order, _ := strings.Cut(value, ":")
	pref := domain.SortPreference{Field: strings.TrimSpace(field), Order: domain.SortAsc}
	if o := strings.ToLower(strings.TrimSpace(order)); o != "" {
		pref.Order = domain.SortOrder(o)
	}
	return pref
}
