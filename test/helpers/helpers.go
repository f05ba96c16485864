// test/helpers/helpers.go
package helpers

import (
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/pkg/config"
)

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestRedis creates an in-process Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// LoadTestConfig returns a test configuration pointing at baseURL
func LoadTestConfig(baseURL string) *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "stockroom-test",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
		},
		API: config.APIConfig{
			BaseURL:         baseURL,
			Timeout:         5 * time.Second,
			RequestIDHeader: "X-Request-ID",
			UserAgent:       "stockroom-test",
		},
		Session: config.SessionConfig{
			Store: "file",
			File:  "session.json",
			TTL:   time.Hour,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			TTL:      time.Minute,
			PoolSize: 10,
		},
		Asynq: config.AsynqConfig{
			Concurrency: 1,
			Queues:      map[string]int{"critical": 1},
			RetryMax:    1,
		},
		Files: config.FilesConfig{
			ExportDriver:   "local",
			ExportDir:      "exports",
			PresignTTL:     time.Minute,
			PDFMaxSizeMB:   5,
			ExcelMaxSizeMB: 5,
		},
	}
}

// CreateTestInventoryItem creates a test inventory item
func CreateTestInventoryItem(overrides ...func(*domain.InventoryItem)) *domain.InventoryItem {
	item := &domain.InventoryItem{
		ID:          uuid.NewString(),
		Name:        "Hex Bolt M8",
		SKU:         "HB-M8-" + uuid.NewString()[:4],
		Category:    "Fasteners",
		Supplier:    "Acme Supply",
		Unit:        "pcs",
		Quantity:    120,
		Price:       decimal.RequireFromString("0.35"),
		Status:      domain.StatusInStock,
		Location:    "A-01",
		LastUpdated: time.Now().UTC().Truncate(time.Second),
	}

	for _, override := range overrides {
		override(item)
	}

	return item
}

// CreateTestInventoryItems creates multiple test inventory items
func CreateTestInventoryItems(count int) []domain.InventoryItem {
	items := make([]domain.InventoryItem, count)

	categories := []string{"Fasteners", "Electronics", "Tools", "Packaging", "Safety"}
	suppliers := []string{"Acme Supply", "Borneo Tools", "Citra Logistik"}

	for i := 0; i < count; i++ {
		items[i] = *CreateTestInventoryItem(func(item *domain.InventoryItem) {
			item.Name = fmt.Sprintf("Test Item %d", i+1)
			item.SKU = fmt.Sprintf("SKU-%04d", i+1)
			item.Category = categories[i%len(categories)]
			item.Supplier = suppliers[i%len(suppliers)]
			item.Quantity = (i * 7) % 40
			item.Price = decimal.NewFromInt(int64(10 + i%25))
			item.Status = domain.DeriveStatus(item.Quantity, domain.DefaultLowStockThreshold)
		})
	}

	return items
}

// CreateTestSupplier creates a test supplier
func CreateTestSupplier(overrides ...func(*domain.Supplier)) *domain.Supplier {
	now := time.Now().UTC().Truncate(time.Second)
	supplier := &domain.Supplier{
		ID:            uuid.NewString(),
		Name:          "Acme Supply",
		ContactPerson: "Rina Hartono",
		Email:         "rina@acme.test",
		Phone:         "+62 21 555 0101",
		Address:       "Jl. Industri 4, Jakarta",
		TaxNumber:     "01.234.567.8-901.000",
		Status:        domain.SupplierActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for _, override := range overrides {
		override(supplier)
	}

	return supplier
}

// CreateTestTransaction creates a test transaction
func CreateTestTransaction(overrides ...func(*domain.Transaction)) *domain.Transaction {
	tx := &domain.Transaction{
		ID:        uuid.NewString(),
		ItemID:    "item-1",
		ItemName:  "Hex Bolt M8",
		Type:      domain.TransactionIncoming,
		Quantity:  10,
		Reference: "PO-1001",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	for _, override := range overrides {
		override(tx)
	}

	return tx
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}

// CreateTempFile creates a temporary file for testing
func CreateTempFile(t *testing.T, content []byte, extension string) string {
	t.Helper()

	file, err := os.CreateTemp(t.TempDir(), fmt.Sprintf("test-*%s", extension))
	require.NoError(t, err, "Failed to create temp file")

	_, err = file.Write(content)
	require.NoError(t, err, "Failed to write to temp file")

	require.NoError(t, file.Close())

	return file.Name()
}
