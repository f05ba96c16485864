package console_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/stockroom/internal/adapters/api"
	"github.com/ammerola/stockroom/internal/adapters/filestore"
	"github.com/ammerola/stockroom/internal/console"
	"github.com/ammerola/stockroom/internal/core/ports"
	"github.com/ammerola/stockroom/internal/core/services"
	"github.com/ammerola/stockroom/internal/fakeapi"
	"github.com/ammerola/stockroom/internal/i18n"
	"github.com/ammerola/stockroom/test/helpers"
	"github.com/ammerola/stockroom/test/mocks"
)

const (
	adminEmail    = "admin@stockroom.local"
	adminPassword = "admin123"
)

type harness struct {
	t        *testing.T
	backend  *fakeapi.Server
	srv      *httptest.Server
	dir      string
	reporter ports.PartialFailureReporter
	cache    ports.CacheRepository
}

type result struct {
	code   int
	stdout string
	stderr string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	backend := fakeapi.New(fakeapi.Options{}, nil, helpers.TestLogger())
	_, err := backend.AddUser("Admin", adminEmail, adminPassword, "admin")
	require.NoError(t, err)

	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	return &harness{t: t, backend: backend, srv: srv, dir: t.TempDir()}
}

// run executes one command line the way a fresh console process would
func (h *harness) run(stdin string, args ...string) result {
	h.t.Helper()

	client, err := api.NewClient(api.ClientConfig{
		BaseURL: h.srv.URL + "/api",
		Timeout: 2 * time.Second,
	}, nil, helpers.TestLogger())
	require.NoError(h.t, err)

	var stdout, stderr bytes.Buffer
	c := console.New(console.Options{
		Stdout:    &stdout,
		Stderr:    &stderr,
		Stdin:     strings.NewReader(stdin),
		Client:    client,
		Sessions:  filestore.NewSessionStore(filepath.Join(h.dir, "session.json"), 0, helpers.TestLogger()),
		Settings:  services.NewSettingsService(filepath.Join(h.dir, "settings.yaml"), i18n.Languages(), helpers.TestLogger()),
		ExportDir: filepath.Join(h.dir, "exports"),
		Reporter:  h.reporter,
		Cache:     h.cache,
		CacheTTL:  time.Minute,
		Logger:    helpers.TestLogger(),
	})
	code := c.Run(context.Background(), args)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func (h *harness) login() {
	h.t.Helper()
	res := h.run("", "login", "--email", adminEmail, "--password", adminPassword)
	require.Equal(h.t, console.ExitOK, res.code, res.stderr)
}

var createdID = regexp.MustCompile(`\(([^)]+)\)`)

func (h *harness) createItem(args ...string) string {
	h.t.Helper()
	base := []string{"inventory", "create",
		"--name", "Hex Bolt M8", "--sku", "HB-M8", "--category", "Fasteners",
		"--supplier", "Acme Supply", "--unit", "pcs", "--quantity", "120", "--price", "0.35"}
	res := h.run("", append(base, args...)...)
	require.Equal(h.t, console.ExitOK, res.code, res.stderr)

	m := createdID.FindStringSubmatch(res.stdout)
	require.Len(h.t, m, 2, res.stdout)
	return m[1]
}

func TestConsole_SessionLifecycle(t *testing.T) {
	h := newHarness(t)

	res := h.run("", "inventory", "list")
	assert.Equal(t, console.ExitError, res.code)
	assert.Contains(t, res.stderr, "Not signed in")

	res = h.run("", "login", "--email", adminEmail, "--password", "wrong")
	assert.Equal(t, console.ExitError, res.code)
	assert.Contains(t, res.stderr, "Authentication required")

	res = h.run(adminPassword+"\n", "login", "--email", adminEmail)
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Signed in as Admin <admin@stockroom.local>")

	res = h.run("", "whoami")
	assert.Equal(t, console.ExitOK, res.code)
	assert.Contains(t, res.stdout, adminEmail)

	info, err := os.Stat(filepath.Join(h.dir, "session.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	res = h.run("", "logout")
	assert.Equal(t, console.ExitOK, res.code)
	assert.Contains(t, res.stdout, "Signed out")

	res = h.run("", "whoami")
	assert.Equal(t, console.ExitError, res.code)
	assert.Contains(t, res.stderr, "Not signed in")
}

func TestConsole_Register(t *testing.T) {
	h := newHarness(t)

	res := h.run("", "register", "--name", "Rin", "--email", "rin@stockroom.local", "--password", "short")
	assert.Equal(t, console.ExitError, res.code)
	assert.Contains(t, res.stderr, "password must be at least 8 characters")

	res = h.run("", "register", "--name", "Rin", "--email", "rin@stockroom.local", "--password", "longenough")
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Signed in as Rin <rin@stockroom.local>")
}

func TestConsole_InventoryCRUD(t *testing.T) {
	h := newHarness(t)
	h.login()

	id := h.createItem("--location", "A-01")
	h.createItem("--name", "Cable Tie", "--sku", "CT-200", "--category", "Packaging", "--quantity", "5")

	res := h.run("", "inventory", "list", "--search", "bolt")
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Hex Bolt M8")
	assert.NotContains(t, res.stdout, "Cable Tie")
	assert.Contains(t, res.stdout, "Showing 1 of 2 records")

	res = h.run("", "inventory", "list", "--status", "low-stock")
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Cable Tie")
	assert.Contains(t, res.stdout, "Low stock")

	res = h.run("", "inventory", "list", "--sort", "quantity", "--order", "desc")
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	assert.Less(t, strings.Index(res.stdout, "Hex Bolt M8"), strings.Index(res.stdout, "Cable Tie"))

	res = h.run("", "inventory", "show", id)
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	assert.Regexp(t, `Location:\s+A-01`, res.stdout)

	res = h.run("", "inventory", "update", id, "--quantity", "0")
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	res = h.run("", "inventory", "show", id)
	assert.Contains(t, res.stdout, "Out of stock")

	res = h.run("n\n", "inventory", "delete", id)
	assert.Equal(t, console.ExitOK, res.code)
	assert.Contains(t, res.stdout, "Cancelled")

	res = h.run("", "inventory", "delete", id, "--yes")
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Deleted Hex Bolt M8")

	res = h.run("", "inventory", "show", id)
	assert.Equal(t, console.ExitError, res.code)
	assert.Contains(t, res.stderr, "Record not found")
}

func TestConsole_ErrorBanners(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.createItem()

	t.Run("validation lists the fields", func(t *testing.T) {
		res := h.run("", "inventory", "create", "--name", "Lonely")
		assert.Equal(t, console.ExitError, res.code)
		assert.Contains(t, res.stderr, "Please correct the following fields:")
		assert.Contains(t, res.stderr, "sku is required")
	})

	t.Run("status contradicting quantity", func(t *testing.T) {
		res := h.run("", "inventory", "create", "--name", "Widget", "--sku", "W-1", "--category", "Misc",
			"--supplier", "Acme Supply", "--unit", "pcs", "--quantity", "0", "--status", "in-stock")
		assert.Equal(t, console.ExitError, res.code)
		assert.Contains(t, res.stderr, "status must be out-of-stock when quantity is 0")
	})

	t.Run("backend conflict", func(t *testing.T) {
		res := h.run("", "inventory", "create", "--name", "Again", "--sku", "HB-M8", "--category", "Fasteners",
			"--supplier", "Acme Supply", "--unit", "pcs", "--quantity", "1")
		assert.Equal(t, console.ExitError, res.code)
		assert.Contains(t, res.stderr, "Request failed (409)")
	})

	t.Run("network unreachable", func(t *testing.T) {
		down := newHarness(t)
		down.srv.Close()
		res := down.run("", "login", "--email", adminEmail, "--password", adminPassword)
		assert.Equal(t, console.ExitError, res.code)
		assert.Contains(t, res.stderr, "Network unreachable")
	})

	t.Run("localized banner", func(t *testing.T) {
		res := h.run("", "--lang", "es", "inventory", "show", "missing")
		assert.Equal(t, console.ExitError, res.code)
		assert.Contains(t, res.stderr, "Registro no encontrado")
	})
}

func TestConsole_Usage(t *testing.T) {
	h := newHarness(t)
	h.login()

	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"bogus"}},
		{"unknown flag", []string{"inventory", "list", "--nope"}},
		{"missing id", []string{"inventory", "show"}},
		{"unknown sort field", []string{"inventory", "list", "--sort", "colour"}},
		{"bad chart", []string{"dashboard", "--chart", "pie"}},
		{"settings set arity", []string{"settings", "set", "theme"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.run("", tt.args...)
			assert.Equal(t, console.ExitUsage, res.code)
			assert.Contains(t, res.stderr, "usage: stockroom")
		})
	}
}

func TestConsole_Localized(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.createItem()

	res := h.run("", "--lang", "es", "inventory", "list")
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Nombre")
	assert.Contains(t, res.stdout, "Mostrando 1 de 1 registros")

	res = h.run("", "settings", "set", "language", "id")
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Pengaturan disimpan ke")

	res = h.run("", "inventory", "list")
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Nama")
}

func TestConsole_Settings(t *testing.T) {
	h := newHarness(t)

	res := h.run("", "settings", "show")
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "language: en")
	assert.Contains(t, res.stdout, "inventory_sort: name:asc")

	res = h.run("", "settings", "set", "inventory_sort", "quantity:desc")
	require.Equal(t, console.ExitOK, res.code, res.stderr)

	res = h.run("", "settings", "show")
	assert.Contains(t, res.stdout, "inventory_sort: quantity:desc")

	res = h.run("", "settings", "set", "theme", "purple")
	assert.Equal(t, console.ExitError, res.code)
	assert.Contains(t, res.stderr, "theme must be one of light dark system")
}

func TestConsole_StockMovements(t *testing.T) {
	h := newHarness(t)
	h.login()
	id := h.createItem()

	res := h.run("", "stock", "dispatch", id, "--quantity", "115", "--reference", "SO-1")
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Stock of Hex Bolt M8 is now 5 (Low stock)")

	res = h.run("", "stock", "dispatch", id, "--quantity", "6")
	assert.Equal(t, console.ExitError, res.code)
	assert.Contains(t, res.stderr, "quantity exceeds available stock (5)")

	res = h.run("", "stock", "receive", id, "--quantity", "20", "--note", "restock")
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "is now 25 (In stock)")

	res = h.run("", "transactions", "list", "--type", "outgoing")
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "SO-1")
	assert.Contains(t, res.stdout, "Showing 1 of 2 records")

	res = h.run("", "transactions", "list", "--item", "someone-else")
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "No records")
}

func TestConsole_PartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockPartialFailureReporter(ctrl)

	h := newHarness(t)
	h.reporter = reporter
	h.login()
	id := h.createItem()

	reporter.EXPECT().
		ReportPartialFailure(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f ports.PartialFailure) error {
			assert.Equal(t, id, f.ItemID)
			assert.Equal(t, "SO-9", f.Reference)
			assert.Equal(t, 10, f.Transaction.Quantity)
			return nil
		})

	h.backend.FailNext(http.MethodPost, "/transactions", http.StatusServiceUnavailable)
	res := h.run("", "stock", "dispatch", id, "--quantity", "10", "--reference", "SO-9")
	assert.Equal(t, console.ExitError, res.code)
	assert.Contains(t, res.stderr, "Partially applied")
	assert.Contains(t, res.stderr, "SO-9")

	res = h.run("", "inventory", "show", id)
	assert.Regexp(t, `Quantity:\s+110`, res.stdout)
}

func TestConsole_Dashboard(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.backend.Seed(12))
	h.login()

	svg := filepath.Join(h.dir, "chart.svg")
	res := h.run("", "dashboard", "--svg", svg, "--chart", "movements")
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	assert.Regexp(t, `Total items:\s+12`, res.stdout)
	assert.Regexp(t, `Active suppliers:\s+2`, res.stdout)
	assert.Contains(t, res.stdout, "Units by category")
	assert.Contains(t, res.stdout, "Recent transactions")
	assert.Contains(t, res.stdout, "Chart written to")

	data, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<svg"))
}

func TestConsole_ExportImport(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.createItem()

	out := filepath.Join(h.dir, "out", "inventory.xlsx")
	res := h.run("", "inventory", "export", "--out", out)
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Exported 1 rows to "+out)

	wb, err := xlsx.OpenFile(out)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)
	assert.Equal(t, 2, wb.Sheets[0].MaxRow)

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Inventory")
	require.NoError(t, err)
	for _, values := range [][]string{
		{"Name", "SKU", "Category", "Supplier", "Unit", "Quantity", "Price"},
		{"Cable Tie", "CT-200", "Packaging", "Acme Supply", "bag", "40", "2.50"},
		{"Duplicate", "HB-M8", "Fasteners", "Acme Supply", "pcs", "1", "1"},
		{"Broken", "BR-1", "Tools", "Acme Supply", "pcs", "lots", "1"},
	} {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().Value = v
		}
	}
	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	path := helpers.CreateTempFile(t, buf.Bytes(), ".xlsx")

	res = h.run("", "inventory", "import", path, "--dry-run")
	require.Equal(t, console.ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Cable Tie")
	assert.Contains(t, res.stderr, "row 4")

	res = h.run("", "inventory", "import", path)
	assert.Equal(t, console.ExitError, res.code)
	assert.Contains(t, res.stdout, "Imported 1 items, 2 failed")
	assert.Contains(t, res.stderr, "HB-M8")

	res = h.run("", "inventory", "list")
	assert.Contains(t, res.stdout, "Showing 2 of 2 records")
}

func TestConsole_Health(t *testing.T) {
	h := newHarness(t)

	res := h.run("", "health")
	assert.Equal(t, console.ExitOK, res.code)
	assert.Contains(t, res.stdout, "Backend healthy")

	h.srv.Close()
	res = h.run("", "health")
	assert.Equal(t, console.ExitError, res.code)
	assert.Contains(t, res.stdout, "Backend unhealthy")
}

func TestConsole_HealthPingsCache(t *testing.T) {
	tests := []struct {
		name    string
		pingErr error
		want    string
	}{
		{"reachable", nil, "Cache reachable"},
		{"unreachable", errors.New("redis ping error: connection refused"), "Cache unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			cache := mocks.NewMockCacheRepository(ctrl)
			cache.EXPECT().Ping(gomock.Any()).Return(tt.pingErr)

			h := newHarness(t)
			h.cache = cache

			res := h.run("", "health")
			assert.Equal(t, console.ExitOK, res.code)
			assert.Contains(t, res.stdout, "Backend healthy")
			assert.Contains(t, res.stdout, tt.want)
		})
	}
}
