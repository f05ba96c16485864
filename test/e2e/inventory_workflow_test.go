//go:build e2e
// +build e2e

package e2e_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/language"

	"github.com/ammerola/stockroom/internal/adapters/api"
	"github.com/ammerola/stockroom/internal/adapters/queue"
	redis_a "github.com/ammerola/stockroom/internal/adapters/redis_adapter"
	"github.com/ammerola/stockroom/internal/adapters/storage"
	"github.com/ammerola/stockroom/internal/core/collection"
	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/ports"
	"github.com/ammerola/stockroom/internal/core/services"
	"github.com/ammerola/stockroom/internal/export"
	"github.com/ammerola/stockroom/internal/fakeapi"
	"github.com/ammerola/stockroom/internal/i18n"
	"github.com/ammerola/stockroom/internal/pkg/metrics"
	"github.com/ammerola/stockroom/internal/workers"
	"github.com/ammerola/stockroom/test/helpers"
)

const (
	adminEmail    = "admin@stockroom.local"
	adminPassword = "admin123"
)

type InventoryE2ESuite struct {
	suite.Suite
	backend   *fakeapi.Server
	server    *httptest.Server
	client    *api.Client
	metrics   *metrics.Metrics
	testRedis *helpers.TestRedis
	cache     *redis_a.Cache
	auth      *services.AuthService
	ctx       context.Context
}

func (s *InventoryE2ESuite) SetupSuite() {
	s.ctx = context.Background()
	s.testRedis = helpers.SetupTestRedis(s.T())
	s.cache = redis_a.NewCache(s.testRedis.Client, time.Minute, helpers.TestLogger())

	s.metrics = metrics.New()
	s.backend = fakeapi.New(fakeapi.Options{}, s.metrics, helpers.TestLogger())
	_, err := s.backend.AddUser("Admin", adminEmail, adminPassword, "admin")
	s.Require().NoError(err)
	s.Require().NoError(s.backend.Seed(20))

	s.server = httptest.NewServer(s.backend.Handler())
	s.client, err = api.NewClient(api.ClientConfig{
		BaseURL: s.server.URL + "/api",
		Timeout: 5 * time.Second,
	}, s.metrics, helpers.TestLogger())
	s.Require().NoError(err)

	sessions := redis_a.NewSessionStore(s.testRedis.Client, "e2e", time.Hour, helpers.TestLogger())
	s.auth = services.NewAuthService(api.NewAuthClient(s.client), sessions, s.client.BaseURL().String(), helpers.TestLogger())
	_, err = s.auth.Login(s.ctx, domain.Credentials{Email: adminEmail, Password: adminPassword})
	s.Require().NoError(err)
}

func (s *InventoryE2ESuite) TearDownSuite() {
	s.server.Close()
}

func (s *InventoryE2ESuite) viewOptions() services.ViewOptions {
	return services.ViewOptions{Settings: domain.DefaultSettings(), Language: language.English}
}

func (s *InventoryE2ESuite) TestCompleteInventoryWorkflow() {
	inv := services.NewInventoryService(api.NewInventoryAPI(s.client), s.viewOptions(), helpers.TestLogger())
	defer inv.Close()
	txs := services.NewTransactionService(api.NewTransactionAPI(s.client), s.viewOptions(), helpers.TestLogger())
	defer txs.Close()

	// 1. Create an inventory item
	item, err := inv.Create(s.ctx, domain.InventoryDraft{
		Name:     "E2E Torque Wrench",
		SKU:      "E2E-TW-01",
		Category: "Tools",
		Supplier: "Acme Supply",
		Unit:     "pcs",
		Quantity: 30,
		Price:    decimal.RequireFromString("42.50"),
	})
	s.Require().NoError(err)
	s.NotEmpty(item.ID)
	s.Equal(domain.StatusInStock, item.Status)

	// 2. Retrieve the created item
	got, err := inv.Get(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Equal("E2E-TW-01", got.SKU)

	// 3. Dispatch stock down to the low-stock band
	stock := services.NewStockService(inv, txs, nil, helpers.TestLogger())
	res, err := stock.Dispatch(s.ctx, services.Movement{ItemID: item.ID, Quantity: 25, Reference: "SO-E2E-1"})
	s.Require().NoError(err)
	s.Equal(5, res.Item.Quantity)
	s.Equal(domain.StatusLowStock, res.Item.Status)
	s.Equal(domain.TransactionOutgoing, res.Transaction.Type)

	// 4. Filter the view
	s.Require().NoError(inv.UpdateFilters(collection.FilterPatch{
		Search:     collection.Ptr("torque"),
		Categories: map[string]string{services.InventoryFilterStatus: string(domain.StatusLowStock)},
	}))
	s.Require().NoError(inv.FetchAll(s.ctx))
	s.Require().Len(inv.Visible(), 1)
	s.Equal(item.ID, inv.Visible()[0].ID)

	// 5. Export the view to local storage
	store, err := storage.NewLocalStorage(s.T().TempDir(), helpers.TestLogger())
	s.Require().NoError(err)
	exp := export.NewExporter(store, time.Minute, helpers.TestLogger())
	out, err := exp.Export(s.ctx, export.Request{
		Name:  "inventory",
		Table: export.InventoryTable(i18n.New(language.English), inv.Visible(), "2006-01-02"),
	})
	s.Require().NoError(err)
	s.Equal(1, out.Rows)
	exists, err := store.Exists(s.ctx, out.Key)
	s.Require().NoError(err)
	s.True(exists)

	// 6. The transaction log carries the movement
	s.Require().NoError(txs.FetchAll(s.ctx))
	var found bool
	for _, tx := range txs.Items() {
		if tx.Reference == "SO-E2E-1" {
			found = true
			s.Equal(25, tx.Quantity)
		}
	}
	s.True(found)

	// 7. Delete the item
	s.Require().NoError(inv.Delete(s.ctx, item.ID))
	_, err = inv.Get(s.ctx, item.ID)
	s.ErrorIs(err, ports.ErrNotFound)
}

func (s *InventoryE2ESuite) TestPartialFailureIsReconciled() {
	inv := services.NewInventoryService(api.NewInventoryAPI(s.client), s.viewOptions(), helpers.TestLogger())
	defer inv.Close()
	txs := services.NewTransactionService(api.NewTransactionAPI(s.client), s.viewOptions(), helpers.TestLogger())
	defer txs.Close()

	item, err := inv.Create(s.ctx, domain.InventoryDraft{
		Name: "E2E Cable Drum", SKU: "E2E-CD-01", Category: "Electrical",
		Supplier: "Acme Supply", Unit: "pcs", Quantity: 10, Price: decimal.NewFromInt(80),
	})
	s.Require().NoError(err)

	reconciler := workers.NewReconcileProcessor(api.NewInventoryAPI(s.client), api.NewTransactionAPI(s.client),
		s.cache, s.metrics, helpers.TestLogger())
	reporter := &taskRecorder{}

	s.backend.FailNext(http.MethodPost, "/transactions", http.StatusServiceUnavailable)
	stock := services.NewStockService(inv, txs, reporter, helpers.TestLogger())
	_, err = stock.Receive(s.ctx, services.Movement{ItemID: item.ID, Quantity: 5, Reference: "PO-E2E-9"})

	var partial *services.PartialFailureError
	s.Require().ErrorAs(err, &partial)
	s.Require().Len(reporter.tasks, 1)

	// The worker replays the queued task; a second delivery is a no-op
	for i := 0; i < 2; i++ {
		s.Require().NoError(reconciler.ProcessPartialFailure(s.ctx, reporter.tasks[0]))
	}

	list, err := api.NewTransactionAPI(s.client).List(s.ctx)
	s.Require().NoError(err)
	var recorded int
	for _, tx := range list {
		if tx.Reference == "PO-E2E-9" {
			recorded++
			s.Equal(domain.TransactionIncoming, tx.Type)
			s.Equal(5, tx.Quantity)
		}
	}
	s.Equal(1, recorded)

	got, err := inv.Get(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Equal(15, got.Quantity)
}

func (s *InventoryE2ESuite) TestDashboardCache() {
	dash := services.NewDashboardService(
		api.NewInventoryAPI(s.client),
		api.NewSupplierAPI(s.client),
		api.NewTransactionAPI(s.client),
		helpers.TestLogger(),
		services.WithDashboardCache(s.cache, time.Minute))

	first, err := dash.Refresh(s.ctx)
	s.Require().NoError(err)
	s.Positive(first.Tiles.TotalItems)
	s.True(s.testRedis.Server.Exists(services.DashboardCacheKey))

	_, err = api.NewInventoryAPI(s.client).Create(s.ctx, domain.InventoryDraft{
		Name: "E2E Safety Vest", SKU: "E2E-SV-01", Category: "Safety",
		Supplier: "Acme Supply", Unit: "pcs", Quantity: 12, Price: decimal.NewFromInt(9),
	})
	s.Require().NoError(err)

	cached, err := dash.Summary(s.ctx)
	s.Require().NoError(err)
	s.Equal(first.Tiles.TotalItems, cached.Tiles.TotalItems)

	dash.Invalidate(s.ctx)
	s.False(s.testRedis.Server.Exists(services.DashboardCacheKey))

	fresh, err := dash.Summary(s.ctx)
	s.Require().NoError(err)
	s.Equal(first.Tiles.TotalItems+1, fresh.Tiles.TotalItems)
}

func (s *InventoryE2ESuite) TestConcurrentCreates() {
	inv := api.NewInventoryAPI(s.client)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := inv.Create(s.ctx, domain.InventoryDraft{
				Name:     "Concurrent Item",
				SKU:      "CONCURRENT-" + string(rune('A'+idx)),
				Category: "Misc",
				Supplier: "Acme Supply",
				Unit:     "pcs",
				Quantity: idx + 1,
				Price:    decimal.NewFromInt(1),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.NoError(err)
	}

	items, err := inv.List(s.ctx)
	s.Require().NoError(err)
	var count int
	for _, item := range items {
		if strings.HasPrefix(item.SKU, "CONCURRENT-") {
			count++
		}
	}
	s.Equal(10, count)
}

func (s *InventoryE2ESuite) TestHealthCheck() {
	result := api.CheckHealth(s.ctx, s.client)
	s.True(result.OK)
	s.Equal(http.StatusOK, result.StatusCode)
}

func (s *InventoryE2ESuite) TestSessionRestore() {
	// A second process sharing the redis session store resumes the session
	client, err := api.NewClient(api.ClientConfig{BaseURL: s.server.URL + "/api"}, nil, helpers.TestLogger())
	s.Require().NoError(err)
	sessions := redis_a.NewSessionStore(s.testRedis.Client, "e2e", time.Hour, helpers.TestLogger())
	auth := services.NewAuthService(api.NewAuthClient(client), sessions, client.BaseURL().String(), helpers.TestLogger())

	user, err := auth.Whoami(s.ctx)
	s.Require().NoError(err)
	s.Equal(adminEmail, user.Email)
}

// taskRecorder stands in for the asynq queue between console and worker
type taskRecorder struct {
	tasks []*asynq.Task
}

func (r *taskRecorder) ReportPartialFailure(_ context.Context, failure ports.PartialFailure) error {
	task, err := queue.NewPartialFailureTask(failure)
	if err != nil {
		return err
	}
	r.tasks = append(r.tasks, task)
	return nil
}

func TestInventoryE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	suite.Run(t, new(InventoryE2ESuite))
}
