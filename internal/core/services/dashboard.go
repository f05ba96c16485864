// internal/core/services/dashboard.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/ports"
)

const (
	// DashboardCacheKey holds the cached summary
	DashboardCacheKey = "dash:summary"
	// MovementDays is the width of the movements chart
	MovementDays = 7
	// RecentTransactions is the length of the recent activity list
	RecentTransactions = 5
)

// DashboardService builds the dashboard summary from the three collections
type DashboardService struct {
	inventory    ports.InventoryAPI
	suppliers    ports.SupplierAPI
	transactions ports.TransactionAPI
	cache        ports.CacheRepository
	ttl          time.Duration
	location     *time.Location
	now          func() time.Time
	logger       *slog.Logger
}

// DashboardOption customizes a DashboardService
type DashboardOption func(*DashboardService)

// WithDashboardCache caches summaries for ttl
func WithDashboardCache(cache ports.CacheRepository, ttl time.Duration) DashboardOption {
	return func(s *DashboardService) {
		s.cache = cache
		s.ttl = ttl
	}
}

// WithDashboardClock overrides the clock and the timezone days are counted in
func WithDashboardClock(now func() time.Time, loc *time.Location) DashboardOption {
	return func(s *DashboardService) {
		s.now = now
		if loc != nil {
			s.location = loc
		}
	}
}

// NewDashboardService creates a dashboard service
func NewDashboardService(inventory ports.InventoryAPI, suppliers ports.SupplierAPI,
	transactions ports.TransactionAPI, logger *slog.Logger, opts ...DashboardOption) *DashboardService {
	s := &DashboardService{
		inventory:    inventory,
		suppliers:    suppliers,
		transactions: transactions,
		location:     time.Local,
		now:          time.Now,
		logger:       logger.With(slog.String("service", "dashboard")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary returns the dashboard, from cache when one is configured
func (s *DashboardService) Summary(ctx context.Context) (domain.DashboardSummary, error) {
	if s.cache == nil {
		return s.build(ctx)
	}

	var summary domain.DashboardSummary
	err := s.cache.GetOrSet(ctx, DashboardCacheKey, &summary, func() (any, error) {
		return s.build(ctx)
	}, s.ttl)
	if err != nil {
		return domain.DashboardSummary{}, err
	}
	return summary, nil
}

// Refresh drops any cached summary and rebuilds it
func (s *DashboardService) Refresh(ctx context.Context) (domain.DashboardSummary, error) {
	s.Invalidate(ctx)
	return s.Summary(ctx)
}

// Invalidate drops the cached summary; cache failures are only logged
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, DashboardCacheKey); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate dashboard cache",
			slog.String("error", err.Error()))
	}
}

func (s *DashboardService) build(ctx context.Context) (domain.DashboardSummary, error) {
	var (
		items        []domain.InventoryItem
		suppliers    []domain.Supplier
		transactions []domain.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if items, err = s.inventory.List(gctx); err != nil {
			return fmt.Errorf("load inventory: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if suppliers, err = s.suppliers.List(gctx); err != nil {
			return fmt.Errorf("load suppliers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if transactions, err = s.transactions.List(gctx); err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "dashboard build failed", slog.String("error", err.Error()))
		return domain.DashboardSummary{}, err
	}

	summary := Summarize(items, suppliers, transactions, s.now().In(s.location))
	s.logger.DebugContext(ctx, "dashboard built",
		slog.Int("items", len(items)),
		slog.Int("suppliers", len(suppliers)),
		slog.Int("transactions", len(transactions)))
	return summary, nil
}

// Summarize computes the dashboard from already loaded collections.
// Days are counted in now's location.
func Summarize(items []domain.InventoryItem, suppliers []domain.Supplier,
	transactions []domain.Transaction, now time.Time) domain.DashboardSummary {
	loc := now.Location()
	today := startOfDay(now)

	tiles := domain.DashboardTiles{
		TotalItems: len(items),
		StockValue: decimal.Zero,
	}
	units := map[string]int{}
	for _, item := range items {
		tiles.TotalUnits += item.Quantity
		tiles.StockValue = tiles.StockValue.Add(item.StockValue())
		switch item.Status {
		case domain.StatusLowStock:
			tiles.LowStock++
		case domain.StatusOutOfStock:
			tiles.OutOfStock++
		}
		units[item.Category] += item.Quantity
	}
	for _, sup := range suppliers {
		if sup.Status == domain.SupplierActive {
			tiles.ActiveSuppliers++
		}
	}

	first := today.AddDate(0, 0, -(MovementDays - 1))
	movements := make([]domain.MovementPoint, MovementDays)
	for i := range movements {
		movements[i].Day = first.AddDate(0, 0, i)
	}
	for _, tx := range transactions {
		day := startOfDay(tx.CreatedAt.In(loc))
		if day.Equal(today) {
			tiles.TransactionsToday++
		}
		if day.Before(first) || day.After(today) {
			continue
		}
		idx := dayIndex(first, day)
		if idx < 0 || idx >= MovementDays {
			continue
		}
		switch tx.Type {
		case domain.TransactionIncoming:
			movements[idx].Incoming += tx.Quantity
		case domain.TransactionOutgoing:
			movements[idx].Outgoing += tx.Quantity
		}
	}

	categories := make([]domain.ChartPoint, 0, len(units))
	for label, value := range units {
		categories = append(categories, domain.ChartPoint{Label: label, Value: float64(value)})
	}
	slices.SortFunc(categories, func(a, b domain.ChartPoint) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		}
		if a.Label < b.Label {
			return -1
		}
		if a.Label > b.Label {
			return 1
		}
		return 0
	})

	recent := slices.Clone(transactions)
	slices.SortStableFunc(recent, func(a, b domain.Transaction) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(recent) > RecentTransactions {
		recent = recent[:RecentTransactions]
	}

	return domain.DashboardSummary{
		GeneratedAt:     now,
		Tiles:           tiles,
		UnitsByCategory: categories,
		MovementsByDay:  movements,
		Recent:          recent,
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dayIndex counts calendar days, so DST shifts do not skew the bucket
func dayIndex(first, day time.Time) int {
	for i := 0; i < MovementDays; i++ {
		if first.AddDate(0, 0, i).Equal(day) {
			return i
		}
	}
	return -1
}
