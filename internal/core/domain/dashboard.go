package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummary is the data rendered on the dashboard view
type DashboardSummary struct {
	GeneratedAt     time.Time       `json:"generatedAt"`
	Tiles           DashboardTiles  `json:"tiles"`
	UnitsByCategory []ChartPoint    `json:"unitsByCategory"`
	MovementsByDay  []MovementPoint `json:"movementsByDay"`
	Recent          []Transaction   `json:"recent"`
}

// DashboardTiles are the headline numbers
type DashboardTiles struct {
	TotalItems        int             `json:"totalItems"`
	TotalUnits        int             `json:"totalUnits"`
	StockValue        decimal.Decimal `json:"stockValue"`
	LowStock          int             `json:"lowStock"`
	OutOfStock        int             `json:"outOfStock"`
	ActiveSuppliers   int             `json:"activeSuppliers"`
	TransactionsToday int             `json:"transactionsToday"`
}

// ChartPoint is a labelled value for a bar chart
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// MovementPoint aggregates incoming and outgoing units for a day
type MovementPoint struct {
	Day      time.Time `json:"day"`
	Incoming int       `json:"incoming"`
	Outgoing int       `json:"outgoing"`
}
