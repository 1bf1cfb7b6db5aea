// Package generator samples the dummy business metrics served by the API.
//
// Every method builds a fresh record from the configured Source and Clock;
// nothing is cached between calls.
package generator

import (
	"time"

	"github.com/okian/bizdash/internal/domain/types"
)

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSource sets the random source.
func WithSource(src Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.src = src
		}
	}
}

// WithClock sets the clock used for lastLogin and daily labels.
func WithClock(clock Clock) Option {
	return func(g *Generator) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// Generator builds response records.
type Generator struct {
	src   Source
	clock Clock
}

// New creates a Generator. Without options it uses a time-seeded source and
// the local wall clock.
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.src == nil {
		g.src = NewLockedSource(0)
	}
	if g.clock == nil {
		g.clock = SystemClock(nil)
	}
	return g
}

// Dashboard samples GET /api/dashboard.
func (g *Generator) Dashboard() types.Dashboard {
	// Series are drawn before the KPIs.
	monthly := g.series(types.MonthLabels, types.DashboardMonthlySales)
	daily := g.series(g.dailyLabels(), types.DashboardDailySales)

	return types.Dashboard{
		KPIs: types.DashboardKPIs{
			TotalSales:        g.intIn(types.DashboardTotalSales),
			TotalOrders:       g.intIn(types.DashboardTotalOrders),
			TotalCustomers:    g.intIn(types.DashboardTotalCustomers),
			AverageOrderValue: g.intIn(types.DashboardAverageOrderValue),
			ConversionRate:    g.decimalIn(types.DashboardConversionRate),
			RevenueGrowth:     g.decimalIn(types.DashboardRevenueGrowth),
		},
		Charts: types.DashboardCharts{
			MonthlySales: monthly,
			DailySales:   daily,
		},
	}
}

// Inventory samples GET /api/inventory.
func (g *Generator) Inventory() types.Inventory {
	byCategory := g.series(types.CategoryLabels, types.InventoryByCategory)

	return types.Inventory{
		KPIs: types.InventoryKPIs{
			TotalItems:             g.intIn(types.InventoryTotalItems),
			LowStockItems:          g.intIn(types.InventoryLowStockItems),
			OutOfStock:             g.intIn(types.InventoryOutOfStock),
			InventoryValue:         g.intIn(types.InventoryValue),
			InventoryTurnover:      g.decimalIn(types.InventoryTurnover),
			AverageDaysInInventory: g.intIn(types.InventoryAverageDaysInInventory),
		},
		Charts: types.InventoryCharts{InventoryByCategory: byCategory},
	}
}

// Sales samples GET /api/sales.
func (g *Generator) Sales() types.Sales {
	monthly := g.series(types.MonthLabels, types.SalesMonthlyRevenue)

	return types.Sales{
		KPIs: types.SalesKPIs{
			TotalRevenue:          g.intIn(types.SalesTotalRevenue),
			TotalProfit:           g.intIn(types.SalesTotalProfit),
			ProfitMargin:          g.decimalIn(types.SalesProfitMargin),
			AverageOrderValue:     g.intIn(types.SalesAverageOrderValue),
			ReturnRate:            g.decimalIn(types.SalesReturnRate),
			CustomerLifetimeValue: g.intIn(types.SalesCustomerLifetimeValue),
		},
		Charts: types.SalesCharts{MonthlyRevenue: monthly},
	}
}

// Purchase samples GET /api/purchase.
func (g *Generator) Purchase() types.Purchase {
	bySupplier := g.series(types.SupplierLabels, types.PurchaseBySupplier)

	return types.Purchase{
		KPIs: types.PurchaseKPIs{
			TotalPurchaseValue: g.intIn(types.PurchaseTotalValue),
			TotalOrders:        g.intIn(types.PurchaseTotalOrders),
			AverageOrderValue:  g.intIn(types.PurchaseAverageOrderValue),
			PendingOrders:      g.intIn(types.PurchasePendingOrders),
			SupplierCount:      g.intIn(types.PurchaseSupplierCount),
			OnTimeDeliveryRate: g.decimalIn(types.PurchaseOnTimeDeliveryRate),
		},
		Charts: types.PurchaseCharts{PurchaseBySupplier: bySupplier},
	}
}

// Reports samples GET /api/reports.
func (g *Generator) Reports() types.Reports {
	return types.Reports{
		KPIs: types.ReportKPIs{
			RevenueGrowth:           g.decimalIn(types.ReportRevenueGrowth),
			ProfitGrowth:            g.decimalIn(types.ReportProfitGrowth),
			CustomerGrowth:          g.decimalIn(types.ReportCustomerGrowth),
			AverageOrderGrowth:      g.decimalIn(types.ReportAverageOrderGrowth),
			InventoryTurnoverChange: g.decimalIn(types.ReportInventoryTurnoverChange),
			ReturnRateChange:        g.decimalIn(types.ReportReturnRateChange),
		},
	}
}

// User returns the static profile stamped with the current time.
func (g *Generator) User() types.User {
	return types.User{
		Name:      types.UserName,
		Email:     types.UserEmail,
		Role:      types.UserRole,
		Avatar:    types.UserAvatar,
		LastLogin: g.clock.Now().Format(types.LastLoginLayout),
	}
}

// intIn draws uniformly from the inclusive range.
func (g *Generator) intIn(r types.IntRange) int {
	return r.Min + g.src.IntN(r.Max-r.Min+1)
}

// decimalIn draws uniformly from [Min, Max] and rounds to two places.
func (g *Generator) decimalIn(r types.FloatRange) types.Decimal2 {
	return types.NewDecimal2(r.Min + (r.Max-r.Min)*g.src.Float64())
}

// series pairs a copy of labels with one draw per label.
func (g *Generator) series(labels []string, r types.IntRange) types.ChartSeries {
	data := make([]int, len(labels))
	for i := range data {
		data[i] = g.intIn(r)
	}
	return types.ChartSeries{
		Labels: append([]string(nil), labels...),
		Data:   data,
	}
}

// dailyLabels names the last DailySalesDays days, oldest first, ending today.
func (g *Generator) dailyLabels() []string {
	today := g.clock.Now()
	labels := make([]string, types.DailySalesDays)
	for i := range labels {
		day := today.AddDate(0, 0, i-(types.DailySalesDays-1))
		labels[i] = WeekdayAbbrev(day.Weekday())
	}
	return labels
}

// WeekdayAbbrev returns the three-letter English name of d, e.g. "Mon".
func WeekdayAbbrev(d time.Weekday) string {
	return d.String()[:3]
}
