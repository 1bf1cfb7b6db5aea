package types

// IntRange is an inclusive integer interval.
type IntRange struct {
	Min int
	Max int
}

// Contains reports whether v lies in [Min, Max].
func (r IntRange) Contains(v int) bool { return v >= r.Min && v <= r.Max }

// FloatRange is a closed float interval. Values drawn from it are rounded to
// two decimals, so Contains is checked against the rounded bounds.
type FloatRange struct {
	Min float64
	Max float64
}

// Contains reports whether v lies in [Min, Max].
func (r FloatRange) Contains(v Decimal2) bool {
	f := v.Float64()
	return f >= r.Min && f <= r.Max
}

// Fixed label sets.
var (
	MonthLabels    = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	CategoryLabels = []string{"Electronics", "Clothing", "Food", "Furniture", "Books"}
	SupplierLabels = []string{"Supplier A", "Supplier B", "Supplier C", "Supplier D"}
)

// DailySalesDays is the number of days covered by the daily sales chart.
const DailySalesDays = 7

// Static profile returned by GET /api/user.
const (
	UserName   = "Admin User"
	UserEmail  = "admin@example.com"
	UserRole   = "Administrator"
	UserAvatar = "https://randomuser.me/api/portraits/men/1.jpg"

	// LastLoginLayout renders lastLogin as YYYY-MM-DD HH:MM:SS.
	LastLoginLayout = "2006-01-02 15:04:05"
)

// Dashboard ranges.
var (
	DashboardTotalSales        = IntRange{50_000, 100_000}
	DashboardTotalOrders       = IntRange{500, 1000}
	DashboardTotalCustomers    = IntRange{200, 500}
	DashboardAverageOrderValue = IntRange{100, 300}
	DashboardConversionRate    = FloatRange{2.0, 5.0}
	DashboardRevenueGrowth     = FloatRange{-2.0, 8.0}
	DashboardMonthlySales      = IntRange{5000, 20_000}
	DashboardDailySales        = IntRange{100, 500}
)

// Inventory ranges.
var (
	InventoryTotalItems             = IntRange{1000, 5000}
	InventoryLowStockItems          = IntRange{10, 50}
	InventoryOutOfStock             = IntRange{5, 20}
	InventoryValue                  = IntRange{50_000, 200_000}
	InventoryTurnover               = FloatRange{2.0, 8.0}
	InventoryAverageDaysInInventory = IntRange{15, 60}
	InventoryByCategory             = IntRange{100, 500}
)

// Sales ranges.
var (
	SalesTotalRevenue          = IntRange{100_000, 500_000}
	SalesTotalProfit           = IntRange{30_000, 150_000}
	SalesProfitMargin          = FloatRange{15.0, 35.0}
	SalesAverageOrderValue     = IntRange{100, 300}
	SalesReturnRate            = FloatRange{1.0, 5.0}
	SalesCustomerLifetimeValue = IntRange{500, 2000}
	SalesMonthlyRevenue        = IntRange{5000, 20_000}
)

// Purchase ranges.
var (
	PurchaseTotalValue         = IntRange{50_000, 200_000}
	PurchaseTotalOrders        = IntRange{100, 500}
	PurchaseAverageOrderValue  = IntRange{500, 2000}
	PurchasePendingOrders      = IntRange{5, 30}
	PurchaseSupplierCount      = IntRange{10, 50}
	PurchaseOnTimeDeliveryRate = FloatRange{80.0, 98.0}
	PurchaseBySupplier         = IntRange{2000, 10_000}
)

// Report ranges.
var (
	ReportRevenueGrowth           = FloatRange{5.0, 15.0}
	ReportProfitGrowth            = FloatRange{3.0, 12.0}
	ReportCustomerGrowth          = FloatRange{2.0, 10.0}
	ReportAverageOrderGrowth      = FloatRange{-1.0, 8.0}
	ReportInventoryTurnoverChange = FloatRange{-2.0, 5.0}
	ReportReturnRateChange        = FloatRange{-3.0, 1.0}
)
