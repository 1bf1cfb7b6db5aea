// Package types contains the response records served by the API and the
// ranges and label sets they are sampled from.
//
// Struct fields are declared in ascending JSON key order so that encoded
// objects carry sorted keys.
package types

// ChartSeries is a labelled data set for a single bar or line chart.
// Labels and Data always have the same length.
type ChartSeries struct {
	Data   []int    `json:"data"`
	Labels []string `json:"labels"`
}

// DashboardKPIs are the headline numbers of GET /api/dashboard.
type DashboardKPIs struct {
	AverageOrderValue int      `json:"average_order_value"`
	ConversionRate    Decimal2 `json:"conversion_rate"`
	RevenueGrowth     Decimal2 `json:"revenue_growth"`
	TotalCustomers    int      `json:"total_customers"`
	TotalOrders       int      `json:"total_orders"`
	TotalSales        int      `json:"total_sales"`
}

// DashboardCharts groups the dashboard chart series.
type DashboardCharts struct {
	DailySales   ChartSeries `json:"daily_sales"`
	MonthlySales ChartSeries `json:"monthly_sales"`
}

// Dashboard is the body of GET /api/dashboard.
type Dashboard struct {
	Charts DashboardCharts `json:"charts"`
	KPIs   DashboardKPIs   `json:"kpis"`
}

// InventoryKPIs are the headline numbers of GET /api/inventory.
type InventoryKPIs struct {
	AverageDaysInInventory int      `json:"average_days_in_inventory"`
	InventoryTurnover      Decimal2 `json:"inventory_turnover"`
	InventoryValue         int      `json:"inventory_value"`
	LowStockItems          int      `json:"low_stock_items"`
	OutOfStock             int      `json:"out_of_stock"`
	TotalItems             int      `json:"total_items"`
}

// InventoryCharts groups the inventory chart series.
type InventoryCharts struct {
	InventoryByCategory ChartSeries `json:"inventory_by_category"`
}

// Inventory is the body of GET /api/inventory.
type Inventory struct {
	Charts InventoryCharts `json:"charts"`
	KPIs   InventoryKPIs   `json:"kpis"`
}

// SalesKPIs are the headline numbers of GET /api/sales.
type SalesKPIs struct {
	AverageOrderValue     int      `json:"average_order_value"`
	CustomerLifetimeValue int      `json:"customer_lifetime_value"`
	ProfitMargin          Decimal2 `json:"profit_margin"`
	ReturnRate            Decimal2 `json:"return_rate"`
	TotalProfit           int      `json:"total_profit"`
	TotalRevenue          int      `json:"total_revenue"`
}

// SalesCharts groups the sales chart series.
type SalesCharts struct {
	MonthlyRevenue ChartSeries `json:"monthly_revenue"`
}

// Sales is the body of GET /api/sales.
type Sales struct {
	Charts SalesCharts `json:"charts"`
	KPIs   SalesKPIs   `json:"kpis"`
}

// PurchaseKPIs are the headline numbers of GET /api/purchase.
type PurchaseKPIs struct {
	AverageOrderValue  int      `json:"average_order_value"`
	OnTimeDeliveryRate Decimal2 `json:"on_time_delivery_rate"`
	PendingOrders      int      `json:"pending_orders"`
	SupplierCount      int      `json:"supplier_count"`
	TotalOrders        int      `json:"total_orders"`
	TotalPurchaseValue int      `json:"total_purchase_value"`
}

// PurchaseCharts groups the purchasing chart series.
type PurchaseCharts struct {
	PurchaseBySupplier ChartSeries `json:"purchase_by_supplier"`
}

// Purchase is the body of GET /api/purchase.
type Purchase struct {
	Charts PurchaseCharts `json:"charts"`
	KPIs   PurchaseKPIs   `json:"kpis"`
}

// ReportKPIs are the growth figures of GET /api/reports.
type ReportKPIs struct {
	AverageOrderGrowth      Decimal2 `json:"average_order_growth"`
	CustomerGrowth          Decimal2 `json:"customer_growth"`
	InventoryTurnoverChange Decimal2 `json:"inventory_turnover_change"`
	ProfitGrowth            Decimal2 `json:"profit_growth"`
	ReturnRateChange        Decimal2 `json:"return_rate_change"`
	RevenueGrowth           Decimal2 `json:"revenue_growth"`
}

// Reports is the body of GET /api/reports. It has no charts.
type Reports struct {
	KPIs ReportKPIs `json:"kpis"`
}

// User is the body of GET /api/user.
type User struct {
	Avatar    string `json:"avatar"`
	Email     string `json:"email"`
	LastLogin string `json:"lastLogin"`
	Name      string `json:"name"`
	Role      string `json:"role"`
}
