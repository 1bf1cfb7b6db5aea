package probe

import (
	"encoding/json"
	"fmt"
	"mime"
	"slices"
	"sort"
	"time"

	"github.com/okian/bizdash/internal/domain/generator"
	"github.com/okian/bizdash/internal/domain/types"
)

// Violation is one failed check.
type Violation struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Check    string `json:"check" yaml:"check"`
	Detail   string `json:"detail" yaml:"detail"`
}

// checker collects violations for one response.
type checker struct {
	endpoint   string
	violations []Violation
}

func (c *checker) failf(check, format string, args ...any) {
	c.violations = append(c.violations, Violation{
		Endpoint: c.endpoint,
		Check:    check,
		Detail:   fmt.Sprintf(format, args...),
	})
}

func (c *checker) intIn(field string, v int, r types.IntRange) {
	if !r.Contains(v) {
		c.failf("range", "%s=%d outside [%d,%d]", field, v, r.Min, r.Max)
	}
}

func (c *checker) decimalIn(field string, v types.Decimal2, r types.FloatRange) {
	if !r.Contains(v) {
		c.failf("range", "%s=%v outside [%v,%v]", field, v.Float64(), r.Min, r.Max)
	}
	if !v.HasAtMostTwoDecimals() {
		c.failf("precision", "%s=%v has more than two decimals", field, v.Float64())
	}
}

func (c *checker) series(field string, s types.ChartSeries, labels []string, r types.IntRange) {
	if !slices.Equal(s.Labels, labels) {
		c.failf("labels", "%s.labels=%v, want %v", field, s.Labels, labels)
	}
	c.seriesData(field, s, len(labels), r)
}

func (c *checker) seriesData(field string, s types.ChartSeries, n int, r types.IntRange) {
	if len(s.Data) != n {
		c.failf("length", "%s.data has %d points, want %d", field, len(s.Data), n)
	}
	for i, v := range s.Data {
		c.intIn(fmt.Sprintf("%s.data[%d]", field, i), v, r)
	}
}

// checkTransport verifies the headers every API response must carry.
func (c *checker) checkTransport(resp response, origin string) {
	if resp.Status != 200 {
		c.failf("status", "got %d, want 200", resp.Status)
	}
	mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mt != "application/json" {
		c.failf("content_type", "got %q, want application/json", resp.Header.Get("Content-Type"))
	}
	if origin != "" {
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" && got != origin {
			c.failf("cors", "Access-Control-Allow-Origin=%q for origin %q", got, origin)
		}
	}
}

// checkShape compares the object keys of body against the encoding of a
// zero-value record, so missing or extra fields are reported by path.
func (c *checker) checkShape(body []byte, zero any) {
	wantRaw, err := json.Marshal(zero)
	if err != nil {
		c.failf("shape", "encode reference: %v", err)
		return
	}
	var want, got any
	_ = json.Unmarshal(wantRaw, &want)
	if err := json.Unmarshal(body, &got); err != nil {
		c.failf("json", "invalid JSON: %v", err)
		return
	}
	compareKeys(c, "", want, got)
}

func compareKeys(c *checker, path string, want, got any) {
	wm, ok := want.(map[string]any)
	if !ok {
		return
	}
	gm, ok := got.(map[string]any)
	if !ok {
		c.failf("shape", "%s is not an object", displayPath(path))
		return
	}
	for _, k := range sortedKeys(wm) {
		gv, present := gm[k]
		if !present {
			c.failf("shape", "missing key %s", joinPath(path, k))
			continue
		}
		compareKeys(c, joinPath(path, k), wm[k], gv)
	}
	for _, k := range sortedKeys(gm) {
		if _, known := wm[k]; !known {
			c.failf("shape", "unexpected key %s", joinPath(path, k))
		}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func displayPath(p string) string {
	if p == "" {
		return "body"
	}
	return p
}

// checkBody decodes and validates the payload of endpoint. It returns the
// canonical KPI encoding used to detect repeated payloads.
func (c *checker) checkBody(endpoint string, body []byte, now time.Time) string {
	switch endpoint {
	case "dashboard":
		var d types.Dashboard
		if !c.decode(body, &d, types.Dashboard{}) {
			return ""
		}
		c.checkDashboard(d, now)
		return canonical(d.KPIs)
	case "inventory":
		var inv types.Inventory
		if !c.decode(body, &inv, types.Inventory{}) {
			return ""
		}
		c.checkInventory(inv)
		return canonical(inv.KPIs)
	case "sales":
		var s types.Sales
		if !c.decode(body, &s, types.Sales{}) {
			return ""
		}
		c.checkSales(s)
		return canonical(s.KPIs)
	case "purchase":
		var p types.Purchase
		if !c.decode(body, &p, types.Purchase{}) {
			return ""
		}
		c.checkPurchase(p)
		return canonical(p.KPIs)
	case "reports":
		var r types.Reports
		if !c.decode(body, &r, types.Reports{}) {
			return ""
		}
		c.checkReports(r)
		return canonical(r.KPIs)
	case "user":
		var u types.User
		if !c.decode(body, &u, types.User{}) {
			return ""
		}
		c.checkUser(u, now)
		return ""
	default:
		c.failf("endpoint", "no checks for %q", endpoint)
		return ""
	}
}

func (c *checker) decode(body []byte, dst, zero any) bool {
	c.checkShape(body, zero)
	if err := json.Unmarshal(body, dst); err != nil {
		c.failf("decode", "%v", err)
		return false
	}
	return true
}

func (c *checker) checkDashboard(d types.Dashboard, now time.Time) {
	k := d.KPIs
	c.intIn("kpis.total_sales", k.TotalSales, types.DashboardTotalSales)
	c.intIn("kpis.total_orders", k.TotalOrders, types.DashboardTotalOrders)
	c.intIn("kpis.total_customers", k.TotalCustomers, types.DashboardTotalCustomers)
	c.intIn("kpis.average_order_value", k.AverageOrderValue, types.DashboardAverageOrderValue)
	c.decimalIn("kpis.conversion_rate", k.ConversionRate, types.DashboardConversionRate)
	c.decimalIn("kpis.revenue_growth", k.RevenueGrowth, types.DashboardRevenueGrowth)

	c.series("charts.monthly_sales", d.Charts.MonthlySales, types.MonthLabels, types.DashboardMonthlySales)

	daily := d.Charts.DailySales
	c.seriesData("charts.daily_sales", daily, types.DailySalesDays, types.DashboardDailySales)
	if len(daily.Labels) != types.DailySalesDays {
		c.failf("length", "charts.daily_sales.labels has %d entries, want %d", len(daily.Labels), types.DailySalesDays)
		return
	}
	// Consecutive days: each label is the weekday after the previous one.
	for i := 1; i < len(daily.Labels); i++ {
		prev, ok1 := parseWeekday(daily.Labels[i-1])
		cur, ok2 := parseWeekday(daily.Labels[i])
		if !ok1 || !ok2 || (prev+1)%7 != cur {
			c.failf("labels", "charts.daily_sales.labels=%v are not consecutive weekdays", daily.Labels)
			break
		}
	}
	today := generator.WeekdayAbbrev(now.Weekday())
	if last := daily.Labels[len(daily.Labels)-1]; last != today {
		c.failf("today", "last daily label %q, want %q", last, today)
	}
}

func (c *checker) checkInventory(inv types.Inventory) {
	k := inv.KPIs
	c.intIn("kpis.total_items", k.TotalItems, types.InventoryTotalItems)
	c.intIn("kpis.low_stock_items", k.LowStockItems, types.InventoryLowStockItems)
	c.intIn("kpis.out_of_stock", k.OutOfStock, types.InventoryOutOfStock)
	c.intIn("kpis.inventory_value", k.InventoryValue, types.InventoryValue)
	c.decimalIn("kpis.inventory_turnover", k.InventoryTurnover, types.InventoryTurnover)
	c.intIn("kpis.average_days_in_inventory", k.AverageDaysInInventory, types.InventoryAverageDaysInInventory)
	c.series("charts.inventory_by_category", inv.Charts.InventoryByCategory, types.CategoryLabels, types.InventoryByCategory)
}

func (c *checker) checkSales(s types.Sales) {
	k := s.KPIs
	c.intIn("kpis.total_revenue", k.TotalRevenue, types.SalesTotalRevenue)
	c.intIn("kpis.total_profit", k.TotalProfit, types.SalesTotalProfit)
	c.decimalIn("kpis.profit_margin", k.ProfitMargin, types.SalesProfitMargin)
	c.intIn("kpis.average_order_value", k.AverageOrderValue, types.SalesAverageOrderValue)
	c.decimalIn("kpis.return_rate", k.ReturnRate, types.SalesReturnRate)
	c.intIn("kpis.customer_lifetime_value", k.CustomerLifetimeValue, types.SalesCustomerLifetimeValue)
	c.series("charts.monthly_revenue", s.Charts.MonthlyRevenue, types.MonthLabels, types.SalesMonthlyRevenue)
}

func (c *checker) checkPurchase(p types.Purchase) {
	k := p.KPIs
	c.intIn("kpis.total_purchase_value", k.TotalPurchaseValue, types.PurchaseTotalValue)
	c.intIn("kpis.total_orders", k.TotalOrders, types.PurchaseTotalOrders)
	c.intIn("kpis.average_order_value", k.AverageOrderValue, types.PurchaseAverageOrderValue)
	c.intIn("kpis.pending_orders", k.PendingOrders, types.PurchasePendingOrders)
	c.intIn("kpis.supplier_count", k.SupplierCount, types.PurchaseSupplierCount)
	c.decimalIn("kpis.on_time_delivery_rate", k.OnTimeDeliveryRate, types.PurchaseOnTimeDeliveryRate)
	c.series("charts.purchase_by_supplier", p.Charts.PurchaseBySupplier, types.SupplierLabels, types.PurchaseBySupplier)
}

func (c *checker) checkReports(r types.Reports) {
	k := r.KPIs
	c.decimalIn("kpis.revenue_growth", k.RevenueGrowth, types.ReportRevenueGrowth)
	c.decimalIn("kpis.profit_growth", k.ProfitGrowth, types.ReportProfitGrowth)
	c.decimalIn("kpis.customer_growth", k.CustomerGrowth, types.ReportCustomerGrowth)
	c.decimalIn("kpis.average_order_growth", k.AverageOrderGrowth, types.ReportAverageOrderGrowth)
	c.decimalIn("kpis.inventory_turnover_change", k.InventoryTurnoverChange, types.ReportInventoryTurnoverChange)
	c.decimalIn("kpis.return_rate_change", k.ReturnRateChange, types.ReportReturnRateChange)
}

func (c *checker) checkUser(u types.User, now time.Time) {
	if u.Name != types.UserName {
		c.failf("user", "name=%q, want %q", u.Name, types.UserName)
	}
	if u.Email != types.UserEmail {
		c.failf("user", "email=%q, want %q", u.Email, types.UserEmail)
	}
	if u.Role != types.UserRole {
		c.failf("user", "role=%q, want %q", u.Role, types.UserRole)
	}
	if u.Avatar != types.UserAvatar {
		c.failf("user", "avatar=%q, want %q", u.Avatar, types.UserAvatar)
	}
	ts, err := time.ParseInLocation(types.LastLoginLayout, u.LastLogin, now.Location())
	if err != nil {
		c.failf("last_login", "lastLogin=%q does not match %s", u.LastLogin, types.LastLoginLayout)
		return
	}
	// lastLogin has second precision and the two clocks may drift slightly.
	if ts.After(now.Add(lastLoginSkew)) {
		c.failf("last_login", "lastLogin=%q is in the future", u.LastLogin)
	}
}

const lastLoginSkew = 5 * time.Minute

func parseWeekday(abbrev string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if generator.WeekdayAbbrev(d) == abbrev {
			return d, true
		}
	}
	return 0, false
}

func canonical(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
