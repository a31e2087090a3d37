package dashboard

import (
	"context"
	"strconv"

	"golang.org/x/net/html"
)

// Drawing surface ids and sizes.
const (
	SalesSurfaceID    = "dsb-sales-chart"
	CategorySurfaceID = "dsb-cat-chart"

	salesSurfaceWidth     = 600
	salesSurfaceHeight    = 200
	categorySurfaceWidth  = 300
	categorySurfaceHeight = 200
)

// Views turns dashboard data into detached node trees.
type Views struct {
	b      *Builder
	labels Labels
	money  MoneyFormatter
}

// NewViews builds view renderers on top of b.
func NewViews(b *Builder, labels Labels) *Views {
	return &Views{b: b, labels: labels, money: defaultMoney}
}

// Stats renders the four stat cards: revenue, orders, customers, products.
func (v *Views) Stats(ctx context.Context, totals Totals) *html.Node {
	return v.b.El("div", Attrs{"class": "dsb-grid"},
		v.statCard(v.labels.Get(ctx, "dashboard.stats.revenue"), v.currency(totals.Revenue)),
		v.statCard(v.labels.Get(ctx, "dashboard.stats.orders"), strconv.Itoa(totals.Orders)),
		v.statCard(v.labels.Get(ctx, "dashboard.stats.customers"), strconv.Itoa(totals.Customers)),
		v.statCard(v.labels.Get(ctx, "dashboard.stats.products"), strconv.Itoa(totals.Products)),
	)
}

func (v *Views) statCard(title, value string) *html.Node {
	return v.b.El("div", Attrs{"class": "dsb-card"},
		v.b.El("div", Attrs{"class": "dsb-title"}, title),
		v.b.El("div", Attrs{"class": "dsb-value"}, value),
	)
}

// RecentOrders renders the orders table in input order.
func (v *Views) RecentOrders(ctx context.Context, orders []Order) *html.Node {
	rows := make([]*html.Node, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, v.b.El("tr", nil,
			v.b.El("td", nil, o.ID),
			v.b.El("td", nil, o.Customer),
			v.b.El("td", nil, v.currency(o.Total)),
			v.b.El("td", nil, string(o.Status)),
		))
	}
	table := v.b.El("table", Attrs{"class": "dsb-table"},
		v.b.El("thead", nil, v.b.El("tr", nil,
			v.b.El("th", nil, v.labels.Get(ctx, "dashboard.orders.column.order")),
			v.b.El("th", nil, v.labels.Get(ctx, "dashboard.orders.column.customer")),
			v.b.El("th", nil, v.labels.Get(ctx, "dashboard.orders.column.total")),
			v.b.El("th", nil, v.labels.Get(ctx, "dashboard.orders.column.status")),
		)),
		v.b.El("tbody", nil, rows),
	)
	return v.b.El("div", Attrs{"class": "dsb-card"},
		v.b.El("div", Attrs{"class": "dsb-title"}, v.labels.Get(ctx, "dashboard.orders.title")),
		table,
	)
}

// SalesChart renders the sales card with an empty drawing surface.
func (v *Views) SalesChart(ctx context.Context, _ []SalesPoint) *html.Node {
	return v.chartCard(v.labels.Get(ctx, "dashboard.sales.title"), SalesSurfaceID, salesSurfaceWidth, salesSurfaceHeight)
}

// CategoryChart renders the category card with an empty drawing surface.
func (v *Views) CategoryChart(ctx context.Context, _ []CategoryShare) *html.Node {
	return v.chartCard(v.labels.Get(ctx, "dashboard.categories.title"), CategorySurfaceID, categorySurfaceWidth, categorySurfaceHeight)
}

func (v *Views) chartCard(title, surfaceID string, width, height int) *html.Node {
	return v.b.El("div", Attrs{"class": "dsb-card"},
		v.b.El("div", Attrs{"class": "dsb-title"}, title),
		v.b.El("canvas", Attrs{
			"id":     surfaceID,
			"width":  strconv.Itoa(width),
			"height": strconv.Itoa(height),
		}),
	)
}

func (v *Views) currency(value any) string {
	out := v.money.Format(value)
	if s, ok := out.(string); ok {
		return s
	}
	return FormatCurrencyString(out)
}
