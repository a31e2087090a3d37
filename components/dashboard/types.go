package dashboard

import (
	"context"
	"time"
)

// DataSource returns the data driving one render cycle. Implementations never fail;
// they substitute the fallback dataset instead.
type DataSource interface {
	Fetch(ctx context.Context) DashboardData
}

// DataFetcher is a fallible upstream read (HTTP API, fixtures).
type DataFetcher interface {
	Fetch(ctx context.Context) (DashboardData, error)
}

// ChartRenderer draws charts into drawing surfaces that are already attached to the
// document. It runs inside the transaction that inserted the surfaces. A missing
// surface is skipped without error.
type ChartRenderer interface {
	DrawLine(tx *Tx, surfaceID string, series []SalesPoint) error
	DrawDonut(tx *Tx, surfaceID string, categories []CategoryShare) error
}

// RefreshHook notifies transports (SSE/WebSocket) about completed renders.
type RefreshHook interface {
	DashboardRendered(ctx context.Context, event RenderEvent) error
}

// OrderStatus is the delivery state label of an order.
type OrderStatus string

const (
	OrderDelivered      OrderStatus = "Delivered"
	OrderPreparing      OrderStatus = "Preparing"
	OrderOutForDelivery OrderStatus = "Out for delivery"
	OrderCancelled      OrderStatus = "Cancelled"
)

// Totals are the headline counters shown in the stat cards.
type Totals struct {
	Revenue   Money `json:"revenue" yaml:"revenue"`
	Orders    int   `json:"orders" yaml:"orders"`
	Customers int   `json:"customers" yaml:"customers"`
	Products  int   `json:"products" yaml:"products"`
}

// SalesPoint is one day of the sales series. Date uses the YYYY-MM-DD layout.
type SalesPoint struct {
	Date  string  `json:"date" yaml:"date"`
	Value float64 `json:"value" yaml:"value"`
}

// CategoryShare is a category and its contribution to sales.
type CategoryShare struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// Order is a row of the recent orders table.
type Order struct {
	ID       string      `json:"id" yaml:"id"`
	Customer string      `json:"customer" yaml:"customer"`
	Total    Money       `json:"total" yaml:"total"`
	Status   OrderStatus `json:"status" yaml:"status"`
}

// DashboardData aggregates everything a single render needs.
type DashboardData struct {
	Totals       Totals          `json:"totals" yaml:"totals"`
	SalesSeries  []SalesPoint    `json:"salesSeries" yaml:"salesSeries"`
	Categories   []CategoryShare `json:"categories" yaml:"categories"`
	RecentOrders []Order         `json:"recentOrders" yaml:"recentOrders"`
}

// Clone returns a deep copy so render cycles never share slices.
func (d DashboardData) Clone() DashboardData {
	out := DashboardData{Totals: d.Totals}
	if d.SalesSeries != nil {
		out.SalesSeries = append([]SalesPoint(nil), d.SalesSeries...)
	}
	if d.Categories != nil {
		out.Categories = append([]CategoryShare(nil), d.Categories...)
	}
	if d.RecentOrders != nil {
		out.RecentOrders = append([]Order(nil), d.RecentOrders...)
	}
	return out
}

// State is the orchestrator lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateRendered
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateRendered:
		return "rendered"
	case StateRefreshing:
		return "refreshing"
	default:
		return "uninitialized"
	}
}

// RenderEvent describes a completed render cycle.
type RenderEvent struct {
	ID         string    `json:"id"`
	Container  string    `json:"container"`
	Reason     string    `json:"reason"`
	Orders     int       `json:"orders"`
	RenderedAt time.Time `json:"rendered_at"`
}
