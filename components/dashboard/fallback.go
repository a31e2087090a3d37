package dashboard

var fallbackData = DashboardData{
	Totals: Totals{
		Revenue:   NewMoney("12458.50"),
		Orders:    342,
		Customers: 128,
		Products:  86,
	},
	SalesSeries: []SalesPoint{
		{Date: "2025-04-01", Value: 300},
		{Date: "2025-04-02", Value: 450},
		{Date: "2025-04-03", Value: 380},
		{Date: "2025-04-04", Value: 520},
		{Date: "2025-04-05", Value: 610},
		{Date: "2025-04-06", Value: 480},
		{Date: "2025-04-07", Value: 700},
	},
	Categories: []CategoryShare{
		{Name: "Fruits", Value: 40},
		{Name: "Vegetables", Value: 25},
		{Name: "Dairy", Value: 20},
		{Name: "Bakery", Value: 15},
	},
	RecentOrders: []Order{
		{ID: "ORD-1001", Customer: "Alice", Total: NewMoney("23.50"), Status: OrderDelivered},
		{ID: "ORD-1002", Customer: "Bob", Total: NewMoney("12.99"), Status: OrderPreparing},
		{ID: "ORD-1003", Customer: "Carol", Total: NewMoney("45.00"), Status: OrderOutForDelivery},
		{ID: "ORD-1004", Customer: "Dave", Total: NewMoney("9.49"), Status: OrderCancelled},
	},
}

// FallbackData returns a fresh copy of the built-in mock dataset.
func FallbackData() DashboardData {
	return fallbackData.Clone()
}
