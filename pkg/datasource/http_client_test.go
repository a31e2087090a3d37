package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashboard "github.com/goliatone/go-storefront-dashboard/components/dashboard"
)

const samplePayload = `{
  "totals": {"revenue": 99.5, "orders": 3, "customers": 2, "products": 1},
  "salesSeries": [{"date": "2025-05-01", "value": 10}],
  "categories": [{"name": "Books", "value": 1}],
  "recentOrders": [{"id": "ORD-9", "customer": "Ada", "total": 99.5, "status": "Delivered"}]
}`

func TestHTTPClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, DefaultPath, r.URL.Path)
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		assert.Equal(t, "no-cache", r.Header.Get("Pragma"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL + "/"})
	require.NoError(t, err)
	data, err := client.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, data.Totals.Orders)
	assert.Equal(t, "99.5", data.Totals.Revenue.String())
	require.Len(t, data.RecentOrders, 1)
	assert.Equal(t, dashboard.OrderStatus("Delivered"), data.RecentOrders[0].Status)
}

func TestHTTPClientRequiresBaseURL(t *testing.T) {
	_, err := NewHTTPClient(HTTPConfig{})
	require.Error(t, err)
}

func TestHTTPClientNonOKFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)
	_, err = client.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	data := dashboard.NewFallbackSource(client).Fetch(context.Background())
	assert.Equal(t, dashboard.FallbackData(), data)
}

func TestHTTPClientMalformedJSONFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)
	_, err = client.Fetch(context.Background())
	require.Error(t, err)

	data := dashboard.NewFallbackSource(client).Fetch(context.Background())
	assert.Equal(t, 342, data.Totals.Orders)
}

func TestHTTPClientNetworkErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewHTTPClient(HTTPConfig{BaseURL: url})
	require.NoError(t, err)
	data := dashboard.NewFallbackSource(client).Fetch(context.Background())
	assert.Len(t, data.SalesSeries, 7)
}

func TestMockClient(t *testing.T) {
	client := NewMockClient(dashboard.FallbackData())
	data, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, data.Categories, 4)

	client.FailWith(errors.New("offline"))
	_, err = client.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, client.Calls())

	client.FailWith(nil)
	client.SetData(dashboard.DashboardData{Totals: dashboard.Totals{Orders: 1}})
	data, err = client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, data.Totals.Orders)
}
