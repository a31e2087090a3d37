package datasource

import (
	"context"
	"sync"

	dashboard "github.com/goliatone/go-storefront-dashboard/components/dashboard"
)

// MockClient serves in-memory fixtures, optionally failing every call.
type MockClient struct {
	mu    sync.RWMutex
	data  dashboard.DashboardData
	err   error
	calls int
}

// NewMockClient builds a mock client from fixtures.
func NewMockClient(data dashboard.DashboardData) *MockClient {
	return &MockClient{data: data}
}

var _ dashboard.DataFetcher = (*MockClient)(nil)

// Fetch returns a copy of the fixtures or the configured error.
func (c *MockClient) Fetch(context.Context) (dashboard.DashboardData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return dashboard.DashboardData{}, c.err
	}
	return c.data.Clone(), nil
}

// SetData swaps the fixtures.
func (c *MockClient) SetData(data dashboard.DashboardData) {
	c.mu.Lock()
	c.data = data
	c.mu.Unlock()
}

// FailWith makes subsequent calls return err. A nil err clears the failure.
func (c *MockClient) FailWith(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

// Calls reports how many times Fetch ran.
func (c *MockClient) Calls() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.calls
}
