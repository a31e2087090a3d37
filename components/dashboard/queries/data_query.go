package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-storefront-dashboard/components/dashboard"
)

// DataQueryInput selects which data to read.
type DataQueryInput struct {
	// Fresh fetches from the data source instead of returning the last rendered data.
	Fresh bool
}

type dataReader interface {
	Data(ctx context.Context) (dashboard.DashboardData, error)
}

// DashboardDataQuery reads dashboard data without rendering.
type DashboardDataQuery struct {
	rendered dataReader
	source   dashboard.DataSource
}

// NewDashboardDataQuery builds the query. source may be nil when fresh reads are not needed.
func NewDashboardDataQuery(rendered dataReader, source dashboard.DataSource) *DashboardDataQuery {
	return &DashboardDataQuery{rendered: rendered, source: source}
}

var _ gocommand.Querier[DataQueryInput, dashboard.DashboardData] = (*DashboardDataQuery)(nil)

// Query returns the last rendered data, or freshly fetched data when requested.
func (q *DashboardDataQuery) Query(ctx context.Context, input DataQueryInput) (dashboard.DashboardData, error) {
	if input.Fresh && q.source != nil {
		return q.source.Fetch(ctx), nil
	}
	if q.rendered == nil {
		return dashboard.FallbackData(), nil
	}
	return q.rendered.Data(ctx)
}
