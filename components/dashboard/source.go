package dashboard

import "context"

// FallbackSource turns a fallible fetcher into a DataSource that always succeeds by
// substituting FallbackData on any error.
type FallbackSource struct {
	fetcher   DataFetcher
	telemetry Telemetry
}

// FallbackOption customizes a FallbackSource.
type FallbackOption func(*FallbackSource)

// WithFallbackTelemetry reports fetch failures to a telemetry sink.
func WithFallbackTelemetry(t Telemetry) FallbackOption {
	return func(s *FallbackSource) {
		s.telemetry = t
	}
}

// NewFallbackSource wraps fetcher. A nil fetcher always serves the fallback dataset.
func NewFallbackSource(fetcher DataFetcher, opts ...FallbackOption) *FallbackSource {
	s := &FallbackSource{fetcher: fetcher}
	for _, opt := range opts {
		opt(s)
	}
	s.telemetry = normalizeTelemetry(s.telemetry)
	return s
}

// Fetch returns the upstream data, or the fallback dataset when the upstream fails.
func (s *FallbackSource) Fetch(ctx context.Context) DashboardData {
	if s == nil || s.fetcher == nil {
		return FallbackData()
	}
	data, err := s.fetcher.Fetch(ctx)
	if err != nil {
		normalizeTelemetry(s.telemetry).Record(ctx, "dashboard.data.fallback", map[string]any{
			"error": err.Error(),
		})
		return FallbackData()
	}
	return data
}

// StaticSource always serves the given data. Useful for snapshots and tests.
type StaticSource DashboardData

// Fetch returns a copy of the static data.
func (s StaticSource) Fetch(context.Context) DashboardData {
	return DashboardData(s).Clone()
}
