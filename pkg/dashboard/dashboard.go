package dashboard

import (
	"context"

	core "github.com/goliatone/go-storefront-dashboard/components/dashboard"
)

// Dashboard exposes the underlying components/dashboard.Dashboard handle.
type Dashboard = core.Dashboard

// Options re-export for convenience.
type Options = core.Options

// Config re-export for convenience.
type Config = core.Config

// Document re-export for convenience.
type Document = core.Document

// Init proxies to the internal initializer.
func Init(ctx context.Context, doc *Document, opts Options) (*Dashboard, error) {
	return core.Init(ctx, doc, opts)
}

// AutoInit proxies to the internal ready-state initializer.
func AutoInit(ctx context.Context, doc *Document, opts Options, done func(*Dashboard, error)) {
	core.AutoInit(ctx, doc, opts, done)
}

// LoadConfig proxies to the config loader.
func LoadConfig(path string) (Config, error) {
	return core.LoadConfig(path)
}
