package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-storefront-dashboard/components/dashboard"
)

// RefreshDashboardInput asks for a fetch-then-render cycle.
type RefreshDashboardInput struct {
	Reason string
}

type refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshDashboardCommand re-renders a dashboard with fresh data.
type RefreshDashboardCommand struct {
	dashboard refresher
	telemetry Telemetry
}

// NewRefreshDashboardCommand creates the command.
func NewRefreshDashboardCommand(d refresher, telemetry Telemetry) *RefreshDashboardCommand {
	return &RefreshDashboardCommand{dashboard: d, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshDashboardInput] = (*RefreshDashboardCommand)(nil)

// Execute runs one refresh cycle.
func (c *RefreshDashboardCommand) Execute(ctx context.Context, msg RefreshDashboardInput) error {
	if c.dashboard == nil {
		return errors.New("refresh command requires dashboard")
	}
	if err := c.dashboard.Refresh(ctx); err != nil {
		return err
	}
	reason := msg.Reason
	if reason == "" {
		reason = "manual"
	}
	c.telemetry.Record(ctx, "dashboard.refresh", map[string]any{"reason": reason})
	return nil
}

var _ refresher = (*dashboard.Controller)(nil)
