package dashboard

import (
	"context"
	"errors"
	"io"
)

var errMissingDashboard = errors.New("dashboard: controller has no dashboard")

// Controller adapts a Dashboard handle for HTTP transports.
type Controller struct {
	dashboard *Dashboard
	telemetry Telemetry
}

// NewController wires the dashboard into a controller.
func NewController(d *Dashboard, telemetry Telemetry) *Controller {
	return &Controller{dashboard: d, telemetry: normalizeTelemetry(telemetry)}
}

// RenderPage writes the whole live document.
func (c *Controller) RenderPage(ctx context.Context, out io.Writer) error {
	if c.dashboard == nil {
		return errMissingDashboard
	}
	if err := c.dashboard.Document().Render(out); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.page.render", map[string]any{
		"container": c.dashboard.ContainerID(),
	})
	return nil
}

// Dispatch forwards a browser event to the listener bound on the addressed node.
func (c *Controller) Dispatch(ctx context.Context, ref, event string) error {
	if c.dashboard == nil {
		return errMissingDashboard
	}
	return c.dashboard.Document().Dispatch(ctx, ref, event)
}

// Refresh re-renders the dashboard container in place.
func (c *Controller) Refresh(ctx context.Context) error {
	if c.dashboard == nil {
		return errMissingDashboard
	}
	return c.dashboard.Refresh(ctx, c.dashboard.Root())
}

// Data returns the data of the latest render.
func (c *Controller) Data(context.Context) (DashboardData, error) {
	if c.dashboard == nil {
		return DashboardData{}, errMissingDashboard
	}
	data, ok := c.dashboard.LastData()
	if !ok {
		return DashboardData{}, errors.New("dashboard: nothing rendered yet")
	}
	return data, nil
}
