package dashboard

import (
	"context"

	"go.uber.org/multierr"
)

// NotificationsClient is the minimal interface needed from go-notifications (or similar).
type NotificationsClient interface {
	PublishDashboardEvent(ctx context.Context, event RenderEvent) error
}

// NotificationsHook forwards render events to an external notifications client.
type NotificationsHook struct {
	Client  NotificationsClient
	Channel string
}

// DashboardRendered publishes the event. Refresh renders only, unless Channel is "all".
func (h *NotificationsHook) DashboardRendered(ctx context.Context, event RenderEvent) error {
	if h == nil || h.Client == nil {
		return nil
	}
	if h.Channel != "all" && event.Reason != "refresh" {
		return nil
	}
	return h.Client.PublishDashboardEvent(ctx, event)
}

// RefreshHooks calls every hook in order and joins their errors.
type RefreshHooks []RefreshHook

// DashboardRendered fans the event out.
func (hooks RefreshHooks) DashboardRendered(ctx context.Context, event RenderEvent) error {
	var err error
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		err = multierr.Append(err, hook.DashboardRendered(ctx, event))
	}
	return err
}
