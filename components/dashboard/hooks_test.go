package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type stubNotifications struct {
	events []RenderEvent
}

func (s *stubNotifications) PublishDashboardEvent(_ context.Context, event RenderEvent) error {
	s.events = append(s.events, event)
	return nil
}

type failingHook struct{ err error }

func (h failingHook) DashboardRendered(context.Context, RenderEvent) error { return h.err }

func TestNotificationsHookFiltersReason(t *testing.T) {
	client := &stubNotifications{}
	hook := &NotificationsHook{Client: client}

	require.NoError(t, hook.DashboardRendered(context.Background(), RenderEvent{Reason: "init"}))
	require.NoError(t, hook.DashboardRendered(context.Background(), RenderEvent{Reason: "refresh"}))
	require.Len(t, client.events, 1)
	assert.Equal(t, "refresh", client.events[0].Reason)

	hook.Channel = "all"
	require.NoError(t, hook.DashboardRendered(context.Background(), RenderEvent{Reason: "init"}))
	assert.Len(t, client.events, 2)
}

func TestNotificationsHookNilClient(t *testing.T) {
	var hook *NotificationsHook
	assert.NoError(t, hook.DashboardRendered(context.Background(), RenderEvent{}))
}

func TestRefreshHooksJoinsErrors(t *testing.T) {
	client := &stubNotifications{}
	first := errors.New("first")
	second := errors.New("second")
	hooks := RefreshHooks{
		failingHook{err: first},
		nil,
		&NotificationsHook{Client: client, Channel: "all"},
		failingHook{err: second},
	}

	err := hooks.DashboardRendered(context.Background(), RenderEvent{Reason: "init"})
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
	assert.Len(t, client.events, 1)
}
