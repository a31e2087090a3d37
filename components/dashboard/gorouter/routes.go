package gorouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-storefront-dashboard/components/dashboard"
	"github.com/goliatone/go-storefront-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-storefront-dashboard/components/dashboard/queries"
)

// PageController renders the page and dispatches browser events.
type PageController interface {
	RenderPage(ctx context.Context, out io.Writer) error
	Dispatch(ctx context.Context, ref, event string) error
}

// Config wires go-router with the dashboard controller, commands, and hooks.
type Config[T any] struct {
	Router     router.Router[T]
	Controller PageController
	Refresh    gocommand.Commander[commands.RefreshDashboardInput]
	Data       gocommand.Querier[queries.DataQueryInput, dashboard.DashboardData]
	Broadcast  *dashboard.BroadcastHook
	BasePath   string
	Routes     RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML      string
	Data      string
	Refresh   string
	Events    string
	WebSocket string
}

// requestContext is the part of router.Context the handlers use.
type requestContext interface {
	Context() context.Context
	Param(name string, defaultValue ...string) string
	Query(name string, defaultValue ...string) string
	Body() []byte
	Send(body []byte) error
	JSON(code int, v any) error
	SetHeader(key, value string) router.Context
}

// Register mounts dashboard routes (HTML, JSON, events, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}

	group := cfg.Router.Group(base)
	group.Get(routes.HTML, wrap(pageHandler(cfg.Controller)))
	group.Post(routes.Events, wrap(eventHandler(cfg.Controller)))
	if cfg.Data != nil {
		group.Get(routes.Data, wrap(dataHandler(cfg.Data)))
	}
	if cfg.Refresh != nil {
		group.Post(routes.Refresh, wrap(refreshHandler(cfg.Refresh)))
	}
	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}
	return nil
}

func wrap(fn func(requestContext) error) router.HandlerFunc {
	return router.WrapHandler(func(ctx router.Context) error {
		return fn(ctx)
	})
}

func pageHandler(controller PageController) func(requestContext) error {
	return func(ctx requestContext) error {
		var buf bytes.Buffer
		if err := controller.RenderPage(ctx.Context(), &buf); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		ctx.SetHeader("Cache-Control", "no-store")
		return ctx.Send(buf.Bytes())
	}
}

func eventHandler(controller PageController) func(requestContext) error {
	return func(ctx requestContext) error {
		ref := ctx.Param("ref")
		event := ctx.Param("event")
		if ref == "" || event == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("event ref and name are required"))
		}
		if err := controller.Dispatch(ctx.Context(), ref, event); err != nil {
			if errors.Is(err, dashboard.ErrNoListener) {
				return respondError(ctx, http.StatusNotFound, err)
			}
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "dispatched"})
	}
}

func dataHandler(query gocommand.Querier[queries.DataQueryInput, dashboard.DashboardData]) func(requestContext) error {
	return func(ctx requestContext) error {
		fresh := strings.EqualFold(ctx.Query("fresh"), "true") || ctx.Query("fresh") == "1"
		data, err := query.Query(ctx.Context(), queries.DataQueryInput{Fresh: fresh})
		if err != nil {
			return respondError(ctx, http.StatusServiceUnavailable, err)
		}
		return ctx.JSON(http.StatusOK, data)
	}
}

func refreshHandler(refresh gocommand.Commander[commands.RefreshDashboardInput]) func(requestContext) error {
	return func(ctx requestContext) error {
		var payload commands.RefreshDashboardInput
		if body := ctx.Body(); len(body) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
		}
		if err := refresh.Execute(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "refreshed"})
	}
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func respondError(ctx requestContext, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/dashboard"
	}
	if routes.Data == "" {
		routes.Data = "/dashboard/_data"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/dashboard/_refresh"
	}
	if routes.Events == "" {
		routes.Events = "/dashboard/events/:ref/:event"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/dashboard/ws"
	}
	return routes
}
