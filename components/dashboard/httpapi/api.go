package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-storefront-dashboard/components/dashboard"
	"github.com/goliatone/go-storefront-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-storefront-dashboard/components/dashboard/queries"
)

// PageRenderer writes the live dashboard page.
type PageRenderer interface {
	RenderPage(ctx context.Context, out io.Writer) error
}

// EventDispatcher forwards browser events to bound listeners.
type EventDispatcher interface {
	Dispatch(ctx context.Context, ref, event string) error
}

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	Page     PageRenderer
	Events   EventDispatcher
	Refresh  gocommand.Commander[commands.RefreshDashboardInput]
	Data     gocommand.Querier[queries.DataQueryInput, dashboard.DashboardData]
	Stream   *dashboard.BroadcastHook
	PagePath string
}

// HandlePage serves the dashboard page.
func (h *Handlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.Page.RenderPage(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandleEvent dispatches one browser event. JSON clients get 204, form posts are
// redirected back to the page.
func (h *Handlers) HandleEvent(w http.ResponseWriter, r *http.Request, ref, event string) {
	if err := h.Events.Dispatch(r.Context(), ref, event); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dashboard.ErrNoListener) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	if wantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, h.pagePath(), http.StatusSeeOther)
}

// HandleRefresh runs a refresh cycle.
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshDashboardInput
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if err := h.Refresh.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleData returns dashboard data as JSON. ?fresh=1 refetches from the source.
func (h *Handlers) HandleData(w http.ResponseWriter, r *http.Request) {
	input := queries.DataQueryInput{Fresh: isTruthy(r.URL.Query().Get("fresh"))}
	data, err := h.Data.Query(r.Context(), input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// HandleStream streams render events as Server-Sent Events.
func (h *Handlers) HandleStream(w http.ResponseWriter, r *http.Request) {
	if h.Stream == nil {
		http.Error(w, "stream not configured", http.StatusNotFound)
		return
	}
	h.Stream.ServeSSE(w, r)
}

// HandleWebSocket streams render events over a WebSocket.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.Stream == nil {
		http.Error(w, "stream not configured", http.StatusNotFound)
		return
	}
	h.Stream.ServeWebSocket(w, r)
}

// Mux mounts the handlers on a ServeMux under base.
func (h *Handlers) Mux(base string) *http.ServeMux {
	base = strings.TrimRight(base, "/")
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+base+"/dashboard", h.HandlePage)
	mux.HandleFunc("GET "+base+"/dashboard/_data", h.HandleData)
	mux.HandleFunc("POST "+base+"/dashboard/_refresh", h.HandleRefresh)
	mux.HandleFunc("GET "+base+"/dashboard/_stream", h.HandleStream)
	mux.HandleFunc("GET "+base+"/dashboard/ws", h.HandleWebSocket)
	mux.HandleFunc("POST "+base+"/dashboard/events/{ref}/{event}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleEvent(w, r, r.PathValue("ref"), r.PathValue("event"))
	})
	return mux
}

func (h *Handlers) pagePath() string {
	if h.PagePath == "" {
		return "/"
	}
	return h.PagePath
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
