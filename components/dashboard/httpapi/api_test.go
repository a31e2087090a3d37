package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-storefront-dashboard/components/dashboard"
	"github.com/goliatone/go-storefront-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-storefront-dashboard/components/dashboard/queries"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

type stubQuerier struct {
	last queries.DataQueryInput
	data dashboard.DashboardData
	err  error
}

func (s *stubQuerier) Query(ctx context.Context, input queries.DataQueryInput) (dashboard.DashboardData, error) {
	s.last = input
	return s.data, s.err
}

type stubPage struct{ body string }

func (s stubPage) RenderPage(ctx context.Context, out io.Writer) error {
	_, err := io.WriteString(out, s.body)
	return err
}

type stubEvents struct {
	ref, event string
	err        error
}

func (s *stubEvents) Dispatch(ctx context.Context, ref, event string) error {
	s.ref, s.event = ref, event
	return s.err
}

func TestHandlePage(t *testing.T) {
	api := &Handlers{Page: stubPage{body: "<html>ok</html>"}}
	rec := httptest.NewRecorder()
	api.HandlePage(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("expected html content type, got %q", rec.Header().Get("Content-Type"))
	}
	if rec.Body.String() != "<html>ok</html>" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestHandleEventRedirectsFormPosts(t *testing.T) {
	events := &stubEvents{}
	api := &Handlers{Events: events, PagePath: "/admin/dashboard"}
	rec := httptest.NewRecorder()
	api.HandleEvent(rec, httptest.NewRequest(http.MethodPost, "/admin/dashboard/events/e1/click", nil), "e1", "click")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if rec.Header().Get("Location") != "/admin/dashboard" {
		t.Fatalf("unexpected redirect %q", rec.Header().Get("Location"))
	}
	if events.ref != "e1" || events.event != "click" {
		t.Fatalf("expected ref/event propagation, got %s/%s", events.ref, events.event)
	}
}

func TestHandleEventJSON(t *testing.T) {
	api := &Handlers{Events: &stubEvents{}}
	req := httptest.NewRequest(http.MethodPost, "/events/e1/click", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	api.HandleEvent(rec, req, "e1", "click")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestHandleEventUnknownListener(t *testing.T) {
	api := &Handlers{Events: &stubEvents{err: fmt.Errorf("%w: e9/click", dashboard.ErrNoListener)}}
	rec := httptest.NewRecorder()
	api.HandleEvent(rec, httptest.NewRequest(http.MethodPost, "/events/e9/click", nil), "e9", "click")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleRefresh(t *testing.T) {
	refresh := &stubCommander[commands.RefreshDashboardInput]{}
	api := &Handlers{Refresh: refresh}
	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"Reason":"button"}`))
	rec := httptest.NewRecorder()
	api.HandleRefresh(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if refresh.last.Reason != "button" {
		t.Fatalf("expected reason propagation, got %q", refresh.last.Reason)
	}
}

func TestHandleRefreshError(t *testing.T) {
	api := &Handlers{Refresh: &stubCommander[commands.RefreshDashboardInput]{err: errors.New("boom")}}
	rec := httptest.NewRecorder()
	api.HandleRefresh(rec, httptest.NewRequest(http.MethodPost, "/refresh", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestHandleData(t *testing.T) {
	query := &stubQuerier{data: dashboard.FallbackData()}
	api := &Handlers{Data: query}
	rec := httptest.NewRecorder()
	api.HandleData(rec, httptest.NewRequest(http.MethodGet, "/_data?fresh=true", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !query.last.Fresh {
		t.Fatalf("expected fresh flag")
	}
	var decoded dashboard.DashboardData
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.RecentOrders) != 4 {
		t.Fatalf("expected 4 orders, got %d", len(decoded.RecentOrders))
	}
}

func TestMuxRoutesEvents(t *testing.T) {
	events := &stubEvents{}
	api := &Handlers{Events: events}
	req := httptest.NewRequest(http.MethodPost, "/admin/dashboard/events/e4/click", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	api.Mux("/admin/").ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if events.ref != "e4" {
		t.Fatalf("expected ref from path, got %q", events.ref)
	}
}

func TestHandleStreamWithoutHook(t *testing.T) {
	api := &Handlers{}
	rec := httptest.NewRecorder()
	api.HandleStream(rec, httptest.NewRequest(http.MethodGet, "/_stream", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	api.HandleWebSocket(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandlersEndToEnd(t *testing.T) {
	ctx := context.Background()
	doc := dashboard.NewBlankDocument()
	d, err := dashboard.Init(ctx, doc, dashboard.Options{})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	controller := dashboard.NewController(d, nil)
	api := &Handlers{
		Page:     controller,
		Events:   controller,
		Refresh:  commands.NewRefreshDashboardCommand(controller, nil),
		Data:     queries.NewDashboardDataQuery(controller, nil),
		PagePath: "/admin/dashboard",
	}
	server := httptest.NewServer(api.Mux("/admin"))
	defer server.Close()

	resp, err := http.Get(server.URL + "/admin/dashboard")
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "dsb-container") {
		t.Fatalf("expected dashboard markup")
	}

	resp, err = http.Post(server.URL+"/admin/dashboard/_refresh", "application/json", nil)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/admin/dashboard/_data")
	if err != nil {
		t.Fatalf("data: %v", err)
	}
	defer resp.Body.Close()
	var data dashboard.DashboardData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Totals.Customers != 128 {
		t.Fatalf("expected fallback customers, got %d", data.Totals.Customers)
	}
}
