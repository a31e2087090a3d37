package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// DefaultContainerID is the id of the element the dashboard renders into.
const DefaultContainerID = "dashboard"

var (
	errMissingDocument  = errors.New("dashboard: document is required")
	errMissingContainer = errors.New("dashboard: container element is required")
)

// Options configures a Dashboard. Every collaborator is an interface so embedding
// applications can swap implementations.
type Options struct {
	ContainerID string
	Source      DataSource
	Charts      ChartRenderer
	Translator  TranslationService
	Locale      string
	Theme       Theme
	RefreshHook RefreshHook
	Telemetry   Telemetry
}

// Dashboard is the handle returned by Init. It owns the container element of one
// document and re-renders it on demand.
type Dashboard struct {
	doc      *Document
	opts     Options
	builder  *Builder
	fallback ChartRenderer

	mu      sync.Mutex
	root    *html.Node
	state   State
	last    DashboardData
	hasData bool
}

// seriesLabeler is implemented by chart renderers that show a series name.
type seriesLabeler interface {
	WithSeriesLabel(name string) ChartRenderer
}

func newDashboard(ctx context.Context, doc *Document, opts Options) *Dashboard {
	if opts.ContainerID == "" {
		opts.ContainerID = DefaultContainerID
	}
	if opts.Source == nil {
		opts.Source = NewFallbackSource(nil)
	}
	if opts.Charts == nil {
		opts.Charts = NewVectorCharts()
	}
	if labeler, ok := opts.Charts.(seriesLabeler); ok {
		opts.Charts = labeler.WithSeriesLabel(NewLabels(opts.Translator, opts.Locale).Get(ctx, "dashboard.sales.series"))
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if len(opts.Theme.Tokens) == 0 && opts.Theme.Name == "" {
		opts.Theme = DefaultTheme()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Dashboard{
		doc:      doc,
		opts:     opts,
		builder:  doc.Builder(),
		fallback: NewVectorCharts(),
	}
}

// Init resolves or creates the container, fetches data, and renders the dashboard.
func Init(ctx context.Context, doc *Document, opts Options) (*Dashboard, error) {
	if doc == nil {
		return nil, errMissingDocument
	}
	d := newDashboard(ctx, doc, opts)
	var root *html.Node
	_ = doc.Update(func(tx *Tx) error {
		root = tx.GetElementByID(d.opts.ContainerID)
		if root == nil {
			root = d.builder.El("div", Attrs{
				"id":    d.opts.ContainerID,
				"style": Style{"maxWidth": "1100px", "margin": "12px auto"},
			})
			tx.Append(tx.Body(), root)
		}
		return nil
	})
	d.mu.Lock()
	d.root = root
	d.mu.Unlock()

	data := d.opts.Source.Fetch(ctx)
	if err := d.render(ctx, root, data, "init"); err != nil {
		return d, err
	}
	return d, nil
}

// AutoInit initializes the dashboard as soon as the document is interactive: right
// away when it already is, otherwise once the document is marked ready. done receives
// the result and may be nil.
func AutoInit(ctx context.Context, doc *Document, opts Options, done func(*Dashboard, error)) {
	if doc == nil {
		if done != nil {
			done(nil, errMissingDocument)
		}
		return
	}
	doc.OnReady(func() {
		d, err := Init(ctx, doc, opts)
		if done != nil {
			done(d, err)
		}
	})
}

// Render replaces the container content with a dashboard built from data.
func (d *Dashboard) Render(ctx context.Context, root *html.Node, data DashboardData) error {
	return d.render(ctx, root, data, "render")
}

// Refresh shows a loading marker, fetches fresh data, and re-renders in place.
// Overlapping refreshes are not serialized; the last render wins.
func (d *Dashboard) Refresh(ctx context.Context, root *html.Node) error {
	if root == nil {
		return errMissingContainer
	}
	labels := NewLabels(d.opts.Translator, d.opts.Locale)
	loading := d.builder.El("div", Attrs{"class": "dsb-loading"}, labels.Get(ctx, "dashboard.loading"))
	_ = d.doc.Update(func(tx *Tx) error {
		tx.Append(root, loading)
		return nil
	})
	d.setState(StateRefreshing)

	data := d.opts.Source.Fetch(ctx)

	_ = d.doc.Update(func(tx *Tx) error {
		tx.Remove(loading)
		return nil
	})
	return d.render(ctx, root, data, "refresh")
}

func (d *Dashboard) render(ctx context.Context, root *html.Node, data DashboardData, reason string) error {
	if root == nil {
		return errMissingContainer
	}
	labels := NewLabels(d.opts.Translator, d.opts.Locale)
	views := NewViews(d.builder, labels)
	b := d.builder

	header := b.El("div", Attrs{"class": "dsb-actions"},
		b.El("h2", Attrs{"style": Style{"margin": "0", "fontSize": "18px", "fontWeight": 600}}, labels.Get(ctx, "dashboard.title")),
		b.El("div", Attrs{"style": Style{"flex": "1 1 auto"}}),
		b.El("button", Attrs{
			"class": "dsb-btn",
			"type":  "button",
			"onClick": Listener(func(ctx context.Context) error {
				return d.Refresh(ctx, root)
			}),
		}, labels.Get(ctx, "dashboard.actions.refresh")),
	)
	main := b.El("div", Attrs{"class": "dsb-main"},
		b.El("div", Attrs{"class": "dsb-charts"},
			views.SalesChart(ctx, data.SalesSeries),
			views.Stats(ctx, data.Totals),
		),
		b.El("div", nil,
			views.CategoryChart(ctx, data.Categories),
			views.RecentOrders(ctx, data.RecentOrders),
		),
	)

	_ = d.doc.Update(func(tx *Tx) error {
		tx.Clear(root)
		addClass(root, "dsb-container")
		InjectStyles(tx, b, d.opts.Theme)
		tx.Append(root, header, main)
		d.draw(ctx, tx, data)
		tx.PruneListeners()
		return nil
	})

	d.mu.Lock()
	d.root = root
	d.state = StateRendered
	d.last = data.Clone()
	d.hasData = true
	d.mu.Unlock()

	event := RenderEvent{
		ID:         uuid.NewString(),
		Container:  d.opts.ContainerID,
		Reason:     reason,
		Orders:     len(data.RecentOrders),
		RenderedAt: time.Now().UTC(),
	}
	if err := d.opts.RefreshHook.DashboardRendered(ctx, event); err != nil {
		return err
	}
	d.opts.Telemetry.Record(ctx, "dashboard.render", map[string]any{
		"container": d.opts.ContainerID,
		"reason":    reason,
		"render_id": event.ID,
	})
	return nil
}

// draw runs in the transaction that inserted the surfaces, so a concurrent render
// cannot swap the table under the charts. A failing chart library degrades to the
// vector renderer.
func (d *Dashboard) draw(ctx context.Context, tx *Tx, data DashboardData) {
	if err := d.opts.Charts.DrawLine(tx, SalesSurfaceID, data.SalesSeries); err != nil {
		d.opts.Telemetry.Record(ctx, "dashboard.chart.fallback", map[string]any{"chart": "line", "error": err.Error()})
		_ = d.fallback.DrawLine(tx, SalesSurfaceID, data.SalesSeries)
	}
	if err := d.opts.Charts.DrawDonut(tx, CategorySurfaceID, data.Categories); err != nil {
		d.opts.Telemetry.Record(ctx, "dashboard.chart.fallback", map[string]any{"chart": "donut", "error": err.Error()})
		_ = d.fallback.DrawDonut(tx, CategorySurfaceID, data.Categories)
	}
}

// Root returns the container element.
func (d *Dashboard) Root() *html.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.root
}

// Document returns the document the dashboard renders into.
func (d *Dashboard) Document() *Document {
	return d.doc
}

// ContainerID returns the id of the container element.
func (d *Dashboard) ContainerID() string {
	return d.opts.ContainerID
}

// State reports the lifecycle state.
func (d *Dashboard) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// LastData returns a copy of the data of the latest render.
func (d *Dashboard) LastData() (DashboardData, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.hasData {
		return DashboardData{}, false
	}
	return d.last.Clone(), true
}

func (d *Dashboard) setState(state State) {
	d.mu.Lock()
	d.state = state
	d.mu.Unlock()
}

func addClass(node *html.Node, class string) {
	current, _ := attr(node, "class")
	for _, c := range strings.Fields(current) {
		if c == class {
			return
		}
	}
	setAttr(node, "class", strings.TrimSpace(current+" "+class))
}

type noopRefreshHook struct{}

func (noopRefreshHook) DashboardRendered(context.Context, RenderEvent) error {
	return nil
}
