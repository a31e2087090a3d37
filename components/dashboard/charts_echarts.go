package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/goodsign/monday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// envEChartsCDN overrides the assets host the echarts runtime is loaded from.
const envEChartsCDN = "GO_DASHBOARD_ECHARTS_CDN"

var sharedChartCache = NewChartCache(5 * time.Minute)

// EChartsCharts draws charts with go-echarts. The rendered chart markup replaces the
// drawing surface.
type EChartsCharts struct {
	cache      RenderCache
	theme      string
	assetsHost string
	locale     monday.Locale
	seriesName string
}

// EChartsOption customizes the echarts renderer.
type EChartsOption func(*EChartsCharts)

// WithChartCache injects a render cache. A nil cache disables memoization.
func WithChartCache(cache RenderCache) EChartsOption {
	return func(c *EChartsCharts) {
		c.cache = cache
	}
}

// WithChartTheme sets the echarts theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsOption {
	return func(c *EChartsCharts) {
		c.theme = theme
	}
}

// WithChartAssetsHost rewrites the host the echarts runtime is loaded from.
func WithChartAssetsHost(host string) EChartsOption {
	return func(c *EChartsCharts) {
		c.assetsHost = host
	}
}

// WithChartLocale sets the locale used for date labels.
func WithChartLocale(locale monday.Locale) EChartsOption {
	return func(c *EChartsCharts) {
		c.locale = locale
	}
}

// WithSeriesName sets the legend/tooltip name of the sales series.
func WithSeriesName(name string) EChartsOption {
	return func(c *EChartsCharts) {
		c.seriesName = name
	}
}

// WithSeriesLabel returns a copy of the renderer using name for the sales series.
// The copy shares the render cache.
func (c *EChartsCharts) WithSeriesLabel(name string) ChartRenderer {
	if name == "" || name == c.seriesName {
		return c
	}
	clone := *c
	WithSeriesName(name)(&clone)
	return &clone
}

// NewEChartsCharts builds the library-backed chart renderer.
func NewEChartsCharts(options ...EChartsOption) *EChartsCharts {
	c := &EChartsCharts{
		cache:      sharedChartCache,
		theme:      DefaultTheme().ChartTheme,
		assetsHost: DefaultEChartsAssetsHost(),
		locale:     monday.LocaleEnUS,
		seriesName: "Sales",
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// DefaultEChartsAssetsHost returns the assets host from GO_DASHBOARD_ECHARTS_CDN, or
// empty to keep the go-echarts default.
func DefaultEChartsAssetsHost() string {
	return ensureTrailingSlash(strings.TrimSpace(os.Getenv(envEChartsCDN)))
}

// DrawLine renders the sales series as an echarts line chart.
func (c *EChartsCharts) DrawLine(tx *Tx, surfaceID string, series []SalesPoint) error {
	surface := tx.GetElementByID(surfaceID)
	if surface == nil {
		return nil
	}
	height := attrInt(surface, "height", salesSurfaceHeight)
	key := c.cacheKey("line", surfaceID, height, series)
	markup, err := c.renderCached(key, func() (string, error) {
		return c.renderLine(surfaceID, height, series)
	})
	if err != nil {
		return fmt.Errorf("dashboard: render line chart: %w", err)
	}
	return c.swap(tx, surface, markup)
}

// DrawDonut renders the categories as an echarts donut chart.
func (c *EChartsCharts) DrawDonut(tx *Tx, surfaceID string, categories []CategoryShare) error {
	surface := tx.GetElementByID(surfaceID)
	if surface == nil {
		return nil
	}
	height := attrInt(surface, "height", categorySurfaceHeight)
	key := c.cacheKey("donut", surfaceID, height, categories)
	markup, err := c.renderCached(key, func() (string, error) {
		return c.renderDonut(surfaceID, height, categories)
	})
	if err != nil {
		return fmt.Errorf("dashboard: render donut chart: %w", err)
	}
	return c.swap(tx, surface, markup)
}

// cacheKey covers every input that changes the rendered markup.
func (c *EChartsCharts) cacheKey(kind, surfaceID string, height int, data any) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s:%d:%s", kind, surfaceID, c.theme, c.locale, c.seriesName, height, dataHash(data))
}

func (c *EChartsCharts) renderCached(key string, render func() (string, error)) (string, error) {
	if c.cache == nil {
		return render()
	}
	return c.cache.GetOrRender(key, render)
}

func (c *EChartsCharts) renderLine(surfaceID string, height int, series []SalesPoint) (string, error) {
	labels := make([]string, len(series))
	data := make([]opts.LineData, len(series))
	for i, point := range series {
		labels[i] = FormatDateLabel(point.Date, c.locale)
		data[i] = opts.LineData{Name: labels[i], Value: point.Value}
	}
	line := charts.NewLine()
	line.SetGlobalOptions(c.globalOptions(surfaceID, height, false)...)
	line.SetXAxis(labels).AddSeries(c.seriesName, data,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: lineColor}),
	)
	return renderChart(line)
}

func (c *EChartsCharts) renderDonut(surfaceID string, height int, categories []CategoryShare) (string, error) {
	data := make([]opts.PieData, len(categories))
	for i, cat := range categories {
		data[i] = opts.PieData{
			Name:      cat.Name,
			Value:     cat.Value,
			ItemStyle: &opts.ItemStyle{Color: PaletteColor(i)},
		}
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(c.globalOptions(surfaceID, height, true)...)
	pie.AddSeries("categories", data,
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
	)
	return renderChart(pie)
}

func (c *EChartsCharts) globalOptions(surfaceID string, height int, legend bool) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		ChartID: surfaceID + "-echarts",
		Theme:   c.theme,
		Width:   "100%",
		Height:  fmt.Sprintf("%dpx", height),
	}
	if c.assetsHost != "" {
		initOpts.AssetsHost = c.assetsHost
	}
	legendOpts := opts.Legend{Show: opts.Bool(legend)}
	if legend {
		legendOpts.Bottom = "0"
	}
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(legendOpts),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// swap replaces the surface with the chart page's asset scripts and body content.
func (c *EChartsCharts) swap(tx *Tx, surface *html.Node, markup string) error {
	fragment, err := chartFragment(markup)
	if err != nil {
		return err
	}
	tx.Replace(surface, fragment)
	return nil
}

func chartFragment(markup string) (*html.Node, error) {
	page, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("dashboard: parse chart markup: %w", err)
	}
	wrapper := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "class", Val: "dsb-echarts"}},
	}
	var moved []*html.Node
	if head := findFirst(page, atom.Head); head != nil {
		for n := head.FirstChild; n != nil; n = n.NextSibling {
			if _, ok := attr(n, "src"); ok && n.DataAtom == atom.Script {
				moved = append(moved, n)
			}
		}
	}
	if body := findFirst(page, atom.Body); body != nil {
		for n := body.FirstChild; n != nil; n = n.NextSibling {
			moved = append(moved, n)
		}
	}
	for _, n := range moved {
		detach(n)
		wrapper.AppendChild(n)
	}
	return wrapper, nil
}

func ensureTrailingSlash(value string) string {
	if value == "" {
		return ""
	}
	if strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}
