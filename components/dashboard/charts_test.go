package dashboard

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSparklinePoints(t *testing.T) {
	values := []float64{300, 450, 380, 520, 610, 480, 700}
	points := SparklinePoints(values, 600, 200)

	require.Len(t, points, 7)
	assert.Equal(t, Point{X: 0, Y: 200}, points[0])
	assert.Equal(t, Point{X: 600, Y: 0}, points[6])
	assert.InDelta(t, 100, points[1].X, 1e-9)
}

func TestSparklinePointsDegenerate(t *testing.T) {
	single := SparklinePoints([]float64{42}, 600, 200)
	require.Len(t, single, 1)
	assert.Equal(t, Point{X: 0, Y: 200}, single[0])

	flat := SparklinePoints([]float64{5, 5, 5}, 600, 200)
	for _, p := range flat {
		assert.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y))
		assert.Equal(t, float64(200), p.Y)
	}

	assert.Empty(t, SparklinePoints(nil, 600, 200))
}

func TestCategoryPercentages(t *testing.T) {
	assert.Equal(t, []int{40, 25, 20, 15}, CategoryPercentages(FallbackData().Categories))
	assert.Equal(t, []int{0, 0}, CategoryPercentages([]CategoryShare{{Name: "a"}, {Name: "b"}}))
	assert.Equal(t, []int{33, 67}, CategoryPercentages([]CategoryShare{{Name: "a", Value: 1}, {Name: "b", Value: 2}}))
}

func TestPaletteColorCycles(t *testing.T) {
	assert.Equal(t, PaletteColor(0), PaletteColor(len(CategoryPalette)))
	assert.Equal(t, "#f59e0b", PaletteColor(1))
}

func surfaceDocument(t *testing.T) *Document {
	t.Helper()
	doc := NewBlankDocument()
	views := NewViews(doc.Builder(), NewLabels(nil, "en"))
	require.NoError(t, doc.Update(func(tx *Tx) error {
		tx.Append(tx.Body(), views.SalesChart(t.Context(), nil), views.CategoryChart(t.Context(), nil))
		return nil
	}))
	return doc
}

func drawLine(t *testing.T, doc *Document, charts ChartRenderer, series []SalesPoint) error {
	t.Helper()
	return doc.Update(func(tx *Tx) error {
		return charts.DrawLine(tx, SalesSurfaceID, series)
	})
}

func drawDonut(t *testing.T, doc *Document, charts ChartRenderer, categories []CategoryShare) error {
	t.Helper()
	return doc.Update(func(tx *Tx) error {
		return charts.DrawDonut(tx, CategorySurfaceID, categories)
	})
}

func TestVectorChartsDrawLine(t *testing.T) {
	doc := surfaceDocument(t)
	require.NoError(t, drawLine(t, doc, NewVectorCharts(), FallbackData().SalesSeries))

	assert.Nil(t, doc.GetElementByID(SalesSurfaceID))
	out := doc.String()
	assert.Contains(t, out, `<svg height="200" width="600"`)
	assert.Contains(t, out, `points="0,200 `)
	assert.Contains(t, out, `600,0"`)
}

func TestVectorChartsDrawDonut(t *testing.T) {
	doc := surfaceDocument(t)
	require.NoError(t, drawDonut(t, doc, NewVectorCharts(), FallbackData().Categories))

	assert.Nil(t, doc.GetElementByID(CategorySurfaceID))
	out := doc.String()
	for _, label := range []string{"Fruits: 40%", "Vegetables: 25%", "Dairy: 20%", "Bakery: 15%"} {
		assert.Contains(t, out, label)
	}
	assert.Contains(t, out, "background:#ef4444")
}

func TestVectorChartsMissingSurface(t *testing.T) {
	doc := NewBlankDocument()
	charts := NewVectorCharts()
	before := doc.String()
	assert.NoError(t, drawLine(t, doc, charts, FallbackData().SalesSeries))
	assert.NoError(t, drawDonut(t, doc, charts, FallbackData().Categories))
	assert.Equal(t, before, doc.String())
}

func TestEChartsChartsDraw(t *testing.T) {
	doc := surfaceDocument(t)
	cache := NewChartCache(time.Minute)
	charts := NewEChartsCharts(WithChartCache(cache), WithChartAssetsHost("https://cdn.example.com/echarts/"))

	require.NoError(t, drawLine(t, doc, charts, FallbackData().SalesSeries))
	require.NoError(t, drawDonut(t, doc, charts, FallbackData().Categories))

	assert.Nil(t, doc.GetElementByID(SalesSurfaceID))
	assert.Nil(t, doc.GetElementByID(CategorySurfaceID))
	out := doc.String()
	assert.Equal(t, 2, strings.Count(out, `class="dsb-echarts"`))
	assert.Contains(t, out, "https://cdn.example.com/echarts/")
	assert.Contains(t, out, "Fruits")
	assert.Equal(t, 2, cache.Len())
}

func TestEChartsChartsUsesCache(t *testing.T) {
	cache := NewChartCache(time.Minute)
	charts := NewEChartsCharts(WithChartCache(cache))
	series := FallbackData().SalesSeries

	require.NoError(t, drawLine(t, surfaceDocument(t), charts, series))
	require.NoError(t, drawLine(t, surfaceDocument(t), charts, series))
	assert.Equal(t, 1, cache.Len())

	series[0].Value = 1
	require.NoError(t, drawLine(t, surfaceDocument(t), charts, series))
	assert.Equal(t, 2, cache.Len())
}

func TestEChartsChartsMissingSurface(t *testing.T) {
	cache := NewChartCache(time.Minute)
	charts := NewEChartsCharts(WithChartCache(cache))
	assert.NoError(t, drawLine(t, NewBlankDocument(), charts, FallbackData().SalesSeries))
	assert.Equal(t, 0, cache.Len())
}

func TestChartFragmentCollectsScriptsAndBody(t *testing.T) {
	page := `<html><head><script src="https://cdn/echarts.min.js"></script><title>x</title></head><body><div id="c"></div><script>init()</script></body></html>`
	fragment, err := chartFragment(page)
	require.NoError(t, err)

	out := renderNode(fragment)
	assert.Equal(t, `<div class="dsb-echarts"><script src="https://cdn/echarts.min.js"></script><div id="c"></div><script>init()</script></div>`, out)
}
