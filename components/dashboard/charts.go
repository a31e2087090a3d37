package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// CategoryPalette colors category slices; it cycles when there are more categories.
var CategoryPalette = []string{"#ef4444", "#f59e0b", "#10b981", "#3b82f6", "#8b5cf6", "#ec4899"}

const lineColor = "#3b82f6"

// PaletteColor returns the palette color for the i-th category.
func PaletteColor(i int) string {
	return CategoryPalette[i%len(CategoryPalette)]
}

// Point is a vertex of the fallback sparkline.
type Point struct {
	X float64
	Y float64
}

// SparklinePoints maps values onto a width x height box: x grows linearly with the
// index, y is the value normalized to the series min/max (top is the max). Single
// points and flat series use a divisor of 1.
func SparklinePoints(values []float64, width, height float64) []Point {
	if len(values) == 0 {
		return nil
	}
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	span := maxV - minV
	if span == 0 {
		span = 1
	}
	steps := float64(len(values) - 1)
	if steps == 0 {
		steps = 1
	}
	points := make([]Point, len(values))
	for i, v := range values {
		points[i] = Point{
			X: float64(i) / steps * width,
			Y: height - (v-minV)/span*height,
		}
	}
	return points
}

// CategoryPercentages returns each category's share of the total rounded to the
// nearest integer. A zero total is treated as 1.
func CategoryPercentages(categories []CategoryShare) []int {
	total := 0.0
	for _, c := range categories {
		total += c.Value
	}
	if total == 0 {
		total = 1
	}
	out := make([]int, len(categories))
	for i, c := range categories {
		out[i] = int(math.Round(c.Value / total * 100))
	}
	return out
}

// VectorCharts draws charts without a charting library: an SVG sparkline for the
// sales series and a text legend for categories.
type VectorCharts struct {
	b *Builder
}

// NewVectorCharts builds the fallback chart renderer.
func NewVectorCharts() *VectorCharts {
	return &VectorCharts{b: NewBuilder()}
}

// DrawLine replaces the surface with an SVG polyline sized like the surface.
func (c *VectorCharts) DrawLine(tx *Tx, surfaceID string, series []SalesPoint) error {
	surface := tx.GetElementByID(surfaceID)
	if surface == nil {
		return nil
	}
	width := attrInt(surface, "width", salesSurfaceWidth)
	height := attrInt(surface, "height", salesSurfaceHeight)
	tx.Replace(surface, c.sparkline(series, width, height))
	return nil
}

func (c *VectorCharts) sparkline(series []SalesPoint, width, height int) *html.Node {
	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Value
	}
	points := SparklinePoints(values, float64(width), float64(height))
	coords := make([]string, len(points))
	for i, p := range points {
		coords[i] = formatCoord(p.X) + "," + formatCoord(p.Y)
	}
	return c.b.El("svg", Attrs{
		"width":  strconv.Itoa(width),
		"height": strconv.Itoa(height),
		"xmlns":  "http://www.w3.org/2000/svg",
	}, c.b.El("polyline", Attrs{
		"points":          strings.Join(coords, " "),
		"fill":            "none",
		"stroke":          lineColor,
		"stroke-width":    "2",
		"stroke-linejoin": "round",
		"stroke-linecap":  "round",
	}))
}

// DrawDonut replaces the surface with a legend of colored swatches and percentages.
func (c *VectorCharts) DrawDonut(tx *Tx, surfaceID string, categories []CategoryShare) error {
	if surface := tx.GetElementByID(surfaceID); surface != nil {
		tx.Replace(surface, c.legend(categories))
	}
	return nil
}

func (c *VectorCharts) legend(categories []CategoryShare) *html.Node {
	percentages := CategoryPercentages(categories)
	rows := make([]*html.Node, len(categories))
	for i, cat := range categories {
		rows[i] = c.b.El("div", Attrs{"style": Style{
			"display":      "flex",
			"gap":          "8px",
			"alignItems":   "center",
			"marginBottom": "6px",
		}},
			c.b.El("span", Attrs{"style": Style{
				"width":        "12px",
				"height":       "12px",
				"background":   PaletteColor(i),
				"display":      "inline-block",
				"borderRadius": "2px",
			}}),
			c.b.El("span", nil, fmt.Sprintf("%s: %d%%", cat.Name, percentages[i])),
		)
	}
	return c.b.El("div", nil, c.b.El("div", nil, rows))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
