package plot

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/edalens/internal/stats"
	"github.com/KaramelBytes/edalens/internal/utils"
)

// kdePoints is the number of grid points the density curve is evaluated at.
const kdePoints = 200

var (
	barStroke = drawing.Color{R: 0, G: 0, B: 255, A: 255}
	barFill   = drawing.Color{R: 0, G: 0, B: 255, A: 96}
)

// histogram renders counts of vals over equal-width bins with a Gaussian
// density curve scaled to the same count axis.
func (r *Renderer) histogram(path, title, column string, vals []float64) error {
	w, h := r.size()
	if len(vals) == 0 {
		return writePNG(path, placeholder(w, h, title, "no observed values"))
	}
	edges, counts := stats.Histogram(vals, r.bins())
	xs, ys := stepSeries(edges, counts)
	maxY := 0.0
	for _, y := range ys {
		maxY = math.Max(maxY, y)
	}
	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "count",
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: barStroke, StrokeWidth: 1, FillColor: barFill},
		},
	}
	lo, hi := edges[0], edges[len(edges)-1]
	if bw := stats.ScottBandwidth(vals); bw > 0 {
		grid := stats.Linspace(lo, hi, kdePoints)
		dens := stats.GaussianKDE(vals, grid, bw)
		scale := float64(len(vals)) * (edges[1] - edges[0])
		for i := range dens {
			dens[i] *= scale
			maxY = math.Max(maxY, dens[i])
		}
		series = append(series, chart.ContinuousSeries{
			Name:    "density",
			XValues: grid,
			YValues: dens,
			Style:   chart.Style{StrokeColor: barStroke, StrokeWidth: 2},
		})
	}

	ch := chart.Chart{
		Title:      title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           column,
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: tickLabel,
		},
		YAxis: chart.YAxis{
			Name:           "Count",
			Range:          &chart.ContinuousRange{Min: 0, Max: maxY * 1.05},
			ValueFormatter: tickLabel,
		},
		Series: series,
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// stepSeries traces the outline of the bars so a filled line series draws
// them as adjacent rectangles.
func stepSeries(edges []float64, counts []int) (xs, ys []float64) {
	xs = make([]float64, 0, 2*len(edges))
	ys = make([]float64, 0, 2*len(edges))
	xs = append(xs, edges[0])
	ys = append(ys, 0)
	for i, c := range counts {
		xs = append(xs, edges[i], edges[i+1])
		ys = append(ys, float64(c), float64(c))
	}
	xs = append(xs, edges[len(edges)-1])
	ys = append(ys, 0)
	return xs, ys
}

func tickLabel(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprint(v)
	}
	return strconv.FormatFloat(f, 'g', 4, 64)
}
