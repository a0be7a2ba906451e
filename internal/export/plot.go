package export

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"exposuresim/internal/sim"
)

const plotSize = 800

// WritePlot renders final locations of cases and controls together with
// the sources as a PNG scatter plot.
func WritePlot(w io.Writer, res *sim.Result) error {
	var caseX, caseY, ctrlX, ctrlY, srcX, srcY []float64
	for _, p := range res.Individuals {
		loc := p.CurrentLocation()
		if p.IsCase() {
			caseX, caseY = append(caseX, loc[0]), append(caseY, loc[1])
		} else {
			ctrlX, ctrlY = append(ctrlX, loc[0]), append(ctrlY, loc[1])
		}
	}
	for _, s := range res.Sources {
		srcX, srcY = append(srcX, s.Pos[0]), append(srcY, s.Pos[1])
	}

	var series []chart.Series
	add := func(name string, xs, ys []float64, color drawing.Color, width float64) {
		if len(xs) == 0 {
			return
		}
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: width, DotColor: color},
		})
	}
	add(fmt.Sprintf("controls (%d)", res.Controls), ctrlX, ctrlY, chart.ColorBlue, 3)
	add(fmt.Sprintf("cases (%d)", res.Cases), caseX, caseY, chart.ColorRed, 3)
	add("sources", srcX, srcY, chart.ColorBlack, 8)

	graph := chart.Chart{
		Width:  plotSize,
		Height: plotSize,
		XAxis:  chart.XAxis{Name: "x"},
		YAxis:  chart.YAxis{Name: "y"},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering plot: %w", err)
	}
	return nil
}
