package report

import (
	"fmt"

	"wasmbench/domain/dataset"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Axis labels of the scatter pages, keyed by column
var axisLabels = map[string]string{
	dataset.ColSizeGzipped: "Gzipped Size (bytes)",
	dataset.ColFrameTime:   "Frame Time (ms)",
}

func axisLabel(column string) string {
	if label, ok := axisLabels[column]; ok {
		return label
	}
	return column
}

// ScatterSeries is the points of one level of the colouring column
type ScatterSeries struct {
	Level  string
	Points plotter.XYs
}

// ScatterChart is a scatter of two numeric columns grouped by a categorical one
type ScatterChart struct {
	X, Y    string
	ColorBy string
	Series  []ScatterSeries
}

// NewScatterChart groups the rows of table by the levels of colorBy
func NewScatterChart(table *dataset.Table, x, y, colorBy string) (*ScatterChart, error) {
	xs, err := table.Numeric(x)
	if err != nil {
		return nil, err
	}
	ys, err := table.Numeric(y)
	if err != nil {
		return nil, err
	}
	groups, err := table.Categorical(colorBy)
	if err != nil {
		return nil, err
	}
	levels, err := table.Levels(colorBy)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(levels))
	chart := &ScatterChart{X: x, Y: y, ColorBy: colorBy, Series: make([]ScatterSeries, len(levels))}
	for i, lvl := range levels {
		index[lvl] = i
		chart.Series[i].Level = lvl
	}
	for i, g := range groups {
		s := &chart.Series[index[g]]
		s.Points = append(s.Points, plotter.XY{X: xs[i], Y: ys[i]})
	}
	return chart, nil
}

// Title returns the page title
func (c *ScatterChart) Title() string {
	return fmt.Sprintf("%s vs. %s colored by %s", c.X, c.Y, c.ColorBy)
}

// Plot renders the chart with one colour per level and a legend headed by
// the colouring column
func (c *ScatterChart) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title()
	p.X.Label.Text = axisLabel(c.X)
	p.Y.Label.Text = axisLabel(c.Y)
	p.Add(plotter.NewGrid())

	p.Legend.Top = true
	p.Legend.Add(c.ColorBy)
	for i, series := range c.Series {
		s, err := plotter.NewScatter(series.Points)
		if err != nil {
			return nil, fmt.Errorf("scatter series %s=%s: %w", c.ColorBy, series.Level, err)
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(s)
		p.Legend.Add(series.Level, s)
	}
	return p, nil
}
