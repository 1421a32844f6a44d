package report

import (
	"fmt"
	"image/color"

	"wasmbench/domain/model"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	markerColor = color.RGBA{B: 255, A: 255}
	errorColor  = color.Black
	accentColor = color.RGBA{R: 255, A: 255}
)

// CoefficientPoint is one marker of a coefficient chart. Y is the axis
// position, the largest estimate has the highest Y.
type CoefficientPoint struct {
	Label    string
	Estimate float64
	Low      float64
	High     float64
	Code     string
	Y        float64
}

// CoefficientChart is an estimate plot with confidence-interval error bars
type CoefficientChart struct {
	Response string
	Points   []CoefficientPoint
}

// NewCoefficientChart lays records out top to bottom in the given order.
// Records are expected sorted by descending estimate.
func NewCoefficientChart(response string, records []model.CoefficientRecord) *CoefficientChart {
	n := len(records)
	chart := &CoefficientChart{Response: response, Points: make([]CoefficientPoint, n)}
	for i, r := range records {
		chart.Points[i] = CoefficientPoint{
			Label:    r.Name,
			Estimate: r.Estimate,
			Low:      r.ConfLow,
			High:     r.ConfHigh,
			Code:     r.Code,
			Y:        float64(n - 1 - i),
		}
	}
	return chart
}

// Title returns the page title
func (c *CoefficientChart) Title() string {
	return "Coefficients for " + c.Response
}

// coefficientXYs adapts the points to plotter.XYer and plotter.XErrorer
type coefficientXYs []CoefficientPoint

func (c coefficientXYs) Len() int                        { return len(c) }
func (c coefficientXYs) XY(i int) (float64, float64)     { return c[i].Estimate, c[i].Y }
func (c coefficientXYs) XError(i int) (float64, float64) { return c[i].Estimate - c[i].Low, c[i].High - c[i].Estimate }

// Plot renders the markers, horizontal error bars, a dashed zero line and
// the significance codes
func (c *CoefficientChart) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = c.Title()
	p.X.Label.Text = "Estimate"
	p.Y.Label.Text = "Predictor"
	p.Add(plotter.NewGrid())

	n := len(c.Points)
	if n == 0 {
		return p, nil
	}
	pts := coefficientXYs(c.Points)

	bars, err := plotter.NewXErrorBars(pts)
	if err != nil {
		return nil, fmt.Errorf("error bars for %s: %w", c.Response, err)
	}
	bars.LineStyle.Color = errorColor
	bars.CapWidth = vg.Points(6)

	markers, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("markers for %s: %w", c.Response, err)
	}
	markers.GlyphStyle.Color = markerColor
	markers.GlyphStyle.Shape = draw.CircleGlyph{}
	markers.GlyphStyle.Radius = vg.Points(3)

	zero, err := plotter.NewLine(plotter.XYs{{X: 0, Y: -0.5}, {X: 0, Y: float64(n) - 0.5}})
	if err != nil {
		return nil, err
	}
	zero.LineStyle.Color = accentColor
	zero.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}

	codes := plotter.XYLabels{XYs: make(plotter.XYs, n), Labels: make([]string, n)}
	for i, pt := range c.Points {
		codes.XYs[i] = plotter.XY{X: pt.Estimate, Y: pt.Y + 0.1}
		codes.Labels[i] = pt.Code
	}
	labels, err := plotter.NewLabels(codes)
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Color = accentColor
	}

	p.Add(zero, bars, markers, labels)

	names := make([]string, n)
	for _, pt := range c.Points {
		names[int(pt.Y)] = pt.Label
	}
	p.NominalY(names...)
	return p, nil
}
