package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"wasmbench/domain/core"
	"wasmbench/domain/dataset"
	"wasmbench/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scatterTable(t *testing.T) *dataset.Table {
	t.Helper()
	table := dataset.NewTable(5)
	require.NoError(t, table.SetNumeric("size_gzipped", []float64{100, 200, 300, 400, 500}))
	require.NoError(t, table.SetNumeric("frame_time", []float64{16, 15, 14, 13, 12}))
	require.NoError(t, table.SetCategorical("lto", []string{"Off", "Fat", "Off", "Thin", "Fat"}))
	return table
}

func sampleRecords() []model.CoefficientRecord {
	return []model.CoefficientRecord{
		{Name: "opt_level S", Estimate: 0.5, ConfLow: 0.2, ConfHigh: 0.8, Code: "**"},
		{Name: "lto Thin", Estimate: 0.2, ConfLow: -0.1, ConfHigh: 0.5, Code: " "},
		{Name: "panic Abort", Estimate: -0.1, ConfLow: -0.3, ConfHigh: 0.1, Code: "."},
	}
}

func TestNewScatterChart(t *testing.T) {
	chart, err := NewScatterChart(scatterTable(t), "size_gzipped", "frame_time", "lto")
	require.NoError(t, err)

	assert.Equal(t, "size_gzipped vs. frame_time colored by lto", chart.Title())
	require.Len(t, chart.Series, 3)
	assert.Equal(t, "Fat", chart.Series[0].Level)
	assert.Len(t, chart.Series[0].Points, 2)
	assert.Equal(t, "Off", chart.Series[1].Level)
	assert.Len(t, chart.Series[1].Points, 2)
	assert.Equal(t, "Thin", chart.Series[2].Level)
	assert.Equal(t, 400.0, chart.Series[2].Points[0].X)
	assert.Equal(t, 13.0, chart.Series[2].Points[0].Y)

	p, err := chart.Plot()
	require.NoError(t, err)
	assert.Equal(t, "Gzipped Size (bytes)", p.X.Label.Text)
	assert.Equal(t, "Frame Time (ms)", p.Y.Label.Text)
}

func TestNewScatterChartMissingColumn(t *testing.T) {
	_, err := NewScatterChart(scatterTable(t), "size_gzipped", "frame_time", "panic")
	assert.ErrorIs(t, err, core.ErrMissingColumn)
}

func TestNewCoefficientChart(t *testing.T) {
	chart := NewCoefficientChart("frame_time", sampleRecords())

	assert.Equal(t, "Coefficients for frame_time", chart.Title())
	require.Len(t, chart.Points, 3)
	// largest estimate on top
	assert.Equal(t, "opt_level S", chart.Points[0].Label)
	assert.Equal(t, 2.0, chart.Points[0].Y)
	assert.Equal(t, 0.0, chart.Points[2].Y)

	x, y := coefficientXYs(chart.Points).XY(1)
	assert.Equal(t, 0.2, x)
	assert.Equal(t, 1.0, y)
	low, high := coefficientXYs(chart.Points).XError(0)
	assert.InDelta(t, 0.3, low, 1e-12)
	assert.InDelta(t, 0.3, high, 1e-12)

	p, err := chart.Plot()
	require.NoError(t, err)
	assert.Equal(t, "Estimate", p.X.Label.Text)
	assert.Equal(t, "Predictor", p.Y.Label.Text)
	assert.LessOrEqual(t, p.X.Min, 0.0, "zero reference line is in range")
}

func TestCoefficientChartEmpty(t *testing.T) {
	p, err := NewCoefficientChart("frame_time", nil).Plot()
	require.NoError(t, err)
	assert.Equal(t, "Coefficients for frame_time", p.Title.Text)
}

func TestDocumentWritesAllPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plots.pdf")
	doc, err := Create(path)
	require.NoError(t, err)

	scatter, err := NewScatterChart(scatterTable(t), "size_gzipped", "frame_time", "lto")
	require.NoError(t, err)
	sp, err := scatter.Plot()
	require.NoError(t, err)
	cp, err := NewCoefficientChart("frame_time", sampleRecords()).Plot()
	require.NoError(t, err)

	require.NoError(t, doc.AddPage(sp))
	require.NoError(t, doc.AddPage(cp))
	assert.Equal(t, 2, doc.Pages())

	require.NoError(t, doc.Close())
	require.NoError(t, doc.Close(), "second close is a no-op")
	assert.ErrorIs(t, doc.AddPage(sp), core.ErrDocumentClosed)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestDocumentAbortRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plots.pdf")
	doc, err := Create(path)
	require.NoError(t, err)

	cp, err := NewCoefficientChart("frame_time", sampleRecords()).Plot()
	require.NoError(t, err)
	require.NoError(t, doc.AddPage(cp))

	require.NoError(t, doc.Abort(false))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, doc.Close(), "close after abort is a no-op")
}

func TestDocumentAbortKeepPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plots.pdf")
	doc, err := Create(path)
	require.NoError(t, err)

	cp, err := NewCoefficientChart("frame_time", sampleRecords()).Plot()
	require.NoError(t, err)
	require.NoError(t, doc.AddPage(cp))

	require.NoError(t, doc.Abort(true))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestDocumentWriteFailureRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plots.pdf")
	doc, err := Create(path)
	require.NoError(t, err)

	cp, err := NewCoefficientChart("frame_time", sampleRecords()).Plot()
	require.NoError(t, err)
	require.NoError(t, doc.AddPage(cp))

	// every write to the underlying file now fails
	require.NoError(t, doc.file.Close())

	require.Error(t, doc.Close())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "truncated report is removed")

	require.NoError(t, doc.Abort(true), "abort after a failed close is a no-op")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCreateInMissingDirectory(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "nope", "plots.pdf"))
	assert.Error(t, err)
}
