package app

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wasmbench/adapters/tabular"
	"wasmbench/domain/core"
	"wasmbench/domain/dataset"
	"wasmbench/domain/model"
	"wasmbench/internal"
	"wasmbench/internal/analysis"
	"wasmbench/internal/config"
	"wasmbench/internal/errors"
	"wasmbench/internal/testkit"
	"wasmbench/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockFitter fails on configured formulas and fits the rest for real
type MockFitter struct {
	mock.Mock
	real *analysis.Fitter
}

func (m *MockFitter) Fit(ctx context.Context, f model.Formula, table *dataset.Table) (*model.FitResult, error) {
	args := m.Called(ctx, f, table)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	return m.real.Fit(ctx, f, table)
}

type countingFactory struct {
	calls int
}

func (c *countingFactory) open(path string) (ports.DocumentPort, error) {
	c.calls++
	return NewPDFDocument(path)
}

func quietLogger() *internal.Logger {
	return internal.NewLoggerTo(io.Discard, internal.LogLevelError)
}

func writeBenchmark(t *testing.T, cfg testkit.BenchmarkGeneratorConfig) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, testkit.NewBenchmarkDataGenerator(cfg).WriteCSV(path))
	return path
}

func newService(fitter ports.ModelFitterPort, factory ports.DocumentFactory, out io.Writer) *ReportService {
	logger := quietLogger()
	return NewReportService(tabular.NewDataReader(logger), fitter, factory, logger, out)
}

func TestRunCanonicalReport(t *testing.T) {
	input := writeBenchmark(t, testkit.DefaultBenchmarkConfig())
	output := filepath.Join(t.TempDir(), "plots.pdf")
	var console bytes.Buffer

	svc := newService(analysis.NewFitter(quietLogger()), NewPDFDocument, &console)
	result, err := svc.Run(context.Background(), ReportRequest{InputFile: input, OutputFile: output})
	require.NoError(t, err)

	assert.Equal(t, 11, result.Pages)
	assert.Equal(t, 6, result.ScatterPages)
	assert.False(t, result.RunID == "")
	require.Len(t, result.Responses, 5)

	// opt_level 3 + wasm_opt 5 + lto 3 + three binary options, one level each as baseline
	for _, r := range result.Responses {
		assert.NoError(t, r.Err)
		assert.Equal(t, 2+4+2+1+1+1, r.Markers, r.Response)
	}
	assert.Equal(t, "frame_time", result.Responses[0].Response)
	assert.Equal(t, "total_build_time", result.Responses[4].Response)

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	out := console.String()
	assert.Contains(t, out, "Formula: frame_time ~ C(opt_level, Treatment('Three')) + C(wasm_opt, Treatment('None'))")
	assert.Contains(t, out, "Model summary for total_build_time:")
	assert.Contains(t, out, `strip levels: ["DebugInfo" "None"]`)
	assert.Contains(t, out, "Saved to "+output+".")
}

func TestRunTwoPredictorReport(t *testing.T) {
	cfg := testkit.DefaultBenchmarkConfig()
	cfg.Columns = []string{"opt_level", "lto"}
	input := writeBenchmark(t, cfg)
	output := filepath.Join(t.TempDir(), "plots.pdf")

	plan := config.DefaultAnalysis()
	plan.Predictors = []string{"opt_level", "lto"}
	plan.Responses = []string{"frame_time"}

	svc := newService(analysis.NewFitter(quietLogger()), NewPDFDocument, io.Discard)
	result, err := svc.Run(context.Background(), ReportRequest{InputFile: input, OutputFile: output, Analysis: plan})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Pages)
	require.Len(t, result.Responses, 1)
	assert.Equal(t, (3-1)+(3-1), result.Responses[0].Markers)
}

func TestRunRankDeficientIsFatal(t *testing.T) {
	cfg := testkit.DefaultBenchmarkConfig()
	cfg.Columns = []string{"opt_level", "lto"} // strip, panic, ... have one level
	input := writeBenchmark(t, cfg)
	output := filepath.Join(t.TempDir(), "plots.pdf")

	svc := newService(analysis.NewFitter(quietLogger()), NewPDFDocument, io.Discard)
	_, err := svc.Run(context.Background(), ReportRequest{InputFile: input, OutputFile: output})
	require.Error(t, err)

	assert.ErrorIs(t, err, core.ErrRankDeficient)
	assert.Equal(t, errors.CodeRankDeficient, errors.GetCode(err))
	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no report is left behind")
}

func TestRunKeepPartial(t *testing.T) {
	cfg := testkit.DefaultBenchmarkConfig()
	cfg.Columns = []string{"opt_level", "lto"}
	input := writeBenchmark(t, cfg)
	output := filepath.Join(t.TempDir(), "plots.pdf")

	svc := newService(analysis.NewFitter(quietLogger()), NewPDFDocument, io.Discard)
	_, err := svc.Run(context.Background(), ReportRequest{InputFile: input, OutputFile: output, KeepPartial: true})
	require.Error(t, err)

	raw, readErr := os.ReadFile(output)
	require.NoError(t, readErr, "scatter pages are kept")
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestRunContinueOnError(t *testing.T) {
	input := writeBenchmark(t, testkit.DefaultBenchmarkConfig())
	output := filepath.Join(t.TempDir(), "plots.pdf")

	fitter := &MockFitter{real: analysis.NewFitter(quietLogger())}
	failure := core.NewRankDeficientError("injected")
	fitter.On("Fit", mock.Anything, mock.MatchedBy(func(f model.Formula) bool {
		return f.Response == "size_gzipped"
	}), mock.Anything).Return(nil, failure)
	fitter.On("Fit", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	svc := newService(fitter, NewPDFDocument, io.Discard)
	result, err := svc.Run(context.Background(), ReportRequest{InputFile: input, OutputFile: output, ContinueOnError: true})
	require.NoError(t, err)

	assert.Equal(t, 10, result.Pages)
	require.Len(t, result.Responses, 5)
	assert.ErrorIs(t, result.Responses[1].Err, core.ErrRankDeficient)
	assert.Zero(t, result.Responses[1].Markers)
	fitter.AssertNumberOfCalls(t, "Fit", 5)
}

func TestRunMissingInputWritesNothing(t *testing.T) {
	output := filepath.Join(t.TempDir(), "plots.pdf")
	factory := &countingFactory{}

	svc := newService(analysis.NewFitter(quietLogger()), factory.open, io.Discard)
	_, err := svc.Run(context.Background(), ReportRequest{
		InputFile:  filepath.Join(t.TempDir(), "absent.csv"),
		OutputFile: output,
	})
	require.Error(t, err)

	assert.True(t, stderrors.Is(err, core.ErrInputNotFound))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	assert.Zero(t, factory.calls)
}

func TestRunMissingColumnIsFatal(t *testing.T) {
	input := writeBenchmark(t, testkit.DefaultBenchmarkConfig())
	output := filepath.Join(t.TempDir(), "plots.pdf")

	plan := config.DefaultAnalysis()
	plan.Schema.Columns = append(plan.Schema.Columns, dataset.ColumnSpec{Name: "peak_memory", Kind: dataset.KindNumeric})
	plan.Responses = append(plan.Responses, "peak_memory")

	svc := newService(analysis.NewFitter(quietLogger()), NewPDFDocument, io.Discard)
	_, err := svc.Run(context.Background(), ReportRequest{InputFile: input, OutputFile: output, Analysis: plan})
	require.Error(t, err)

	assert.ErrorIs(t, err, core.ErrMissingColumn)
	assert.Equal(t, errors.CodeMissingColumn, errors.GetCode(err))
}

func TestRunCancelled(t *testing.T) {
	input := writeBenchmark(t, testkit.DefaultBenchmarkConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newService(analysis.NewFitter(quietLogger()), NewPDFDocument, io.Discard)
	_, err := svc.Run(ctx, ReportRequest{InputFile: input, OutputFile: filepath.Join(t.TempDir(), "plots.pdf")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunLogLinesCarryRunID(t *testing.T) {
	input := writeBenchmark(t, testkit.DefaultBenchmarkConfig())
	var logs bytes.Buffer
	logger := internal.NewLoggerTo(&logs, internal.LogLevelTrace)

	svc := NewReportService(tabular.NewDataReader(logger), analysis.NewFitter(logger), NewPDFDocument, logger, io.Discard)
	_, err := svc.Run(context.Background(), ReportRequest{
		InputFile:  input,
		OutputFile: filepath.Join(t.TempDir(), "plots.pdf"),
		RunID:      core.RunID("0192f3aa-1b2c-7d3e-8f40-5a6b7c8d9e0f"),
	})
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "[DataReader] Loaded")
	assert.Contains(t, out, "[Fitter] frame_time: design matrix")
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		assert.Contains(t, line, "[run=0192f3aa]", line)
	}
}

func TestRunFormulaOverride(t *testing.T) {
	input := writeBenchmark(t, testkit.DefaultBenchmarkConfig())
	plan := config.DefaultAnalysis()
	plan.Formulas = map[string]string{
		dataset.ColFrameTime: "frame_time ~ C(lto, Treatment('Fat')) + C(panic)",
	}
	var console bytes.Buffer

	svc := newService(analysis.NewFitter(quietLogger()), NewPDFDocument, &console)
	result, err := svc.Run(context.Background(), ReportRequest{
		InputFile:  input,
		OutputFile: filepath.Join(t.TempDir(), "plots.pdf"),
		Analysis:   plan,
	})
	require.NoError(t, err)

	require.Len(t, result.Responses, 5)
	assert.Equal(t, "frame_time ~ C(lto, Treatment('Fat')) + C(panic)", result.Responses[0].Formula)
	assert.Equal(t, 2+1, result.Responses[0].Markers)
	assert.Equal(t, 2+4+2+1+1+1, result.Responses[1].Markers, "other responses keep the generated model")
	assert.Contains(t, console.String(), "Formula: frame_time ~ C(lto, Treatment('Fat')) + C(panic)")
}
