package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"wasmbench/adapters/report"
	"wasmbench/domain/core"
	"wasmbench/domain/dataset"
	"wasmbench/internal"
	"wasmbench/internal/analysis"
	"wasmbench/internal/config"
	"wasmbench/internal/errors"
	"wasmbench/ports"
)

// ReportService runs the load, fit and plot pipeline and writes the report
type ReportService struct {
	loader      ports.DatasetLoaderPort
	fitter      ports.ModelFitterPort
	newDocument ports.DocumentFactory
	logger      *internal.Logger
	out         io.Writer
}

// ReportRequest defines the inputs of one report run
type ReportRequest struct {
	InputFile  string
	OutputFile string
	Analysis   *config.Analysis
	// ContinueOnError skips responses whose model cannot be fitted
	ContinueOnError bool
	// KeepPartial writes the pages rendered so far when the run fails
	KeepPartial bool
	RunID       core.RunID // optional, will be generated if empty
}

// ResponseOutcome describes the coefficient page of one response
type ResponseOutcome struct {
	Response string
	Formula  string
	// Markers is the number of coefficients plotted, intercept excluded
	Markers int
	Err     error
}

// ReportResult contains the outcome of a run
type ReportResult struct {
	RunID        core.RunID
	OutputFile   string
	Pages        int
	ScatterPages int
	Responses    []ResponseOutcome
	RuntimeMs    int64
}

// NewReportService creates a report service. Console diagnostics (formulas
// and model summaries) are written to out.
func NewReportService(loader ports.DatasetLoaderPort, fitter ports.ModelFitterPort, newDocument ports.DocumentFactory, logger *internal.Logger, out io.Writer) *ReportService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ReportService{
		loader:      loader,
		fitter:      fitter,
		newDocument: newDocument,
		logger:      logger,
		out:         out,
	}
}

// Run executes the pipeline. The document is finalized exactly once on every
// exit path: closed on success, aborted on failure.
func (s *ReportService) Run(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	startTime := time.Now()

	runID := req.RunID
	if runID.IsEmpty() {
		runID = core.NewRunID()
	}
	logger := s.logger.With("run=" + runID.Short())
	ctx = internal.ContextWithLogger(ctx, logger)

	plan := req.Analysis
	if plan == nil {
		plan = config.DefaultAnalysis()
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	table, err := s.loader.Load(ctx, req.InputFile, plan.Schema)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load dataset %s", req.InputFile)
	}
	if err := s.writeOverview(table, plan); err != nil {
		return nil, errors.Wrap(err, "failed to summarize dataset")
	}

	doc, err := s.newDocument(req.OutputFile)
	if err != nil {
		return nil, errors.RenderError("failed to open report", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if abortErr := doc.Abort(req.KeepPartial); abortErr != nil {
			logger.Warn("discarding report: %v", abortErr)
		}
	}()

	result := &ReportResult{RunID: runID, OutputFile: req.OutputFile}

	for _, col := range plan.Predictors {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "report cancelled")
		}
		chart, err := report.NewScatterChart(table, plan.Scatter.X, plan.Scatter.Y, col)
		if err != nil {
			return nil, errors.Wrapf(err, "scatter plot for %s", col)
		}
		p, err := chart.Plot()
		if err != nil {
			return nil, errors.RenderError("scatter plot for "+col, err)
		}
		if err := doc.AddPage(p); err != nil {
			return nil, errors.RenderError("scatter plot for "+col, err)
		}
		result.ScatterPages++
		logger.Debug("scatter page for %s (%d levels)", col, len(chart.Series))
	}

	for _, response := range plan.Responses {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "report cancelled")
		}
		outcome, err := s.coefficientPage(ctx, doc, table, plan, response)
		if err != nil {
			if !req.ContinueOnError {
				return nil, err
			}
			logger.Warn("skipping %s: %v", response, err)
			outcome.Err = err
		}
		result.Responses = append(result.Responses, outcome)
	}

	result.Pages = doc.Pages()
	if err := doc.Close(); err != nil {
		return nil, errors.RenderError("failed to write report", err)
	}
	committed = true

	result.RuntimeMs = time.Since(startTime).Milliseconds()
	fmt.Fprintf(s.out, "Saved to %s.\n", req.OutputFile)
	logger.Info("wrote %d pages to %s in %dms", result.Pages, req.OutputFile, result.RuntimeMs)
	return result, nil
}

func (s *ReportService) coefficientPage(ctx context.Context, doc ports.DocumentPort, table *dataset.Table, plan *config.Analysis, response string) (ResponseOutcome, error) {
	outcome := ResponseOutcome{Response: response}
	formula, err := plan.Formula(response)
	if err != nil {
		return outcome, err
	}
	outcome.Formula = formula.String()
	fmt.Fprintln(s.out, "Formula:", formula)

	fit, err := s.fitter.Fit(ctx, formula, table)
	if err != nil {
		return outcome, errors.Wrapf(err, "failed to fit model for %s", response)
	}

	if intercept, ok := fit.Intercept(); ok {
		internal.LoggerFrom(ctx, s.logger).Debug("%s: intercept %.4g, R-squared %.3f", response, intercept.Estimate, fit.Stats.RSquared)
	}

	fmt.Fprintf(s.out, "\nModel summary for %s:\n", response)
	if err := analysis.WriteSummary(s.out, fit); err != nil {
		return outcome, errors.Wrap(err, "failed to print model summary")
	}

	chart := report.NewCoefficientChart(response, analysis.CoefficientRecords(fit))
	p, err := chart.Plot()
	if err != nil {
		return outcome, errors.RenderError("coefficient plot for "+response, err)
	}
	if err := doc.AddPage(p); err != nil {
		return outcome, errors.RenderError("coefficient plot for "+response, err)
	}
	outcome.Markers = len(chart.Points)
	return outcome, nil
}

func (s *ReportService) writeOverview(table *dataset.Table, plan *config.Analysis) error {
	summaries, err := analysis.DescribeColumns(table, plan.Responses)
	if err != nil {
		return err
	}
	return analysis.WriteOverview(s.out, table, plan.Predictors, summaries)
}

// NewPDFDocument opens a PDF report document at path
func NewPDFDocument(path string) (ports.DocumentPort, error) {
	doc, err := report.Create(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}
