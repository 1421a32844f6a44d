package main

import (
	"fmt"
	"os"

	"wasmbench/adapters/tabular"
	"wasmbench/app"
	"wasmbench/domain/core"
	"wasmbench/internal"
	"wasmbench/internal/analysis"
	"wasmbench/internal/config"
	"wasmbench/internal/errors"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wasmbench",
		Short: "Regression report over WebAssembly build-option benchmarks",
	}

	rootCmd.AddCommand(newReportCmd())

	if err := rootCmd.Execute(); err != nil {
		// cobra reports flag and argument errors as plain errors
		if !errors.IsAppError(err) {
			err = errors.InvalidInput(err.Error())
		}
		fmt.Fprintf(os.Stderr, "[%s] %v\n", errors.GetCode(err), err)
		os.Exit(1)
	}
}

func newReportCmd() *cobra.Command {
	var (
		output          string
		analysisFile    string
		logLevel        string
		continueOnError bool
		keepPartial     bool
		runID           string
	)

	cmd := &cobra.Command{
		Use:   "report [data-file]",
		Short: "Fit build-option models and write the PDF report",
		Long: `Load a benchmark results table (CSV or XLSX), fit one OLS model per response
with the build options as categorical predictors, print the model summaries and
write scatter and coefficient plots into one multi-page PDF.

Defaults come from the environment (a .env file is read if present):
- DATA_CSV          input table
- REPORT_OUTPUT     output PDF (default: plots.pdf)
- ANALYSIS_CONFIG   optional YAML analysis plan (predictors, responses,
                    baselines, per-response formulas, schema)
- LOG_LEVEL         ERROR|WARN|INFO|DEBUG|TRACE
- CONTINUE_ON_ERROR skip responses whose model cannot be fitted
- KEEP_PARTIAL      keep the pages written before a failure

Example: wasmbench report results.csv --output plots.pdf`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				cfg.Data.InputFile = args[0]
			}
			flags := cmd.Flags()
			if flags.Changed("output") {
				cfg.Report.OutputFile = output
			}
			if flags.Changed("config") {
				cfg.Data.AnalysisFile = analysisFile
			}
			if flags.Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if flags.Changed("continue-on-error") {
				cfg.Report.ContinueOnError = continueOnError
			}
			if flags.Changed("keep-partial") {
				cfg.Report.KeepPartial = keepPartial
			}

			plan, err := config.LoadAnalysis(cfg.Data.AnalysisFile)
			if err != nil {
				return err
			}

			var id core.RunID
			if flags.Changed("run-id") {
				if id, err = core.ParseRunID(runID); err != nil {
					return errors.InvalidInput(err.Error())
				}
			}

			logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
			svc := app.NewReportService(
				tabular.NewDataReader(logger),
				analysis.NewFitter(logger),
				app.NewPDFDocument,
				logger,
				cmd.OutOrStdout(),
			)

			_, err = svc.Run(cmd.Context(), app.ReportRequest{
				InputFile:       cfg.Data.InputFile,
				OutputFile:      cfg.Report.OutputFile,
				Analysis:        plan,
				ContinueOnError: cfg.Report.ContinueOnError,
				KeepPartial:     cfg.Report.KeepPartial,
				RunID:           id,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", config.DefaultOutputFile, "Output PDF file")
	cmd.Flags().StringVar(&analysisFile, "config", "", "YAML analysis plan (predictors, responses, baselines, schema)")
	cmd.Flags().StringVar(&logLevel, "log-level", "INFO", "Log level: ERROR|WARN|INFO|DEBUG|TRACE")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Skip responses whose model cannot be fitted")
	cmd.Flags().BoolVar(&keepPartial, "keep-partial", false, "Keep pages rendered before a failure")
	cmd.Flags().StringVar(&runID, "run-id", "", "UUID to tag log lines with (generated when unset)")

	return cmd
}
