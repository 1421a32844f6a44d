package analysis

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"wasmbench/domain/model"
)

// WriteSummary prints a regression table for fit: model statistics followed
// by one row per coefficient. The last column is the label used on the
// coefficient plot.
func WriteSummary(w io.Writer, fit *model.FitResult) error {
	s := fit.Stats
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rule := strings.Repeat("=", 78)
	fmt.Fprintln(tw, rule)
	fmt.Fprintf(tw, "Dep. Variable:\t%s\tR-squared:\t%.3f\n", fit.Formula.Response, s.RSquared)
	fmt.Fprintf(tw, "Model:\tOLS\tAdj. R-squared:\t%.3f\n", s.AdjRSquared)
	fmt.Fprintf(tw, "Method:\tLeast Squares\tF-statistic:\t%.4g\n", s.FStatistic)
	fmt.Fprintf(tw, "No. Observations:\t%d\tProb (F-statistic):\t%.3g\n", s.Observations, s.FPValue)
	fmt.Fprintf(tw, "Df Residuals:\t%d\tLog-Likelihood:\t%.2f\n", s.DFResid, s.LogLikelihood)
	fmt.Fprintf(tw, "Df Model:\t%d\tAIC:\t%.4g\n", s.DFModel, s.AIC)
	fmt.Fprintf(tw, "Residual Std. Error:\t%.4g\tBIC:\t%.4g\n", s.ResidStdErr, s.BIC)
	if err := tw.Flush(); err != nil {
		return err
	}

	lowQ := (1 - fit.ConfidenceLevel) / 2
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, rule)
	fmt.Fprintf(tw, "\tcoef\tstd err\tt\tP>|t|\t[%.3f\t%.3f]\t\tlabel\n", lowQ, 1-lowQ)
	for _, c := range fit.Coefficients {
		raw := c.Term.Raw()
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.3f\t%.3f\t%.4f\t%.4f\t%s\t%s\n",
			raw, c.Estimate, c.StdErr, c.TStat, c.PValue, c.ConfLow, c.ConfHigh, SignificanceCode(c.PValue), CleanTermName(raw))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s\nSignif. codes:  0 '***' 0.001 '**' 0.01 '*' 0.05 '.' 0.1 ' ' 1\n", rule)
	return err
}
