package analysis

import (
	"fmt"
	"io"

	"wasmbench/domain/dataset"

	"github.com/montanaflynn/stats"
)

// ColumnSummary describes one numeric column of a table
type ColumnSummary struct {
	Name   string
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// DescribeColumns summarizes the named numeric columns
func DescribeColumns(table *dataset.Table, names []string) ([]ColumnSummary, error) {
	out := make([]ColumnSummary, 0, len(names))
	for _, name := range names {
		values, err := table.Numeric(name)
		if err != nil {
			return nil, err
		}
		data := stats.Float64Data(values)

		mean, err := data.Mean()
		if err != nil {
			return nil, fmt.Errorf("summarizing %s: %w", name, err)
		}
		median, _ := data.Median()
		stdDev, _ := data.StandardDeviationSample()
		min, _ := data.Min()
		max, _ := data.Max()

		out = append(out, ColumnSummary{
			Name:   name,
			Mean:   mean,
			Median: median,
			StdDev: stdDev,
			Min:    min,
			Max:    max,
		})
	}
	return out, nil
}

// WriteOverview prints row count, the observed levels of each categorical
// column and the numeric summaries
func WriteOverview(w io.Writer, table *dataset.Table, categorical []string, summaries []ColumnSummary) error {
	fmt.Fprintf(w, "Loaded %d rows\n", table.Rows())
	for _, name := range categorical {
		levels, err := table.Levels(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s levels: %q\n", name, levels)
	}
	for _, s := range summaries {
		fmt.Fprintf(w, "%-18s mean=%.4g median=%.4g sd=%.4g min=%.4g max=%.4g\n",
			s.Name, s.Mean, s.Median, s.StdDev, s.Min, s.Max)
	}
	return nil
}
