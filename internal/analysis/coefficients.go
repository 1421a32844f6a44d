package analysis

import (
	"sort"

	"wasmbench/domain/model"
)

// CoefficientRecords turns a fit into plot rows: intercept dropped, names
// cleaned, significance annotated, sorted by descending estimate.
func CoefficientRecords(fit *model.FitResult) []model.CoefficientRecord {
	records := make([]model.CoefficientRecord, 0, len(fit.Coefficients))
	for _, c := range fit.Coefficients {
		if c.Term.IsIntercept() {
			continue
		}
		records = append(records, model.CoefficientRecord{
			Name:     c.Term.DisplayName(),
			Term:     c.Term,
			Estimate: c.Estimate,
			PValue:   c.PValue,
			ConfLow:  c.ConfLow,
			ConfHigh: c.ConfHigh,
			Code:     SignificanceCode(c.PValue),
		})
	}
	SortByEstimate(records)
	return records
}

// SortByEstimate orders records by descending estimate, keeping the model
// order among ties
func SortByEstimate(records []model.CoefficientRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Estimate > records[j].Estimate
	})
}
