package ports

import (
	"context"

	"wasmbench/domain/dataset"
	"wasmbench/domain/model"
)

// ModelFitterPort fits a linear model of the formula on a table
type ModelFitterPort interface {
	Fit(ctx context.Context, formula model.Formula, table *dataset.Table) (*model.FitResult, error)
}
