package ports

import (
	"context"

	"wasmbench/domain/dataset"
)

// DatasetLoaderPort reads a results table and applies the schema
type DatasetLoaderPort interface {
	Load(ctx context.Context, path string, schema dataset.Schema) (*dataset.Table, error)
}
