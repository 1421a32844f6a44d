package dataset

import (
	"fmt"
	"slices"

	"wasmbench/domain/core"
)

// Table is an in-memory columnar dataset. Numeric and categorical columns
// share one row count.
type Table struct {
	rows        int
	order       []string
	numeric     map[string][]float64
	categorical map[string][]string
}

// NewTable creates an empty table with the given row count
func NewTable(rows int) *Table {
	return &Table{
		rows:        rows,
		numeric:     make(map[string][]float64),
		categorical: make(map[string][]string),
	}
}

// Rows returns the number of rows
func (t *Table) Rows() int { return t.rows }

// Columns returns column names in insertion order
func (t *Table) Columns() []string { return slices.Clone(t.order) }

// SetNumeric adds or replaces a numeric column
func (t *Table) SetNumeric(name string, values []float64) error {
	if len(values) != t.rows {
		return fmt.Errorf("column %s has %d values, table has %d rows", name, len(values), t.rows)
	}
	if _, cat := t.categorical[name]; cat {
		return core.NewWrongKindError(name, string(KindNumeric))
	}
	if _, ok := t.numeric[name]; !ok {
		t.order = append(t.order, name)
	}
	t.numeric[name] = values
	return nil
}

// SetCategorical adds or replaces a categorical column
func (t *Table) SetCategorical(name string, values []string) error {
	if len(values) != t.rows {
		return fmt.Errorf("column %s has %d values, table has %d rows", name, len(values), t.rows)
	}
	if _, num := t.numeric[name]; num {
		return core.NewWrongKindError(name, string(KindCategorical))
	}
	if _, ok := t.categorical[name]; !ok {
		t.order = append(t.order, name)
	}
	t.categorical[name] = values
	return nil
}

// Numeric returns the values of a numeric column
func (t *Table) Numeric(name string) ([]float64, error) {
	if v, ok := t.numeric[name]; ok {
		return v, nil
	}
	if _, ok := t.categorical[name]; ok {
		return nil, core.NewWrongKindError(name, string(KindNumeric))
	}
	return nil, core.NewMissingColumnError(name)
}

// Categorical returns the values of a categorical column
func (t *Table) Categorical(name string) ([]string, error) {
	if v, ok := t.categorical[name]; ok {
		return v, nil
	}
	if _, ok := t.numeric[name]; ok {
		return nil, core.NewWrongKindError(name, string(KindCategorical))
	}
	return nil, core.NewMissingColumnError(name)
}

// Levels returns the distinct observed values of a categorical column in
// lexicographic order.
func (t *Table) Levels(name string) ([]string, error) {
	values, err := t.Categorical(name)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var levels []string
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			levels = append(levels, v)
		}
	}
	slices.Sort(levels)
	return levels, nil
}

// Derive computes every derived column of the schema as the row-wise sum of
// its sources, replacing any previous values.
func (t *Table) Derive(schema Schema) error {
	for _, spec := range schema.Derived() {
		sum := make([]float64, t.rows)
		for _, src := range spec.Sources {
			values, err := t.Numeric(src)
			if err != nil {
				return fmt.Errorf("deriving %s: %w", spec.Name, err)
			}
			for i, v := range values {
				sum[i] += v
			}
		}
		if err := t.SetNumeric(spec.Name, sum); err != nil {
			return err
		}
	}
	return nil
}
