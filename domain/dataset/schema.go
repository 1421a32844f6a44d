package dataset

import (
	"fmt"
	"slices"

	"wasmbench/domain/core"
)

// ColumnKind is the semantic type of a column
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
	KindDerived     ColumnKind = "derived"
)

// ColumnSpec declares one column of the schema
type ColumnSpec struct {
	Name string     `yaml:"name"`
	Kind ColumnKind `yaml:"kind"`
	// Levels lists the known values of a categorical column
	Levels []string `yaml:"levels,omitempty"`
	// Sources are summed to produce a derived column
	Sources []string `yaml:"sources,omitempty"`
}

// Schema is the ordered set of declared columns
type Schema struct {
	Columns []ColumnSpec `yaml:"columns"`
}

// Benchmark column names
const (
	ColOptLevel       = "opt_level"
	ColWasmOpt        = "wasm_opt"
	ColLTO            = "lto"
	ColCodegenUnits   = "codegen_units"
	ColStrip          = "strip"
	ColPanic          = "panic"
	ColBuildTime      = "build_time"
	ColWasmOptTime    = "wasm_opt_time"
	ColFrameTime      = "frame_time"
	ColSizeGzipped    = "size_gzipped"
	ColTotalBuildTime = "total_build_time"
)

// BenchmarkSchema returns the schema of the build-option benchmark results
func BenchmarkSchema() Schema {
	return Schema{Columns: []ColumnSpec{
		{Name: ColOptLevel, Kind: KindCategorical, Levels: []string{"S", "Z", "Three"}},
		{Name: ColWasmOpt, Kind: KindCategorical, Levels: []string{"None", "S", "Z", "Three", "Both"}},
		{Name: ColLTO, Kind: KindCategorical, Levels: []string{"Off", "Thin", "Fat"}},
		{Name: ColCodegenUnits, Kind: KindCategorical, Levels: []string{"One", "Default"}},
		{Name: ColStrip, Kind: KindCategorical, Levels: []string{"None", "DebugInfo"}},
		{Name: ColPanic, Kind: KindCategorical, Levels: []string{"Unwind", "Abort"}},
		{Name: ColBuildTime, Kind: KindNumeric},
		{Name: ColWasmOptTime, Kind: KindNumeric},
		{Name: ColFrameTime, Kind: KindNumeric},
		{Name: ColSizeGzipped, Kind: KindNumeric},
		{Name: ColTotalBuildTime, Kind: KindDerived, Sources: []string{ColBuildTime, ColWasmOptTime}},
	}}
}

// Column returns the spec for name
func (s Schema) Column(name string) (ColumnSpec, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// Input returns the columns that must be present in the input file
func (s Schema) Input() []ColumnSpec {
	var out []ColumnSpec
	for _, c := range s.Columns {
		if c.Kind != KindDerived {
			out = append(out, c)
		}
	}
	return out
}

// Derived returns the computed columns in declaration order
func (s Schema) Derived() []ColumnSpec {
	var out []ColumnSpec
	for _, c := range s.Columns {
		if c.Kind == KindDerived {
			out = append(out, c)
		}
	}
	return out
}

// KnowsLevel reports whether value is a declared level of a categorical column.
// A categorical column declared without levels accepts any value.
func (c ColumnSpec) KnowsLevel(value string) bool {
	if len(c.Levels) == 0 {
		return true
	}
	return slices.Contains(c.Levels, value)
}

// Validate checks the schema is internally consistent
func (s Schema) Validate() error {
	seen := make(map[string]ColumnKind, len(s.Columns))
	for _, c := range s.Columns {
		if c.Name == "" {
			return fmt.Errorf("%w: column with empty name", core.ErrSchemaMismatch)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: duplicate column %s", core.ErrSchemaMismatch, c.Name)
		}
		switch c.Kind {
		case KindNumeric, KindCategorical:
		case KindDerived:
			if len(c.Sources) == 0 {
				return fmt.Errorf("%w: derived column %s has no sources", core.ErrSchemaMismatch, c.Name)
			}
			for _, src := range c.Sources {
				kind, ok := seen[src]
				if !ok {
					return fmt.Errorf("%w: derived column %s references undeclared %s", core.ErrSchemaMismatch, c.Name, src)
				}
				if kind == KindCategorical {
					return core.NewWrongKindError(src, string(KindNumeric))
				}
			}
		default:
			return fmt.Errorf("%w: column %s has unknown kind %q", core.ErrSchemaMismatch, c.Name, c.Kind)
		}
		seen[c.Name] = c.Kind
	}
	return nil
}
