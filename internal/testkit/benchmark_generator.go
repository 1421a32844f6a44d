package testkit

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"wasmbench/domain/dataset"
)

// BenchmarkGeneratorConfig configures the synthetic benchmark results generator
type BenchmarkGeneratorConfig struct {
	// Replicates is the number of runs per option combination
	Replicates int
	// Noise is the standard deviation of the additive measurement noise
	Noise float64
	Seed  int64
	// Columns restricts the categorical options that are varied. Options not
	// listed are held at their first level.
	Columns []string
}

// DefaultBenchmarkConfig returns a full factorial over every build option
func DefaultBenchmarkConfig() BenchmarkGeneratorConfig {
	return BenchmarkGeneratorConfig{
		Replicates: 2,
		Noise:      0.25,
		Seed:       42,
	}
}

// BenchmarkDataGenerator produces benchmark result rows with known per-level effects
type BenchmarkDataGenerator struct {
	config BenchmarkGeneratorConfig
	schema dataset.Schema
	rng    *rand.Rand
}

// NewBenchmarkDataGenerator creates a new generator over the benchmark schema
func NewBenchmarkDataGenerator(config BenchmarkGeneratorConfig) *BenchmarkDataGenerator {
	return &BenchmarkDataGenerator{
		config: config,
		schema: dataset.BenchmarkSchema(),
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Header returns the column order of generated rows
func (g *BenchmarkDataGenerator) Header() []string {
	var header []string
	for _, c := range g.schema.Input() {
		header = append(header, c.Name)
	}
	return header
}

// Effect is the contribution of level index i of a categorical column to
// every response. It is zero for the first level.
func Effect(i int) float64 {
	return float64(i) * 1.5
}

// Rows generates data rows (without header)
func (g *BenchmarkDataGenerator) Rows() [][]string {
	var cats []dataset.ColumnSpec
	varied := make(map[string]bool)
	for _, name := range g.config.Columns {
		varied[name] = true
	}
	for _, c := range g.schema.Input() {
		if c.Kind == dataset.KindCategorical {
			if len(varied) > 0 && !varied[c.Name] {
				c.Levels = c.Levels[:1]
			}
			cats = append(cats, c)
		}
	}

	var rows [][]string
	idx := make([]int, len(cats))
	for {
		for rep := 0; rep < g.config.Replicates; rep++ {
			rows = append(rows, g.row(cats, idx))
		}
		// advance the odometer
		k := len(cats) - 1
		for k >= 0 {
			idx[k]++
			if idx[k] < len(cats[k].Levels) {
				break
			}
			idx[k] = 0
			k--
		}
		if k < 0 {
			return rows
		}
	}
}

func (g *BenchmarkDataGenerator) row(cats []dataset.ColumnSpec, idx []int) []string {
	levels := make(map[string]string, len(cats))
	effect := 0.0
	for i, c := range cats {
		levels[c.Name] = c.Levels[idx[i]]
		effect += Effect(idx[i])
	}

	numeric := map[string]float64{
		dataset.ColBuildTime:   20 + effect + g.noise(),
		dataset.ColWasmOptTime: 5 + effect + g.noise(),
		dataset.ColFrameTime:   16 + effect + g.noise(),
		dataset.ColSizeGzipped: 150000 + 1000*effect + 100*g.noise(),
	}

	var out []string
	for _, c := range g.schema.Input() {
		if c.Kind == dataset.KindCategorical {
			out = append(out, levels[c.Name])
			continue
		}
		out = append(out, strconv.FormatFloat(numeric[c.Name], 'f', 4, 64))
	}
	return out
}

func (g *BenchmarkDataGenerator) noise() float64 {
	return g.rng.NormFloat64() * g.config.Noise
}

// WriteCSV writes header and rows to path
func (g *BenchmarkDataGenerator) WriteCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(g.Header()); err != nil {
		return err
	}
	if err := w.WriteAll(g.Rows()); err != nil {
		return err
	}
	return file.Close()
}
