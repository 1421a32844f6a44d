package config

import (
	"fmt"
	"os"
	"slices"

	"wasmbench/domain/dataset"
	"wasmbench/domain/model"
	"wasmbench/internal/analysis"
	"wasmbench/internal/errors"

	"gopkg.in/yaml.v3"
)

// Analysis is the analysis plan: which columns are modeled and how the input
// is typed. It is built once at startup and passed to every stage.
type Analysis struct {
	Predictors []string          `yaml:"predictors"`
	Responses  []string          `yaml:"responses"`
	Baselines  map[string]string `yaml:"baselines"`
	// Formulas replaces the generated model of a response, keyed by response
	Formulas map[string]string `yaml:"formulas,omitempty"`
	Scatter  ScatterAxes       `yaml:"scatter"`
	Schema   dataset.Schema    `yaml:"schema"`
}

// ScatterAxes names the numeric columns of the scatter pages
type ScatterAxes struct {
	X string `yaml:"x"`
	Y string `yaml:"y"`
}

// DefaultAnalysis returns the canonical build-option analysis
func DefaultAnalysis() *Analysis {
	return &Analysis{
		Predictors: []string{
			dataset.ColOptLevel,
			dataset.ColWasmOpt,
			dataset.ColLTO,
			dataset.ColCodegenUnits,
			dataset.ColStrip,
			dataset.ColPanic,
		},
		Responses: []string{
			dataset.ColFrameTime,
			dataset.ColSizeGzipped,
			dataset.ColBuildTime,
			dataset.ColWasmOptTime,
			dataset.ColTotalBuildTime,
		},
		Baselines: map[string]string{
			dataset.ColOptLevel:     "Three",
			dataset.ColWasmOpt:      "None",
			dataset.ColStrip:        "None",
			dataset.ColLTO:          "Off",
			dataset.ColCodegenUnits: "Default",
			dataset.ColPanic:        "Unwind",
		},
		Scatter: ScatterAxes{X: dataset.ColSizeGzipped, Y: dataset.ColFrameTime},
		Schema:  dataset.BenchmarkSchema(),
	}
}

// LoadAnalysis reads a YAML analysis file. Sections left out of the file keep
// their default values.
func LoadAnalysis(path string) (*Analysis, error) {
	a := DefaultAnalysis()
	if path == "" {
		return a, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.NotFound("analysis file " + path)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to read analysis file %s", path)
	}

	var file Analysis
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to parse analysis file %s", path)
	}

	if len(file.Predictors) > 0 {
		a.Predictors = file.Predictors
	}
	if len(file.Responses) > 0 {
		a.Responses = file.Responses
	}
	if file.Baselines != nil {
		a.Baselines = file.Baselines
	}
	if file.Formulas != nil {
		a.Formulas = file.Formulas
	}
	if file.Scatter.X != "" {
		a.Scatter.X = file.Scatter.X
	}
	if file.Scatter.Y != "" {
		a.Scatter.Y = file.Scatter.Y
	}
	if len(file.Schema.Columns) > 0 {
		a.Schema = file.Schema
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the plan against its own schema
func (a *Analysis) Validate() error {
	if err := a.Schema.Validate(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if len(a.Predictors) == 0 {
		return errors.ConfigInvalid("at least one predictor is required")
	}
	if len(a.Responses) == 0 {
		return errors.ConfigInvalid("at least one response is required")
	}

	for _, name := range a.Predictors {
		spec, ok := a.Schema.Column(name)
		if !ok {
			return errors.ConfigInvalid(fmt.Sprintf("predictor %s is not declared in the schema", name))
		}
		if spec.Kind != dataset.KindCategorical {
			return errors.ConfigInvalid(fmt.Sprintf("predictor %s must be categorical, is %s", name, spec.Kind))
		}
	}
	for _, name := range a.Responses {
		if err := a.requireNumeric("response", name); err != nil {
			return err
		}
	}
	for _, name := range []string{a.Scatter.X, a.Scatter.Y} {
		if err := a.requireNumeric("scatter axis", name); err != nil {
			return err
		}
	}

	for name, baseline := range a.Baselines {
		// Baselines of columns outside the predictor list are unused
		if !slices.Contains(a.Predictors, name) {
			continue
		}
		spec, _ := a.Schema.Column(name)
		if !spec.KnowsLevel(baseline) {
			return errors.ConfigInvalid(fmt.Sprintf("baseline %q is not a level of %s", baseline, name))
		}
	}

	for response := range a.Formulas {
		if _, err := a.Formula(response); err != nil {
			return err
		}
	}
	return nil
}

// Formula returns the model of response: the override from Formulas when one
// is set, otherwise the additive model over every predictor.
func (a *Analysis) Formula(response string) (model.Formula, error) {
	raw, ok := a.Formulas[response]
	if !ok {
		return analysis.BuildFormula(response, a.Predictors, a.Baselines), nil
	}

	f, err := analysis.ParseFormula(raw)
	if err != nil {
		return model.Formula{}, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if f.Response != response {
		return model.Formula{}, errors.ConfigInvalid(fmt.Sprintf("formula for %s models %s", response, f.Response))
	}
	if !slices.Contains(a.Responses, response) {
		return model.Formula{}, errors.ConfigInvalid(fmt.Sprintf("formula given for %s, which is not a response", response))
	}
	for _, p := range f.Predictors {
		spec, ok := a.Schema.Column(p.Name)
		if !ok || spec.Kind != dataset.KindCategorical {
			return model.Formula{}, errors.ConfigInvalid(fmt.Sprintf("formula for %s: %s is not a categorical column", response, p.Name))
		}
		if p.Baseline != "" && !spec.KnowsLevel(p.Baseline) {
			return model.Formula{}, errors.ConfigInvalid(fmt.Sprintf("formula for %s: %q is not a level of %s", response, p.Baseline, p.Name))
		}
	}
	return f, nil
}

func (a *Analysis) requireNumeric(role, name string) error {
	spec, ok := a.Schema.Column(name)
	if !ok {
		return errors.ConfigInvalid(fmt.Sprintf("%s %s is not declared in the schema", role, name))
	}
	if spec.Kind == dataset.KindCategorical {
		return errors.ConfigInvalid(fmt.Sprintf("%s %s must be numeric", role, name))
	}
	return nil
}
