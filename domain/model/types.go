package model

import (
	"fmt"
	"strings"
)

// Predictor is one categorical term of a formula. Baseline is empty when the
// default reference level (first in sort order) applies.
type Predictor struct {
	Name     string
	Baseline string
}

// String renders the treatment-coding directive for the predictor
func (p Predictor) String() string {
	if p.Baseline != "" {
		return fmt.Sprintf("C(%s, Treatment('%s'))", p.Name, p.Baseline)
	}
	return fmt.Sprintf("C(%s)", p.Name)
}

// Formula describes an additive linear model over categorical predictors
type Formula struct {
	Response   string
	Predictors []Predictor
}

// String renders the formula as "response ~ t1 + t2 + ..."
func (f Formula) String() string {
	terms := make([]string, len(f.Predictors))
	for i, p := range f.Predictors {
		terms[i] = p.String()
	}
	return f.Response + " ~ " + strings.Join(terms, " + ")
}

// Term identifies an estimated coefficient. The intercept has an empty Variable.
type Term struct {
	Variable string
	Level    string
	// Baseline is the reference level the coefficient is measured against
	Baseline string
	// Pinned is true when the baseline was chosen explicitly
	Pinned bool
}

// IsIntercept reports whether the term is the model intercept
func (t Term) IsIntercept() bool { return t.Variable == "" }

// Raw returns the term identifier in treatment-coding syntax, e.g.
// C(opt_level, Treatment('Three'))[T.S]
func (t Term) Raw() string {
	if t.IsIntercept() {
		return InterceptName
	}
	p := Predictor{Name: t.Variable}
	if t.Pinned {
		p.Baseline = t.Baseline
	}
	return p.String() + "[T." + t.Level + "]"
}

// DisplayName returns the human-readable "variable level" label
func (t Term) DisplayName() string {
	if t.IsIntercept() {
		return InterceptName
	}
	return t.Variable + " " + t.Level
}

// InterceptName is the identifier of the intercept term
const InterceptName = "Intercept"

// Coefficient is one estimated term of a fitted model
type Coefficient struct {
	Term     Term
	Estimate float64
	StdErr   float64
	TStat    float64
	PValue   float64
	ConfLow  float64
	ConfHigh float64
}

// FitStats holds whole-model statistics
type FitStats struct {
	Observations  int
	DFModel       int
	DFResid       int
	RSquared      float64
	AdjRSquared   float64
	FStatistic    float64
	FPValue       float64
	ResidStdErr   float64
	LogLikelihood float64
	AIC           float64
	BIC           float64
}

// FitResult is an immutable snapshot of a fitted OLS model
type FitResult struct {
	Formula         Formula
	Coefficients    []Coefficient
	Stats           FitStats
	ConfidenceLevel float64
}

// Intercept returns the intercept coefficient if present
func (r *FitResult) Intercept() (Coefficient, bool) {
	for _, c := range r.Coefficients {
		if c.Term.IsIntercept() {
			return c, true
		}
	}
	return Coefficient{}, false
}

// CoefficientRecord is one row of the coefficient plot
type CoefficientRecord struct {
	Name     string
	Term     Term
	Estimate float64
	PValue   float64
	ConfLow  float64
	ConfHigh float64
	Code     string
}
