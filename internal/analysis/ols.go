package analysis

import (
	"context"
	"fmt"
	"math"
	"slices"

	"wasmbench/domain/core"
	"wasmbench/domain/dataset"
	"wasmbench/domain/model"
	"wasmbench/internal"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultConfidenceLevel is the coverage of reported confidence intervals
const DefaultConfidenceLevel = 0.95

const machineEpsilon = 2.220446049250313e-16

// Fitter fits ordinary least squares models of a numeric response on
// treatment-coded categorical predictors
type Fitter struct {
	ConfidenceLevel float64
	logger          *internal.Logger
}

// NewFitter creates a fitter reporting 95% confidence intervals
func NewFitter(logger *internal.Logger) *Fitter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Fitter{ConfidenceLevel: DefaultConfidenceLevel, logger: logger}
}

// Fit estimates the model. It fails when a referenced column is absent or of
// the wrong kind, when a pinned baseline was never observed, and when the
// design matrix does not have full column rank.
func (f *Fitter) Fit(ctx context.Context, formula model.Formula, table *dataset.Table) (*model.FitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	y, err := table.Numeric(formula.Response)
	if err != nil {
		return nil, err
	}

	terms, x, err := designMatrix(formula, table)
	if err != nil {
		return nil, err
	}

	n, p := x.Dims()
	if n <= p {
		return nil, core.NewRankDeficientError(fmt.Sprintf("%d observations for %d coefficients", n, p))
	}
	internal.LoggerFrom(ctx, f.logger).Debug("[Fitter] %s: design matrix %dx%d", formula.Response, n, p)

	var qr mat.QR
	qr.Factorize(x)

	var r mat.Dense
	qr.RTo(&r)
	maxDiag := 0.0
	for j := 0; j < p; j++ {
		maxDiag = math.Max(maxDiag, math.Abs(r.At(j, j)))
	}
	tol := float64(n) * machineEpsilon * maxDiag
	for j := 0; j < p; j++ {
		if math.Abs(r.At(j, j)) <= tol {
			return nil, core.NewRankDeficientError(fmt.Sprintf("term %s is collinear with earlier terms", terms[j].Raw()))
		}
	}

	yv := mat.NewVecDense(n, slices.Clone(y))
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, yv); err != nil {
		return nil, core.NewRankDeficientError(err.Error())
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	rss := 0.0
	for i := 0; i < n; i++ {
		d := y[i] - fitted.AtVec(i)
		rss += d * d
	}

	dfResid := n - p
	sigma2 := rss / float64(dfResid)

	// (X'X)^-1 = R^-1 R^-T
	var rinv mat.Dense
	if err := rinv.Inverse(r.Slice(0, p, 0, p)); err != nil {
		return nil, core.NewRankDeficientError(err.Error())
	}
	var cov mat.Dense
	cov.Mul(&rinv, rinv.T())
	cov.Scale(sigma2, &cov)

	level := f.ConfidenceLevel
	if level <= 0 || level >= 1 {
		level = DefaultConfidenceLevel
	}
	crit := tCritical(level, dfResid)

	coefs := make([]model.Coefficient, p)
	for j := 0; j < p; j++ {
		est := beta.AtVec(j)
		se := math.Sqrt(cov.At(j, j))
		t := est / se
		coefs[j] = model.Coefficient{
			Term:     terms[j],
			Estimate: est,
			StdErr:   se,
			TStat:    t,
			PValue:   tTestPValue(t, dfResid),
			ConfLow:  est - crit*se,
			ConfHigh: est + crit*se,
		}
	}

	return &model.FitResult{
		Formula:         formula,
		Coefficients:    coefs,
		Stats:           fitStats(y, rss, n, p),
		ConfidenceLevel: level,
	}, nil
}

// designMatrix expands the predictors into an intercept column plus one
// indicator column per non-reference level, levels in sort order.
func designMatrix(formula model.Formula, table *dataset.Table) ([]model.Term, *mat.Dense, error) {
	type indicator struct {
		values []string
		level  string
	}

	terms := []model.Term{{}}
	var columns []indicator

	for _, pred := range formula.Predictors {
		values, err := table.Categorical(pred.Name)
		if err != nil {
			return nil, nil, err
		}
		levels, err := table.Levels(pred.Name)
		if err != nil {
			return nil, nil, err
		}
		if len(levels) < 2 {
			return nil, nil, core.NewRankDeficientError(fmt.Sprintf("predictor %s has a single observed level", pred.Name))
		}

		reference := levels[0]
		if pred.Baseline != "" {
			if !slices.Contains(levels, pred.Baseline) {
				return nil, nil, fmt.Errorf("%w: %q for %s (observed %v)", core.ErrMissingLevel, pred.Baseline, pred.Name, levels)
			}
			reference = pred.Baseline
		}

		for _, lvl := range levels {
			if lvl == reference {
				continue
			}
			terms = append(terms, model.Term{
				Variable: pred.Name,
				Level:    lvl,
				Baseline: reference,
				Pinned:   pred.Baseline != "",
			})
			columns = append(columns, indicator{values: values, level: lvl})
		}
	}

	n := table.Rows()
	x := mat.NewDense(n, len(terms), nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		for j, col := range columns {
			if col.values[i] == col.level {
				x.Set(i, j+1, 1)
			}
		}
	}
	return terms, x, nil
}

func fitStats(y []float64, rss float64, n, p int) model.FitStats {
	mean := stat.Mean(y, nil)
	tss := 0.0
	for _, v := range y {
		tss += (v - mean) * (v - mean)
	}

	dfModel := p - 1
	dfResid := n - p
	s := model.FitStats{
		Observations: n,
		DFModel:      dfModel,
		DFResid:      dfResid,
		RSquared:     1 - rss/tss,
		ResidStdErr:  math.Sqrt(rss / float64(dfResid)),
	}
	s.AdjRSquared = 1 - (1-s.RSquared)*float64(n-1)/float64(dfResid)
	if dfModel > 0 {
		s.FStatistic = ((tss - rss) / float64(dfModel)) / (rss / float64(dfResid))
		s.FPValue = fTestPValue(s.FStatistic, dfModel, dfResid)
	}

	nf := float64(n)
	s.LogLikelihood = -nf / 2 * (math.Log(2*math.Pi) + math.Log(rss/nf) + 1)
	s.AIC = -2*s.LogLikelihood + 2*float64(p)
	s.BIC = -2*s.LogLikelihood + float64(p)*math.Log(nf)
	return s
}
