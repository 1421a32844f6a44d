package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// tTestPValue computes the two-sided p-value of a t statistic
func tTestPValue(tStatistic float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 || math.IsNaN(tStatistic) {
		return math.NaN()
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(degreesOfFreedom)}
	return 2 * tDist.Survival(math.Abs(tStatistic))
}

// tCritical returns the two-sided critical value of Student's t for the
// given confidence level
func tCritical(level float64, degreesOfFreedom int) float64 {
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(degreesOfFreedom)}
	return tDist.Quantile(1 - (1-level)/2)
}

// fTestPValue computes the upper-tail p-value of an F statistic
func fTestPValue(fStatistic float64, df1, df2 int) float64 {
	if df1 <= 0 || df2 <= 0 || math.IsNaN(fStatistic) {
		return math.NaN()
	}
	fDist := distuv.F{D1: float64(df1), D2: float64(df2)}
	return fDist.Survival(fStatistic)
}
