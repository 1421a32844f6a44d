package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"wasmbench/domain/core"
	"wasmbench/domain/model"
)

// BuildFormula builds an additive model of response on the categorical
// predictors, in predictor order. Predictors with an entry in baselines pin
// that level as the reference; the others use the first level in sort order.
func BuildFormula(response string, predictors []string, baselines map[string]string) model.Formula {
	f := model.Formula{Response: response, Predictors: make([]model.Predictor, len(predictors))}
	for i, name := range predictors {
		f.Predictors[i] = model.Predictor{Name: name, Baseline: baselines[name]}
	}
	return f
}

var (
	formulaPattern = regexp.MustCompile(`^\s*([^~\s]+)\s*~\s*(.+?)\s*$`)
	termPattern    = regexp.MustCompile(`^C\(\s*([^,()\s]+)\s*(?:,\s*Treatment\(\s*'([^']*)'\s*\))?\s*\)$`)
)

// ParseFormula parses "response ~ C(a) + C(b, Treatment('x'))"
func ParseFormula(s string) (model.Formula, error) {
	m := formulaPattern.FindStringSubmatch(s)
	if m == nil {
		return model.Formula{}, fmt.Errorf("%w: %q has no response", core.ErrInvalidFormula, s)
	}

	f := model.Formula{Response: m[1]}
	for _, raw := range strings.Split(m[2], "+") {
		term := strings.TrimSpace(raw)
		tm := termPattern.FindStringSubmatch(term)
		if tm == nil {
			return model.Formula{}, fmt.Errorf("%w: unsupported term %q", core.ErrInvalidFormula, term)
		}
		f.Predictors = append(f.Predictors, model.Predictor{Name: tm[1], Baseline: tm[2]})
	}
	return f, nil
}
