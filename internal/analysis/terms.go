package analysis

import "regexp"

// e.g. "C(codegen_units, Treatment('Default'))[T.One]"
var termNamePattern = regexp.MustCompile(`^C\(([^,]+)(?:,\s*Treatment\('[^']+'\))?\)\[T\.(.*)\]$`)

// CleanTermName rewrites a treatment-coded term identifier into
// "variable level". Anything else, the intercept included, is returned as is.
func CleanTermName(term string) string {
	m := termNamePattern.FindStringSubmatch(term)
	if m == nil {
		return term
	}
	return m[1] + " " + m[2]
}
