package analysis

// SignificanceCode maps a p-value to the conventional significance stars.
// Thresholds are strict: a p-value equal to a cutoff falls in the weaker tier.
func SignificanceCode(p float64) string {
	switch {
	case p < 0.001:
		return "***"
	case p < 0.01:
		return "**"
	case p < 0.05:
		return "*"
	case p < 0.1:
		return "."
	default:
		return " "
	}
}
