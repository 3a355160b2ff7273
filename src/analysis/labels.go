package analysis

import "strings"

// NormalizeLabel maps a raw algorithm name to its display label.
// StochasticHIOB* becomes HIOB, SearchGraph* becomes BL-SearchGraph and
// everything else is upper-cased.
func NormalizeLabel(algo string) string {
	switch {
	case strings.HasPrefix(algo, "StochasticHIOB"):
		return "HIOB"
	case strings.HasPrefix(algo, "SearchGraph"):
		return "BL-SearchGraph"
	}
	return strings.ToUpper(algo)
}
