package toolfix

import "github.com/agext/levenshtein"

// Distance returns the Levenshtein edit distance between a and b, counting runes.
// Insertions, deletions and substitutions each cost 1.
func Distance(a, b string) int {
	if a == b {
		return 0
	}
	return levenshtein.Distance(a, b, nil)
}
