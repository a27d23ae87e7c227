package toolfix

import (
	"slices"
	"strings"
)

// DefaultMaxNameDistance is the largest edit distance accepted by ResolveToolName.
const DefaultMaxNameDistance = 3

// ResolveToolName matches a possibly misspelled tool name against catalog using
// DefaultMaxNameDistance. See resolveToolName for the matching order.
func ResolveToolName(candidate string, catalog []string) (string, bool) {
	return resolveToolName(candidate, catalog, DefaultMaxNameDistance)
}

// resolveToolName tries an exact match, then a case-insensitive match (returning the catalog's
// casing), then the closest lower-cased entry within maxDist. Ties go to the earliest catalog entry.
// It never invents a name.
func resolveToolName(candidate string, catalog []string, maxDist int) (string, bool) {
	if len(catalog) == 0 {
		return "", false
	}
	if slices.Contains(catalog, candidate) {
		return candidate, true
	}
	lower := strings.ToLower(candidate)
	for _, name := range catalog {
		if strings.ToLower(name) == lower {
			return name, true
		}
	}
	best, bestDist := -1, maxDist+1
	for i, name := range catalog {
		if d := Distance(lower, strings.ToLower(name)); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return "", false
	}
	return catalog[best], true
}
