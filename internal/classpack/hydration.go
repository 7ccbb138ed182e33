package classpack

import "sort"

// IsHydrationSafe reports whether a pattern renders the same through both
// render paths. It must have been seen in markup and in a script context.
func IsHydrationSafe(occ *ClassOccurrence) bool {
	return occ.InMarkup() && occ.InScript()
}

// DetectMergeablePatterns flags patterns whose class set is a strict subset of
// another pattern's set, where the smaller one only appears in script and the
// larger one only appears in markup. Such a pattern is merged into the larger
// element at runtime, so consolidating it alone breaks hydration.
func DetectMergeablePatterns(occurrences Occurrences) map[string]bool {
	mergeable := make(map[string]bool)

	// Bucket candidates by side so each pair is only compared once
	var scriptOnly, markupOnly []*ClassOccurrence
	for _, key := range occurrences.SortedKeys() {
		occ := occurrences[key]
		inMarkup, inScript := occ.InMarkup(), occ.InScript()
		switch {
		case inScript && !inMarkup:
			scriptOnly = append(scriptOnly, occ)
		case inMarkup && !inScript:
			markupOnly = append(markupOnly, occ)
		}
	}

	// Larger sets first so the size pre-filter can stop early
	sort.SliceStable(markupOnly, func(i, j int) bool {
		return len(markupOnly[i].Classes) > len(markupOnly[j].Classes)
	})

	for _, a := range scriptOnly {
		for _, b := range markupOnly {
			if len(b.Classes) <= len(a.Classes) {
				break
			}
			if isSubset(a.Classes, b.Classes) {
				mergeable[a.NormalizedKey] = true
				break
			}
		}
	}

	return mergeable
}

// OverlapsDynamicBase reports whether occ equals a dynamic base or is a
// proper superset of one.
func OverlapsDynamicBase(occ *ClassOccurrence, bases []DynamicBasePattern) bool {
	for _, base := range bases {
		if len(base.BaseClasses) == 0 || len(base.BaseClasses) > len(occ.Classes) {
			continue
		}
		if base.NormalizedKey == occ.NormalizedKey || isSubset(base.BaseClasses, occ.Classes) {
			return true
		}
	}
	return false
}

// DetectHydrationHazards combines subset-mergeable patterns with markup
// patterns overlapping a dynamic template-literal base.
func DetectHydrationHazards(occurrences Occurrences, bases []DynamicBasePattern) map[string]bool {
	hazards := DetectMergeablePatterns(occurrences)
	if len(bases) == 0 {
		return hazards
	}
	for key, occ := range occurrences {
		if occ.InMarkup() && OverlapsDynamicBase(occ, bases) {
			hazards[key] = true
		}
	}
	return hazards
}

// isSubset reports whether every element of small is in large
func isSubset(small, large []string) bool {
	set := make(map[string]bool, len(large))
	for _, s := range large {
		set[s] = true
	}
	for _, s := range small {
		if !set[s] {
			return false
		}
	}
	return true
}
