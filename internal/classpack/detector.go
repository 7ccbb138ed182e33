package classpack

import (
	"sort"
)

// eligibleOccurrence carries a filtered occurrence through the byte passes
type eligibleOccurrence struct {
	occ         *ClassOccurrence
	cssOverhead int
}

// DetectConsolidatablePatterns selects the occurrences worth consolidating and
// names them. The result is sorted by BytesSaved, descending.
//
// Names are handed out in frequency order so the most repeated patterns get
// the shortest names; the returned order reflects actual impact instead.
// mergeable is only consulted in SSR mode and may be nil.
func DetectConsolidatablePatterns(occurrences Occurrences, config Config, mergeable map[string]bool) []ConsolidationCandidate {
	if config.MinOccurrences < 1 || config.MinClasses < 1 || config.HashPrefix == "" {
		return []ConsolidationCandidate{}
	}

	// 1. Eligibility
	eligible := make([]eligibleOccurrence, 0, len(occurrences))
	for _, key := range occurrences.SortedKeys() {
		occ := occurrences[key]
		if !isEligible(occ, config, mergeable) {
			continue
		}
		eligible = append(eligible, eligibleOccurrence{
			occ:         occ,
			cssOverhead: EstimateCSSOverhead(len(occ.Classes)),
		})
	}

	// 2. Frequency order decides who gets the short names. Keys were visited
	// in sorted order and the sort is stable, so ties stay deterministic.
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].occ.Count > eligible[j].occ.Count
	})

	allocator := NewNameAllocator(config.Naming, config.HashPrefix, config.HashLength, reservedTokens(occurrences))

	// 3. Provisional byte filter with a placeholder name
	placeholder := allocator.PlaceholderLength()
	survivors := eligible[:0]
	for _, e := range eligible {
		estimate := (includedLength(e.occ) - placeholder) * e.occ.Count
		if estimate < config.MinBytesSaved {
			continue
		}
		if !config.ForceAll && estimate <= e.cssOverhead {
			continue
		}
		survivors = append(survivors, e)
	}

	// 4. Final names and authoritative savings
	candidates := make([]ConsolidationCandidate, 0, len(survivors))
	for _, e := range survivors {
		name := allocator.Next(e.occ.NormalizedKey)
		candidates = append(candidates, ConsolidationCandidate{
			ClassOccurrence: *e.occ,
			Frequency:       e.occ.Count,
			HashName:        name,
			BytesSaved:      CalculateBytesSaved(e.occ.ClassString, name, e.occ.Count, e.occ.ExcludedClasses),
		})
	}

	// 5. Present by impact
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].BytesSaved > candidates[j].BytesSaved
	})

	return candidates
}

// isEligible applies the per-occurrence filters
func isEligible(occ *ClassOccurrence, config Config, mergeable map[string]bool) bool {
	if occ.Count < config.MinOccurrences {
		return false
	}
	if len(occ.Classes) < config.MinClasses {
		return false
	}
	if config.SSR && !config.ForceAll {
		if !IsHydrationSafe(occ) || mergeable[occ.NormalizedKey] {
			return false
		}
	}
	if config.SkipPatternsWithExcludedClasses && len(occ.ExcludedClasses) > 0 {
		return false
	}
	return true
}

// includedLength is the byte length of the replaceable part of the raw string
func includedLength(occ *ClassOccurrence) int {
	return CalculateBytesSaved(occ.ClassString, "", 1, occ.ExcludedClasses)
}

// reservedTokens collects every class token seen in the scanned output
func reservedTokens(occurrences Occurrences) map[string]bool {
	reserved := make(map[string]bool)
	for _, occ := range occurrences {
		for _, c := range occ.Classes {
			reserved[c] = true
		}
		for _, c := range occ.ExcludedClasses {
			reserved[c] = true
		}
	}
	return reserved
}

// Summarize aggregates candidates for reporting
func Summarize(candidates []ConsolidationCandidate) Summary {
	if len(candidates) == 0 {
		return Summary{}
	}

	var s Summary
	var totalClasses int
	for _, c := range candidates {
		s.TotalOccurrences += c.Frequency
		s.TotalBytesSaved += c.BytesSaved
		totalClasses += len(c.Classes)
	}
	s.TotalPatterns = len(candidates)
	s.AvgFrequency = float64(s.TotalOccurrences) / float64(s.TotalPatterns)
	s.AvgClassesPerPattern = float64(totalClasses) / float64(s.TotalPatterns)
	return s
}
