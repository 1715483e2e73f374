package assessment

import "sort"

// ResolveTotal returns the interpretation of the band containing total.
// Bands are sorted and contiguous after Validate, so the lookup is a binary
// search. A miss means the definition is malformed.
func ResolveTotal(def *Definition, total int) (string, error) {
	bands := def.TotalBands
	i := sort.Search(len(bands), func(i int) bool { return bands[i].MaxScore >= total })
	if i == len(bands) || !bands[i].Contains(total) {
		return "", invariantf("no band covers total score %d", total)
	}
	return bands[i].Interpretation, nil
}

// ResolveDomain returns the domain's recommendation when raw is strictly
// below its low-score threshold. A score equal to the threshold is not low.
func ResolveDomain(domain Domain, raw int) (string, bool) {
	if raw < domain.LowScoreThreshold {
		return domain.Recommendation, true
	}
	return "", false
}
