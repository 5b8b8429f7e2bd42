package extract

// The selection policies below are deliberately separate, named reducers:
// several fields share the same reduction family and the choice of reducer
// per field (longest for names, most frequent for places) is part of the
// extraction contract.

// longest returns the longest string in candidates; ties are broken by first
// occurrence. Empty input returns "".
func longest(candidates []string) string {
	best := ""
	for _, c := range candidates {
		if len(c) > len(best) {
			best = c
		}
	}
	return best
}

// mostFrequent returns the candidate with the highest exact-match count;
// ties are broken by first-seen order. Empty input returns "".
func mostFrequent(candidates []string) string {
	counts := make(map[string]int, len(candidates))
	var order []string
	for _, c := range candidates {
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}
	best, bestCount := "", 0
	for _, c := range order {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}
