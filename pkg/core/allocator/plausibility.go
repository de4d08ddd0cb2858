package allocator

// Plausible keeps, per fraction, the containers a user would plausibly walk to:
// the prefix of the ordered candidates closer than minDist * willFactor, where
// minDist is the nearest candidate's distance. The nearest candidate (and any
// tied with it) is always kept.
func Plausible(ordered map[string][]Candidate, willFactor float64) map[string][]Candidate {
	plausible := make(map[string][]Candidate, len(ordered))

	for fraction, candidates := range ordered {
		if len(candidates) == 0 {
			continue
		}

		minDist := candidates[0].Distance
		maxDist := minDist * willFactor

		kept := make([]Candidate, 0, len(candidates))
		for _, candidate := range candidates {
			// Sorted input: the first miss ends the plausible range
			if candidate.Distance >= maxDist && candidate.Distance != minDist {
				break
			}
			kept = append(kept, candidate)
		}
		plausible[fraction] = kept
	}

	return plausible
}
