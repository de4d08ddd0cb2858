package allocator

import (
	"slices"

	"github.com/jakechorley/binfill/pkg/core/model"
)

// Normalize turns the plausible candidates of each fraction into shares whose
// weights sum to 1, weighting each candidate with the throw factor model
func Normalize(userID string, plausible map[string][]Candidate, tf ThrowFactor) (model.DistributionTable, error) {
	table := make(model.DistributionTable, len(plausible))

	fractions := make([]string, 0, len(plausible))
	for fraction := range plausible {
		fractions = append(fractions, fraction)
	}
	slices.Sort(fractions)

	for _, fraction := range fractions {
		candidates := plausible[fraction]
		if len(candidates) == 0 {
			continue
		}

		minDist := candidates[0].Distance
		shares := make([]model.Share, 0, len(candidates))
		var sum float64

		for _, candidate := range candidates {
			weight, err := tf.Weight(minDist, candidate.Distance)
			if err != nil {
				return nil, &ConsistencyError{UserID: userID, Fraction: fraction, ContainerID: candidate.ContainerID, Err: err}
			}
			shares = append(shares, model.Share{Distance: candidate.Distance, ContainerID: candidate.ContainerID, Weight: weight})
			sum += weight
		}

		if sum <= 0 {
			return nil, &ConsistencyError{UserID: userID, Fraction: fraction, Err: ErrZeroWeightSum}
		}

		for i := range shares {
			shares[i].Weight /= sum
		}
		table[fraction] = shares
	}

	return table, nil
}
