package allocator

import (
	"slices"

	"github.com/jakechorley/binfill/pkg/core/model"
	"github.com/jakechorley/binfill/pkg/core/production"
)

// FractionDistribution summarizes how one fraction of a user's production was spread
type FractionDistribution struct {
	Fraction string

	// Quantity is the user's production for the fraction
	Quantity float64

	// Credited is the total added to containers; equals Quantity unless the fraction has no containers
	Credited float64

	// Containers is the number of containers credited
	Containers int
}

// Distribution is the outcome of distributing one user's production for one cycle
type Distribution struct {
	UserID    string
	Fractions []FractionDistribution
}

// Credited returns the total quantity credited to containers
func (d Distribution) Credited() float64 {
	var total float64
	for _, f := range d.Fractions {
		total += f.Credited
	}
	return total
}

// Undistributed returns the fractions with production but nowhere to put it
func (d Distribution) Undistributed() []FractionDistribution {
	var undistributed []FractionDistribution
	for _, f := range d.Fractions {
		if f.Quantity > 0 && f.Containers == 0 {
			undistributed = append(undistributed, f)
		}
	}
	return undistributed
}

type credit struct {
	container *model.Container
	quantity  float64
}

// Distribute credits each container of the table with quantity * weight of the
// user's production for the container's fraction. Every target is resolved before
// any container is touched, so on error no container has been credited.
// An undefined production distributes nothing.
func Distribute(userID string, table model.DistributionTable, prod production.Production, catalog *Catalog) (Distribution, error) {
	distribution := Distribution{UserID: userID}

	fractions := make([]string, 0, len(table)+len(prod.Quantities))
	for fraction := range table {
		fractions = append(fractions, fraction)
	}
	for fraction := range prod.Quantities {
		if _, ok := table[fraction]; !ok {
			fractions = append(fractions, fraction)
		}
	}
	slices.Sort(fractions)

	var credits []credit
	for _, fraction := range fractions {
		quantity := prod.Quantity(fraction)
		summary := FractionDistribution{Fraction: fraction, Quantity: quantity}

		for _, share := range table[fraction] {
			container, ok := catalog.Container(share.ContainerID)
			if !ok {
				return Distribution{UserID: userID}, &ConsistencyError{UserID: userID, Fraction: fraction, ContainerID: share.ContainerID, Err: ErrUnknownContainer}
			}
			if container.Fraction != fraction {
				return Distribution{UserID: userID}, &ConsistencyError{UserID: userID, Fraction: fraction, ContainerID: share.ContainerID, Err: ErrFractionMismatch}
			}
			if quantity == 0 {
				continue
			}
			amount := quantity * share.Weight
			credits = append(credits, credit{container: container, quantity: amount})
			summary.Credited += amount
			summary.Containers++
		}

		distribution.Fractions = append(distribution.Fractions, summary)
	}

	for _, c := range credits {
		c.container.AddWaste(c.quantity)
	}

	return distribution, nil
}
