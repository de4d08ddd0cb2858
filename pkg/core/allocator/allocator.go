package allocator

import (
	"fmt"

	"github.com/jakechorley/binfill/pkg/core/model"
	"github.com/jakechorley/binfill/pkg/core/production"
)

// Params configures an Allocator
type Params struct {
	// WillFactor bounds how much farther than the nearest container a user will walk
	WillFactor float64

	// Shape positions the throw factor thresholds
	Shape Shape
}

// Allocator splits users' production across containers by proximity
type Allocator struct {
	throwFactor ThrowFactor
}

// New validates the parameters and returns an Allocator
func New(params Params) (*Allocator, error) {
	if !(params.WillFactor > 1) {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidWillFactor, params.WillFactor)
	}
	if err := params.Shape.Validate(); err != nil {
		return nil, err
	}
	return &Allocator{
		throwFactor: ThrowFactor{WillFactor: params.WillFactor, Shape: params.Shape},
	}, nil
}

// ThrowFactor returns the throw factor model used by the allocator
func (a *Allocator) ThrowFactor() ThrowFactor {
	return a.throwFactor
}

// IndexAndFilter returns the plausible containers per fraction for the user
func (a *Allocator) IndexAndFilter(user *model.User, catalog *Catalog) map[string][]Candidate {
	return Plausible(catalog.Index(user), a.throwFactor.WillFactor)
}

// Allocate computes the user's distribution table and stores it on the user,
// replacing any previous one. On error the user's table is left unchanged.
func (a *Allocator) Allocate(user *model.User, catalog *Catalog) (model.DistributionTable, error) {
	table, err := Normalize(user.Username, a.IndexAndFilter(user, catalog), a.throwFactor)
	if err != nil {
		return nil, err
	}
	user.Distribution = table
	return table, nil
}

// Distribute credits the containers of the table with the user's production
func (a *Allocator) Distribute(user *model.User, table model.DistributionTable, prod production.Production, catalog *Catalog) (Distribution, error) {
	return Distribute(user.Username, table, prod, catalog)
}
