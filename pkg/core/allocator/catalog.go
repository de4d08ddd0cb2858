package allocator

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/jakechorley/binfill/pkg/core/geodistance"
	"github.com/jakechorley/binfill/pkg/core/model"
)

// Candidate is a container considered for a user, with its distance from the user
type Candidate struct {
	Distance    float64
	Name        string
	ContainerID string
}

// compareCandidates orders by distance, then name, then id
func compareCandidates(a, b Candidate) int {
	return cmp.Or(
		cmp.Compare(a.Distance, b.Distance),
		cmp.Compare(a.Name, b.Name),
		cmp.Compare(a.ContainerID, b.ContainerID),
	)
}

// Catalog holds the containers of a model run, addressable by id and grouped by fraction
type Catalog struct {
	containers []*model.Container
	byID       map[string]*model.Container
	byFraction map[string][]*model.Container
}

// NewCatalog indexes the given containers. Container ids must be unique.
func NewCatalog(containers []*model.Container) (*Catalog, error) {
	catalog := &Catalog{
		containers: make([]*model.Container, 0, len(containers)),
		byID:       make(map[string]*model.Container, len(containers)),
		byFraction: make(map[string][]*model.Container),
	}

	for i, c := range containers {
		if c == nil {
			return nil, fmt.Errorf("container at index %d is nil", i)
		}
		if c.ItemID == "" {
			return nil, fmt.Errorf("container at index %d has no item id", i)
		}
		if _, exists := catalog.byID[c.ItemID]; exists {
			return nil, fmt.Errorf("duplicate container id %q", c.ItemID)
		}
		catalog.containers = append(catalog.containers, c)
		catalog.byID[c.ItemID] = c
		catalog.byFraction[c.Fraction] = append(catalog.byFraction[c.Fraction], c)
	}

	return catalog, nil
}

// Container returns the container with the given id
func (c *Catalog) Container(id string) (*model.Container, bool) {
	container, ok := c.byID[id]
	return container, ok
}

// Containers returns all containers in input order
func (c *Catalog) Containers() []*model.Container {
	return c.containers
}

// Fractions returns the fractions that have at least one container, sorted
func (c *Catalog) Fractions() []string {
	fractions := make([]string, 0, len(c.byFraction))
	for fraction := range c.byFraction {
		fractions = append(fractions, fraction)
	}
	slices.Sort(fractions)
	return fractions
}

// Index returns, per fraction, every container ordered by distance from the user.
// Fractions without containers are absent from the result.
func (c *Catalog) Index(user *model.User) map[string][]Candidate {
	indexed := make(map[string][]Candidate, len(c.byFraction))

	for fraction, containers := range c.byFraction {
		candidates := make([]Candidate, 0, len(containers))
		for _, container := range containers {
			candidates = append(candidates, Candidate{
				Distance:    geodistance.Between(user, container),
				Name:        container.Name,
				ContainerID: container.ItemID,
			})
		}
		slices.SortFunc(candidates, compareCandidates)
		indexed[fraction] = candidates
	}

	return indexed
}

// Nearest returns the closest container of a fraction to the user
func (c *Catalog) Nearest(user *model.User, fraction string) (Candidate, bool) {
	var nearest Candidate
	found := false
	for _, container := range c.byFraction[fraction] {
		candidate := Candidate{
			Distance:    geodistance.Between(user, container),
			Name:        container.Name,
			ContainerID: container.ItemID,
		}
		if !found || compareCandidates(candidate, nearest) < 0 {
			nearest = candidate
			found = true
		}
	}
	return nearest, found
}
