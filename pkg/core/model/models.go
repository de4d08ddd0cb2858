package model

import "sync"

// Fraction labels used by the bundled configuration samples
const (
	FractionOrganic   = "organic"
	FractionAluminium = "aluminium"
	FractionPaper     = "paper"
	FractionGlass     = "glass"
	FractionTextiles  = "textiles"
	FractionOils      = "oils"
)

// Share is one container's part of a user's production for a fraction
type Share struct {
	// Distance from the user to the container in meters
	Distance float64

	// ContainerID is the item id of the target container
	ContainerID string

	// Weight is the normalized throw factor; the weights of a fraction sum to 1
	Weight float64
}

// DistributionTable maps each fraction to the containers a user throws into
type DistributionTable map[string][]Share

// User represents a waste producer
type User struct {
	Username string
	ItemID   string
	Name     string
	Location Coordinate

	// Type selects the standard production row (e.g. "domestic", "restaurant")
	Type string

	// DimFactor scales the standard production (household members, 50 m2 units, ...)
	DimFactor float64

	// Distribution is recomputed on every allocation and overwrites the previous result
	Distribution DistributionTable
}

// Container represents a collection point for a single waste fraction
type Container struct {
	ItemID   string
	Name     string
	Location Coordinate

	// Zone is the id of the parent zone (island) the container stands in
	Zone string

	Fraction string
	Type     string

	// Capacity is the net capacity in production units
	Capacity float64

	mu   sync.Mutex
	fill float64
}

// AddWaste credits the container with the given quantity
// The fill level only ever grows; capacity is not enforced
func (c *Container) AddWaste(quantity float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fill += quantity
}

// Filling returns the current fill level
func (c *Container) Filling() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fill
}

// FillRatio returns fill level over capacity, or 0 when capacity is unknown
func (c *Container) FillRatio() float64 {
	if c.Capacity <= 0 {
		return 0
	}
	return c.Filling() / c.Capacity
}

// Overflowing reports whether the fill level exceeds a known capacity
func (c *Container) Overflowing() bool {
	return c.Capacity > 0 && c.Filling() > c.Capacity
}

// Zone groups the containers that share a parent island
type Zone struct {
	ID         string
	Containers []*Container
}

// Filling returns the summed fill level of the zone's containers
func (z Zone) Filling() float64 {
	var total float64
	for _, c := range z.Containers {
		total += c.Filling()
	}
	return total
}

// Capacity returns the summed capacity of the zone's containers
func (z Zone) Capacity() float64 {
	var total float64
	for _, c := range z.Containers {
		total += c.Capacity
	}
	return total
}

// GroupByZone groups containers by their parent zone, preserving input order
func GroupByZone(containers []*Container) []Zone {
	index := make(map[string]int)
	var zones []Zone
	for _, c := range containers {
		i, ok := index[c.Zone]
		if !ok {
			i = len(zones)
			index[c.Zone] = i
			zones = append(zones, Zone{ID: c.Zone})
		}
		zones[i].Containers = append(zones[i].Containers, c)
	}
	return zones
}
